package batch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tembill/tembill/internal/batch"
	"github.com/tembill/tembill/internal/charge"
	"github.com/tembill/tembill/internal/reader"
)

func TestService_Create(t *testing.T) {
	type args struct {
		params batch.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(repo *batch.MockRepository, reg *batch.MockRegistry, strat *batch.MockStrategy)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: batch.CreateParams{
					Carrier:        "att",
					SourceFilename: "invoice.csv",
					SourceType:     "csv",
					SourceSize:     1024,
					UploadedBy:     "uploader",
				},
			},
			setupMock: func(repo *batch.MockRepository, reg *batch.MockRegistry, strat *batch.MockStrategy) {
				reg.EXPECT().Resolve("att").Return(strat, nil)
				repo.EXPECT().CreateBatch(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "UnknownCarrierNeverPersists",
			args: args{
				params: batch.CreateParams{Carrier: "sprint"},
			},
			setupMock: func(repo *batch.MockRepository, reg *batch.MockRegistry, strat *batch.MockStrategy) {
				reg.EXPECT().Resolve("sprint").Return(nil, batch.ErrUnknownCarrier)
			},
			wantErr: batch.ErrUnknownCarrier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := batch.NewMockRepository(ctrl)
			reg := batch.NewMockRegistry(ctrl)
			strat := batch.NewMockStrategy(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, reg, strat)
			}

			svc := batch.NewService(repo, reg)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, batch.StatusPendingApproval, got.Status)
			assert.Equal(t, "invoice.csv", got.SourceFilename)
		})
	}
}

func TestService_Stage(t *testing.T) {
	b := &batch.Batch{ID: uuid.New(), Carrier: "att", Status: batch.StatusPendingApproval}
	rows := []reader.Row{{"Account Number": "123"}}
	staged := []*charge.Charge{{BatchID: b.ID}}

	type testCase struct {
		name      string
		setupMock func(repo *batch.MockRepository, reg *batch.MockRegistry, strat *batch.MockStrategy)
		wantCount int
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(repo *batch.MockRepository, reg *batch.MockRegistry, strat *batch.MockStrategy) {
				reg.EXPECT().Resolve("att").Return(strat, nil)
				strat.EXPECT().Convert(b, rows).Return(staged, nil)
				repo.EXPECT().InsertStaged(gomock.Any(), staged).Return(nil)
			},
			wantCount: 1,
		},
		{
			name: "ConversionErrorFailsBatch",
			setupMock: func(repo *batch.MockRepository, reg *batch.MockRegistry, strat *batch.MockStrategy) {
				reg.EXPECT().Resolve("att").Return(strat, nil)
				strat.EXPECT().Convert(b, rows).Return(nil, errors.New("bad amount"))
				repo.EXPECT().FinalizeFailed(gomock.Any(), b.ID, gomock.Nil(), gomock.Any()).Return(nil)
			},
			wantErr: errors.New("converting rows: bad amount"),
		},
		{
			name: "ZeroUsableRowsFailsBatch",
			setupMock: func(repo *batch.MockRepository, reg *batch.MockRegistry, strat *batch.MockStrategy) {
				reg.EXPECT().Resolve("att").Return(strat, nil)
				strat.EXPECT().Convert(b, rows).Return(nil, nil)
				repo.EXPECT().FinalizeFailed(gomock.Any(), b.ID, gomock.Nil(), batch.ErrNoUsableRows.Error()).Return(nil)
			},
			wantErr: batch.ErrNoUsableRows,
		},
		{
			name: "InsertErrorFailsBatch",
			setupMock: func(repo *batch.MockRepository, reg *batch.MockRegistry, strat *batch.MockStrategy) {
				reg.EXPECT().Resolve("att").Return(strat, nil)
				strat.EXPECT().Convert(b, rows).Return(staged, nil)
				repo.EXPECT().InsertStaged(gomock.Any(), staged).Return(errors.New("db down"))
				repo.EXPECT().FinalizeFailed(gomock.Any(), b.ID, gomock.Nil(), gomock.Any()).Return(nil)
			},
			wantErr: errors.New("staging rows: db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := batch.NewMockRepository(ctrl)
			reg := batch.NewMockRegistry(ctrl)
			strat := batch.NewMockStrategy(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, reg, strat)
			}

			svc := batch.NewService(repo, reg)
			count, err := svc.Stage(context.Background(), b, rows)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr.Error(), err.Error())
				assert.Zero(t, count)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}

func TestService_Decide_ApproveSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := batch.NewMockRepository(ctrl)
	reg := batch.NewMockRegistry(ctrl)
	strat := batch.NewMockStrategy(ctrl)
	tx := batch.NewMockDecisionTx(ctrl)
	svc := batch.NewService(repo, reg)

	b := &batch.Batch{ID: uuid.New(), Carrier: "verizon", Status: batch.StatusPendingApproval}
	reviewer := "reviewer"

	repo.EXPECT().GetBatch(gomock.Any(), b.ID).Return(b, nil)
	reg.EXPECT().Resolve("verizon").Return(strat, nil)
	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	strat.EXPECT().Approve(gomock.Any(), tx, b).Return(nil)
	tx.EXPECT().SetStatus(gomock.Any(), b.ID, batch.StatusApproved, &reviewer, gomock.Nil()).Return(nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(errors.New("already committed"))

	err := svc.Decide(context.Background(), b.ID, batch.ActionApprove, reviewer, "")
	require.NoError(t, err)
}

func TestService_Decide_ApproveFailureRecordsFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := batch.NewMockRepository(ctrl)
	reg := batch.NewMockRegistry(ctrl)
	strat := batch.NewMockStrategy(ctrl)
	tx := batch.NewMockDecisionTx(ctrl)
	svc := batch.NewService(repo, reg)

	b := &batch.Batch{ID: uuid.New(), Carrier: "verizon", Status: batch.StatusPendingApproval}
	reviewer := "reviewer"
	cause := errors.New("insert blew up")

	repo.EXPECT().GetBatch(gomock.Any(), b.ID).Return(b, nil)
	reg.EXPECT().Resolve("verizon").Return(strat, nil)
	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	strat.EXPECT().Approve(gomock.Any(), tx, b).Return(cause)
	tx.EXPECT().Rollback().Return(nil)
	repo.EXPECT().FinalizeFailed(gomock.Any(), b.ID, &reviewer, gomock.Any()).Return(nil)

	err := svc.Decide(context.Background(), b.ID, batch.ActionApprove, reviewer, "")
	require.Error(t, err)

	var approvalErr *batch.ApprovalError
	require.ErrorAs(t, err, &approvalErr)
	assert.Equal(t, b.ID, approvalErr.BatchID)
	assert.ErrorIs(t, err, cause)
}

func TestService_Decide_LostRaceSkipsCompensation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := batch.NewMockRepository(ctrl)
	reg := batch.NewMockRegistry(ctrl)
	strat := batch.NewMockStrategy(ctrl)
	tx := batch.NewMockDecisionTx(ctrl)
	svc := batch.NewService(repo, reg)

	b := &batch.Batch{ID: uuid.New(), Carrier: "att", Status: batch.StatusPendingApproval}
	reviewer := "second-reviewer"

	repo.EXPECT().GetBatch(gomock.Any(), b.ID).Return(b, nil)
	reg.EXPECT().Resolve("att").Return(strat, nil)
	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	strat.EXPECT().Approve(gomock.Any(), tx, b).Return(nil)
	tx.EXPECT().SetStatus(gomock.Any(), b.ID, batch.StatusApproved, &reviewer, gomock.Nil()).Return(batch.ErrAlreadyDecided)
	tx.EXPECT().Rollback().Return(nil)
	// No FinalizeFailed: the winning decision already finalized the batch.

	err := svc.Decide(context.Background(), b.ID, batch.ActionApprove, reviewer, "")
	assert.ErrorIs(t, err, batch.ErrAlreadyDecided)
}

func TestService_Decide_Reject(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := batch.NewMockRepository(ctrl)
	reg := batch.NewMockRegistry(ctrl)
	strat := batch.NewMockStrategy(ctrl)
	tx := batch.NewMockDecisionTx(ctrl)
	svc := batch.NewService(repo, reg)

	b := &batch.Batch{ID: uuid.New(), Carrier: "att", Status: batch.StatusPendingApproval}
	reviewer := "reviewer"
	reason := "wrong billing period"

	repo.EXPECT().GetBatch(gomock.Any(), b.ID).Return(b, nil)
	reg.EXPECT().Resolve("att").Return(strat, nil)
	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	strat.EXPECT().Reject(gomock.Any(), tx, b.ID).Return(nil)
	tx.EXPECT().SetStatus(gomock.Any(), b.ID, batch.StatusRejected, &reviewer, &reason).Return(nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(errors.New("already committed"))

	err := svc.Decide(context.Background(), b.ID, batch.ActionReject, reviewer, reason)
	require.NoError(t, err)
}

func TestService_Decide_AlreadyTerminal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := batch.NewMockRepository(ctrl)
	reg := batch.NewMockRegistry(ctrl)
	svc := batch.NewService(repo, reg)

	b := &batch.Batch{ID: uuid.New(), Carrier: "att", Status: batch.StatusApproved}

	repo.EXPECT().GetBatch(gomock.Any(), b.ID).Return(b, nil)

	err := svc.Decide(context.Background(), b.ID, batch.ActionApprove, "reviewer", "")
	assert.ErrorIs(t, err, batch.ErrAlreadyDecided)
}

func TestService_Staged_RequiresPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := batch.NewMockRepository(ctrl)
	reg := batch.NewMockRegistry(ctrl)
	svc := batch.NewService(repo, reg)

	b := &batch.Batch{ID: uuid.New(), Carrier: "att", Status: batch.StatusRejected}

	repo.EXPECT().GetBatch(gomock.Any(), b.ID).Return(b, nil)

	_, _, err := svc.Staged(context.Background(), b.ID)
	assert.ErrorIs(t, err, batch.ErrInvalidState)
}

func TestService_Final_RequiresApproved(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := batch.NewMockRepository(ctrl)
	reg := batch.NewMockRegistry(ctrl)
	svc := batch.NewService(repo, reg)

	b := &batch.Batch{ID: uuid.New(), Carrier: "att", Status: batch.StatusPendingApproval}

	repo.EXPECT().GetBatch(gomock.Any(), b.ID).Return(b, nil)

	_, _, err := svc.Final(context.Background(), b.ID)
	assert.ErrorIs(t, err, batch.ErrInvalidState)
}

func TestService_Final_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := batch.NewMockRepository(ctrl)
	reg := batch.NewMockRegistry(ctrl)
	strat := batch.NewMockStrategy(ctrl)
	svc := batch.NewService(repo, reg)

	b := &batch.Batch{ID: uuid.New(), Carrier: "att", Status: batch.StatusApproved}
	finals := []*charge.Charge{{BatchID: b.ID}, {BatchID: b.ID}}

	repo.EXPECT().GetBatch(gomock.Any(), b.ID).Return(b, nil)
	reg.EXPECT().Resolve("att").Return(strat, nil)
	strat.EXPECT().Final(gomock.Any(), b.ID).Return(finals, nil)

	got, charges, err := svc.Final(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, got)
	assert.Len(t, charges, 2)
}
