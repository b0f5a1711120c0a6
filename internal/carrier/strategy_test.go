package carrier_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tembill/tembill/internal/batch"
	"github.com/tembill/tembill/internal/carrier"
	"github.com/tembill/tembill/internal/carrier/att"
	"github.com/tembill/tembill/internal/charge"
)

func TestRegistry_Resolve(t *testing.T) {
	reg := carrier.NewRegistry()
	strat := att.New(nil)
	reg.Register("att", strat)

	got, err := reg.Resolve("att")
	require.NoError(t, err)
	assert.Same(t, batch.Strategy(strat), got)

	// Lookup normalizes case and surrounding whitespace.
	got, err = reg.Resolve("  ATT ")
	require.NoError(t, err)
	assert.Same(t, batch.Strategy(strat), got)

	_, err = reg.Resolve("tmobile")
	assert.ErrorIs(t, err, batch.ErrUnknownCarrier)
}

func TestCore_Approve(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tx := batch.NewMockDecisionTx(ctrl)
	core := carrier.NewCore(charge.CarrierATT, nil)
	b := &batch.Batch{ID: uuid.New(), Carrier: "att"}

	staged := []*charge.Charge{
		{ID: uuid.New(), BatchID: b.ID, AccountNumber: "123", Status: string(batch.StatusPendingApproval)},
		{ID: uuid.New(), BatchID: b.ID, AccountNumber: "456", Status: string(batch.StatusPendingApproval)},
	}

	tx.EXPECT().StagedCharges(gomock.Any(), b.ID).Return(staged, nil)
	tx.EXPECT().
		InsertFinal(gomock.Any(), charge.FinalTables[charge.CarrierATT], gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, finals []*charge.Charge) error {
			require.Len(t, finals, 2)

			for i, f := range finals {
				// Final records are copies with fresh ids, not moved rows.
				assert.NotEqual(t, staged[i].ID, f.ID)
				assert.Equal(t, staged[i].BatchID, f.BatchID)
				assert.Equal(t, staged[i].AccountNumber, f.AccountNumber)
				assert.Equal(t, string(batch.StatusApproved), f.Status)
			}

			return nil
		})
	tx.EXPECT().ClearStaged(gomock.Any(), b.ID).Return(nil)

	err := core.Approve(context.Background(), tx, b)
	require.NoError(t, err)
}

func TestCore_Approve_NoStagedCharges(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tx := batch.NewMockDecisionTx(ctrl)
	core := carrier.NewCore(charge.CarrierATT, nil)
	b := &batch.Batch{ID: uuid.New(), Carrier: "att"}

	tx.EXPECT().StagedCharges(gomock.Any(), b.ID).Return(nil, nil)

	err := core.Approve(context.Background(), tx, b)
	assert.Error(t, err)
}

func TestCore_Reject(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tx := batch.NewMockDecisionTx(ctrl)
	core := carrier.NewCore(charge.CarrierATT, nil)
	id := uuid.New()

	tx.EXPECT().ClearStaged(gomock.Any(), id).Return(nil)

	require.NoError(t, core.Reject(context.Background(), tx, id))
}

func TestParseCents(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}

	tests := []testCase{
		{name: "Empty", input: "", want: 0},
		{name: "Plain", input: "10.00", want: 1000},
		{name: "Thousands", input: "1,234.56", want: 123456},
		{name: "DollarSign", input: "$10.50", want: 1050},
		{name: "Negative", input: "-5.00", want: -500},
		{name: "ParensNegative", input: "(5.00)", want: -500},
		{name: "SubCentRounds", input: "0.005", want: 1},
		{name: "Garbage", input: "ten dollars", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := carrier.ParseCents(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{"07/15/2024", "07/15/24", "2024-07-15", "7/15/2024"} {
		got := carrier.ParseDate(input)
		require.NotNil(t, got, input)
		assert.Equal(t, want, *got, input)
	}

	assert.Nil(t, carrier.ParseDate(""))
	assert.Nil(t, carrier.ParseDate("July 15th"))
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 3, carrier.ParseInt("3"))
	assert.Equal(t, 3, carrier.ParseInt("3.0"))
	assert.Equal(t, 0, carrier.ParseInt(""))
	assert.Equal(t, 0, carrier.ParseInt("n/a"))
}
