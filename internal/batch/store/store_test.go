package store_test

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tembill/tembill/internal/batch"
	"github.com/tembill/tembill/internal/batch/store"
)

// The failure UPDATE derives reviewed_at from the reviewer argument, so an
// ingestion-time failure (no reviewer) leaves the review timestamp NULL.
const failureUpdatePattern = `CASE WHEN \$2::text IS NULL THEN NULL ELSE NOW\(\) END`

func TestFinalizeFailed_IngestionTimeHasNoReviewer(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(failureUpdatePattern).
		WithArgs(string(batch.StatusFailed), nil, "no usable rows in upload", id, string(batch.StatusPendingApproval)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM staged_charges WHERE batch_id = $1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	s := store.New(db)
	require.NoError(t, s.FinalizeFailed(context.Background(), id, nil, "no usable rows in upload"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalizeFailed_DecisionTimeRecordsReviewer(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	reviewer := "reviewer"

	mock.ExpectBegin()
	mock.ExpectExec(failureUpdatePattern).
		WithArgs(string(batch.StatusFailed), reviewer, "duplicate records", id, string(batch.StatusPendingApproval)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM staged_charges WHERE batch_id = $1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s := store.New(db)
	require.NoError(t, s.FinalizeFailed(context.Background(), id, &reviewer, "duplicate records"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalizeFailed_AlreadyTerminalIsNoOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(failureUpdatePattern).
		WithArgs(string(batch.StatusFailed), nil, "late failure", id, string(batch.StatusPendingApproval)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	s := store.New(db)
	require.NoError(t, s.FinalizeFailed(context.Background(), id, nil, "late failure"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
