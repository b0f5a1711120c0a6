package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/tembill/tembill/internal/batch"
	"github.com/tembill/tembill/internal/charge"
	chargestore "github.com/tembill/tembill/internal/charge/store"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectBatchColumns = `
	id, carrier, status, source_filename, source_type, source_size,
	uploaded_by, created_at, reviewed_by, reviewed_at, rejection_reason
`

func scanBatch(s scanner) (*batch.Batch, error) {
	var (
		b          batch.Batch
		status     string
		reviewedBy sql.NullString
		reviewedAt sql.NullTime
		reason     sql.NullString
	)

	if err := s.Scan(
		&b.ID, &b.Carrier, &status, &b.SourceFilename, &b.SourceType, &b.SourceSize,
		&b.UploadedBy, &b.CreatedAt, &reviewedBy, &reviewedAt, &reason,
	); err != nil {
		return nil, err
	}

	b.Status = batch.Status(status)

	if reviewedBy.Valid {
		b.ReviewedBy = &reviewedBy.String
	}

	if reviewedAt.Valid {
		t := reviewedAt.Time
		b.ReviewedAt = &t
	}

	if reason.Valid {
		b.RejectionReason = &reason.String
	}

	return &b, nil
}

func (s *Store) CreateBatch(ctx context.Context, b *batch.Batch) error {
	query := `
		INSERT INTO batches (id, carrier, status, source_filename, source_type, source_size, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		b.ID,
		b.Carrier,
		string(b.Status),
		b.SourceFilename,
		b.SourceType,
		b.SourceSize,
		b.UploadedBy,
	).Scan(&b.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating batch: %w", err)
	}

	return nil
}

func (s *Store) GetBatch(ctx context.Context, id uuid.UUID) (*batch.Batch, error) {
	query := `SELECT ` + selectBatchColumns + ` FROM batches WHERE id = $1`

	b, err := scanBatch(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, batch.ErrNotFound
		}

		return nil, fmt.Errorf("getting batch: %w", err)
	}

	return b, nil
}

func (s *Store) ListBatches(ctx context.Context, filter batch.ListFilter) ([]*batch.Batch, error) {
	query := `SELECT ` + selectBatchColumns + ` FROM batches`

	var args []any

	if filter.Status != nil {
		query += ` WHERE status = $1`

		args = append(args, string(*filter.Status))
	}

	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing batches: %w", err)
	}
	defer rows.Close()

	var batches []*batch.Batch

	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning batch: %w", err)
		}

		batches = append(batches, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating batches: %w", err)
	}

	return batches, nil
}

func (s *Store) InsertStaged(ctx context.Context, charges []*charge.Charge) error {
	return chargestore.InsertCharges(ctx, s.db, chargestore.StagedTable, charges)
}

type decisionTx struct {
	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context) (batch.DecisionTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning decision tx: %w", err)
	}

	return &decisionTx{tx: tx}, nil
}

func (d *decisionTx) Commit() error   { return d.tx.Commit() }
func (d *decisionTx) Rollback() error { return d.tx.Rollback() }

func (d *decisionTx) StagedCharges(ctx context.Context, batchID uuid.UUID) ([]*charge.Charge, error) {
	return chargestore.ListCharges(ctx, d.tx, chargestore.StagedTable, batchID)
}

func (d *decisionTx) InsertFinal(ctx context.Context, table string, charges []*charge.Charge) error {
	return chargestore.InsertCharges(ctx, d.tx, table, charges)
}

func (d *decisionTx) ClearStaged(ctx context.Context, batchID uuid.UUID) error {
	return chargestore.DeleteStaged(ctx, d.tx, batchID)
}

// SetStatus performs the guarded terminal transition. The WHERE clause on
// PENDING_APPROVAL is the optimistic lock: of two racing decisions, the
// second sees zero affected rows and loses with ErrAlreadyDecided.
func (d *decisionTx) SetStatus(ctx context.Context, id uuid.UUID, to batch.Status, reviewedBy, reason *string) error {
	query := `
		UPDATE batches
		SET status = $1, reviewed_by = $2, reviewed_at = NOW(), rejection_reason = $3
		WHERE id = $4 AND status = $5
	`

	res, err := d.tx.ExecContext(ctx, query, string(to), reviewedBy, reason, id, string(batch.StatusPendingApproval))
	if err != nil {
		return fmt.Errorf("setting batch status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("setting batch status: %w", err)
	}

	if n == 0 {
		return batch.ErrAlreadyDecided
	}

	return nil
}

// FinalizeFailed records status=FAILED and clears staged rows in a
// brand-new transaction on the pool, never on a caller's (possibly already
// rolled-back) one. No-op when the batch is missing or already terminal.
// Ingestion-time failures carry no reviewer, so reviewed_at stays NULL
// unless a reviewer is recorded.
func (s *Store) FinalizeFailed(ctx context.Context, id uuid.UUID, reviewedBy *string, reason string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning failure tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE batches
		SET status = $1, reviewed_by = $2,
			reviewed_at = CASE WHEN $2::text IS NULL THEN NULL ELSE NOW() END,
			rejection_reason = $3
		WHERE id = $4 AND status = $5
	`

	res, err := tx.ExecContext(ctx, query,
		string(batch.StatusFailed), reviewedBy, reason, id, string(batch.StatusPendingApproval))
	if err != nil {
		return fmt.Errorf("recording batch failure: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("recording batch failure: %w", err)
	}

	if n == 0 {
		return nil
	}

	if err := chargestore.DeleteStaged(ctx, tx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch failure: %w", err)
	}

	return nil
}
