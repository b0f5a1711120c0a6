package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tembill/tembill/internal/charge"
	"github.com/tembill/tembill/internal/reader"
)

// rejection_reason column width.
const maxReasonLen = 512

//go:generate mockgen -source=service.go -destination=service_mock.go -package=batch
type Repository interface {
	CreateBatch(ctx context.Context, b *Batch) error
	GetBatch(ctx context.Context, id uuid.UUID) (*Batch, error)
	ListBatches(ctx context.Context, filter ListFilter) ([]*Batch, error)
	InsertStaged(ctx context.Context, charges []*charge.Charge) error

	// Begin opens the unit of work a decision runs in. The caller owns
	// Commit/Rollback.
	Begin(ctx context.Context) (DecisionTx, error)

	// FinalizeFailed records status=FAILED in a brand-new unit of work,
	// independent of any transaction the caller may have poisoned. It clears
	// the batch's staged rows, is a no-op for missing or already-decided
	// batches, and must be callable after a rolled-back DecisionTx.
	FinalizeFailed(ctx context.Context, id uuid.UUID, reviewedBy *string, reason string) error
}

// DecisionTx is the transactional handle a terminal transition runs in.
// Everything done through it commits or rolls back as one.
type DecisionTx interface {
	StagedCharges(ctx context.Context, batchID uuid.UUID) ([]*charge.Charge, error)
	InsertFinal(ctx context.Context, table string, charges []*charge.Charge) error
	ClearStaged(ctx context.Context, batchID uuid.UUID) error

	// SetStatus performs the guarded terminal transition. It must update
	// conditionally on the row still being PENDING_APPROVAL and return
	// ErrAlreadyDecided otherwise, so a concurrent decision loses cleanly.
	SetStatus(ctx context.Context, id uuid.UUID, to Status, reviewedBy *string, reason *string) error

	Commit() error
	Rollback() error
}

// Strategy is the carrier-specific implementation of conversion, approval
// and rejection. Field mapping and final-table choice live here, not in the
// orchestrator.
type Strategy interface {
	// Convert turns validated reader rows into staged charges. Rows it
	// cannot use are dropped; returning zero charges fails the batch.
	Convert(b *Batch, rows []reader.Row) ([]*charge.Charge, error)

	// Approve converts every staged row of the batch into final records,
	// persists them and clears the staged rows, all within tx.
	Approve(ctx context.Context, tx DecisionTx, b *Batch) error

	// Reject discards the batch's staged rows within tx.
	Reject(ctx context.Context, tx DecisionTx, batchID uuid.UUID) error

	Staged(ctx context.Context, batchID uuid.UUID) ([]*charge.Charge, error)
	Final(ctx context.Context, batchID uuid.UUID) ([]*charge.Charge, error)
}

// Registry resolves a carrier identifier to its strategy. Lookup is
// case-insensitive; a miss wraps ErrUnknownCarrier.
type Registry interface {
	Resolve(carrier string) (Strategy, error)
}

type Service struct {
	repo     Repository
	registry Registry
}

func NewService(repo Repository, registry Registry) *Service {
	return &Service{repo: repo, registry: registry}
}

type CreateParams struct {
	Carrier        string
	SourceFilename string
	SourceType     string
	SourceSize     int64
	UploadedBy     string
}

type ListFilter struct {
	Status *Status
}

// Create allocates a batch and persists it as PENDING_APPROVAL. The carrier
// is resolved up front so an unknown carrier never touches storage.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Batch, error) {
	if _, err := s.registry.Resolve(params.Carrier); err != nil {
		return nil, err
	}

	b := &Batch{
		ID:             uuid.New(),
		Carrier:        params.Carrier,
		Status:         StatusPendingApproval,
		SourceFilename: params.SourceFilename,
		SourceType:     params.SourceType,
		SourceSize:     params.SourceSize,
		UploadedBy:     params.UploadedBy,
	}

	if err := s.repo.CreateBatch(ctx, b); err != nil {
		return nil, fmt.Errorf("creating batch: %w", err)
	}

	return b, nil
}

// Stage converts rows via the carrier strategy and persists the staged
// records. Any failure here, including a conversion that yields zero usable
// rows, moves the batch to FAILED before the error propagates.
func (s *Service) Stage(ctx context.Context, b *Batch, rows []reader.Row) (int, error) {
	strat, err := s.registry.Resolve(b.Carrier)
	if err != nil {
		return 0, err
	}

	staged, err := strat.Convert(b, rows)
	if err != nil {
		s.failQuietly(ctx, b.ID, truncate("conversion failed: "+err.Error(), maxReasonLen))
		return 0, fmt.Errorf("converting rows: %w", err)
	}

	if len(staged) == 0 {
		s.failQuietly(ctx, b.ID, ErrNoUsableRows.Error())
		return 0, ErrNoUsableRows
	}

	if err := s.repo.InsertStaged(ctx, staged); err != nil {
		s.failQuietly(ctx, b.ID, truncate("staging failed: "+err.Error(), maxReasonLen))
		return 0, fmt.Errorf("staging rows: %w", err)
	}

	return len(staged), nil
}

// Decide is the single entry point for human review outcomes.
func (s *Service) Decide(ctx context.Context, id uuid.UUID, action Action, reviewer, reason string) error {
	b, err := s.repo.GetBatch(ctx, id)
	if err != nil {
		return err
	}

	if b.Status != StatusPendingApproval {
		return ErrAlreadyDecided
	}

	strat, err := s.registry.Resolve(b.Carrier)
	if err != nil {
		return err
	}

	switch action {
	case ActionApprove:
		return s.approve(ctx, strat, b, reviewer)
	case ActionReject:
		return s.reject(ctx, strat, b, reviewer, reason)
	default:
		return fmt.Errorf("unknown action %q", action)
	}
}

func (s *Service) approve(ctx context.Context, strat Strategy, b *Batch, reviewer string) error {
	err := s.runApproval(ctx, strat, b, reviewer)
	if err == nil {
		return nil
	}

	// A lost race is an invalid-state error for the caller, not a batch
	// failure: the winning decision already finalized the batch.
	if errors.Is(err, ErrAlreadyDecided) {
		return err
	}

	// The approval unit of work is rolled back by now. Record FAILED in an
	// independent unit of work; if even that fails, log and move on so the
	// caller still sees the original cause.
	reason := failureReason(err)
	if ferr := s.repo.FinalizeFailed(ctx, b.ID, &reviewer, reason); ferr != nil {
		slog.Error("failed to record batch failure", "batch_id", b.ID, "error", ferr)
	}

	return &ApprovalError{BatchID: b.ID, Reason: reason, Err: err}
}

func (s *Service) runApproval(ctx context.Context, strat Strategy, b *Batch, reviewer string) error {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin approval: %w", err)
	}
	defer tx.Rollback()

	if err := strat.Approve(ctx, tx, b); err != nil {
		return fmt.Errorf("carrier approval: %w", err)
	}

	if err := tx.SetStatus(ctx, b.ID, StatusApproved, &reviewer, nil); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit approval: %w", err)
	}

	return nil
}

// reject discards staged rows and records REJECTED in one unit of work.
// Rejection errors propagate 1:1; there is no half-applied final-table risk
// to compensate for.
func (s *Service) reject(ctx context.Context, strat Strategy, b *Batch, reviewer, reason string) error {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin rejection: %w", err)
	}
	defer tx.Rollback()

	if err := strat.Reject(ctx, tx, b.ID); err != nil {
		return fmt.Errorf("carrier rejection: %w", err)
	}

	reason = truncate(reason, maxReasonLen)
	if err := tx.SetStatus(ctx, b.ID, StatusRejected, &reviewer, &reason); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rejection: %w", err)
	}

	return nil
}

// MarkFailed is the ingestion-time escape hatch: it moves a batch straight
// to FAILED in its own unit of work, with no reviewer. No-op if the batch is
// missing or already terminal.
func (s *Service) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return s.repo.FinalizeFailed(ctx, id, nil, truncate(reason, maxReasonLen))
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Batch, error) {
	return s.repo.GetBatch(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Batch, error) {
	return s.repo.ListBatches(ctx, filter)
}

// Staged returns the batch and its staged charges for review. Only
// PENDING_APPROVAL batches have reviewable staged rows.
func (s *Service) Staged(ctx context.Context, id uuid.UUID) (*Batch, []*charge.Charge, error) {
	b, err := s.repo.GetBatch(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if b.Status != StatusPendingApproval {
		return nil, nil, ErrInvalidState
	}

	strat, err := s.registry.Resolve(b.Carrier)
	if err != nil {
		return nil, nil, err
	}

	charges, err := strat.Staged(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("listing staged charges: %w", err)
	}

	return b, charges, nil
}

// Final returns the batch and its authoritative charges. Requesting final
// records for a non-APPROVED batch is an invalid-state error.
func (s *Service) Final(ctx context.Context, id uuid.UUID) (*Batch, []*charge.Charge, error) {
	b, err := s.repo.GetBatch(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if b.Status != StatusApproved {
		return nil, nil, ErrInvalidState
	}

	strat, err := s.registry.Resolve(b.Carrier)
	if err != nil {
		return nil, nil, err
	}

	charges, err := strat.Final(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("listing final charges: %w", err)
	}

	return b, charges, nil
}

func (s *Service) failQuietly(ctx context.Context, id uuid.UUID, reason string) {
	if err := s.repo.FinalizeFailed(ctx, id, nil, reason); err != nil {
		slog.Error("failed to record batch failure", "batch_id", id, "error", err)
	}
}

// failureReason classifies an approval failure into the user-facing reason
// stored on the batch. A duplicate natural key gets a specific message;
// anything else a generic one.
func failureReason(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return "duplicate billing records: this invoice appears to have been approved already"
	}

	return truncate("approval failed: "+err.Error(), maxReasonLen)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n]
}
