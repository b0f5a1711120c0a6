package batch

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a batch. PendingApproval is the only
// non-terminal status; terminal transitions are one-way.
type Status string

const (
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusApproved        Status = "APPROVED"
	StatusRejected        Status = "REJECTED"
	StatusFailed          Status = "FAILED"
)

// Action is a human review outcome.
type Action string

const (
	ActionApprove Action = "APPROVE"
	ActionReject  Action = "REJECT"
)

var (
	ErrNotFound = errors.New("batch not found")

	// ErrAlreadyDecided means the batch has already left PENDING_APPROVAL.
	ErrAlreadyDecided = errors.New("batch already decided")

	// ErrUnknownCarrier means no strategy is registered for the carrier.
	// This is a configuration error, never a runtime fallback.
	ErrUnknownCarrier = errors.New("unknown carrier")

	// ErrInvalidState guards listings that only make sense in one status,
	// e.g. final records of a batch that is not APPROVED.
	ErrInvalidState = errors.New("batch is not in a valid state for this operation")

	// ErrNoUsableRows means conversion yielded nothing stageable.
	ErrNoUsableRows = errors.New("no usable rows in upload")
)

// ApprovalError wraps the cause of a failed approval. By the time the caller
// sees it, the batch has already been moved to FAILED in an independent unit
// of work (best effort).
type ApprovalError struct {
	BatchID uuid.UUID
	Reason  string
	Err     error
}

func (e *ApprovalError) Error() string {
	return fmt.Sprintf("approval of batch %s failed: %s", e.BatchID, e.Reason)
}

func (e *ApprovalError) Unwrap() error { return e.Err }

// Batch is one upload. Provenance fields are immutable after creation;
// review fields are set only on a terminal transition.
type Batch struct {
	ID             uuid.UUID
	Carrier        string
	Status         Status
	SourceFilename string
	SourceType     string
	SourceSize     int64
	UploadedBy     string
	CreatedAt      time.Time

	ReviewedBy      *string
	ReviewedAt      *time.Time
	RejectionReason *string
}
