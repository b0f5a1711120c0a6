package carrier

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tembill/tembill/internal/batch"
	"github.com/tembill/tembill/internal/charge"
	chargestore "github.com/tembill/tembill/internal/charge/store"
)

// Core implements the approval, rejection and listing halves of
// batch.Strategy. Carrier packages embed it and add their own Convert; the
// final-table choice stays with the carrier.
type Core struct {
	carrier    charge.Carrier
	finalTable string
	charges    *chargestore.Store
}

func NewCore(c charge.Carrier, charges *chargestore.Store) Core {
	return Core{carrier: c, finalTable: charge.FinalTables[c], charges: charges}
}

func (c Core) Carrier() charge.Carrier { return c.carrier }

// Approve converts every staged row of the batch into a final record in the
// carrier's table and clears the staged set, all within tx. Each final
// record traces back to exactly one staged record of the same batch.
func (c Core) Approve(ctx context.Context, tx batch.DecisionTx, b *batch.Batch) error {
	staged, err := tx.StagedCharges(ctx, b.ID)
	if err != nil {
		return err
	}

	if len(staged) == 0 {
		return fmt.Errorf("batch %s has no staged charges", b.ID)
	}

	finals := make([]*charge.Charge, len(staged))

	for i, sc := range staged {
		f := *sc
		f.ID = uuid.New()
		f.Status = string(batch.StatusApproved)
		finals[i] = &f
	}

	if err := tx.InsertFinal(ctx, c.finalTable, finals); err != nil {
		return err
	}

	return tx.ClearStaged(ctx, b.ID)
}

func (c Core) Reject(ctx context.Context, tx batch.DecisionTx, batchID uuid.UUID) error {
	return tx.ClearStaged(ctx, batchID)
}

func (c Core) Staged(ctx context.Context, batchID uuid.UUID) ([]*charge.Charge, error) {
	return c.charges.Staged(ctx, batchID)
}

func (c Core) Final(ctx context.Context, batchID uuid.UUID) ([]*charge.Charge, error) {
	return c.charges.Final(ctx, c.finalTable, batchID)
}

// NewStaged seeds a charge with the batch-level fields every carrier fills
// the same way.
func NewStaged(b *batch.Batch, sourceFilename string) *charge.Charge {
	if sourceFilename == "" {
		sourceFilename = b.SourceFilename
	}

	return &charge.Charge{
		BatchID:        b.ID,
		Carrier:        charge.Carrier(strings.ToLower(b.Carrier)),
		SourceFilename: sourceFilename,
		Status:         string(batch.StatusPendingApproval),
	}
}

// ParseCents parses a money string ("1,234.56", "$10.00", "(5.00)", "-5.00")
// into cents. Empty strings are zero.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	negative := false

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}

	cents := int64(math.Round(v * 100))
	if negative {
		cents = -cents
	}

	return cents, nil
}

var dateLayouts = []string{"01/02/2006", "01/02/06", "2006-01-02", "1/2/2006"}

// ParseDate tries the date layouts carriers actually ship. Returns nil for
// empty or unparseable values.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}

	return nil
}

// ParseInt parses a quantity cell, tolerating decimals like "3.0".
func ParseInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	if n, err := strconv.Atoi(s); err == nil {
		return n
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return int(v)
	}

	return 0
}

// ParseMinutes parses a fractional-minutes cell.
func ParseMinutes(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}

	return v
}
