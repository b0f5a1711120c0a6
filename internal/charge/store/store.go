package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/tembill/tembill/internal/charge"
)

// StagedTable holds unapproved rows for every carrier; final rows live in
// per-carrier tables (charge.FinalTables).
const StagedTable = "staged_charges"

// DBTX is satisfied by both *sql.DB and *sql.Tx so the same queries run
// inside and outside a decision's unit of work.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const chargeColumns = `
	id, batch_id, carrier, source_filename, status,
	account_number, invoice_number, invoice_date, department, vis_code,
	item_number, product_id, feature_name, provider, contract,
	quantity, minutes, charge_type, bill_period,
	contract_rate, total_charge, recurring_charge,
	btn, service_id, street, city, state, zip,
	description, created_at
`

// ValidTable reports whether a charge table name is one this schema owns.
// Table names are interpolated into SQL, so everything funnels through here.
func ValidTable(table string) bool {
	if table == StagedTable {
		return true
	}

	for _, t := range charge.FinalTables {
		if t == table {
			return true
		}
	}

	return false
}

func scanCharge(s scanner) (*charge.Charge, error) {
	var (
		c           charge.Charge
		carrier     string
		invoiceDate sql.NullTime
	)

	if err := s.Scan(
		&c.ID, &c.BatchID, &carrier, &c.SourceFilename, &c.Status,
		&c.AccountNumber, &c.InvoiceNumber, &invoiceDate, &c.Department, &c.VisCode,
		&c.ItemNumber, &c.ProductID, &c.FeatureName, &c.Provider, &c.Contract,
		&c.Quantity, &c.Minutes, &c.ChargeType, &c.BillPeriod,
		&c.ContractRate, &c.TotalCharge, &c.RecurringCharge,
		&c.BTN, &c.ServiceID, &c.Street, &c.City, &c.State, &c.Zip,
		&c.Description, &c.CreatedAt,
	); err != nil {
		return nil, err
	}

	c.Carrier = charge.Carrier(carrier)

	if invoiceDate.Valid {
		t := invoiceDate.Time
		c.InvoiceDate = &t
	}

	return &c, nil
}

// InsertCharges writes charges into the given table. Callers pass either the
// staged table or the final table their strategy owns.
func InsertCharges(ctx context.Context, db DBTX, table string, charges []*charge.Charge) error {
	if !ValidTable(table) {
		return fmt.Errorf("unknown charge table %q", table)
	}

	query := `
		INSERT INTO ` + table + ` (` + chargeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19,
		        $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, NOW())
	`

	for _, c := range charges {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}

		var invoiceDate any
		if c.InvoiceDate != nil {
			invoiceDate = *c.InvoiceDate
		}

		if _, err := db.ExecContext(ctx, query,
			c.ID, c.BatchID, string(c.Carrier), c.SourceFilename, c.Status,
			c.AccountNumber, c.InvoiceNumber, invoiceDate, c.Department, c.VisCode,
			c.ItemNumber, c.ProductID, c.FeatureName, c.Provider, c.Contract,
			c.Quantity, c.Minutes, c.ChargeType, c.BillPeriod,
			c.ContractRate, c.TotalCharge, c.RecurringCharge,
			c.BTN, c.ServiceID, c.Street, c.City, c.State, c.Zip,
			c.Description,
		); err != nil {
			return fmt.Errorf("inserting charge into %s: %w", table, err)
		}
	}

	return nil
}

// ListCharges returns the charges of a batch from the given table, in
// insertion order.
func ListCharges(ctx context.Context, db DBTX, table string, batchID uuid.UUID) ([]*charge.Charge, error) {
	if !ValidTable(table) {
		return nil, fmt.Errorf("unknown charge table %q", table)
	}

	query := `SELECT ` + chargeColumns + ` FROM ` + table + `
		WHERE batch_id = $1
		ORDER BY created_at, id`

	rows, err := db.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("listing charges from %s: %w", table, err)
	}
	defer rows.Close()

	var charges []*charge.Charge

	for rows.Next() {
		c, err := scanCharge(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning charge: %w", err)
		}

		charges = append(charges, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating charges: %w", err)
	}

	return charges, nil
}

// DeleteStaged clears a batch's staged rows.
func DeleteStaged(ctx context.Context, db DBTX, batchID uuid.UUID) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM `+StagedTable+` WHERE batch_id = $1`, batchID); err != nil {
		return fmt.Errorf("clearing staged charges: %w", err)
	}

	return nil
}

// Store is the read/correction side used by strategies and admin tooling.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Staged(ctx context.Context, batchID uuid.UUID) ([]*charge.Charge, error) {
	return ListCharges(ctx, s.db, StagedTable, batchID)
}

func (s *Store) Final(ctx context.Context, table string, batchID uuid.UUID) ([]*charge.Charge, error) {
	return ListCharges(ctx, s.db, table, batchID)
}

// CorrectRecurringCharge is the one sanctioned post-hoc mutation of a final
// record. It runs outside the approval pipeline.
func (s *Store) CorrectRecurringCharge(ctx context.Context, table string, id uuid.UUID, cents int64) error {
	if !ValidTable(table) || table == StagedTable {
		return fmt.Errorf("unknown final charge table %q", table)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE `+table+` SET recurring_charge = $1 WHERE id = $2`, cents, id)
	if err != nil {
		return fmt.Errorf("correcting recurring charge: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	return nil
}
