package charge

import (
	"time"

	"github.com/google/uuid"
)

// Carrier identifies which strategy produced a charge and which final table
// it belongs to.
type Carrier string

const (
	CarrierATT         Carrier = "att"
	CarrierVerizon     Carrier = "verizon"
	CarrierCenturyLink Carrier = "centurylink"
)

// FinalTables maps a carrier to its authoritative table. Stores use it as a
// whitelist; strategies use it to pick their target.
var FinalTables = map[Carrier]string{
	CarrierATT:         "final_charges_att",
	CarrierVerizon:     "final_charges_verizon",
	CarrierCenturyLink: "final_charges_centurylink",
}

// Charge is one normalized billing line item. Staged and final records share
// the same shape; only the table (and Status) differs. Money fields are in
// cents.
type Charge struct {
	ID             uuid.UUID
	BatchID        uuid.UUID
	Carrier        Carrier
	SourceFilename string
	Status         string

	AccountNumber string
	InvoiceNumber string
	InvoiceDate   *time.Time
	Department    string
	VisCode       string

	ItemNumber  string
	ProductID   string
	FeatureName string
	Provider    string
	Contract    string // Y/N flag
	Quantity    int
	Minutes     float64
	ChargeType  string
	BillPeriod  string

	ContractRate    int64
	TotalCharge     int64
	RecurringCharge int64

	BTN       string
	ServiceID string
	Street    string
	City      string
	State     string
	Zip       string

	Description string
	CreatedAt   time.Time
}
