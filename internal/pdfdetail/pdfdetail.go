// Package pdfdetail reconstructs structured billing line items from the
// positional table layout of a "Detail of Charges" PDF. The parser is pure:
// it consumes extracted page text and row cells and performs no I/O.
package pdfdetail

import (
	"errors"
	"fmt"
	"time"
)

// ErrHeaderNotFound rejects a document whose first page is missing any of
// the three invoice anchors. A document that cannot be attributed to an
// invoice is not partially parsed.
var ErrHeaderNotFound = errors.New("invoice header not found on first page")

// Page is one extracted PDF page: its plain text plus its table rows, each
// row an ordered list of raw text cells.
type Page struct {
	Text string
	Rows [][]string
}

// Header carries the three independently-anchored invoice fields.
type Header struct {
	InvoiceNumber        string
	InvoiceDate          time.Time
	BillingAccountNumber string
}

type Address struct {
	Street string
	City   string
	State  string
	Zip    string
}

// Item is one reconstructed charge line, carrying the BTN/service-id/address
// context that was current when its row appeared. Money fields are cents.
type Item struct {
	ItemNumber   string
	Contract     string
	Provider     string
	ProductID    string
	FeatureName  string
	Quantity     int
	Minutes      float64
	ContractRate int64
	TotalCharge  int64
	BillPeriod   string
	ChargeType   string

	BTN       string
	ServiceID string
	Address   Address

	Description string
}

// Result is the outcome of one document parse. SkippedRows counts charge
// rows whose item number could not be peeled (soft skips).
type Result struct {
	Header      Header
	Items       []Item
	SkippedRows int
}

// FormatCents renders a cents amount as a plain decimal string.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
