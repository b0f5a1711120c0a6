// Package att converts AT&T CSV detail reports into staged charges.
package att

import (
	"fmt"

	"github.com/tembill/tembill/internal/batch"
	"github.com/tembill/tembill/internal/carrier"
	"github.com/tembill/tembill/internal/charge"
	chargestore "github.com/tembill/tembill/internal/charge/store"
	"github.com/tembill/tembill/internal/reader"
)

type Strategy struct {
	carrier.Core
}

func New(charges *chargestore.Store) *Strategy {
	return &Strategy{Core: carrier.NewCore(charge.CarrierATT, charges)}
}

// Convert maps AT&T columns onto the canonical charge. The carrier has no
// department column; its "Billing Account Name" plays that role.
func (s *Strategy) Convert(b *batch.Batch, rows []reader.Row) ([]*charge.Charge, error) {
	var charges []*charge.Charge

	for i, row := range rows {
		// Rows without an account number are subtotal/footer noise.
		if row["Account Number"] == "" {
			continue
		}

		c := carrier.NewStaged(b, row["Source File"])
		c.AccountNumber = row["Account Number"]
		c.Department = row["Billing Account Name"]
		c.InvoiceNumber = row["Invoice Number"]
		c.InvoiceDate = carrier.ParseDate(row["Invoice Date"])
		c.Description = row["Item Description"]
		c.Quantity = carrier.ParseInt(row["Quantity"])

		recurring, err := carrier.ParseCents(row["Monthly Recurring Charge"])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		total, err := carrier.ParseCents(row["Total Charges"])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		c.RecurringCharge = recurring
		c.TotalCharge = total

		charges = append(charges, c)
	}

	return charges, nil
}
