// Package verizon converts Verizon XLSX detail and inventory reports into
// staged charges.
package verizon

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
	return &Strategy{Core: carrier.NewCore(charge.CarrierVerizon, charges)}
}

// Convert maps Verizon columns onto the canonical charge. Verizon encodes
// the vis code in its "UDL2" user-defined label. Detail and inventory
// layouts share the account/UDL2 columns, so one mapping covers both.
func (s *Strategy) Convert(b *batch.Batch, rows []reader.Row) ([]*charge.Charge, error) {
	var charges []*charge.Charge

	for i, row := range rows {
		if row["Account Number"] == "" {
			continue
		}

		c := carrier.NewStaged(b, row["Source File"])
		c.AccountNumber = row["Account Number"]
		c.VisCode = row["UDL2"]
		c.InvoiceNumber = row["Invoice Number"]
		c.InvoiceDate = carrier.ParseDate(row["Invoice Date"])
		c.ServiceID = row["Service ID"]
		c.Description = row["Description"]
		c.Quantity = carrier.ParseInt(row["Quantity"])

		for col, dst := range map[string]*int64{
			"Recurring Charge": &c.RecurringCharge,
			"Monthly Rate":     &c.RecurringCharge,
			"Total Amount":     &c.TotalCharge,
		} {
			v, ok := row[col]
			if !ok {
				continue
			}

			cents, err := carrier.ParseCents(v)
			if err != nil {
				return nil, fmt.Errorf("row %d: column %q: %w", i+2, col, err)
			}

			*dst = cents
		}

		charges = append(charges, c)
	}

	return charges, nil
}
