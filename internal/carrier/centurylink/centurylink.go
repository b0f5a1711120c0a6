// Package centurylink converts CenturyLink uploads into staged charges.
// CenturyLink bills arrive as ZIPs of "Detail of Charges" PDFs, optionally
// with a CSV/XLSX detail report; both shapes funnel through the same row
// maps.
package centurylink

import (
	"fmt"
	"strconv"

	"github.com/tembill/tembill/internal/batch"
	"github.com/tembill/tembill/internal/carrier"
	"github.com/tembill/tembill/internal/charge"
	chargestore "github.com/tembill/tembill/internal/charge/store"
	"github.com/tembill/tembill/internal/pdfdetail"
	"github.com/tembill/tembill/internal/reader"
)

// Canonical row keys for PDF-derived rows. The CSV detail report uses the
// same names for the columns it has.
const (
	ColAccountNumber = "Billing Account Number"
	ColInvoiceNumber = "Invoice Number"
	ColInvoiceDate   = "Invoice Date"
	ColItemNumber    = "Item Number"
	ColProductID     = "Product ID"
	ColFeatureName   = "Feature Name"
	ColProvider      = "Provider"
	ColContract      = "Contract"
	ColQuantity      = "Quantity"
	ColMinutes       = "Minutes"
	ColContractRate  = "Contract Rate"
	ColTotalCharge   = "Total Charge"
	ColBillPeriod    = "Bill Period"
	ColChargeType    = "Charge Type"
	ColBTN           = "BTN"
	ColServiceID     = "Service ID"
	ColStreet        = "Street"
	ColCity          = "City"
	ColState         = "State"
	ColZip           = "Zip"
	ColDescription   = "Description"
	ColSourceFile    = "Source File"
)

type Strategy struct {
	carrier.Core
}

func New(charges *chargestore.Store) *Strategy {
	return &Strategy{Core: carrier.NewCore(charge.CarrierCenturyLink, charges)}
}

func (s *Strategy) Convert(b *batch.Batch, rows []reader.Row) ([]*charge.Charge, error) {
	var charges []*charge.Charge

	for i, row := range rows {
		// Item number is what makes a row a charge; anything else is
		// report decoration.
		if row[ColItemNumber] == "" {
			continue
		}

		c := carrier.NewStaged(b, row[ColSourceFile])
		c.AccountNumber = row[ColAccountNumber]
		c.InvoiceNumber = row[ColInvoiceNumber]
		c.InvoiceDate = carrier.ParseDate(row[ColInvoiceDate])
		c.ItemNumber = row[ColItemNumber]
		c.ProductID = row[ColProductID]
		c.FeatureName = row[ColFeatureName]
		c.Provider = row[ColProvider]
		c.Contract = row[ColContract]
		c.Quantity = carrier.ParseInt(row[ColQuantity])
		c.Minutes = carrier.ParseMinutes(row[ColMinutes])
		c.BillPeriod = row[ColBillPeriod]
		c.ChargeType = row[ColChargeType]
		c.BTN = row[ColBTN]
		c.ServiceID = row[ColServiceID]
		c.Street = row[ColStreet]
		c.City = row[ColCity]
		c.State = row[ColState]
		c.Zip = row[ColZip]
		c.Description = row[ColDescription]

		rate, err := carrier.ParseCents(row[ColContractRate])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		total, err := carrier.ParseCents(row[ColTotalCharge])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		c.ContractRate = rate
		c.TotalCharge = total

		charges = append(charges, c)
	}

	return charges, nil
}

// RowsFromDocument flattens a parsed PDF into canonical rows so PDF and
// spreadsheet input share one conversion path.
func RowsFromDocument(doc *pdfdetail.Result, sourceFile string) []reader.Row {
	rows := make([]reader.Row, 0, len(doc.Items))

	for _, it := range doc.Items {
		row := reader.Row{
			ColAccountNumber: doc.Header.BillingAccountNumber,
			ColInvoiceNumber: doc.Header.InvoiceNumber,
			ColInvoiceDate:   doc.Header.InvoiceDate.Format("01/02/2006"),
			ColItemNumber:    it.ItemNumber,
			ColProductID:     it.ProductID,
			ColFeatureName:   it.FeatureName,
			ColProvider:      it.Provider,
			ColContract:      it.Contract,
			ColQuantity:      strconv.Itoa(it.Quantity),
			ColMinutes:       strconv.FormatFloat(it.Minutes, 'f', 4, 64),
			ColContractRate:  pdfdetail.FormatCents(it.ContractRate),
			ColTotalCharge:   pdfdetail.FormatCents(it.TotalCharge),
			ColBillPeriod:    it.BillPeriod,
			ColChargeType:    it.ChargeType,
			ColBTN:           it.BTN,
			ColServiceID:     it.ServiceID,
			ColStreet:        it.Address.Street,
			ColCity:          it.Address.City,
			ColState:         it.Address.State,
			ColZip:           it.Address.Zip,
			ColDescription:   it.Description,
			ColSourceFile:    sourceFile,
		}

		rows = append(rows, row)
	}

	return rows
}
