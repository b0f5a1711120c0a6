// Package export renders the authoritative charges of an approved batch as
// a spreadsheet for downstream accounting.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/tembill/tembill/internal/batch"
	"github.com/tembill/tembill/internal/charge"
)

type Service struct {
	batches *batch.Service
}

func NewService(batches *batch.Service) *Service {
	return &Service{batches: batches}
}

var columns = []string{
	"Carrier", "Account Number", "Invoice Number", "Invoice Date",
	"Department", "Vis Code", "Item Number", "Product ID", "Feature Name",
	"Provider", "Quantity", "Minutes", "Contract Rate", "Total Charge",
	"Recurring Charge", "Bill Period", "Charge Type", "BTN", "Service ID",
	"Street", "City", "State", "Zip", "Description", "Source File",
}

// ExportBatch renders the final records of an APPROVED batch into an XLSX
// workbook. Non-approved batches surface batch.ErrInvalidState via the
// listing call.
func (s *Service) ExportBatch(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	b, charges, err := s.batches.Final(ctx, id)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return nil, "", fmt.Errorf("writing header: %w", err)
		}
	}

	for rowIdx, c := range charges {
		for colIdx, v := range cellValues(c) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", fmt.Errorf("writing row %d: %w", rowIdx+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("serializing workbook: %w", err)
	}

	name := fmt.Sprintf("%s_%s_%s.xlsx", b.Carrier, b.ID, time.Now().Format("20060102"))

	return buf.Bytes(), name, nil
}

func cellValues(c *charge.Charge) []any {
	invoiceDate := ""
	if c.InvoiceDate != nil {
		invoiceDate = c.InvoiceDate.Format("2006-01-02")
	}

	return []any{
		string(c.Carrier), c.AccountNumber, c.InvoiceNumber, invoiceDate,
		c.Department, c.VisCode, c.ItemNumber, c.ProductID, c.FeatureName,
		c.Provider, c.Quantity, c.Minutes, dollars(c.ContractRate), dollars(c.TotalCharge),
		dollars(c.RecurringCharge), c.BillPeriod, c.ChargeType, c.BTN, c.ServiceID,
		c.Street, c.City, c.State, c.Zip, c.Description, c.SourceFilename,
	}
}

func dollars(cents int64) float64 {
	return float64(cents) / 100
}
