package verizon_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tembill/tembill/internal/batch"
	"github.com/tembill/tembill/internal/carrier/verizon"
	"github.com/tembill/tembill/internal/charge"
	"github.com/tembill/tembill/internal/reader"
)

func TestStrategy_Convert_Detail(t *testing.T) {
	strat := verizon.New(nil)
	b := &batch.Batch{ID: uuid.New(), Carrier: "verizon", SourceFilename: "detail.xlsx"}

	rows := []reader.Row{
		{
			"Account Number":   "V-990011",
			"UDL2":             "FIN-0042",
			"Invoice Number":   "8841",
			"Service ID":       "555-867-5309",
			"Description":      "Wireless line",
			"Quantity":         "1",
			"Recurring Charge": "35.99",
			"Total Amount":     "41.12",
		},
		{"Account Number": ""},
	}

	charges, err := strat.Convert(b, rows)
	require.NoError(t, err)
	require.Len(t, charges, 1)

	c := charges[0]
	assert.Equal(t, charge.CarrierVerizon, c.Carrier)
	assert.Equal(t, "V-990011", c.AccountNumber)
	assert.Equal(t, "FIN-0042", c.VisCode)
	assert.Equal(t, "555-867-5309", c.ServiceID)
	assert.Equal(t, int64(3599), c.RecurringCharge)
	assert.Equal(t, int64(4112), c.TotalCharge)
}

func TestStrategy_Convert_InventoryLayout(t *testing.T) {
	strat := verizon.New(nil)
	b := &batch.Batch{ID: uuid.New(), Carrier: "verizon", SourceFilename: "inventory.xlsx"}

	// The inventory report names its recurring column "Monthly Rate" and has
	// no total column.
	rows := []reader.Row{
		{
			"Account Number": "V-990011",
			"UDL2":           "OPS-07",
			"Monthly Rate":   "12.00",
		},
	}

	charges, err := strat.Convert(b, rows)
	require.NoError(t, err)
	require.Len(t, charges, 1)

	assert.Equal(t, int64(1200), charges[0].RecurringCharge)
	assert.Zero(t, charges[0].TotalCharge)
}

func TestStrategy_Convert_BadAmountNamesColumn(t *testing.T) {
	strat := verizon.New(nil)
	b := &batch.Batch{ID: uuid.New(), Carrier: "verizon"}

	rows := []reader.Row{
		{"Account Number": "V-1", "Total Amount": "forty-one"},
	}

	_, err := strat.Convert(b, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Total Amount")
}
