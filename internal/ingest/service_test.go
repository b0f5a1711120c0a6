package ingest_test

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tembill/tembill/internal/batch"
	"github.com/tembill/tembill/internal/carrier"
	"github.com/tembill/tembill/internal/carrier/att"
	"github.com/tembill/tembill/internal/carrier/centurylink"
	"github.com/tembill/tembill/internal/charge"
	"github.com/tembill/tembill/internal/headers"
	"github.com/tembill/tembill/internal/ingest"
	"github.com/tembill/tembill/internal/reader"
)

const attCSV = `Account Number,Billing Account Name,Invoice Number,Invoice Date,Item Description,Quantity,Monthly Recurring Charge,Total Charges
831000123456,PUBLIC WORKS,INV-88,07/15/2024,Centrex line,2,45.00,90.00
831000123457,PARKS,INV-88,07/15/2024,Centrex line,1,45.00,45.00
`

func newService(t *testing.T, repo batch.Repository) *ingest.Service {
	t.Helper()

	registry := carrier.NewRegistry()
	registry.Register("att", att.New(nil))
	registry.Register("centurylink", centurylink.New(nil))

	path := filepath.Join(t.TempDir(), "headers.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"att": ["Account Number", "Billing Account Name", "Total Charges"],
		"centurylink": ["Billing Account Number", "Item Number", "Total Charge"]
	}`), 0o600))

	catalog, err := headers.Load(path)
	require.NoError(t, err)

	return ingest.NewService(batch.NewService(repo, registry), catalog)
}

func TestIngest_ValidationBeforePersistence(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No repo expectations: rejected uploads never touch storage.
	repo := batch.NewMockRepository(ctrl)
	svc := newService(t, repo)

	_, _, err := svc.Ingest(context.Background(), ingest.UploadParams{
		Carrier:  "att",
		Filename: "empty.csv",
	})
	assert.ErrorIs(t, err, ingest.ErrEmptyFile)

	_, _, err = svc.Ingest(context.Background(), ingest.UploadParams{
		Carrier:  "att",
		Filename: "invoice.docx",
		Data:     []byte("hello"),
	})
	assert.ErrorIs(t, err, ingest.ErrUnsupportedType)
}

func TestIngest_CSV(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := batch.NewMockRepository(ctrl)
	svc := newService(t, repo)

	var staged []*charge.Charge

	repo.EXPECT().CreateBatch(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().
		InsertStaged(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, charges []*charge.Charge) error {
			staged = charges
			return nil
		})

	b, count, err := svc.Ingest(context.Background(), ingest.UploadParams{
		Carrier:    "att",
		Filename:   "invoice.csv",
		Size:       int64(len(attCSV)),
		UploadedBy: "uploader",
		Data:       []byte(attCSV),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, count)
	assert.Equal(t, batch.StatusPendingApproval, b.Status)
	assert.Equal(t, "csv", b.SourceType)

	require.Len(t, staged, 2)
	assert.Equal(t, "831000123456", staged[0].AccountNumber)
	assert.Equal(t, "invoice.csv", staged[0].SourceFilename)
	assert.Equal(t, int64(9000), staged[0].TotalCharge)
}

func TestIngest_MissingHeadersFailsBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := batch.NewMockRepository(ctrl)
	svc := newService(t, repo)

	repo.EXPECT().CreateBatch(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().FinalizeFailed(gomock.Any(), gomock.Any(), gomock.Nil(), gomock.Any()).Return(nil)

	b, _, err := svc.Ingest(context.Background(), ingest.UploadParams{
		Carrier:  "att",
		Filename: "invoice.csv",
		Data:     []byte("Wrong,Columns\n1,2\n"),
	})
	require.Error(t, err)
	require.NotNil(t, b)

	var missing *reader.MissingHeadersError
	assert.ErrorAs(t, err, &missing)
}

func TestIngest_ZeroUsableRowsFailsBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := batch.NewMockRepository(ctrl)
	svc := newService(t, repo)

	repo.EXPECT().CreateBatch(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().FinalizeFailed(gomock.Any(), gomock.Any(), gomock.Nil(), gomock.Any()).Return(nil)

	// Valid headers, but the only data row has no account number.
	csv := "Account Number,Billing Account Name,Total Charges\n,SUBTOTAL,90.00\n"

	_, _, err := svc.Ingest(context.Background(), ingest.UploadParams{
		Carrier:  "att",
		Filename: "invoice.csv",
		Data:     []byte(csv),
	})
	assert.ErrorIs(t, err, batch.ErrNoUsableRows)
}

func TestIngest_UnknownCarrierNeverCreatesBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := batch.NewMockRepository(ctrl)
	svc := newService(t, repo)

	_, _, err := svc.Ingest(context.Background(), ingest.UploadParams{
		Carrier:  "tmobile",
		Filename: "invoice.csv",
		Data:     []byte(attCSV),
	})
	assert.ErrorIs(t, err, batch.ErrUnknownCarrier)
}

func TestIngest_ZipOfDetailReports(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := batch.NewMockRepository(ctrl)
	svc := newService(t, repo)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("july_detail.csv")
	require.NoError(t, err)
	_, err = w.Write([]byte("Billing Account Number,Item Number,Total Charge\n310-555-1234,1,10.00\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	var staged []*charge.Charge

	repo.EXPECT().CreateBatch(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().
		InsertStaged(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, charges []*charge.Charge) error {
			staged = charges
			return nil
		})

	_, count, err := svc.Ingest(context.Background(), ingest.UploadParams{
		Carrier:  "centurylink",
		Filename: "bills.zip",
		Data:     buf.Bytes(),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	require.Len(t, staged, 1)

	// Charges trace back to the archive entry, not the archive.
	assert.Equal(t, "july_detail.csv", staged[0].SourceFilename)
	assert.Equal(t, "310-555-1234", staged[0].AccountNumber)
	assert.Equal(t, int64(1000), staged[0].TotalCharge)
}

func TestIngest_CorruptZipFailsBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := batch.NewMockRepository(ctrl)
	svc := newService(t, repo)

	repo.EXPECT().CreateBatch(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().FinalizeFailed(gomock.Any(), gomock.Any(), gomock.Nil(), gomock.Any()).Return(nil)

	_, _, err := svc.Ingest(context.Background(), ingest.UploadParams{
		Carrier:  "centurylink",
		Filename: "bills.zip",
		Data:     []byte("this is not an archive"),
	})
	assert.ErrorIs(t, err, reader.ErrMalformed)
}
