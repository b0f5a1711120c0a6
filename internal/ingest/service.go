// Package ingest is the upload front door: it validates the incoming file,
// creates the batch, turns the payload into reader rows and stages them.
package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/tembill/tembill/internal/batch"
	"github.com/tembill/tembill/internal/carrier/centurylink"
	"github.com/tembill/tembill/internal/headers"
	"github.com/tembill/tembill/internal/pdfdetail"
	"github.com/tembill/tembill/internal/pdfdetail/pdftext"
	"github.com/tembill/tembill/internal/reader"
)

var (
	ErrEmptyFile       = errors.New("uploaded file is empty")
	ErrUnsupportedType = errors.New("unsupported file type")
)

type Service struct {
	batches *batch.Service
	catalog *headers.Catalog
}

func NewService(batches *batch.Service, catalog *headers.Catalog) *Service {
	return &Service{batches: batches, catalog: catalog}
}

type UploadParams struct {
	Carrier    string
	Filename   string
	Size       int64
	UploadedBy string
	Inventory  bool
	Data       []byte
}

// Ingest runs one upload through validation, batch creation, conversion and
// staging. Validation errors surface before anything is persisted; errors
// after batch creation move the batch to FAILED before propagating.
func (s *Service) Ingest(ctx context.Context, p UploadParams) (*batch.Batch, int, error) {
	if len(p.Data) == 0 {
		return nil, 0, ErrEmptyFile
	}

	ext := strings.ToLower(filepath.Ext(p.Filename))
	switch ext {
	case ".csv", ".xlsx", ".zip", ".pdf":
	default:
		return nil, 0, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}

	b, err := s.batches.Create(ctx, batch.CreateParams{
		Carrier:        p.Carrier,
		SourceFilename: p.Filename,
		SourceType:     strings.TrimPrefix(ext, "."),
		SourceSize:     p.Size,
		UploadedBy:     p.UploadedBy,
	})
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.buildRows(p, ext)
	if err != nil {
		if ferr := s.batches.MarkFailed(ctx, b.ID, err.Error()); ferr != nil {
			slog.Error("failed to mark batch failed", "batch_id", b.ID, "error", ferr)
		}

		return b, 0, err
	}

	count, err := s.batches.Stage(ctx, b, rows)
	if err != nil {
		return b, 0, err
	}

	return b, count, nil
}

func (s *Service) buildRows(p UploadParams, ext string) ([]reader.Row, error) {
	switch ext {
	case ".csv":
		return s.readDelimited(p.Carrier, p.Inventory, p.Filename, p.Data, reader.ReadCSV)
	case ".xlsx":
		return s.readDelimited(p.Carrier, p.Inventory, p.Filename, p.Data, reader.ReadXLSX)
	case ".pdf":
		return s.readPDF(p.Filename, p.Data)
	case ".zip":
		return s.readArchive(p.Carrier, p.Data)
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
}

// readDelimited parses a CSV/XLSX stream and validates the observed headers
// against the carrier's expected set.
func (s *Service) readDelimited(carrier string, inventory bool, filename string, data []byte, read func(io.Reader) (*reader.Result, error)) ([]reader.Row, error) {
	res, err := read(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	expected, err := s.catalog.Expected(carrier, inventory)
	if err != nil {
		return nil, err
	}

	if err := reader.ValidateHeaders(res.Headers, expected); err != nil {
		return nil, err
	}

	for _, row := range res.Rows {
		row[centurylink.ColSourceFile] = filename
	}

	return res.Rows, nil
}

// readPDF parses a standalone detail-of-charges document. A missing header
// aborts it; a valid header with no charge rows is a soft outcome that
// leaves the batch to fail on zero usable rows.
func (s *Service) readPDF(filename string, data []byte) ([]reader.Row, error) {
	pages, err := pdftext.ExtractBytes(data)
	if err != nil {
		return nil, err
	}

	doc, err := pdfdetail.Parse(pages)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}

	if len(doc.Items) == 0 {
		slog.Warn("document has a valid header but no detail rows", "file", filename)
	}

	return centurylink.RowsFromDocument(doc, filename), nil
}

// readArchive processes a ZIP upload. By convention, entries ending .pdf
// are invoice-number sources and entries ending .csv/.xlsx are detail
// reports. All PDFs are fully processed first so the account -> invoice
// number map is complete before detail rows are enriched; the enrichment is
// a full join, not streaming.
func (s *Service) readArchive(carrier string, data []byte) ([]reader.Row, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: open zip: %v", reader.ErrMalformed, err)
	}

	var (
		rows         []reader.Row
		banToInvoice = make(map[string]string)
	)

	for _, entry := range zr.File {
		if !strings.EqualFold(filepath.Ext(entry.Name), ".pdf") {
			continue
		}

		entryData, err := readEntry(entry)
		if err != nil {
			return nil, err
		}

		pages, err := pdftext.ExtractBytes(entryData)
		if err != nil {
			slog.Warn("skipping unreadable pdf in archive", "entry", entry.Name, "error", err)
			continue
		}

		doc, err := pdfdetail.Parse(pages)
		if err != nil {
			// One unattributable document does not sink the archive.
			slog.Warn("skipping pdf without invoice header", "entry", entry.Name, "error", err)
			continue
		}

		banToInvoice[doc.Header.BillingAccountNumber] = doc.Header.InvoiceNumber
		rows = append(rows, centurylink.RowsFromDocument(doc, entry.Name)...)
	}

	for _, entry := range zr.File {
		ext := strings.ToLower(filepath.Ext(entry.Name))
		if ext != ".csv" && ext != ".xlsx" {
			continue
		}

		entryData, err := readEntry(entry)
		if err != nil {
			return nil, err
		}

		read := reader.ReadCSV
		if ext == ".xlsx" {
			read = reader.ReadXLSX
		}

		detailRows, err := s.readDelimited(carrier, false, entry.Name, entryData, read)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", entry.Name, err)
		}

		for _, row := range detailRows {
			if row[centurylink.ColInvoiceNumber] == "" {
				row[centurylink.ColInvoiceNumber] = banToInvoice[row[centurylink.ColAccountNumber]]
			}
		}

		rows = append(rows, detailRows...)
	}

	return rows, nil
}

func readEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open entry %s: %v", reader.ErrMalformed, entry.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: read entry %s: %v", reader.ErrMalformed, entry.Name, err)
	}

	return data, nil
}
