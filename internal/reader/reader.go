package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	enc "github.com/tembill/tembill/internal/encoding"
)

// ErrMalformed marks a structurally broken file (bad quoting, wrong column
// counts, corrupt container) as opposed to a file with missing headers.
var ErrMalformed = errors.New("malformed file")

// MissingHeadersError enumerates exactly which expected headers are absent.
type MissingHeadersError struct {
	Missing []string
}

func (e *MissingHeadersError) Error() string {
	return "missing required headers: " + strings.Join(e.Missing, ", ")
}

// Row is one data row keyed by header name. Values are trimmed.
type Row map[string]string

// Result carries the parsed rows along with the headers as observed in the
// file, in column order.
type Result struct {
	Headers []string
	Rows    []Row
}

// ReadCSV converts a CSV stream into ordered rows keyed by header. The first
// non-blank record is the header row. A leading BOM and legacy encodings are
// handled before parsing.
func ReadCSV(r io.Reader) (*Result, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: detect encoding: %v", ErrMalformed, err)
	}

	cr := csv.NewReader(utf8r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read csv: %v", ErrMalformed, err)
	}

	var (
		headers []string
		rows    []Row
	)

	for _, record := range records {
		if blankRecord(record) {
			continue
		}

		if headers == nil {
			headers = trimAll(record)
			continue
		}

		// Data rows must not be wider than the header row.
		if len(record) > len(headers) {
			return nil, fmt.Errorf("%w: row has %d columns, header has %d", ErrMalformed, len(record), len(headers))
		}

		rows = append(rows, toRow(headers, record))
	}

	if headers == nil {
		return nil, fmt.Errorf("%w: no header row found", ErrMalformed)
	}

	return &Result{Headers: headers, Rows: rows}, nil
}

// ReadXLSX converts the first sheet of an XLSX stream into ordered rows keyed
// by header. Numeric cells rendered in scientific notation (long account
// numbers under Excel's General format) are expanded to plain digits.
func ReadXLSX(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open xlsx: %v", ErrMalformed, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformed)
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrMalformed, sheets[0], err)
	}

	var (
		headers []string
		rows    []Row
	)

	for _, record := range records {
		for i, cell := range record {
			record[i] = normalizeNumeric(strings.TrimSpace(cell))
		}

		if blankRecord(record) {
			continue
		}

		if headers == nil {
			headers = trimAll(record)
			continue
		}

		rows = append(rows, toRow(headers, record))
	}

	if headers == nil {
		return nil, fmt.Errorf("%w: no header row found", ErrMalformed)
	}

	return &Result{Headers: headers, Rows: rows}, nil
}

// ValidateHeaders checks that every expected header is present among the
// observed ones (case-insensitive). Extra observed headers are fine.
func ValidateHeaders(observed, expected []string) error {
	seen := make(map[string]struct{}, len(observed))
	for _, h := range observed {
		seen[strings.ToLower(strings.TrimSpace(h))] = struct{}{}
	}

	var missing []string

	for _, h := range expected {
		if _, ok := seen[strings.ToLower(h)]; !ok {
			missing = append(missing, h)
		}
	}

	if len(missing) > 0 {
		return &MissingHeadersError{Missing: missing}
	}

	return nil
}

var scientificRe = regexp.MustCompile(`^-?\d+(?:\.\d+)?[eE][+-]?\d+$`)

// normalizeNumeric rewrites scientific notation ("1.23457E+11") as plain
// digits so account and invoice numbers survive the spreadsheet round trip.
func normalizeNumeric(s string) string {
	if !scientificRe.MatchString(s) {
		return s
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}

	return strconv.FormatFloat(v, 'f', -1, 64)
}

func blankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}

func trimAll(record []string) []string {
	out := make([]string, len(record))
	for i, cell := range record {
		out[i] = strings.TrimSpace(cell)
	}

	return out
}

func toRow(headers, record []string) Row {
	row := make(Row, len(headers))

	for i, h := range headers {
		if h == "" {
			continue
		}

		if i < len(record) {
			row[h] = strings.TrimSpace(record[i])
		} else {
			row[h] = ""
		}
	}

	return row
}
