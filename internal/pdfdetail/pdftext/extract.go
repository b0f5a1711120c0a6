// Package pdftext adapts raw PDF bytes into the page text and table rows
// the detail parser consumes.
package pdftext

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/tembill/tembill/internal/pdfdetail"
)

// Fragments closer than this (in points) belong to the same table cell.
const cellGap = 4.0

// Extract reads a whole PDF and returns its pages with plain text and
// positional rows, in document order.
func Extract(r io.ReaderAt, size int64) ([]pdfdetail.Page, error) {
	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}

	pages := make([]pdfdetail.Page, 0, doc.NumPage())

	for i := 1; i <= doc.NumPage(); i++ {
		p := doc.Page(i)
		if p.V.IsNull() {
			continue
		}

		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: extracting text: %w", i, err)
		}

		rows, err := p.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("page %d: extracting rows: %w", i, err)
		}

		page := pdfdetail.Page{Text: text}

		for _, row := range rows {
			if cells := toCells(row.Content); len(cells) > 0 {
				page.Rows = append(page.Rows, cells)
			}
		}

		pages = append(pages, page)
	}

	return pages, nil
}

// ExtractBytes is a convenience wrapper for in-memory documents (ZIP
// entries, request bodies).
func ExtractBytes(data []byte) ([]pdfdetail.Page, error) {
	return Extract(bytes.NewReader(data), int64(len(data)))
}

// toCells groups a row's text fragments into cells on horizontal gaps.
func toCells(content pdf.TextHorizontal) []string {
	var (
		cells []string
		cur   strings.Builder
		lastX float64
		lastW float64
		open  bool
	)

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			cells = append(cells, s)
		}

		cur.Reset()
	}

	for _, t := range content {
		if open && t.X-(lastX+lastW) > cellGap {
			flush()
		}

		cur.WriteString(t.S)

		lastX = t.X
		lastW = t.W
		open = true
	}

	flush()

	return cells
}
