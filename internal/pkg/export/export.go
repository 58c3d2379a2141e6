// Package export renders tabular reports as CSV or PDF.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type Column struct {
	Header string
	// Weight is the column's share of the page width; zero counts as 1
	Weight     float64
	AlignRight bool
}

// Table is a titled grid with an optional totals row.
type Table struct {
	Title    string
	Subtitle string
	Columns  []Column
	Rows     [][]string
	Totals   []string
}

func (t Table) headers() []string {
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Header
	}
	return headers
}

func (t Table) validate() error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("table requires at least one column")
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(t.Columns))
		}
	}
	if t.Totals != nil && len(t.Totals) != len(t.Columns) {
		return fmt.Errorf("totals row has %d cells, want %d", len(t.Totals), len(t.Columns))
	}
	return nil
}

// RenderCSV writes the header, the rows and the totals row.
func RenderCSV(t Table) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(t.headers()); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	if t.Totals != nil {
		if err := writer.Write(t.Totals); err != nil {
			return nil, fmt.Errorf("write csv totals: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPDF lays the table out on landscape A4 pages, repeating the header
// row after every page break.
func RenderPDF(t Table) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(false, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pageWidth, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	widths := columnWidths(t.Columns, pageWidth-20)

	if t.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(t.Title), "", 1, "C", false, 0, "")
	}
	if t.Subtitle != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, tr(t.Subtitle), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	header := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 240)
		for i, c := range t.Columns {
			pdf.CellFormat(widths[i], 8, tr(c.Header), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}
	row := func(cells []string) {
		if pdf.GetY()+7 > pageHeight-bottom {
			pdf.AddPage()
			header()
		}
		for i, c := range t.Columns {
			align := "L"
			if c.AlignRight {
				align = "R"
			}
			pdf.CellFormat(widths[i], 7, tr(cells[i]), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	header()
	for _, cells := range t.Rows {
		row(cells)
	}
	if t.Totals != nil {
		pdf.SetFont("Arial", "B", 9)
		row(t.Totals)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(columns []Column, total float64) []float64 {
	sum := 0.0
	for _, c := range columns {
		sum += weight(c)
	}
	widths := make([]float64, len(columns))
	for i, c := range columns {
		widths[i] = total * weight(c) / sum
	}
	return widths
}

func weight(c Column) float64 {
	if c.Weight <= 0 {
		return 1
	}
	return c.Weight
}
