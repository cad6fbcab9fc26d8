package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders datasets into a tabular PDF. Pages are landscape
// because conflict rows carry wide description and metric columns.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

const pdfTableWidth = 277.0

// Render creates a PDF document with an optional title and table body.
// The Description column, when present, takes double width.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	widths := columnWidths(data.Headers)

	pdf.SetFont("Arial", "B", 10)
	for i, header := range data.Headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			value := truncateCell(row[header], widths[i])
			pdf.CellFormat(widths[i], 7, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(headers []string) []float64 {
	units := 0.0
	weights := make([]float64, len(headers))
	for i, header := range headers {
		weights[i] = 1
		if header == "Description" {
			weights[i] = 2
		}
		units += weights[i]
	}
	widths := make([]float64, len(headers))
	for i := range headers {
		widths[i] = pdfTableWidth * weights[i] / units
	}
	return widths
}

// truncateCell keeps cell text from bleeding into the next column. Roughly
// 2mm per character at the body font size.
func truncateCell(value string, width float64) string {
	max := int(width / 2)
	if max < 4 || len(value) <= max {
		return value
	}
	return value[:max-3] + "..."
}
