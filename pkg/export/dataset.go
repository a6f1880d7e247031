package export

import (
	"fmt"
	"strings"
)

// Format names a supported export encoding.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat accepts csv or pdf in any case.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case FormatCSV, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv"
}

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
	// Numeric marks headers whose cells are right-aligned in PDF output.
	Numeric map[string]bool
}

func (d Dataset) align(header string) string {
	if d.Numeric[header] {
		return "R"
	}
	return "L"
}

// Renderer dispatches a dataset to the exporter for the requested format.
type Renderer struct {
	csv *CSVExporter
	pdf *PDFExporter
}

// NewRenderer builds a renderer with both exporters.
func NewRenderer() *Renderer {
	return &Renderer{csv: NewCSVExporter(), pdf: NewPDFExporter()}
}

// Render encodes data. The title is only used by PDF output.
func (r *Renderer) Render(format Format, data Dataset, title string) ([]byte, error) {
	switch format {
	case FormatCSV:
		return r.csv.Render(data)
	case FormatPDF:
		return r.pdf.Render(data, title)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}
