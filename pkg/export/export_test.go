package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sheet() Dataset {
	return Dataset{
		Headers: []string{"Roll", "Name", "Current", "Grade"},
		Rows: []map[string]string{
			{"Roll": "1901", "Name": "Rahim", "Current": "72.75", "Grade": "A-"},
			{"Roll": "1902", "Name": "Karim", "Grade": "F"},
		},
		Numeric: map[string]bool{"Current": true},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sheet())
	require.NoError(t, err)
	assert.Equal(t, "Roll,Name,Current,Grade\n1901,Rahim,72.75,A-\n1902,Karim,,F\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sheet(), "CSE101 grade sheet")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRendererDispatch(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render(FormatCSV, sheet(), "ignored")
	require.NoError(t, err)
	assert.Contains(t, string(out), "Rahim")

	_, err = r.Render(Format("xlsx"), sheet(), "")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, "application/pdf", f.ContentType())
	assert.Equal(t, "text/csv", FormatCSV.ContentType())

	_, err = ParseFormat("docx")
	assert.Error(t, err)
}
