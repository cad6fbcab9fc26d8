package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conflictDataset() Dataset {
	return Dataset{
		Headers: []string{"ID", "Type", "Severity", "Description"},
		Rows: []map[string]string{
			{"ID": "double-Ann-MONDAY", "Type": "double_booking", "Severity": "high", "Description": "Ann is booked at Acme and Borealis on Monday"},
			{"ID": "workload-imbalance", "Type": "workload_imbalance", "Severity": "medium", "Description": "Weekly hours are unevenly distributed"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	data, err := NewCSVExporter().Render(conflictDataset())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"ID", "Type", "Severity", "Description"}, records[0])
	assert.Equal(t, "double-Ann-MONDAY", records[1][0])
	assert.Equal(t, "medium", records[2][2])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	data, err := NewPDFExporter().Render(conflictDataset(), "Conflict Report")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestColumnWidthsWeightDescription(t *testing.T) {
	widths := columnWidths([]string{"ID", "Description"})
	require.Len(t, widths, 2)
	assert.Greater(t, widths[1], widths[0])
	assert.InDelta(t, pdfTableWidth, widths[0]+widths[1], 0.001)
}

func TestTruncateCell(t *testing.T) {
	long := strings.Repeat("x", 100)
	got := truncateCell(long, 40)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len(got), 20)

	assert.Equal(t, "short", truncateCell("short", 40))
}
