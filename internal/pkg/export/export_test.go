package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(rows int) Table {
	t := Table{
		Title:    "Attendance Stats",
		Subtitle: "2024-03-01 to 2024-03-31",
		Columns: []Column{
			{Header: "Name", Weight: 2},
			{Header: "Days Present", AlignRight: true},
			{Header: "Total Hours", AlignRight: true},
		},
		Totals: []string{"Total", "0", "0.0"},
	}
	for i := 0; i < rows; i++ {
		t.Rows = append(t.Rows, []string{fmt.Sprintf("Employee %d", i), "1", "8.5"})
	}
	return t
}

func TestRenderCSV(t *testing.T) {
	table := sampleTable(2)
	table.Rows[0][0] = "Doe, Jane"

	out, err := RenderCSV(table)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"Name", "Days Present", "Total Hours"}, records[0])
	assert.Equal(t, "Doe, Jane", records[1][0])
	assert.Equal(t, []string{"Total", "0", "0.0"}, records[3])
}

func TestRenderCSV_WithoutTotals(t *testing.T) {
	table := sampleTable(1)
	table.Totals = nil

	out, err := RenderCSV(table)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestRender_RejectsMalformedTables(t *testing.T) {
	_, err := RenderCSV(Table{})
	assert.Error(t, err)

	bad := sampleTable(1)
	bad.Rows[0] = []string{"only one"}
	_, err = RenderCSV(bad)
	assert.Error(t, err)
	_, err = RenderPDF(bad)
	assert.Error(t, err)

	bad = sampleTable(1)
	bad.Totals = []string{"x"}
	_, err = RenderPDF(bad)
	assert.Error(t, err)
}

func TestRenderPDF(t *testing.T) {
	out, err := RenderPDF(sampleTable(60))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestColumnWidths(t *testing.T) {
	widths := columnWidths([]Column{{Weight: 2}, {}, {Weight: 1}}, 100)

	assert.InDelta(t, 50, widths[0], 1e-9)
	assert.InDelta(t, 25, widths[1], 1e-9)
	assert.InDelta(t, 25, widths[2], 1e-9)
}
