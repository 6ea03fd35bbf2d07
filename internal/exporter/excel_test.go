package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExcelWriter_WriteReport(t *testing.T) {
	dir := t.TempDir()
	w := NewExcelWriter(dir, nil)

	report := sampleReport()
	report.Scenarios[0].ExportCentrality = map[string]float64{"Ukraine": 0.4, "Poland": 0.1}
	report.Scenarios[0].ImportCentrality = map[string]float64{"Ukraine": 0.2, "Poland": 0.3}
	report.Scenarios[0].Satisfaction = map[string]float64{"Ukraine": 1, "Poland": 0.5}
	report.Scenarios[0].EntropicOutDegree = map[string]float64{"Ukraine": 150, "Poland": 80}

	path := filepath.Join(dir, "report.xlsx")
	require.NoError(t, w.WriteReport("report.xlsx", report))
	require.FileExists(t, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Summary")
	assert.Contains(t, sheets, "base")
	assert.Contains(t, sheets, "drought")

	name, err := f.GetCellValue("Summary", "A2")
	require.NoError(t, err)
	assert.Equal(t, "base", name)

	// Countries sort alphabetically within a scenario sheet.
	first, err := f.GetCellValue("base", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Poland", first)
}
