package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeshifts/internal/analysis"
)

func sampleReport() *analysis.Report {
	return &analysis.Report{
		Base: "base",
		Scenarios: []analysis.ScenarioMetrics{
			{
				Name:        "base",
				Countries:   4,
				Flows:       5,
				TotalVolume: 341,
				Communities: 2,
				Modularity:  0.42,
				Efficiency:  0.87,
				CentralityRange: analysis.MinMax{
					MinCountry: "Argentina", MinValue: 0.1,
					MaxCountry: "Ukraine", MaxValue: 0.4,
				},
				Percolation: []analysis.PercolationResult{
					{Strategy: analysis.AttackExport, Threshold: 0.25},
				},
			},
			{Name: "drought", Countries: 4, Flows: 4},
		},
		Diffs: []analysis.ScenarioDiff{
			{Name: "drought", Frobenius: 12.5, Markov: 0.3, EntropyRateDelta: -0.1},
		},
	}
}

func TestHTMLWriter_WriteReport(t *testing.T) {
	dir := t.TempDir()
	w := NewHTMLWriter(dir, nil)

	require.NoError(t, w.WriteReport("report.html", sampleReport()))

	content := readFile(t, filepath.Join(dir, "report.html"))
	assert.Contains(t, content, "<html")
	assert.Contains(t, content, "base")
	assert.Contains(t, content, "drought")
	assert.Contains(t, content, "Ukraine")
	assert.Contains(t, content, "12.500")
	assert.Contains(t, content, "0.870")
	assert.Contains(t, content, "export")
}

func TestHTMLWriter_NoDiffsSection(t *testing.T) {
	dir := t.TempDir()
	w := NewHTMLWriter(dir, nil)

	report := sampleReport()
	report.Diffs = nil
	require.NoError(t, w.WriteReport("report.html", report))

	content := readFile(t, filepath.Join(dir, "report.html"))
	assert.NotContains(t, content, "Drift from base")
}
