package exporter

import (
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"tradeshifts/internal/analysis"
)

// reportTemplate renders a comparison report as a single static page.
var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"f3": func(v float64) string { return fmt.Sprintf("%.3f", v) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Trade shift report: {{.Report.Base}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #999; padding: 4px 10px; text-align: right; }
th { background: #eee; }
td:first-child, th:first-child { text-align: left; }
</style>
</head>
<body>
<h1>Trade shift report</h1>
<p>Base scenario: <strong>{{.Report.Base}}</strong>. Generated {{.Generated}}.</p>

<h2>Scenario overview</h2>
<table>
<tr><th>Scenario</th><th>Countries</th><th>Flows</th><th>Total volume</th>
<th>Communities</th><th>Modularity</th><th>Clustering</th>
<th>Efficiency</th><th>Mean betweenness</th><th>Entropy rate</th></tr>
{{range .Report.Scenarios}}
<tr><td>{{.Name}}</td><td>{{.Countries}}</td><td>{{.Flows}}</td>
<td>{{f3 .TotalVolume}}</td><td>{{.Communities}}</td><td>{{f3 .Modularity}}</td>
<td>{{f3 .Clustering}}</td><td>{{f3 .Efficiency}}</td><td>{{f3 .MeanBetweenness}}</td><td>{{f3 .EntropyRate}}</td></tr>
{{end}}
</table>

<h2>Centrality extremes</h2>
<table>
<tr><th>Scenario</th><th>Least central</th><th>Value</th><th>Most central</th><th>Value</th></tr>
{{range .Report.Scenarios}}
<tr><td>{{.Name}}</td><td>{{.CentralityRange.MinCountry}}</td><td>{{f3 .CentralityRange.MinValue}}</td>
<td>{{.CentralityRange.MaxCountry}}</td><td>{{f3 .CentralityRange.MaxValue}}</td></tr>
{{end}}
</table>

<h2>Percolation thresholds</h2>
<table>
<tr><th>Scenario</th><th>Strategy</th><th>Threshold</th><th>Std error</th></tr>
{{range .Report.Scenarios}}{{$name := .Name}}
{{range .Percolation}}
<tr><td>{{$name}}</td><td>{{.Strategy}}</td><td>{{f3 .Threshold}}</td><td>{{f3 .StdError}}</td></tr>
{{end}}
{{end}}
</table>

{{if .Report.Diffs}}
<h2>Drift from base</h2>
<table>
<tr><th>Scenario</th><th>Frobenius</th><th>Markov</th><th>Entropy rate delta</th></tr>
{{range .Report.Diffs}}
<tr><td>{{.Name}}</td><td>{{f3 .Frobenius}}</td><td>{{f3 .Markov}}</td><td>{{f3 .EntropyRateDelta}}</td></tr>
{{end}}
</table>
{{end}}
</body>
</html>
`))

// HTMLWriter renders comparison reports as static HTML files
type HTMLWriter struct {
	root   string
	logger *slog.Logger
}

// NewHTMLWriter creates an HTML report writer rooted at dir
func NewHTMLWriter(dir string, logger *slog.Logger) *HTMLWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTMLWriter{root: dir, logger: logger}
}

// WriteReport renders the report to the given file.
func (w *HTMLWriter) WriteReport(filePath string, report *analysis.Report) error {
	fullPath := filePath
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(w.root, fullPath)
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	w.logger.Info("writing HTML report",
		slog.String("path", fullPath),
		slog.Int("scenarios", len(report.Scenarios)))

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer file.Close()

	data := struct {
		Report    *analysis.Report
		Generated string
	}{
		Report:    report,
		Generated: time.Now().Format("2006-01-02 15:04"),
	}
	if err := reportTemplate.Execute(file, data); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}
