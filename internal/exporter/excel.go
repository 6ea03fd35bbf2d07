package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"tradeshifts/internal/analysis"
)

// ExcelWriter writes comparison reports as multi-sheet workbooks
type ExcelWriter struct {
	root   string
	logger *slog.Logger
}

// NewExcelWriter creates an Excel writer rooted at dir
func NewExcelWriter(dir string, logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{root: dir, logger: logger}
}

// WriteReport writes one sheet per scenario plus a summary sheet.
func (w *ExcelWriter) WriteReport(filePath string, report *analysis.Report) error {
	fullPath := filePath
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(w.root, fullPath)
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := w.writeSummarySheet(f, report); err != nil {
		return err
	}
	for _, sc := range report.Scenarios {
		if err := w.writeScenarioSheet(f, sc); err != nil {
			return err
		}
	}

	w.logger.Info("writing Excel report",
		slog.String("path", fullPath),
		slog.Int("scenarios", len(report.Scenarios)))
	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (w *ExcelWriter) writeSummarySheet(f *excelize.File, report *analysis.Report) error {
	const sheet = "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to rename summary sheet: %w", err)
	}

	header := []interface{}{
		"scenario", "countries", "flows", "total_volume",
		"communities", "modularity", "clustering", "efficiency", "mean_betweenness", "entropy_rate",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}
	for i, sc := range report.Scenarios {
		row := []interface{}{
			sc.Name, sc.Countries, sc.Flows, sc.TotalVolume,
			sc.Communities, sc.Modularity, sc.Clustering, sc.Efficiency, sc.MeanBetweenness, sc.EntropyRate,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address summary row: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}
	return nil
}

func (w *ExcelWriter) writeScenarioSheet(f *excelize.File, sc analysis.ScenarioMetrics) error {
	sheet := sc.Name
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	header := []interface{}{
		"country", "export_centrality", "import_centrality", "satisfaction", "entropic_out_degree",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header on %s: %w", sheet, err)
	}

	countries := make([]string, 0, len(sc.ExportCentrality))
	for country := range sc.ExportCentrality {
		countries = append(countries, country)
	}
	sort.Strings(countries)

	for i, country := range countries {
		row := []interface{}{
			country,
			sc.ExportCentrality[country],
			sc.ImportCentrality[country],
			sc.Satisfaction[country],
			sc.EntropicOutDegree[country],
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row on %s: %w", sheet, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row on %s: %w", sheet, err)
		}
	}
	return nil
}
