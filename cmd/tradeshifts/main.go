// Command tradeshifts runs the trade-shift pipeline: it loads a crop's trade
// and production tables, corrects re-exports, builds the trade graph,
// detects trading communities, replays any yield-change scenarios and writes
// the comparison report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"tradeshifts/internal/analysis"
	"tradeshifts/internal/config"
	"tradeshifts/internal/dataload"
	"tradeshifts/internal/exporter"
	"tradeshifts/internal/files"
	"tradeshifts/internal/infrastructure"
	"tradeshifts/internal/model"
)

func main() {
	crop := flag.String("crop", "", "crop to analyse, e.g. Wheat (required)")
	year := flag.Int("year", 0, "dataset year, e.g. 2018 (required)")
	configFile := flag.String("config", "", "optional YAML config file")
	scenarios := flag.String("scenarios", "", "comma-separated scenario YAML files")
	batch := flag.String("batch", "", "comma-separated crops to run in parallel instead of -crop")
	list := flag.Bool("list", false, "list available datasets and exit")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("cannot load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *list {
		if err := listDatasets(cfg); err != nil {
			slog.Error("cannot list datasets", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	if (*crop == "" && *batch == "") || *year == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if err := cfg.EnsureDirs(); err != nil {
		slog.Error("cannot create directories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := infrastructure.InitializeLogger(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *batch != "" {
		if err := runBatch(ctx, cfg, logger, splitList(*batch), *year); err != nil {
			logger.Error("batch failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	if err := run(ctx, cfg, logger, *crop, *year, *scenarios); err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, crop string, year int, scenarioList string) error {
	provider, err := newProvider(cfg, logger)
	if err != nil {
		return err
	}

	m := model.New(cfg, provider, logger)
	ctx = infrastructure.WithRunID(ctx, m.RunID())

	logger.Info("starting pipeline",
		slog.String("crop", crop),
		slog.Int("year", year),
		slog.String("run_id", m.RunID()))

	if err := m.Run(ctx, crop, year); err != nil {
		return err
	}

	baseGraph, err := m.Graph()
	if err != nil {
		return err
	}
	basePartition, err := m.Communities()
	if err != nil {
		return err
	}

	compared := []analysis.Scenario{{
		Name:      "base",
		Graph:     baseGraph,
		Partition: basePartition,
	}}
	shifts := make(map[string]*model.ShiftResult)
	for _, path := range splitList(scenarioList) {
		sc, err := model.LoadScenarioFile(path)
		if err != nil {
			return err
		}
		result, err := m.Shift(ctx, sc)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		shifts[sc.Name] = result
		compared = append(compared, analysis.Scenario{
			Name:      sc.Name,
			Graph:     result.Graph,
			Partition: result.Partition,
		})
	}

	report, err := analysis.Compare(ctx, compared, analysis.Options{
		AttackSampleSize: cfg.Model.AttackSampleSize,
		Seed:             cfg.Model.Seed,
		Normalisation:    cfg.Model.Normalisation,
	}, logger)
	if err != nil {
		return err
	}

	return writeArtefacts(cfg, logger, m, shifts, report)
}

// runBatch runs the base pipeline for several crops in parallel and writes
// each crop's artefacts under its own run directory. Scenario replay stays a
// single-crop concern.
func runBatch(ctx context.Context, cfg *config.Config, logger *slog.Logger, crops []string, year int) error {
	provider, err := newProvider(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("starting batch",
		slog.String("crops", strings.Join(crops, ",")),
		slog.Int("year", year))

	models, err := model.RunBatch(ctx, cfg, provider, crops, year, logger)
	if err != nil {
		return err
	}

	sorted := make([]string, 0, len(models))
	for crop := range models {
		sorted = append(sorted, crop)
	}
	sort.Strings(sorted)

	for _, crop := range sorted {
		m := models[crop]
		graph, err := m.Graph()
		if err != nil {
			return fmt.Errorf("crop %s: %w", crop, err)
		}
		partition, err := m.Communities()
		if err != nil {
			return fmt.Errorf("crop %s: %w", crop, err)
		}
		report, err := analysis.Compare(ctx, []analysis.Scenario{{
			Name:      "base",
			Graph:     graph,
			Partition: partition,
		}}, analysis.Options{
			AttackSampleSize: cfg.Model.AttackSampleSize,
			Seed:             cfg.Model.Seed,
			Normalisation:    cfg.Model.Normalisation,
		}, logger)
		if err != nil {
			return fmt.Errorf("crop %s: %w", crop, err)
		}
		if err := writeArtefacts(cfg, logger, m, nil, report); err != nil {
			return fmt.Errorf("crop %s: %w", crop, err)
		}
	}
	return nil
}

func listDatasets(cfg *config.Config) error {
	datasets, err := files.NewDiscovery(cfg.Paths.DataDir).ListDatasets()
	if err != nil {
		return err
	}
	for _, ds := range datasets {
		fmt.Printf("%s\t%d\t%s\t%s\n", ds.Crop, ds.Year, ds.Region, ds.Format)
	}
	return nil
}

func newProvider(cfg *config.Config, logger *slog.Logger) (dataload.Provider, error) {
	switch cfg.Data.Format {
	case "xlsx":
		return dataload.NewExcelProvider(cfg.Paths.DataDir, cfg.Data.Region, logger), nil
	case "csv":
		return dataload.NewCSVProvider(cfg.Paths.DataDir, cfg.Data.Region, logger), nil
	default:
		return nil, fmt.Errorf("unsupported data format %q", cfg.Data.Format)
	}
}

func writeArtefacts(cfg *config.Config, logger *slog.Logger, m *model.Model, shifts map[string]*model.ShiftResult, report *analysis.Report) error {
	dir := cfg.ReportDir(m.RunID())
	csvWriter := exporter.NewCSVWriter(dir, logger)
	crop, year := m.Crop(), m.Year()

	correction, err := m.Correction()
	if err != nil {
		return err
	}
	if err := csvWriter.WriteFlows(
		exporter.ScenarioFileName(crop, year, "base", "flows"), correction.Flows); err != nil {
		return err
	}

	baseGraph, err := m.Graph()
	if err != nil {
		return err
	}
	if err := csvWriter.WriteGraph(
		exporter.ScenarioFileName(crop, year, "base", "graph"), baseGraph); err != nil {
		return err
	}

	basePartition, err := m.Communities()
	if err != nil {
		return err
	}
	if err := csvWriter.WritePartition(
		exporter.ScenarioFileName(crop, year, "base", "communities"), basePartition); err != nil {
		return err
	}

	for name, shift := range shifts {
		if err := csvWriter.WriteGraph(
			exporter.ScenarioFileName(crop, year, name, "graph"), shift.Graph); err != nil {
			return err
		}
		if err := csvWriter.WritePartition(
			exporter.ScenarioFileName(crop, year, name, "communities"), shift.Partition); err != nil {
			return err
		}
	}

	for _, metrics := range report.Scenarios {
		if err := csvWriter.WriteMetric(
			exporter.ScenarioFileName(crop, year, metrics.Name, "centrality"),
			"export_centrality", metrics.ExportCentrality); err != nil {
			return err
		}
		if err := csvWriter.WritePercolation(
			exporter.ScenarioFileName(crop, year, metrics.Name, "percolation"),
			metrics.Percolation); err != nil {
			return err
		}
	}
	if len(report.Diffs) > 0 {
		if err := csvWriter.WriteDiffs(
			exporter.ScenarioFileName(crop, year, "all", "diffs"), report.Diffs); err != nil {
			return err
		}
	}

	htmlWriter := exporter.NewHTMLWriter(dir, logger)
	if err := htmlWriter.WriteReport(fmt.Sprintf("%s_Y%d_report.html", crop, year), report); err != nil {
		return err
	}
	excelWriter := exporter.NewExcelWriter(dir, logger)
	if err := excelWriter.WriteReport(fmt.Sprintf("%s_Y%d_report.xlsx", crop, year), report); err != nil {
		return err
	}

	logger.Info("report written", slog.String("dir", filepath.Clean(dir)))
	return nil
}

func splitList(list string) []string {
	var out []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
