package dataload

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"tradeshifts/internal/errors"
	"tradeshifts/pkg/contracts/domain"
)

// CSVProvider reads the preprocessed dataset CSV files from a directory.
// The trade file is a matrix (first column exporter, header row importers),
// the production file has one country per row.
type CSVProvider struct {
	Dir    string
	Region string
	logger *slog.Logger
}

// NewCSVProvider creates a provider reading from dir for the given region label
func NewCSVProvider(dir, region string, logger *slog.Logger) *CSVProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVProvider{Dir: dir, Region: region, logger: logger}
}

// Load reads and normalises the trade and production tables for crop and year
func (p *CSVProvider) Load(ctx context.Context, crop string, year int) ([]domain.TradeFlow, []domain.Production, error) {
	crop = CanonicalCrop(crop)
	base := fmt.Sprintf("%s_Y%d_%s", crop, year, p.Region)
	tradePath := filepath.Join(p.Dir, base+"_trade.csv")
	productionPath := filepath.Join(p.Dir, base+"_production.csv")

	p.logger.InfoContext(ctx, "loading dataset",
		"crop", crop,
		"year", year,
		"trade_file", tradePath,
		"production_file", productionPath,
	)

	if !fileExists(tradePath) || !fileExists(productionPath) {
		return nil, nil, errors.NewDataNotFoundError(crop, year).
			WithContext("dir", p.Dir).
			WithContext("region", p.Region)
	}

	flows, err := readTradeMatrixCSV(tradePath, crop, year)
	if err != nil {
		return nil, nil, fmt.Errorf("read trade matrix: %w", err)
	}
	production, err := readProductionCSV(productionPath, crop, year)
	if err != nil {
		return nil, nil, fmt.Errorf("read production: %w", err)
	}
	if len(flows) == 0 && len(production) == 0 {
		return nil, nil, errors.NewDataNotFoundError(crop, year)
	}

	flows, production = normalizeTables(flows, production)
	p.logger.InfoContext(ctx, "dataset loaded",
		"flows", len(flows),
		"producers", len(production),
	)
	return flows, production, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// readTradeMatrixCSV parses a trade file in either of the two accepted
// layouts: an exporter-by-importer quantity matrix, or long form with one
// exporter,importer,quantity flow per row. Empty cells are zero flows and
// are skipped.
func readTradeMatrixCSV(path, crop string, year int) ([]domain.TradeFlow, error) {
	rows, err := readCSVFile(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errors.NewParsingError(fmt.Sprintf("trade matrix %s has no data rows", path), nil)
	}
	if isLongFormHeader(rows[0]) {
		return readLongFormRows(rows[1:], path, crop, year)
	}

	header := rows[0]
	if len(header) < 2 {
		return nil, errors.NewParsingError(fmt.Sprintf("trade matrix %s has no importer columns", path), nil)
	}
	importers := header[1:]

	var flows []domain.TradeFlow
	for i, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		exporter := strings.TrimSpace(row[0])
		if exporter == "" {
			continue
		}
		for j, cell := range row[1:] {
			if j >= len(importers) {
				break
			}
			q, ok := parseQuantity(cell)
			if !ok {
				return nil, errors.NewParsingError(
					fmt.Sprintf("bad quantity %q at row %d column %d in %s", cell, i+2, j+2, path), nil)
			}
			if q == 0 {
				continue
			}
			flows = append(flows, domain.TradeFlow{
				Exporter: exporter,
				Importer: strings.TrimSpace(importers[j]),
				Crop:     crop,
				Year:     year,
				Quantity: q,
			})
		}
	}
	return flows, nil
}

// isLongFormHeader recognises the long-form trade layout by its first two
// column names (reporter/partner in raw FAOSTAT terms, exporter/importer in
// preprocessed files).
func isLongFormHeader(header []string) bool {
	if len(header) < 3 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(header[0]))
	second := strings.ToLower(strings.TrimSpace(header[1]))
	return (first == "exporter" || first == "reporter") &&
		(second == "importer" || second == "partner")
}

// readLongFormRows parses exporter,importer,quantity rows.
func readLongFormRows(rows [][]string, path, crop string, year int) ([]domain.TradeFlow, error) {
	var flows []domain.TradeFlow
	for i, row := range rows {
		if len(row) < 3 {
			continue
		}
		exporter := strings.TrimSpace(row[0])
		importer := strings.TrimSpace(row[1])
		if exporter == "" || importer == "" {
			continue
		}
		q, ok := parseQuantity(row[2])
		if !ok {
			return nil, errors.NewParsingError(
				fmt.Sprintf("bad quantity %q at row %d in %s", row[2], i+2, path), nil)
		}
		if q == 0 {
			continue
		}
		flows = append(flows, domain.TradeFlow{
			Exporter: exporter,
			Importer: importer,
			Crop:     crop,
			Year:     year,
			Quantity: q,
		})
	}
	return flows, nil
}

// readProductionCSV parses country,quantity rows (header row required)
func readProductionCSV(path, crop string, year int) ([]domain.Production, error) {
	rows, err := readCSVFile(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errors.NewParsingError(fmt.Sprintf("production file %s has no data rows", path), nil)
	}

	var production []domain.Production
	for i, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}
		country := strings.TrimSpace(row[0])
		if country == "" {
			continue
		}
		q, ok := parseQuantity(row[1])
		if !ok {
			return nil, errors.NewParsingError(
				fmt.Sprintf("bad quantity %q at row %d in %s", row[1], i+2, path), nil)
		}
		production = append(production, domain.Production{
			Country:  country,
			Crop:     crop,
			Year:     year,
			Quantity: q,
		})
	}
	return production, nil
}

func readCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to parse %s", path), err)
	}
	return rows, nil
}

// parseQuantity converts a dataset cell to a quantity. Empty and
// unparseable-as-missing cells ("", "NA") are zero; negative values are
// clamped to zero later during normalisation.
func parseQuantity(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" || strings.EqualFold(cell, "na") || strings.EqualFold(cell, "nan") {
		return 0, true
	}
	q, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, false
	}
	return q, true
}
