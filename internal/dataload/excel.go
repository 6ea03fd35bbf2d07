package dataload

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"tradeshifts/internal/errors"
	"tradeshifts/pkg/contracts/domain"
)

// Sheet names expected in a dataset workbook.
const (
	TradeSheet      = "Trade"
	ProductionSheet = "Production"
)

// ExcelProvider reads the dataset from a single workbook
// <crop>_Y<year>_<region>.xlsx with a Trade matrix sheet and a Production
// sheet. It accepts the same matrix layout as the CSV provider.
type ExcelProvider struct {
	Dir    string
	Region string
	logger *slog.Logger
}

// NewExcelProvider creates a provider reading workbooks from dir
func NewExcelProvider(dir, region string, logger *slog.Logger) *ExcelProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelProvider{Dir: dir, Region: region, logger: logger}
}

// Load reads and normalises the trade and production tables for crop and year
func (p *ExcelProvider) Load(ctx context.Context, crop string, year int) ([]domain.TradeFlow, []domain.Production, error) {
	crop = CanonicalCrop(crop)
	path := filepath.Join(p.Dir, fmt.Sprintf("%s_Y%d_%s.xlsx", crop, year, p.Region))

	p.logger.InfoContext(ctx, "loading dataset workbook",
		"crop", crop,
		"year", year,
		"path", path,
	)

	if !fileExists(path) {
		return nil, nil, errors.NewDataNotFoundError(crop, year).
			WithContext("dir", p.Dir).
			WithContext("region", p.Region)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	tradeRows, err := sheetRows(f, TradeSheet)
	if err != nil {
		return nil, nil, err
	}
	productionRows, err := sheetRows(f, ProductionSheet)
	if err != nil {
		return nil, nil, err
	}

	flows, err := tradeMatrixFromRows(tradeRows, crop, year, path)
	if err != nil {
		return nil, nil, err
	}
	production, err := productionFromRows(productionRows, crop, year, path)
	if err != nil {
		return nil, nil, err
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

func sheetRows(f *excelize.File, sheet string) ([][]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("sheet %q not readable", sheet), err)
	}
	return rows, nil
}

func tradeMatrixFromRows(rows [][]string, crop string, year int, source string) ([]domain.TradeFlow, error) {
	if len(rows) < 2 || len(rows[0]) < 2 {
		return nil, errors.NewParsingError(fmt.Sprintf("trade sheet in %s has no data", source), nil)
	}
	importers := rows[0][1:]

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
					fmt.Sprintf("bad quantity %q at row %d column %d in %s", cell, i+2, j+2, source), nil)
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

func productionFromRows(rows [][]string, crop string, year int, source string) ([]domain.Production, error) {
	if len(rows) < 2 {
		return nil, errors.NewParsingError(fmt.Sprintf("production sheet in %s has no data", source), nil)
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
				fmt.Sprintf("bad quantity %q at row %d in %s", row[1], i+2, source), nil)
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
