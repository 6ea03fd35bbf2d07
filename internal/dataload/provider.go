package dataload

import (
	"context"

	"tradeshifts/internal/errors"
	"tradeshifts/pkg/contracts/domain"
)

// Provider loads the raw trade and production tables for one crop and year.
// Implementations must be deterministic for identical inputs and must return
// a DATA_NOT_FOUND error when no records exist for the requested combination.
type Provider interface {
	Load(ctx context.Context, crop string, year int) ([]domain.TradeFlow, []domain.Production, error)
}

// MemoryProvider serves tables held in memory. It is the fixture substitute
// used in tests and can also back ad-hoc programmatic runs.
type MemoryProvider struct {
	Flows      []domain.TradeFlow
	Production []domain.Production
}

// Load filters the in-memory tables by crop and year. Country normalisation
// is applied the same way the file providers do, so fixtures can use raw
// dataset spellings.
func (p *MemoryProvider) Load(_ context.Context, crop string, year int) ([]domain.TradeFlow, []domain.Production, error) {
	crop = CanonicalCrop(crop)

	var flows []domain.TradeFlow
	for _, f := range p.Flows {
		if CanonicalCrop(f.Crop) != crop || f.Year != year {
			continue
		}
		flows = append(flows, f)
	}
	var production []domain.Production
	for _, pr := range p.Production {
		if CanonicalCrop(pr.Crop) != crop || pr.Year != year {
			continue
		}
		production = append(production, pr)
	}
	if len(flows) == 0 && len(production) == 0 {
		return nil, nil, errors.NewDataNotFoundError(crop, year)
	}

	flows, production = normalizeTables(flows, production)
	return flows, production, nil
}

// normalizeTables applies country normalisation, drops aggregate entries and
// self-loops, clamps negative quantities to zero and merges duplicates that
// normalisation may have created.
func normalizeTables(flows []domain.TradeFlow, production []domain.Production) ([]domain.TradeFlow, []domain.Production) {
	type pair struct{ exporter, importer string }
	merged := make(map[pair]*domain.TradeFlow)
	order := make([]pair, 0, len(flows))
	for _, f := range flows {
		exporter, ok := NormalizeCountry(f.Exporter)
		if !ok {
			continue
		}
		importer, ok := NormalizeCountry(f.Importer)
		if !ok {
			continue
		}
		// a country cannot trade with itself; alias merges can create
		// such entries (e.g. Belgium-Luxembourg exporting to Belgium)
		if exporter == importer {
			continue
		}
		q := f.Quantity
		if q < 0 {
			q = 0
		}
		key := pair{exporter, importer}
		if existing, found := merged[key]; found {
			existing.Quantity += q
			continue
		}
		merged[key] = &domain.TradeFlow{
			Exporter: exporter,
			Importer: importer,
			Crop:     CanonicalCrop(f.Crop),
			Year:     f.Year,
			Quantity: q,
		}
		order = append(order, key)
	}
	outFlows := make([]domain.TradeFlow, 0, len(order))
	for _, key := range order {
		outFlows = append(outFlows, *merged[key])
	}

	prodMerged := make(map[string]*domain.Production)
	prodOrder := make([]string, 0, len(production))
	for _, p := range production {
		country, ok := NormalizeCountry(p.Country)
		if !ok {
			continue
		}
		q := p.Quantity
		if q < 0 {
			q = 0
		}
		if existing, found := prodMerged[country]; found {
			existing.Quantity += q
			continue
		}
		prodMerged[country] = &domain.Production{
			Country:  country,
			Crop:     CanonicalCrop(p.Crop),
			Year:     p.Year,
			Quantity: q,
		}
		prodOrder = append(prodOrder, country)
	}
	outProduction := make([]domain.Production, 0, len(prodOrder))
	for _, country := range prodOrder {
		outProduction = append(outProduction, *prodMerged[country])
	}

	return outFlows, outProduction
}
