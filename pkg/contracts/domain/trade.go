package domain

import (
	"sort"
)

// TradeFlow is a single reported bilateral trade flow for a crop and year.
// Quantities are in tonnes. Flows are immutable once loaded; the re-export
// correction produces a separate CorrectedFlow table instead of mutating them.
type TradeFlow struct {
	Exporter string  `json:"exporter" validate:"required"`
	Importer string  `json:"importer" validate:"required,nefield=Exporter"`
	Crop     string  `json:"crop" validate:"required"`
	Year     int     `json:"year" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
}

// IsValid checks that the flow has both endpoints, no self-loop and a
// non-negative quantity.
func (f TradeFlow) IsValid() bool {
	return f.Exporter != "" && f.Importer != "" &&
		f.Exporter != f.Importer && f.Quantity >= 0
}

// Production is the domestic production of a crop in one country and year.
// One record per country per crop-year.
type Production struct {
	Country  string  `json:"country" validate:"required"`
	Crop     string  `json:"crop" validate:"required"`
	Year     int     `json:"year" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
}

// IsValid checks that the record names a country and carries a non-negative
// quantity.
func (p Production) IsValid() bool {
	return p.Country != "" && p.Quantity >= 0
}

// CorrectedFlow has the same shape as TradeFlow but its quantity has been
// bounded by the re-export correction: for every exporter the sum of outgoing
// corrected flows does not exceed production plus incoming corrected flows.
type CorrectedFlow struct {
	Exporter string  `json:"exporter"`
	Importer string  `json:"importer"`
	Crop     string  `json:"crop"`
	Year     int     `json:"year"`
	Quantity float64 `json:"quantity"`
}

// Countries returns the sorted union of all countries appearing in the given
// flows and production records. This is the node universe of the trade graph.
func Countries(flows []TradeFlow, production []Production) []string {
	seen := make(map[string]struct{})
	for _, f := range flows {
		seen[f.Exporter] = struct{}{}
		seen[f.Importer] = struct{}{}
	}
	for _, p := range production {
		seen[p.Country] = struct{}{}
	}
	countries := make([]string, 0, len(seen))
	for c := range seen {
		countries = append(countries, c)
	}
	sort.Strings(countries)
	return countries
}

// ProductionByCountry collapses production records into a country -> quantity
// map. Negative quantities are treated as zero, duplicate records are summed.
func ProductionByCountry(production []Production) map[string]float64 {
	out := make(map[string]float64, len(production))
	for _, p := range production {
		q := p.Quantity
		if q < 0 {
			q = 0
		}
		out[p.Country] += q
	}
	return out
}
