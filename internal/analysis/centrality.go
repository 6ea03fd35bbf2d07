package analysis

import (
	"tradeshifts/internal/tradegraph"
)

// DegreeCentrality returns, for each country, its total out-going (exports)
// or in-coming (imports) edge weight divided by the total flow of the graph.
func DegreeCentrality(g *tradegraph.Graph, out bool) map[string]float64 {
	total := g.TotalWeight()
	centrality := make(map[string]float64, g.NumNodes())
	for _, country := range g.Nodes() {
		var w float64
		if out {
			w = g.OutWeight(country)
		} else {
			w = g.InWeight(country)
		}
		if total > 0 {
			centrality[country] = w / total
		} else {
			centrality[country] = 0
		}
	}
	return centrality
}

// Imports returns each country's total incoming trade volume
func Imports(g *tradegraph.Graph) map[string]float64 {
	imports := make(map[string]float64, g.NumNodes())
	for _, country := range g.Nodes() {
		imports[country] = g.InWeight(country)
	}
	return imports
}

// MinMax summarises the extremes of a per-country metric
type MinMax struct {
	MinCountry string  `json:"min_country"`
	MinValue   float64 `json:"min_value"`
	MaxCountry string  `json:"max_country"`
	MaxValue   float64 `json:"max_value"`
}

// MinMaxOf finds the smallest and largest values of a metric. Ties resolve to
// the lexicographically smallest country so summaries are deterministic.
func MinMaxOf(values map[string]float64) MinMax {
	var mm MinMax
	first := true
	for country, v := range values {
		switch {
		case first:
			mm = MinMax{MinCountry: country, MinValue: v, MaxCountry: country, MaxValue: v}
			first = false
		default:
			if v < mm.MinValue || (v == mm.MinValue && country < mm.MinCountry) {
				mm.MinCountry, mm.MinValue = country, v
			}
			if v > mm.MaxValue || (v == mm.MaxValue && country < mm.MaxCountry) {
				mm.MaxCountry, mm.MaxValue = country, v
			}
		}
	}
	return mm
}
