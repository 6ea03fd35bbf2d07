package analysis

import (
	"tradeshifts/internal/community"
	"tradeshifts/internal/tradegraph"
)

// CommunitySatisfaction returns, for each country, the share of its imports
// supplied from within its own community. Countries with no imports score
// zero.
func CommunitySatisfaction(g *tradegraph.Graph, p community.Partition) map[string]float64 {
	satisfaction := make(map[string]float64, g.NumNodes())
	for _, country := range g.Nodes() {
		total := g.InWeight(country)
		if total == 0 {
			satisfaction[country] = 0
			continue
		}
		own, ok := p.CommunityOf(country)
		if !ok {
			satisfaction[country] = 0
			continue
		}
		internal := 0.0
		for _, exporter := range g.Predecessors(country) {
			if own.Contains(exporter) {
				internal += g.Weight(exporter, country)
			}
		}
		satisfaction[country] = internal / total
	}
	return satisfaction
}
