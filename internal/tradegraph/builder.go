package tradegraph

import (
	"log/slog"

	"tradeshifts/internal/errors"
	"tradeshifts/pkg/contracts/domain"
)

// Build converts a corrected flow table into a trade graph. Flows at or below
// threshold are dropped to keep the graph sparse; producers that end up with
// no edges are kept as isolated nodes. Returns an EMPTY_GRAPH error when no
// edge survives the filter.
func Build(flows []domain.CorrectedFlow, production []domain.Production, threshold float64) (*Graph, error) {
	g := New()

	for _, p := range production {
		g.AddNode(p.Country)
	}

	edges := 0
	for _, f := range flows {
		if f.Quantity <= threshold {
			continue
		}
		if f.Exporter == f.Importer {
			continue
		}
		if err := g.AddEdge(f.Exporter, f.Importer, f.Quantity); err != nil {
			return nil, err
		}
		edges++
	}

	if edges == 0 {
		return nil, errors.NewEmptyGraphError(threshold)
	}

	slog.Debug("trade graph built",
		"nodes", g.NumNodes(),
		"edges", g.NumEdges(),
		"threshold", threshold,
	)
	return g, nil
}
