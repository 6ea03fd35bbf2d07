package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tradeshifts/internal/tradegraph"
)

type testEdge struct {
	from, to string
	weight   float64
}

func buildGraph(t *testing.T, edges []testEdge) *tradegraph.Graph {
	t.Helper()
	g := tradegraph.New()
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e.from, e.to, e.weight))
	}
	return g
}

// triangleEdges links three countries in a symmetric triangle of equal flows.
func triangleEdges(a, b, c string, weight float64) []testEdge {
	return []testEdge{
		{a, b, weight}, {b, a, weight},
		{b, c, weight}, {c, b, weight},
		{a, c, weight}, {c, a, weight},
	}
}
