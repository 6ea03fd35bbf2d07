package tradegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tradeshifts/internal/errors"
	"tradeshifts/pkg/contracts/domain"
)

func corrected(exporter, importer string, quantity float64) domain.CorrectedFlow {
	return domain.CorrectedFlow{Exporter: exporter, Importer: importer, Crop: "Wheat", Year: 2018, Quantity: quantity}
}

func produce(country string, quantity float64) domain.Production {
	return domain.Production{Country: country, Crop: "Wheat", Year: 2018, Quantity: quantity}
}

func TestGraph_AddEdge(t *testing.T) {
	g := New()
	require.NoError(t, g.AddEdge("A", "B", 10))
	require.NoError(t, g.AddEdge("A", "B", 5)) // parallel edges accumulate
	require.NoError(t, g.AddEdge("B", "C", 2))

	assert.Equal(t, 15.0, g.Weight("A", "B"))
	assert.Equal(t, 3, g.NumNodes())
	assert.Equal(t, 2, g.NumEdges())
	assert.Equal(t, []string{"A", "B", "C"}, g.Nodes())
}

func TestGraph_AddEdge_Rejections(t *testing.T) {
	g := New()
	assert.Error(t, g.AddEdge("A", "A", 10), "self-loop")
	assert.Error(t, g.AddEdge("A", "B", 0), "zero weight")
	assert.Error(t, g.AddEdge("A", "B", -1), "negative weight")
}

func TestGraph_DegreesAndWeights(t *testing.T) {
	g := New()
	require.NoError(t, g.AddEdge("A", "B", 10))
	require.NoError(t, g.AddEdge("A", "C", 20))
	require.NoError(t, g.AddEdge("B", "A", 5))

	assert.Equal(t, 30.0, g.OutWeight("A"))
	assert.Equal(t, 5.0, g.InWeight("A"))
	assert.Equal(t, 10.0, g.InWeight("B"))
	assert.Equal(t, 35.0, g.TotalWeight())
	assert.Equal(t, 2, g.Degree("A")) // B and C, direction ignored
	assert.Equal(t, []string{"B", "C"}, g.Successors("A"))
	assert.Equal(t, []string{"A"}, g.Predecessors("B"))
}

func TestGraph_Subgraph(t *testing.T) {
	g := New()
	require.NoError(t, g.AddEdge("A", "B", 10))
	require.NoError(t, g.AddEdge("B", "C", 20))
	require.NoError(t, g.AddEdge("C", "A", 30))

	sub := g.Subgraph([]string{"A", "B"})
	assert.Equal(t, 2, sub.NumNodes())
	assert.Equal(t, 1, sub.NumEdges())
	assert.Equal(t, 10.0, sub.Weight("A", "B"))
	assert.Equal(t, 0.0, sub.Weight("B", "C"))
}

func TestGraph_UndirectedWeights(t *testing.T) {
	g := New()
	require.NoError(t, g.AddEdge("A", "B", 10))
	require.NoError(t, g.AddEdge("B", "A", 4))

	und := g.UndirectedWeights()
	assert.Equal(t, 14.0, und["A"]["B"])
	assert.Equal(t, 14.0, und["B"]["A"])
}

func TestGraph_AdjacencyMatrix(t *testing.T) {
	g := New()
	require.NoError(t, g.AddEdge("A", "B", 10))
	require.NoError(t, g.AddEdge("B", "C", 20))

	matrix := g.AdjacencyMatrix([]string{"A", "B", "C"})
	assert.Equal(t, [][]float64{
		{0, 10, 0},
		{0, 0, 20},
		{0, 0, 0},
	}, matrix)
}

func TestBuild(t *testing.T) {
	flows := []domain.CorrectedFlow{
		corrected("A", "B", 100),
		corrected("B", "C", 0.5),
		corrected("C", "A", 40),
	}
	production := []domain.Production{
		produce("A", 1000),
		produce("D", 300), // isolated producer stays a node
	}

	g, err := Build(flows, production, 1.0)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C", "D"}, g.Nodes())
	assert.Equal(t, 2, g.NumEdges())
	assert.Equal(t, 0.0, g.Weight("B", "C"), "flow at or below threshold dropped")
	assert.Equal(t, 100.0, g.Weight("A", "B"))
	assert.Equal(t, 0, g.Degree("D"))
}

func TestBuild_ThresholdBoundaryDropped(t *testing.T) {
	flows := []domain.CorrectedFlow{
		corrected("A", "B", 1.0),
		corrected("B", "C", 1.1),
	}
	g, err := Build(flows, nil, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 1, g.NumEdges())
	assert.Equal(t, 1.1, g.Weight("B", "C"))
}

func TestBuild_EmptyGraphError(t *testing.T) {
	flows := []domain.CorrectedFlow{
		corrected("A", "B", 5),
	}
	_, err := Build(flows, []domain.Production{produce("A", 10)}, 10.0)
	require.Error(t, err)
	assert.True(t, apperrors.IsEmptyGraph(err))
}
