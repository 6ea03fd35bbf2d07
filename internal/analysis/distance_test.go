package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrobeniusDistance_IdenticalGraphs(t *testing.T) {
	edges := []testEdge{{"A", "B", 10}, {"B", "C", 5}}
	a := buildGraph(t, edges)
	b := buildGraph(t, edges)

	assert.Zero(t, FrobeniusDistance(a, b))
}

func TestFrobeniusDistance_SingleEdgeChange(t *testing.T) {
	a := buildGraph(t, []testEdge{{"A", "B", 10}, {"B", "C", 5}})
	b := buildGraph(t, []testEdge{{"A", "B", 7}, {"B", "C", 5}})

	assert.InDelta(t, 3.0, FrobeniusDistance(a, b), 1e-12)
}

func TestFrobeniusDistance_RestrictedToCommonNodes(t *testing.T) {
	a := buildGraph(t, []testEdge{{"A", "B", 10}, {"A", "D", 100}})
	b := buildGraph(t, []testEdge{{"A", "B", 10}, {"A", "E", 100}})

	// D and E are not shared, so their flows do not count.
	assert.Zero(t, FrobeniusDistance(a, b))
}

func TestMarkovDistance_IdenticalGraphs(t *testing.T) {
	edges := triangleEdges("A", "B", "C", 4)
	assert.InDelta(t, 0, MarkovDistance(buildGraph(t, edges), buildGraph(t, edges)), 1e-9)
}

func TestMarkovDistance_ScaleInvariant(t *testing.T) {
	// Doubling every flow leaves the random walk unchanged.
	a := buildGraph(t, []testEdge{{"A", "B", 3}, {"B", "C", 2}, {"C", "A", 5}})
	b := buildGraph(t, []testEdge{{"A", "B", 6}, {"B", "C", 4}, {"C", "A", 10}})

	assert.InDelta(t, 0, MarkovDistance(a, b), 1e-9)
}

func TestMarkovDistance_DetectsRedistribution(t *testing.T) {
	a := buildGraph(t, []testEdge{{"A", "B", 9}, {"A", "C", 1}, {"B", "A", 1}, {"C", "A", 1}})
	b := buildGraph(t, []testEdge{{"A", "B", 1}, {"A", "C", 9}, {"B", "A", 1}, {"C", "A", 1}})

	assert.Greater(t, MarkovDistance(a, b), 0.1)
}

func TestEntropyRate_DeterministicCycle(t *testing.T) {
	// Every country has exactly one buyer, so the walk has no uncertainty.
	g := buildGraph(t, []testEdge{{"A", "B", 5}, {"B", "C", 5}, {"C", "A", 5}})

	assert.InDelta(t, 0, EntropyRate(g), 1e-9)
}

func TestEntropyRate_UniformTriangle(t *testing.T) {
	// Two equally likely buyers per country gives ln 2 per step.
	g := buildGraph(t, triangleEdges("A", "B", "C", 1))

	assert.InDelta(t, math.Log(2), EntropyRate(g), 1e-9)
}

func TestEntropyRate_EmptyGraph(t *testing.T) {
	assert.Zero(t, EntropyRate(buildGraph(t, nil)))
}
