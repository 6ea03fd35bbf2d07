package community

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeshifts/internal/tradegraph"
)

func graphFromEdges(t *testing.T, edges [][3]interface{}) *tradegraph.Graph {
	t.Helper()
	g := tradegraph.New()
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e[0].(string), e[1].(string), e[2].(float64)))
	}
	return g
}

func TestDetect_SingleEdgePairSharesCommunity(t *testing.T) {
	g := graphFromEdges(t, [][3]interface{}{
		{"A", "B", 100.0},
	})

	p := NewDetector(2, nil).Detect(context.Background(), g)

	assert.Equal(t, 1, p.Len())
	assert.True(t, p.SameCommunity("A", "B"))
}

func TestDetect_TwoBlocsWithWeakBridge(t *testing.T) {
	g := graphFromEdges(t, [][3]interface{}{
		// bloc one, heavily interconnected
		{"A", "B", 100.0},
		{"B", "C", 100.0},
		{"C", "A", 100.0},
		// bloc two
		{"X", "Y", 100.0},
		{"Y", "Z", 100.0},
		{"Z", "X", 100.0},
		// weak bridge
		{"C", "X", 1.0},
	})

	p := NewDetector(2, nil).Detect(context.Background(), g)

	require.Equal(t, 2, p.Len())
	assert.True(t, p.SameCommunity("A", "C"))
	assert.True(t, p.SameCommunity("X", "Z"))
	assert.False(t, p.SameCommunity("A", "X"))
}

func TestDetect_IsolatedNodesAreSingletons(t *testing.T) {
	g := graphFromEdges(t, [][3]interface{}{
		{"A", "B", 50.0},
	})
	g.AddNode("Lonely")

	p := NewDetector(2, nil).Detect(context.Background(), g)

	require.Equal(t, 2, p.Len())
	c, ok := p.CommunityOf("Lonely")
	require.True(t, ok)
	assert.Equal(t, Community{"Lonely"}, c)
}

func TestDetect_NoEdges(t *testing.T) {
	g := tradegraph.New()
	g.AddNode("A")
	g.AddNode("B")

	p := NewDetector(2, nil).Detect(context.Background(), g)

	assert.Equal(t, 2, p.Len())
	assert.False(t, p.SameCommunity("A", "B"))
}

func TestDetect_Deterministic(t *testing.T) {
	edges := [][3]interface{}{
		{"A", "B", 10.0},
		{"B", "C", 10.0},
		{"C", "D", 10.0},
		{"D", "A", 10.0},
		{"E", "F", 10.0},
		{"F", "G", 10.0},
		{"G", "E", 10.0},
		{"C", "E", 2.0},
	}

	first := NewDetector(2, nil).Detect(context.Background(), graphFromEdges(t, edges))
	for i := 0; i < 5; i++ {
		again := NewDetector(2, nil).Detect(context.Background(), graphFromEdges(t, edges))
		assert.True(t, first.Equal(again), "run %d differs", i)
	}
}

func TestDetect_ImprovesModularityOverSingletons(t *testing.T) {
	g := graphFromEdges(t, [][3]interface{}{
		{"A", "B", 100.0},
		{"B", "C", 100.0},
		{"X", "Y", 100.0},
		{"A", "X", 5.0},
	})

	p := NewDetector(2, nil).Detect(context.Background(), g)

	singletons := NewPartition([][]string{{"A"}, {"B"}, {"C"}, {"X"}, {"Y"}})
	assert.Greater(t, Modularity(g, p), Modularity(g, singletons))
}

func TestPartition_Ordering(t *testing.T) {
	p := NewPartition([][]string{
		{"Z", "Y"},
		{"C", "A", "B"},
		{"M"},
	})

	require.Equal(t, 3, p.Len())
	assert.Equal(t, Community{"A", "B", "C"}, p.Communities[0]) // largest first
	assert.Equal(t, Community{"Y", "Z"}, p.Communities[1])
	assert.Equal(t, Community{"M"}, p.Communities[2])
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Community
		exclude string
		want    float64
	}{
		{"identical", Community{"A", "B", "C"}, Community{"A", "B", "C"}, "A", 1.0},
		{"disjoint", Community{"A", "B"}, Community{"A", "C"}, "A", 0.0},
		{"partial overlap", Community{"A", "B", "C"}, Community{"A", "B", "D"}, "A", 1.0 / 3.0},
		{"both empty after exclusion", Community{"A"}, Community{"A"}, "A", 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Jaccard(tt.a, tt.b, tt.exclude), 1e-12)
		})
	}
}

func TestModularity_TwoCleanBlocs(t *testing.T) {
	g := graphFromEdges(t, [][3]interface{}{
		{"A", "B", 10.0},
		{"X", "Y", 10.0},
	})

	blocs := NewPartition([][]string{{"A", "B"}, {"X", "Y"}})
	merged := NewPartition([][]string{{"A", "B", "X", "Y"}})

	assert.InDelta(t, 0.5, Modularity(g, blocs), 1e-12)
	assert.Greater(t, Modularity(g, blocs), Modularity(g, merged))
}
