package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeshifts/internal/community"
)

func testScenario(t *testing.T, name string, edges []testEdge, sets [][]string) Scenario {
	t.Helper()
	return Scenario{
		Name:      name,
		Graph:     buildGraph(t, edges),
		Partition: community.NewPartition(sets),
	}
}

func TestCompare_IdenticalScenarios(t *testing.T) {
	edges := append(triangleEdges("A", "B", "C", 5), triangleEdges("X", "Y", "Z", 5)...)
	sets := [][]string{{"A", "B", "C"}, {"X", "Y", "Z"}}

	base := testScenario(t, "base", edges, sets)
	shifted := testScenario(t, "drought", edges, sets)

	report, err := Compare(context.Background(), []Scenario{base, shifted}, Options{
		AttackSampleSize: 5,
		Seed:             2,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "base", report.Base)
	require.Len(t, report.Scenarios, 2)
	require.Len(t, report.Diffs, 1)

	diff := report.Diffs[0]
	assert.Equal(t, "drought", diff.Name)
	assert.Zero(t, diff.Frobenius)
	assert.InDelta(t, 0, diff.Markov, 1e-9)
	assert.InDelta(t, 0, diff.EntropyRateDelta, 1e-12)
	for country, jaccard := range diff.CommunityJaccard {
		assert.InDelta(t, 1.0, jaccard, 1e-12, country)
	}
	for country, delta := range diff.CentralityDelta {
		assert.InDelta(t, 0, delta, 1e-12, country)
	}
	for country, delta := range diff.ImportDelta {
		assert.InDelta(t, 0, delta, 1e-12, country)
		assert.InDelta(t, 0, diff.ImportRelDelta[country], 1e-12, country)
	}
}

func TestCompare_MetricsPopulated(t *testing.T) {
	sc := testScenario(t, "base", triangleEdges("A", "B", "C", 5), [][]string{{"A", "B", "C"}})

	report, err := Compare(context.Background(), []Scenario{sc}, Options{
		AttackSampleSize: 3,
		Seed:             2,
		Normalisation:    NormalisationWeak,
	}, nil)
	require.NoError(t, err)
	require.Len(t, report.Scenarios, 1)
	assert.Empty(t, report.Diffs)

	m := report.Scenarios[0]
	assert.Equal(t, 3, m.Countries)
	assert.Equal(t, 6, m.Flows)
	assert.Equal(t, 30.0, m.TotalVolume)
	assert.Equal(t, 1, m.Communities)
	assert.Len(t, m.ExportCentrality, 3)
	assert.InDelta(t, 1.0, m.Efficiency, 1e-9)
	assert.Len(t, m.Roles, 3)
	assert.Len(t, m.Percolation, 3)
	for _, country := range []string{"A", "B", "C"} {
		assert.InDelta(t, 1.0, m.Satisfaction[country], 1e-12)
		assert.InDelta(t, 10.0, m.ImportVolume[country], 1e-12)
	}
}

func TestCompare_CommunityJaccardTracksSplit(t *testing.T) {
	edges := append(triangleEdges("A", "B", "C", 5), triangleEdges("X", "Y", "Z", 5)...)

	base := testScenario(t, "base", edges, [][]string{{"A", "B", "C"}, {"X", "Y", "Z"}})
	// The shifted run merges the two blocs into one community.
	shifted := testScenario(t, "merged", edges, [][]string{{"A", "B", "C", "X", "Y", "Z"}})

	report, err := Compare(context.Background(), []Scenario{base, shifted}, Options{AttackSampleSize: 1, Seed: 2}, nil)
	require.NoError(t, err)

	// A keeps {B, C} but gains {X, Y, Z}: intersection 2, union 5.
	assert.InDelta(t, 0.4, report.Diffs[0].CommunityJaccard["A"], 1e-12)
}

func TestCompare_Empty(t *testing.T) {
	report, err := Compare(context.Background(), nil, Options{}, nil)
	require.NoError(t, err)
	assert.Empty(t, report.Scenarios)
}

func TestCompare_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sc := testScenario(t, "base", triangleEdges("A", "B", "C", 1), [][]string{{"A", "B", "C"}})
	_, err := Compare(ctx, []Scenario{sc}, Options{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
