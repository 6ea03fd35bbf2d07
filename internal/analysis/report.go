package analysis

import (
	"context"
	"log/slog"

	"tradeshifts/internal/community"
	"tradeshifts/internal/tradegraph"
)

// Scenario bundles a named trade graph with its community partition. The
// first scenario passed to Compare acts as the baseline all others are
// measured against.
type Scenario struct {
	Name      string
	Graph     *tradegraph.Graph
	Partition community.Partition
}

// Options tunes the comparison run.
type Options struct {
	// AttackSampleSize is the number of random removal orders averaged for
	// the random percolation threshold.
	AttackSampleSize int
	// Seed drives the random attack sampling.
	Seed int64
	// Normalisation selects the graph efficiency normalisation mode.
	Normalisation string
}

// ScenarioMetrics holds the per-scenario figures of the report.
type ScenarioMetrics struct {
	Name              string              `json:"name"`
	Countries         int                 `json:"countries"`
	Flows             int                 `json:"flows"`
	TotalVolume       float64             `json:"total_volume"`
	ExportCentrality  map[string]float64  `json:"export_centrality"`
	ImportCentrality  map[string]float64  `json:"import_centrality"`
	ImportVolume      map[string]float64  `json:"import_volume"`
	CentralityRange   MinMax              `json:"centrality_range"`
	Communities       int                 `json:"communities"`
	Modularity        float64             `json:"modularity"`
	Satisfaction      map[string]float64  `json:"satisfaction"`
	Clustering        float64             `json:"clustering"`
	Efficiency        float64             `json:"efficiency"`
	MeanBetweenness   float64             `json:"mean_betweenness"`
	EntropyRate       float64             `json:"entropy_rate"`
	Roles             []NodeRole          `json:"roles"`
	Percolation       []PercolationResult `json:"percolation"`
	EntropicOutDegree map[string]float64  `json:"entropic_out_degree"`
}

// ScenarioDiff measures how far a scenario drifted from the baseline.
type ScenarioDiff struct {
	Name              string             `json:"name"`
	Frobenius         float64            `json:"frobenius"`
	Markov            float64            `json:"markov"`
	EntropyRateDelta  float64            `json:"entropy_rate_delta"`
	CommunityJaccard  map[string]float64 `json:"community_jaccard"`
	CentralityDelta   map[string]float64 `json:"centrality_delta"`
	SatisfactionDelta map[string]float64 `json:"satisfaction_delta"`
	ImportDelta       map[string]float64 `json:"import_delta"`
	ImportRelDelta    map[string]float64 `json:"import_rel_delta"`
}

// Report is the output of a full comparison run.
type Report struct {
	Base      string            `json:"base"`
	Scenarios []ScenarioMetrics `json:"scenarios"`
	Diffs     []ScenarioDiff    `json:"diffs"`
}

// Compare computes the full metric suite for every scenario and the drift of
// each non-base scenario from the base. The context is checked between
// scenarios so long runs can be abandoned.
func Compare(ctx context.Context, scenarios []Scenario, opts Options, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}
	report := &Report{}
	if len(scenarios) == 0 {
		return report, nil
	}
	report.Base = scenarios[0].Name

	for _, sc := range scenarios {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logger.Info("analysing scenario",
			slog.String("scenario", sc.Name),
			slog.Int("countries", sc.Graph.NumNodes()),
			slog.Int("flows", sc.Graph.NumEdges()))
		report.Scenarios = append(report.Scenarios, scenarioMetrics(sc, opts))
	}

	base := scenarios[0]
	baseMetrics := report.Scenarios[0]
	for i := 1; i < len(scenarios); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Diffs = append(report.Diffs, scenarioDiff(base, baseMetrics, scenarios[i], report.Scenarios[i]))
	}
	return report, nil
}

func scenarioMetrics(sc Scenario, opts Options) ScenarioMetrics {
	exports := DegreeCentrality(sc.Graph, true)
	m := ScenarioMetrics{
		Name:              sc.Name,
		Countries:         sc.Graph.NumNodes(),
		Flows:             sc.Graph.NumEdges(),
		TotalVolume:       sc.Graph.TotalWeight(),
		ExportCentrality:  exports,
		ImportCentrality:  DegreeCentrality(sc.Graph, false),
		ImportVolume:      Imports(sc.Graph),
		CentralityRange:   MinMaxOf(exports),
		Communities:       sc.Partition.Len(),
		Modularity:        community.Modularity(sc.Graph, sc.Partition),
		Satisfaction:      CommunitySatisfaction(sc.Graph, sc.Partition),
		Clustering:        AverageClustering(sc.Graph),
		Efficiency:        GraphEfficiency(sc.Graph, opts.Normalisation),
		MeanBetweenness:   MeanBetweenness(sc.Graph),
		EntropyRate:       EntropyRate(sc.Graph),
		Roles:             Roles(sc.Graph, sc.Partition),
		EntropicOutDegree: EntropicOutDegree(sc.Graph),
	}
	for _, strategy := range []AttackStrategy{AttackExport, AttackEntropic, AttackRandom} {
		m.Percolation = append(m.Percolation,
			PercolationThreshold(sc.Graph, strategy, opts.Seed, opts.AttackSampleSize))
	}
	return m
}

func scenarioDiff(base Scenario, baseMetrics ScenarioMetrics, sc Scenario, metrics ScenarioMetrics) ScenarioDiff {
	diff := ScenarioDiff{
		Name:              sc.Name,
		Frobenius:         FrobeniusDistance(base.Graph, sc.Graph),
		Markov:            MarkovDistance(base.Graph, sc.Graph),
		EntropyRateDelta:  metrics.EntropyRate - baseMetrics.EntropyRate,
		CommunityJaccard:  make(map[string]float64),
		CentralityDelta:   make(map[string]float64),
		SatisfactionDelta: make(map[string]float64),
		ImportDelta:       make(map[string]float64),
		ImportRelDelta:    make(map[string]float64),
	}
	for _, country := range CommonNodes(base.Graph, sc.Graph) {
		baseCommunity, ok := base.Partition.CommunityOf(country)
		if !ok {
			continue
		}
		shiftedCommunity, ok := sc.Partition.CommunityOf(country)
		if !ok {
			continue
		}
		diff.CommunityJaccard[country] = community.Jaccard(baseCommunity, shiftedCommunity, country)
		diff.CentralityDelta[country] = metrics.ExportCentrality[country] - baseMetrics.ExportCentrality[country]
		diff.SatisfactionDelta[country] = metrics.Satisfaction[country] - baseMetrics.Satisfaction[country]
		diff.ImportDelta[country] = metrics.ImportVolume[country] - baseMetrics.ImportVolume[country]
		if baseVolume := baseMetrics.ImportVolume[country]; baseVolume > 0 {
			diff.ImportRelDelta[country] = diff.ImportDelta[country] / baseVolume
		}
	}
	return diff
}
