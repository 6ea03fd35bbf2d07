package analysis

import (
	"math"
	"math/rand"
	"sort"

	"tradeshifts/internal/tradegraph"
)

// AttackStrategy selects the order in which countries are removed when
// probing network robustness.
type AttackStrategy string

const (
	// AttackExport removes countries in decreasing total export volume.
	AttackExport AttackStrategy = "export"
	// AttackEntropic removes countries in decreasing entropic out-degree.
	AttackEntropic AttackStrategy = "entropic"
	// AttackRandom removes countries in a uniformly random order.
	AttackRandom AttackStrategy = "random"
)

// EntropicOutDegree computes the entropic degree of Bompard for each node:
// the total outgoing volume weighted by one plus the entropy of its
// normalised flow distribution. Countries spreading exports across many
// partners score higher than single-channel exporters of equal volume.
func EntropicOutDegree(g *tradegraph.Graph) map[string]float64 {
	scores := make(map[string]float64, g.NumNodes())
	for _, u := range g.Nodes() {
		total := g.OutWeight(u)
		if total == 0 {
			scores[u] = 0
			continue
		}
		entropy := 0.0
		for _, v := range g.Successors(u) {
			p := g.Weight(u, v) / total
			entropy -= p * math.Log(p)
		}
		scores[u] = (1 + entropy) * total
	}
	return scores
}

// PercolationResult reports at which removal fraction a graph stops
// percolating under an attack strategy. For random attacks Threshold is the
// sample mean and StdError the standard error over the samples; targeted
// attacks are deterministic and carry a zero StdError.
type PercolationResult struct {
	Strategy  AttackStrategy `json:"strategy"`
	Threshold float64        `json:"threshold"`
	StdError  float64        `json:"std_error"`
}

// PercolationThreshold removes nodes one at a time in the order the strategy
// dictates and reports the fraction removed when the largest eigenvalue of
// the remaining adjacency matrix drops below one. For AttackRandom the
// removal order is sampled samples times with the seeded source.
func PercolationThreshold(g *tradegraph.Graph, strategy AttackStrategy, seed int64, samples int) PercolationResult {
	result := PercolationResult{Strategy: strategy}
	if g.NumNodes() == 0 {
		return result
	}

	switch strategy {
	case AttackRandom:
		if samples < 1 {
			samples = 1
		}
		rng := rand.New(rand.NewSource(seed))
		thresholds := make([]float64, samples)
		for i := range thresholds {
			order := g.Nodes()
			rng.Shuffle(len(order), func(a, b int) {
				order[a], order[b] = order[b], order[a]
			})
			thresholds[i] = removalThreshold(g, order)
		}
		mean := 0.0
		for _, t := range thresholds {
			mean += t
		}
		mean /= float64(samples)
		variance := 0.0
		for _, t := range thresholds {
			d := t - mean
			variance += d * d
		}
		result.Threshold = mean
		if samples > 1 {
			result.StdError = math.Sqrt(variance/float64(samples-1)) / math.Sqrt(float64(samples))
		}
	case AttackEntropic:
		result.Threshold = removalThreshold(g, orderByScore(g, EntropicOutDegree(g)))
	default:
		exports := make(map[string]float64, g.NumNodes())
		for _, u := range g.Nodes() {
			exports[u] = g.OutWeight(u)
		}
		result.Threshold = removalThreshold(g, orderByScore(g, exports))
	}
	return result
}

// orderByScore sorts nodes by decreasing score, breaking ties by name.
func orderByScore(g *tradegraph.Graph, scores map[string]float64) []string {
	order := g.Nodes()
	sort.SliceStable(order, func(i, j int) bool {
		if scores[order[i]] != scores[order[j]] {
			return scores[order[i]] > scores[order[j]]
		}
		return order[i] < order[j]
	})
	return order
}

// removalThreshold strips nodes in the given order until the residual graph
// no longer percolates, returning the removed fraction at that point.
func removalThreshold(g *tradegraph.Graph, order []string) float64 {
	n := len(order)
	remaining := make(map[string]bool, n)
	for _, u := range order {
		remaining[u] = true
	}
	for removed := 0; removed < n; removed++ {
		if removed > 0 {
			delete(remaining, order[removed-1])
		}
		keep := make([]string, 0, len(remaining))
		for u := range remaining {
			keep = append(keep, u)
		}
		sort.Strings(keep)
		sub := g.Subgraph(keep)
		if largestEigenvalue(sub) < 1 {
			return float64(removed) / float64(n)
		}
	}
	return 1
}

// largestEigenvalue estimates the dominant eigenvalue of the adjacency
// matrix by power iteration. Non-negative matrices make the plain iteration
// safe; a zero matrix yields zero.
func largestEigenvalue(g *tradegraph.Graph) float64 {
	nodes := g.Nodes()
	n := len(nodes)
	if n == 0 {
		return 0
	}
	matrix := g.AdjacencyMatrix(nodes)

	vec := make([]float64, n)
	for i := range vec {
		vec[i] = 1 / float64(n)
	}
	next := make([]float64, n)
	lambda := 0.0
	for iter := 0; iter < 200; iter++ {
		for i := 0; i < n; i++ {
			sum := 0.0
			for j := 0; j < n; j++ {
				sum += matrix[i][j] * vec[j]
			}
			next[i] = sum
		}
		norm := 0.0
		for _, x := range next {
			norm += x * x
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			return 0
		}
		for i := range next {
			next[i] /= norm
		}
		if math.Abs(norm-lambda) < 1e-10 {
			return norm
		}
		lambda = norm
		vec, next = next, vec
	}
	return lambda
}
