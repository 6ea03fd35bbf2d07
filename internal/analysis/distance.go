package analysis

import (
	"math"
	"sort"

	"tradeshifts/internal/tradegraph"
)

const (
	stationaryIterations = 1000
	stationaryTolerance  = 1e-12
)

// CommonNodes returns the sorted intersection of two graphs' node sets.
// Distances are computed over common nodes so that scenarios with slightly
// different country universes remain comparable.
func CommonNodes(a, b *tradegraph.Graph) []string {
	var common []string
	for _, n := range a.Nodes() {
		if b.HasNode(n) {
			common = append(common, n)
		}
	}
	sort.Strings(common)
	return common
}

// FrobeniusDistance is the Frobenius norm of the difference of the two
// adjacency matrices restricted to their common nodes.
func FrobeniusDistance(a, b *tradegraph.Graph) float64 {
	nodes := CommonNodes(a, b)
	ma := a.AdjacencyMatrix(nodes)
	mb := b.AdjacencyMatrix(nodes)

	sum := 0.0
	for i := range ma {
		for j := range ma[i] {
			d := ma[i][j] - mb[i][j]
			sum += d * d
		}
	}
	return math.Sqrt(sum)
}

// rightStochastic normalises matrix rows to sum to one. All-zero rows become
// uniform so the result is a proper transition matrix.
func rightStochastic(matrix [][]float64) [][]float64 {
	n := len(matrix)
	out := make([][]float64, n)
	for i, row := range matrix {
		out[i] = make([]float64, n)
		rowSum := 0.0
		for _, v := range row {
			rowSum += v
		}
		if rowSum == 0 {
			for j := range out[i] {
				out[i][j] = 1 / float64(n)
			}
			continue
		}
		for j, v := range row {
			out[i][j] = v / rowSum
		}
	}
	return out
}

// stationaryDistribution finds pi with pi = pi * P by power iteration from
// the uniform distribution.
func stationaryDistribution(transition [][]float64) []float64 {
	n := len(transition)
	if n == 0 {
		return nil
	}
	pi := make([]float64, n)
	for i := range pi {
		pi[i] = 1 / float64(n)
	}

	next := make([]float64, n)
	for iter := 0; iter < stationaryIterations; iter++ {
		for j := range next {
			next[j] = 0
		}
		for i := range transition {
			if pi[i] == 0 {
				continue
			}
			for j, p := range transition[i] {
				next[j] += pi[i] * p
			}
		}
		diff := 0.0
		for i := range pi {
			diff += math.Abs(next[i] - pi[i])
		}
		copy(pi, next)
		if diff < stationaryTolerance {
			break
		}
	}
	return pi
}

// MarkovDistance is the Euclidean distance between the stationary
// distributions of Markov random walks on the two graphs, restricted to
// common nodes.
func MarkovDistance(a, b *tradegraph.Graph) float64 {
	nodes := CommonNodes(a, b)
	if len(nodes) == 0 {
		return 0
	}

	piA := stationaryDistribution(rightStochastic(a.Subgraph(nodes).AdjacencyMatrix(nodes)))
	piB := stationaryDistribution(rightStochastic(b.Subgraph(nodes).AdjacencyMatrix(nodes)))

	sum := 0.0
	for i := range piA {
		d := piA[i] - piB[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// EntropyRate is the entropy rate of a Markov random walk on the graph:
// H = -sum_i pi_i sum_j P_ij ln P_ij.
func EntropyRate(g *tradegraph.Graph) float64 {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return 0
	}
	transition := rightStochastic(g.AdjacencyMatrix(nodes))
	pi := stationaryDistribution(transition)

	h := 0.0
	for i := range transition {
		rowEntropy := 0.0
		for _, p := range transition[i] {
			if p > 0 {
				rowEntropy -= p * math.Log(p)
			}
		}
		h += pi[i] * rowEntropy
	}
	return h
}
