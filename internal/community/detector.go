package community

import (
	"context"
	"log/slog"
	"sort"

	"tradeshifts/internal/tradegraph"
)

// Detector finds trading blocs by greedy modularity maximisation.
// The seed is carried for parity with the sampling-based analyses elsewhere
// in the model; the greedy merge itself is deterministic by construction.
type Detector struct {
	seed   int64
	logger *slog.Logger
}

// NewDetector creates a detector with the given seed
func NewDetector(seed int64, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{seed: seed, logger: logger}
}

// Seed returns the configured random seed
func (d *Detector) Seed() int64 { return d.seed }

// Detect partitions the graph into communities. Isolated nodes become
// singleton communities.
func (d *Detector) Detect(ctx context.Context, g *tradegraph.Graph) Partition {
	nodes := g.Nodes()
	und := g.UndirectedWeights()

	// total over all ordered pairs, i.e. 2m in modularity terms
	m2 := 0.0
	for _, neighbours := range und {
		for _, w := range neighbours {
			m2 += w
		}
	}
	if m2 == 0 {
		sets := make([][]string, len(nodes))
		for i, n := range nodes {
			sets[i] = []string{n}
		}
		return NewPartition(sets)
	}

	// each community is labelled by its lexicographically smallest member
	members := make(map[string][]string, len(nodes))
	degree := make(map[string]float64, len(nodes))
	between := make(map[string]map[string]float64, len(nodes))
	for _, n := range nodes {
		members[n] = []string{n}
		between[n] = make(map[string]float64)
	}
	for u, neighbours := range und {
		for v, w := range neighbours {
			degree[u] += w
			if u != v {
				between[u][v] = w
			}
		}
	}

	for len(members) > 1 {
		select {
		case <-ctx.Done():
			// cancelled mid-merge: return what we have
			return partitionFromMembers(members)
		default:
		}

		labels := make([]string, 0, len(members))
		for label := range members {
			labels = append(labels, label)
		}
		sort.Strings(labels)

		bestGain := 0.0
		bestA, bestB := "", ""
		for _, a := range labels {
			neighbours := make([]string, 0, len(between[a]))
			for b := range between[a] {
				if b > a {
					neighbours = append(neighbours, b)
				}
			}
			sort.Strings(neighbours)
			for _, b := range neighbours {
				// strict improvement: equal gains keep the earlier,
				// lexicographically smaller candidate
				gain := 2*between[a][b]/m2 - 2*degree[a]*degree[b]/(m2*m2)
				if gain > bestGain {
					bestGain = gain
					bestA, bestB = a, b
				}
			}
		}
		if bestA == "" {
			break
		}
		merge(members, degree, between, bestA, bestB)
	}

	partition := partitionFromMembers(members)
	d.logger.Debug("community detection finished",
		"nodes", len(nodes),
		"communities", partition.Len(),
	)
	return partition
}

// merge folds community b into community a. Labels are smallest members, so
// a < b implies the merged community keeps label a.
func merge(members map[string][]string, degree map[string]float64, between map[string]map[string]float64, a, b string) {
	members[a] = append(members[a], members[b]...)
	degree[a] += degree[b]

	for c, w := range between[b] {
		if c == a {
			continue
		}
		between[a][c] += w
		between[c][a] += w
		delete(between[c], b)
	}
	delete(between[a], b)
	delete(between, b)
	delete(members, b)
	delete(degree, b)
}

func partitionFromMembers(members map[string][]string) Partition {
	sets := make([][]string, 0, len(members))
	for _, set := range members {
		sets = append(sets, set)
	}
	return NewPartition(sets)
}

// Modularity computes the weighted modularity of a partition on the
// undirected projection of the graph
func Modularity(g *tradegraph.Graph, p Partition) float64 {
	und := g.UndirectedWeights()

	m2 := 0.0
	for _, neighbours := range und {
		for _, w := range neighbours {
			m2 += w
		}
	}
	if m2 == 0 {
		return 0
	}

	q := 0.0
	for _, c := range p.Communities {
		internal, degree := 0.0, 0.0
		inCommunity := make(map[string]struct{}, len(c))
		for _, member := range c {
			inCommunity[member] = struct{}{}
		}
		for _, u := range c {
			for v, w := range und[u] {
				degree += w
				if _, ok := inCommunity[v]; ok {
					internal += w
				}
			}
		}
		q += internal/m2 - (degree/m2)*(degree/m2)
	}
	return q
}
