package analysis

import (
	"math"

	"tradeshifts/internal/community"
	"tradeshifts/internal/tradegraph"
)

// NodeRole places a country in the role space of Guimerà and Amaral:
// the within-community degree z-score against the participation coefficient.
type NodeRole struct {
	Country       string  `json:"country"`
	ZScore        float64 `json:"z_score"`
	Participation float64 `json:"participation"`
}

// Roles computes the role coordinates for every node, using the undirected
// unweighted projection of the graph and the given partition.
func Roles(g *tradegraph.Graph, p community.Partition) []NodeRole {
	nodes := g.Nodes()
	und := g.UndirectedWeights()

	membership := make(map[string]int, len(nodes))
	for ci, members := range p.Communities {
		for _, u := range members {
			membership[u] = ci
		}
	}

	// Unweighted degree of each node towards each community.
	toCommunity := make(map[string]map[int]int, len(nodes))
	degree := make(map[string]int, len(nodes))
	for _, u := range nodes {
		counts := make(map[int]int)
		for v := range und[u] {
			ci, ok := membership[v]
			if !ok {
				continue
			}
			counts[ci]++
			degree[u]++
		}
		toCommunity[u] = counts
	}

	// Mean and standard deviation of within-community degree per community.
	type stats struct {
		mean, std float64
	}
	communityStats := make(map[int]stats, p.Len())
	for ci, members := range p.Communities {
		sum := 0.0
		for _, u := range members {
			sum += float64(toCommunity[u][ci])
		}
		mean := sum / float64(len(members))
		variance := 0.0
		for _, u := range members {
			d := float64(toCommunity[u][ci]) - mean
			variance += d * d
		}
		std := math.Sqrt(variance / float64(len(members)))
		communityStats[ci] = stats{mean: mean, std: std}
	}

	roles := make([]NodeRole, 0, len(nodes))
	for _, u := range nodes {
		ci, ok := membership[u]
		if !ok {
			continue
		}
		st := communityStats[ci]
		z := 0.0
		if st.std > 0 {
			z = (float64(toCommunity[u][ci]) - st.mean) / st.std
		}

		participation := 0.0
		if k := degree[u]; k > 0 {
			sum := 0.0
			for _, count := range toCommunity[u] {
				frac := float64(count) / float64(k)
				sum += frac * frac
			}
			participation = 1 - sum
		}
		roles = append(roles, NodeRole{Country: u, ZScore: z, Participation: participation})
	}
	return roles
}
