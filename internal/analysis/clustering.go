package analysis

import (
	"math"

	"tradeshifts/internal/tradegraph"
)

// AverageClustering is the mean weighted clustering coefficient of the
// undirected projection, using the geometric-mean triangle intensity with
// weights normalised by the largest weight in the graph. Nodes with fewer
// than two partners contribute zero.
func AverageClustering(g *tradegraph.Graph) float64 {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return 0
	}
	und := g.UndirectedWeights()

	maxWeight := 0.0
	for _, neighbours := range und {
		for _, w := range neighbours {
			if w > maxWeight {
				maxWeight = w
			}
		}
	}
	if maxWeight == 0 {
		return 0
	}

	total := 0.0
	for _, u := range nodes {
		neighbours := und[u]
		k := len(neighbours)
		if k < 2 {
			continue
		}
		partners := make([]string, 0, k)
		for v := range neighbours {
			partners = append(partners, v)
		}

		intensity := 0.0
		for i := 0; i < len(partners); i++ {
			for j := i + 1; j < len(partners); j++ {
				v, w := partners[i], partners[j]
				wvw := und[v][w]
				if wvw == 0 {
					continue
				}
				product := (neighbours[v] / maxWeight) * (neighbours[w] / maxWeight) * (wvw / maxWeight)
				intensity += math.Cbrt(product)
			}
		}
		total += 2 * intensity / float64(k*(k-1))
	}
	return total / float64(len(nodes))
}
