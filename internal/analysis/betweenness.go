package analysis

import (
	"container/heap"

	"tradeshifts/internal/tradegraph"
)

// Betweenness computes shortest-path betweenness centrality on the directed
// graph. Edge lengths are the reciprocals of trade volumes, so heavier flows
// make shorter paths. Scores are normalised by (n-1)(n-2) for n > 2.
func Betweenness(g *tradegraph.Graph) map[string]float64 {
	nodes := g.Nodes()
	scores := make(map[string]float64, len(nodes))
	for _, v := range nodes {
		scores[v] = 0
	}
	if len(nodes) < 3 {
		return scores
	}

	for _, source := range nodes {
		stack, preds, sigma := dijkstraPaths(g, source)

		delta := make(map[string]float64, len(nodes))
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range preds[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != source {
				scores[w] += delta[w]
			}
		}
	}

	n := float64(len(nodes))
	scale := 1 / ((n - 1) * (n - 2))
	for v := range scores {
		scores[v] *= scale
	}
	return scores
}

// MeanBetweenness averages betweenness over all nodes.
func MeanBetweenness(g *tradegraph.Graph) float64 {
	scores := Betweenness(g)
	if len(scores) == 0 {
		return 0
	}
	total := 0.0
	for _, s := range scores {
		total += s
	}
	return total / float64(len(scores))
}

// dijkstraPaths runs a single-source shortest-path count with 1/weight edge
// lengths. It returns the nodes in non-decreasing distance order, the
// shortest-path predecessor lists and the path counts.
func dijkstraPaths(g *tradegraph.Graph, source string) ([]string, map[string][]string, map[string]float64) {
	dist := map[string]float64{source: 0}
	sigma := map[string]float64{source: 1}
	preds := make(map[string][]string)
	seen := make(map[string]bool)
	var stack []string

	pq := &distanceQueue{{node: source, dist: 0}}
	heap.Init(pq)
	for pq.Len() > 0 {
		item := heap.Pop(pq).(*distanceItem)
		if seen[item.node] {
			continue
		}
		seen[item.node] = true
		stack = append(stack, item.node)

		for _, succ := range g.Successors(item.node) {
			length := 1 / g.Weight(item.node, succ)
			candidate := item.dist + length
			current, known := dist[succ]
			switch {
			case !known || candidate < current:
				dist[succ] = candidate
				sigma[succ] = sigma[item.node]
				preds[succ] = []string{item.node}
				heap.Push(pq, &distanceItem{node: succ, dist: candidate})
			case candidate == current:
				sigma[succ] += sigma[item.node]
				preds[succ] = append(preds[succ], item.node)
			}
		}
	}
	return stack, preds, sigma
}

type distanceItem struct {
	node string
	dist float64
}

type distanceQueue []*distanceItem

func (q distanceQueue) Len() int { return len(q) }

func (q distanceQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].node < q[j].node
}

func (q distanceQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *distanceQueue) Push(x any) { *q = append(*q, x.(*distanceItem)) }

func (q *distanceQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
