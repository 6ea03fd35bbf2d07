package tradegraph

import (
	"fmt"
	"math"
	"sort"
)

// Graph is a weighted directed trade graph. Nodes are countries, edge weights
// are corrected trade volumes in tonnes. Self-loops are not allowed and
// weights are strictly positive.
type Graph struct {
	nodes map[string]struct{}
	succ  map[string]map[string]float64
	pred  map[string]map[string]float64
}

// Edge is a directed exporter -> importer flow with its weight
type Edge struct {
	From   string
	To     string
	Weight float64
}

// New creates an empty graph
func New() *Graph {
	return &Graph{
		nodes: make(map[string]struct{}),
		succ:  make(map[string]map[string]float64),
		pred:  make(map[string]map[string]float64),
	}
}

// AddNode inserts a node. Adding an existing node is a no-op.
func (g *Graph) AddNode(country string) {
	g.nodes[country] = struct{}{}
}

// AddEdge inserts a directed edge, adding missing endpoints as nodes.
// Parallel edges accumulate their weights.
func (g *Graph) AddEdge(from, to string, weight float64) error {
	if from == to {
		return fmt.Errorf("self-loop on %q not allowed", from)
	}
	if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("edge %s->%s must have positive finite weight, got %g", from, to, weight)
	}
	g.AddNode(from)
	g.AddNode(to)
	if g.succ[from] == nil {
		g.succ[from] = make(map[string]float64)
	}
	if g.pred[to] == nil {
		g.pred[to] = make(map[string]float64)
	}
	g.succ[from][to] += weight
	g.pred[to][from] += weight
	return nil
}

// HasNode reports whether country is a node
func (g *Graph) HasNode(country string) bool {
	_, ok := g.nodes[country]
	return ok
}

// Weight returns the weight of the from -> to edge, zero when absent
func (g *Graph) Weight(from, to string) float64 {
	return g.succ[from][to]
}

// NumNodes returns the node count
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumEdges returns the directed edge count
func (g *Graph) NumEdges() int {
	n := 0
	for _, out := range g.succ {
		n += len(out)
	}
	return n
}

// Nodes returns all nodes in sorted order
func (g *Graph) Nodes() []string {
	nodes := make([]string, 0, len(g.nodes))
	for n := range g.nodes {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	return nodes
}

// Edges returns all edges ordered by (from, to)
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.NumEdges())
	for from, out := range g.succ {
		for to, w := range out {
			edges = append(edges, Edge{From: from, To: to, Weight: w})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}

// Successors returns the importers the country exports to, sorted
func (g *Graph) Successors(country string) []string {
	return sortedKeys(g.succ[country])
}

// Predecessors returns the exporters the country imports from, sorted
func (g *Graph) Predecessors(country string) []string {
	return sortedKeys(g.pred[country])
}

// OutWeight returns the total export volume of a country
func (g *Graph) OutWeight(country string) float64 {
	total := 0.0
	for _, w := range g.succ[country] {
		total += w
	}
	return total
}

// InWeight returns the total import volume of a country
func (g *Graph) InWeight(country string) float64 {
	total := 0.0
	for _, w := range g.pred[country] {
		total += w
	}
	return total
}

// TotalWeight returns the sum of all edge weights
func (g *Graph) TotalWeight() float64 {
	total := 0.0
	for _, out := range g.succ {
		for _, w := range out {
			total += w
		}
	}
	return total
}

// Degree returns the number of distinct trade partners of a country,
// ignoring edge direction
func (g *Graph) Degree(country string) int {
	partners := make(map[string]struct{})
	for p := range g.succ[country] {
		partners[p] = struct{}{}
	}
	for p := range g.pred[country] {
		partners[p] = struct{}{}
	}
	return len(partners)
}

// Subgraph returns the induced subgraph on the given nodes
func (g *Graph) Subgraph(nodes []string) *Graph {
	keep := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if g.HasNode(n) {
			keep[n] = struct{}{}
		}
	}
	sub := New()
	for n := range keep {
		sub.AddNode(n)
	}
	for from, out := range g.succ {
		if _, ok := keep[from]; !ok {
			continue
		}
		for to, w := range out {
			if _, ok := keep[to]; !ok {
				continue
			}
			// weights already validated on the parent graph
			_ = sub.AddEdge(from, to, w)
		}
	}
	return sub
}

// UndirectedWeights returns the symmetric weight map of the undirected
// projection: w(u,v) = w(u->v) + w(v->u). Each unordered pair appears under
// both keys.
func (g *Graph) UndirectedWeights() map[string]map[string]float64 {
	und := make(map[string]map[string]float64, len(g.nodes))
	for n := range g.nodes {
		und[n] = make(map[string]float64)
	}
	for from, out := range g.succ {
		for to, w := range out {
			und[from][to] += w
			und[to][from] += w
		}
	}
	return und
}

// AdjacencyMatrix returns the weight matrix over the given node ordering.
// Unknown nodes yield zero rows and columns.
func (g *Graph) AdjacencyMatrix(order []string) [][]float64 {
	matrix := make([][]float64, len(order))
	for i, from := range order {
		matrix[i] = make([]float64, len(order))
		out := g.succ[from]
		if out == nil {
			continue
		}
		for j, to := range order {
			matrix[i][j] = out[to]
		}
	}
	return matrix
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
