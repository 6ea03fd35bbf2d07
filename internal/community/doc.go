// Package community partitions a trade graph into trading blocs.
//
// Detection runs greedy modularity maximisation (Clauset-Newman-Moore) on the
// undirected weighted projection of the trade graph: every country starts in
// its own community and the pair of connected communities whose merge yields
// the largest modularity gain is merged until no merge improves modularity.
//
// The procedure is fully deterministic: merge candidates are scanned in
// lexicographic order of their community labels (a community is labelled by
// its smallest member), and a merge replaces the current best only on a
// strictly larger gain, so equal gains resolve to the lexicographically
// smallest pair. The same graph therefore always yields the same partition.
package community
