// Package analysis compares trade-shift scenarios against a base scenario.
//
// Given the trade graph and community partition of each scenario (the first
// one is the base), it computes the comparison suite of the research model:
// per-country import totals and differences, weighted degree centrality,
// community change scores (Jaccard), structural graph distances (Frobenius,
// Markov stationary distribution, entropy rate), the community satisfaction
// index, clustering and betweenness summaries, country roles (within-community
// degree z-score and participation coefficient), entropic out-degree and
// percolation thresholds under targeted and random node-removal attacks.
//
// All randomised computations (the random attack strategy) draw from a caller
// seeded source, so reports are reproducible.
package analysis
