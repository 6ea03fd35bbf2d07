package community

import (
	"sort"
)

// Community is one trading bloc: a sorted, non-empty set of countries
type Community []string

// Contains reports whether the community includes the country
func (c Community) Contains(country string) bool {
	i := sort.SearchStrings(c, country)
	return i < len(c) && c[i] == country
}

// Partition assigns every node of a trade graph to exactly one community
type Partition struct {
	Communities []Community
	index       map[string]int
}

// NewPartition builds a partition from raw member sets. Members are sorted,
// empty sets are dropped and communities are ordered largest first, ties by
// first member.
func NewPartition(sets [][]string) Partition {
	communities := make([]Community, 0, len(sets))
	for _, set := range sets {
		if len(set) == 0 {
			continue
		}
		members := make(Community, len(set))
		copy(members, set)
		sort.Strings(members)
		communities = append(communities, members)
	}
	sort.Slice(communities, func(i, j int) bool {
		if len(communities[i]) != len(communities[j]) {
			return len(communities[i]) > len(communities[j])
		}
		return communities[i][0] < communities[j][0]
	})

	index := make(map[string]int)
	for i, c := range communities {
		for _, member := range c {
			index[member] = i
		}
	}
	return Partition{Communities: communities, index: index}
}

// Len returns the number of communities
func (p Partition) Len() int { return len(p.Communities) }

// CommunityOf returns the community containing the country
func (p Partition) CommunityOf(country string) (Community, bool) {
	i, ok := p.index[country]
	if !ok {
		return nil, false
	}
	return p.Communities[i], true
}

// SameCommunity reports whether two countries are in the same community
func (p Partition) SameCommunity(a, b string) bool {
	i, okA := p.index[a]
	j, okB := p.index[b]
	return okA && okB && i == j
}

// Countries returns all partitioned countries, sorted
func (p Partition) Countries() []string {
	countries := make([]string, 0, len(p.index))
	for c := range p.index {
		countries = append(countries, c)
	}
	sort.Strings(countries)
	return countries
}

// Equal reports whether two partitions group countries identically.
// Community ordering is canonical, so slice equality suffices.
func (p Partition) Equal(other Partition) bool {
	if len(p.Communities) != len(other.Communities) {
		return false
	}
	for i, c := range p.Communities {
		o := other.Communities[i]
		if len(c) != len(o) {
			return false
		}
		for j, member := range c {
			if member != o[j] {
				return false
			}
		}
	}
	return true
}

// Jaccard returns the Jaccard index of two communities with one country
// excluded from both sides. Excluding the country itself makes the score
// measure how much its surroundings changed, not its own membership.
// Two empty sets score 1.
func Jaccard(a, b Community, exclude string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, m := range a {
		if m != exclude {
			setA[m] = struct{}{}
		}
	}
	intersection, union := 0, 0
	for _, m := range b {
		if m == exclude {
			continue
		}
		union++
		if _, ok := setA[m]; ok {
			intersection++
		}
	}
	union += len(setA) - intersection
	if union == 0 {
		return 1
	}
	return float64(intersection) / float64(union)
}
