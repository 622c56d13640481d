// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package community

import (
	"github.com/tomtom215/cinegraph/internal/graph"
)

// Partition assigns every node index of a graph to a community label.
type Partition struct {
	// Membership[i] is the community label of node i. Labels are dense and
	// numbered by first appearance in index order.
	Membership []int

	// History is the modularity after each outer pass (Leiden only).
	History []float64
}

// newPartition relabels membership densely in index order.
func newPartition(membership []int) Partition {
	relabel := make(map[int]int)
	out := make([]int, len(membership))
	for i, c := range membership {
		l, ok := relabel[c]
		if !ok {
			l = len(relabel)
			relabel[c] = l
		}
		out[i] = l
	}
	return Partition{Membership: out}
}

// Groups returns every community (including singletons) as sorted index
// lists, ordered by lowest member.
func (p Partition) Groups() [][]int {
	byLabel := make(map[int]int)
	var groups [][]int
	for i, c := range p.Membership {
		gi, ok := byLabel[c]
		if !ok {
			gi = len(groups)
			byLabel[c] = gi
			groups = append(groups, nil)
		}
		groups[gi] = append(groups[gi], i)
	}
	return groups
}

// Communities returns groups with at least minSize members.
func (p Partition) Communities(minSize int) [][]int {
	var out [][]int
	for _, grp := range p.Groups() {
		if len(grp) >= minSize {
			out = append(out, grp)
		}
	}
	return out
}

// Modularity computes Q = sum_c [ L_c/W - res*(D_c/2W)^2 ] over the full
// membership, where L_c is internal weight, D_c the weighted degree sum and
// W the total edge weight. An edgeless graph has modularity 0.
func Modularity(g *graph.Graph, membership []int, resolution float64) float64 {
	w := g.TotalWeight()
	if w == 0 {
		return 0
	}
	labels := 0
	for _, c := range membership {
		if c+1 > labels {
			labels = c + 1
		}
	}
	internal := make([]float64, labels)
	degree := make([]float64, labels)
	for i := 0; i < g.Len(); i++ {
		ci := membership[i]
		for _, nb := range g.Neighbors(i) {
			degree[ci] += nb.Weight
			if membership[nb.Index] == ci && nb.Index > i {
				internal[ci] += nb.Weight
			}
		}
	}

	var q float64
	for c, d := range degree {
		if d == 0 {
			continue
		}
		frac := d / (2 * w)
		q += internal[c]/w - resolution*frac*frac
	}
	return q
}
