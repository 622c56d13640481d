// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package community

import (
	"context"
	"math/rand/v2"
	"sort"

	gonumcommunity "gonum.org/v1/gonum/graph/community"

	"github.com/tomtom215/cinegraph/internal/graph"
)

// Louvain delegates to gonum's Louvain modularization.
type Louvain struct {
	Resolution float64
	Seed       uint64
}

// Name implements Strategy.
func (l *Louvain) Name() string { return "louvain" }

// Detect implements Strategy.
func (l *Louvain) Detect(ctx context.Context, g *graph.Graph) (Partition, error) {
	if err := ctx.Err(); err != nil {
		return Partition{}, err
	}
	n := g.Len()
	if n == 0 {
		return Partition{}, nil
	}
	res := l.Resolution
	if res <= 0 {
		res = DefaultResolution
	}

	reduced := gonumcommunity.Modularize(g.Weighted(), res, rand.NewPCG(l.Seed, l.Seed))
	membership := make([]int, n)
	for c, nodes := range reduced.Communities() {
		for _, node := range nodes {
			membership[graph.IndexOf(node)] = c
		}
	}
	return newPartition(membership), nil
}

// Greedy is agglomerative modularity maximisation in the style of
// Clauset-Newman-Moore: start from singletons and repeatedly merge the
// adjacent pair with the largest positive modularity gain.
type Greedy struct {
	Resolution float64
}

// Name implements Strategy.
func (gr *Greedy) Name() string { return "greedy_modularity" }

// Detect implements Strategy.
func (gr *Greedy) Detect(ctx context.Context, g *graph.Graph) (Partition, error) {
	n := g.Len()
	if n == 0 {
		return Partition{}, nil
	}
	w := g.TotalWeight()
	if w == 0 {
		return newPartition(make([]int, n)), nil
	}
	res := gr.Resolution
	if res <= 0 {
		res = DefaultResolution
	}

	// between[a][b] is the edge weight between communities a and b.
	between := make([]map[int]float64, n)
	deg := make([]float64, n)
	alive := make([]bool, n)
	membership := make([]int, n)
	for i := 0; i < n; i++ {
		between[i] = make(map[int]float64)
		for _, nb := range g.Neighbors(i) {
			between[i][nb.Index] = nb.Weight
		}
		deg[i] = g.WeightedDegree(i)
		alive[i] = true
		membership[i] = i
	}

	twoW := 2 * w
	for {
		if err := ctx.Err(); err != nil {
			return Partition{}, err
		}
		bestGain, bestA, bestB := 0.0, -1, -1
		for a := 0; a < n; a++ {
			if !alive[a] {
				continue
			}
			keys := make([]int, 0, len(between[a]))
			for b := range between[a] {
				if b > a {
					keys = append(keys, b)
				}
			}
			sort.Ints(keys)
			for _, b := range keys {
				gain := 2 * (between[a][b]/twoW - res*(deg[a]/twoW)*(deg[b]/twoW))
				if gain > bestGain+DefaultTolerance {
					bestGain, bestA, bestB = gain, a, b
				}
			}
		}
		if bestA < 0 {
			break
		}

		// Merge bestB into bestA.
		for c, wt := range between[bestB] {
			if c == bestA {
				continue
			}
			between[bestA][c] += wt
			between[c][bestA] += wt
			delete(between[c], bestB)
		}
		delete(between[bestA], bestB)
		between[bestB] = nil
		deg[bestA] += deg[bestB]
		alive[bestB] = false
		for i := range membership {
			if membership[i] == bestB {
				membership[i] = bestA
			}
		}
	}
	return newPartition(membership), nil
}
