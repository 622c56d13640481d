// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package graph

import (
	"math"
	"sort"

	gonumgraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Gonum node IDs are the arena indices, so results keyed by int64 map back
// with g.ID(int(id)).

// Weighted returns a gonum weighted undirected view of g.
func (g *Graph) Weighted() *simple.WeightedUndirectedGraph {
	wg := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i := range g.ids {
		wg.AddNode(simple.Node(int64(i)))
	}
	for i := range g.ids {
		for _, nb := range g.Neighbors(i) {
			if nb.Index <= i {
				continue
			}
			wg.SetWeightedEdge(wg.NewWeightedEdge(simple.Node(int64(i)), simple.Node(int64(nb.Index)), nb.Weight))
		}
	}
	return wg
}

// Unweighted returns a gonum undirected view of g that ignores weights.
func (g *Graph) Unweighted() *simple.UndirectedGraph {
	ug := simple.NewUndirectedGraph()
	for i := range g.ids {
		ug.AddNode(simple.Node(int64(i)))
	}
	for i := range g.ids {
		for _, nb := range g.Neighbors(i) {
			if nb.Index <= i {
				continue
			}
			ug.SetEdge(ug.NewEdge(simple.Node(int64(i)), simple.Node(int64(nb.Index))))
		}
	}
	return ug
}

// Symmetric returns a gonum directed view with both arc directions for
// every undirected edge.
func (g *Graph) Symmetric() *simple.DirectedGraph {
	dg := simple.NewDirectedGraph()
	for i := range g.ids {
		dg.AddNode(simple.Node(int64(i)))
	}
	for i := range g.ids {
		for _, nb := range g.Neighbors(i) {
			dg.SetEdge(dg.NewEdge(simple.Node(int64(i)), simple.Node(int64(nb.Index))))
		}
	}
	return dg
}

// ConnectedComponents returns the number of connected components.
func (g *Graph) ConnectedComponents() int {
	if len(g.ids) == 0 {
		return 0
	}
	return len(topo.ConnectedComponents(g.Unweighted()))
}

// Components returns the connected components of the subgraph induced by
// members, each sorted by node index. Component order follows the lowest
// member index.
func (g *Graph) Components(members []int) [][]int {
	sub := simple.NewUndirectedGraph()
	in := make(map[int]bool, len(members))
	for _, m := range members {
		if !in[m] {
			in[m] = true
			sub.AddNode(simple.Node(int64(m)))
		}
	}
	for m := range in {
		for _, nb := range g.Neighbors(m) {
			if nb.Index > m && in[nb.Index] {
				sub.SetEdge(sub.NewEdge(simple.Node(int64(m)), simple.Node(int64(nb.Index))))
			}
		}
	}

	var comps [][]int
	for _, nodes := range topo.ConnectedComponents(sub) {
		comp := make([]int, len(nodes))
		for i, n := range nodes {
			comp[i] = IndexOf(n)
		}
		sort.Ints(comp)
		comps = append(comps, comp)
	}
	sort.Slice(comps, func(a, b int) bool { return comps[a][0] < comps[b][0] })
	return comps
}

// IndexOf converts a gonum node back to an arena index.
func IndexOf(n gonumgraph.Node) int {
	return int(n.ID())
}
