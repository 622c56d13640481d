// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package graph provides the weighted undirected graph arena shared by the
// community and centrality engines.
//
// Nodes are stored in insertion order and addressed by dense integer
// indices, so algorithms can keep per-node state in slices instead of
// maps. Duplicate edges between the same pair accumulate weight and
// self-loops are ignored. Adjacency lists are kept sorted by neighbour
// index, which makes every traversal deterministic.
//
// The arena converts to gonum graphs (see gonum.go) for the algorithms
// gonum already provides: betweenness, closeness, PageRank, Louvain and
// connected components.
package graph

import (
	"sort"

	"github.com/tomtom215/cinegraph/internal/models"
)

// Neighbor is one adjacency entry.
type Neighbor struct {
	Index  int
	Weight float64
}

// Graph is a weighted undirected graph over string node IDs.
type Graph struct {
	ids   []string
	index map[string]int
	adj   []map[int]float64

	sorted  [][]Neighbor
	dirty   bool
	totalW  float64
	edgeCnt int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{index: make(map[string]int)}
}

// FromModels builds a graph from model nodes and edges. Edges whose
// endpoints are not in nodes are skipped.
func FromModels(nodes []models.Node, edges []models.Edge) *Graph {
	g := New()
	for i := range nodes {
		g.AddNode(nodes[i].ID)
	}
	for i := range edges {
		e := &edges[i]
		if !g.Has(e.Source) || !g.Has(e.Target) {
			continue
		}
		g.AddEdge(e.Source, e.Target, e.Weight)
	}
	return g
}

// AddNode adds a node if it does not exist and returns its index.
func (g *Graph) AddNode(id string) int {
	if idx, ok := g.index[id]; ok {
		return idx
	}
	idx := len(g.ids)
	g.ids = append(g.ids, id)
	g.index[id] = idx
	g.adj = append(g.adj, make(map[int]float64))
	g.dirty = true
	return idx
}

// AddEdge adds weight w between a and b, creating nodes as needed.
// Self-loops are ignored. Repeated calls for the same pair sum weights.
func (g *Graph) AddEdge(a, b string, w float64) {
	if a == b {
		return
	}
	ia, ib := g.AddNode(a), g.AddNode(b)
	if _, ok := g.adj[ia][ib]; !ok {
		g.edgeCnt++
	}
	g.adj[ia][ib] += w
	g.adj[ib][ia] += w
	g.totalW += w
	g.dirty = true
}

// Has reports whether id is a node.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Index returns the index of id.
func (g *Graph) Index(id string) (int, bool) {
	idx, ok := g.index[id]
	return idx, ok
}

// ID returns the node ID at index i.
func (g *Graph) ID(i int) string {
	return g.ids[i]
}

// IDs returns node IDs in insertion order.
func (g *Graph) IDs() []string {
	out := make([]string, len(g.ids))
	copy(out, g.ids)
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.ids)
}

// EdgeCount returns the number of distinct undirected edges.
func (g *Graph) EdgeCount() int {
	return g.edgeCnt
}

// TotalWeight returns the sum of all edge weights.
func (g *Graph) TotalWeight() float64 {
	return g.totalW
}

// Weight returns the weight between i and j (0 when not adjacent).
func (g *Graph) Weight(i, j int) float64 {
	return g.adj[i][j]
}

// HasEdge reports whether i and j are adjacent.
func (g *Graph) HasEdge(i, j int) bool {
	_, ok := g.adj[i][j]
	return ok
}

// Neighbors returns the adjacency of i sorted by neighbour index.
// The returned slice must not be modified.
func (g *Graph) Neighbors(i int) []Neighbor {
	g.ensureSorted()
	return g.sorted[i]
}

// Degree returns the number of distinct neighbours of i.
func (g *Graph) Degree(i int) int {
	return len(g.adj[i])
}

// WeightedDegree returns the sum of edge weights incident to i.
func (g *Graph) WeightedDegree(i int) float64 {
	var sum float64
	for _, nb := range g.Neighbors(i) {
		sum += nb.Weight
	}
	return sum
}

// Density returns 2E/(n(n-1)), or 0 for fewer than two nodes.
func (g *Graph) Density() float64 {
	n := len(g.ids)
	if n < 2 {
		return 0
	}
	return 2 * float64(g.edgeCnt) / float64(n*(n-1))
}

func (g *Graph) ensureSorted() {
	if !g.dirty && g.sorted != nil {
		return
	}
	g.sorted = make([][]Neighbor, len(g.adj))
	for i, m := range g.adj {
		list := make([]Neighbor, 0, len(m))
		for j, w := range m {
			list = append(list, Neighbor{Index: j, Weight: w})
		}
		sort.Slice(list, func(a, b int) bool { return list[a].Index < list[b].Index })
		g.sorted[i] = list
	}
	g.dirty = false
}
