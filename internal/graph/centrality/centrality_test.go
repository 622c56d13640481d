// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package centrality

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/tomtom215/cinegraph/internal/graph"
	"github.com/tomtom215/cinegraph/internal/models"
)

func node(id string) models.Node {
	return models.NewNode(id, id, 10, "", &models.GenreData{})
}

// star returns a hub connected to k leaves.
func star(k int) ([]models.Node, []models.Edge) {
	nodes := []models.Node{node("hub")}
	var edges []models.Edge
	for i := 0; i < k; i++ {
		id := string(rune('a' + i))
		nodes = append(nodes, node(id))
		edges = append(edges, models.Edge{Source: "hub", Target: id, Weight: 1})
	}
	return nodes, edges
}

// path4 returns a-b-c-d.
func path4() *graph.Graph {
	g := graph.New()
	g.AddEdge("a", "b", 1)
	g.AddEdge("b", "c", 1)
	g.AddEdge("c", "d", 1)
	return g
}

func near(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestCalculate_Star(t *testing.T) {
	nodes, edges := star(4)
	result, err := New(DefaultConfig()).Calculate(context.Background(), nodes, edges)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if result.Method != MethodGonum {
		t.Errorf("Method = %q, want %q", result.Method, MethodGonum)
	}
	if len(result.Fallbacks) != 0 {
		t.Errorf("Fallbacks = %v, want none", result.Fallbacks)
	}

	hub := result.Measures["hub"]
	if hub.Degree != 4 || hub.DegreeCentrality != 1 {
		t.Errorf("hub degree = (%d, %v), want (4, 1)", hub.Degree, hub.DegreeCentrality)
	}
	if !near(hub.Betweenness, 1, 1e-9) {
		t.Errorf("hub betweenness = %v, want 1", hub.Betweenness)
	}
	if !near(hub.Closeness, 1, 1e-9) {
		t.Errorf("hub closeness = %v, want 1", hub.Closeness)
	}
	leaf := result.Measures["a"]
	if leaf.Betweenness != 0 {
		t.Errorf("leaf betweenness = %v, want 0", leaf.Betweenness)
	}
	if !near(leaf.Closeness, 4.0/7.0, 1e-9) {
		t.Errorf("leaf closeness = %v, want %v", leaf.Closeness, 4.0/7.0)
	}
	if hub.Eigenvector <= leaf.Eigenvector || hub.PageRank <= leaf.PageRank {
		t.Errorf("hub should outrank leaf: hub=%+v leaf=%+v", hub, leaf)
	}

	if result.Stats.NumNodes != 5 || result.Stats.NumEdges != 4 {
		t.Errorf("Stats = %+v", result.Stats)
	}
	if !near(result.Stats.Density, 0.4, 1e-9) || result.Stats.MaxDegreeCentrality != 1 {
		t.Errorf("Stats = %+v", result.Stats)
	}
}

func TestCalculate_Ranges(t *testing.T) {
	nodes, edges := star(6)
	// Add a detached pair so the graph is disconnected.
	nodes = append(nodes, node("x"), node("y"))
	edges = append(edges, models.Edge{Source: "x", Target: "y", Weight: 2.5})

	result, err := New(DefaultConfig()).Calculate(context.Background(), nodes, edges)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	var prSum float64
	for id, s := range result.Measures {
		for name, v := range map[string]float64{
			"degree_centrality": s.DegreeCentrality,
			"betweenness":       s.Betweenness,
			"closeness":         s.Closeness,
			"eigenvector":       s.Eigenvector,
			"pagerank":          s.PageRank,
		} {
			if v < 0 || v > 1 || math.IsNaN(v) {
				t.Errorf("%s %s = %v, out of [0, 1]", id, name, v)
			}
		}
		prSum += s.PageRank
	}
	if !near(prSum, 1, 1e-4) {
		t.Errorf("pagerank sum = %v, want 1", prSum)
	}
	if result.Measures["x"].Closeness != 1.0/8.0 {
		t.Errorf("x closeness = %v, want %v", result.Measures["x"].Closeness, 1.0/8.0)
	}
}

func TestCalculate_Empty(t *testing.T) {
	result, err := New(Config{}).Calculate(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if len(result.Measures) != 0 || result.Method != MethodGonum {
		t.Errorf("empty result = %+v", result)
	}
}

func TestCalculate_SingleNode(t *testing.T) {
	result, err := New(Config{}).Calculate(context.Background(), []models.Node{node("solo")}, nil)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	s := result.Measures["solo"]
	if s.DegreeCentrality != 1 || s.Betweenness != 0 || s.Closeness != 0 {
		t.Errorf("single node scores = %+v", s)
	}
	if !near(s.PageRank, 1, 1e-9) {
		t.Errorf("single node pagerank = %v, want 1", s.PageRank)
	}
}

func TestCalculate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	nodes, edges := star(3)
	if _, err := New(Config{}).Calculate(ctx, nodes, edges); !errors.Is(err, context.Canceled) {
		t.Errorf("Calculate() error = %v, want context.Canceled", err)
	}
}

func TestCalculate_NegativeWeightFallsBack(t *testing.T) {
	nodes, edges := star(3)
	edges[0].Weight = -1

	result, err := New(Config{}).Calculate(context.Background(), nodes, edges)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	found := false
	for _, f := range result.Fallbacks {
		if f == MeasureBetweenness+"_unweighted" {
			found = true
		}
	}
	if !found {
		t.Errorf("Fallbacks = %v, want betweenness_unweighted", result.Fallbacks)
	}
	if !near(result.Measures["hub"].Betweenness, 1, 1e-9) {
		t.Errorf("hub betweenness = %v, want 1", result.Measures["hub"].Betweenness)
	}
}

func TestBetweenness_Path(t *testing.T) {
	g := path4()
	tests := []struct {
		name string
		fn   func(*graph.Graph) ([]float64, error)
	}{
		{"weighted", Betweenness},
		{"unweighted", BetweennessUnweighted},
	}
	// Inner nodes of a 4-path lie on 2 of the 3 pairs among the others.
	want := []float64{0, 2.0 / 3.0, 2.0 / 3.0, 0}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(g)
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			for i := range want {
				if !near(got[i], want[i], 1e-9) {
					t.Errorf("node %d = %v, want %v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestCloseness_Path(t *testing.T) {
	got, err := Closeness(path4())
	if err != nil {
		t.Fatalf("Closeness() error = %v", err)
	}
	want := []float64{0.5, 0.75, 0.75, 0.5}
	for i := range want {
		if !near(got[i], want[i], 1e-9) {
			t.Errorf("Closeness()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	fallback, err := closenessGonum(path4())
	if err != nil {
		t.Fatalf("closenessGonum() error = %v", err)
	}
	for i := range want {
		if !near(fallback[i], want[i], 1e-9) {
			t.Errorf("closenessGonum()[%d] = %v, want %v", i, fallback[i], want[i])
		}
	}
}

func TestEigenvector_NotConverged(t *testing.T) {
	if _, err := Eigenvector(path4(), true, 1, 1e-12); !errors.Is(err, ErrNotConverged) {
		t.Errorf("Eigenvector() error = %v, want ErrNotConverged", err)
	}
}

func TestEigenvector_Symmetric(t *testing.T) {
	x, err := Eigenvector(path4(), true, DefaultMaxIterations, DefaultTolerance)
	if err != nil {
		t.Fatalf("Eigenvector() error = %v", err)
	}
	if !near(x[0], x[3], 1e-6) || !near(x[1], x[2], 1e-6) || x[1] <= x[0] {
		t.Errorf("Eigenvector() = %v", x)
	}
	var norm float64
	for _, v := range x {
		norm += v * v
	}
	if !near(norm, 1, 1e-6) {
		t.Errorf("eigenvector norm = %v, want 1", norm)
	}
}

func TestPageRank_MatchesGonumOnUnitWeights(t *testing.T) {
	g := path4()
	ours, err := PageRank(g, DefaultDamping, DefaultMaxIterations, 1e-10)
	if err != nil {
		t.Fatalf("PageRank() error = %v", err)
	}
	theirs, err := pageRankGonum(g, DefaultDamping, 1e-10)
	if err != nil {
		t.Fatalf("pageRankGonum() error = %v", err)
	}
	for i := range ours {
		if !near(ours[i], theirs[i], 1e-4) {
			t.Errorf("node %d: ours=%v gonum=%v", i, ours[i], theirs[i])
		}
	}
}

func TestPageRank_WeightsShiftRank(t *testing.T) {
	g := graph.New()
	g.AddEdge("a", "b", 10)
	g.AddEdge("a", "c", 1)
	g.AddEdge("b", "c", 1)
	pr, err := PageRank(g, DefaultDamping, DefaultMaxIterations, DefaultTolerance)
	if err != nil {
		t.Fatalf("PageRank() error = %v", err)
	}
	ia, _ := g.Index("a")
	ic, _ := g.Index("c")
	if pr[ia] <= pr[ic] {
		t.Errorf("heavily linked a (%v) should outrank c (%v)", pr[ia], pr[ic])
	}
}

func TestDegreeCentrality(t *testing.T) {
	got := DegreeCentrality(path4())
	want := []float64{1.0 / 3, 2.0 / 3, 2.0 / 3, 1.0 / 3}
	for i := range want {
		if !near(got[i], want[i], 1e-12) {
			t.Errorf("DegreeCentrality()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
