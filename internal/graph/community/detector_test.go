// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package community

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tomtom215/cinegraph/internal/graph"
	"github.com/tomtom215/cinegraph/internal/models"
)

func movieNode(id string, movieID int64, data models.MovieData) models.Node {
	data.MovieID = movieID
	return models.NewNode(id, id, 15, "#F56565", &data)
}

func genreNode(id, label string) models.Node {
	return models.NewNode(id, label, 20, "#9F7AEA", &models.GenreData{})
}

// triangleModels is the two-triangle graph as model nodes and edges.
func triangleModels() ([]models.Node, []models.Edge) {
	ids := []string{"a", "b", "c", "d", "e", "f"}
	nodes := make([]models.Node, len(ids))
	for i, id := range ids {
		nodes[i] = movieNode(id, int64(i+1), models.MovieData{})
	}
	edge := func(s, t string, w float64) models.Edge {
		return models.Edge{Source: s, Target: t, Type: models.EdgeSimilarity, Weight: w}
	}
	edges := []models.Edge{
		edge("a", "b", 1), edge("b", "c", 1), edge("a", "c", 1),
		edge("d", "e", 1), edge("e", "f", 1), edge("d", "f", 1),
		edge("c", "d", 0.1),
	}
	return nodes, edges
}

type failingStrategy struct {
	panics bool
}

func (f *failingStrategy) Name() string { return "broken" }

func (f *failingStrategy) Detect(context.Context, *graph.Graph) (Partition, error) {
	if f.panics {
		panic("index out of range")
	}
	return Partition{}, errors.New("solver exploded")
}

type singletonStrategy struct{}

func (singletonStrategy) Name() string { return "singletons" }

func (singletonStrategy) Detect(_ context.Context, g *graph.Graph) (Partition, error) {
	m := make([]int, g.Len())
	for i := range m {
		m[i] = i
	}
	return newPartition(m), nil
}

func TestDetector_Leiden(t *testing.T) {
	d, err := NewDetector(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewDetector() error = %v", err)
	}
	nodes, edges := triangleModels()

	result, err := d.Detect(context.Background(), nodes, edges)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if result.Method != MethodLeiden {
		t.Errorf("Method = %q, want %q", result.Method, MethodLeiden)
	}
	if len(result.Attempts) != 1 || result.Attempts[0] != MethodLeiden {
		t.Errorf("Attempts = %v", result.Attempts)
	}
	if len(result.Communities) != 2 {
		t.Fatalf("communities = %d, want 2", len(result.Communities))
	}
	for _, c := range result.Communities {
		if c.Size != 3 || len(c.Nodes) != 3 {
			t.Errorf("community %s size = %d, want 3", c.ID, c.Size)
		}
		if c.Conductance >= 0.1 {
			t.Errorf("community %s conductance = %v, want < 0.1", c.ID, c.Conductance)
		}
		if c.InternalEdges != 3 {
			t.Errorf("community %s internal edges = %d, want 3", c.ID, c.InternalEdges)
		}
		if c.Density != 1 {
			t.Errorf("community %s density = %v, want 1", c.ID, c.Density)
		}
		if c.Name == "" {
			t.Errorf("community %s has no name", c.ID)
		}
	}
	if result.Assignment["a"] == result.Assignment["f"] {
		t.Error("a and f share a community")
	}
	if result.Stats.NumCommunities != 2 || result.Stats.Coverage != 1 {
		t.Errorf("Stats = %+v", result.Stats)
	}
	if result.Stats.CommunitySizeStd != 0 || result.Stats.AvgCommunitySize != 3 {
		t.Errorf("size stats = %+v", result.Stats)
	}
	if len(result.ModularityHistory) == 0 {
		t.Error("ModularityHistory is empty")
	}
	if errs := Validate(result); len(errs) != 0 {
		t.Errorf("Validate() = %v", errs)
	}
}

func TestDetector_Fallback(t *testing.T) {
	tests := []struct {
		name         string
		strategies   []Strategy
		wantMethod   string
		wantAttempts []string
		wantComms    int
	}{
		{
			name:         "error falls through to greedy",
			strategies:   []Strategy{&failingStrategy{}, &Greedy{Resolution: 1}},
			wantMethod:   MethodGreedy,
			wantAttempts: []string{"broken_failed", MethodGreedy},
			wantComms:    2,
		},
		{
			name:         "panic falls through to louvain",
			strategies:   []Strategy{&failingStrategy{panics: true}, &Louvain{Resolution: 1, Seed: 42}},
			wantMethod:   MethodLouvain,
			wantAttempts: []string{"broken_failed", MethodLouvain},
			wantComms:    2,
		},
		{
			name:         "empty result falls through",
			strategies:   []Strategy{singletonStrategy{}, &Greedy{Resolution: 1}},
			wantMethod:   MethodGreedy,
			wantAttempts: []string{"singletons_empty", MethodGreedy},
			wantComms:    2,
		},
		{
			name:         "all fail",
			strategies:   []Strategy{&failingStrategy{}, &failingStrategy{panics: true}},
			wantMethod:   MethodFailed,
			wantAttempts: []string{"broken_failed", "broken_failed"},
			wantComms:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDetectorWithStrategies(1, nil, tt.strategies...)
			if err != nil {
				t.Fatalf("NewDetectorWithStrategies() error = %v", err)
			}
			nodes, edges := triangleModels()
			result, err := d.Detect(context.Background(), nodes, edges)
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if result.Method != tt.wantMethod {
				t.Errorf("Method = %q, want %q", result.Method, tt.wantMethod)
			}
			if strings.Join(result.Attempts, ",") != strings.Join(tt.wantAttempts, ",") {
				t.Errorf("Attempts = %v, want %v", result.Attempts, tt.wantAttempts)
			}
			if len(result.Communities) != tt.wantComms {
				t.Errorf("communities = %d, want %d", len(result.Communities), tt.wantComms)
			}
			if result.Communities == nil || result.Assignment == nil {
				t.Error("result collections should never be nil")
			}
		})
	}
}

func TestDetector_SmallGraphs(t *testing.T) {
	d, err := NewDetector(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewDetector() error = %v", err)
	}
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		result, err := d.Detect(ctx, nil, nil)
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}
		if len(result.Communities) != 0 || result.Stats.NumCommunities != 0 {
			t.Errorf("empty graph result = %+v", result)
		}
	})

	t.Run("single node", func(t *testing.T) {
		nodes := []models.Node{movieNode("movie_1", 1, models.MovieData{})}
		result, err := d.Detect(ctx, nodes, nil)
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}
		if len(result.Communities) != 0 {
			t.Errorf("single node communities = %d, want 0", len(result.Communities))
		}
	})

	t.Run("edgeless", func(t *testing.T) {
		nodes := []models.Node{
			movieNode("movie_1", 1, models.MovieData{}),
			movieNode("movie_2", 2, models.MovieData{}),
			movieNode("movie_3", 3, models.MovieData{}),
		}
		result, err := d.Detect(ctx, nodes, nil)
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}
		if len(result.Communities) != 1 || result.Communities[0].Size != 3 {
			t.Errorf("edgeless graph communities = %+v", result.Communities)
		}
	})
}

func TestDetector_CanceledContext(t *testing.T) {
	d, err := NewDetector(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewDetector() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	nodes, edges := triangleModels()
	if _, err := d.Detect(ctx, nodes, edges); !errors.Is(err, context.Canceled) {
		t.Errorf("Detect() error = %v, want context.Canceled", err)
	}
}

func TestNewDetector_Errors(t *testing.T) {
	if _, err := NewDetector(Config{Strategies: []string{"spectral"}}, nil); err == nil {
		t.Error("unknown strategy should fail")
	}
	if _, err := NewDetectorWithStrategies(1, nil); !errors.Is(err, ErrNoStrategy) {
		t.Errorf("no strategies error = %v, want ErrNoStrategy", err)
	}
}

func TestAddCollectionEdges(t *testing.T) {
	coll := int64(10)
	other := int64(20)
	nodes := []models.Node{
		movieNode("movie_1", 1, models.MovieData{CollectionID: &coll}),
		movieNode("movie_2", 2, models.MovieData{CollectionID: &coll}),
		movieNode("movie_3", 3, models.MovieData{CollectionID: &coll}),
		movieNode("movie_4", 4, models.MovieData{CollectionID: &other}),
		movieNode("movie_5", 5, models.MovieData{}),
		genreNode("genre_1", "Drama"),
	}
	g := graph.FromModels(nodes, []models.Edge{{Source: "movie_1", Target: "movie_2", Weight: 0.5}})

	if added := AddCollectionEdges(g, nodes); added != 3 {
		t.Errorf("AddCollectionEdges() = %d, want 3", added)
	}
	i1, _ := g.Index("movie_1")
	i2, _ := g.Index("movie_2")
	i3, _ := g.Index("movie_3")
	i4, _ := g.Index("movie_4")
	if w := g.Weight(i1, i2); w != 5.5 {
		t.Errorf("existing edge weight = %v, want 5.5", w)
	}
	if w := g.Weight(i2, i3); w != CollectionEdgeWeight {
		t.Errorf("new edge weight = %v, want %v", w, CollectionEdgeWeight)
	}
	if g.HasEdge(i1, i4) {
		t.Error("movies in different collections were linked")
	}
}

func TestApplyCommunityEdgeProperties(t *testing.T) {
	edges := []models.Edge{
		{Source: "a", Target: "b", Length: 100, Strength: 0.5},
		{Source: "a", Target: "c"},
		{Source: "a", Target: "z", Length: 100, Strength: 0.5},
	}
	assignment := map[string]string{"a": "community_0", "b": "community_0", "c": "community_1"}
	ApplyCommunityEdgeProperties(edges, assignment)

	tests := []struct {
		idx          int
		wantLength   float64
		wantStrength float64
	}{
		{0, 40, 1.25},
		{1, DefaultEdgeLength * 2.5, DefaultEdgeStrength * 0.3},
		{2, 100, 0.5},
	}
	for _, tt := range tests {
		e := edges[tt.idx]
		if !approx(e.Length, tt.wantLength) || !approx(e.Strength, tt.wantStrength) {
			t.Errorf("edge %d = (%v, %v), want (%v, %v)", tt.idx, e.Length, e.Strength, tt.wantLength, tt.wantStrength)
		}
	}
}

func TestValidate(t *testing.T) {
	result := &models.CommunityResult{Communities: []models.Community{
		{ID: "community_0", Nodes: []string{"a", "b"}},
		{ID: "community_1", Nodes: []string{"c"}},
		{ID: "community_2", Nodes: nil},
		{ID: "community_3", Nodes: []string{"b", "d"}},
	}}
	if got := len(Validate(result)); got != 3 {
		t.Errorf("Validate() problems = %d, want 3", got)
	}
	if Validate(nil) != nil {
		t.Error("Validate(nil) should report nothing")
	}
}

func TestMeasureQuality(t *testing.T) {
	g := twoTriangles()
	isolated := graph.New()
	isolated.AddEdge("x", "y", 1)
	isolated.AddEdge("y", "z", 1)
	isolated.AddEdge("x", "z", 1)

	tests := []struct {
		name    string
		g       *graph.Graph
		members []int
		check   func(q Quality) bool
	}{
		{"triangle with bridge", g, []int{0, 1, 2}, func(q Quality) bool {
			return q.Conductance == round(0.1/6.1, 4) && q.Clustering == 1 && q.Separability == 30
		}},
		{"isolated triangle", isolated, []int{0, 1, 2}, func(q Quality) bool {
			return q.Conductance == 0 && q.Separability == separabilityIsolated && q.Score == 100
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if q := MeasureQuality(tt.g, tt.members); !tt.check(q) {
				t.Errorf("MeasureQuality() = %+v", q)
			}
		})
	}
}

func approx(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
