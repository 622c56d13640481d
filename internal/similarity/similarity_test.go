// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package similarity

import (
	"math"
	"testing"

	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/ratings"
)

const eps = 1e-9

func TestCosine_BothLikeBothMovies(t *testing.T) {
	got := Cosine(Vector{101: 8, 102: 6}, Vector{101: 7.5, 102: 6.5})
	if math.Abs(got-0.9975) > 0.001 {
		t.Errorf("Cosine() = %v, want ~0.997", got)
	}
}

func TestCosine_NormalisesByFullVectors(t *testing.T) {
	// Overlap is only item 1; user b's extra ratings shrink the score.
	a := Vector{1: 5}
	b := Vector{1: 5, 2: 5, 3: 5}
	want := 25 / (5 * math.Sqrt(75))
	if got := Cosine(a, b); math.Abs(got-want) > eps {
		t.Errorf("Cosine() = %v, want %v", got, want)
	}
}

func TestVectorMeasures_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		fn   VectorFunc
		a, b Vector
	}{
		{"cosine empty", Cosine, Vector{}, Vector{1: 3}},
		{"cosine disjoint", Cosine, Vector{1: 3}, Vector{2: 4}},
		{"cosine zero norm", Cosine, Vector{1: 0}, Vector{1: 0}},
		{"pearson one common", Pearson, Vector{1: 3, 2: 4}, Vector{1: 5}},
		{"pearson zero variance", Pearson, Vector{1: 5, 2: 5}, Vector{1: 2, 2: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.a, tt.b); got != 0 {
				t.Errorf("got %v, want 0", got)
			}
		})
	}
}

func TestPearson(t *testing.T) {
	a := Vector{1: 1, 2: 2, 3: 3, 9: 10}
	b := Vector{1: 2, 2: 4, 3: 6}
	if got := Pearson(a, b); math.Abs(got-1) > eps {
		t.Errorf("Pearson() = %v, want 1 (only common items count)", got)
	}
	c := Vector{1: 6, 2: 4, 3: 2}
	if got := Pearson(b, c); math.Abs(got+1) > eps {
		t.Errorf("Pearson() = %v, want -1", got)
	}
}

func TestAdjustedCosine(t *testing.T) {
	means := map[int64]float64{1: 5, 2: 5}
	a := Vector{1: 7, 2: 3}
	b := Vector{1: 8, 2: 2}
	if got := AdjustedCosine(a, b, means); math.Abs(got-1) > eps {
		t.Errorf("AdjustedCosine() = %v, want 1", got)
	}
	if got := AdjustedCosine(Vector{1: 7}, Vector{1: 8}, means); got != 0 {
		t.Errorf("AdjustedCosine() with one common item = %v, want 0", got)
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"identical", []string{"Drama", "Crime"}, []string{"Crime", "Drama"}, 1},
		{"half", []string{"Drama", "Crime"}, []string{"Drama", "Comedy", "Crime", "War"}, 0.5},
		{"duplicates as set", []string{"Drama", "Drama"}, []string{"Drama"}, 1},
		{"empty", nil, []string{"Drama"}, 0},
		{"disjoint", []string{"A"}, []string{"B"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Jaccard(tt.a, tt.b); math.Abs(got-tt.want) > eps {
				t.Errorf("Jaccard() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMeasures_SymmetricAndBounded(t *testing.T) {
	vectors := []Vector{
		{1: 8, 2: 6, 3: 2},
		{1: 7.5, 2: 6.5, 4: 9},
		{2: 1, 3: 10, 4: 4},
		{1: 3, 3: 3},
	}
	means := map[int64]float64{1: 6, 2: 5, 3: 5, 4: 6}
	funcs := map[string]VectorFunc{
		"cosine":          Cosine,
		"pearson":         Pearson,
		"adjusted_cosine": func(a, b Vector) float64 { return AdjustedCosine(a, b, means) },
	}

	for name, fn := range funcs {
		t.Run(name, func(t *testing.T) {
			for i := range vectors {
				for j := range vectors {
					ab, ba := fn(vectors[i], vectors[j]), fn(vectors[j], vectors[i])
					if math.Abs(ab-ba) > eps {
						t.Errorf("sim(%d,%d)=%v != sim(%d,%d)=%v", i, j, ab, j, i, ba)
					}
					if ab < -1-eps || ab > 1+eps {
						t.Errorf("sim(%d,%d)=%v out of [-1,1]", i, j, ab)
					}
				}
			}
		})
	}
}

func TestFunc(t *testing.T) {
	for _, m := range []Metric{MetricCosine, MetricPearson, MetricAdjustedCosine, MetricJaccard, ""} {
		if _, err := Func(m, nil); err != nil {
			t.Errorf("Func(%q) error = %v", m, err)
		}
	}
	if _, err := Func("euclidean", nil); err == nil {
		t.Error("Func(euclidean) should fail")
	}

	jac, _ := Func(MetricJaccard, nil)
	if got := jac(Vector{1: 1, 2: 1}, Vector{2: 9, 3: 9}); math.Abs(got-1.0/3) > eps {
		t.Errorf("jaccard over keys = %v, want 1/3", got)
	}
}

func TestBuildMatrix(t *testing.T) {
	m := ratings.Matrix{
		1: {101: 8, 102: 6},
		2: {101: 7.5, 102: 6.5, 103: 9},
		3: {101: 8.5, 103: 8},
		4: {999: 5},
	}

	sims := BuildMatrix(m, Cosine, DefaultOptions())
	for _, p := range sims.Pairs() {
		if p.A >= p.B {
			t.Errorf("pair %+v not ordered", p)
		}
		if math.Abs(p.Score) < 0.2 {
			t.Errorf("pair %+v below threshold", p)
		}
	}
	if _, ok := sims.Get(1, 4); ok {
		t.Error("user 4 shares nothing and should have no pair")
	}
	ab, ok1 := sims.Get(1, 2)
	ba, ok2 := sims.Get(2, 1)
	if !ok1 || !ok2 || ab != ba {
		t.Errorf("Get(1,2)=(%v,%v) Get(2,1)=(%v,%v)", ab, ok1, ba, ok2)
	}
	if nbs := sims.Neighbors(2); len(nbs) != 2 {
		t.Errorf("Neighbors(2) = %v, want 2", nbs)
	}
}

func TestBuildMatrix_Window(t *testing.T) {
	m := ratings.Matrix{}
	for u := int64(1); u <= 5; u++ {
		m[u] = Vector{1: 5, 2: 5}
	}
	sims := BuildMatrix(m, Cosine, Options{Window: 1, Threshold: 0.2})
	if sims.Len() != 4 {
		t.Errorf("Len() = %d, want 4 adjacent pairs with window 1", sims.Len())
	}
	if _, ok := sims.Get(1, 3); ok {
		t.Error("pair outside window should not be computed")
	}
}

func TestFeatureSimilarity(t *testing.T) {
	a := ItemFeatures{Genres: []string{"Drama", "Crime"}, Language: "en", RuntimeBucket: RuntimeLong, Decade: 1990}
	b := ItemFeatures{Genres: []string{"Drama", "Crime"}, Language: "en", RuntimeBucket: RuntimeLong, Decade: 1990}
	if got := FeatureSimilarity(a, b); math.Abs(got-1) > eps {
		t.Errorf("identical features = %v, want 1", got)
	}

	c := ItemFeatures{Genres: []string{"Comedy"}, Language: "fr", RuntimeBucket: RuntimeShort, Decade: 2010}
	if got := FeatureSimilarity(a, c); got != 0 {
		t.Errorf("disjoint features = %v, want 0", got)
	}
	if got := FeatureSimilarity(ItemFeatures{}, ItemFeatures{}); got != 0 {
		t.Errorf("unknown features = %v, want 0", got)
	}
}

func TestRuntimeBucket(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, RuntimeStandard},
		{85, RuntimeShort},
		{90, RuntimeShort},
		{91, RuntimeStandard},
		{120, RuntimeStandard},
		{150, RuntimeLong},
		{151, RuntimeEpic},
	}
	for _, tt := range tests {
		if got := RuntimeBucket(tt.minutes); got != tt.want {
			t.Errorf("RuntimeBucket(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestFeaturesOf(t *testing.T) {
	m := &models.Movie{
		Year:           1994,
		Language:       "en",
		RuntimeMinutes: 142,
		Genres:         []models.NamedEntity{{ID: 1, Name: "Drama"}},
	}
	f := FeaturesOf(m)
	if f.Decade != 1990 || f.RuntimeBucket != RuntimeLong || len(f.Genres) != 1 {
		t.Errorf("FeaturesOf() = %+v", f)
	}
}
