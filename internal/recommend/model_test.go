// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/tomtom215/cinegraph/internal/similarity"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// testArtifact describes one user (1) and one trained item (10). Every term
// of the prediction is non-zero so a missing term shows up in the total.
func testArtifact() *Artifact {
	return &Artifact{
		U:          [][]float64{{1}},
		Sigma:      []float64{2},
		Vt:         [][]float64{{0.25}},
		UserToIdx:  map[int64]int{1: 0},
		ItemToIdx:  map[int64]int{10: 0},
		GlobalMean: 3,
		YearBiases: map[int]float64{1999: 0.1},
		ItemBiases: map[int64]float64{10: 0.5},
		UserBiases: map[int64]float64{1: 0.2},
		UserGenreBiases: map[string]map[int64]float64{
			"Drama": {1: 0.3},
		},
		UserDecadeBiases:   map[int]map[int64]float64{1990: {1: 0.05}},
		UserLanguageBiases: map[string]map[int64]float64{"en": {1: -0.1}},
		UserRuntimeBiases: map[string]map[int64]float64{
			similarity.RuntimeStandard: {1: 0.05},
		},
		ItemGenres:        map[int64][]string{10: {"Drama"}},
		ItemLanguage:      map[int64]string{10: "en"},
		ItemRuntimeBucket: map[int64]string{10: similarity.RuntimeStandard},
		ItemYear:          map[int64]int{10: 1999},
		Metadata:          Metadata{K: 1, ModelVersion: ModelVersion},
	}
}

func mustModel(t *testing.T, a *Artifact) *Model {
	t.Helper()
	m, err := NewModel(a)
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	return m
}

func TestModel_PredictRating(t *testing.T) {
	m := mustModel(t, testArtifact())

	// 3 + 0.5 + 0.2 + 0.1 + 0.05 + 0.3 - 0.1 + 0.05 + 1*2*0.25 = 4.6
	if got := m.PredictRating(1, 10, 0); !near(got, 9.2) {
		t.Errorf("PredictRating() = %v, want 9.2", got)
	}

	// A year override drops the 1999 year and 1990s decade biases.
	if got := m.PredictRating(1, 10, 2015); !near(got, 2*(4.6-0.1-0.05)) {
		t.Errorf("PredictRating(year=2015) = %v, want %v", got, 2*(4.6-0.1-0.05))
	}

	// An unknown user gets no user-level terms and no interaction.
	if got := m.PredictRating(2, 10, 0); !near(got, 2*(3+0.5+0.1)) {
		t.Errorf("PredictRating(unknown user) = %v, want %v", got, 2*3.6)
	}
}

func TestModel_PredictClamped(t *testing.T) {
	tests := []struct {
		name  string
		sigma float64
		vt    float64
		want  float64
	}{
		{"above range", 100, 1, 2 * MaxModelRating},
		{"below range", 100, -1, 2 * MinModelRating},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testArtifact()
			a.Sigma = []float64{tt.sigma}
			a.Vt = [][]float64{{tt.vt}}
			m := mustModel(t, a)
			if got := m.PredictRating(1, 10, 0); got != tt.want {
				t.Errorf("PredictRating() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewModel_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Artifact)
	}{
		{"vt rows", func(a *Artifact) { a.Vt = nil }},
		{"u columns", func(a *Artifact) { a.U = [][]float64{{1, 2}} }},
		{"user index", func(a *Artifact) { a.UserToIdx[5] = 3 }},
		{"item index", func(a *Artifact) { a.ItemToIdx[11] = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testArtifact()
			tt.mutate(a)
			if _, err := NewModel(a); !errors.Is(err, ErrInvalidArtifact) {
				t.Errorf("NewModel() error = %v, want ErrInvalidArtifact", err)
			}
		})
	}
}

func TestModel_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	if err := SaveArtifact(path, testArtifact()); err != nil {
		t.Fatalf("SaveArtifact() error = %v", err)
	}
	m, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}
	if got := m.PredictRating(1, 10, 0); !near(got, 9.2) {
		t.Errorf("loaded PredictRating() = %v, want 9.2", got)
	}
	if m.Metadata().ModelVersion != ModelVersion {
		t.Errorf("ModelVersion = %q", m.Metadata().ModelVersion)
	}
	if !m.KnowsUser(1) || m.KnowsUser(2) || !m.KnowsItem(10) {
		t.Error("index lookups lost in round trip")
	}
}

func TestLoadModel_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadModel(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadModel(missing) succeeded")
	}
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadModel(bad); err == nil {
		t.Error("LoadModel(bad json) succeeded")
	}
}

func TestModel_FavoriteGenre(t *testing.T) {
	a := testArtifact()
	a.UserGenreBiases["Horror"] = map[int64]float64{1: -0.4}
	m := mustModel(t, a)
	if got := m.FavoriteGenre(1, []string{"Horror", "Drama"}); got != "Drama" {
		t.Errorf("FavoriteGenre() = %q, want Drama", got)
	}
	if got := m.FavoriteGenre(1, []string{"Horror"}); got != "" {
		t.Errorf("FavoriteGenre(negative only) = %q, want empty", got)
	}
}

func TestColdItemBias(t *testing.T) {
	a := testArtifact()
	a.ItemBiases[11] = 0.3
	a.ItemGenres[11] = []string{"Drama", "Crime"}
	a.ItemBiases[12] = -0.2
	a.ItemGenres[12] = []string{"Comedy"}
	m := mustModel(t, a)

	// Vote average 8 is 4 on the model scale.
	prior := func(n float64) float64 { return (PriorStrength*3+4*n)/(PriorStrength+n) - 3 }

	tests := []struct {
		name string
		info ItemInfo
		want float64
	}{
		{"nothing known", ItemInfo{ID: 99}, 0},
		{"popularity only", ItemInfo{ID: 99, Votes: VoteData{VoteAverage: 8, VoteCount: 100}}, prior(100)},
		{"exact genre set", ItemInfo{ID: 99, Genres: []string{"Crime", "Drama"}}, 0.3},
		// {Drama} overlaps {Drama} exactly, so the exact key wins.
		{"single genre", ItemInfo{ID: 99, Genres: []string{"Drama"}}, 0.5},
		// {Drama, Thriller} overlaps {Drama} at 0.5 and {Crime, Drama} at 1/3.
		{"overlap", ItemInfo{ID: 99, Genres: []string{"Drama", "Thriller"}}, 0.5},
		{"no genre match", ItemInfo{ID: 99, Genres: []string{"Western"}}, 0},
		{
			"popular blend",
			ItemInfo{ID: 99, Genres: []string{"Comedy"}, Votes: VoteData{VoteAverage: 8, VoteCount: 100}},
			0.6*prior(100) + 0.4*-0.2,
		},
		{
			"obscure blend",
			ItemInfo{ID: 99, Genres: []string{"Comedy"}, Votes: VoteData{VoteAverage: 8, VoteCount: 20}},
			0.3*prior(20) + 0.7*-0.2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.ColdItemBias(tt.info); !near(got, tt.want) {
				t.Errorf("ColdItemBias() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModel_ColdItemPrediction(t *testing.T) {
	a := testArtifact()
	a.ItemGenres[20] = []string{"Drama"}
	m := mustModel(t, a)

	// Item 20 is untrained: cold bias 0.5 from the Drama set, user genre
	// bias 0.3, user bias 0.2 and no interaction.
	got := m.Predict(1, ItemInfo{ID: 20, Genres: []string{"Drama"}})
	if !near(got, 2*(3+0.5+0.2+0.3)) {
		t.Errorf("Predict(cold) = %v, want %v", got, 2*4.0)
	}
}

func TestModelHolder(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "model.json")
	if err := SaveArtifact(good, testArtifact()); err != nil {
		t.Fatal(err)
	}

	h := NewModelHolder()
	if h.Current() != nil {
		t.Fatal("new holder has a model")
	}
	if err := h.Load(good); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	first := h.Current()
	if first == nil {
		t.Fatal("Load() did not publish the model")
	}

	if err := h.Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("Load(missing) succeeded")
	}
	if h.Current() != first {
		t.Error("failed reload replaced the previous model")
	}

	h.Store(nil)
	if h.Current() != nil {
		t.Error("Store(nil) did not clear the holder")
	}
}
