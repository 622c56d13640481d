// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/cinegraph/internal/catalog"
	"github.com/tomtom215/cinegraph/internal/models"
)

func named(id int64, name string) models.NamedEntity {
	return models.NamedEntity{ID: id, Name: name}
}

func billed(order int, id int64, name string) models.CastCredit {
	return models.CastCredit{Person: named(id, name), Order: order}
}

func likedMovies() []models.Movie {
	alien := int64(5)
	return []models.Movie{
		{
			ID: 1, Title: "Heat",
			Genres:    []models.NamedEntity{named(80, "Crime"), named(53, "Thriller")},
			Directors: []models.NamedEntity{named(100, "Michael Mann")},
			Cast: []models.CastCredit{
				billed(1, 201, "Al Pacino"),
				billed(0, 200, "Robert De Niro"),
				billed(3, 207, "Val Kilmer"),
				billed(2, 206, "Jon Voight"),
			},
			Crew: []models.CrewCredit{
				{Person: named(100, "Michael Mann"), Role: "Director"},
				{Person: named(300, "Dante Spinotti"), Role: "Cinematography"},
			},
		},
		{
			ID: 2, Title: "Alien", CollectionID: &alien,
			Genres: []models.NamedEntity{named(878, "Science Fiction")},
			Cast:   []models.CastCredit{billed(0, 210, "Sigourney Weaver")},
			Crew:   []models.CrewCredit{{Person: named(110, "Ridley Scott"), Role: "Director"}},
		},
	}
}

func TestContentProfile_Score(t *testing.T) {
	alien := int64(5)
	profile := NewContentProfile(likedMovies(), 3)

	tests := []struct {
		name  string
		movie models.Movie
		want  float64
	}{
		{
			name: "shared genre director and crew",
			movie: models.Movie{
				Title:     "Collateral",
				Genres:    []models.NamedEntity{named(80, "Crime"), named(18, "Drama")},
				Directors: []models.NamedEntity{named(100, "Michael Mann")},
				Crew:      []models.CrewCredit{{Person: named(300, "Dante Spinotti"), Role: "Cinematography"}},
			},
			// 0.4/3 + 0.25/2 + 0.1
			want: 0.4/3 + 0.125 + 0.1,
		},
		{
			name: "same collection and lead",
			movie: models.Movie{
				Title: "Aliens", CollectionID: &alien,
				Genres: []models.NamedEntity{named(878, "Science Fiction")},
				Cast:   []models.CastCredit{billed(0, 210, "Sigourney Weaver")},
			},
			want: 0.4/3 + 0.2/4 + 0.05,
		},
		{
			name: "numbered sequel",
			movie: models.Movie{
				Title: "Alien 3", CollectionID: &alien,
				Genres: []models.NamedEntity{named(878, "Science Fiction")},
			},
			want: 0.4 / 3,
		},
		{
			name:  "roman numeral sequel without matches",
			movie: models.Movie{Title: "The Godfather Part II"},
			want:  -0.05,
		},
		{
			name:  "number inside a word is not a sequel",
			movie: models.Movie{Title: "2001: A Space Odyssey", Genres: []models.NamedEntity{named(878, "Science Fiction")}},
			want:  0.4 / 3,
		},
		{
			name:  "cast billed below the top three is ignored",
			movie: models.Movie{Title: "Willow", Cast: []models.CastCredit{billed(0, 207, "Val Kilmer")}},
			want:  0,
		},
		{
			name:  "nothing in common",
			movie: models.Movie{Title: "Amelie", Genres: []models.NamedEntity{named(35, "Comedy")}},
			want:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := profile.Score(&tt.movie); !near(got, tt.want) {
				t.Errorf("Score(%s) = %v, want %v", tt.movie.Title, got, tt.want)
			}
		})
	}
}

func TestContentProfile_Empty(t *testing.T) {
	p := NewContentProfile(nil, 3)
	if p != nil {
		t.Fatalf("NewContentProfile(nil) = %+v, want nil", p)
	}
	m := likedMovies()[0]
	if got := p.Score(&m); got != 0 {
		t.Errorf("nil profile Score() = %v, want 0", got)
	}
}

func TestBlend(t *testing.T) {
	tests := []struct {
		name                       string
		predicted, content, weight float64
		want                       float64
	}{
		{"default split", 8, 0.5, 0.35, 0.65*8 + 0.35*5},
		{"penalized content counts as none", 8, -0.05, 0.35, 0.65 * 8},
		{"model only", 8, 1, 0, 8},
		{"content only", 8, 0.5, 1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := blend(tt.predicted, tt.content, tt.weight); !near(got, tt.want) {
				t.Errorf("blend() = %v, want %v", got, tt.want)
			}
		})
	}
}

// directedMovies adds directors to the fixture: Thief shares Heat's.
func directedMovies() []models.Movie {
	movies := fixtureMovies()
	directors := map[int64]models.NamedEntity{
		10: named(100, "Michael Mann"),
		20: named(104, "Martin Brest"),
		30: named(101, "John Frankenheimer"),
		40: named(100, "Michael Mann"),
	}
	for i := range movies {
		movies[i].Directors = []models.NamedEntity{directors[movies[i].ID]}
	}
	upcoming := movie(50, "Heat 2", 2027, "Crime")
	upcoming.Directors = []models.NamedEntity{named(100, "Michael Mann")}
	return append(movies, upcoming)
}

func TestRecommend_ContentBlend(t *testing.T) {
	tests := []struct {
		name        string
		weight      float64
		wantTop     int64
		wantContent bool
	}{
		{"content decides the order", 1, 40, true},
		{"model only", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.src = catalog.NewMemorySource(directedMovies(), nil)
			trainFixture(t, f)

			cfg := DefaultConfig()
			cfg.Content.Weight = tt.weight
			r, err := NewRecommender(cfg, f.holder, f.ex, f.src)
			if err != nil {
				t.Fatalf("NewRecommender() error = %v", err)
			}
			r.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

			// User 4 liked only Heat.
			resp, err := r.Recommend(context.Background(), 4, 10, ScopeUnrated)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if resp.Method != MethodSVD {
				t.Fatalf("Method = %q, want %q", resp.Method, MethodSVD)
			}
			if resp.TotalCandidates != 3 {
				t.Errorf("candidates = %d, want 3 without the unreleased movie", resp.TotalCandidates)
			}
			for _, it := range resp.Items {
				if it.ItemID == 50 {
					t.Error("unreleased movie recommended")
				}
				if (it.ContentScore != 0) != tt.wantContent {
					t.Errorf("%d content score = %v, want present %v", it.ItemID, it.ContentScore, tt.wantContent)
				}
				if it.PredictedRating < 1 || it.PredictedRating > 10 {
					t.Errorf("%d predicted %v, want the model rating", it.ItemID, it.PredictedRating)
				}
			}
			if tt.wantTop != 0 {
				top := resp.Items[0]
				if top.ItemID != tt.wantTop || !near(top.ContentScore, 0.65) {
					t.Errorf("top = %+v, want %d with content 0.65", top, tt.wantTop)
				}
			}
		})
	}
}
