// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package analytics

import (
	"context"
	"errors"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/tomtom215/cinegraph/internal/graph"
	"github.com/tomtom215/cinegraph/internal/models"
)

var refTime = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func daysAgo(d int) time.Time {
	return refTime.Add(-time.Duration(d) * 24 * time.Hour)
}

func rated(user, item int64, r float64, at time.Time) models.Rating {
	return models.Rating{UserID: user, ItemID: item, Rating: r, Timestamp: at}
}

func userNode(id int64, reviews int) models.Node {
	return models.NewNode("user_"+strconv.FormatInt(id, 10), "User", 20, "#000", &models.UserData{UserID: id, ReviewCount: reviews})
}

func TestDensity(t *testing.T) {
	g := graph.New()
	g.AddEdge("a", "b", 1)
	g.AddEdge("b", "c", 1)
	g.AddEdge("a", "c", 1)
	g.AddEdge("c", "d", 1)

	got := Density(g)
	want := models.DensityMetrics{
		Density:               0.6667,
		AverageDegree:         2,
		MaxDegree:             3,
		ClusteringCoefficient: 0.5833,
		ConnectedComponents:   1,
		NodeCount:             4,
		EdgeCount:             4,
	}
	if got != want {
		t.Errorf("Density() = %+v, want %+v", got, want)
	}

	single := graph.New()
	single.AddNode("a")
	if got := Density(single); got != (models.DensityMetrics{NodeCount: 1}) {
		t.Errorf("Density(single) = %+v, want only the node count", got)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		density    float64
		engagement models.EngagementMetrics
		growth     Growth
		overall    float64
		status     string
		issues     int
	}{
		{"sparse and idle", 0.02, models.EngagementMetrics{}, Growth{}, 19, StatusPoor, 2},
		{"healthy", 0.3, models.EngagementMetrics{EngagementRate: 1, EngagementScore: 100}, Growth{Recent: 12, Prior: 10}, 88, StatusExcellent, 0},
		{"steady", 0.5, models.EngagementMetrics{EngagementRate: 0.5, EngagementScore: 75}, Growth{Recent: 9, Prior: 10}, 70, StatusGood, 1},
		{"dense and shrinking", 0.8, models.EngagementMetrics{EngagementRate: 0.5, EngagementScore: 50}, Growth{Recent: 5, Prior: 10}, 50, StatusFair, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Health(models.DensityMetrics{Density: tt.density}, tt.engagement, tt.growth)
			if !near(h.OverallHealth, tt.overall) || h.Status != tt.status {
				t.Errorf("health = %v (%s), want %v (%s)", h.OverallHealth, h.Status, tt.overall, tt.status)
			}
			if len(h.Issues) != tt.issues {
				t.Errorf("issues = %v, want %d", h.Issues, tt.issues)
			}
			if !near(h.ConnectivityHealth+h.EngagementHealth+h.GrowthHealth, h.OverallHealth) {
				t.Errorf("parts %v+%v+%v do not add up to %v", h.ConnectivityHealth, h.EngagementHealth, h.GrowthHealth, h.OverallHealth)
			}
		})
	}
}

func TestEngagementAndGrowth(t *testing.T) {
	act := newActivity([]models.Rating{
		rated(1, 10, 8, daysAgo(2)),
		rated(1, 20, 6, daysAgo(10)),
		rated(2, 10, 7, daysAgo(40)),
		{UserID: 2, ItemID: 30, Rating: 5}, // no timestamp
	})
	nodes := []models.Node{userNode(1, 2), userNode(2, 2), userNode(3, 0)}

	e := act.engagement(nodes, refTime, 30*24*time.Hour)
	want := models.EngagementMetrics{
		ActiveUsers:           1,
		TotalUsers:            3,
		EngagementRate:        0.333,
		AverageReviewsPerUser: 2,
		EngagementScore:       36.67,
		WindowDays:            30,
	}
	if e != want {
		t.Errorf("engagement = %+v, want %+v", e, want)
	}

	if g := act.growth(refTime); g != (Growth{Recent: 1, Prior: 1}) {
		t.Errorf("growth = %+v, want 1 recent and 1 prior", g)
	}
}

func influenceInput() Input {
	nodes := []models.Node{
		userNode(1, 6),
		userNode(2, 3),
		models.NewNode("movie_10", "Heat", 20, "#fff", &models.MovieData{MovieID: 10, ReviewCount: 4, Rating: 8}),
		models.NewNode("movie_20", "Ronin", 20, "#fff", &models.MovieData{MovieID: 20, ReviewCount: 2, Rating: 8}),
		models.NewNode("prediction_30", "Leon", 18, "#FFD700", &models.MovieData{MovieID: 30, IsPrediction: true}),
		models.NewNode("genre_80", "Crime", 20, "#9F7AEA", &models.GenreData{GenreID: 80, MovieCount: 2}),
	}
	return Input{
		Nodes: nodes,
		Edges: []models.Edge{{Source: "user_1", Target: "movie_10", Weight: 0.8}},
		Centrality: &models.CentralityResult{Measures: map[string]models.CentralityScores{
			"user_1": {DegreeCentrality: 0.5, Betweenness: 0.5, Closeness: 0.5, Eigenvector: 0.5},
		}},
		Ratings: []models.Rating{
			rated(1, 10, 8, refTime),
			rated(1, 20, 8, daysAgo(365)),
			rated(2, 10, 8, refTime),
		},
	}
}

func TestInfluenceScores(t *testing.T) {
	a := New(Config{Now: func() time.Time { return refTime }})
	in := influenceInput()
	scores := a.influence(in, newActivity(in.Ratings), refTime)

	tests := []struct {
		id   string
		want float64
	}{
		// 20 centrality + 30 activity + 17.6 quality + 10 recency
		{"user_1", 77.6},
		// below the review minimum
		{"user_2", 0},
		// 30 activity + 17.6 quality + 10 recency
		{"movie_10", 57.6},
		// half the busiest movie's reviews, a year old
		{"movie_20", 32.6},
		{"genre_80", 0},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := scores[tt.id]; !near(got, tt.want) {
				t.Errorf("influence(%s) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	a := New(Config{TopN: 1, Now: func() time.Time { return refTime }})
	report, err := a.Analyze(context.Background(), influenceInput())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if report.Health == nil || report.Health.Density.NodeCount != 6 {
		t.Fatalf("health = %+v", report.Health)
	}

	users, movies := report.TopInfluencers.Users, report.TopInfluencers.Movies
	if len(users) != 1 || users[0].ID != "user_1" || users[0].Rank != 1 || users[0].AverageRating != 8 {
		t.Errorf("top users = %+v, want user_1 ranked first", users)
	}
	if len(movies) != 1 || movies[0].ID != "movie_10" || movies[0].ReviewCount != 4 {
		t.Errorf("top movies = %+v, want movie_10", movies)
	}
}

func TestTopInfluencers_OrderAndExclusions(t *testing.T) {
	in := influenceInput()
	scores := map[string]float64{"movie_10": 5, "movie_20": 5, "prediction_30": 99}
	got := topInfluencers(in.Nodes, scores, newActivity(nil), models.NodeMovie, 10)
	if len(got) != 2 {
		t.Fatalf("movies = %+v, want 2 without the prediction node", got)
	}
	if got[0].ID != "movie_10" || got[1].ID != "movie_20" || got[1].Rank != 2 {
		t.Errorf("order = %+v, want ties broken by id", got)
	}
	if got[0].AverageRating != 8 {
		t.Errorf("average rating = %v, want the node rating without local ratings", got[0].AverageRating)
	}
}

func TestAnalyze_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(DefaultConfig()).Analyze(ctx, influenceInput()); !errors.Is(err, context.Canceled) {
		t.Errorf("Analyze() error = %v, want context.Canceled", err)
	}
}
