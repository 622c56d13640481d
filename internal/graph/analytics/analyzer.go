// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package analytics

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/graph"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
	"github.com/tomtom215/cinegraph/internal/models"
)

// Config tunes the health and influence reports.
type Config struct {
	// MinReviewsForInfluence is the review count below which a user scores 0.
	MinReviewsForInfluence int

	// InfluenceWindow is the age at which the recency component reaches 0.
	InfluenceWindow time.Duration

	// InfluenceDecay is the exponent of the recency curve.
	InfluenceDecay float64

	// EngagementWindow decides who counts as an active user.
	EngagementWindow time.Duration

	// TopN bounds each influence leaderboard.
	TopN int

	// Now is the reference time for recency, engagement and growth.
	// Defaults to time.Now.
	Now func() time.Time
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MinReviewsForInfluence: 5,
		InfluenceWindow:        365 * 24 * time.Hour,
		InfluenceDecay:         0.5,
		EngagementWindow:       30 * 24 * time.Hour,
		TopN:                   10,
	}
}

// Input is a built graph plus the ratings of its users.
type Input struct {
	Nodes []models.Node
	Edges []models.Edge

	// Centrality may be nil when it was not computed or failed.
	Centrality *models.CentralityResult

	Ratings []models.Rating
}

// Report is the output of Analyze.
type Report struct {
	Health         *models.NetworkHealth
	TopInfluencers *models.TopInfluencers
}

// Analyzer computes health and influence reports.
type Analyzer struct {
	cfg    Config
	logger zerolog.Logger
}

// New creates an analyzer. Zero fields of cfg take their defaults.
func New(cfg Config) *Analyzer {
	def := DefaultConfig()
	if cfg.MinReviewsForInfluence <= 0 {
		cfg.MinReviewsForInfluence = def.MinReviewsForInfluence
	}
	if cfg.InfluenceWindow <= 0 {
		cfg.InfluenceWindow = def.InfluenceWindow
	}
	if cfg.InfluenceDecay <= 0 {
		cfg.InfluenceDecay = def.InfluenceDecay
	}
	if cfg.EngagementWindow <= 0 {
		cfg.EngagementWindow = def.EngagementWindow
	}
	if cfg.TopN <= 0 {
		cfg.TopN = def.TopN
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Analyzer{
		cfg:    cfg,
		logger: logging.With().Str("component", "graph_analytics").Logger(),
	}
}

// Analyze builds the health report and the influence leaderboards. Only
// context cancellation is returned as an error.
func (a *Analyzer) Analyze(ctx context.Context, in Input) (*Report, error) {
	now := a.cfg.Now()
	g := graph.FromModels(in.Nodes, in.Edges)

	density := Density(g)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	act := newActivity(in.Ratings)
	health := Health(density, act.engagement(in.Nodes, now, a.cfg.EngagementWindow), act.growth(now))
	metrics.GraphHealth.Observe(health.OverallHealth)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	scores := a.influence(in, act, now)
	top := &models.TopInfluencers{
		Users:  topInfluencers(in.Nodes, scores, act, models.NodeUser, a.cfg.TopN),
		Movies: topInfluencers(in.Nodes, scores, act, models.NodeMovie, a.cfg.TopN),
	}

	a.logger.Debug().
		Float64("health", health.OverallHealth).
		Str("status", health.Status).
		Int("top_users", len(top.Users)).
		Int("top_movies", len(top.Movies)).
		Msg("graph analytics computed")
	return &Report{Health: health, TopInfluencers: top}, nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
