// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommender.
type Config struct {
	// ModelPath is the JSON artifact loaded at startup and on reload.
	// Empty means popularity-only operation.
	ModelPath string `json:"model_path"`

	// ReloadInterval is how often the serve command reloads ModelPath.
	// Zero disables periodic reloads.
	ReloadInterval time.Duration `json:"reload_interval"`

	// MMRLambda balances relevance against diversity (0 to 1).
	MMRLambda float64 `json:"mmr_lambda"`

	// Oversample is the pool size handed to the reranker, as a multiple of
	// the requested limit.
	Oversample int `json:"oversample"`

	// DefaultLimit applies when a request asks for zero items.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps the requested limit.
	MaxLimit int `json:"max_limit"`

	// Content blends content similarity into personalized relevance.
	Content ContentConfig `json:"content"`

	// Neighborhood configures the kNN fallback predictor.
	Neighborhood NeighborhoodConfig `json:"neighborhood"`

	// Training configures the train command.
	Training TrainConfig `json:"training"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ReloadInterval: 15 * time.Minute,
		MMRLambda:      0.7,
		Oversample:     3,
		DefaultLimit:   10,
		MaxLimit:       100,
		Content:        DefaultContentConfig(),
		Neighborhood:   DefaultNeighborhoodConfig(),
		Training:       DefaultTrainConfig(),
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.MMRLambda < 0 || c.MMRLambda > 1 {
		return fmt.Errorf("mmr_lambda must be in [0, 1], got %f", c.MMRLambda)
	}
	if c.Oversample < 1 {
		return fmt.Errorf("oversample must be positive, got %d", c.Oversample)
	}
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit must be >= default_limit, got %d < %d", c.MaxLimit, c.DefaultLimit)
	}
	if c.ReloadInterval < 0 {
		return fmt.Errorf("reload_interval must be non-negative, got %v", c.ReloadInterval)
	}
	if c.Content.Weight < 0 || c.Content.Weight > 1 {
		return fmt.Errorf("content.weight must be in [0, 1], got %f", c.Content.Weight)
	}
	if c.Content.LikedThreshold < 0 || c.Content.LikedThreshold > 10 {
		return fmt.Errorf("content.liked_threshold must be in [0, 10], got %f", c.Content.LikedThreshold)
	}
	if c.Content.TopCast < 1 {
		return fmt.Errorf("content.top_cast must be positive, got %d", c.Content.TopCast)
	}
	if c.Neighborhood.K < 1 {
		return fmt.Errorf("neighborhood.k must be positive, got %d", c.Neighborhood.K)
	}
	if c.Training.Factors < 1 {
		return fmt.Errorf("training.factors must be positive, got %d", c.Training.Factors)
	}
	if c.Training.Damping < 0 {
		return fmt.Errorf("training.damping must be non-negative, got %f", c.Training.Damping)
	}
	return nil
}
