// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package config

import (
	"fmt"

	"github.com/tomtom215/cinegraph/internal/validation"
)

// Validate applies the struct tag rules, then checks that span fields.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}
	if err := c.validateGraph(); err != nil {
		return err
	}
	return c.validateRecommend()
}

func (c *Config) validateGraph() error {
	if c.Graph.MovieLimit > c.Graph.MaxNodes {
		return fmt.Errorf("graph.movie_limit (%d) exceeds graph.max_nodes (%d)", c.Graph.MovieLimit, c.Graph.MaxNodes)
	}
	if c.Graph.PredictionsLimit > c.Graph.MaxNodes {
		return fmt.Errorf("graph.predictions_limit (%d) exceeds graph.max_nodes (%d)",
			c.Graph.PredictionsLimit, c.Graph.MaxNodes)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	// A reload cycle shorter than the shutdown grace period could start a
	// new load while the previous one is still being drained.
	if c.Recommend.ReloadInterval > 0 && c.Recommend.ReloadInterval < c.Server.ShutdownTimeout {
		return fmt.Errorf("recommend.reload_interval (%v) must not be shorter than server.shutdown_timeout (%v)",
			c.Recommend.ReloadInterval, c.Server.ShutdownTimeout)
	}
	return nil
}
