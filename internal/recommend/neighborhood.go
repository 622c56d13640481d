// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/catalog"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/ratings"
	"github.com/tomtom215/cinegraph/internal/similarity"
)

// kNN prediction bounds on the display scale.
const (
	MinKNNRating = 1.0
	MaxKNNRating = 10.0
)

// Estimate is a kNN rating estimate.
type Estimate struct {
	ItemID       int64
	Rating       float64
	Contributors int
}

// PredictKNN estimates userID's rating of each item as the similarity
// weighted mean of the k most similar neighbours (by |similarity|) who rated
// it. Items the user already rated, or that no neighbour rated, are skipped.
// Estimates are returned in item order.
func PredictKNN(m ratings.Matrix, neighbors []similarity.Neighbor, userID int64, items []int64, k int) []Estimate {
	own := m[userID]
	var out []Estimate
	for _, item := range items {
		if _, rated := own[item]; rated {
			continue
		}
		var num, den float64
		used := 0
		// neighbors are sorted by |score| desc, so the first k raters win.
		for _, nb := range neighbors {
			if used == k {
				break
			}
			r, ok := m[nb.UserID][item]
			if !ok {
				continue
			}
			num += nb.Score * r
			den += math.Abs(nb.Score)
			used++
		}
		if den == 0 {
			continue
		}
		out = append(out, Estimate{
			ItemID:       item,
			Rating:       clamp(num/den, MinKNNRating, MaxKNNRating),
			Contributors: used,
		})
	}
	return out
}

// NeighborhoodConfig configures user-kNN prediction.
type NeighborhoodConfig struct {
	// K is the number of neighbours per prediction. Default: 10.
	K int

	// Metric is the user-user similarity measure. Default: cosine.
	Metric similarity.Metric

	// Threshold is the minimum |similarity| for a neighbour. Default: 0.2.
	Threshold float64
}

// DefaultNeighborhoodConfig returns the defaults.
func DefaultNeighborhoodConfig() NeighborhoodConfig {
	return NeighborhoodConfig{K: 10, Metric: similarity.MetricCosine, Threshold: 0.2}
}

// Neighborhood predicts ratings from similar users. It needs no trained
// model and serves as the graph builder's predictor when none is loaded.
type Neighborhood struct {
	ex     *ratings.Extractor
	src    catalog.Source
	cfg    NeighborhoodConfig
	logger zerolog.Logger
}

// NewNeighborhood creates a kNN predictor.
func NewNeighborhood(ex *ratings.Extractor, src catalog.Source, cfg NeighborhoodConfig) *Neighborhood {
	def := DefaultNeighborhoodConfig()
	if cfg.K <= 0 {
		cfg.K = def.K
	}
	if cfg.Metric == "" {
		cfg.Metric = def.Metric
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}
	return &Neighborhood{
		ex:     ex,
		src:    src,
		cfg:    cfg,
		logger: logging.With().Str("component", "knn").Logger(),
	}
}

// Predictions implements Predictor. The result is ordered by predicted
// rating, then contributor count, then item ID.
func (n *Neighborhood) Predictions(ctx context.Context, userID int64, limit int) ([]Recommendation, error) {
	if limit <= 0 {
		return nil, nil
	}
	counts, err := n.ex.ReviewCounts(ctx)
	if err != nil {
		return nil, err
	}
	if counts[userID] == 0 {
		return nil, nil
	}
	users := make([]int64, 0, len(counts))
	for u := range counts {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })

	m, err := n.ex.UserRatingMatrix(ctx, users)
	if err != nil {
		return nil, err
	}
	neighbors, err := n.neighbors(ctx, m, userID)
	if err != nil {
		return nil, err
	}
	if len(neighbors) == 0 {
		return nil, nil
	}

	estimates := PredictKNN(m, neighbors, userID, m.Items(), n.cfg.K)
	sort.Slice(estimates, func(i, j int) bool {
		a, b := estimates[i], estimates[j]
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		if a.Contributors != b.Contributors {
			return a.Contributors > b.Contributors
		}
		return a.ItemID < b.ItemID
	})
	if len(estimates) > limit {
		estimates = estimates[:limit]
	}

	ids := make([]int64, len(estimates))
	for i, e := range estimates {
		ids[i] = e.ItemID
	}
	movies, err := n.src.Movies(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("knn titles: %w", err)
	}

	out := make([]Recommendation, len(estimates))
	for i, e := range estimates {
		out[i] = Recommendation{
			ItemID:          e.ItemID,
			Title:           movies[e.ItemID].Title,
			PredictedRating: e.Rating,
			Contributors:    e.Contributors,
			Reason:          fmt.Sprintf("Rated by %d similar users", e.Contributors),
		}
	}
	n.logger.Debug().
		Int64("user_id", userID).
		Int("neighbors", len(neighbors)).
		Int("predictions", len(out)).
		Msg("knn predictions")
	return out, nil
}

// neighbors compares userID against every other user.
func (n *Neighborhood) neighbors(ctx context.Context, m ratings.Matrix, userID int64) ([]similarity.Neighbor, error) {
	var means map[int64]float64
	if n.cfg.Metric == similarity.MetricAdjustedCosine {
		var err error
		if means, err = n.ex.ItemMeans(ctx, m.Items()); err != nil {
			return nil, err
		}
	}
	fn, err := similarity.Func(n.cfg.Metric, means)
	if err != nil {
		return nil, err
	}

	own := m[userID]
	var out []similarity.Neighbor
	for _, other := range m.Users() {
		if other == userID {
			continue
		}
		s := fn(own, m[other])
		if s == 0 || math.Abs(s) < n.cfg.Threshold {
			continue
		}
		out = append(out, similarity.Neighbor{UserID: other, Score: s})
	}
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := math.Abs(out[i].Score), math.Abs(out[j].Score)
		if ai != aj {
			return ai > aj
		}
		return out[i].UserID < out[j].UserID
	})
	return out, ctx.Err()
}

var _ Predictor = (*Neighborhood)(nil)
