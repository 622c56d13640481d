// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package builder

import (
	"context"

	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/similarity"
)

// Prediction confidence tiers by number of contributing ratings.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"

	highConfidenceContributors   = 5
	mediumConfidenceContributors = 3
)

// Confidence maps a contributor count to a confidence tier.
func Confidence(contributors int) string {
	switch {
	case contributors >= highConfidenceContributors:
		return ConfidenceHigh
	case contributors >= mediumConfidenceContributors:
		return ConfidenceMedium
	}
	return ConfidenceLow
}

// addSimilarity links users whose rating vectors agree.
func (b *Builder) addSimilarity(ctx context.Context, s *state) error {
	if !s.req.ShowSimilarity || len(s.matrix) < 2 {
		return nil
	}

	var means map[int64]float64
	if b.cfg.SimilarityMetric == similarity.MetricAdjustedCosine {
		var err error
		if means, err = b.ratings.ItemMeans(ctx, s.matrix.Items()); err != nil {
			return err
		}
	}
	fn, err := similarity.Func(b.cfg.SimilarityMetric, means)
	if err != nil {
		return err
	}

	threshold := b.cfg.SimilarityEdgeThreshold
	sm := similarity.BuildMatrix(s.matrix, fn, similarity.Options{
		Window:    b.cfg.SimilarityWindow,
		Threshold: threshold,
	})
	for _, p := range sm.Pairs() {
		if p.Score < threshold {
			continue
		}
		s.addEdge(models.Edge{
			Source: userID(p.A),
			Target: userID(p.B),
			Type:   models.EdgeSimilarity,
			Weight: p.Score,
		})
	}
	return nil
}

// addPredictions attaches the requester's predictions. Predictor errors
// are logged and the step is skipped.
func (b *Builder) addPredictions(ctx context.Context, s *state) error {
	requester := userID(s.req.UserID)
	if !s.req.ShowPredictions || b.predictor == nil || s.req.PredictionsLimit == 0 || !s.has(requester) {
		return nil
	}

	preds, err := b.predictor.Predictions(ctx, s.req.UserID, s.req.PredictionsLimit)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		b.logger.Warn().Err(err).Int64("user_id", s.req.UserID).Msg("predictions unavailable, skipping")
		return nil
	}
	if len(preds) > s.req.PredictionsLimit {
		preds = preds[:s.req.PredictionsLimit]
	}

	var missing []int64
	for _, p := range preds {
		if !s.has(movieID(p.ItemID)) {
			missing = append(missing, p.ItemID)
		}
	}
	var catalogued map[int64]models.Movie
	if len(missing) > 0 {
		if catalogued, err = b.catalog.Movies(ctx, missing); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			b.logger.Warn().Err(err).Msg("catalog unavailable for prediction nodes")
		}
	}

	for _, p := range preds {
		score := p.PredictedRating
		confidence := Confidence(p.Contributors)
		target := movieID(p.ItemID)

		if n, ok := s.node(target); ok {
			md := n.Movie()
			md.PredictedScore = &score
			md.PredictedConfidence = confidence
		} else {
			target = predictionID(p.ItemID)
			md := &models.MovieData{
				MovieID:             p.ItemID,
				PredictedScore:      &score,
				PredictedConfidence: confidence,
				IsPrediction:        true,
			}
			label := p.Title
			if m, ok := catalogued[p.ItemID]; ok {
				label = m.Title
				md.Year = m.Year
				md.Keywords = keywordNames(&m)
				md.CollectionID = m.CollectionID
			}
			s.addNode(models.NewNode(target, label, predictionSize, ColorPrediction, md))
		}

		s.addEdge(models.Edge{
			Source: requester,
			Target: target,
			Type:   models.EdgePrediction,
			Weight: score / 10,
		})
	}
	return nil
}
