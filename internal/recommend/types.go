// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import (
	"context"
	"fmt"

	"github.com/tomtom215/cinegraph/internal/similarity"
)

// Scope selects which items are eligible for recommendation.
type Scope string

const (
	// ScopeUnrated excludes items the user already rated.
	ScopeUnrated Scope = "unrated"
	// ScopeAll considers every catalog item.
	ScopeAll Scope = "all"
)

// ParseScope validates s. The empty string means ScopeUnrated.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeUnrated:
		return ScopeUnrated, nil
	case ScopeAll:
		return ScopeAll, nil
	default:
		return "", fmt.Errorf("unknown recommendation scope %q", s)
	}
}

// Methods reported in Response.Method.
const (
	MethodSVD          = "svd"
	MethodPopularity   = "popularity"
	MethodNeighborhood = "knn"
)

// Item is a candidate item with the features used for diversity.
type Item struct {
	ID       int64                   `json:"id"`
	Title    string                  `json:"title"`
	Features similarity.ItemFeatures `json:"features"`
}

// ScoredItem is a candidate with its relevance on the 0-10 scale.
type ScoredItem struct {
	// Item is the candidate and its content features.
	Item Item `json:"item"`

	// Score is the relevance rerankers order by: the predicted rating
	// blended with content similarity.
	Score float64 `json:"score"`

	// Predicted is the model's rating estimate (0-10).
	Predicted float64 `json:"predicted"`

	// Content is the similarity to the user's liked movies.
	Content float64 `json:"content,omitempty"`

	// Reason explains the prediction.
	Reason string `json:"reason,omitempty"`
}

// Recommendation is a single entry of a recommendation list.
type Recommendation struct {
	ItemID          int64   `json:"item_id"`
	Title           string  `json:"title"`
	PredictedRating float64 `json:"predicted_rating"`

	// Contributors is the number of local ratings behind the item, or the
	// number of neighbours for kNN estimates.
	Contributors int    `json:"contributors"`
	Reason       string `json:"reason,omitempty"`

	// ContentScore is the similarity to the movies the user liked. Only
	// personalized lists carry it.
	ContentScore float64 `json:"content_score,omitempty"`
}

// Prediction is the result of Recommender.PredictRating. KnownUser and
// KnownItem report whether the interaction term contributed.
type Prediction struct {
	UserID          int64   `json:"user_id"`
	ItemID          int64   `json:"item_id"`
	Title           string  `json:"title,omitempty"`
	Year            int     `json:"year,omitempty"`
	PredictedRating float64 `json:"predicted_rating"`
	KnownUser       bool    `json:"known_user"`
	KnownItem       bool    `json:"known_item"`
}

// Response is the result of Recommender.Recommend.
type Response struct {
	// Method is MethodSVD or MethodPopularity.
	Method string `json:"method"`

	Items []Recommendation `json:"items"`

	// TotalCandidates is the number of items scored before truncation.
	TotalCandidates int `json:"total_candidates"`
}

// Reranker reorders a scored pool and returns up to k items.
type Reranker interface {
	// Name returns the reranker identifier (e.g. "mmr").
	Name() string

	// Rerank picks up to k items from items, which arrive sorted by
	// descending score.
	Rerank(ctx context.Context, items []ScoredItem, k int) []ScoredItem
}

// Predictor produces rating predictions for items a user has not rated.
// The graph builder uses it for prediction edges.
type Predictor interface {
	Predictions(ctx context.Context, userID int64, limit int) ([]Recommendation, error)
}
