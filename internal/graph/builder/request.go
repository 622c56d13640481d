// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package builder

import (
	"github.com/tomtom215/cinegraph/internal/validation"
)

// Request defaults.
const (
	DefaultMinReviews       = 2
	DefaultRatingThreshold  = 7.0
	DefaultMaxNodes         = 500
	DefaultMovieLimit       = 100
	DefaultPredictionsLimit = 10
	DefaultSeed             = 42
)

// Request selects what one build includes.
type Request struct {
	// UserID is the requesting user. It is always part of the graph.
	UserID int64 `json:"user_id" validate:"gt=0"`

	// MinReviews is the review count that makes a user active.
	MinReviews int `json:"min_reviews" validate:"gte=1"`

	// RatingThreshold is the minimum rating of a good review.
	RatingThreshold float64 `json:"rating_threshold" validate:"gte=0,lte=10"`

	// MaxNodes bounds users (a third) and actors (a half).
	MaxNodes int `json:"max_nodes" validate:"gte=3,lte=20000"`

	MovieLimit       int `json:"movie_limit" validate:"gte=1"`
	PredictionsLimit int `json:"predictions_limit" validate:"gte=0,lte=100"`

	ShowGenres      bool `json:"show_genres"`
	ShowCountries   bool `json:"show_countries"`
	ShowDirectors   bool `json:"show_directors"`
	ShowActors      bool `json:"show_actors"`
	ShowCrew        bool `json:"show_crew"`
	ShowSimilarity  bool `json:"show_similarity"`
	ShowPredictions bool `json:"show_predictions"`

	// Seed drives community detection and layout jitter.
	Seed uint64 `json:"seed"`
}

// DefaultRequest returns the default request for userID.
func DefaultRequest(userID int64) Request {
	return Request{
		UserID:           userID,
		MinReviews:       DefaultMinReviews,
		RatingThreshold:  DefaultRatingThreshold,
		MaxNodes:         DefaultMaxNodes,
		MovieLimit:       DefaultMovieLimit,
		PredictionsLimit: DefaultPredictionsLimit,
		ShowGenres:       true,
		ShowCountries:    true,
		ShowDirectors:    true,
		ShowSimilarity:   true,
		ShowPredictions:  true,
		Seed:             DefaultSeed,
	}
}

// Validate checks the request bounds.
func (r *Request) Validate() error {
	if err := validation.ValidateStruct(r); err != nil {
		return err
	}
	return nil
}

// userCap is the maximum number of user nodes.
func (r *Request) userCap() int {
	return max(1, r.MaxNodes/3)
}

// fallbackMovieCap bounds movies when no good review qualifies.
func (r *Request) fallbackMovieCap() int {
	return max(1, min(r.MovieLimit, r.MaxNodes/2))
}
