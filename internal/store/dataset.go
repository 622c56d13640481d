// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package store

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/validation"
)

// Dataset is the on-disk import format.
type Dataset struct {
	Ratings     []models.Rating     `json:"ratings"`
	Movies      []models.Movie      `json:"movies"`
	Collections []models.Collection `json:"collections,omitempty"`
}

// ImportStats summarises an Import run.
type ImportStats struct {
	Ratings        int `json:"ratings"`
	Movies         int `json:"movies"`
	Collections    int `json:"collections"`
	SkippedRatings int `json:"skipped_ratings"`
	SkippedMovies  int `json:"skipped_movies"`
}

// LoadDataset reads a JSON dataset file.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}
	return &ds, nil
}

// Import validates ds and writes it to s. Invalid records are skipped and
// counted, not treated as errors.
func Import(ctx context.Context, s *Badger, ds *Dataset) (ImportStats, error) {
	var stats ImportStats

	ratings := make([]models.Rating, 0, len(ds.Ratings))
	for i := range ds.Ratings {
		if verr := validation.ValidateStruct(&ds.Ratings[i]); verr != nil {
			stats.SkippedRatings++
			logging.Debug().
				Int64("user_id", ds.Ratings[i].UserID).
				Int64("item_id", ds.Ratings[i].ItemID).
				Str("reason", verr.Error()).
				Msg("skipping invalid rating")
			continue
		}
		ratings = append(ratings, ds.Ratings[i])
	}

	movies := make([]models.Movie, 0, len(ds.Movies))
	for i := range ds.Movies {
		if verr := validation.ValidateStruct(&ds.Movies[i]); verr != nil {
			stats.SkippedMovies++
			logging.Debug().
				Int64("movie_id", ds.Movies[i].ID).
				Str("reason", verr.Error()).
				Msg("skipping invalid movie")
			continue
		}
		movies = append(movies, ds.Movies[i])
	}

	if err := s.PutMovies(ctx, movies); err != nil {
		return stats, err
	}
	if err := s.PutCollections(ctx, ds.Collections); err != nil {
		return stats, err
	}
	if err := s.PutRatings(ctx, ratings); err != nil {
		return stats, err
	}

	stats.Ratings = len(ratings)
	stats.Movies = len(movies)
	stats.Collections = len(ds.Collections)

	logging.Info().
		Int("ratings", stats.Ratings).
		Int("movies", stats.Movies).
		Int("collections", stats.Collections).
		Int("skipped_ratings", stats.SkippedRatings).
		Int("skipped_movies", stats.SkippedMovies).
		Msg("dataset imported")
	return stats, nil
}
