// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package catalog defines the movie metadata collaborator and a read-through
// cache in front of it.
//
// Graph builds and recommendation runs look up the same popular movies over
// and over, so Cache keeps recently used records in an expirable LRU. Cache
// entries are immutable copies; callers must not modify the returned slices
// inside a Movie.
package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/cinegraph/internal/models"
)

// Source provides catalog metadata. Unknown IDs are omitted from the result
// rather than reported as errors.
type Source interface {
	Movies(ctx context.Context, ids []int64) (map[int64]models.Movie, error)
	Collections(ctx context.Context, ids []int64) (map[int64]models.Collection, error)
}

// Lister is implemented by sources that can enumerate their movie IDs.
type Lister interface {
	MovieIDs(ctx context.Context) ([]int64, error)
}

// Scanner is implemented by sources that can return their whole catalog in
// one pass, ordered by ascending ID.
type Scanner interface {
	AllMovies(ctx context.Context) ([]models.Movie, error)
}

// MemorySource is an in-memory Source used by tests and the JSON loader.
type MemorySource struct {
	mu          sync.RWMutex
	movies      map[int64]models.Movie
	collections map[int64]models.Collection
}

// NewMemorySource creates a source from movies and collections.
func NewMemorySource(movies []models.Movie, collections []models.Collection) *MemorySource {
	s := &MemorySource{
		movies:      make(map[int64]models.Movie, len(movies)),
		collections: make(map[int64]models.Collection, len(collections)),
	}
	for i := range movies {
		s.movies[movies[i].ID] = movies[i]
	}
	for _, c := range collections {
		s.collections[c.ID] = c
	}
	return s
}

// Movies implements Source.
func (s *MemorySource) Movies(_ context.Context, ids []int64) (map[int64]models.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]models.Movie, len(ids))
	for _, id := range ids {
		if m, ok := s.movies[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

// Collections implements Source.
func (s *MemorySource) Collections(_ context.Context, ids []int64) (map[int64]models.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]models.Collection, len(ids))
	for _, id := range ids {
		if c, ok := s.collections[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

// MovieIDs implements Lister. IDs are returned in ascending order.
func (s *MemorySource) MovieIDs(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int64, 0, len(s.movies))
	for id := range s.movies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// AllMovies implements Scanner.
func (s *MemorySource) AllMovies(_ context.Context) ([]models.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CollectionIDs returns the distinct collection IDs referenced by movies,
// in ascending order.
func CollectionIDs(movies map[int64]models.Movie) []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, m := range movies {
		if m.CollectionID != nil && !seen[*m.CollectionID] {
			seen[*m.CollectionID] = true
			ids = append(ids, *m.CollectionID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
