// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package ratings extracts rating matrices and item statistics from a
// rating store.
//
// The Extractor is the only path from persisted ratings into the
// analytics core. It batches ID lists before they reach the store and
// protects every store call with a circuit breaker, so a failing backend
// turns into fast ErrStoreUnavailable errors instead of piling up slow
// calls during a graph build.
//
// Empty inputs return empty results and no error. Missing data is never an
// error; only store failures are.
package ratings

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/cinegraph/internal/models"
)

// Store is the persistence collaborator the extractor reads from.
type Store interface {
	// RatingsByUsers returns every rating made by the given users.
	RatingsByUsers(ctx context.Context, userIDs []int64) ([]models.Rating, error)

	// RatingsByItems returns every rating of the given items.
	RatingsByItems(ctx context.Context, itemIDs []int64) ([]models.Rating, error)

	// ReviewCounts returns the number of ratings per user.
	ReviewCounts(ctx context.Context) (map[int64]int, error)

	// AllItemIDs returns the IDs of items with at least one rating.
	AllItemIDs(ctx context.Context) ([]int64, error)
}

// MemoryStore is an in-memory Store. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	byUser  map[int64][]models.Rating
	byItem  map[int64][]models.Rating
	ordered []int64
}

// NewMemoryStore creates a store holding the given ratings. A later rating
// for the same (user, item) pair replaces an earlier one.
func NewMemoryStore(records []models.Rating) *MemoryStore {
	s := &MemoryStore{
		byUser: make(map[int64][]models.Rating),
		byItem: make(map[int64][]models.Rating),
	}
	s.Add(records...)
	return s
}

// Add inserts ratings into the store.
func (s *MemoryStore) Add(records ...models.Rating) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		s.byUser[r.UserID] = upsert(s.byUser[r.UserID], r)
		if _, ok := s.byItem[r.ItemID]; !ok {
			s.ordered = append(s.ordered, r.ItemID)
		}
		s.byItem[r.ItemID] = upsert(s.byItem[r.ItemID], r)
	}
	sort.Slice(s.ordered, func(i, j int) bool { return s.ordered[i] < s.ordered[j] })
}

func upsert(list []models.Rating, r models.Rating) []models.Rating {
	for i := range list {
		if list[i].UserID == r.UserID && list[i].ItemID == r.ItemID {
			list[i] = r
			return list
		}
	}
	return append(list, r)
}

// RatingsByUsers implements Store.
func (s *MemoryStore) RatingsByUsers(_ context.Context, userIDs []int64) ([]models.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Rating
	for _, id := range userIDs {
		out = append(out, s.byUser[id]...)
	}
	return out, nil
}

// RatingsByItems implements Store.
func (s *MemoryStore) RatingsByItems(_ context.Context, itemIDs []int64) ([]models.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Rating
	for _, id := range itemIDs {
		out = append(out, s.byItem[id]...)
	}
	return out, nil
}

// ReviewCounts implements Store.
func (s *MemoryStore) ReviewCounts(_ context.Context) (map[int64]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[int64]int, len(s.byUser))
	for id, list := range s.byUser {
		counts[id] = len(list)
	}
	return counts, nil
}

// AllItemIDs implements Store.
func (s *MemoryStore) AllItemIDs(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]int64, len(s.ordered))
	copy(out, s.ordered)
	return out, nil
}
