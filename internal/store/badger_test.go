// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/cinegraph/internal/catalog"
	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/ratings"
)

var (
	_ ratings.Store   = (*Badger)(nil)
	_ catalog.Source  = (*Badger)(nil)
	_ catalog.Lister  = (*Badger)(nil)
	_ catalog.Scanner = (*Badger)(nil)
)

func openTestStore(t *testing.T) *Badger {
	t.Helper()
	s, err := Open(Config{InMemory: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRatings() []models.Rating {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return []models.Rating{
		{UserID: 1, ItemID: 10, Rating: 8, Timestamp: ts},
		{UserID: 1, ItemID: 20, Rating: 6, Timestamp: ts},
		{UserID: 2, ItemID: 10, Rating: 9, Timestamp: ts},
		{UserID: 3, ItemID: 30, Rating: 4, Timestamp: ts},
		{UserID: 300, ItemID: 10, Rating: 7, Timestamp: ts},
	}
}

func TestBadger_Ratings(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if err := s.PutRatings(ctx, sampleRatings()); err != nil {
		t.Fatalf("PutRatings() error = %v", err)
	}

	byUser, err := s.RatingsByUsers(ctx, []int64{1, 99})
	if err != nil {
		t.Fatalf("RatingsByUsers() error = %v", err)
	}
	if len(byUser) != 2 || byUser[0].ItemID != 10 || byUser[1].ItemID != 20 {
		t.Errorf("RatingsByUsers() = %+v", byUser)
	}
	if !byUser[0].Timestamp.Equal(sampleRatings()[0].Timestamp) {
		t.Errorf("timestamp not preserved: %v", byUser[0].Timestamp)
	}

	byItem, err := s.RatingsByItems(ctx, []int64{10})
	if err != nil {
		t.Fatalf("RatingsByItems() error = %v", err)
	}
	// User 300 must not leak into a prefix scan for user 3 or vice versa.
	if len(byItem) != 3 || byItem[2].UserID != 300 {
		t.Errorf("RatingsByItems() = %+v", byItem)
	}
	only3, _ := s.RatingsByUsers(ctx, []int64{3})
	if len(only3) != 1 {
		t.Errorf("RatingsByUsers(3) = %+v", only3)
	}

	counts, err := s.ReviewCounts(ctx)
	if err != nil {
		t.Fatalf("ReviewCounts() error = %v", err)
	}
	want := map[int64]int{1: 2, 2: 1, 3: 1, 300: 1}
	for u, c := range want {
		if counts[u] != c {
			t.Errorf("ReviewCounts()[%d] = %d, want %d", u, counts[u], c)
		}
	}

	items, err := s.AllItemIDs(ctx)
	if err != nil {
		t.Fatalf("AllItemIDs() error = %v", err)
	}
	if len(items) != 3 || items[0] != 10 || items[1] != 20 || items[2] != 30 {
		t.Errorf("AllItemIDs() = %v", items)
	}
}

func TestBadger_RatingUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_ = s.PutRatings(ctx, []models.Rating{{UserID: 1, ItemID: 10, Rating: 3}})
	_ = s.PutRatings(ctx, []models.Rating{{UserID: 1, ItemID: 10, Rating: 9}})

	got, _ := s.RatingsByItems(ctx, []int64{10})
	if len(got) != 1 || got[0].Rating != 9 {
		t.Errorf("RatingsByItems() after upsert = %+v", got)
	}
}

func TestBadger_Catalog(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	col := int64(5)
	movies := []models.Movie{
		{ID: 2, Title: "B", Genres: []models.NamedEntity{{ID: 18, Name: "Drama"}}, CollectionID: &col},
		{ID: 1, Title: "A"},
	}
	if err := s.PutMovies(ctx, movies); err != nil {
		t.Fatalf("PutMovies() error = %v", err)
	}
	if err := s.PutCollections(ctx, []models.Collection{{ID: 5, Name: "Saga"}}); err != nil {
		t.Fatalf("PutCollections() error = %v", err)
	}

	got, err := s.Movies(ctx, []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("Movies() error = %v", err)
	}
	if len(got) != 2 || got[2].Genres[0].Name != "Drama" || *got[2].CollectionID != 5 {
		t.Errorf("Movies() = %+v", got)
	}

	ids, _ := s.MovieIDs(ctx)
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Errorf("MovieIDs() = %v", ids)
	}

	all, err := s.AllMovies(ctx)
	if err != nil || len(all) != 2 || all[0].Title != "A" || all[1].Genres[0].Name != "Drama" {
		t.Errorf("AllMovies() = %+v, %v", all, err)
	}

	cols, _ := s.Collections(ctx, []int64{5, 6})
	if len(cols) != 1 || cols[5].Name != "Saga" {
		t.Errorf("Collections() = %v", cols)
	}
}

func TestBadger_Closed(t *testing.T) {
	s, err := Open(Config{InMemory: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := s.AllItemIDs(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("AllItemIDs() after Close = %v, want ErrClosed", err)
	}
	if err := s.PutRatings(context.Background(), sampleRatings()); !errors.Is(err, ErrClosed) {
		t.Errorf("PutRatings() after Close = %v, want ErrClosed", err)
	}
}

func TestBadger_Canceled(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.RatingsByUsers(ctx, []int64{1}); !errors.Is(err, context.Canceled) {
		t.Errorf("RatingsByUsers() error = %v, want context.Canceled", err)
	}
	if err := s.PutRatings(ctx, sampleRatings()); !errors.Is(err, context.Canceled) {
		t.Errorf("PutRatings() error = %v, want context.Canceled", err)
	}
}

func TestBadger_ExtractorIntegration(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_ = s.PutRatings(ctx, sampleRatings())

	ex := ratings.NewExtractor(s, ratings.DefaultConfig())
	stats, err := ex.MovieStats(ctx, []int64{10})
	if err != nil {
		t.Fatalf("MovieStats() error = %v", err)
	}
	if stats[10].ReviewCount != 3 || stats[10].AvgRating != 8 {
		t.Errorf("MovieStats()[10] = %+v", stats[10])
	}
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dataset.json")
	body := `{
		"ratings": [
			{"user_id": 1, "item_id": 10, "rating": 8},
			{"user_id": 1, "item_id": 11, "rating": 12},
			{"user_id": 0, "item_id": 10, "rating": 5}
		],
		"movies": [
			{"id": 10, "title": "Heat"},
			{"id": 11, "title": ""}
		],
		"collections": [{"id": 1, "name": "Saga"}]
	}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	ds, err := LoadDataset(path)
	if err != nil {
		t.Fatalf("LoadDataset() error = %v", err)
	}
	s := openTestStore(t)
	stats, err := Import(context.Background(), s, ds)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	want := ImportStats{Ratings: 1, Movies: 1, Collections: 1, SkippedRatings: 2, SkippedMovies: 1}
	if stats != want {
		t.Errorf("Import() = %+v, want %+v", stats, want)
	}

	if _, err := LoadDataset(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadDataset() on a missing file should fail")
	}
}

func TestBadger_AllRatings(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if err := s.PutRatings(ctx, sampleRatings()); err != nil {
		t.Fatalf("PutRatings() error = %v", err)
	}

	all, err := s.AllRatings(ctx)
	if err != nil {
		t.Fatalf("AllRatings() error = %v", err)
	}
	if len(all) != len(sampleRatings()) {
		t.Fatalf("AllRatings() = %d ratings, want %d", len(all), len(sampleRatings()))
	}
	// user-major, big-endian: user 300 sorts last
	if all[0].UserID != 1 || all[len(all)-1].UserID != 300 {
		t.Errorf("AllRatings() order = %+v", all)
	}
	if !all[0].Timestamp.Equal(sampleRatings()[0].Timestamp) {
		t.Errorf("timestamp = %v", all[0].Timestamp)
	}

	ctx, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := s.AllRatings(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("AllRatings(canceled) error = %v, want context.Canceled", err)
	}
}

func TestBadger_Ping(t *testing.T) {
	s, err := Open(Config{InMemory: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping() on open store = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Ping(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Ping() after Close = %v, want ErrClosed", err)
	}
}
