// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/cinegraph/internal/models"
)

// countingSource records how many IDs each call asked for.
type countingSource struct {
	inner     Source
	requested []int
	err       error
}

func (s *countingSource) Movies(ctx context.Context, ids []int64) (map[int64]models.Movie, error) {
	s.requested = append(s.requested, len(ids))
	if s.err != nil {
		return nil, s.err
	}
	return s.inner.Movies(ctx, ids)
}

func (s *countingSource) Collections(ctx context.Context, ids []int64) (map[int64]models.Collection, error) {
	return s.inner.Collections(ctx, ids)
}

func ptr(v int64) *int64 { return &v }

func fixture() *MemorySource {
	return NewMemorySource(
		[]models.Movie{
			{ID: 603, Title: "The Matrix", CollectionID: ptr(2344)},
			{ID: 604, Title: "The Matrix Reloaded", CollectionID: ptr(2344)},
			{ID: 550, Title: "Fight Club"},
		},
		[]models.Collection{{ID: 2344, Name: "The Matrix Collection"}},
	)
}

func TestMemorySource(t *testing.T) {
	src := fixture()
	got, err := src.Movies(context.Background(), []int64{550, 999})
	if err != nil {
		t.Fatalf("Movies() error = %v", err)
	}
	if len(got) != 1 || got[550].Title != "Fight Club" {
		t.Errorf("Movies() = %v", got)
	}

	ids, _ := src.MovieIDs(context.Background())
	want := []int64{550, 603, 604}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("MovieIDs() = %v, want %v", ids, want)
		}
	}
}

func TestCache_ReadThrough(t *testing.T) {
	src := &countingSource{inner: fixture()}
	c := NewCache(src, CacheConfig{Size: 10, TTL: time.Minute})
	ctx := context.Background()

	if _, err := c.Movies(ctx, []int64{603, 550}); err != nil {
		t.Fatalf("Movies() error = %v", err)
	}
	got, err := c.Movies(ctx, []int64{603, 550, 604})
	if err != nil {
		t.Fatalf("Movies() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("Movies() returned %d movies, want 3", len(got))
	}
	// Second call only fetches the one miss.
	if len(src.requested) != 2 || src.requested[1] != 1 {
		t.Errorf("source requests = %v, want [2 1]", src.requested)
	}

	if _, err := c.Movies(ctx, []int64{603}); err != nil {
		t.Fatal(err)
	}
	if len(src.requested) != 2 {
		t.Errorf("fully cached request hit the source: %v", src.requested)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}

	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len() after Purge = %d", c.Len())
	}
}

func TestCache_UnknownNotCached(t *testing.T) {
	src := &countingSource{inner: fixture()}
	c := NewCache(src, DefaultCacheConfig())
	for i := 0; i < 2; i++ {
		if _, err := c.Movies(context.Background(), []int64{999}); err != nil {
			t.Fatal(err)
		}
	}
	if len(src.requested) != 2 {
		t.Errorf("source requests = %v, want two lookups", src.requested)
	}
}

func TestCache_Errors(t *testing.T) {
	boom := errors.New("boom")
	c := NewCache(&countingSource{inner: fixture(), err: boom}, DefaultCacheConfig())
	if _, err := c.Movies(context.Background(), []int64{550}); !errors.Is(err, boom) {
		t.Errorf("Movies() error = %v, want wrapped boom", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c = NewCache(fixture(), DefaultCacheConfig())
	if _, err := c.Movies(ctx, []int64{550}); !errors.Is(err, context.Canceled) {
		t.Errorf("Movies() error = %v, want context.Canceled", err)
	}
}

func TestCache_MovieIDs(t *testing.T) {
	c := NewCache(fixture(), DefaultCacheConfig())
	ids, err := c.MovieIDs(context.Background())
	if err != nil || len(ids) != 3 {
		t.Errorf("MovieIDs() = %v, %v", ids, err)
	}

	c = NewCache(&countingSource{inner: fixture()}, DefaultCacheConfig())
	if _, err := c.MovieIDs(context.Background()); err == nil {
		t.Error("MovieIDs() on a non-listing source should fail")
	}
}

// scanCountingSource counts full catalog scans.
type scanCountingSource struct {
	*MemorySource
	scans int
}

func (s *scanCountingSource) AllMovies(ctx context.Context) ([]models.Movie, error) {
	s.scans++
	return s.MemorySource.AllMovies(ctx)
}

func TestCache_AllMoviesKeepsWorkingSet(t *testing.T) {
	src := &scanCountingSource{MemorySource: fixture()}
	c := NewCache(src, CacheConfig{Size: 2, TTL: time.Minute})
	ctx := context.Background()

	if _, err := c.Movies(ctx, []int64{603, 550}); err != nil {
		t.Fatalf("Movies() error = %v", err)
	}
	for i := 0; i < 2; i++ {
		all, err := c.AllMovies(ctx)
		if err != nil {
			t.Fatalf("AllMovies() error = %v", err)
		}
		if len(all) != 3 || all[0].ID != 550 || all[2].ID != 604 {
			t.Fatalf("AllMovies() = %+v, want 3 movies by ID", all)
		}
	}
	if src.scans != 1 {
		t.Errorf("scans = %d, want the second call served from the snapshot", src.scans)
	}
	if c.Len() != 2 || !c.movies.Contains(603) || !c.movies.Contains(550) || c.movies.Contains(604) {
		t.Errorf("per-ID entries changed by a scan: %v", c.movies.Keys())
	}

	c.Purge()
	if _, err := c.AllMovies(ctx); err != nil {
		t.Fatalf("AllMovies() error = %v", err)
	}
	if src.scans != 2 {
		t.Errorf("scans after Purge = %d, want 2", src.scans)
	}
}

func TestScanAll(t *testing.T) {
	mem := fixture()
	tests := []struct {
		name    string
		src     Source
		want    int
		wantErr bool
	}{
		{"scanner", mem, 3, false},
		{"lister only", struct {
			Source
			Lister
		}{mem, mem}, 3, false},
		{"neither", &countingSource{inner: mem}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScanAll(context.Background(), tt.src)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ScanAll() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.want {
				t.Errorf("ScanAll() = %d movies, want %d", len(got), tt.want)
			}
			for i := 1; i < len(got); i++ {
				if got[i-1].ID >= got[i].ID {
					t.Errorf("ScanAll() not ordered by ID: %+v", got)
				}
			}
		})
	}
}

func TestCollectionNames(t *testing.T) {
	src := fixture()
	ctx := context.Background()
	movies, _ := src.Movies(ctx, []int64{603, 604, 550})

	names, err := CollectionNames(ctx, NewCache(src, DefaultCacheConfig()), movies)
	if err != nil {
		t.Fatalf("CollectionNames() error = %v", err)
	}
	if len(names) != 1 || names[2344] != "The Matrix Collection" {
		t.Errorf("CollectionNames() = %v", names)
	}
	if ids := CollectionIDs(movies); len(ids) != 1 || ids[0] != 2344 {
		t.Errorf("CollectionIDs() = %v", ids)
	}
}
