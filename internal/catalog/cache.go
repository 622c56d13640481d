// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package catalog

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
	"github.com/tomtom215/cinegraph/internal/models"
)

const (
	metricsLabel     = "catalog"
	scanMetricsLabel = "catalog_scan"
	snapshotKey      = "all"
)

// CacheConfig sizes the read-through cache.
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// DefaultCacheConfig holds a few thousand movies for ten minutes.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{Size: 4096, TTL: 10 * time.Minute}
}

// Cache is a read-through Source. Misses are fetched from the wrapped
// source in a single batch; IDs the source does not know are not cached.
// Full catalog scans are held as a single snapshot entry apart from the
// per-ID LRU, so that a scan never evicts the working set.
type Cache struct {
	src         Source
	movies      *expirable.LRU[int64, models.Movie]
	collections *expirable.LRU[int64, models.Collection]
	snapshot    *expirable.LRU[string, []models.Movie]
	logger      zerolog.Logger
}

// NewCache wraps src. A non-positive size falls back to the default.
func NewCache(src Source, cfg CacheConfig) *Cache {
	def := DefaultCacheConfig()
	if cfg.Size <= 0 {
		cfg.Size = def.Size
	}
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	return &Cache{
		src:         src,
		movies:      expirable.NewLRU[int64, models.Movie](cfg.Size, nil, cfg.TTL),
		collections: expirable.NewLRU[int64, models.Collection](cfg.Size, nil, cfg.TTL),
		snapshot:    expirable.NewLRU[string, []models.Movie](1, nil, cfg.TTL),
		logger:      logging.With().Str("component", "catalog_cache").Logger(),
	}
}

// Movies implements Source.
func (c *Cache) Movies(ctx context.Context, ids []int64) (map[int64]models.Movie, error) {
	out, err := readThrough(ctx, c.movies, ids, c.src.Movies)
	if err != nil {
		return nil, fmt.Errorf("catalog movies: %w", err)
	}
	return out, nil
}

// Collections implements Source.
func (c *Cache) Collections(ctx context.Context, ids []int64) (map[int64]models.Collection, error) {
	out, err := readThrough(ctx, c.collections, ids, c.src.Collections)
	if err != nil {
		return nil, fmt.Errorf("catalog collections: %w", err)
	}
	return out, nil
}

// MovieIDs delegates to the wrapped source when it can list.
func (c *Cache) MovieIDs(ctx context.Context) ([]int64, error) {
	l, ok := c.src.(Lister)
	if !ok {
		return nil, fmt.Errorf("catalog source %T cannot list movies", c.src)
	}
	return l.MovieIDs(ctx)
}

// AllMovies implements Scanner. The result is shared with other callers
// until the snapshot expires and must not be modified.
func (c *Cache) AllMovies(ctx context.Context) ([]models.Movie, error) {
	if all, ok := c.snapshot.Get(snapshotKey); ok {
		metrics.CacheHits.WithLabelValues(scanMetricsLabel).Inc()
		return all, nil
	}
	metrics.CacheMisses.WithLabelValues(scanMetricsLabel).Inc()

	all, err := ScanAll(ctx, c.src)
	if err != nil {
		return nil, fmt.Errorf("catalog scan: %w", err)
	}
	c.snapshot.Add(snapshotKey, all)
	c.logger.Debug().Int("movies", len(all)).Msg("catalog snapshot refreshed")
	return all, nil
}

// Purge drops every cached entry, typically after a dataset import.
func (c *Cache) Purge() {
	c.movies.Purge()
	c.collections.Purge()
	c.snapshot.Purge()
	c.logger.Debug().Msg("catalog cache purged")
}

// Len reports the number of cached movies.
func (c *Cache) Len() int {
	return c.movies.Len()
}

func readThrough[V any](
	ctx context.Context,
	lru *expirable.LRU[int64, V],
	ids []int64,
	fetch func(context.Context, []int64) (map[int64]V, error),
) (map[int64]V, error) {
	out := make(map[int64]V, len(ids))
	var missing []int64
	for _, id := range ids {
		if v, ok := lru.Get(id); ok {
			out[id] = v
			continue
		}
		missing = append(missing, id)
	}
	metrics.CacheHits.WithLabelValues(metricsLabel).Add(float64(len(ids) - len(missing)))
	if len(missing) == 0 {
		return out, nil
	}
	metrics.CacheMisses.WithLabelValues(metricsLabel).Add(float64(len(missing)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fetched, err := fetch(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, v := range fetched {
		lru.Add(id, v)
		out[id] = v
	}
	return out, nil
}

// ScanAll returns every movie of src in ascending ID order. Scanners are
// asked directly; Listers are read through Movies.
func ScanAll(ctx context.Context, src Source) ([]models.Movie, error) {
	if s, ok := src.(Scanner); ok {
		return s.AllMovies(ctx)
	}
	l, ok := src.(Lister)
	if !ok {
		return nil, fmt.Errorf("catalog source %T cannot list movies", src)
	}
	ids, err := l.MovieIDs(ctx)
	if err != nil {
		return nil, err
	}
	found, err := src.Movies(ctx, ids)
	if err != nil {
		return nil, err
	}
	slices.Sort(ids)
	out := make([]models.Movie, 0, len(found))
	for _, id := range ids {
		if m, ok := found[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// CollectionNames resolves collection names for the given movies, in the
// shape the community namer expects.
func CollectionNames(ctx context.Context, src Source, movies map[int64]models.Movie) (map[int64]string, error) {
	ids := CollectionIDs(movies)
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}
	cols, err := src.Collections(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(cols))
	for id, c := range cols {
		names[id] = c.Name
	}
	return names, nil
}
