// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package builder

import (
	"context"
	"time"

	"github.com/tomtom215/cinegraph/internal/cache"
	"github.com/tomtom215/cinegraph/internal/models"
)

// DefaultCacheTTL is how long a built graph is served from cache.
const DefaultCacheTTL = 5 * time.Minute

// cacheMethod namespaces graph entries in cache keys.
const cacheMethod = "graph"

// GraphBuilder is implemented by Builder.
type GraphBuilder interface {
	Build(ctx context.Context, req Request) (*models.Graph, error)
}

// Service memoizes builds per request.
type Service struct {
	builder GraphBuilder
	cache   *cache.Cache[*models.Graph]
}

// NewService wraps b with a cache whose entries live for ttl.
func NewService(b GraphBuilder, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{
		builder: b,
		cache:   cache.New[*models.Graph](cacheMethod, ttl),
	}
}

// Build returns a cached graph for req when one is live, otherwise builds
// and caches it. The cache keeps its own copy and every hit is a fresh
// clone with Metadata.Cached set, so callers may modify what they get.
func (s *Service) Build(ctx context.Context, req Request) (*models.Graph, error) {
	key := cache.UserKey(cacheMethod, req.UserID, req)
	if g, ok := s.cache.Get(key); ok {
		hit := g.Clone()
		hit.Metadata.Cached = true
		return hit, nil
	}

	g, err := s.builder.Build(ctx, req)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, g.Clone())
	return g, nil
}

// Invalidate drops every cached graph requested by userID.
func (s *Service) Invalidate(userID int64) int {
	return s.cache.DeletePrefix(cache.UserPrefix(cacheMethod, userID))
}

// Clear drops every cached graph.
func (s *Service) Clear() {
	s.cache.Clear()
}

// Stats returns cache statistics.
func (s *Service) Stats() cache.Stats {
	return s.cache.GetStats()
}

// Close stops the cache cleanup goroutine.
func (s *Service) Close() {
	s.cache.Close()
}
