// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package cache provides thread-safe in-memory caching with TTL support.

It memoizes whole graph builds, which are expensive (community detection,
centrality and layout over every node) and identical for identical
requests until the underlying ratings change.

# Overview

The cache provides:
  - Thread-safe concurrent access (sync.RWMutex)
  - Typed values through generics
  - Time-to-live (TTL) expiration with lazy checks on Get and a periodic sweep
  - Per-user invalidation via UserKey and DeletePrefix
  - Hit/miss counters exported as cinegraph_cache_hits_total and
    cinegraph_cache_misses_total, labelled by cache name

# Usage Example

	graphs := cache.New[*models.Graph]("graph", 5*time.Minute)
	defer graphs.Close()

	key := cache.UserKey("graph", req.UserID, req)
	if g, ok := graphs.Get(key); ok {
	    return g, nil
	}
	g, err := builder.Build(ctx, req)
	if err == nil {
	    graphs.Set(key, g)
	}

	// After the user rates something new:
	graphs.DeletePrefix(cache.UserPrefix("graph", req.UserID))
*/
package cache
