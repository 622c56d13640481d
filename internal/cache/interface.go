// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package cache

import "time"

// Cacher is the cache surface the graph service depends on. Tests can
// substitute their own implementation.
type Cacher[V any] interface {
	// Get retrieves a value from the cache.
	// Returns the value and true if found and not expired.
	Get(key string) (V, bool)

	// Set stores a value in the cache with the default TTL.
	Set(key string, value V)

	// SetWithTTL stores a value with a custom TTL.
	SetWithTTL(key string, value V, ttl time.Duration)

	// Delete removes a value from the cache.
	Delete(key string)

	// DeletePrefix removes every key with the given prefix.
	DeletePrefix(prefix string) int

	// Clear removes all entries from the cache.
	Clear()

	// GetStats returns cache statistics.
	GetStats() Stats
}

// Verify interface implementation at compile time.
var _ Cacher[int] = (*Cache[int])(nil)
