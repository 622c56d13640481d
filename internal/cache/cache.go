// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package cache

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinegraph/internal/metrics"
)

// DefaultCleanupInterval is how often expired entries are swept.
const DefaultCleanupInterval = 5 * time.Minute

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a thread-safe in-memory cache with TTL support. Hits and misses
// are reported to the cinegraph_cache_* metrics under the cache name.
type Cache[V any] struct {
	name    string
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	stats   Stats

	stop     chan struct{}
	stopOnce sync.Once
}

// Stats tracks cache performance.
type Stats struct {
	mu          sync.RWMutex
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// New creates a cache whose entries expire after ttl. A background
// goroutine sweeps expired entries until Close is called.
//
// Example:
//
//	graphs := cache.New[*models.Graph]("graph", 5*time.Minute)
//	defer graphs.Close()
func New[V any](name string, ttl time.Duration) *Cache[V] {
	c := &Cache[V]{
		name:    name,
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		stats:   Stats{LastCleanup: time.Now()},
		stop:    make(chan struct{}),
	}
	go c.cleanupLoop(DefaultCleanupInterval)
	return c
}

// Name returns the metrics label of the cache.
func (c *Cache[V]) Name() string {
	return c.name
}

// Get returns the value stored under key. Expired entries are removed and
// count as misses.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.RLock()
	e, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.recordMiss()
		return zero, false
	}

	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		// Only delete if nobody refreshed the entry in between.
		if cur, ok := c.entries[key]; ok && !time.Now().Before(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		c.recordMiss()
		c.recordEviction()
		return zero, false
	}

	c.recordHit()
	return e.value, true
}

// Set stores value with the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value with a custom TTL.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, expiresAt: time.Now().Add(ttl)}

	c.stats.mu.Lock()
	c.stats.TotalKeys = int64(len(c.entries))
	c.stats.mu.Unlock()
}

// Delete removes key.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()

	c.recordEviction()
}

// DeletePrefix removes every key starting with prefix and returns how many
// were removed.
func (c *Cache[V]) DeletePrefix(prefix string) int {
	c.mu.Lock()
	removed := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			removed++
		}
	}
	total := int64(len(c.entries))
	c.mu.Unlock()

	c.stats.mu.Lock()
	c.stats.Evictions += int64(removed)
	c.stats.TotalKeys = total
	c.stats.mu.Unlock()
	return removed
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	evictions := int64(len(c.entries))
	c.entries = make(map[string]entry[V])
	c.mu.Unlock()

	c.stats.mu.Lock()
	c.stats.Evictions += evictions
	c.stats.TotalKeys = 0
	c.stats.mu.Unlock()
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetStats returns a snapshot of the cache statistics.
func (c *Cache[V]) GetStats() Stats {
	c.stats.mu.RLock()
	defer c.stats.mu.RUnlock()

	return Stats{
		Hits:        c.stats.Hits,
		Misses:      c.stats.Misses,
		Evictions:   c.stats.Evictions,
		TotalKeys:   c.stats.TotalKeys,
		LastCleanup: c.stats.LastCleanup,
	}
}

// HitRate returns the cache hit rate as a percentage.
func (c *Cache[V]) HitRate() float64 {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

// Close stops the background sweeper. The cache stays usable.
func (c *Cache[V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache[V]) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

// cleanup removes all expired entries.
func (c *Cache[V]) cleanup() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	evictions := int64(0)
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			evictions++
		}
	}

	c.stats.mu.Lock()
	c.stats.Evictions += evictions
	c.stats.TotalKeys = int64(len(c.entries))
	c.stats.LastCleanup = now
	c.stats.mu.Unlock()
}

func (c *Cache[V]) recordHit() {
	c.stats.mu.Lock()
	c.stats.Hits++
	c.stats.mu.Unlock()
	metrics.CacheHits.WithLabelValues(c.name).Inc()
}

func (c *Cache[V]) recordMiss() {
	c.stats.mu.Lock()
	c.stats.Misses++
	c.stats.mu.Unlock()
	metrics.CacheMisses.WithLabelValues(c.name).Inc()
}

func (c *Cache[V]) recordEviction() {
	c.stats.mu.Lock()
	c.stats.Evictions++
	c.stats.mu.Unlock()
}

// GenerateKey creates a cache key from the method name and parameters.
func GenerateKey(method string, params any) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", method, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", method, hash[:16])
}

// UserPrefix is the key prefix shared by every UserKey of userID.
func UserPrefix(method string, userID int64) string {
	return fmt.Sprintf("%s:u%d:", method, userID)
}

// UserKey is GenerateKey scoped to a user so the user's entries can be
// dropped together with DeletePrefix(UserPrefix(method, userID)).
func UserKey(method string, userID int64, params any) string {
	return GenerateKey(fmt.Sprintf("%s:u%d", method, userID), params)
}
