// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

// Package cache provides the thread-safe in-memory result cache with
// per-entry TTLs, prefix invalidation and single-flight computation.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Entry is a cached value with its expiration.
type Entry struct {
	Data      interface{}
	ExpiresAt time.Time
}

// flight tracks one in-progress computation so concurrent callers for the
// same key wait instead of recomputing.
type flight struct {
	done  chan struct{}
	value interface{}
	err   error
}

// Cache is a thread-safe in-memory cache with TTL support.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	flights map[string]*flight
	stats   Stats
}

// Stats tracks cache performance counters.
type Stats struct {
	mu          sync.RWMutex
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// StatsSnapshot is a lock-free copy of Stats for reporting.
type StatsSnapshot struct {
	Hits        int64     `json:"hits"`
	Misses      int64     `json:"misses"`
	Evictions   int64     `json:"evictions"`
	TotalKeys   int64     `json:"total_keys"`
	HitRate     float64   `json:"hit_rate"`
	LastCleanup time.Time `json:"last_cleanup"`
}

// New creates a cache and starts a background goroutine that sweeps
// expired entries every cleanupInterval (5 minutes when zero). The
// goroutine runs for the cache lifetime.
func New(cleanupInterval time.Duration) *Cache {
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}

	c := &Cache{
		entries: make(map[string]Entry),
		flights: make(map[string]*flight),
		stats:   Stats{LastCleanup: time.Now()},
	}

	go c.cleanupLoop(cleanupInterval)

	return c
}

// Get retrieves a value by key. Expired entries are removed on access and
// count as misses.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.recordMiss()
		return nil, false
	}

	if time.Now().After(entry.ExpiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		c.recordMiss()
		c.recordEvictions(1)
		return nil, false
	}

	c.recordHit()
	return entry.Data, true
}

// SetWithTTL stores a value with a custom TTL, overwriting any existing
// entry under the same key.
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = Entry{Data: value, ExpiresAt: time.Now().Add(ttl)}
	total := int64(len(c.entries))
	c.mu.Unlock()

	c.setTotalKeys(total)
}

// GetOrCompute returns the cached value for key, or runs compute exactly
// once while concurrent callers for the same key wait for its result. The
// computed value is cached for the TTL compute returns; compute errors are
// not cached. The bool reports whether the caller was served without
// computing.
func (c *Cache) GetOrCompute(ctx context.Context, key string, compute func() (interface{}, time.Duration, error)) (interface{}, bool, error) {
	if value, ok := c.Get(key); ok {
		return value, true, nil
	}

	c.mu.Lock()
	// Re-check under the write lock: another flight may have landed
	// between the read miss and here.
	if entry, ok := c.entries[key]; ok && time.Now().Before(entry.ExpiresAt) {
		c.mu.Unlock()
		c.recordHit()
		return entry.Data, true, nil
	}
	if f, ok := c.flights[key]; ok {
		c.mu.Unlock()
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-f.done:
			if f.err != nil {
				return nil, false, f.err
			}
			c.recordHit()
			return f.value, true, nil
		}
	}

	f := &flight{done: make(chan struct{})}
	c.flights[key] = f
	c.mu.Unlock()

	value, ttl, err := compute()

	c.mu.Lock()
	delete(c.flights, key)
	var total int64
	if err == nil {
		c.entries[key] = Entry{Data: value, ExpiresAt: time.Now().Add(ttl)}
	}
	total = int64(len(c.entries))
	c.mu.Unlock()
	c.setTotalKeys(total)

	f.value, f.err = value, err
	close(f.done)

	return value, false, err
}

// Delete removes a single entry.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()

	c.recordEvictions(1)
}

// DeletePrefix removes every entry whose key starts with prefix and
// returns how many were removed.
func (c *Cache) DeletePrefix(prefix string) int {
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

	c.recordEvictions(int64(removed))
	c.setTotalKeys(total)
	return removed
}

// Clear removes all entries in a single map swap.
func (c *Cache) Clear() {
	c.mu.Lock()
	evicted := int64(len(c.entries))
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	c.recordEvictions(evicted)
	c.setTotalKeys(0)
}

// GetStats returns a snapshot of the cache counters.
func (c *Cache) GetStats() StatsSnapshot {
	c.stats.mu.RLock()
	defer c.stats.mu.RUnlock()

	snap := StatsSnapshot{
		Hits:        c.stats.Hits,
		Misses:      c.stats.Misses,
		Evictions:   c.stats.Evictions,
		TotalKeys:   c.stats.TotalKeys,
		LastCleanup: c.stats.LastCleanup,
	}
	if total := snap.Hits + snap.Misses; total > 0 {
		snap.HitRate = float64(snap.Hits) / float64(total) * 100.0
	}
	return snap
}

// cleanupLoop periodically removes expired entries.
func (c *Cache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

// cleanup removes all expired entries.
func (c *Cache) cleanup() {
	now := time.Now()

	c.mu.Lock()
	evicted := int64(0)
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			evicted++
		}
	}
	total := int64(len(c.entries))
	c.mu.Unlock()

	c.stats.mu.Lock()
	c.stats.Evictions += evicted
	c.stats.TotalKeys = total
	c.stats.LastCleanup = now
	c.stats.mu.Unlock()
}

func (c *Cache) recordHit() {
	c.stats.mu.Lock()
	c.stats.Hits++
	c.stats.mu.Unlock()
}

func (c *Cache) recordMiss() {
	c.stats.mu.Lock()
	c.stats.Misses++
	c.stats.mu.Unlock()
}

func (c *Cache) recordEvictions(n int64) {
	c.stats.mu.Lock()
	c.stats.Evictions += n
	c.stats.mu.Unlock()
}

func (c *Cache) setTotalKeys(n int64) {
	c.stats.mu.Lock()
	c.stats.TotalKeys = n
	c.stats.mu.Unlock()
}
