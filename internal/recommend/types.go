// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

// Package recommend implements the recommendation engine: ratings
// snapshots, user similarity, the strategy registry and the fallback
// chain, with results cached per subject and taste fingerprint.
package recommend

import (
	"context"
	"time"

	"github.com/reelrank/reelrank/internal/models"
)

// ScoredItem is a recommended catalog item with its score in [0, 1] and a
// human-readable justification.
type ScoredItem struct {
	Item   models.Item `json:"item"`
	Score  float64     `json:"score"`
	Reason string      `json:"reason,omitempty"`
}

// Request asks for recommendations for one subject.
type Request struct {
	UserID   int
	Strategy string
	Limit    int
}

// Response carries the outcome of one recommendation request.
type Response struct {
	UserID int `json:"user_id"`

	// Strategy is the strategy that was requested.
	Strategy string `json:"strategy"`

	// Served is the strategy that actually produced the results; it
	// differs from Strategy when the fallback chain engaged.
	Served string `json:"served"`

	Items       []ScoredItem  `json:"items"`
	FromCache   bool          `json:"from_cache"`
	Fingerprint string        `json:"fingerprint"`
	Duration    time.Duration `json:"-"`
}

// CategoryResponse carries the outcome of one category ranking request.
type CategoryResponse struct {
	Category  string        `json:"category"`
	Items     []ScoredItem  `json:"items"`
	FromCache bool          `json:"from_cache"`
	Duration  time.Duration `json:"-"`
}

// Strategy produces scored recommendations for a subject from an immutable
// ratings snapshot. Implementations must be safe for concurrent use and
// must not retain the snapshot.
type Strategy interface {
	Name() string
	Recommend(ctx context.Context, snap *Snapshot, subjectID, limit int) ([]ScoredItem, error)
}

// CategoryRanker ranks one category's slice of the catalog without any
// personalization. Satisfied by *strategies.Popularity.
type CategoryRanker interface {
	Category(ctx context.Context, snap *Snapshot, category string, limit int) ([]ScoredItem, error)
}

// DataSource is the engine's read surface over users, items and ratings.
// Satisfied by *store.Memory.
type DataSource interface {
	GetUser(ctx context.Context, id int) (models.User, bool, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListItems(ctx context.Context, page, limit int) ([]models.Item, error)
	ListRatings(ctx context.Context) ([]models.Rating, error)
}

// ResultCache is the engine's view of the result cache. Satisfied by
// *cache.Cache.
type ResultCache interface {
	// GetOrCompute returns the cached value for key, or runs compute once
	// (coalescing concurrent callers) and caches its value for the TTL it
	// returns. The bool reports whether the value came from cache.
	GetOrCompute(ctx context.Context, key string, compute func() (interface{}, time.Duration, error)) (interface{}, bool, error)

	// DeletePrefix removes all entries whose key starts with prefix and
	// returns how many were removed.
	DeletePrefix(prefix string) int

	Clear()
}

// ContextCancelled reports whether the context is done.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
