// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/reelrank/reelrank/internal/metrics"
	"github.com/reelrank/reelrank/internal/models"
)

// Snapshot is an immutable view of the catalog and all ratings, built once
// per request. Strategies only ever read it, so concurrent requests never
// contend.
type Snapshot struct {
	// Items maps item ID to catalog entry.
	Items map[int]models.Item

	ratings   map[int]map[int]float64
	favorable map[int]map[int]bool
	liked     map[int][]int
	users     []int
}

// BuildSnapshot loads users, items and ratings from the source.
//
// Ratings that reference a missing catalog item are integrity gaps: they
// are skipped, logged and counted, never fatal.
func BuildSnapshot(ctx context.Context, source DataSource, logger zerolog.Logger) (*Snapshot, error) {
	users, err := source.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	items, err := source.ListItems(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	ratings, err := source.ListRatings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}

	snap := &Snapshot{
		Items:     make(map[int]models.Item, len(items)),
		ratings:   make(map[int]map[int]float64),
		favorable: make(map[int]map[int]bool),
		liked:     make(map[int][]int),
	}

	for _, it := range items {
		snap.Items[it.ID] = it
	}

	snap.users = make([]int, 0, len(users))
	for _, u := range users {
		snap.users = append(snap.users, u.ID)
	}
	sort.Ints(snap.users)

	for _, r := range ratings {
		if _, ok := snap.Items[r.ItemID]; !ok {
			metrics.RecordIntegrityGap()
			logger.Warn().
				Int("user_id", r.UserID).
				Int("item_id", r.ItemID).
				Msg("skipping rating for missing catalog item")
			continue
		}

		vec, ok := snap.ratings[r.UserID]
		if !ok {
			vec = make(map[int]float64)
			snap.ratings[r.UserID] = vec
		}
		vec[r.ItemID] = r.Score

		if r.Favorable {
			fav, ok := snap.favorable[r.UserID]
			if !ok {
				fav = make(map[int]bool)
				snap.favorable[r.UserID] = fav
			}
			fav[r.ItemID] = true
		}

		if r.Liked() {
			snap.liked[r.UserID] = append(snap.liked[r.UserID], r.ItemID)
		}
	}

	for userID := range snap.liked {
		sort.Ints(snap.liked[userID])
	}

	return snap, nil
}

// UserIDs returns all known user IDs in ascending order.
func (s *Snapshot) UserIDs() []int {
	return s.users
}

// Vector returns a user's item-to-score rating vector. The returned map is
// shared; callers must not mutate it.
func (s *Snapshot) Vector(userID int) map[int]float64 {
	return s.ratings[userID]
}

// HasRated reports whether the user has rated the item.
func (s *Snapshot) HasRated(userID, itemID int) bool {
	_, ok := s.ratings[userID][itemID]
	return ok
}

// Favorable reports whether the user marked the item favorable.
func (s *Snapshot) Favorable(userID, itemID int) bool {
	return s.favorable[userID][itemID]
}

// Liked returns the IDs of items the user liked (marked favorable with a
// score at or above the liked threshold), in ascending order.
func (s *Snapshot) Liked(userID int) []int {
	return s.liked[userID]
}
