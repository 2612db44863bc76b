// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/reelrank/reelrank/internal/models"
)

// Memory is a thread-safe in-memory Store.
type Memory struct {
	mu      sync.RWMutex
	users   map[int]models.User
	items   map[int]models.Item
	ratings map[int]map[int]models.Rating // userID -> itemID -> rating
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:   make(map[int]models.User),
		items:   make(map[int]models.Item),
		ratings: make(map[int]map[int]models.Rating),
	}
}

// GetUser returns the user with the given ID.
func (m *Memory) GetUser(_ context.Context, id int) (models.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

// ListUsers returns all users ordered by ID.
func (m *Memory) ListUsers(_ context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// GetItem returns the catalog item with the given ID.
func (m *Memory) GetItem(_ context.Context, id int) (models.Item, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.items[id]
	return it, ok, nil
}

// ListItems returns catalog items ordered by ID. A limit of zero or less
// returns the whole catalog; otherwise the 1-based page of limit items is
// sliced out, empty when past the end.
func (m *Memory) ListItems(_ context.Context, page, limit int) ([]models.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]models.Item, 0, len(m.items))
	for _, it := range m.items {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	if limit <= 0 {
		return items, nil
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return nil, nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], nil
}

// ListRatings returns every rating, ordered by user then item ID.
func (m *Memory) ListRatings(_ context.Context) ([]models.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ratings []models.Rating
	for _, byItem := range m.ratings {
		for _, r := range byItem {
			ratings = append(ratings, r)
		}
	}
	sort.Slice(ratings, func(i, j int) bool {
		if ratings[i].UserID != ratings[j].UserID {
			return ratings[i].UserID < ratings[j].UserID
		}
		return ratings[i].ItemID < ratings[j].ItemID
	})
	return ratings, nil
}

// UserRatings returns the ratings authored by one user, ordered by item ID.
func (m *Memory) UserRatings(_ context.Context, userID int) ([]models.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byItem := m.ratings[userID]
	ratings := make([]models.Rating, 0, len(byItem))
	for _, r := range byItem {
		ratings = append(ratings, r)
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i].ItemID < ratings[j].ItemID })
	return ratings, nil
}

// PutUser inserts or replaces a user.
func (m *Memory) PutUser(u models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

// PutItem inserts or replaces a catalog item.
func (m *Memory) PutItem(it models.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[it.ID] = it
}

// PutRating inserts or replaces a rating. A later rating of the same item
// by the same user overwrites the earlier one.
func (m *Memory) PutRating(r models.Rating) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byItem, ok := m.ratings[r.UserID]
	if !ok {
		byItem = make(map[int]models.Rating)
		m.ratings[r.UserID] = byItem
	}
	byItem[r.ItemID] = r
}

// DeleteItem removes a catalog item. Ratings referencing it are kept; the
// snapshot builder skips them as integrity gaps.
func (m *Memory) DeleteItem(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
}

// Counts returns the number of users, items and ratings held.
func (m *Memory) Counts() (users, items, ratings int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, byItem := range m.ratings {
		ratings += len(byItem)
	}
	return len(m.users), len(m.items), ratings
}
