// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package strategies

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/reelrank/reelrank/internal/models"
	"github.com/reelrank/reelrank/internal/recommend"
)

// fixtureSource is a static DataSource for building test snapshots.
type fixtureSource struct {
	users   []models.User
	items   []models.Item
	ratings []models.Rating
}

func (f *fixtureSource) GetUser(_ context.Context, id int) (models.User, bool, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}

func (f *fixtureSource) ListUsers(_ context.Context) ([]models.User, error) { return f.users, nil }

func (f *fixtureSource) ListItems(_ context.Context, _, _ int) ([]models.Item, error) {
	return f.items, nil
}

func (f *fixtureSource) ListRatings(_ context.Context) ([]models.Rating, error) { return f.ratings, nil }

func buildSnap(t *testing.T, items []models.Item, ratings []models.Rating) *recommend.Snapshot {
	t.Helper()

	seen := make(map[int]bool)
	var users []models.User
	for _, r := range ratings {
		if !seen[r.UserID] {
			seen[r.UserID] = true
			users = append(users, models.User{ID: r.UserID})
		}
	}

	snap, err := recommend.BuildSnapshot(context.Background(),
		&fixtureSource{users: users, items: items, ratings: ratings}, zerolog.Nop())
	if err != nil {
		t.Fatalf("BuildSnapshot failed: %v", err)
	}
	return snap
}

// stubStrategy returns canned results, for composing hybrid and external
// tests.
type stubStrategy struct {
	name  string
	items []recommend.ScoredItem
	err   error
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Recommend(_ context.Context, _ *recommend.Snapshot, _ int, limit int) ([]recommend.ScoredItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	items := s.items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func TestSortAndTruncateDeterministic(t *testing.T) {
	items := []recommend.ScoredItem{
		{Item: models.Item{ID: 3}, Score: 0.5},
		{Item: models.Item{ID: 1}, Score: 0.5},
		{Item: models.Item{ID: 2}, Score: 0.9},
	}

	got := sortAndTruncate(items, 2)
	if len(got) != 2 || got[0].Item.ID != 2 || got[1].Item.ID != 1 {
		t.Errorf("sortAndTruncate = %v, want [2 1] (ties break by item ID ascending)", got)
	}
}

func TestClampUnit(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{1.7, 1},
	}
	for _, tt := range tests {
		if got := clampUnit(tt.in); got != tt.want {
			t.Errorf("clampUnit(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
