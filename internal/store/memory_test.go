// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package store

import (
	"context"
	"testing"

	"github.com/reelrank/reelrank/internal/models"
)

func TestMemoryPutAndGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	m.PutUser(models.User{ID: 1, Name: "ana"})
	m.PutItem(models.Item{ID: 10, Title: "Solaris", Year: 1972})
	m.PutRating(models.Rating{UserID: 1, ItemID: 10, Score: 5})

	if _, ok, _ := m.GetUser(ctx, 1); !ok {
		t.Error("expected user 1 to exist")
	}
	if _, ok, _ := m.GetUser(ctx, 2); ok {
		t.Error("did not expect user 2 to exist")
	}

	it, ok, _ := m.GetItem(ctx, 10)
	if !ok || it.Title != "Solaris" {
		t.Errorf("GetItem(10) = %+v, %v", it, ok)
	}

	ratings, err := m.UserRatings(ctx, 1)
	if err != nil || len(ratings) != 1 {
		t.Fatalf("UserRatings = %v, %v, want 1 rating", ratings, err)
	}
}

func TestMemoryRatingOverwrite(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.PutRating(models.Rating{UserID: 1, ItemID: 10, Score: 3})
	m.PutRating(models.Rating{UserID: 1, ItemID: 10, Score: 5, Favorable: true})

	ratings, _ := m.UserRatings(ctx, 1)
	if len(ratings) != 1 {
		t.Fatalf("expected overwrite to keep 1 rating, got %d", len(ratings))
	}
	if ratings[0].Score != 5 || !ratings[0].Favorable {
		t.Errorf("rating = %+v, want the later value", ratings[0])
	}
}

func TestMemoryListOrdering(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.PutItem(models.Item{ID: 3})
	m.PutItem(models.Item{ID: 1})
	m.PutItem(models.Item{ID: 2})
	m.PutRating(models.Rating{UserID: 2, ItemID: 1, Score: 4})
	m.PutRating(models.Rating{UserID: 1, ItemID: 2, Score: 4})
	m.PutRating(models.Rating{UserID: 1, ItemID: 1, Score: 4})

	items, _ := m.ListItems(ctx, 0, 0)
	for i := 1; i < len(items); i++ {
		if items[i-1].ID >= items[i].ID {
			t.Fatalf("items not ordered by ID: %v", items)
		}
	}

	ratings, _ := m.ListRatings(ctx)
	want := [][2]int{{1, 1}, {1, 2}, {2, 1}}
	if len(ratings) != len(want) {
		t.Fatalf("got %d ratings, want %d", len(ratings), len(want))
	}
	for i, r := range ratings {
		if r.UserID != want[i][0] || r.ItemID != want[i][1] {
			t.Errorf("ratings[%d] = (%d,%d), want (%d,%d)",
				i, r.UserID, r.ItemID, want[i][0], want[i][1])
		}
	}
}

func TestMemoryListItemsPaging(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for id := 1; id <= 5; id++ {
		m.PutItem(models.Item{ID: id})
	}

	tests := []struct {
		name    string
		page    int
		limit   int
		wantIDs []int
	}{
		{"no limit returns all", 0, 0, []int{1, 2, 3, 4, 5}},
		{"first page", 1, 2, []int{1, 2}},
		{"second page", 2, 2, []int{3, 4}},
		{"partial last page", 3, 2, []int{5}},
		{"past the end", 4, 2, nil},
		{"zero page means first", 0, 3, []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := m.ListItems(ctx, tt.page, tt.limit)
			if err != nil {
				t.Fatalf("ListItems failed: %v", err)
			}
			if len(items) != len(tt.wantIDs) {
				t.Fatalf("got %d items, want %d", len(items), len(tt.wantIDs))
			}
			for i, it := range items {
				if it.ID != tt.wantIDs[i] {
					t.Errorf("items[%d].ID = %d, want %d", i, it.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestLoadSeed(t *testing.T) {
	m := NewMemory()
	seed := []byte(`{
		"users": [{"id": 1, "name": "ana"}, {"id": 2, "name": "ben"}],
		"items": [{"id": 10, "title": "Stalker", "genres": ["sci-fi", "drama"], "director": "Tarkovsky", "year": 1979, "quality_score": 9.1}],
		"ratings": [{"user_id": 1, "item_id": 10, "score": 5, "favorable": true}]
	}`)

	if err := m.LoadSeed(seed); err != nil {
		t.Fatalf("LoadSeed failed: %v", err)
	}

	users, items, ratings := m.Counts()
	if users != 2 || items != 1 || ratings != 1 {
		t.Errorf("counts = (%d,%d,%d), want (2,1,1)", users, items, ratings)
	}

	it, ok, _ := m.GetItem(context.Background(), 10)
	if !ok || !it.HasQualityScore() {
		t.Errorf("item 10 = %+v, want quality score present", it)
	}
}

func TestLoadSeedRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad json", `{`},
		{"invalid user id", `{"users": [{"id": 0}]}`},
		{"invalid item id", `{"items": [{"id": -1}]}`},
		{"rating out of scale", `{"ratings": [{"user_id": 1, "item_id": 1, "score": 6}]}`},
		{"rating below scale", `{"ratings": [{"user_id": 1, "item_id": 1, "score": 0}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := NewMemory().LoadSeed([]byte(tt.data)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
