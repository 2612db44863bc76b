// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package strategies

import (
	"context"
	"math"
	"testing"

	"github.com/reelrank/reelrank/internal/models"
)

func TestPopularityRanking(t *testing.T) {
	items := []models.Item{
		{ID: 1, QualityScore: 8.0},
		{ID: 2, QualityScore: 9.5},
		{ID: 3, QualityScore: 9.0},
		{ID: 4, QualityScore: 9.0}, // ties with 3, loses on ID
		{ID: 5},                    // no quality score, excluded
	}
	snap := buildSnap(t, items, []models.Rating{{UserID: 1, ItemID: 1, Score: 3}})

	p := NewPopularity(DefaultPopularityConfig())
	got, err := p.Recommend(context.Background(), snap, 1, 10)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	// Item 1 is rated by the subject and item 5 has no score.
	wantOrder := []int{2, 3, 4}
	if len(got) != len(wantOrder) {
		t.Fatalf("items = %v, want %v", got, wantOrder)
	}
	for i, want := range wantOrder {
		if got[i].Item.ID != want {
			t.Errorf("rank %d = item %d, want %d", i, got[i].Item.ID, want)
		}
	}

	// Rank ladder: 0.8, 0.75, 0.70.
	for i, want := range []float64{0.8, 0.75, 0.70} {
		if math.Abs(got[i].Score-want) > 1e-9 {
			t.Errorf("rank %d score = %v, want %v", i, got[i].Score, want)
		}
	}
	if got[0].Reason != "popular highly-rated title" {
		t.Errorf("reason = %q", got[0].Reason)
	}
}

func TestPopularityScoreFloor(t *testing.T) {
	items := []models.Item{
		{ID: 1, QualityScore: 9},
		{ID: 2, QualityScore: 8},
		{ID: 3, QualityScore: 7},
	}
	snap := buildSnap(t, items, []models.Rating{{UserID: 9, ItemID: 1, Score: 3}})

	p := NewPopularity(PopularityConfig{StartScore: 0.1, Step: 0.05, Floor: 0.05})
	got, err := p.Recommend(context.Background(), snap, 1, 10)
	if err != nil {
		t.Fatal(err)
	}

	// 0.1, 0.05, then clamped at the floor instead of 0.
	for i, want := range []float64{0.1, 0.05, 0.05} {
		if math.Abs(got[i].Score-want) > 1e-9 {
			t.Errorf("rank %d score = %v, want %v", i, got[i].Score, want)
		}
	}
}

func TestPopularityHonorsLimit(t *testing.T) {
	items := []models.Item{
		{ID: 1, QualityScore: 9},
		{ID: 2, QualityScore: 8},
		{ID: 3, QualityScore: 7},
	}
	snap := buildSnap(t, items, []models.Rating{{UserID: 9, ItemID: 1, Score: 3}})

	p := NewPopularity(DefaultPopularityConfig())
	got, err := p.Recommend(context.Background(), snap, 1, 2)
	if err != nil || len(got) != 2 {
		t.Fatalf("got %v, %v, want 2 items", got, err)
	}
}

func TestPopularityEmptyCatalogIsNotAnError(t *testing.T) {
	// Nothing carries a quality score: the fallback chain's terminal
	// strategy must return empty, never insufficient signal.
	items := []models.Item{{ID: 1}, {ID: 2}}
	snap := buildSnap(t, items, []models.Rating{{UserID: 1, ItemID: 1, Score: 3}})

	p := NewPopularity(DefaultPopularityConfig())
	got, err := p.Recommend(context.Background(), snap, 1, 10)
	if err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	if len(got) != 0 {
		t.Errorf("items = %v, want none", got)
	}
}

func categoryCatalog() []models.Item {
	return []models.Item{
		{ID: 1, Genres: []string{"sci-fi", "drama"}, QualityScore: 9.0},
		{ID: 2, Genres: []string{"Sci-Fi"}, QualityScore: 9.5},
		{ID: 3, Genres: []string{"western"}, QualityScore: 9.8},
		{ID: 4, Genres: []string{"sci-fi"}}, // no quality score, excluded
	}
}

func TestPopularityCategoryRanking(t *testing.T) {
	snap := buildSnap(t, categoryCatalog(), []models.Rating{{UserID: 1, ItemID: 2, Score: 5}})

	p := NewPopularity(DefaultPopularityConfig())
	got, err := p.Category(context.Background(), snap, "sci-fi", 10)
	if err != nil {
		t.Fatalf("Category failed: %v", err)
	}

	// Genre matching ignores case, so item 2 qualifies and outranks item 1
	// on quality; no subject is involved, so item 2 being rated by user 1
	// changes nothing. The western and the unscored title stay out.
	wantOrder := []int{2, 1}
	if len(got) != len(wantOrder) {
		t.Fatalf("items = %v, want IDs %v", got, wantOrder)
	}
	for i, want := range wantOrder {
		if got[i].Item.ID != want {
			t.Errorf("rank %d = item %d, want %d", i, got[i].Item.ID, want)
		}
	}
	for i, want := range []float64{0.8, 0.75} {
		if math.Abs(got[i].Score-want) > 1e-9 {
			t.Errorf("rank %d score = %v, want %v", i, got[i].Score, want)
		}
	}
	if got[0].Reason != "popular highly-rated sci-fi title" {
		t.Errorf("reason = %q", got[0].Reason)
	}
}

func TestPopularityCategoryHonorsLimit(t *testing.T) {
	snap := buildSnap(t, categoryCatalog(), []models.Rating{{UserID: 1, ItemID: 1, Score: 3}})

	p := NewPopularity(DefaultPopularityConfig())
	got, err := p.Category(context.Background(), snap, "sci-fi", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Item.ID != 2 {
		t.Errorf("items = %v, want just item 2", got)
	}
}

func TestPopularityCategoryUnknownGenreIsEmpty(t *testing.T) {
	snap := buildSnap(t, categoryCatalog(), []models.Rating{{UserID: 1, ItemID: 1, Score: 3}})

	p := NewPopularity(DefaultPopularityConfig())
	got, err := p.Category(context.Background(), snap, "musical", 10)
	if err != nil {
		t.Fatalf("unknown genre must be an empty success: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("items = %v, want none", got)
	}
}
