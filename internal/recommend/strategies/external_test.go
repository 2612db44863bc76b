// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package strategies

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/reelrank/reelrank/internal/models"
	"github.com/reelrank/reelrank/internal/recommend"
)

// proposerFunc adapts a function to the Proposer interface.
type proposerFunc func(ctx context.Context, subjectID, limit int) ([]int, error)

func (f proposerFunc) Propose(ctx context.Context, subjectID, limit int) ([]int, error) {
	return f(ctx, subjectID, limit)
}

func fixedProposals(ids []int, err error) Proposer {
	return proposerFunc(func(context.Context, int, int) ([]int, error) {
		return ids, err
	})
}

// externalSnap gives user 1 one liked sci-fi title and a catalog with one
// good match (2) and one unrelated title (3).
func externalSnap(t *testing.T) *recommend.Snapshot {
	t.Helper()
	items := []models.Item{
		{ID: 1, Genres: []string{"sci-fi", "drama"}, Director: "kubrick", Year: 1968, QualityScore: 9.0},
		{ID: 2, Genres: []string{"drama"}, Director: "kubrick", Year: 1970, QualityScore: 8.5},
		{ID: 3, Genres: []string{"western"}, Director: "leone", Year: 1920, QualityScore: 4.0},
	}
	return buildSnap(t, items, []models.Rating{
		{UserID: 1, ItemID: 1, Score: 5, Favorable: true},
	})
}

func newExternal(p Proposer) *External {
	return NewExternal(p, NewContent(DefaultContentConfig()), zerolog.Nop())
}

func TestExternalScoresProposalsLocally(t *testing.T) {
	snap := externalSnap(t)
	e := newExternal(fixedProposals([]int{2}, nil))

	got, err := e.Recommend(context.Background(), snap, 1, 10)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	if len(got) != 1 || got[0].Item.ID != 2 {
		t.Fatalf("items = %v, want just item 2", got)
	}
	if got[0].Score <= 0.7 || got[0].Score > 1 {
		t.Errorf("score = %v, want the local content score", got[0].Score)
	}
	if !strings.HasPrefix(got[0].Reason, "proposed by partner service; ") {
		t.Errorf("reason = %q", got[0].Reason)
	}
}

func TestExternalSkipsUnknownAndRatedProposals(t *testing.T) {
	snap := externalSnap(t)
	// 999 is not in the catalog, 1 is already rated; only 2 survives.
	e := newExternal(fixedProposals([]int{999, 1, 2}, nil))

	got, err := e.Recommend(context.Background(), snap, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Item.ID != 2 {
		t.Errorf("items = %v, want just item 2", got)
	}
}

func TestExternalDegradesToContentOnUpstreamFailure(t *testing.T) {
	snap := externalSnap(t)
	e := newExternal(fixedProposals(nil, errors.New("connection refused")))

	got, err := e.Recommend(context.Background(), snap, 1, 10)
	if err != nil {
		t.Fatalf("upstream failure must degrade, not fail: %v", err)
	}

	// The content arm serves and its reason carries no proposal prefix.
	if len(got) != 1 || got[0].Item.ID != 2 {
		t.Fatalf("items = %v, want content arm result", got)
	}
	if strings.HasPrefix(got[0].Reason, "proposed by partner service") {
		t.Errorf("reason = %q, want a plain content justification", got[0].Reason)
	}
}

func TestExternalNoLikedItems(t *testing.T) {
	snap := buildSnap(t,
		[]models.Item{{ID: 1, Genres: []string{"drama"}}},
		[]models.Rating{{UserID: 1, ItemID: 1, Score: 2}})
	e := newExternal(fixedProposals([]int{1}, nil))

	if _, err := e.Recommend(context.Background(), snap, 1, 10); !errors.Is(err, recommend.ErrInsufficientSignal) {
		t.Errorf("err = %v, want ErrInsufficientSignal", err)
	}
}

func TestExternalNoUsableProposals(t *testing.T) {
	snap := externalSnap(t)
	// Item 3 shares nothing with the liked set, so its local score is 0.
	e := newExternal(fixedProposals([]int{3, 999}, nil))

	if _, err := e.Recommend(context.Background(), snap, 1, 10); !errors.Is(err, recommend.ErrInsufficientSignal) {
		t.Errorf("err = %v, want ErrInsufficientSignal", err)
	}
}

func TestExternalContextCancellation(t *testing.T) {
	snap := externalSnap(t)
	e := newExternal(proposerFunc(func(ctx context.Context, _, _ int) ([]int, error) {
		return nil, ctx.Err()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Recommend(ctx, snap, 1, 10); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled, not a content degrade", err)
	}
}
