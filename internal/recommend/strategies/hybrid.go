// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package strategies

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/reelrank/reelrank/internal/recommend"
)

// HybridConfig tunes the fusion of the collaborative and content arms.
type HybridConfig struct {
	// CollaborativeWeight and ContentWeight are normalized before use.
	// Defaults: 0.6 and 0.4.
	CollaborativeWeight float64
	ContentWeight       float64
}

// DefaultHybridConfig returns production defaults.
func DefaultHybridConfig() HybridConfig {
	return HybridConfig{CollaborativeWeight: 0.6, ContentWeight: 0.4}
}

// Hybrid blends the collaborative and content strategies. Items surfaced
// by both arms sum their weighted scores, so cross-strategy consensus
// outranks a single strong signal.
type Hybrid struct {
	collaborative recommend.Strategy
	content       recommend.Strategy
	config        HybridConfig
}

var _ recommend.Strategy = (*Hybrid)(nil)

// NewHybrid composes two arms. Any recommend.Strategy pair works; in
// production they are *Collaborative and *Content.
func NewHybrid(collaborative, content recommend.Strategy, cfg HybridConfig) *Hybrid {
	if cfg.CollaborativeWeight <= 0 && cfg.ContentWeight <= 0 {
		cfg = DefaultHybridConfig()
	}
	return &Hybrid{collaborative: collaborative, content: content, config: cfg}
}

// Name implements recommend.Strategy.
func (h *Hybrid) Name() string { return NameHybrid }

// armResult carries one arm's outcome across its goroutine boundary.
type armResult struct {
	items []recommend.ScoredItem
	err   error
}

// Recommend implements recommend.Strategy.
//
// Each arm is asked for its weight's share of the limit (rounded up) and
// the arms run concurrently against the shared immutable snapshot. An arm
// failing with insufficient signal degrades the result to the other arm
// alone; both failing propagates the insufficiency to the fallback chain.
func (h *Hybrid) Recommend(ctx context.Context, snap *recommend.Snapshot, subjectID, limit int) ([]recommend.ScoredItem, error) {
	wc, wt := h.weights()
	collabLimit := int(math.Ceil(float64(limit) * wc))
	contentLimit := int(math.Ceil(float64(limit) * wt))

	collabCh := make(chan armResult, 1)
	contentCh := make(chan armResult, 1)

	go func() {
		items, err := h.collaborative.Recommend(ctx, snap, subjectID, collabLimit)
		collabCh <- armResult{items: items, err: err}
	}()
	go func() {
		items, err := h.content.Recommend(ctx, snap, subjectID, contentLimit)
		contentCh <- armResult{items: items, err: err}
	}()

	collab := <-collabCh
	content := <-contentCh

	if err := firstHardError(collab.err, content.err); err != nil {
		return nil, err
	}

	collabOut := collab.err == nil
	contentOut := content.err == nil
	switch {
	case collabOut && contentOut:
		return sortAndTruncate(h.merge(collab.items, content.items, wc, wt), limit), nil
	case collabOut:
		return sortAndTruncate(collab.items, limit), nil
	case contentOut:
		return sortAndTruncate(content.items, limit), nil
	default:
		return nil, fmt.Errorf("%w: neither hybrid arm can recommend for user %d",
			recommend.ErrInsufficientSignal, subjectID)
	}
}

// merge fuses the two arms' results with weighted scores, summing the
// contributions of items both arms surfaced.
func (h *Hybrid) merge(collab, content []recommend.ScoredItem, wc, wt float64) []recommend.ScoredItem {
	merged := make(map[int]recommend.ScoredItem, len(collab)+len(content))

	for _, si := range collab {
		si.Score = roundScore(si.Score * wc)
		merged[si.Item.ID] = si
	}
	for _, si := range content {
		weighted := roundScore(si.Score * wt)
		if existing, ok := merged[si.Item.ID]; ok {
			existing.Score = clampUnit(roundScore(existing.Score + weighted))
			existing.Reason = existing.Reason + "; " + si.Reason
			merged[si.Item.ID] = existing
			continue
		}
		si.Score = weighted
		merged[si.Item.ID] = si
	}

	items := make([]recommend.ScoredItem, 0, len(merged))
	for _, si := range merged {
		items = append(items, si)
	}
	return items
}

// roundScore trims float accumulation noise from weighted scores, so
// contributions meant to tie actually tie and the item-ID tie-break
// applies (0.4*0.75 must equal 0.6*0.5).
func roundScore(s float64) float64 {
	return math.Round(s*1e9) / 1e9
}

// weights returns the normalized arm weights.
func (h *Hybrid) weights() (collaborative, content float64) {
	sum := h.config.CollaborativeWeight + h.config.ContentWeight
	return h.config.CollaborativeWeight / sum, h.config.ContentWeight / sum
}

// firstHardError returns the first arm error that the fallback chain must
// not absorb (context cancellation, snapshot corruption).
func firstHardError(errs ...error) error {
	for _, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, recommend.ErrInsufficientSignal) || errors.Is(err, recommend.ErrUpstreamUnavailable) {
			continue
		}
		return err
	}
	return nil
}
