// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package strategies

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/reelrank/reelrank/internal/metrics"
	"github.com/reelrank/reelrank/internal/recommend"
)

// Proposer supplies candidate item IDs for a subject from an upstream
// service. Satisfied by *proposer.Client.
type Proposer interface {
	Propose(ctx context.Context, subjectID, limit int) ([]int, error)
}

// External surfaces upstream proposals, scored locally against the
// subject's liked set with the content scorer.
//
// When the upstream is unavailable the strategy degrades to the content
// arm directly; if that too lacks signal, the engine's fallback chain
// finishes the job with popularity.
type External struct {
	proposer Proposer
	content  *Content
	logger   zerolog.Logger
}

var _ recommend.Strategy = (*External)(nil)

// NewExternal creates the strategy.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewExternal(p Proposer, content *Content, logger zerolog.Logger) *External {
	return &External{
		proposer: p,
		content:  content,
		logger:   logger.With().Str("strategy", NameExternal).Logger(),
	}
}

// Name implements recommend.Strategy.
func (e *External) Name() string { return NameExternal }

// Recommend implements recommend.Strategy.
func (e *External) Recommend(ctx context.Context, snap *recommend.Snapshot, subjectID, limit int) ([]recommend.ScoredItem, error) {
	liked := snap.Liked(subjectID)
	if len(liked) == 0 {
		return nil, fmt.Errorf("%w: user %d has no liked items to score proposals against",
			recommend.ErrInsufficientSignal, subjectID)
	}

	proposed, err := e.proposer.Propose(ctx, subjectID, limit)
	if err != nil {
		if recommend.ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		e.logger.Warn().Err(err).Int("user_id", subjectID).Msg("proposer unavailable, degrading to content")
		metrics.RecordFallback(NameExternal, NameContent)
		return e.content.Recommend(ctx, snap, subjectID, limit)
	}

	var items []recommend.ScoredItem
	for _, itemID := range proposed {
		item, ok := snap.Items[itemID]
		if !ok {
			// Proposal references an item this catalog has never seen.
			metrics.RecordIntegrityGap()
			e.logger.Warn().Int("item_id", itemID).Msg("skipping proposal for unknown catalog item")
			continue
		}
		if snap.HasRated(subjectID, itemID) {
			continue
		}

		score, tally := e.content.ScoreAgainst(snap, liked, item)
		if score <= 0 {
			continue
		}
		items = append(items, recommend.ScoredItem{
			Item:   item,
			Score:  score,
			Reason: "proposed by partner service; " + tally.reason(),
		})
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no usable proposals for user %d",
			recommend.ErrInsufficientSignal, subjectID)
	}

	return sortAndTruncate(items, limit), nil
}
