// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package strategies

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/reelrank/reelrank/internal/models"
	"github.com/reelrank/reelrank/internal/recommend"
)

// PopularityConfig tunes the non-personalized fallback ranking.
type PopularityConfig struct {
	// StartScore is assigned to the top-ranked item; each following rank
	// drops by Step down to Floor. Defaults: 0.8, 0.05, 0.05.
	StartScore float64
	Step       float64
	Floor      float64
}

// DefaultPopularityConfig returns production defaults.
func DefaultPopularityConfig() PopularityConfig {
	return PopularityConfig{StartScore: 0.8, Step: 0.05, Floor: 0.05}
}

// Popularity ranks the catalog by editorial quality score. It terminates
// the fallback chain: it never reports insufficient signal, at worst it
// returns nothing.
type Popularity struct {
	config PopularityConfig
}

var (
	_ recommend.Strategy       = (*Popularity)(nil)
	_ recommend.CategoryRanker = (*Popularity)(nil)
)

// NewPopularity creates the strategy, filling zero config values with
// defaults.
func NewPopularity(cfg PopularityConfig) *Popularity {
	def := DefaultPopularityConfig()
	if cfg.StartScore <= 0 {
		cfg.StartScore = def.StartScore
	}
	if cfg.Step <= 0 {
		cfg.Step = def.Step
	}
	if cfg.Floor <= 0 {
		cfg.Floor = def.Floor
	}
	return &Popularity{config: cfg}
}

// Name implements recommend.Strategy.
func (p *Popularity) Name() string { return NamePopularity }

// Recommend implements recommend.Strategy.
//
// Items without a quality score are excluded, as are items the subject has
// already rated. Scores descend by rank so the ordering survives into the
// score field.
func (p *Popularity) Recommend(ctx context.Context, snap *recommend.Snapshot, subjectID, limit int) ([]recommend.ScoredItem, error) {
	if recommend.ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	candidates := make([]models.Item, 0, len(snap.Items))
	for itemID, item := range snap.Items {
		if !item.HasQualityScore() || snap.HasRated(subjectID, itemID) {
			continue
		}
		candidates = append(candidates, item)
	}

	return p.rank(candidates, limit, "popular highly-rated title"), nil
}

// Category implements recommend.CategoryRanker: the same quality ranking
// restricted to items carrying the given genre tag, with no subject and
// no rated-item exclusion. Genre matching is case-insensitive.
func (p *Popularity) Category(ctx context.Context, snap *recommend.Snapshot, category string, limit int) ([]recommend.ScoredItem, error) {
	if recommend.ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	candidates := make([]models.Item, 0, len(snap.Items))
	for _, item := range snap.Items {
		if !item.HasQualityScore() || !hasGenre(item, category) {
			continue
		}
		candidates = append(candidates, item)
	}

	reason := fmt.Sprintf("popular highly-rated %s title", strings.ToLower(category))
	return p.rank(candidates, limit, reason), nil
}

// rank orders candidates by quality score descending (ID ascending on
// ties), truncates to limit and assigns the rank-based score curve.
func (p *Popularity) rank(candidates []models.Item, limit int, reason string) []recommend.ScoredItem {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].QualityScore != candidates[j].QualityScore {
			return candidates[i].QualityScore > candidates[j].QualityScore
		}
		return candidates[i].ID < candidates[j].ID
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	items := make([]recommend.ScoredItem, len(candidates))
	for rank, item := range candidates {
		score := p.config.StartScore - p.config.Step*float64(rank)
		if score < p.config.Floor {
			score = p.config.Floor
		}
		items[rank] = recommend.ScoredItem{
			Item:   item,
			Score:  score,
			Reason: reason,
		}
	}
	return items
}

// hasGenre reports whether the item carries the genre tag, ignoring case.
func hasGenre(item models.Item, genre string) bool {
	for _, g := range item.Genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}
