// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

// Package strategies implements the recommendation strategies registered
// with the engine: collaborative, content, hybrid, popularity and the
// external proposer bridge.
package strategies

import (
	"sort"

	"github.com/reelrank/reelrank/internal/recommend"
)

// Strategy names as registered with the engine.
const (
	NameCollaborative = "collaborative"
	NameContent       = "content"
	NameHybrid        = "hybrid"
	NamePopularity    = "popularity"
	NameExternal      = "external"
)

// sortAndTruncate orders items by score descending, breaking ties by item
// ID ascending so output is deterministic, then truncates to limit.
func sortAndTruncate(items []recommend.ScoredItem, limit int) []recommend.ScoredItem {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Item.ID < items[j].Item.ID
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// clampUnit clamps a score into [0, 1].
func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
