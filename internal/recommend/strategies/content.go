// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package strategies

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/reelrank/reelrank/internal/models"
	"github.com/reelrank/reelrank/internal/recommend"
)

// ContentConfig tunes the attribute-matching strategy.
type ContentConfig struct {
	// GenreWeight scales the genre Jaccard overlap. Default: 0.5
	GenreWeight float64

	// CreatorWeight is added when both items share a director. Default: 0.2
	CreatorWeight float64

	// EraCloseWeight applies within EraCloseYears of release, EraNearWeight
	// within EraNearYears. Defaults: 0.15 within 5 years, 0.10 within 15.
	EraCloseWeight float64
	EraNearWeight  float64
	EraCloseYears  int
	EraNearYears   int

	// QualityWeight is added when both items carry quality scores no more
	// than QualityDelta apart. Defaults: 0.15 within 1.0.
	QualityWeight float64
	QualityDelta  float64
}

// DefaultContentConfig returns production defaults.
func DefaultContentConfig() ContentConfig {
	return ContentConfig{
		GenreWeight:    0.5,
		CreatorWeight:  0.2,
		EraCloseWeight: 0.15,
		EraNearWeight:  0.10,
		EraCloseYears:  5,
		EraNearYears:   15,
		QualityWeight:  0.15,
		QualityDelta:   1.0,
	}
}

// Content recommends items whose attributes resemble the subject's liked
// titles.
type Content struct {
	config ContentConfig
}

var _ recommend.Strategy = (*Content)(nil)

// NewContent creates the strategy, filling zero config values with
// defaults.
func NewContent(cfg ContentConfig) *Content {
	def := DefaultContentConfig()
	if cfg.GenreWeight == 0 {
		cfg.GenreWeight = def.GenreWeight
	}
	if cfg.CreatorWeight == 0 {
		cfg.CreatorWeight = def.CreatorWeight
	}
	if cfg.EraCloseWeight == 0 {
		cfg.EraCloseWeight = def.EraCloseWeight
	}
	if cfg.EraNearWeight == 0 {
		cfg.EraNearWeight = def.EraNearWeight
	}
	if cfg.EraCloseYears == 0 {
		cfg.EraCloseYears = def.EraCloseYears
	}
	if cfg.EraNearYears == 0 {
		cfg.EraNearYears = def.EraNearYears
	}
	if cfg.QualityWeight == 0 {
		cfg.QualityWeight = def.QualityWeight
	}
	if cfg.QualityDelta == 0 {
		cfg.QualityDelta = def.QualityDelta
	}
	return &Content{config: cfg}
}

// Name implements recommend.Strategy.
func (c *Content) Name() string { return NameContent }

// signalTally accumulates per-signal contributions across a liked set so
// the justification can name the strongest ones.
type signalTally struct {
	genres  float64
	creator float64
	era     float64
	quality float64
}

func (t *signalTally) add(o signalTally) {
	t.genres += o.genres
	t.creator += o.creator
	t.era += o.era
	t.quality += o.quality
}

// reason names the contributing signals, strongest first.
func (t *signalTally) reason() string {
	type labelled struct {
		label  string
		weight float64
	}
	signals := []labelled{
		{"shared genres", t.genres},
		{"same director", t.creator},
		{"similar era", t.era},
		{"matching quality", t.quality},
	}
	sort.SliceStable(signals, func(i, j int) bool { return signals[i].weight > signals[j].weight })

	var parts []string
	for _, s := range signals {
		if s.weight > 0 {
			parts = append(parts, s.label)
		}
	}
	if len(parts) == 0 {
		return "similar to titles you liked"
	}
	return fmt.Sprintf("similar to titles you liked (%s)", strings.Join(parts, ", "))
}

// Recommend implements recommend.Strategy.
//
// Each unrated candidate is scored against every liked item and the pair
// scores are averaged, so one strong match cannot dominate a profile the
// rest of the liked set contradicts.
func (c *Content) Recommend(ctx context.Context, snap *recommend.Snapshot, subjectID, limit int) ([]recommend.ScoredItem, error) {
	liked := snap.Liked(subjectID)
	if len(liked) == 0 {
		return nil, fmt.Errorf("%w: user %d has no liked items to profile",
			recommend.ErrInsufficientSignal, subjectID)
	}

	var items []recommend.ScoredItem
	for itemID, item := range snap.Items {
		if recommend.ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		if snap.HasRated(subjectID, itemID) {
			continue
		}

		score, tally := c.ScoreAgainst(snap, liked, item)
		if score <= 0 {
			continue
		}

		items = append(items, recommend.ScoredItem{
			Item:   item,
			Score:  score,
			Reason: tally.reason(),
		})
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no catalog items resemble what user %d liked",
			recommend.ErrInsufficientSignal, subjectID)
	}

	return sortAndTruncate(items, limit), nil
}

// ScoreAgainst scores a candidate against a liked set: the mean of its
// pair scores with each liked item, in [0, 1].
func (c *Content) ScoreAgainst(snap *recommend.Snapshot, likedIDs []int, candidate models.Item) (float64, signalTally) {
	var total float64
	var tally signalTally
	counted := 0

	for _, likedID := range likedIDs {
		liked, ok := snap.Items[likedID]
		if !ok {
			continue
		}
		score, pair := c.scorePair(liked, candidate)
		total += score
		tally.add(pair)
		counted++
	}

	if counted == 0 {
		return 0, tally
	}
	return clampUnit(total / float64(counted)), tally
}

// scorePair scores one liked/candidate pair, capped at 1.0.
func (c *Content) scorePair(liked, candidate models.Item) (float64, signalTally) {
	var tally signalTally

	tally.genres = c.config.GenreWeight * jaccard(liked.Genres, candidate.Genres)

	if liked.Director != "" && liked.Director == candidate.Director {
		tally.creator = c.config.CreatorWeight
	}

	if liked.Year != 0 && candidate.Year != 0 {
		diff := liked.Year - candidate.Year
		if diff < 0 {
			diff = -diff
		}
		switch {
		case diff <= c.config.EraCloseYears:
			tally.era = c.config.EraCloseWeight
		case diff <= c.config.EraNearYears:
			tally.era = c.config.EraNearWeight
		}
	}

	if liked.HasQualityScore() && candidate.HasQualityScore() &&
		math.Abs(liked.QualityScore-candidate.QualityScore) <= c.config.QualityDelta {
		tally.quality = c.config.QualityWeight
	}

	score := tally.genres + tally.creator + tally.era + tally.quality
	return clampUnit(score), tally
}

// jaccard computes set overlap between two genre lists: the size of the
// intersection over the size of the union.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, g := range a {
		setA[g] = struct{}{}
	}

	intersection := 0
	setB := make(map[string]struct{}, len(b))
	for _, g := range b {
		if _, dup := setB[g]; dup {
			continue
		}
		setB[g] = struct{}{}
		if _, ok := setA[g]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
