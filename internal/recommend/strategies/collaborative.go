// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package strategies

import (
	"context"
	"fmt"
	"sort"

	"github.com/reelrank/reelrank/internal/models"
	"github.com/reelrank/reelrank/internal/recommend"
)

// CollaborativeConfig tunes the user-based collaborative strategy.
type CollaborativeConfig struct {
	// SimilarityThreshold is the minimum Pearson correlation (exclusive)
	// for a user to join the neighborhood. Default: 0.3
	SimilarityThreshold float64

	// NeighborhoodSize caps the number of most similar users consulted.
	// Default: 10
	NeighborhoodSize int

	// MinNeighborRating is the minimum score a neighbor must have given an
	// item for it to become a candidate. Default: 4.0
	MinNeighborRating float64
}

// DefaultCollaborativeConfig returns production defaults.
func DefaultCollaborativeConfig() CollaborativeConfig {
	return CollaborativeConfig{
		SimilarityThreshold: 0.3,
		NeighborhoodSize:    10,
		MinNeighborRating:   4.0,
	}
}

// Collaborative recommends items endorsed by users whose rating history
// correlates with the subject's.
type Collaborative struct {
	config CollaborativeConfig
}

var _ recommend.Strategy = (*Collaborative)(nil)

// NewCollaborative creates the strategy, filling zero config values with
// defaults.
func NewCollaborative(cfg CollaborativeConfig) *Collaborative {
	def := DefaultCollaborativeConfig()
	if cfg.SimilarityThreshold == 0 {
		cfg.SimilarityThreshold = def.SimilarityThreshold
	}
	if cfg.NeighborhoodSize <= 0 {
		cfg.NeighborhoodSize = def.NeighborhoodSize
	}
	if cfg.MinNeighborRating <= 0 {
		cfg.MinNeighborRating = def.MinNeighborRating
	}
	return &Collaborative{config: cfg}
}

// Name implements recommend.Strategy.
func (c *Collaborative) Name() string { return NameCollaborative }

// neighbor is one member of the subject's similarity neighborhood.
type neighbor struct {
	UserID     int
	Similarity float64
}

// Recommend implements recommend.Strategy.
//
// Candidates are items a neighbor rated at or above the minimum AND marked
// favorable, that the subject has not rated. Each candidate's raw score is
// the similarity-weighted mean of contributing neighbor ratings, brought
// into [0, 1] by the rating scale.
func (c *Collaborative) Recommend(ctx context.Context, snap *recommend.Snapshot, subjectID, limit int) ([]recommend.ScoredItem, error) {
	neighbors := c.neighborhood(ctx, snap, subjectID)
	if recommend.ContextCancelled(ctx) {
		return nil, ctx.Err()
	}
	if len(neighbors) == 0 {
		return nil, fmt.Errorf("%w: no neighbors above similarity threshold for user %d",
			recommend.ErrInsufficientSignal, subjectID)
	}

	type accumulator struct {
		weighted float64
		count    int
	}
	scores := make(map[int]*accumulator)

	for _, n := range neighbors {
		for itemID, score := range snap.Vector(n.UserID) {
			if score < c.config.MinNeighborRating || !snap.Favorable(n.UserID, itemID) {
				continue
			}
			if snap.HasRated(subjectID, itemID) {
				continue
			}

			acc, ok := scores[itemID]
			if !ok {
				acc = &accumulator{}
				scores[itemID] = acc
			}
			acc.weighted += score * n.Similarity
			acc.count++
		}
	}

	if len(scores) == 0 {
		return nil, fmt.Errorf("%w: neighbors of user %d endorse no unseen items",
			recommend.ErrInsufficientSignal, subjectID)
	}

	items := make([]recommend.ScoredItem, 0, len(scores))
	for itemID, acc := range scores {
		item, ok := snap.Items[itemID]
		if !ok {
			continue
		}
		raw := acc.weighted / float64(acc.count)
		items = append(items, recommend.ScoredItem{
			Item:   item,
			Score:  clampUnit(raw / models.MaxRatingScore),
			Reason: fmt.Sprintf("recommended by %d similar user(s)", acc.count),
		})
	}

	return sortAndTruncate(items, limit), nil
}

// neighborhood returns the subject's most similar users, strongest first.
func (c *Collaborative) neighborhood(ctx context.Context, snap *recommend.Snapshot, subjectID int) []neighbor {
	vec := snap.Vector(subjectID)

	var neighbors []neighbor
	for _, userID := range snap.UserIDs() {
		if userID == subjectID || recommend.ContextCancelled(ctx) {
			continue
		}
		sim := recommend.Pearson(vec, snap.Vector(userID))
		if sim > c.config.SimilarityThreshold {
			neighbors = append(neighbors, neighbor{UserID: userID, Similarity: sim})
		}
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		return neighbors[i].UserID < neighbors[j].UserID
	})
	if len(neighbors) > c.config.NeighborhoodSize {
		neighbors = neighbors[:c.config.NeighborhoodSize]
	}
	return neighbors
}
