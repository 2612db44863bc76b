// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

// Package models defines the shared domain types for Reelrank: the media
// catalog, user ratings, and the API response envelope.
package models

import "time"

// Item is a single catalog entry (a film or series).
type Item struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Genres   []string `json:"genres,omitempty"`
	Director string   `json:"director,omitempty"`
	Year     int      `json:"year,omitempty"`

	// QualityScore is an editorial 1-10 rating. Zero means no score has
	// been assigned; such items never surface through popularity ranking.
	QualityScore float64 `json:"quality_score,omitempty"`
}

// HasQualityScore reports whether an editorial quality score is assigned.
func (i Item) HasQualityScore() bool {
	return i.QualityScore > 0
}

// Rating is a user's rating of a catalog item on a 1-5 scale.
type Rating struct {
	UserID int     `json:"user_id"`
	ItemID int     `json:"item_id"`
	Score  float64 `json:"score"`

	// Favorable marks an explicit thumbs-up, independent of the score.
	Favorable bool      `json:"favorable,omitempty"`
	RatedAt   time.Time `json:"rated_at,omitempty"`
}

// MaxRatingScore is the top of the rating scale.
const MaxRatingScore = 5.0

// LikedThreshold is the minimum score at which a favorable rating counts
// as liking the item.
const LikedThreshold = 4.0

// Liked reports whether this rating counts as liking the item: marked
// favorable with a score at or above the threshold. A high score alone is
// not enough, and neither is a favorable flag on a lukewarm rating.
func (r Rating) Liked() bool {
	return r.Favorable && r.Score >= LikedThreshold
}

// User is a rating subject.
type User struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
}
