// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

// Package events carries catalog and rating change notifications over a
// Watermill in-process bus and keeps the recommendation cache consistent
// with them.
package events

import "time"

// Topics on the invalidation bus.
const (
	TopicItemChanged   = "catalog.item.changed"
	TopicRatingChanged = "rating.changed"
)

// Change describes what happened to a catalog item.
type Change string

const (
	ChangeCreated Change = "created"
	ChangeUpdated Change = "updated"
	ChangeDeleted Change = "deleted"
)

// ItemChanged is published when a catalog item is created, updated or
// deleted. Any of these can shift every user's recommendations.
type ItemChanged struct {
	ItemID     int       `json:"item_id"`
	Change     Change    `json:"change"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RatingChanged is published when a user rates, re-rates or removes a
// rating. Only that user's cached recommendations are stale.
type RatingChanged struct {
	UserID     int       `json:"user_id"`
	ItemID     int       `json:"item_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
