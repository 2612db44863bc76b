// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

// Package store holds the catalog, users and ratings the engine reads.
//
// The only implementation is the in-memory store seeded from a JSON file;
// the Store interface exists so the engine and handlers stay decoupled
// from it.
package store

import (
	"context"

	"github.com/reelrank/reelrank/internal/models"
)

// Store is the read surface over users, catalog items and ratings.
type Store interface {
	GetUser(ctx context.Context, id int) (models.User, bool, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	GetItem(ctx context.Context, id int) (models.Item, bool, error)

	// ListItems returns catalog items ordered by ID. A limit of zero or
	// less returns everything; pages are 1-based.
	ListItems(ctx context.Context, page, limit int) ([]models.Item, error)

	// ListRatings returns every rating in the store.
	ListRatings(ctx context.Context) ([]models.Rating, error)

	// UserRatings returns the ratings authored by one user.
	UserRatings(ctx context.Context, userID int) ([]models.Rating, error)
}
