// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package store

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/reelrank/reelrank/internal/models"
)

// SeedData is the on-disk JSON shape of a dataset loaded at startup.
type SeedData struct {
	Users   []models.User   `json:"users"`
	Items   []models.Item   `json:"items"`
	Ratings []models.Rating `json:"ratings"`
}

// LoadSeedFile reads a seed dataset from a JSON file into the store.
// Existing entries with the same IDs are replaced.
func (m *Memory) LoadSeedFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file %s: %w", path, err)
	}
	return m.LoadSeed(data)
}

// LoadSeed loads a seed dataset from raw JSON.
func (m *Memory) LoadSeed(data []byte) error {
	var seed SeedData
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse seed data: %w", err)
	}

	for _, u := range seed.Users {
		if u.ID <= 0 {
			return fmt.Errorf("seed user with invalid id %d", u.ID)
		}
		m.PutUser(u)
	}
	for _, it := range seed.Items {
		if it.ID <= 0 {
			return fmt.Errorf("seed item with invalid id %d", it.ID)
		}
		m.PutItem(it)
	}
	for _, r := range seed.Ratings {
		if r.UserID <= 0 || r.ItemID <= 0 {
			return fmt.Errorf("seed rating with invalid ids user=%d item=%d", r.UserID, r.ItemID)
		}
		if r.Score < 1 || r.Score > models.MaxRatingScore {
			return fmt.Errorf("seed rating user=%d item=%d score %.1f outside 1-%.0f",
				r.UserID, r.ItemID, r.Score, models.MaxRatingScore)
		}
		m.PutRating(r)
	}

	return nil
}
