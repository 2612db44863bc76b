// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package api

import (
	"net/http"

	"github.com/reelrank/reelrank/internal/models"
)

// CacheStatsHandler handles GET /api/v1/cache/stats.
func (h *Handler) CacheStatsHandler(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, r, http.StatusOK, h.stats.GetStats(), models.Metadata{})
}
