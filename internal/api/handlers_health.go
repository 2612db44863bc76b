// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package api

import (
	"net/http"
	"time"

	"github.com/reelrank/reelrank/internal/models"
)

// healthResponse is the payload of GET /health.
type healthResponse struct {
	Status     string  `json:"status"`
	UptimeSecs float64 `json:"uptime_seconds"`
	Strategies int     `json:"strategies"`
}

// Health handles GET /health. The service has no external hard
// dependencies at request time, so being up is being healthy.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, r, http.StatusOK, healthResponse{
		Status:     "healthy",
		UptimeSecs: time.Since(h.startedAt).Seconds(),
		Strategies: len(h.engine.Strategies()),
	}, models.Metadata{})
}
