// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reelrank/reelrank/internal/models"
	"github.com/reelrank/reelrank/internal/recommend"
	"github.com/reelrank/reelrank/internal/validation"
)

// recommendationsQuery is the validated query surface of the
// recommendations endpoint.
type recommendationsQuery struct {
	Strategy string `validate:"omitempty,oneof=collaborative content hybrid popularity external"`

	// Limit zero means "use the engine default".
	Limit int `validate:"omitempty,min=1,max=100"`
}

// Recommendations handles GET /api/v1/users/{userID}/recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlParamInt(r, "userID")
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "userID must be a positive integer", nil)
		return
	}

	limit, ok := queryInt(r, "limit", 0)
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "limit must be an integer", nil)
		return
	}

	q := recommendationsQuery{
		Strategy: r.URL.Query().Get("strategy"),
		Limit:    limit,
	}
	if verr := validation.ValidateStruct(&q); verr != nil {
		apiErr := verr.ToAPIError()
		h.respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	resp, err := h.engine.Recommend(r.Context(), recommend.Request{
		UserID:   userID,
		Strategy: q.Strategy,
		Limit:    q.Limit,
	})
	if err != nil {
		h.recommendError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, resp, models.Metadata{
		DurationMS: resp.Duration.Milliseconds(),
		Cached:     resp.FromCache,
	})
}

// categoryQuery is the validated surface of the category endpoint.
type categoryQuery struct {
	Category string `validate:"required,max=64"`

	// Limit zero means "use the engine default".
	Limit int `validate:"omitempty,min=1,max=100"`
}

// CategoryRecommendations handles
// GET /api/v1/categories/{category}/recommendations.
func (h *Handler) CategoryRecommendations(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit", 0)
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "limit must be an integer", nil)
		return
	}

	q := categoryQuery{
		Category: chi.URLParam(r, "category"),
		Limit:    limit,
	}
	if verr := validation.ValidateStruct(&q); verr != nil {
		apiErr := verr.ToAPIError()
		h.respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	resp, err := h.engine.CategoryRecommendations(r.Context(), q.Category, q.Limit)
	if err != nil {
		h.recommendError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, resp, models.Metadata{
		DurationMS: resp.Duration.Milliseconds(),
		Cached:     resp.FromCache,
	})
}

// similarityResponse is the payload of the similarity endpoint.
type similarityResponse struct {
	UserID      int     `json:"user_id"`
	CandidateID int     `json:"candidate_id"`
	Similarity  float64 `json:"similarity"`
}

// Similar handles GET /api/v1/users/{userID}/similar?candidateID=N.
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlParamInt(r, "userID")
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "userID must be a positive integer", nil)
		return
	}
	candidateID, ok := queryInt(r, "candidateID", 0)
	if !ok || candidateID < 1 {
		h.respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "candidateID must be a positive integer", nil)
		return
	}

	sim, err := h.engine.Similarity(r.Context(), userID, candidateID)
	if err != nil {
		h.recommendError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, similarityResponse{
		UserID:      userID,
		CandidateID: candidateID,
		Similarity:  sim,
	}, models.Metadata{})
}

// Strategies handles GET /api/v1/strategies.
func (h *Handler) Strategies(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"strategies": h.engine.Strategies(),
	}, models.Metadata{})
}

// recommendError maps engine errors onto HTTP statuses.
func (h *Handler) recommendError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, recommend.ErrUnknownUser):
		h.respondError(w, r, http.StatusNotFound, "USER_NOT_FOUND", "user does not exist", nil)
	case errors.Is(err, recommend.ErrInvalidRequest):
		h.respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.respondError(w, r, http.StatusServiceUnavailable, "TIMEOUT", "request timed out", nil)
	default:
		h.logger.Error().Err(err).Str("path", sanitizeLogValue(r.URL.Path)).Msg("recommendation failed")
		h.respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error", nil)
	}
}
