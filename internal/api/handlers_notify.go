// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package api

import (
	"net/http"

	"github.com/reelrank/reelrank/internal/events"
	"github.com/reelrank/reelrank/internal/models"
	"github.com/reelrank/reelrank/internal/validation"
)

// itemNotification is the body of POST /api/v1/notify/item.
type itemNotification struct {
	ItemID int    `json:"item_id" validate:"required,min=1"`
	Change string `json:"change" validate:"required,oneof=created updated deleted"`
}

// ratingNotification is the body of POST /api/v1/notify/rating.
type ratingNotification struct {
	UserID int `json:"user_id" validate:"required,min=1"`
	ItemID int `json:"item_id" validate:"required,min=1"`
}

// NotifyItemChanged handles POST /api/v1/notify/item. The event is
// published to the invalidation bus and processed asynchronously, so the
// response is 202.
func (h *Handler) NotifyItemChanged(w http.ResponseWriter, r *http.Request) {
	var body itemNotification
	if err := decodeBody(r, &body); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "malformed request body", nil)
		return
	}
	if verr := validation.ValidateStruct(&body); verr != nil {
		apiErr := verr.ToAPIError()
		h.respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	if err := h.publisher.PublishItemChanged(r.Context(), body.ItemID, events.Change(body.Change)); err != nil {
		h.logger.Error().Err(err).Int("item_id", body.ItemID).Msg("failed to publish item change")
		h.respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to publish event", nil)
		return
	}

	h.respondJSON(w, r, http.StatusAccepted, map[string]interface{}{
		"item_id": body.ItemID,
		"change":  body.Change,
	}, models.Metadata{})
}

// NotifyRatingChanged handles POST /api/v1/notify/rating.
func (h *Handler) NotifyRatingChanged(w http.ResponseWriter, r *http.Request) {
	var body ratingNotification
	if err := decodeBody(r, &body); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "malformed request body", nil)
		return
	}
	if verr := validation.ValidateStruct(&body); verr != nil {
		apiErr := verr.ToAPIError()
		h.respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	if err := h.publisher.PublishRatingChanged(r.Context(), body.UserID, body.ItemID); err != nil {
		h.logger.Error().Err(err).Int("user_id", body.UserID).Msg("failed to publish rating change")
		h.respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to publish event", nil)
		return
	}

	h.respondJSON(w, r, http.StatusAccepted, map[string]interface{}{
		"user_id": body.UserID,
		"item_id": body.ItemID,
	}, models.Metadata{})
}
