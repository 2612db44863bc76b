// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package api

import (
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/reelrank/reelrank/internal/models"
)

// respondJSON writes the standard envelope with the given payload.
func (h *Handler) respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}, meta models.Metadata) {
	meta.Timestamp = time.Now().UTC()
	meta.RequestID = RequestIDFromContext(r.Context())

	resp := models.APIResponse{
		Status:   "ok",
		Data:     data,
		Metadata: meta,
	}

	body, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("failed to encode response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.Header().Set("Vary", "Accept-Encoding")
	w.Header().Set("ETag", generateETag(body))
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write response")
	}
}

// generateETag derives a weak validator from the response body.
func generateETag(body []byte) string {
	h := fnv.New32a()
	h.Write(body)
	return strconv.FormatUint(uint64(h.Sum32()), 16)
}

// respondError writes the standard envelope with an error body.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]interface{}) {
	resp := models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: RequestIDFromContext(r.Context()),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("failed to encode error response")
	}
}

// urlParamInt extracts a positive integer chi URL parameter.
func urlParamInt(r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}

// queryInt parses an optional integer query parameter, returning def when
// absent. The bool reports whether the raw value parsed cleanly.
func queryInt(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// decodeBody decodes a JSON request body into dst, rejecting unknown
// fields.
func decodeBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// sanitizeLogValue strips newlines from request-derived values before they
// reach the log, preventing log injection.
func sanitizeLogValue(s string) string {
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, "\r", "")
	if len(s) > 128 {
		s = s[:128]
	}
	return s
}
