// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package models

import "time"

// APIResponse is the envelope every JSON endpoint returns.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id,omitempty"`
	DurationMS int64     `json:"duration_ms,omitempty"`
	Cached     bool      `json:"cached,omitempty"`
}

// APIError represents a structured error response.
//
// Common codes: VALIDATION_ERROR, USER_NOT_FOUND, INVALID_REQUEST,
// INTERNAL_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
