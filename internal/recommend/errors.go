// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package recommend

import "errors"

var (
	// ErrInvalidRequest marks caller mistakes (unknown strategy, bad
	// limit). This is the only error class surfaced to API callers.
	ErrInvalidRequest = errors.New("invalid recommendation request")

	// ErrUnknownUser marks a request for a subject the store has never
	// seen.
	ErrUnknownUser = errors.New("unknown user")

	// ErrInsufficientSignal means a strategy has too little data to
	// recommend. It drives the fallback chain and never reaches callers.
	ErrInsufficientSignal = errors.New("insufficient signal")

	// ErrUpstreamUnavailable means the external proposer could not be
	// reached (timeout, open circuit, rejected by the rate limit). Like
	// ErrInsufficientSignal it is absorbed by the fallback chain.
	ErrUpstreamUnavailable = errors.New("upstream proposer unavailable")
)
