// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

// Package proposer is the HTTP client for the partner proposal service.
// It wraps the upstream in a circuit breaker and a client-side rate
// limit so a degraded partner cannot degrade recommendation latency.
package proposer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/reelrank/reelrank/internal/config"
	"github.com/reelrank/reelrank/internal/metrics"
	"github.com/reelrank/reelrank/internal/recommend"
)

// maxResponseBytes caps how much of an upstream response is read.
const maxResponseBytes = 1 << 20

// Client calls the proposal endpoint. It satisfies strategies.Proposer.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]int]
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// proposalResponse is the upstream wire format.
type proposalResponse struct {
	SubjectID int   `json:"subject_id"`
	Proposals []int `json:"proposals"`
}

// New creates the client.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg config.ProposerConfig, logger zerolog.Logger) *Client {
	logger = logger.With().Str("component", "proposer").Logger()

	settings := gobreaker.Settings{
		Name:    "proposer",
		Timeout: cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerMaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("proposer circuit breaker state changed")
			metrics.SetProposerBreakerState(breakerStateValue(to))
		},
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker[[]int](settings),
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:  logger,
	}
}

// Propose fetches candidate item IDs for a subject.
//
// A tripped breaker or an exhausted rate budget fails fast with
// ErrUpstreamUnavailable; callers degrade to local strategies.
func (c *Client) Propose(ctx context.Context, subjectID, limit int) ([]int, error) {
	if !c.limiter.Allow() {
		metrics.RecordProposerRequest("rate_limited")
		return nil, fmt.Errorf("%w: proposer rate limit exhausted", recommend.ErrUpstreamUnavailable)
	}

	proposals, err := c.breaker.Execute(func() ([]int, error) {
		return c.fetch(ctx, subjectID, limit)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		metrics.RecordProposerRequest("error")
		return nil, fmt.Errorf("%w: %v", recommend.ErrUpstreamUnavailable, err)
	}

	metrics.RecordProposerRequest("success")
	return proposals, nil
}

func (c *Client) fetch(ctx context.Context, subjectID, limit int) ([]int, error) {
	u, err := url.Parse(c.baseURL + "/proposals")
	if err != nil {
		return nil, fmt.Errorf("build proposer url: %w", err)
	}
	q := u.Query()
	q.Set("subject", strconv.Itoa(subjectID))
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build proposer request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("proposer request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, fmt.Errorf("proposer returned status %d", resp.StatusCode)
	}

	var decoded proposalResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode proposer response: %w", err)
	}

	c.logger.Debug().
		Int("subject_id", subjectID).
		Int("proposals", len(decoded.Proposals)).
		Msg("proposer responded")
	return decoded.Proposals, nil
}

// breakerStateValue maps breaker states onto the gauge scale.
func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 2
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 0
	}
}
