// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

// Package metrics defines the Prometheus collectors for Reelrank.
//
// Collectors are registered at package load via promauto and recorded
// through the helper functions; handlers and the engine never touch the
// collectors directly.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelrank_recommendations_total",
			Help: "Recommendation requests by strategy and outcome.",
		},
		[]string{"strategy", "outcome"},
	)

	recommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelrank_recommendation_duration_seconds",
			Help:    "Recommendation computation latency by strategy.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)

	fallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelrank_fallbacks_total",
			Help: "Strategy fallbacks by source and target strategy.",
		},
		[]string{"from", "to"},
	)

	integrityGapsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelrank_data_integrity_gaps_total",
			Help: "Ratings skipped because they reference a missing catalog item.",
		},
	)

	cacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelrank_cache_hits_total",
			Help: "Result cache hits.",
		},
	)

	cacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelrank_cache_misses_total",
			Help: "Result cache misses.",
		},
	)

	cacheKeys = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelrank_cache_keys",
			Help: "Current number of result cache entries.",
		},
	)

	cacheInvalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelrank_cache_invalidations_total",
			Help: "Cache invalidations by scope (all, subject).",
		},
		[]string{"scope"},
	)

	proposerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelrank_proposer_requests_total",
			Help: "External proposer requests by result (ok, error, rejected).",
		},
		[]string{"result"},
	)

	proposerBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelrank_proposer_breaker_state",
			Help: "Proposer circuit breaker state (0=closed, 1=half-open, 2=open).",
		},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelrank_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelrank_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// RecordRecommendation records one recommendation request outcome.
// outcome is one of: served, fallback, empty, invalid, error.
func RecordRecommendation(strategy, outcome string, seconds float64) {
	recommendationsTotal.WithLabelValues(strategy, outcome).Inc()
	recommendationDuration.WithLabelValues(strategy).Observe(seconds)
}

// RecordFallback records a fallback from one strategy to another.
func RecordFallback(from, to string) {
	fallbacksTotal.WithLabelValues(from, to).Inc()
}

// RecordIntegrityGap records a rating skipped for referencing a missing item.
func RecordIntegrityGap() {
	integrityGapsTotal.Inc()
}

// RecordCacheHit records a result cache hit.
func RecordCacheHit() {
	cacheHitsTotal.Inc()
}

// RecordCacheMiss records a result cache miss.
func RecordCacheMiss() {
	cacheMissesTotal.Inc()
}

// SetCacheKeys updates the cache entry count gauge.
func SetCacheKeys(n int) {
	cacheKeys.Set(float64(n))
}

// RecordCacheInvalidation records an invalidation by scope.
func RecordCacheInvalidation(scope string) {
	cacheInvalidationsTotal.WithLabelValues(scope).Inc()
}

// RecordProposerRequest records one proposer call result.
func RecordProposerRequest(result string) {
	proposerRequestsTotal.WithLabelValues(result).Inc()
}

// SetProposerBreakerState updates the breaker state gauge.
func SetProposerBreakerState(state float64) {
	proposerBreakerState.Set(state)
}

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(method, path string, status int, seconds float64) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(seconds)
}
