// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/reelrank/reelrank/internal/config"
)

// NewRouter assembles the HTTP routing tree.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRouter(h *Handler, cfg config.ServerConfig, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware, outermost first.
	r.Use(RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		MaxAge:         300,
	}))

	// Operational endpoints stay outside the API rate limit so monitoring
	// cannot be starved by API traffic.
	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimitReqs, cfg.RateLimitWindow))
		r.Use(Metrics)
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/recommendations", h.Recommendations)
			r.Get("/similar", h.Similar)
		})

		r.Get("/categories/{category}/recommendations", h.CategoryRecommendations)

		r.Get("/strategies", h.Strategies)
		r.Get("/cache/stats", h.CacheStatsHandler)

		r.Route("/notify", func(r chi.Router) {
			r.Post("/item", h.NotifyItemChanged)
			r.Post("/rating", h.NotifyRatingChanged)
		})
	})

	return r
}
