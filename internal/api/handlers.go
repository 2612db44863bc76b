// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

// Package api exposes the recommendation service over HTTP: the
// recommendation and similarity endpoints, change notifications feeding
// the invalidation bus, cache introspection and health.
package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/reelrank/reelrank/internal/cache"
	"github.com/reelrank/reelrank/internal/config"
	"github.com/reelrank/reelrank/internal/events"
	"github.com/reelrank/reelrank/internal/recommend"
)

// Recommender is what the handlers need from the engine.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	CategoryRecommendations(ctx context.Context, category string, limit int) (*recommend.CategoryResponse, error)
	Similarity(ctx context.Context, userID, candidateID int) (float64, error)
	Strategies() []string
}

// ChangePublisher feeds the invalidation bus. Satisfied by *events.Bus.
type ChangePublisher interface {
	PublishItemChanged(ctx context.Context, itemID int, change events.Change) error
	PublishRatingChanged(ctx context.Context, userID, itemID int) error
}

// CacheStats exposes result cache counters. Satisfied by *cache.Cache.
type CacheStats interface {
	GetStats() cache.StatsSnapshot
}

var (
	_ Recommender     = (*recommend.Engine)(nil)
	_ ChangePublisher = (*events.Bus)(nil)
	_ CacheStats      = (*cache.Cache)(nil)
)

// Handler holds the HTTP handlers and their dependencies.
type Handler struct {
	engine    Recommender
	publisher ChangePublisher
	stats     CacheStats
	config    config.ServerConfig
	logger    zerolog.Logger
	startedAt time.Time
}

// NewHandler creates the handler set.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHandler(engine Recommender, publisher ChangePublisher, stats CacheStats, cfg config.ServerConfig, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:    engine,
		publisher: publisher,
		stats:     stats,
		config:    cfg,
		logger:    logger.With().Str("component", "api").Logger(),
		startedAt: time.Now(),
	}
}
