// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

// Command server runs the Reelrank recommendation service: the HTTP API,
// the recommendation engine with its fallback chain, and the cache
// invalidation bus, all under a suture supervision tree.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/reelrank/reelrank/internal/api"
	"github.com/reelrank/reelrank/internal/cache"
	"github.com/reelrank/reelrank/internal/config"
	"github.com/reelrank/reelrank/internal/events"
	"github.com/reelrank/reelrank/internal/logging"
	"github.com/reelrank/reelrank/internal/proposer"
	"github.com/reelrank/reelrank/internal/recommend"
	"github.com/reelrank/reelrank/internal/recommend/strategies"
	"github.com/reelrank/reelrank/internal/store"
	"github.com/reelrank/reelrank/internal/supervisor"
	"github.com/reelrank/reelrank/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("service failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logger := logging.Logger()
	logger.Info().
		Str("listen", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)).
		Str("default_strategy", cfg.Engine.DefaultStrategy).
		Msg("starting reelrank")

	// Data store, seeded from disk when configured.
	memory := store.NewMemory()
	if cfg.Seed.Path != "" {
		if err := memory.LoadSeedFile(cfg.Seed.Path); err != nil {
			return fmt.Errorf("load seed data: %w", err)
		}
		users, items, ratings := memory.Counts()
		logger.Info().
			Str("path", cfg.Seed.Path).
			Int("users", users).
			Int("items", items).
			Int("ratings", ratings).
			Msg("seed data loaded")
	}

	resultCache := cache.New(cfg.Cache.CleanupInterval)

	// Strategy set. The engine owns the fallback chain; popularity is its
	// terminal link.
	collaborative := strategies.NewCollaborative(strategies.CollaborativeConfig{
		SimilarityThreshold: cfg.Engine.SimilarityThreshold,
		NeighborhoodSize:    cfg.Engine.NeighborhoodSize,
		MinNeighborRating:   cfg.Engine.MinNeighborRating,
	})
	content := strategies.NewContent(strategies.DefaultContentConfig())
	hybrid := strategies.NewHybrid(collaborative, content, strategies.HybridConfig{
		CollaborativeWeight: cfg.Engine.CollaborativeWeight,
		ContentWeight:       cfg.Engine.ContentWeight,
	})
	popularity := strategies.NewPopularity(strategies.DefaultPopularityConfig())

	engine := recommend.New(memory, resultCache, popularity, recommend.Config{
		DefaultStrategy: cfg.Engine.DefaultStrategy,
		DefaultLimit:    cfg.Engine.DefaultLimit,
		MaxLimit:        cfg.Engine.MaxLimit,
		PersonalTTL:     cfg.Cache.PersonalTTL,
		PopularTTL:      cfg.Cache.PopularTTL,
	}, logger)
	engine.Register(collaborative)
	engine.Register(content)
	engine.Register(hybrid)

	if cfg.Proposer.Enabled {
		client := proposer.New(cfg.Proposer, logger)
		engine.Register(strategies.NewExternal(client, content, logger))
		logger.Info().Str("base_url", cfg.Proposer.BaseURL).Msg("external proposer enabled")
	}

	// Invalidation bus and its consumer.
	bus := events.NewBus(cfg.Events.BufferSize, events.NewLoggerAdapter(logger))
	defer bus.Close()

	invalidator, err := events.NewInvalidator(bus, engine, cfg.Events, logger)
	if err != nil {
		return fmt.Errorf("create invalidator: %w", err)
	}

	// HTTP surface.
	handler := api.NewHandler(engine, bus, resultCache, cfg.Server, logger)
	router := api.NewRouter(handler, cfg.Server, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.RequestTimeout,
	}

	// Supervision tree: messaging and API fail independently.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddMessagingService(invalidator)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor: %w", err)
	}

	logger.Info().Msg("reelrank stopped")
	return nil
}
