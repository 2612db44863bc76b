// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/reelrank/reelrank/internal/config"
)

// CacheInvalidating is what the invalidator needs from the engine.
// Satisfied by *recommend.Engine.
type CacheInvalidating interface {
	OnItemChanged(itemID int)
	OnRatingChanged(userID int)
}

// Invalidator consumes change events and invalidates cached
// recommendations: catalog changes clear everything, rating changes only
// the affected user. It runs under the supervision tree.
type Invalidator struct {
	router *message.Router
	logger zerolog.Logger
}

// NewInvalidator builds the Watermill router with its consumer handlers
// registered against the bus.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewInvalidator(bus *Bus, engine CacheInvalidating, cfg config.EventsConfig, logger zerolog.Logger) (*Invalidator, error) {
	logger = logger.With().Str("component", "invalidator").Logger()
	wmLogger := NewLoggerAdapter(logger)

	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: cfg.CloseTimeout,
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create router: %w", err)
	}

	// Panics become errors, transient failures retry with backoff. After
	// the retries are spent the message is dropped; a missed invalidation
	// only extends one cache entry's staleness to its TTL.
	router.AddMiddleware(middleware.Recoverer)
	retry := middleware.Retry{
		MaxRetries:      cfg.RetryMaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		Logger:          wmLogger,
	}
	router.AddMiddleware(retry.Middleware)

	inv := &Invalidator{router: router, logger: logger}

	router.AddConsumerHandler(
		"invalidate_on_item_change",
		TopicItemChanged,
		bus.Subscriber(),
		func(msg *message.Message) error {
			var ev ItemChanged
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				return fmt.Errorf("decode item change: %w", err)
			}
			logger.Debug().Int("item_id", ev.ItemID).Str("change", string(ev.Change)).
				Msg("catalog changed, clearing recommendation cache")
			engine.OnItemChanged(ev.ItemID)
			return nil
		},
	)

	router.AddConsumerHandler(
		"invalidate_on_rating_change",
		TopicRatingChanged,
		bus.Subscriber(),
		func(msg *message.Message) error {
			var ev RatingChanged
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				return fmt.Errorf("decode rating change: %w", err)
			}
			logger.Debug().Int("user_id", ev.UserID).Int("item_id", ev.ItemID).
				Msg("rating changed, invalidating user's recommendations")
			engine.OnRatingChanged(ev.UserID)
			return nil
		},
	)

	return inv, nil
}

// Serve implements suture.Service. It blocks until the context is
// cancelled or the router stops.
func (i *Invalidator) Serve(ctx context.Context) error {
	i.logger.Info().Msg("invalidator starting")
	return i.router.Run(ctx)
}

// Running returns a channel that closes once all handlers are consuming.
func (i *Invalidator) Running() <-chan struct{} {
	return i.router.Running()
}

// String implements fmt.Stringer for supervisor logs.
func (i *Invalidator) String() string { return "events.Invalidator" }
