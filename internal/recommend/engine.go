// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/reelrank/reelrank/internal/metrics"
)

// Config holds the engine's request handling settings. Strategy-specific
// tuning lives with the strategies themselves.
type Config struct {
	// DefaultStrategy is used when a request names none. Default: hybrid
	DefaultStrategy string

	// DefaultLimit is used when a request asks for no particular count.
	// Default: 10
	DefaultLimit int

	// MaxLimit caps the result count of any single request. Default: 100
	MaxLimit int

	// PersonalTTL is the cache lifetime of personalized results
	// (collaborative, content, hybrid). Default: 30m
	PersonalTTL time.Duration

	// PopularTTL is the cache lifetime of popularity and external proposal
	// results. Default: 1h
	PopularTTL time.Duration
}

// DefaultEngineConfig returns production defaults.
func DefaultEngineConfig() Config {
	return Config{
		DefaultStrategy: "hybrid",
		DefaultLimit:    10,
		MaxLimit:        100,
		PersonalTTL:     30 * time.Minute,
		PopularTTL:      time.Hour,
	}
}

// Engine coordinates snapshot building, strategy execution, the fallback
// chain and the result cache.
type Engine struct {
	source     DataSource
	cache      ResultCache
	strategies map[string]Strategy
	fallback   Strategy
	categories CategoryRanker
	config     Config
	logger     zerolog.Logger
}

// cachedResult is what the engine stores in the result cache.
type cachedResult struct {
	Items  []ScoredItem
	Served string
}

// New creates an engine. The fallback strategy (popularity in production)
// terminates the chain: it must not return ErrInsufficientSignal.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(source DataSource, resultCache ResultCache, fallback Strategy, cfg Config, logger zerolog.Logger) *Engine {
	if cfg.DefaultStrategy == "" {
		cfg.DefaultStrategy = "hybrid"
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 100
	}
	if cfg.PersonalTTL <= 0 {
		cfg.PersonalTTL = 30 * time.Minute
	}
	if cfg.PopularTTL <= 0 {
		cfg.PopularTTL = time.Hour
	}

	e := &Engine{
		source:     source,
		cache:      resultCache,
		strategies: make(map[string]Strategy),
		fallback:   fallback,
		config:     cfg,
		logger:     logger.With().Str("component", "engine").Logger(),
	}
	if fallback != nil {
		e.strategies[fallback.Name()] = fallback
		// Category rankings ride on the fallback when it supports them.
		e.categories, _ = fallback.(CategoryRanker)
	}
	return e
}

// Register adds a strategy to the registry under its own name.
func (e *Engine) Register(s Strategy) {
	e.strategies[s.Name()] = s
}

// Strategies returns the registered strategy names in sorted order.
func (e *Engine) Strategies() []string {
	names := make([]string, 0, len(e.strategies))
	for name := range e.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Recommend runs one recommendation request through the cache and the
// fallback chain.
//
// Only ErrInvalidRequest and ErrUnknownUser reach the caller; insufficient
// signal and upstream failures are absorbed by falling back, ending in an
// empty-but-successful response when even the fallback has nothing.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	req, strat, err := e.prepareRequest(req)
	if err != nil {
		metrics.RecordRecommendation(req.Strategy, "invalid", time.Since(start).Seconds())
		return nil, err
	}

	if _, ok, err := e.source.GetUser(ctx, req.UserID); err != nil {
		return nil, fmt.Errorf("look up user %d: %w", req.UserID, err)
	} else if !ok {
		metrics.RecordRecommendation(req.Strategy, "invalid", time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: id %d", ErrUnknownUser, req.UserID)
	}

	snap, err := BuildSnapshot(ctx, e.source, e.logger)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}

	fp := Fingerprint(snap.Liked(req.UserID))
	key := cacheKey(req.UserID, req.Strategy, fp)

	value, hit, err := e.cache.GetOrCompute(ctx, key, func() (interface{}, time.Duration, error) {
		items, served, err := e.runChain(ctx, strat, snap, req)
		if err != nil {
			return nil, 0, err
		}
		return cachedResult{Items: items, Served: served}, e.ttlFor(served), nil
	})
	if err != nil {
		metrics.RecordRecommendation(req.Strategy, "error", time.Since(start).Seconds())
		return nil, err
	}

	if hit {
		metrics.RecordCacheHit()
	} else {
		metrics.RecordCacheMiss()
	}

	result, ok := value.(cachedResult)
	if !ok {
		return nil, fmt.Errorf("unexpected cache value type %T for key %s", value, key)
	}

	elapsed := time.Since(start)
	metrics.RecordRecommendation(req.Strategy, outcomeOf(req.Strategy, result), elapsed.Seconds())

	e.logger.Debug().
		Int("user_id", req.UserID).
		Str("strategy", req.Strategy).
		Str("served", result.Served).
		Int("count", len(result.Items)).
		Bool("from_cache", hit).
		Dur("duration", elapsed).
		Msg("recommendations computed")

	return &Response{
		UserID:      req.UserID,
		Strategy:    req.Strategy,
		Served:      result.Served,
		Items:       result.Items,
		FromCache:   hit,
		Fingerprint: fp,
		Duration:    elapsed,
	}, nil
}

// prepareRequest applies defaults and validates strategy and limit.
func (e *Engine) prepareRequest(req Request) (Request, Strategy, error) {
	if req.Strategy == "" {
		req.Strategy = e.config.DefaultStrategy
	}
	strat, ok := e.strategies[req.Strategy]
	if !ok {
		return req, nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidRequest, req.Strategy)
	}

	if req.Limit == 0 {
		req.Limit = e.config.DefaultLimit
	}
	if req.Limit < 1 {
		return req, nil, fmt.Errorf("%w: limit must be at least 1, got %d", ErrInvalidRequest, req.Limit)
	}
	if req.Limit > e.config.MaxLimit {
		req.Limit = e.config.MaxLimit
	}

	return req, strat, nil
}

// runChain executes the requested strategy, falling back once on absorbed
// signal errors. Returns the items and the name of the strategy that
// produced them.
func (e *Engine) runChain(ctx context.Context, strat Strategy, snap *Snapshot, req Request) ([]ScoredItem, string, error) {
	items, err := strat.Recommend(ctx, snap, req.UserID, req.Limit)
	if err == nil {
		return items, strat.Name(), nil
	}

	if !errors.Is(err, ErrInsufficientSignal) && !errors.Is(err, ErrUpstreamUnavailable) {
		return nil, "", err
	}
	if e.fallback == nil || strat.Name() == e.fallback.Name() {
		// Nothing left to fall to; an exhausted chain is still a success.
		return nil, strat.Name(), nil
	}

	e.logger.Info().
		Int("user_id", req.UserID).
		Str("strategy", strat.Name()).
		Str("fallback", e.fallback.Name()).
		Str("cause", err.Error()).
		Msg("falling back")
	metrics.RecordFallback(strat.Name(), e.fallback.Name())

	items, err = e.fallback.Recommend(ctx, snap, req.UserID, req.Limit)
	if err != nil {
		if errors.Is(err, ErrInsufficientSignal) {
			return nil, e.fallback.Name(), nil
		}
		return nil, "", err
	}
	return items, e.fallback.Name(), nil
}

// CategoryRecommendations ranks one category's slice of the catalog by
// popularity, with no personalization. Results cache under the category
// itself (there is no subject, so no taste fingerprint applies) with the
// popularity TTL; catalog changes clear them along with everything else.
func (e *Engine) CategoryRecommendations(ctx context.Context, category string, limit int) (*CategoryResponse, error) {
	start := time.Now()

	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return nil, fmt.Errorf("%w: category must not be empty", ErrInvalidRequest)
	}
	if limit == 0 {
		limit = e.config.DefaultLimit
	}
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be at least 1, got %d", ErrInvalidRequest, limit)
	}
	if limit > e.config.MaxLimit {
		limit = e.config.MaxLimit
	}
	if e.categories == nil {
		return nil, errors.New("category ranking is not configured")
	}

	snap, err := BuildSnapshot(ctx, e.source, e.logger)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}

	key := categoryKey(category, limit)
	value, hit, err := e.cache.GetOrCompute(ctx, key, func() (interface{}, time.Duration, error) {
		items, err := e.categories.Category(ctx, snap, category, limit)
		if err != nil {
			return nil, 0, err
		}
		return cachedResult{Items: items, Served: "popularity"}, e.config.PopularTTL, nil
	})
	if err != nil {
		metrics.RecordRecommendation("category", "error", time.Since(start).Seconds())
		return nil, err
	}

	if hit {
		metrics.RecordCacheHit()
	} else {
		metrics.RecordCacheMiss()
	}

	result, ok := value.(cachedResult)
	if !ok {
		return nil, fmt.Errorf("unexpected cache value type %T for key %s", value, key)
	}

	elapsed := time.Since(start)
	outcome := "served"
	if len(result.Items) == 0 {
		outcome = "empty"
	}
	metrics.RecordRecommendation("category", outcome, elapsed.Seconds())

	e.logger.Debug().
		Str("category", category).
		Int("count", len(result.Items)).
		Bool("from_cache", hit).
		Dur("duration", elapsed).
		Msg("category recommendations computed")

	return &CategoryResponse{
		Category:  category,
		Items:     result.Items,
		FromCache: hit,
		Duration:  elapsed,
	}, nil
}

// Similarity computes the Pearson correlation between two users' ratings.
func (e *Engine) Similarity(ctx context.Context, userID, candidateID int) (float64, error) {
	for _, id := range []int{userID, candidateID} {
		if _, ok, err := e.source.GetUser(ctx, id); err != nil {
			return 0, fmt.Errorf("look up user %d: %w", id, err)
		} else if !ok {
			return 0, fmt.Errorf("%w: id %d", ErrUnknownUser, id)
		}
	}

	snap, err := BuildSnapshot(ctx, e.source, e.logger)
	if err != nil {
		return 0, fmt.Errorf("build snapshot: %w", err)
	}

	return Pearson(snap.Vector(userID), snap.Vector(candidateID)), nil
}

// OnItemChanged handles a catalog change: any cached result may reference
// the item, so everything goes.
func (e *Engine) OnItemChanged(itemID int) {
	e.cache.Clear()
	metrics.RecordCacheInvalidation("all")
	e.logger.Info().Int("item_id", itemID).Msg("catalog changed, result cache cleared")
}

// OnRatingChanged handles a rating change by dropping the subject's cached
// results. Other subjects' entries stay; their fingerprints do not depend
// on this user's ratings, and neighborhood drift is bounded by the TTL.
func (e *Engine) OnRatingChanged(userID int) {
	removed := e.cache.DeletePrefix(subjectPrefix(userID))
	metrics.RecordCacheInvalidation("subject")
	e.logger.Info().Int("user_id", userID).Int("removed", removed).Msg("rating changed, subject cache invalidated")
}

// ttlFor picks the cache TTL for results served by the named strategy.
func (e *Engine) ttlFor(served string) time.Duration {
	switch served {
	case "popularity", "external":
		return e.config.PopularTTL
	default:
		return e.config.PersonalTTL
	}
}

// outcomeOf classifies a completed request for metrics.
func outcomeOf(requested string, result cachedResult) string {
	switch {
	case len(result.Items) == 0:
		return "empty"
	case result.Served != requested:
		return "fallback"
	default:
		return "served"
	}
}

// cacheKey builds the result cache key for one (subject, strategy, taste)
// combination.
func cacheKey(userID int, strategy, fingerprint string) string {
	return fmt.Sprintf("rec:%d:%s:%s", userID, strategy, fingerprint)
}

// subjectPrefix is the key prefix shared by all of a subject's entries.
// Subject IDs are numeric, so it can never collide with category keys.
func subjectPrefix(userID int) string {
	return fmt.Sprintf("rec:%d:", userID)
}

// categoryKey builds the cache key for one category ranking.
func categoryKey(category string, limit int) string {
	return fmt.Sprintf("rec:category:%s:%d", category, limit)
}
