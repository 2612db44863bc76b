// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

// Package config defines the Reelrank configuration model and its layered
// loading (defaults, YAML file, environment variables) via koanf.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the service.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Engine   EngineConfig   `koanf:"engine"`
	Cache    CacheConfig    `koanf:"cache"`
	Events   EventsConfig   `koanf:"events"`
	Proposer ProposerConfig `koanf:"proposer"`
	Seed     SeedConfig     `koanf:"seed"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RateLimitReqs requests per RateLimitWindow per client IP.
	RateLimitReqs   int           `koanf:"rate_limit_requests"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// EngineConfig holds recommendation engine settings.
//
// The defaults encode the scoring model the engine ships with; they are
// configurable mainly for experimentation.
type EngineConfig struct {
	DefaultStrategy string `koanf:"default_strategy"`
	DefaultLimit    int    `koanf:"default_limit"`
	MaxLimit        int    `koanf:"max_limit"`

	// SimilarityThreshold is the minimum Pearson correlation for a user to
	// join a neighborhood.
	SimilarityThreshold float64 `koanf:"similarity_threshold"`

	// NeighborhoodSize caps the number of similar users consulted.
	NeighborhoodSize int `koanf:"neighborhood_size"`

	// MinNeighborRating is the minimum neighbor score for an item to become
	// a collaborative candidate.
	MinNeighborRating float64 `koanf:"min_neighbor_rating"`

	// CollaborativeWeight and ContentWeight blend the hybrid strategy.
	CollaborativeWeight float64 `koanf:"collaborative_weight"`
	ContentWeight       float64 `koanf:"content_weight"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	// PersonalTTL applies to collaborative, content and hybrid results.
	PersonalTTL time.Duration `koanf:"personal_ttl"`

	// PopularTTL applies to popularity and external proposal results.
	PopularTTL time.Duration `koanf:"popular_ttl"`

	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// EventsConfig holds invalidation bus settings (Watermill router middleware).
type EventsConfig struct {
	BufferSize           int           `koanf:"buffer_size"`
	RetryMaxRetries      int           `koanf:"retry_max_retries"`
	RetryInitialInterval time.Duration `koanf:"retry_initial_interval"`
	RetryMaxInterval     time.Duration `koanf:"retry_max_interval"`
	CloseTimeout         time.Duration `koanf:"close_timeout"`
}

// ProposerConfig holds external proposer client settings.
type ProposerConfig struct {
	Enabled bool          `koanf:"enabled"`
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`

	// RequestsPerSecond and Burst bound the client-side request rate.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`

	// BreakerMaxFailures consecutive failures open the circuit for
	// BreakerOpenTimeout.
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerOpenTimeout time.Duration `koanf:"breaker_open_timeout"`
}

// SeedConfig locates the JSON seed dataset loaded at startup.
type SeedConfig struct {
	Path string `koanf:"path"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8470,
			RequestTimeout:  10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Engine: EngineConfig{
			DefaultStrategy:     "hybrid",
			DefaultLimit:        10,
			MaxLimit:            100,
			SimilarityThreshold: 0.3,
			NeighborhoodSize:    10,
			MinNeighborRating:   4.0,
			CollaborativeWeight: 0.6,
			ContentWeight:       0.4,
		},
		Cache: CacheConfig{
			PersonalTTL:     30 * time.Minute,
			PopularTTL:      time.Hour,
			CleanupInterval: 5 * time.Minute,
		},
		Events: EventsConfig{
			BufferSize:           256,
			RetryMaxRetries:      3,
			RetryInitialInterval: 100 * time.Millisecond,
			RetryMaxInterval:     5 * time.Second,
			CloseTimeout:         30 * time.Second,
		},
		Proposer: ProposerConfig{
			Enabled:            false,
			BaseURL:            "",
			Timeout:            5 * time.Second,
			RequestsPerSecond:  5,
			Burst:              10,
			BreakerMaxFailures: 5,
			BreakerOpenTimeout: 30 * time.Second,
		},
		Seed: SeedConfig{
			Path: "",
		},
	}
}

// Validate checks the configuration for inconsistencies that would only
// surface later at runtime.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Engine.DefaultLimit < 1 {
		return fmt.Errorf("engine.default_limit must be at least 1, got %d", c.Engine.DefaultLimit)
	}
	if c.Engine.MaxLimit < c.Engine.DefaultLimit {
		return fmt.Errorf("engine.max_limit %d below engine.default_limit %d",
			c.Engine.MaxLimit, c.Engine.DefaultLimit)
	}
	if c.Engine.SimilarityThreshold < -1 || c.Engine.SimilarityThreshold > 1 {
		return fmt.Errorf("engine.similarity_threshold %.2f outside [-1, 1]", c.Engine.SimilarityThreshold)
	}
	if c.Engine.NeighborhoodSize < 1 {
		return fmt.Errorf("engine.neighborhood_size must be at least 1, got %d", c.Engine.NeighborhoodSize)
	}
	if w := c.Engine.CollaborativeWeight + c.Engine.ContentWeight; w <= 0 {
		return fmt.Errorf("hybrid weights must sum to a positive value, got %.2f", w)
	}
	if c.Cache.PersonalTTL <= 0 || c.Cache.PopularTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	if c.Proposer.Enabled && c.Proposer.BaseURL == "" {
		return fmt.Errorf("proposer.base_url required when proposer.enabled is true")
	}
	return nil
}
