// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reelrank/config.yaml",
	"/etc/reelrank/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load loads configuration using koanf v2 with layered sources:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables (highest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// REELRANK_SERVER_PORT -> server.port, LOG_LEVEL -> logging.level
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices when
// they arrive as env var strings.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML), skip
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names to koanf config paths.
// Unmapped variables are ignored so arbitrary env vars never pollute the
// configuration.
var envMappings = map[string]string{
	"http_host":           "server.host",
	"http_port":           "server.port",
	"http_timeout":        "server.request_timeout",
	"shutdown_timeout":    "server.shutdown_timeout",
	"rate_limit_requests": "server.rate_limit_requests",
	"rate_limit_window":   "server.rate_limit_window",
	"cors_origins":        "server.cors_origins",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"engine_default_strategy":      "engine.default_strategy",
	"engine_default_limit":         "engine.default_limit",
	"engine_max_limit":             "engine.max_limit",
	"engine_similarity_threshold":  "engine.similarity_threshold",
	"engine_neighborhood_size":     "engine.neighborhood_size",
	"engine_min_neighbor_rating":   "engine.min_neighbor_rating",
	"engine_collaborative_weight":  "engine.collaborative_weight",
	"engine_content_weight":        "engine.content_weight",

	"cache_personal_ttl":     "cache.personal_ttl",
	"cache_popular_ttl":      "cache.popular_ttl",
	"cache_cleanup_interval": "cache.cleanup_interval",

	"events_buffer_size":            "events.buffer_size",
	"events_retry_max_retries":      "events.retry_max_retries",
	"events_retry_initial_interval": "events.retry_initial_interval",
	"events_retry_max_interval":     "events.retry_max_interval",
	"events_close_timeout":          "events.close_timeout",

	"proposer_enabled":              "proposer.enabled",
	"proposer_base_url":             "proposer.base_url",
	"proposer_timeout":              "proposer.timeout",
	"proposer_requests_per_second":  "proposer.requests_per_second",
	"proposer_burst":                "proposer.burst",
	"proposer_breaker_max_failures": "proposer.breaker_max_failures",
	"proposer_breaker_open_timeout": "proposer.breaker_open_timeout",

	"seed_path": "seed.path",
}

// envTransformFunc transforms environment variable names to koanf paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - LOG_LEVEL -> logging.level
//   - CACHE_PERSONAL_TTL -> cache.personal_ttl
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	// Unmapped keys are skipped.
	return ""
}
