// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration failed validation: %v", err)
	}
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Engine.DefaultStrategy != "hybrid" {
		t.Errorf("default strategy = %q, want hybrid", cfg.Engine.DefaultStrategy)
	}
	if cfg.Engine.SimilarityThreshold != 0.3 {
		t.Errorf("similarity threshold = %v, want 0.3", cfg.Engine.SimilarityThreshold)
	}
	if cfg.Engine.NeighborhoodSize != 10 {
		t.Errorf("neighborhood size = %d, want 10", cfg.Engine.NeighborhoodSize)
	}
	if cfg.Cache.PersonalTTL != 30*time.Minute {
		t.Errorf("personal TTL = %v, want 30m", cfg.Cache.PersonalTTL)
	}
	if cfg.Cache.PopularTTL != time.Hour {
		t.Errorf("popular TTL = %v, want 1h", cfg.Cache.PopularTTL)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"default limit zero", func(c *Config) { c.Engine.DefaultLimit = 0 }},
		{"max below default", func(c *Config) { c.Engine.MaxLimit = 5; c.Engine.DefaultLimit = 10 }},
		{"threshold out of range", func(c *Config) { c.Engine.SimilarityThreshold = 1.5 }},
		{"zero neighborhood", func(c *Config) { c.Engine.NeighborhoodSize = 0 }},
		{"zero weights", func(c *Config) { c.Engine.CollaborativeWeight = 0; c.Engine.ContentWeight = 0 }},
		{"zero ttl", func(c *Config) { c.Cache.PersonalTTL = 0 }},
		{"proposer without url", func(c *Config) { c.Proposer.Enabled = true; c.Proposer.BaseURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadLayersFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte("server:\n  port: 9000\nengine:\n  default_strategy: content\n")
	if err := os.WriteFile(path, yaml, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000 from file", cfg.Server.Port)
	}
	if cfg.Engine.DefaultStrategy != "content" {
		t.Errorf("strategy = %q, want content from file", cfg.Engine.DefaultStrategy)
	}
	// Untouched values keep defaults.
	if cfg.Engine.NeighborhoodSize != 10 {
		t.Errorf("neighborhood size = %d, want default 10", cfg.Engine.NeighborhoodSize)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d, want 9100 from env", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug from env", cfg.Logging.Level)
	}
}

func TestLoadCommaSeparatedCORSOrigins(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.Server.CORSOrigins) != 2 {
		t.Fatalf("cors origins = %v, want 2 entries", cfg.Server.CORSOrigins)
	}
	if cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Errorf("second origin = %q, want trimmed value", cfg.Server.CORSOrigins[1])
	}
}

func TestEnvTransformFuncSkipsUnmapped(t *testing.T) {
	if got := envTransformFunc("PATH"); got != "" {
		t.Errorf("envTransformFunc(PATH) = %q, want empty", got)
	}
	if got := envTransformFunc("HTTP_PORT"); got != "server.port" {
		t.Errorf("envTransformFunc(HTTP_PORT) = %q, want server.port", got)
	}
}
