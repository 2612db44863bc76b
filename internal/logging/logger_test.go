// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"disabled", zerolog.Disabled},
		{"INFO", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestInitJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Info().Str("component", "test").Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"component":"test"`) {
		t.Errorf("expected structured field in output, got %q", out)
	}
	if !strings.Contains(out, `"message":"hello"`) {
		t.Errorf("expected message in output, got %q", out)
	}
}

func TestInitRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Info().Msg("should not appear")
	Warn().Msg("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Error("info message logged at warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn message missing at warn level")
	}
}

func TestSlogHandlerWritesThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	zl := NewTestLogger(&buf)
	logger := slog.New(NewSlogHandlerWithLogger(zl))

	logger.Info("supervisor event", slog.String("service", "http-server"), slog.Int("restarts", 2))

	out := buf.String()
	if !strings.Contains(out, `"service":"http-server"`) {
		t.Errorf("expected slog attr in zerolog output, got %q", out)
	}
	if !strings.Contains(out, `"restarts":2`) {
		t.Errorf("expected int attr in zerolog output, got %q", out)
	}
}

func TestSlogHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	zl := NewTestLogger(&buf)
	logger := slog.New(NewSlogHandlerWithLogger(zl)).WithGroup("suture")

	logger.Warn("restarting", slog.String("service", "invalidator"))

	if !strings.Contains(buf.String(), `"suture.service":"invalidator"`) {
		t.Errorf("expected group-prefixed key, got %q", buf.String())
	}
}
