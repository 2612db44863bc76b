// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package events

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

// zerologAdapter bridges Watermill's LoggerAdapter to zerolog so bus
// internals log through the same pipeline as everything else.
type zerologAdapter struct {
	logger zerolog.Logger
}

var _ watermill.LoggerAdapter = (*zerologAdapter)(nil)

// NewLoggerAdapter wraps a zerolog logger for Watermill.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewLoggerAdapter(logger zerolog.Logger) watermill.LoggerAdapter {
	return &zerologAdapter{logger: logger}
}

func (a *zerologAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.event(a.logger.Error().Err(err), fields).Msg(msg)
}

func (a *zerologAdapter) Info(msg string, fields watermill.LogFields) {
	a.event(a.logger.Info(), fields).Msg(msg)
}

func (a *zerologAdapter) Debug(msg string, fields watermill.LogFields) {
	a.event(a.logger.Debug(), fields).Msg(msg)
}

func (a *zerologAdapter) Trace(msg string, fields watermill.LogFields) {
	a.event(a.logger.Trace(), fields).Msg(msg)
}

func (a *zerologAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	ctx := a.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &zerologAdapter{logger: ctx.Logger()}
}

func (a *zerologAdapter) event(e *zerolog.Event, fields watermill.LogFields) *zerolog.Event {
	for k, v := range fields {
		e = e.Interface(k, v)
	}
	return e
}
