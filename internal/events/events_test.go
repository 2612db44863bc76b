// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/reelrank/reelrank/internal/config"
)

// recordingEngine captures invalidation calls for assertions.
type recordingEngine struct {
	mu            sync.Mutex
	itemChanges   []int
	ratingChanges []int
}

func (r *recordingEngine) OnItemChanged(itemID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.itemChanges = append(r.itemChanges, itemID)
}

func (r *recordingEngine) OnRatingChanged(userID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ratingChanges = append(r.ratingChanges, userID)
}

func (r *recordingEngine) snapshot() (items, ratings []int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.itemChanges...), append([]int(nil), r.ratingChanges...)
}

func eventsConfig() config.EventsConfig {
	return config.EventsConfig{
		BufferSize:           16,
		RetryMaxRetries:      1,
		RetryInitialInterval: time.Millisecond,
		RetryMaxInterval:     10 * time.Millisecond,
		CloseTimeout:         time.Second,
	}
}

// startInvalidator runs the router and blocks until its handlers consume.
func startInvalidator(t *testing.T, bus *Bus, engine CacheInvalidating) context.CancelFunc {
	t.Helper()

	inv, err := NewInvalidator(bus, engine, eventsConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewInvalidator failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_ = inv.Serve(ctx)
	}()

	select {
	case <-inv.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("invalidator did not start")
	}
	return cancel
}

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestItemChangeReachesEngine(t *testing.T) {
	bus := NewBus(16, NewLoggerAdapter(zerolog.Nop()))
	defer bus.Close()
	engine := &recordingEngine{}
	cancel := startInvalidator(t, bus, engine)
	defer cancel()

	if err := bus.PublishItemChanged(context.Background(), 42, ChangeUpdated); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	waitFor(t, func() bool {
		items, _ := engine.snapshot()
		return len(items) == 1 && items[0] == 42
	})
}

func TestRatingChangeReachesEngine(t *testing.T) {
	bus := NewBus(16, NewLoggerAdapter(zerolog.Nop()))
	defer bus.Close()
	engine := &recordingEngine{}
	cancel := startInvalidator(t, bus, engine)
	defer cancel()

	if err := bus.PublishRatingChanged(context.Background(), 7, 42); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	waitFor(t, func() bool {
		_, ratings := engine.snapshot()
		return len(ratings) == 1 && ratings[0] == 7
	})
}

func TestTopicsDoNotCrossOver(t *testing.T) {
	bus := NewBus(16, NewLoggerAdapter(zerolog.Nop()))
	defer bus.Close()
	engine := &recordingEngine{}
	cancel := startInvalidator(t, bus, engine)
	defer cancel()

	if err := bus.PublishItemChanged(context.Background(), 1, ChangeDeleted); err != nil {
		t.Fatal(err)
	}
	if err := bus.PublishItemChanged(context.Background(), 2, ChangeCreated); err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool {
		items, _ := engine.snapshot()
		return len(items) == 2
	})
	if _, ratings := engine.snapshot(); len(ratings) != 0 {
		t.Errorf("rating invalidations = %v, want none", ratings)
	}
}

func TestEventPayloadRoundTrip(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	data, err := json.Marshal(ItemChanged{ItemID: 9, Change: ChangeDeleted, OccurredAt: now})
	if err != nil {
		t.Fatal(err)
	}

	var ev ItemChanged
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatal(err)
	}
	if ev.ItemID != 9 || ev.Change != ChangeDeleted || !ev.OccurredAt.Equal(now) {
		t.Errorf("round trip = %+v", ev)
	}
}
