// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Bus is the in-process pub/sub channel for invalidation events. The
// single gochannel instance acts as both publisher and subscriber, so
// messages never leave the process.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates the bus. bufferSize bounds the per-subscriber channel;
// publishing blocks once a slow consumer falls that far behind.
func NewBus(bufferSize int, logger watermill.LoggerAdapter) *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: int64(bufferSize),
		}, logger),
	}
}

// PublishItemChanged announces a catalog item change.
func (b *Bus) PublishItemChanged(ctx context.Context, itemID int, change Change) error {
	return b.publish(ctx, TopicItemChanged, ItemChanged{
		ItemID:     itemID,
		Change:     change,
		OccurredAt: time.Now().UTC(),
	})
}

// PublishRatingChanged announces a rating change for one user.
func (b *Bus) PublishRatingChanged(ctx context.Context, userID, itemID int) error {
	return b.publish(ctx, TopicRatingChanged, RatingChanged{
		UserID:     userID,
		ItemID:     itemID,
		OccurredAt: time.Now().UTC(),
	})
}

func (b *Bus) publish(ctx context.Context, topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}

	msg := message.NewMessage(uuid.NewString(), data)
	msg.SetContext(ctx)

	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Subscriber exposes the bus for router handler registration.
func (b *Bus) Subscriber() message.Subscriber {
	return b.pubsub
}

// Close shuts the bus down; pending subscribers are released.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
