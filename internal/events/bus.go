// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

// Package events wires import lifecycle events onto an in-process
// Watermill pub/sub so interested components (the activity log
// subscriber today, webhooks later) decouple from the import path.
package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/gamehoard/gamehoard/internal/ingest"
)

// TopicImportCompleted carries ImportCompletedEvent payloads.
const TopicImportCompleted = "import.completed"

// Bus is the in-process event bus. Publishing never blocks the import
// path beyond the channel hand-off.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates the bus. The output buffer absorbs slow subscribers so
// imports are not back-pressured by event consumers.
func NewBus() *Bus {
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, watermill.NopLogger{})
	return &Bus{pubsub: pubsub}
}

// PublishImportCompleted implements ingest.EventPublisher.
func (b *Bus) PublishImportCompleted(_ context.Context, event ingest.ImportCompletedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode import event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)
	msg.Metadata.Set("account_id", event.AccountID.String())

	if err := b.pubsub.Publish(TopicImportCompleted, msg); err != nil {
		return fmt.Errorf("publish import event: %w", err)
	}
	return nil
}

// Subscribe returns a channel of messages for a topic.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

// Close shuts the bus down; open subscriber channels are closed.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
