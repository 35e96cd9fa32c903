// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package events

import (
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/gamehoard/gamehoard/internal/ingest"
	"github.com/gamehoard/gamehoard/internal/models"
)

func TestBusDeliversImportCompleted(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := bus.Subscribe(ctx, TopicImportCompleted)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	sent := ingest.ImportCompletedEvent{
		JobID:     uuid.New(),
		AccountID: uuid.New(),
		DeviceID:  uuid.New(),
		Counts:    models.ImportCounts{Received: 3, Created: 2, Updated: 1},
	}
	if err := bus.PublishImportCompleted(ctx, sent); err != nil {
		t.Fatalf("PublishImportCompleted: %v", err)
	}

	select {
	case msg := <-messages:
		var got ingest.ImportCompletedEvent
		if err := json.Unmarshal(msg.Payload, &got); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		msg.Ack()

		if got.JobID != sent.JobID {
			t.Errorf("job_id = %s, want %s", got.JobID, sent.JobID)
		}
		if got.Counts.Created != 2 {
			t.Errorf("created = %d, want 2", got.Counts.Created)
		}
		if msg.Metadata.Get("account_id") != sent.AccountID.String() {
			t.Errorf("account_id metadata = %q", msg.Metadata.Get("account_id"))
		}
	case <-ctx.Done():
		t.Fatal("no event delivered before timeout")
	}
}

func TestSubscriberStopsOnContextCancel(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	sub := NewImportLogSubscriber(bus)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- sub.Serve(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("subscriber did not stop")
	}
}
