// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package events

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/gamehoard/gamehoard/internal/ingest"
	"github.com/gamehoard/gamehoard/internal/logging"
)

// ImportLogSubscriber consumes import.completed events and writes one
// structured activity line per import. It runs as a service under the
// supervision tree.
type ImportLogSubscriber struct {
	bus *Bus
}

// NewImportLogSubscriber creates the subscriber.
func NewImportLogSubscriber(bus *Bus) *ImportLogSubscriber {
	return &ImportLogSubscriber{bus: bus}
}

// Serve implements suture.Service. It returns when the context is
// cancelled or the bus closes.
func (s *ImportLogSubscriber) Serve(ctx context.Context) error {
	messages, err := s.bus.Subscribe(ctx, TopicImportCompleted)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}

			var event ingest.ImportCompletedEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				logging.Warn().Err(err).Str("message_id", msg.UUID).Msg("Malformed import event")
				msg.Ack()
				continue
			}

			logging.Info().
				Str("job_id", event.JobID.String()).
				Str("account_id", event.AccountID.String()).
				Str("device_id", event.DeviceID.String()).
				Int("created", event.Counts.Created).
				Int("updated", event.Counts.Updated).
				Int("unchanged", event.Counts.Unchanged).
				Int("soft_removed", event.Counts.SoftRemoved).
				Msg("Library import completed")
			msg.Ack()
		}
	}
}

// String names the service in supervisor logs.
func (s *ImportLogSubscriber) String() string {
	return "import-log-subscriber"
}
