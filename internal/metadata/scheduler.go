// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package metadata

import (
	"context"
	"errors"
	"time"

	"github.com/gamehoard/gamehoard/internal/logging"
)

// ResyncScheduler runs catalog-wide enrichment passes as a supervised
// service. API handlers request a pass via Trigger; the pass itself
// runs on the supervisor's context so shutdown interrupts it cleanly.
type ResyncScheduler struct {
	pipeline *Pipeline
	delay    time.Duration
	trigger  chan struct{}
}

// NewResyncScheduler wraps a pipeline for supervised resync runs. The
// delay is the per-title pacing; zero uses the pipeline default.
func NewResyncScheduler(pipeline *Pipeline, delay time.Duration) *ResyncScheduler {
	return &ResyncScheduler{
		pipeline: pipeline,
		delay:    delay,
		trigger:  make(chan struct{}, 1),
	}
}

// Trigger requests a resync pass. Returns false when a pass is already
// queued; at most one request is held while a pass runs.
func (s *ResyncScheduler) Trigger() bool {
	select {
	case s.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Serve implements suture.Service. Each trigger runs one full catalog
// pass; failures are logged and the service keeps waiting for the next
// trigger rather than crash-looping under the supervisor.
func (s *ResyncScheduler) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.trigger:
			if _, err := s.pipeline.ResyncAll(ctx, s.delay); err != nil {
				if errors.Is(err, context.Canceled) {
					return ctx.Err()
				}
				logging.Error().Err(err).Msg("Catalog resync aborted")
			}
		}
	}
}

// String identifies the service in supervisor logs.
func (s *ResyncScheduler) String() string {
	return "metadata-resync"
}
