// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gamehoard/gamehoard/internal/catalog"
	"github.com/gamehoard/gamehoard/internal/logging"
	"github.com/gamehoard/gamehoard/internal/metrics"
	"github.com/gamehoard/gamehoard/internal/models"
	"github.com/gamehoard/gamehoard/internal/playnite"
)

// ImportCompletedEvent is published after a successful import.
type ImportCompletedEvent struct {
	JobID     uuid.UUID           `json:"job_id"`
	AccountID uuid.UUID           `json:"account_id"`
	DeviceID  uuid.UUID           `json:"device_id"`
	Counts    models.ImportCounts `json:"counts"`
}

// EventPublisher receives import lifecycle events. Nil disables
// publishing.
type EventPublisher interface {
	PublishImportCompleted(ctx context.Context, event ImportCompletedEvent) error
}

// ImportRequest is one authenticated, validated batch ready for
// reconciliation.
type ImportRequest struct {
	OwnerID   uuid.UUID
	AccountID uuid.UUID
	DeviceID  uuid.UUID
	Payload   *models.PlayniteImportRequest
}

// Importer runs the sequential reconciliation pass over one batch.
//
// Entries are processed strictly in order: later entries' identity
// resolution can depend on mappings created earlier in the same batch.
// A per-entry failure aborts the whole batch; partial catalog creation
// under the cross-identity invariant is worse than a clean retry of the
// idempotent batch.
type Importer struct {
	reconciler *Reconciler
	projector  *Projector
	sweeper    *Sweeper
	resolver   CatalogResolver
	jobs       JobStore
	events     EventPublisher
}

// NewImporter wires the import engine.
func NewImporter(reconciler *Reconciler, projector *Projector, sweeper *Sweeper, resolver CatalogResolver, jobs JobStore, events EventPublisher) *Importer {
	return &Importer{
		reconciler: reconciler,
		projector:  projector,
		sweeper:    sweeper,
		resolver:   resolver,
		jobs:       jobs,
		events:     events,
	}
}

// Import reconciles one batch and returns the response counts. The
// wrapping sync job transitions to FAILED and the error is re-raised if
// any entry fails.
func (im *Importer) Import(ctx context.Context, req ImportRequest) (*models.ImportResult, error) {
	started := time.Now()

	deviceID := req.DeviceID
	tracker, err := NewJob(ctx, im.jobs, req.AccountID, &deviceID, "import")
	if err != nil {
		return nil, fmt.Errorf("create sync job: %w", err)
	}
	if err := tracker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start sync job: %w", err)
	}

	result, err := im.run(ctx, req)
	if err != nil {
		metrics.ImportsTotal.WithLabelValues("failed").Inc()
		if failErr := tracker.Fail(ctx, err); failErr != nil {
			logging.Error().Err(failErr).Msg("Failed to record sync job failure")
		}
		return nil, err
	}

	if err := tracker.Complete(ctx, result.Counts.Received, result.Counts.Created, result.Counts.Updated); err != nil {
		return nil, fmt.Errorf("complete sync job: %w", err)
	}

	metrics.ImportsTotal.WithLabelValues("completed").Inc()
	metrics.ImportEntriesTotal.Add(float64(result.Counts.Received))
	metrics.ImportDuration.Observe(time.Since(started).Seconds())

	if im.events != nil {
		event := ImportCompletedEvent{
			JobID:     tracker.Job().ID,
			AccountID: req.AccountID,
			DeviceID:  req.DeviceID,
			Counts:    result.Counts,
		}
		if err := im.events.PublishImportCompleted(ctx, event); err != nil {
			logging.Warn().Err(err).Msg("Failed to publish import event")
		}
	}

	logging.Info().
		Str("account_id", req.AccountID.String()).
		Str("device_id", req.DeviceID.String()).
		Int("received", result.Counts.Received).
		Int("created", result.Counts.Created).
		Int("updated", result.Counts.Updated).
		Int("soft_removed", result.Counts.SoftRemoved).
		Dur("elapsed", time.Since(started)).
		Msg("Import completed")

	return result, nil
}

// run executes the reconciliation loop and the closing sweep.
func (im *Importer) run(ctx context.Context, req ImportRequest) (*models.ImportResult, error) {
	counts := models.ImportCounts{Received: len(req.Payload.Games)}
	warnings := make(map[string]int)
	seen := make(map[string]struct{}, len(req.Payload.Games))

	for i := range req.Payload.Games {
		game := &req.Payload.Games[i]

		resolved := playnite.ResolveEntitlementKey(game)
		if resolved.Warning != "" {
			warnings[resolved.Warning]++
		}
		if resolved.NeedsReview {
			counts.NeedsReview++
		}
		seen[resolved.Key] = struct{}{}

		entryOutcome, _, err := im.reconciler.Reconcile(ctx, req.AccountID, resolved.Key, game)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", resolved.Key, err)
		}

		mapping, err := im.resolver.Resolve(ctx, catalog.ResolveInput{
			Key:                      resolved.Key,
			OriginalProviderPluginID: game.OriginalProviderPluginID,
			OriginalProviderGameID:   game.OriginalProviderGameID,
			DisplayName:              game.Name,
			Platform:                 firstPlatform(game.Platforms),
			NeedsReview:              resolved.NeedsReview,
		})
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", resolved.Key, err)
		}

		itemOutcome, err := im.projector.Project(ctx, ProjectInput{
			OwnerID:     req.OwnerID,
			AccountID:   req.AccountID,
			Key:         resolved.Key,
			Game:        game,
			ReleaseID:   mapping.ReleaseID,
			NeedsReview: resolved.NeedsReview,
		})
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", resolved.Key, err)
		}

		switch maxOutcome(entryOutcome, itemOutcome) {
		case OutcomeCreated:
			counts.Created++
		case OutcomeUpdated:
			counts.Updated++
		default:
			counts.Unchanged++
		}
	}

	removed, err := im.sweeper.Sweep(ctx, req.AccountID, seen)
	if err != nil {
		return nil, fmt.Errorf("soft-removal sweep: %w", err)
	}
	counts.SoftRemoved = removed

	return &models.ImportResult{
		DeviceID:   req.DeviceID.String(),
		ImportedAt: time.Now().UTC(),
		Counts:     counts,
		Warnings:   collectWarnings(warnings),
	}, nil
}

// firstPlatform picks the entry's stated platform, defaulting later to
// "PC" in the resolver.
func firstPlatform(platforms []string) string {
	if len(platforms) == 0 {
		return ""
	}
	return platforms[0]
}

// collectWarnings flattens the aggregated warning counts.
func collectWarnings(warnings map[string]int) []models.ImportWarning {
	out := make([]models.ImportWarning, 0, len(warnings))
	for code, count := range warnings {
		out = append(out, models.ImportWarning{Code: code, Count: count})
	}
	return out
}
