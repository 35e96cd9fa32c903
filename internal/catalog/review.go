// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gamehoard/gamehoard/internal/logging"
	"github.com/gamehoard/gamehoard/internal/metrics"
	"github.com/gamehoard/gamehoard/internal/models"
)

// ErrNotPending is returned when a review action targets a mapping that
// is not in the manual-resolution queue.
var ErrNotPending = errors.New("mapping is not pending review")

// ResolvePending confirms a pending mapping. When targetReleaseID
// differs from the mapping's provisional release, the provisional
// entities are folded into the target via a release merge; otherwise
// the mapping is simply promoted to MAPPED.
func (r *Resolver) ResolvePending(ctx context.Context, mappingID uuid.UUID, targetReleaseID uuid.UUID) error {
	mapping, err := r.store.GetMappingByID(ctx, mappingID)
	if err != nil {
		return err
	}
	if mapping.Status != models.MappingStatusPending {
		return ErrNotPending
	}

	if mapping.ReleaseID != nil && *mapping.ReleaseID != targetReleaseID {
		op := MergeOperation{
			Kind:     MergeKindReleases,
			SourceID: *mapping.ReleaseID,
			TargetID: targetReleaseID,
		}
		if err := r.Merge(ctx, op); err != nil {
			return fmt.Errorf("fold provisional release: %w", err)
		}
		// The merge re-pointed this mapping; reload before promoting.
		mapping, err = r.store.GetMappingByID(ctx, mappingID)
		if err != nil {
			return err
		}
	}

	target, err := r.store.GetGameRelease(ctx, targetReleaseID)
	if err != nil {
		return fmt.Errorf("target release: %w", err)
	}

	mapping.TitleID = target.TitleID
	mapping.ReleaseID = &targetReleaseID
	mapping.Status = models.MappingStatusMapped
	if err := r.store.UpdateMapping(ctx, mapping); err != nil {
		return err
	}
	metrics.PendingMappings.Dec()

	// The identity is no longer ambiguous; copies flagged at import
	// leave the review state too.
	if err := r.store.ClearItemsNeedsReview(ctx, mapping.Provider, mapping.ExternalGameID); err != nil {
		return fmt.Errorf("clear item review flags: %w", err)
	}

	logging.Info().
		Str("mapping_id", mappingID.String()).
		Str("release_id", targetReleaseID.String()).
		Msg("Resolved pending mapping")
	return nil
}

// IgnorePending marks a pending mapping IGNORED. Its provisional
// entities stay in place; the mapping just leaves the review queue and
// is still reused by replays of the same identity.
func (r *Resolver) IgnorePending(ctx context.Context, mappingID uuid.UUID) error {
	mapping, err := r.store.GetMappingByID(ctx, mappingID)
	if err != nil {
		return err
	}
	if mapping.Status != models.MappingStatusPending {
		return ErrNotPending
	}

	mapping.Status = models.MappingStatusIgnored
	if err := r.store.UpdateMapping(ctx, mapping); err != nil {
		return err
	}
	metrics.PendingMappings.Dec()

	logging.Info().Str("mapping_id", mappingID.String()).Msg("Ignored pending mapping")
	return nil
}
