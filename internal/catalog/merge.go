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
)

// Merge operation kinds. Merging is the only way a MAPPED binding may
// move to a different release.
const (
	MergeKindTitles    = "titles"     // fold source title into target title
	MergeKindReleases  = "releases"   // fold source release into target release
	MergeKindAsRelease = "as_release" // move source release under target title
)

// MergeOperation is the tagged-variant request executed by Merge. One
// dispatcher handles all catalog restructuring instead of parallel
// near-duplicate entry points.
type MergeOperation struct {
	Kind     string    `json:"kind" validate:"required,oneof=titles releases as_release"`
	SourceID uuid.UUID `json:"source_id" validate:"required"`
	TargetID uuid.UUID `json:"target_id" validate:"required"`
}

// Merge errors
var (
	ErrMergeSelf        = errors.New("source and target of a merge must differ")
	ErrUnknownMergeKind = errors.New("unknown merge kind")
)

// Merge executes one catalog merge operation, re-pointing mappings and
// copies before deleting the emptied source entity.
func (r *Resolver) Merge(ctx context.Context, op MergeOperation) error {
	if op.SourceID == op.TargetID {
		return ErrMergeSelf
	}

	var err error
	switch op.Kind {
	case MergeKindTitles:
		err = r.mergeTitles(ctx, op.SourceID, op.TargetID)
	case MergeKindReleases:
		err = r.mergeReleases(ctx, op.SourceID, op.TargetID)
	case MergeKindAsRelease:
		err = r.mergeAsRelease(ctx, op.SourceID, op.TargetID)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMergeKind, op.Kind)
	}
	if err != nil {
		return err
	}

	logging.Info().
		Str("kind", op.Kind).
		Str("source_id", op.SourceID.String()).
		Str("target_id", op.TargetID.String()).
		Msg("Executed catalog merge")
	return nil
}

// mergeTitles folds every release and mapping of the source title into
// the target title, then deletes the source.
func (r *Resolver) mergeTitles(ctx context.Context, sourceID, targetID uuid.UUID) error {
	if _, err := r.store.GetGameTitle(ctx, sourceID); err != nil {
		return fmt.Errorf("source title: %w", err)
	}
	if _, err := r.store.GetGameTitle(ctx, targetID); err != nil {
		return fmt.Errorf("target title: %w", err)
	}

	if err := r.store.ReassignMappingsTitle(ctx, sourceID, targetID); err != nil {
		return err
	}
	if err := r.store.ReassignReleasesTitle(ctx, sourceID, targetID); err != nil {
		return err
	}
	return r.store.DeleteGameTitle(ctx, sourceID)
}

// mergeReleases re-points every copy and mapping from the source
// release to the target release, then deletes the source release and,
// if emptied, its title.
func (r *Resolver) mergeReleases(ctx context.Context, sourceID, targetID uuid.UUID) error {
	source, err := r.store.GetGameRelease(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("source release: %w", err)
	}
	target, err := r.store.GetGameRelease(ctx, targetID)
	if err != nil {
		return fmt.Errorf("target release: %w", err)
	}

	if err := r.store.ReassignItemsRelease(ctx, sourceID, targetID); err != nil {
		return err
	}
	if err := r.store.ReassignMappings(ctx, sourceID, target.TitleID, targetID); err != nil {
		return err
	}
	if err := r.store.DeleteGameRelease(ctx, sourceID); err != nil {
		return err
	}

	return r.deleteTitleIfEmpty(ctx, source.TitleID)
}

// mergeAsRelease moves the source release under the target title as an
// additional platform edition, keeping its copies and mappings.
func (r *Resolver) mergeAsRelease(ctx context.Context, sourceID, targetID uuid.UUID) error {
	source, err := r.store.GetGameRelease(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("source release: %w", err)
	}
	if _, err := r.store.GetGameTitle(ctx, targetID); err != nil {
		return fmt.Errorf("target title: %w", err)
	}
	if source.TitleID == targetID {
		return ErrMergeSelf
	}

	if err := r.store.UpdateReleaseTitle(ctx, sourceID, targetID); err != nil {
		return err
	}
	if err := r.store.ReassignMappings(ctx, sourceID, targetID, sourceID); err != nil {
		return err
	}

	return r.deleteTitleIfEmpty(ctx, source.TitleID)
}

// deleteTitleIfEmpty removes a title that no longer has releases.
func (r *Resolver) deleteTitleIfEmpty(ctx context.Context, titleID uuid.UUID) error {
	releases, err := r.store.ListGameReleases(ctx, titleID)
	if err != nil {
		return err
	}
	if len(releases) > 0 {
		return nil
	}
	return r.store.DeleteGameTitle(ctx, titleID)
}
