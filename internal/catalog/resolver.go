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

	"github.com/gamehoard/gamehoard/internal/database"
	"github.com/gamehoard/gamehoard/internal/logging"
	"github.com/gamehoard/gamehoard/internal/metrics"
	"github.com/gamehoard/gamehoard/internal/models"
	"github.com/gamehoard/gamehoard/internal/playnite"
)

// ResolveInput carries one incoming entry's identity into the resolver.
type ResolveInput struct {
	// Key is the resolved entitlement key, used as the aggregator
	// identity.
	Key string

	// OriginalProviderPluginID and OriginalProviderGameID name the
	// underlying storefront identity, when present.
	OriginalProviderPluginID string
	OriginalProviderGameID   string

	DisplayName string
	Platform    string

	// NeedsReview marks an ambiguous identity; new mappings are created
	// PENDING instead of MAPPED and surface in the manual-resolution
	// queue.
	NeedsReview bool
}

// ResolveResult is the outcome of one identity resolution.
type ResolveResult struct {
	TitleID   uuid.UUID
	ReleaseID uuid.UUID

	// Created is true when a new title/release pair was created.
	Created bool
}

// Resolver binds external identities to canonical catalog entities.
//
// A mapping once MAPPED is never silently re-bound to a different
// release here; that requires an explicit merge operation.
type Resolver struct {
	store Store
}

// NewResolver creates a catalog resolver over the given store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve resolves one incoming identity to a catalog release, creating
// entities as needed.
//
// Lookup order:
//
//  1. Aggregator identity (playnite, key). Any existing mapping with a
//     bound release is reused, including PENDING ones, so a replayed
//     needs-review import does not create duplicate titles.
//  2. Original-provider identity, when resolvable. Only a MAPPED
//     binding is reused across identity spaces; the aggregator identity
//     is then bound to the same release, preventing duplicate catalog
//     entries when the same game arrives via two identity spaces.
//  3. Create a new title and release, plus mappings for every
//     resolvable identity.
func (r *Resolver) Resolve(ctx context.Context, in ResolveInput) (*ResolveResult, error) {
	existing, err := r.store.GetMapping(ctx, playnite.Aggregator, in.Key)
	if err != nil && !errors.Is(err, database.ErrMappingNotFound) {
		return nil, fmt.Errorf("aggregator mapping lookup: %w", err)
	}
	if existing != nil && existing.ReleaseID != nil {
		return &ResolveResult{TitleID: existing.TitleID, ReleaseID: *existing.ReleaseID}, nil
	}

	originalProvider := playnite.NormalizeProvider(in.OriginalProviderPluginID)
	originalResolvable := originalProvider != playnite.ProviderUnknown && in.OriginalProviderGameID != ""

	if originalResolvable {
		original, err := r.store.GetMapping(ctx, originalProvider, in.OriginalProviderGameID)
		if err != nil && !errors.Is(err, database.ErrMappingNotFound) {
			return nil, fmt.Errorf("original-provider mapping lookup: %w", err)
		}
		if original != nil && original.Status == models.MappingStatusMapped && original.ReleaseID != nil {
			if err := r.bindAggregatorIdentity(ctx, in, original.TitleID, *original.ReleaseID); err != nil {
				return nil, err
			}
			logging.Debug().
				Str("key", in.Key).
				Str("provider", originalProvider).
				Str("release_id", original.ReleaseID.String()).
				Msg("Reused catalog release via original-provider identity")
			return &ResolveResult{TitleID: original.TitleID, ReleaseID: *original.ReleaseID}, nil
		}
	}

	return r.createCatalogEntities(ctx, in, originalProvider, originalResolvable)
}

// bindAggregatorIdentity creates or re-binds the aggregator mapping to
// an already-resolved release.
func (r *Resolver) bindAggregatorIdentity(ctx context.Context, in ResolveInput, titleID, releaseID uuid.UUID) error {
	existing, err := r.store.GetMapping(ctx, playnite.Aggregator, in.Key)
	if err != nil && !errors.Is(err, database.ErrMappingNotFound) {
		return fmt.Errorf("aggregator mapping lookup: %w", err)
	}

	if existing != nil {
		// An unbound mapping record (no release) gets completed here.
		existing.TitleID = titleID
		existing.ReleaseID = &releaseID
		existing.Status = models.MappingStatusMapped
		if err := r.store.UpdateMapping(ctx, existing); err != nil {
			return fmt.Errorf("bind aggregator mapping: %w", err)
		}
		return nil
	}

	mapping := &models.GameExternalMapping{
		Provider:       playnite.Aggregator,
		ExternalGameID: in.Key,
		TitleID:        titleID,
		ReleaseID:      &releaseID,
		Status:         models.MappingStatusMapped,
		DisplayName:    in.DisplayName,
	}
	if err := r.store.CreateMapping(ctx, mapping); err != nil {
		return fmt.Errorf("create aggregator mapping: %w", err)
	}
	return nil
}

// createCatalogEntities creates a new title, release, and mappings for
// every resolvable identity of the incoming entry.
func (r *Resolver) createCatalogEntities(ctx context.Context, in ResolveInput, originalProvider string, originalResolvable bool) (*ResolveResult, error) {
	title := &models.GameTitle{
		Name:        in.DisplayName,
		GameType:    "game",
		Description: "",
		MinPlayers:  1,
		MaxPlayers:  1,
	}
	if err := r.store.CreateGameTitle(ctx, title); err != nil {
		return nil, fmt.Errorf("create title: %w", err)
	}

	platform := in.Platform
	if platform == "" {
		platform = "PC"
	}
	release := &models.GameRelease{
		TitleID:  title.ID,
		Platform: platform,
	}
	if err := r.store.CreateGameRelease(ctx, release); err != nil {
		return nil, fmt.Errorf("create release: %w", err)
	}

	status := models.MappingStatusMapped
	if in.NeedsReview {
		status = models.MappingStatusPending
	}

	aggregatorMapping := &models.GameExternalMapping{
		Provider:       playnite.Aggregator,
		ExternalGameID: in.Key,
		TitleID:        title.ID,
		ReleaseID:      &release.ID,
		Status:         status,
		DisplayName:    in.DisplayName,
	}
	if err := r.store.CreateMapping(ctx, aggregatorMapping); err != nil {
		return nil, fmt.Errorf("create aggregator mapping: %w", err)
	}
	if status == models.MappingStatusPending {
		metrics.PendingMappings.Inc()
	}

	if originalResolvable {
		originalMapping := &models.GameExternalMapping{
			Provider:       originalProvider,
			ExternalGameID: in.OriginalProviderGameID,
			TitleID:        title.ID,
			ReleaseID:      &release.ID,
			Status:         status,
			DisplayName:    in.DisplayName,
		}
		if err := r.store.CreateMapping(ctx, originalMapping); err != nil {
			// Replayed batches may race on the same original identity;
			// a conflict means another entry just bound it.
			if !errors.Is(err, database.ErrMappingConflict) {
				return nil, fmt.Errorf("create original-provider mapping: %w", err)
			}
		} else if status == models.MappingStatusPending {
			metrics.PendingMappings.Inc()
		}
	}

	logging.Info().
		Str("key", in.Key).
		Str("title_id", title.ID.String()).
		Str("status", status).
		Msg("Created catalog entities for new external identity")

	return &ResolveResult{TitleID: title.ID, ReleaseID: release.ID, Created: true}, nil
}

// PendingQueue returns the manual-resolution queue: mappings created
// from ambiguous identities, oldest first. The pending gauge is
// re-anchored to the authoritative count on every read, which corrects
// any drift after a restart.
func (r *Resolver) PendingQueue(ctx context.Context) ([]models.GameExternalMapping, error) {
	pending, err := r.store.ListMappingsByStatus(ctx, models.MappingStatusPending)
	if err != nil {
		return nil, err
	}
	metrics.PendingMappings.Set(float64(len(pending)))
	return pending, nil
}
