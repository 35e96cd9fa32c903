// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gamehoard/gamehoard/internal/database"
	"github.com/gamehoard/gamehoard/internal/models"
	"github.com/gamehoard/gamehoard/internal/playnite"
)

// ProjectInput carries one entry plus its resolved catalog identity
// into the projector.
type ProjectInput struct {
	OwnerID   uuid.UUID
	AccountID uuid.UUID

	Key         string
	Game        *models.PlayniteGame
	ReleaseID   uuid.UUID
	NeedsReview bool
}

// Projector materializes the user-visible copy record from an incoming
// entry and its resolved mapping. Its change predicate is deliberately
// distinct from the reconciler's: the copy tracks user-facing state
// including original-provider provenance, while the library entry
// tracks raw aggregator state.
type Projector struct {
	store ItemStore
}

// NewProjector creates a copy projector.
func NewProjector(store ItemStore) *Projector {
	return &Projector{store: store}
}

// Project finds the copy by its provenance triple and creates or
// updates it.
func (p *Projector) Project(ctx context.Context, in ProjectInput) (Outcome, error) {
	existing, err := p.store.GetItemByProvenance(ctx, playnite.Aggregator, in.AccountID, in.Key)
	if err != nil && !errors.Is(err, database.ErrItemNotFound) {
		return OutcomeUnchanged, fmt.Errorf("item lookup: %w", err)
	}

	canonicalTag := playnite.NormalizeProvider(in.Game.OriginalProviderPluginID)
	storeURL := playnite.ExtractStoreURL(in.Game.Links, canonicalTag, in.Game.OriginalProviderName)

	if existing == nil {
		item := &models.Item{
			OwnerID:   in.OwnerID,
			ReleaseID: in.ReleaseID,
			CopyType:  "digital_license",
			Lendable:  false,

			DisplayName:     in.Game.Name,
			PlaytimeMinutes: in.Game.PlaytimeMinutes(),
			IsInstalled:     in.Game.Installed,
			LastPlayedAt:    parseLastActivity(in.Game.LastActivity),
			StoreURL:        storeURL,

			AggregatorProvider:       playnite.Aggregator,
			AggregatorAccountID:      in.AccountID,
			AggregatorExternalGameID: in.Key,

			OriginalProviderPluginID: in.Game.OriginalProviderPluginID,
			OriginalProviderName:     in.Game.OriginalProviderName,
			OriginalProviderGameID:   optionalString(in.Game.OriginalProviderGameID),

			NeedsReview: in.NeedsReview,
		}
		if err := p.store.CreateItem(ctx, item); err != nil {
			return OutcomeUnchanged, err
		}
		return OutcomeCreated, nil
	}

	if !itemChanged(existing, in.Game) {
		return OutcomeUnchanged, nil
	}

	existing.DisplayName = in.Game.Name
	existing.PlaytimeMinutes = in.Game.PlaytimeMinutes()
	existing.IsInstalled = in.Game.Installed
	existing.LastPlayedAt = parseLastActivity(in.Game.LastActivity)
	if storeURL != nil {
		existing.StoreURL = storeURL
	}
	existing.OriginalProviderPluginID = in.Game.OriginalProviderPluginID
	existing.OriginalProviderName = in.Game.OriginalProviderName
	existing.OriginalProviderGameID = optionalString(in.Game.OriginalProviderGameID)

	if err := p.store.UpdateItem(ctx, existing); err != nil {
		return OutcomeUnchanged, err
	}
	return OutcomeUpdated, nil
}

// itemChanged is the copy change predicate: display name, playtime,
// install flag, and original-provider name/id.
func itemChanged(item *models.Item, game *models.PlayniteGame) bool {
	if item.DisplayName != game.Name {
		return true
	}
	if item.PlaytimeMinutes != game.PlaytimeMinutes() {
		return true
	}
	if !boolPtrEqual(item.IsInstalled, game.Installed) {
		return true
	}
	if item.OriginalProviderName != game.OriginalProviderName {
		return true
	}
	return !stringPtrEqual(item.OriginalProviderGameID, optionalString(game.OriginalProviderGameID))
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
