// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/gamehoard/gamehoard/internal/database"
	"github.com/gamehoard/gamehoard/internal/models"
)

// Reconciler diffs one incoming entry against the stored library entry
// and is the authoritative signal for import statistics. It does not
// decide catalog identity.
type Reconciler struct {
	store EntryStore
}

// NewReconciler creates a library-entry reconciler.
func NewReconciler(store EntryStore) *Reconciler {
	return &Reconciler{store: store}
}

// Reconcile looks up the entry by (account, entitlement key) and
// creates or updates it.
//
// The change predicate covers display name, playtime, and the install
// flag. The raw payload is opaque and unstable, so it never triggers an
// update on its own; it is refreshed whenever a tracked field changed.
// An unchanged entry only gets its last-seen timestamp touched.
func (r *Reconciler) Reconcile(ctx context.Context, accountID uuid.UUID, key string, game *models.PlayniteGame) (Outcome, *models.ExternalLibraryEntry, error) {
	existing, err := r.store.GetLibraryEntry(ctx, accountID, key)
	if err != nil && !errors.Is(err, database.ErrEntryNotFound) {
		return OutcomeUnchanged, nil, fmt.Errorf("entry lookup: %w", err)
	}

	if existing == nil {
		entry := &models.ExternalLibraryEntry{
			AccountID:       accountID,
			ExternalGameID:  key,
			ExternalName:    game.Name,
			PlaytimeMinutes: game.PlaytimeMinutes(),
			LastPlayedAt:    parseLastActivity(game.LastActivity),
			IsInstalled:     game.Installed,
			RawPayload:      encodeRawPayload(game.Raw),
		}
		if err := r.store.CreateLibraryEntry(ctx, entry); err != nil {
			return OutcomeUnchanged, nil, err
		}
		return OutcomeCreated, entry, nil
	}

	if entryChanged(existing, game) {
		existing.ExternalName = game.Name
		existing.PlaytimeMinutes = game.PlaytimeMinutes()
		existing.LastPlayedAt = parseLastActivity(game.LastActivity)
		existing.IsInstalled = game.Installed
		existing.RawPayload = encodeRawPayload(game.Raw)
		if err := r.store.UpdateLibraryEntry(ctx, existing); err != nil {
			return OutcomeUnchanged, nil, err
		}
		return OutcomeUpdated, existing, nil
	}

	if err := r.store.TouchLibraryEntry(ctx, existing.ID); err != nil {
		return OutcomeUnchanged, nil, err
	}
	return OutcomeUnchanged, existing, nil
}

// entryChanged is the library-entry change predicate: display name,
// playtime, install flag.
func entryChanged(entry *models.ExternalLibraryEntry, game *models.PlayniteGame) bool {
	if entry.ExternalName != game.Name {
		return true
	}
	if entry.PlaytimeMinutes != game.PlaytimeMinutes() {
		return true
	}
	return !boolPtrEqual(entry.IsInstalled, game.Installed)
}

// parseLastActivity parses the export's RFC3339 last-activity value,
// returning nil when absent or malformed. Validation already rejected
// malformed dates at the boundary; this is just defensive parsing for
// programmatic callers.
func parseLastActivity(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}

// encodeRawPayload serializes the entry's opaque raw object for
// storage. Encoding failures degrade to empty, never fail the import.
func encodeRawPayload(raw map[string]interface{}) string {
	if len(raw) == 0 {
		return ""
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return ""
	}
	return string(data)
}

// boolPtrEqual compares tri-state install flags.
func boolPtrEqual(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
