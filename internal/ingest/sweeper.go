// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gamehoard/gamehoard/internal/logging"
	"github.com/gamehoard/gamehoard/internal/playnite"
)

// Sweeper soft-removes entries absent from the current batch. Entries
// are flagged uninstalled, never deleted, so a later import that
// re-includes the key flips the flag back through the normal update
// path.
type Sweeper struct {
	store SweepStore
}

// NewSweeper creates a soft-removal sweeper.
func NewSweeper(store SweepStore) *Sweeper {
	return &Sweeper{store: store}
}

// Sweep flags all of the account's entries not present in seenKeys,
// plus the copies sharing their provenance, as not installed. Returns
// the number of entries newly flagged; entries already uninstalled are
// skipped, so repeated absence counts once.
func (s *Sweeper) Sweep(ctx context.Context, accountID uuid.UUID, seenKeys map[string]struct{}) (int, error) {
	absent, err := s.store.ListAbsentEntryKeys(ctx, accountID, seenKeys)
	if err != nil {
		return 0, fmt.Errorf("list absent entries: %w", err)
	}
	if len(absent) == 0 {
		return 0, nil
	}

	if err := s.store.MarkEntriesUninstalled(ctx, accountID, absent); err != nil {
		return 0, fmt.Errorf("mark entries uninstalled: %w", err)
	}
	if err := s.store.MarkItemsUninstalled(ctx, playnite.Aggregator, accountID, absent); err != nil {
		return 0, fmt.Errorf("mark items uninstalled: %w", err)
	}

	logging.Info().
		Str("account_id", accountID.String()).
		Int("count", len(absent)).
		Msg("Soft-removed entries absent from import")
	return len(absent), nil
}
