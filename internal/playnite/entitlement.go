// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package playnite

import (
	"fmt"

	"github.com/gamehoard/gamehoard/internal/models"
)

// WarningMissingOriginalGameID is aggregated by count when an entry
// lacks an original-provider game id. Such entries cannot be correlated
// across identity spaces.
const WarningMissingOriginalGameID = "MISSING_ORIGINAL_GAME_ID"

// EntitlementKey is the resolved identity of one incoming entry.
type EntitlementKey struct {
	Key string

	// NeedsReview is true when the key cannot be correlated across
	// re-exports from a different Playnite instance, or when the
	// original-provider game id is missing.
	NeedsReview bool

	// Warning names an aggregatable warning code, empty if none.
	Warning string
}

// ResolveEntitlementKey derives a stable identity key for an incoming
// entry, in priority order:
//
//  1. an explicit entitlement key supplied by the export, verbatim
//  2. "playnite:<pluginId>:<gameId>" composed from the original
//     provider identity
//  3. "playnite-db:<playniteDatabaseId>" as the fallback of last
//     resort, flagged for review because Playnite's database id is
//     only stable within one installation
//
// A missing original-provider game id forces NeedsReview even when
// step 1 or 2 produced a key, and is recorded as a warning.
func ResolveEntitlementKey(game *models.PlayniteGame) EntitlementKey {
	missingOriginalID := game.OriginalProviderGameID == ""

	var resolved EntitlementKey
	switch {
	case game.EntitlementKey != "":
		resolved = EntitlementKey{Key: game.EntitlementKey}
	case game.OriginalProviderPluginID != "" && game.OriginalProviderGameID != "":
		resolved = EntitlementKey{
			Key: fmt.Sprintf("%s:%s:%s", Aggregator, game.OriginalProviderPluginID, game.OriginalProviderGameID),
		}
	default:
		resolved = EntitlementKey{
			Key:         fmt.Sprintf("%s-db:%s", Aggregator, game.PlayniteDatabaseID),
			NeedsReview: true,
		}
	}

	if missingOriginalID {
		resolved.NeedsReview = true
		resolved.Warning = WarningMissingOriginalGameID
	}

	return resolved
}
