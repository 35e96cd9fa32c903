// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package models

// GameMetadata is the result of fetching full metadata for one game from
// one provider. Transient: merged into GameTitle fields by the
// enrichment pipeline, never persisted as-is.
//
// Pointer fields distinguish "provider said nothing" (nil) from a
// definite value, which the conservative merge rules depend on.
type GameMetadata struct {
	Provider    string `json:"provider"`
	ExternalID  string `json:"external_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CoverURL    string `json:"cover_url,omitempty"`

	MinPlayers *int `json:"min_players,omitempty"`
	MaxPlayers *int `json:"max_players,omitempty"`

	SupportsOnline   *bool `json:"supports_online,omitempty"`
	OnlineMinPlayers *int  `json:"online_min_players,omitempty"`
	OnlineMaxPlayers *int  `json:"online_max_players,omitempty"`

	SupportsLocal   *bool `json:"supports_local,omitempty"`
	LocalMinPlayers *int  `json:"local_min_players,omitempty"`
	LocalMaxPlayers *int  `json:"local_max_players,omitempty"`
}

// Multiplayer reports whether the metadata indicates any multiplayer
// support, used to decide whether a player-count secondary pass is
// worthwhile.
func (m *GameMetadata) Multiplayer() bool {
	if m.SupportsOnline != nil && *m.SupportsOnline {
		return true
	}
	if m.SupportsLocal != nil && *m.SupportsLocal {
		return true
	}
	return m.MaxPlayers != nil && *m.MaxPlayers > 1
}

// HasPlayerCounts reports whether specific min/max player counts are
// present for at least one supported mode.
func (m *GameMetadata) HasPlayerCounts() bool {
	return m.OnlineMaxPlayers != nil || m.LocalMaxPlayers != nil || m.MaxPlayers != nil
}

// MetadataSearchResult is one candidate from a provider search, used for
// user-facing disambiguation and for picking the top auto-enrichment
// match.
type MetadataSearchResult struct {
	Provider    string `json:"provider"`
	ExternalID  string `json:"external_id"`
	Name        string `json:"name"`
	ReleaseYear int    `json:"release_year,omitempty"`
	CoverURL    string `json:"cover_url,omitempty"`
}
