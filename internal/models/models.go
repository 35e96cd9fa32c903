// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

// Package models defines data structures used throughout the GameHoard
// application. These models represent external library state, canonical
// catalog entities, sync jobs, and API responses.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ExternalAccount represents one user's connection to one library
// aggregator. An account owns zero or more devices and many library
// entries. The (OwnerID, Provider, AccountName) triple is unique per
// connection.
type ExternalAccount struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Provider    string    `json:"provider"` // aggregator tag, e.g. "playnite"
	AccountName string    `json:"account_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Device is a registered client allowed to push imports for an account.
// Devices authenticate with a bearer device token; see the auth package.
type Device struct {
	ID         uuid.UUID  `json:"id"`
	AccountID  uuid.UUID  `json:"account_id"`
	Name       string     `json:"name"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ExternalLibraryEntry is the aggregator's view of one game for one
// account. Entries are created on first sight of an entitlement key,
// updated on any import that changes a tracked field, and never
// hard-deleted: absence from an import flips IsInstalled to false.
//
// IsInstalled is tri-state. nil means the export did not state an
// install status; true/false are definite.
type ExternalLibraryEntry struct {
	ID              uuid.UUID  `json:"id"`
	AccountID       uuid.UUID  `json:"account_id"`
	ExternalGameID  string     `json:"external_game_id"` // the entitlement key
	ExternalName    string     `json:"external_name"`
	PlaytimeMinutes int64      `json:"playtime_minutes"`
	LastPlayedAt    *time.Time `json:"last_played_at,omitempty"`
	IsInstalled     *bool      `json:"is_installed,omitempty"`
	RawPayload      string     `json:"-"` // opaque, not diffed
	LastSeenAt      time.Time  `json:"last_seen_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Item is the canonical ownership record a user sees: one copy of one
// game release. Aggregator-sourced items carry full provenance so that
// repeated imports find their copy again. At most one Item exists per
// (AggregatorProvider, AggregatorAccountID, AggregatorExternalGameID)
// triple.
type Item struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	ReleaseID uuid.UUID `json:"release_id"`

	CopyType string `json:"copy_type"` // "digital_license" or "physical"
	Lendable bool   `json:"lendable"`

	DisplayName     string     `json:"display_name"`
	PlaytimeMinutes int64      `json:"playtime_minutes"`
	IsInstalled     *bool      `json:"is_installed,omitempty"`
	LastPlayedAt    *time.Time `json:"last_played_at,omitempty"`
	StoreURL        *string    `json:"store_url,omitempty"`

	// Aggregator provenance. Together these identify the source entry.
	AggregatorProvider       string    `json:"aggregator_provider"`
	AggregatorAccountID      uuid.UUID `json:"aggregator_account_id"`
	AggregatorExternalGameID string    `json:"aggregator_external_game_id"`

	// Underlying storefront, distinct from the aggregator.
	OriginalProviderPluginID string  `json:"original_provider_plugin_id"`
	OriginalProviderName     string  `json:"original_provider_name"`
	OriginalProviderGameID   *string `json:"original_provider_game_id,omitempty"`

	NeedsReview bool `json:"needs_review"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GameTitle is a canonical catalog entity: one logical game independent
// of platform edition. Player-profile fields default to single-player.
type GameTitle struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	GameType    string    `json:"game_type"` // "game", "expansion", "dlc"
	Description string    `json:"description"`
	CoverURL    string    `json:"cover_url"`

	MinPlayers int  `json:"min_players"`
	MaxPlayers int  `json:"max_players"`
	CoopMax    *int `json:"coop_max,omitempty"`

	SupportsOnline   bool `json:"supports_online"`
	OnlineMinPlayers *int `json:"online_min_players,omitempty"`
	OnlineMaxPlayers *int `json:"online_max_players,omitempty"`

	SupportsLocal   bool `json:"supports_local"`
	LocalMinPlayers *int `json:"local_min_players,omitempty"`
	LocalMaxPlayers *int `json:"local_max_players,omitempty"`

	SupportsPhysical bool `json:"supports_physical"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GameRelease is one platform edition of a title. Copies reference a
// release, never a title directly.
type GameRelease struct {
	ID        uuid.UUID  `json:"id"`
	TitleID   uuid.UUID  `json:"title_id"`
	Platform  string     `json:"platform"` // default "PC"
	Edition   string     `json:"edition,omitempty"`
	ReleaseAt *time.Time `json:"release_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Mapping status values.
const (
	MappingStatusPending = "PENDING"
	MappingStatusMapped  = "MAPPED"
	MappingStatusIgnored = "IGNORED"
)

// GameExternalMapping binds an external identity (provider, external
// game id) to a canonical catalog release. Mappings are created for both
// the aggregator identity and, when resolvable, the original-provider
// identity, so future imports from either identity space reuse the same
// catalog entities. A MAPPED binding is never silently re-bound; that
// requires an explicit merge operation.
type GameExternalMapping struct {
	ID             uuid.UUID  `json:"id"`
	Provider       string     `json:"provider"`
	ExternalGameID string     `json:"external_game_id"`
	TitleID        uuid.UUID  `json:"title_id"`
	ReleaseID      *uuid.UUID `json:"release_id,omitempty"`
	Status         string     `json:"status"` // PENDING, MAPPED, IGNORED
	DisplayName    string     `json:"display_name"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Sync job status values. PENDING and RUNNING are transient; COMPLETED
// and FAILED are terminal.
const (
	SyncJobStatusPending   = "PENDING"
	SyncJobStatusRunning   = "RUNNING"
	SyncJobStatusCompleted = "COMPLETED"
	SyncJobStatusFailed    = "FAILED"
)

// SyncJob tracks one reconciliation or enrichment run. Terminal once
// COMPLETED or FAILED; a failed job is not retried in place.
type SyncJob struct {
	ID        uuid.UUID  `json:"id"`
	AccountID uuid.UUID  `json:"account_id"`
	DeviceID  *uuid.UUID `json:"device_id,omitempty"`
	Kind      string     `json:"kind"` // "import" or "enrichment"
	Status    string     `json:"status"`

	EntriesProcessed int `json:"entries_processed"`
	EntriesAdded     int `json:"entries_added"`
	EntriesUpdated   int `json:"entries_updated"`

	ErrorMessage *string    `json:"error_message,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ImportCounts summarizes one import batch for the response payload.
// Per-entry outcomes combine the library-entry reconciliation and copy
// projection signals, keeping whichever is more significant
// (created > updated > unchanged).
type ImportCounts struct {
	Received    int `json:"received"`
	Created     int `json:"created"`
	Updated     int `json:"updated"`
	Unchanged   int `json:"unchanged"`
	SoftRemoved int `json:"softRemoved"`
	NeedsReview int `json:"needsReview"`
}

// ImportWarning aggregates a named warning by code with a count instead
// of per-entry detail.
type ImportWarning struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

// ImportResult is the response body of a completed import.
type ImportResult struct {
	DeviceID   string          `json:"deviceId"`
	ImportedAt time.Time       `json:"importedAt"`
	Counts     ImportCounts    `json:"counts"`
	Warnings   []ImportWarning `json:"warnings"`
}
