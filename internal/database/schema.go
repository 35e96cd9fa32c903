// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package database

import "fmt"

// createTables creates the schema if it does not exist. DuckDB supports
// CREATE TABLE IF NOT EXISTS, so startup is idempotent.
func (db *DB) createTables() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS external_accounts (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL,
			provider VARCHAR NOT NULL,
			account_name VARCHAR NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (owner_id, provider, account_name)
		)`,

		`CREATE TABLE IF NOT EXISTS devices (
			id UUID PRIMARY KEY,
			account_id UUID NOT NULL,
			name VARCHAR NOT NULL,
			last_seen_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS device_tokens (
			id UUID PRIMARY KEY,
			device_id UUID NOT NULL,
			token_prefix VARCHAR NOT NULL,
			token_hash VARCHAR NOT NULL,
			created_at TIMESTAMP NOT NULL,
			last_used_at TIMESTAMP,
			revoked_at TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS external_library_entries (
			id UUID PRIMARY KEY,
			account_id UUID NOT NULL,
			external_game_id VARCHAR NOT NULL,
			external_name VARCHAR NOT NULL,
			playtime_minutes BIGINT NOT NULL DEFAULT 0,
			last_played_at TIMESTAMP,
			is_installed BOOLEAN,
			raw_payload VARCHAR NOT NULL DEFAULT '',
			last_seen_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (account_id, external_game_id)
		)`,

		`CREATE TABLE IF NOT EXISTS game_titles (
			id UUID PRIMARY KEY,
			name VARCHAR NOT NULL,
			game_type VARCHAR NOT NULL DEFAULT 'game',
			description VARCHAR NOT NULL DEFAULT '',
			cover_url VARCHAR NOT NULL DEFAULT '',
			min_players INTEGER NOT NULL DEFAULT 1,
			max_players INTEGER NOT NULL DEFAULT 1,
			coop_max INTEGER,
			supports_online BOOLEAN NOT NULL DEFAULT false,
			online_min_players INTEGER,
			online_max_players INTEGER,
			supports_local BOOLEAN NOT NULL DEFAULT false,
			local_min_players INTEGER,
			local_max_players INTEGER,
			supports_physical BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS game_releases (
			id UUID PRIMARY KEY,
			title_id UUID NOT NULL,
			platform VARCHAR NOT NULL DEFAULT 'PC',
			edition VARCHAR NOT NULL DEFAULT '',
			release_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS game_external_mappings (
			id UUID PRIMARY KEY,
			provider VARCHAR NOT NULL,
			external_game_id VARCHAR NOT NULL,
			title_id UUID NOT NULL,
			release_id UUID,
			status VARCHAR NOT NULL,
			display_name VARCHAR NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (provider, external_game_id)
		)`,

		`CREATE TABLE IF NOT EXISTS items (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL,
			release_id UUID NOT NULL,
			copy_type VARCHAR NOT NULL DEFAULT 'digital_license',
			lendable BOOLEAN NOT NULL DEFAULT false,
			display_name VARCHAR NOT NULL,
			playtime_minutes BIGINT NOT NULL DEFAULT 0,
			is_installed BOOLEAN,
			last_played_at TIMESTAMP,
			store_url VARCHAR,
			aggregator_provider VARCHAR NOT NULL,
			aggregator_account_id UUID NOT NULL,
			aggregator_external_game_id VARCHAR NOT NULL,
			original_provider_plugin_id VARCHAR NOT NULL DEFAULT '',
			original_provider_name VARCHAR NOT NULL DEFAULT '',
			original_provider_game_id VARCHAR,
			needs_review BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (aggregator_provider, aggregator_account_id, aggregator_external_game_id)
		)`,

		`CREATE TABLE IF NOT EXISTS sync_jobs (
			id UUID PRIMARY KEY,
			account_id UUID NOT NULL,
			device_id UUID,
			kind VARCHAR NOT NULL,
			status VARCHAR NOT NULL,
			entries_processed INTEGER NOT NULL DEFAULT 0,
			entries_added INTEGER NOT NULL DEFAULT 0,
			entries_updated INTEGER NOT NULL DEFAULT 0,
			error_message VARCHAR,
			started_at TIMESTAMP,
			finished_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_entries_account ON external_library_entries (account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_items_owner ON items (owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_mappings_status ON game_external_mappings (status)`,
		`CREATE INDEX IF NOT EXISTS idx_sync_jobs_account ON sync_jobs (account_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_device_tokens_prefix ON device_tokens (token_prefix)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}

	return nil
}
