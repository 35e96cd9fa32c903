// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gamehoard/gamehoard/internal/models"
)

// ErrEntryNotFound is returned when no library entry matches the lookup.
var ErrEntryNotFound = errors.New("external library entry not found")

// GetLibraryEntry retrieves one entry by its (account, entitlement key)
// identity.
func (db *DB) GetLibraryEntry(ctx context.Context, accountID uuid.UUID, externalGameID string) (*models.ExternalLibraryEntry, error) {
	query := `SELECT id, account_id, external_game_id, external_name, playtime_minutes,
		last_played_at, is_installed, raw_payload, last_seen_at, created_at, updated_at
		FROM external_library_entries WHERE account_id = ? AND external_game_id = ?`

	row := db.conn.QueryRowContext(ctx, query, accountID, externalGameID)
	return scanLibraryEntry(row)
}

// CreateLibraryEntry inserts a new library entry.
func (db *DB) CreateLibraryEntry(ctx context.Context, entry *models.ExternalLibraryEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = entry.CreatedAt
	if entry.LastSeenAt.IsZero() {
		entry.LastSeenAt = now
	}

	query := `INSERT INTO external_library_entries (
		id, account_id, external_game_id, external_name, playtime_minutes,
		last_played_at, is_installed, raw_payload, last_seen_at, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(ctx, query,
		entry.ID, entry.AccountID, entry.ExternalGameID, entry.ExternalName, entry.PlaytimeMinutes,
		entry.LastPlayedAt, entry.IsInstalled, entry.RawPayload, entry.LastSeenAt, entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create library entry: %w", err)
	}
	return nil
}

// UpdateLibraryEntry persists changed tracked fields plus the last-seen
// timestamp.
func (db *DB) UpdateLibraryEntry(ctx context.Context, entry *models.ExternalLibraryEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	entry.LastSeenAt = entry.UpdatedAt

	query := `UPDATE external_library_entries SET
		external_name = ?, playtime_minutes = ?, last_played_at = ?, is_installed = ?,
		raw_payload = ?, last_seen_at = ?, updated_at = ?
		WHERE id = ?`

	_, err := db.conn.ExecContext(ctx, query,
		entry.ExternalName, entry.PlaytimeMinutes, entry.LastPlayedAt, entry.IsInstalled,
		entry.RawPayload, entry.LastSeenAt, entry.UpdatedAt, entry.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update library entry: %w", err)
	}
	return nil
}

// TouchLibraryEntry updates only the last-seen timestamp for an
// unchanged entry.
func (db *DB) TouchLibraryEntry(ctx context.Context, id uuid.UUID) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE external_library_entries SET last_seen_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to touch library entry: %w", err)
	}
	return nil
}

// ListAbsentEntryKeys returns the entitlement keys of all entries for an
// account that are not in seenKeys and not already marked uninstalled.
// Used by the soft-removal sweep.
func (db *DB) ListAbsentEntryKeys(ctx context.Context, accountID uuid.UUID, seenKeys map[string]struct{}) ([]string, error) {
	query := `SELECT external_game_id, is_installed FROM external_library_entries WHERE account_id = ?`

	rows, err := db.conn.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entry keys: %w", err)
	}
	defer rows.Close()

	var absent []string
	for rows.Next() {
		var key string
		var installed *bool
		if err := rows.Scan(&key, &installed); err != nil {
			return nil, fmt.Errorf("failed to scan entry key: %w", err)
		}
		if _, seen := seenKeys[key]; seen {
			continue
		}
		if installed != nil && !*installed {
			continue
		}
		absent = append(absent, key)
	}
	return absent, rows.Err()
}

// MarkEntriesUninstalled batch-sets the install flag to false for the
// given entitlement keys. Entries are never deleted; this is the soft,
// reversible removal signal.
func (db *DB) MarkEntriesUninstalled(ctx context.Context, accountID uuid.UUID, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(keys))
	placeholders = placeholders[:len(placeholders)-1]

	query := fmt.Sprintf(`UPDATE external_library_entries
		SET is_installed = false, updated_at = ?
		WHERE account_id = ? AND external_game_id IN (%s)`, placeholders)

	args := make([]any, 0, len(keys)+2)
	args = append(args, time.Now().UTC(), accountID)
	for _, k := range keys {
		args = append(args, k)
	}

	if _, err := db.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark entries uninstalled: %w", err)
	}
	return nil
}

// CountLibraryEntries returns the number of entries for an account.
func (db *DB) CountLibraryEntries(ctx context.Context, accountID uuid.UUID) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM external_library_entries WHERE account_id = ?`, accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count library entries: %w", err)
	}
	return count, nil
}

// scanLibraryEntry scans a single row into an ExternalLibraryEntry.
func scanLibraryEntry(row *sql.Row) (*models.ExternalLibraryEntry, error) {
	var e models.ExternalLibraryEntry
	err := row.Scan(&e.ID, &e.AccountID, &e.ExternalGameID, &e.ExternalName, &e.PlaytimeMinutes,
		&e.LastPlayedAt, &e.IsInstalled, &e.RawPayload, &e.LastSeenAt, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan library entry: %w", err)
	}
	return &e, nil
}
