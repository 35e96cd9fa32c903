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

// Item errors
var (
	ErrItemNotFound = errors.New("item not found")
	ErrItemConflict = errors.New("item already exists for this provenance")
)

const itemColumns = `id, owner_id, release_id, copy_type, lendable, display_name,
	playtime_minutes, is_installed, last_played_at, store_url,
	aggregator_provider, aggregator_account_id, aggregator_external_game_id,
	original_provider_plugin_id, original_provider_name, original_provider_game_id,
	needs_review, created_at, updated_at`

// GetItemByProvenance retrieves an item by its aggregator provenance
// triple. At most one item exists per triple.
func (db *DB) GetItemByProvenance(ctx context.Context, provider string, accountID uuid.UUID, externalGameID string) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE aggregator_provider = ? AND aggregator_account_id = ? AND aggregator_external_game_id = ?`

	row := db.conn.QueryRowContext(ctx, query, provider, accountID, externalGameID)
	return scanItem(row)
}

// CreateItem inserts a new copy record.
func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	item.UpdatedAt = item.CreatedAt

	query := `INSERT INTO items (` + itemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(ctx, query,
		item.ID, item.OwnerID, item.ReleaseID, item.CopyType, item.Lendable, item.DisplayName,
		item.PlaytimeMinutes, item.IsInstalled, item.LastPlayedAt, item.StoreURL,
		item.AggregatorProvider, item.AggregatorAccountID, item.AggregatorExternalGameID,
		item.OriginalProviderPluginID, item.OriginalProviderName, item.OriginalProviderGameID,
		item.NeedsReview, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrItemConflict
		}
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// UpdateItem persists changed user-facing fields of a copy.
func (db *DB) UpdateItem(ctx context.Context, item *models.Item) error {
	item.UpdatedAt = time.Now().UTC()

	query := `UPDATE items SET
		release_id = ?, display_name = ?, playtime_minutes = ?, is_installed = ?,
		last_played_at = ?, store_url = ?, original_provider_plugin_id = ?,
		original_provider_name = ?, original_provider_game_id = ?, needs_review = ?,
		updated_at = ?
		WHERE id = ?`

	_, err := db.conn.ExecContext(ctx, query,
		item.ReleaseID, item.DisplayName, item.PlaytimeMinutes, item.IsInstalled,
		item.LastPlayedAt, item.StoreURL, item.OriginalProviderPluginID,
		item.OriginalProviderName, item.OriginalProviderGameID, item.NeedsReview,
		item.UpdatedAt, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return nil
}

// MarkItemsUninstalled batch-applies the soft-removal flag to all items
// sharing the account's provenance for the given entitlement keys.
func (db *DB) MarkItemsUninstalled(ctx context.Context, provider string, accountID uuid.UUID, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(keys))
	placeholders = placeholders[:len(placeholders)-1]

	query := fmt.Sprintf(`UPDATE items SET is_installed = false, updated_at = ?
		WHERE aggregator_provider = ? AND aggregator_account_id = ?
		AND aggregator_external_game_id IN (%s)`, placeholders)

	args := make([]any, 0, len(keys)+3)
	args = append(args, time.Now().UTC(), provider, accountID)
	for _, k := range keys {
		args = append(args, k)
	}

	if _, err := db.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark items uninstalled: %w", err)
	}
	return nil
}

// ClearItemsNeedsReview drops the review flag from every copy sharing
// an aggregator identity, across all accounts. Called when a human
// resolves or confirms the identity's mapping.
func (db *DB) ClearItemsNeedsReview(ctx context.Context, provider, externalGameID string) error {
	query := `UPDATE items SET needs_review = false, updated_at = ?
		WHERE aggregator_provider = ? AND aggregator_external_game_id = ? AND needs_review = true`

	if _, err := db.conn.ExecContext(ctx, query, time.Now().UTC(), provider, externalGameID); err != nil {
		return fmt.Errorf("failed to clear item review flags: %w", err)
	}
	return nil
}

// ListItemsByRelease returns all items referencing a release, used by
// merge operations to re-point copies.
func (db *DB) ListItemsByRelease(ctx context.Context, releaseID uuid.UUID) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE release_id = ?`

	rows, err := db.conn.QueryContext(ctx, query, releaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items by release: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item, err := scanItemRows(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// ReassignItemsRelease re-points all items from one release to another.
func (db *DB) ReassignItemsRelease(ctx context.Context, fromRelease, toRelease uuid.UUID) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE items SET release_id = ?, updated_at = ? WHERE release_id = ?`,
		toRelease, time.Now().UTC(), fromRelease)
	if err != nil {
		return fmt.Errorf("failed to reassign items: %w", err)
	}
	return nil
}

// scanItem scans a single row into an Item.
func scanItem(row *sql.Row) (*models.Item, error) {
	var i models.Item
	err := row.Scan(&i.ID, &i.OwnerID, &i.ReleaseID, &i.CopyType, &i.Lendable, &i.DisplayName,
		&i.PlaytimeMinutes, &i.IsInstalled, &i.LastPlayedAt, &i.StoreURL,
		&i.AggregatorProvider, &i.AggregatorAccountID, &i.AggregatorExternalGameID,
		&i.OriginalProviderPluginID, &i.OriginalProviderName, &i.OriginalProviderGameID,
		&i.NeedsReview, &i.CreatedAt, &i.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan item: %w", err)
	}
	return &i, nil
}

// scanItemRows scans the current rows cursor into an Item.
func scanItemRows(rows *sql.Rows) (*models.Item, error) {
	var i models.Item
	err := rows.Scan(&i.ID, &i.OwnerID, &i.ReleaseID, &i.CopyType, &i.Lendable, &i.DisplayName,
		&i.PlaytimeMinutes, &i.IsInstalled, &i.LastPlayedAt, &i.StoreURL,
		&i.AggregatorProvider, &i.AggregatorAccountID, &i.AggregatorExternalGameID,
		&i.OriginalProviderPluginID, &i.OriginalProviderName, &i.OriginalProviderGameID,
		&i.NeedsReview, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan item: %w", err)
	}
	return &i, nil
}
