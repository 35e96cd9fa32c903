// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gamehoard/gamehoard/internal/models"
)

// ErrTokenNotFound is returned when no device token matches the lookup.
var ErrTokenNotFound = errors.New("device token not found")

// CreateDeviceToken stores a new token hash.
func (db *DB) CreateDeviceToken(ctx context.Context, token *models.DeviceToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO device_tokens (id, device_id, token_prefix, token_hash, created_at, last_used_at, revoked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(ctx, query,
		token.ID, token.DeviceID, token.TokenPrefix, token.TokenHash,
		token.CreatedAt, token.LastUsedAt, token.RevokedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create device token: %w", err)
	}
	return nil
}

// ListDeviceTokensByPrefix retrieves unrevoked tokens sharing a prefix.
// Prefix collisions are possible, so the caller must verify the hash
// against each candidate.
func (db *DB) ListDeviceTokensByPrefix(ctx context.Context, prefix string) ([]models.DeviceToken, error) {
	query := `SELECT id, device_id, token_prefix, token_hash, created_at, last_used_at, revoked_at
		FROM device_tokens WHERE token_prefix = ? AND revoked_at IS NULL`

	rows, err := db.conn.QueryContext(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []models.DeviceToken
	for rows.Next() {
		var t models.DeviceToken
		if err := rows.Scan(&t.ID, &t.DeviceID, &t.TokenPrefix, &t.TokenHash,
			&t.CreatedAt, &t.LastUsedAt, &t.RevokedAt); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

// TouchDeviceToken records token usage.
func (db *DB) TouchDeviceToken(ctx context.Context, id uuid.UUID) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE device_tokens SET last_used_at = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to touch device token: %w", err)
	}
	return nil
}

// RevokeDeviceToken marks a token revoked. Revoked tokens fail
// validation but are kept for audit.
func (db *DB) RevokeDeviceToken(ctx context.Context, id uuid.UUID) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE device_tokens SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to revoke device token: %w", err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return ErrTokenNotFound
	}
	return nil
}
