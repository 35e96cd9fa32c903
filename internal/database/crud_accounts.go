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
	"time"

	"github.com/google/uuid"

	"github.com/gamehoard/gamehoard/internal/models"
)

// Account and device errors
var (
	ErrAccountNotFound = errors.New("external account not found")
	ErrAccountConflict = errors.New("account with this provider and name already exists")
	ErrDeviceNotFound  = errors.New("device not found")
)

// CreateExternalAccount creates a new aggregator connection for an owner.
func (db *DB) CreateExternalAccount(ctx context.Context, account *models.ExternalAccount) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	account.UpdatedAt = account.CreatedAt

	query := `INSERT INTO external_accounts (id, owner_id, provider, account_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(ctx, query,
		account.ID, account.OwnerID, account.Provider, account.AccountName,
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrAccountConflict
		}
		return fmt.Errorf("failed to create external account: %w", err)
	}

	return nil
}

// GetExternalAccount retrieves an account by ID.
func (db *DB) GetExternalAccount(ctx context.Context, id uuid.UUID) (*models.ExternalAccount, error) {
	query := `SELECT id, owner_id, provider, account_name, created_at, updated_at
		FROM external_accounts WHERE id = ?`

	row := db.conn.QueryRowContext(ctx, query, id)
	return scanExternalAccount(row)
}

// ListExternalAccounts retrieves all accounts for an owner.
func (db *DB) ListExternalAccounts(ctx context.Context, ownerID uuid.UUID) ([]models.ExternalAccount, error) {
	query := `SELECT id, owner_id, provider, account_name, created_at, updated_at
		FROM external_accounts WHERE owner_id = ? ORDER BY created_at`

	rows, err := db.conn.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list external accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.ExternalAccount
	for rows.Next() {
		var a models.ExternalAccount
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.Provider, &a.AccountName, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan external account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// CreateDevice registers a new device for an account.
func (db *DB) CreateDevice(ctx context.Context, device *models.Device) error {
	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}
	if device.CreatedAt.IsZero() {
		device.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO devices (id, account_id, name, last_seen_at, created_at)
		VALUES (?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(ctx, query,
		device.ID, device.AccountID, device.Name, device.LastSeenAt, device.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create device: %w", err)
	}
	return nil
}

// GetDevice retrieves a device by ID.
func (db *DB) GetDevice(ctx context.Context, id uuid.UUID) (*models.Device, error) {
	query := `SELECT id, account_id, name, last_seen_at, created_at FROM devices WHERE id = ?`

	var d models.Device
	err := db.conn.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.AccountID, &d.Name, &d.LastSeenAt, &d.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDeviceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan device: %w", err)
	}
	return &d, nil
}

// TouchDevice records device activity.
func (db *DB) TouchDevice(ctx context.Context, id uuid.UUID) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE devices SET last_seen_at = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to touch device: %w", err)
	}
	return nil
}

// scanExternalAccount scans a single row into an ExternalAccount.
func scanExternalAccount(row *sql.Row) (*models.ExternalAccount, error) {
	var a models.ExternalAccount
	err := row.Scan(&a.ID, &a.OwnerID, &a.Provider, &a.AccountName, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan external account: %w", err)
	}
	return &a, nil
}
