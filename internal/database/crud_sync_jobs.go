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

// ErrSyncJobNotFound is returned when no sync job matches the lookup.
var ErrSyncJobNotFound = errors.New("sync job not found")

const syncJobColumns = `id, account_id, device_id, kind, status,
	entries_processed, entries_added, entries_updated,
	error_message, started_at, finished_at, created_at`

// CreateSyncJob inserts a new job in PENDING state.
func (db *DB) CreateSyncJob(ctx context.Context, job *models.SyncJob) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	if job.Status == "" {
		job.Status = models.SyncJobStatusPending
	}

	query := `INSERT INTO sync_jobs (` + syncJobColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(ctx, query,
		job.ID, job.AccountID, job.DeviceID, job.Kind, job.Status,
		job.EntriesProcessed, job.EntriesAdded, job.EntriesUpdated,
		job.ErrorMessage, job.StartedAt, job.FinishedAt, job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create sync job: %w", err)
	}
	return nil
}

// GetSyncJob retrieves a job by ID.
func (db *DB) GetSyncJob(ctx context.Context, id uuid.UUID) (*models.SyncJob, error) {
	query := `SELECT ` + syncJobColumns + ` FROM sync_jobs WHERE id = ?`

	var j models.SyncJob
	err := db.conn.QueryRowContext(ctx, query, id).Scan(
		&j.ID, &j.AccountID, &j.DeviceID, &j.Kind, &j.Status,
		&j.EntriesProcessed, &j.EntriesAdded, &j.EntriesUpdated,
		&j.ErrorMessage, &j.StartedAt, &j.FinishedAt, &j.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSyncJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan sync job: %w", err)
	}
	return &j, nil
}

// UpdateSyncJob persists a status transition and counters.
func (db *DB) UpdateSyncJob(ctx context.Context, job *models.SyncJob) error {
	query := `UPDATE sync_jobs SET
		status = ?, entries_processed = ?, entries_added = ?, entries_updated = ?,
		error_message = ?, started_at = ?, finished_at = ?
		WHERE id = ?`

	_, err := db.conn.ExecContext(ctx, query,
		job.Status, job.EntriesProcessed, job.EntriesAdded, job.EntriesUpdated,
		job.ErrorMessage, job.StartedAt, job.FinishedAt, job.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update sync job: %w", err)
	}
	return nil
}

// ListSyncJobs returns jobs for an account, newest first, capped at
// limit.
func (db *DB) ListSyncJobs(ctx context.Context, accountID uuid.UUID, limit int) ([]models.SyncJob, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + syncJobColumns + ` FROM sync_jobs
		WHERE account_id = ? ORDER BY created_at DESC LIMIT ?`

	rows, err := db.conn.QueryContext(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.SyncJob
	for rows.Next() {
		var j models.SyncJob
		if err := rows.Scan(&j.ID, &j.AccountID, &j.DeviceID, &j.Kind, &j.Status,
			&j.EntriesProcessed, &j.EntriesAdded, &j.EntriesUpdated,
			&j.ErrorMessage, &j.StartedAt, &j.FinishedAt, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sync job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
