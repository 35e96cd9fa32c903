// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/gamehoard/gamehoard/internal/models"
)

// Job state machine errors.
var (
	ErrJobNotPending = errors.New("sync job is not pending")
	ErrJobTerminal   = errors.New("sync job is already terminal")
)

// JobTracker drives one sync job through PENDING, RUNNING, and a
// terminal state. Each transition is entered exactly once; a failed job
// is not retried in place.
type JobTracker struct {
	store JobStore
	job   *models.SyncJob
}

// NewJob creates a PENDING job record.
func NewJob(ctx context.Context, store JobStore, accountID uuid.UUID, deviceID *uuid.UUID, kind string) (*JobTracker, error) {
	job := &models.SyncJob{
		AccountID: accountID,
		DeviceID:  deviceID,
		Kind:      kind,
		Status:    models.SyncJobStatusPending,
	}
	if err := store.CreateSyncJob(ctx, job); err != nil {
		return nil, err
	}
	return &JobTracker{store: store, job: job}, nil
}

// Job returns the tracked job's current state.
func (t *JobTracker) Job() models.SyncJob {
	return *t.job
}

// Start transitions PENDING -> RUNNING.
func (t *JobTracker) Start(ctx context.Context) error {
	if t.job.Status != models.SyncJobStatusPending {
		return ErrJobNotPending
	}
	now := time.Now().UTC()
	t.job.Status = models.SyncJobStatusRunning
	t.job.StartedAt = &now
	return t.store.UpdateSyncJob(ctx, t.job)
}

// Complete transitions RUNNING -> COMPLETED with final counters.
func (t *JobTracker) Complete(ctx context.Context, processed, added, updated int) error {
	if t.terminal() {
		return ErrJobTerminal
	}
	now := time.Now().UTC()
	t.job.Status = models.SyncJobStatusCompleted
	t.job.EntriesProcessed = processed
	t.job.EntriesAdded = added
	t.job.EntriesUpdated = updated
	t.job.FinishedAt = &now
	return t.store.UpdateSyncJob(ctx, t.job)
}

// Fail transitions to FAILED with the causing message.
func (t *JobTracker) Fail(ctx context.Context, cause error) error {
	if t.terminal() {
		return ErrJobTerminal
	}
	now := time.Now().UTC()
	msg := cause.Error()
	t.job.Status = models.SyncJobStatusFailed
	t.job.ErrorMessage = &msg
	t.job.FinishedAt = &now
	return t.store.UpdateSyncJob(ctx, t.job)
}

func (t *JobTracker) terminal() bool {
	return t.job.Status == models.SyncJobStatusCompleted || t.job.Status == models.SyncJobStatusFailed
}
