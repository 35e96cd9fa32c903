// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/gamehoard/gamehoard/internal/models"
)

func TestJobLifecycleCompleted(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	tracker, err := NewJob(ctx, store, uuid.New(), nil, "import")
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	if got := tracker.Job().Status; got != models.SyncJobStatusPending {
		t.Errorf("status = %s, want PENDING", got)
	}

	if err := tracker.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if got := tracker.Job().Status; got != models.SyncJobStatusRunning {
		t.Errorf("status = %s, want RUNNING", got)
	}

	if err := tracker.Complete(ctx, 10, 3, 2); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	job := tracker.Job()
	if job.Status != models.SyncJobStatusCompleted {
		t.Errorf("status = %s, want COMPLETED", job.Status)
	}
	if job.EntriesProcessed != 10 || job.EntriesAdded != 3 || job.EntriesUpdated != 2 {
		t.Errorf("counters = %d/%d/%d, want 10/3/2", job.EntriesProcessed, job.EntriesAdded, job.EntriesUpdated)
	}
	if job.FinishedAt == nil {
		t.Error("FinishedAt should be set")
	}
}

func TestJobStartRequiresPending(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	tracker, _ := NewJob(ctx, store, uuid.New(), nil, "import")
	if err := tracker.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := tracker.Start(ctx); !errors.Is(err, ErrJobNotPending) {
		t.Errorf("second Start: expected ErrJobNotPending, got %v", err)
	}
}

func TestJobTerminalStatesAreFinal(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	t.Run("completed is final", func(t *testing.T) {
		tracker, _ := NewJob(ctx, store, uuid.New(), nil, "import")
		_ = tracker.Start(ctx)
		_ = tracker.Complete(ctx, 1, 1, 0)

		if err := tracker.Fail(ctx, errors.New("late failure")); !errors.Is(err, ErrJobTerminal) {
			t.Errorf("expected ErrJobTerminal, got %v", err)
		}
		if err := tracker.Complete(ctx, 2, 2, 0); !errors.Is(err, ErrJobTerminal) {
			t.Errorf("expected ErrJobTerminal, got %v", err)
		}
	})

	t.Run("failed is final", func(t *testing.T) {
		tracker, _ := NewJob(ctx, store, uuid.New(), nil, "import")
		_ = tracker.Start(ctx)
		_ = tracker.Fail(ctx, errors.New("boom"))

		if err := tracker.Complete(ctx, 1, 0, 0); !errors.Is(err, ErrJobTerminal) {
			t.Errorf("expected ErrJobTerminal, got %v", err)
		}
		if got := tracker.Job().Status; got != models.SyncJobStatusFailed {
			t.Errorf("status = %s, want FAILED", got)
		}
	})
}
