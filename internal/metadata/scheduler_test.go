// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package metadata

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gamehoard/gamehoard/internal/models"
)

// signalStore wraps a fakeTitleStore with locking and an update signal
// so tests can observe a resync pass running in another goroutine.
type signalStore struct {
	mu      sync.Mutex
	inner   *fakeTitleStore
	updated chan struct{}
}

func newSignalStore(titles ...*models.GameTitle) *signalStore {
	return &signalStore{
		inner:   newFakeTitleStore(titles...),
		updated: make(chan struct{}, 1),
	}
}

func (s *signalStore) GetGameTitle(ctx context.Context, id uuid.UUID) (*models.GameTitle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.GetGameTitle(ctx, id)
}

func (s *signalStore) UpdateGameTitle(ctx context.Context, title *models.GameTitle) error {
	s.mu.Lock()
	err := s.inner.UpdateGameTitle(ctx, title)
	s.mu.Unlock()
	select {
	case s.updated <- struct{}{}:
	default:
	}
	return err
}

func (s *signalStore) ListGameTitles(ctx context.Context) ([]models.GameTitle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.ListGameTitles(ctx)
}

func TestResyncSchedulerRunsTriggeredPass(t *testing.T) {
	provider := &fakeProvider{
		name: "rawg", rank: 1,
		searchResults: oneResult("rawg"),
		metadata:      &models.GameMetadata{Provider: "rawg", CoverURL: "https://img.example/cover.jpg"},
	}
	title := &models.GameTitle{ID: uuid.New(), Name: "Hades", GameType: "game"}
	store := newSignalStore(title)

	sched := NewResyncScheduler(NewPipeline(NewRegistry(provider), store, nil), time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Serve(ctx) }()

	if !sched.Trigger() {
		t.Fatal("Trigger() = false on idle scheduler")
	}

	select {
	case <-store.updated:
	case <-time.After(2 * time.Second):
		t.Fatal("resync pass never persisted the enriched title")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestResyncSchedulerCoalescesTriggers(t *testing.T) {
	pipeline := NewPipeline(NewRegistry(), newSignalStore(), nil)
	sched := NewResyncScheduler(pipeline, time.Millisecond)

	// Without a running Serve loop the first trigger occupies the
	// queue slot and the second reports as coalesced.
	if !sched.Trigger() {
		t.Fatal("first Trigger() = false")
	}
	if sched.Trigger() {
		t.Error("second Trigger() = true, want coalesced false")
	}
}
