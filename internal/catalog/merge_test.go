// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/gamehoard/gamehoard/internal/models"
)

// seedTitleWithRelease creates a title and one release in the fake
// store, returning both IDs.
func seedTitleWithRelease(t *testing.T, store *fakeStore, name string) (uuid.UUID, uuid.UUID) {
	t.Helper()

	title := &models.GameTitle{Name: name}
	if err := store.CreateGameTitle(context.Background(), title); err != nil {
		t.Fatalf("seed title: %v", err)
	}
	release := &models.GameRelease{TitleID: title.ID, Platform: "PC"}
	if err := store.CreateGameRelease(context.Background(), release); err != nil {
		t.Fatalf("seed release: %v", err)
	}
	return title.ID, release.ID
}

func TestMergeTitles(t *testing.T) {
	store := newFakeStore()
	resolver := NewResolver(store)
	ctx := context.Background()

	sourceTitle, sourceRelease := seedTitleWithRelease(t, store, "Portal 2 (dup)")
	targetTitle, _ := seedTitleWithRelease(t, store, "Portal 2")

	mapping := &models.GameExternalMapping{
		Provider: "steam", ExternalGameID: "620",
		TitleID: sourceTitle, ReleaseID: &sourceRelease,
		Status: models.MappingStatusMapped,
	}
	if err := store.CreateMapping(ctx, mapping); err != nil {
		t.Fatalf("seed mapping: %v", err)
	}

	err := resolver.Merge(ctx, MergeOperation{
		Kind: MergeKindTitles, SourceID: sourceTitle, TargetID: targetTitle,
	})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if _, ok := store.titles[sourceTitle]; ok {
		t.Error("source title should be deleted")
	}
	if got := store.releases[sourceRelease].TitleID; got != targetTitle {
		t.Errorf("release title = %s, want target", got)
	}
	if got := store.mappings[mapping.ID].TitleID; got != targetTitle {
		t.Errorf("mapping title = %s, want target", got)
	}
}

func TestMergeReleases(t *testing.T) {
	store := newFakeStore()
	resolver := NewResolver(store)
	ctx := context.Background()

	sourceTitle, sourceRelease := seedTitleWithRelease(t, store, "Hades (dup)")
	targetTitle, targetRelease := seedTitleWithRelease(t, store, "Hades")
	store.itemsByRelease[sourceRelease] = 2

	mapping := &models.GameExternalMapping{
		Provider: "gog", ExternalGameID: "1145",
		TitleID: sourceTitle, ReleaseID: &sourceRelease,
		Status: models.MappingStatusMapped,
	}
	if err := store.CreateMapping(ctx, mapping); err != nil {
		t.Fatalf("seed mapping: %v", err)
	}

	err := resolver.Merge(ctx, MergeOperation{
		Kind: MergeKindReleases, SourceID: sourceRelease, TargetID: targetRelease,
	})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if _, ok := store.releases[sourceRelease]; ok {
		t.Error("source release should be deleted")
	}
	if _, ok := store.titles[sourceTitle]; ok {
		t.Error("emptied source title should be deleted")
	}
	if store.itemsByRelease[targetRelease] != 2 {
		t.Errorf("items not re-pointed, got %d on target", store.itemsByRelease[targetRelease])
	}
	m := store.mappings[mapping.ID]
	if m.TitleID != targetTitle || m.ReleaseID == nil || *m.ReleaseID != targetRelease {
		t.Error("mapping not re-pointed to target title/release")
	}
}

func TestMergeAsRelease(t *testing.T) {
	store := newFakeStore()
	resolver := NewResolver(store)
	ctx := context.Background()

	sourceTitle, sourceRelease := seedTitleWithRelease(t, store, "Hades (Switch)")
	targetTitle, _ := seedTitleWithRelease(t, store, "Hades")

	err := resolver.Merge(ctx, MergeOperation{
		Kind: MergeKindAsRelease, SourceID: sourceRelease, TargetID: targetTitle,
	})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if got := store.releases[sourceRelease].TitleID; got != targetTitle {
		t.Errorf("release title = %s, want target", got)
	}
	if _, ok := store.titles[sourceTitle]; ok {
		t.Error("emptied source title should be deleted")
	}
}

func TestMergeRejectsSelf(t *testing.T) {
	resolver := NewResolver(newFakeStore())
	id := uuid.New()

	err := resolver.Merge(context.Background(), MergeOperation{
		Kind: MergeKindTitles, SourceID: id, TargetID: id,
	})
	if !errors.Is(err, ErrMergeSelf) {
		t.Errorf("expected ErrMergeSelf, got %v", err)
	}
}

func TestMergeRejectsUnknownKind(t *testing.T) {
	resolver := NewResolver(newFakeStore())

	err := resolver.Merge(context.Background(), MergeOperation{
		Kind: "bogus", SourceID: uuid.New(), TargetID: uuid.New(),
	})
	if !errors.Is(err, ErrUnknownMergeKind) {
		t.Errorf("expected ErrUnknownMergeKind, got %v", err)
	}
}

func TestResolvePendingPromotesMapping(t *testing.T) {
	store := newFakeStore()
	resolver := NewResolver(store)
	ctx := context.Background()

	// Seed a pending mapping with its provisional entities.
	_, err := resolver.Resolve(ctx, ResolveInput{
		Key:         "playnite-db:abc",
		DisplayName: "Mystery Game",
		NeedsReview: true,
	})
	if err != nil {
		t.Fatalf("seed Resolve failed: %v", err)
	}
	pending, _ := resolver.PendingQueue(ctx)
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending mapping, got %d", len(pending))
	}

	// Confirm against its own provisional release.
	if err := resolver.ResolvePending(ctx, pending[0].ID, *pending[0].ReleaseID); err != nil {
		t.Fatalf("ResolvePending failed: %v", err)
	}

	if got := store.mappings[pending[0].ID].Status; got != models.MappingStatusMapped {
		t.Errorf("status = %s, want MAPPED", got)
	}

	// Copies flagged at import leave the review state with the mapping.
	want := "playnite/playnite-db:abc"
	if len(store.reviewCleared) != 1 || store.reviewCleared[0] != want {
		t.Errorf("review flags cleared for %v, want [%s]", store.reviewCleared, want)
	}
}

func TestResolvePendingFoldsIntoTarget(t *testing.T) {
	store := newFakeStore()
	resolver := NewResolver(store)
	ctx := context.Background()

	_, err := resolver.Resolve(ctx, ResolveInput{
		Key:         "playnite-db:abc",
		DisplayName: "Hades",
		NeedsReview: true,
	})
	if err != nil {
		t.Fatalf("seed Resolve failed: %v", err)
	}
	pending, _ := resolver.PendingQueue(ctx)
	provisionalRelease := *pending[0].ReleaseID

	targetTitle, targetRelease := seedTitleWithRelease(t, store, "Hades")

	if err := resolver.ResolvePending(ctx, pending[0].ID, targetRelease); err != nil {
		t.Fatalf("ResolvePending failed: %v", err)
	}

	m := store.mappings[pending[0].ID]
	if m.Status != models.MappingStatusMapped {
		t.Errorf("status = %s, want MAPPED", m.Status)
	}
	if m.TitleID != targetTitle || *m.ReleaseID != targetRelease {
		t.Error("mapping not bound to target")
	}
	if _, ok := store.releases[provisionalRelease]; ok {
		t.Error("provisional release should be folded away")
	}
}

func TestIgnorePending(t *testing.T) {
	store := newFakeStore()
	resolver := NewResolver(store)
	ctx := context.Background()

	_, err := resolver.Resolve(ctx, ResolveInput{
		Key:         "playnite-db:abc",
		DisplayName: "Mystery Game",
		NeedsReview: true,
	})
	if err != nil {
		t.Fatalf("seed Resolve failed: %v", err)
	}
	pending, _ := resolver.PendingQueue(ctx)

	if err := resolver.IgnorePending(ctx, pending[0].ID); err != nil {
		t.Fatalf("IgnorePending failed: %v", err)
	}
	if got := store.mappings[pending[0].ID].Status; got != models.MappingStatusIgnored {
		t.Errorf("status = %s, want IGNORED", got)
	}

	// Ignoring twice fails.
	if err := resolver.IgnorePending(ctx, pending[0].ID); !errors.Is(err, ErrNotPending) {
		t.Errorf("expected ErrNotPending, got %v", err)
	}
}
