// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package ingest

import (
	"context"

	"github.com/google/uuid"

	"github.com/gamehoard/gamehoard/internal/catalog"
	"github.com/gamehoard/gamehoard/internal/models"
)

// EntryStore is the library-entry persistence surface of the
// reconciler. *database.DB satisfies it.
type EntryStore interface {
	GetLibraryEntry(ctx context.Context, accountID uuid.UUID, externalGameID string) (*models.ExternalLibraryEntry, error)
	CreateLibraryEntry(ctx context.Context, entry *models.ExternalLibraryEntry) error
	UpdateLibraryEntry(ctx context.Context, entry *models.ExternalLibraryEntry) error
	TouchLibraryEntry(ctx context.Context, id uuid.UUID) error
}

// ItemStore is the copy persistence surface of the projector.
type ItemStore interface {
	GetItemByProvenance(ctx context.Context, provider string, accountID uuid.UUID, externalGameID string) (*models.Item, error)
	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, item *models.Item) error
}

// SweepStore is the batch surface of the soft-removal sweeper.
type SweepStore interface {
	ListAbsentEntryKeys(ctx context.Context, accountID uuid.UUID, seenKeys map[string]struct{}) ([]string, error)
	MarkEntriesUninstalled(ctx context.Context, accountID uuid.UUID, keys []string) error
	MarkItemsUninstalled(ctx context.Context, provider string, accountID uuid.UUID, keys []string) error
}

// JobStore is the sync-job persistence surface of the tracker.
type JobStore interface {
	CreateSyncJob(ctx context.Context, job *models.SyncJob) error
	UpdateSyncJob(ctx context.Context, job *models.SyncJob) error
}

// CatalogResolver resolves one entry's identity to a catalog release.
// *catalog.Resolver satisfies it.
type CatalogResolver interface {
	Resolve(ctx context.Context, in catalog.ResolveInput) (*catalog.ResolveResult, error)
}
