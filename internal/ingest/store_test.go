// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gamehoard/gamehoard/internal/database"
	"github.com/gamehoard/gamehoard/internal/models"
)

// memStore is an in-memory implementation of every persistence surface
// the import engine touches, including the catalog store, so importer
// tests run the real resolver end to end.
type memStore struct {
	entries  map[string]*models.ExternalLibraryEntry // key: accountID|externalGameID
	items    map[string]*models.Item                 // key: provider|accountID|externalGameID
	jobs     map[uuid.UUID]*models.SyncJob
	mappings map[uuid.UUID]*models.GameExternalMapping
	titles   map[uuid.UUID]*models.GameTitle
	releases map[uuid.UUID]*models.GameRelease

	failOn string // method name to fail, for abort tests
}

func newMemStore() *memStore {
	return &memStore{
		entries:  make(map[string]*models.ExternalLibraryEntry),
		items:    make(map[string]*models.Item),
		jobs:     make(map[uuid.UUID]*models.SyncJob),
		mappings: make(map[uuid.UUID]*models.GameExternalMapping),
		titles:   make(map[uuid.UUID]*models.GameTitle),
		releases: make(map[uuid.UUID]*models.GameRelease),
	}
}

func (s *memStore) fail(method string) error {
	if s.failOn == method {
		return errStorage
	}
	return nil
}

func entryKey(accountID uuid.UUID, externalGameID string) string {
	return accountID.String() + "|" + externalGameID
}

func itemKey(provider string, accountID uuid.UUID, externalGameID string) string {
	return provider + "|" + accountID.String() + "|" + externalGameID
}

// EntryStore

func (s *memStore) GetLibraryEntry(_ context.Context, accountID uuid.UUID, externalGameID string) (*models.ExternalLibraryEntry, error) {
	e, ok := s.entries[entryKey(accountID, externalGameID)]
	if !ok {
		return nil, database.ErrEntryNotFound
	}
	copied := *e
	return &copied, nil
}

func (s *memStore) CreateLibraryEntry(_ context.Context, entry *models.ExternalLibraryEntry) error {
	if err := s.fail("CreateLibraryEntry"); err != nil {
		return err
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now()
	entry.LastSeenAt = entry.CreatedAt
	copied := *entry
	s.entries[entryKey(entry.AccountID, entry.ExternalGameID)] = &copied
	return nil
}

func (s *memStore) UpdateLibraryEntry(_ context.Context, entry *models.ExternalLibraryEntry) error {
	copied := *entry
	s.entries[entryKey(entry.AccountID, entry.ExternalGameID)] = &copied
	return nil
}

func (s *memStore) TouchLibraryEntry(_ context.Context, id uuid.UUID) error {
	for _, e := range s.entries {
		if e.ID == id {
			e.LastSeenAt = time.Now()
		}
	}
	return nil
}

// ItemStore

func (s *memStore) GetItemByProvenance(_ context.Context, provider string, accountID uuid.UUID, externalGameID string) (*models.Item, error) {
	i, ok := s.items[itemKey(provider, accountID, externalGameID)]
	if !ok {
		return nil, database.ErrItemNotFound
	}
	copied := *i
	return &copied, nil
}

func (s *memStore) CreateItem(_ context.Context, item *models.Item) error {
	if err := s.fail("CreateItem"); err != nil {
		return err
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	copied := *item
	s.items[itemKey(item.AggregatorProvider, item.AggregatorAccountID, item.AggregatorExternalGameID)] = &copied
	return nil
}

func (s *memStore) UpdateItem(_ context.Context, item *models.Item) error {
	copied := *item
	s.items[itemKey(item.AggregatorProvider, item.AggregatorAccountID, item.AggregatorExternalGameID)] = &copied
	return nil
}

// SweepStore

func (s *memStore) ListAbsentEntryKeys(_ context.Context, accountID uuid.UUID, seenKeys map[string]struct{}) ([]string, error) {
	var absent []string
	for _, e := range s.entries {
		if e.AccountID != accountID {
			continue
		}
		if _, seen := seenKeys[e.ExternalGameID]; seen {
			continue
		}
		if e.IsInstalled != nil && !*e.IsInstalled {
			continue
		}
		absent = append(absent, e.ExternalGameID)
	}
	return absent, nil
}

func (s *memStore) MarkEntriesUninstalled(_ context.Context, accountID uuid.UUID, keys []string) error {
	installed := false
	for _, key := range keys {
		if e, ok := s.entries[entryKey(accountID, key)]; ok {
			flag := installed
			e.IsInstalled = &flag
		}
	}
	return nil
}

func (s *memStore) MarkItemsUninstalled(_ context.Context, provider string, accountID uuid.UUID, keys []string) error {
	installed := false
	for _, key := range keys {
		if i, ok := s.items[itemKey(provider, accountID, key)]; ok {
			flag := installed
			i.IsInstalled = &flag
		}
	}
	return nil
}

// JobStore

func (s *memStore) CreateSyncJob(_ context.Context, job *models.SyncJob) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	job.CreatedAt = time.Now()
	copied := *job
	s.jobs[job.ID] = &copied
	return nil
}

func (s *memStore) UpdateSyncJob(_ context.Context, job *models.SyncJob) error {
	copied := *job
	s.jobs[job.ID] = &copied
	return nil
}

// catalog.Store

func (s *memStore) GetMapping(_ context.Context, provider, externalGameID string) (*models.GameExternalMapping, error) {
	for _, m := range s.mappings {
		if m.Provider == provider && m.ExternalGameID == externalGameID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, database.ErrMappingNotFound
}

func (s *memStore) GetMappingByID(_ context.Context, id uuid.UUID) (*models.GameExternalMapping, error) {
	m, ok := s.mappings[id]
	if !ok {
		return nil, database.ErrMappingNotFound
	}
	copied := *m
	return &copied, nil
}

func (s *memStore) CreateMapping(_ context.Context, mapping *models.GameExternalMapping) error {
	for _, m := range s.mappings {
		if m.Provider == mapping.Provider && m.ExternalGameID == mapping.ExternalGameID {
			return database.ErrMappingConflict
		}
	}
	if mapping.ID == uuid.Nil {
		mapping.ID = uuid.New()
	}
	copied := *mapping
	s.mappings[mapping.ID] = &copied
	return nil
}

func (s *memStore) UpdateMapping(_ context.Context, mapping *models.GameExternalMapping) error {
	copied := *mapping
	s.mappings[mapping.ID] = &copied
	return nil
}

func (s *memStore) ListMappingsByStatus(_ context.Context, status string) ([]models.GameExternalMapping, error) {
	var out []models.GameExternalMapping
	for _, m := range s.mappings {
		if m.Status == status {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *memStore) ReassignMappings(_ context.Context, fromRelease uuid.UUID, toTitle, toRelease uuid.UUID) error {
	for _, m := range s.mappings {
		if m.ReleaseID != nil && *m.ReleaseID == fromRelease {
			m.TitleID = toTitle
			rel := toRelease
			m.ReleaseID = &rel
		}
	}
	return nil
}

func (s *memStore) ReassignMappingsTitle(_ context.Context, fromTitle, toTitle uuid.UUID) error {
	for _, m := range s.mappings {
		if m.TitleID == fromTitle {
			m.TitleID = toTitle
		}
	}
	return nil
}

func (s *memStore) CreateGameTitle(_ context.Context, title *models.GameTitle) error {
	if title.ID == uuid.Nil {
		title.ID = uuid.New()
	}
	copied := *title
	s.titles[title.ID] = &copied
	return nil
}

func (s *memStore) GetGameTitle(_ context.Context, id uuid.UUID) (*models.GameTitle, error) {
	t, ok := s.titles[id]
	if !ok {
		return nil, database.ErrTitleNotFound
	}
	copied := *t
	return &copied, nil
}

func (s *memStore) DeleteGameTitle(_ context.Context, id uuid.UUID) error {
	delete(s.titles, id)
	return nil
}

func (s *memStore) CreateGameRelease(_ context.Context, release *models.GameRelease) error {
	if release.ID == uuid.Nil {
		release.ID = uuid.New()
	}
	copied := *release
	s.releases[release.ID] = &copied
	return nil
}

func (s *memStore) GetGameRelease(_ context.Context, id uuid.UUID) (*models.GameRelease, error) {
	r, ok := s.releases[id]
	if !ok {
		return nil, database.ErrReleaseNotFound
	}
	copied := *r
	return &copied, nil
}

func (s *memStore) ListGameReleases(_ context.Context, titleID uuid.UUID) ([]models.GameRelease, error) {
	var out []models.GameRelease
	for _, r := range s.releases {
		if r.TitleID == titleID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *memStore) ReassignReleasesTitle(_ context.Context, fromTitle, toTitle uuid.UUID) error {
	for _, r := range s.releases {
		if r.TitleID == fromTitle {
			r.TitleID = toTitle
		}
	}
	return nil
}

func (s *memStore) UpdateReleaseTitle(_ context.Context, releaseID, titleID uuid.UUID) error {
	r, ok := s.releases[releaseID]
	if !ok {
		return database.ErrReleaseNotFound
	}
	r.TitleID = titleID
	return nil
}

func (s *memStore) DeleteGameRelease(_ context.Context, id uuid.UUID) error {
	delete(s.releases, id)
	return nil
}

func (s *memStore) ReassignItemsRelease(_ context.Context, fromRelease, toRelease uuid.UUID) error {
	for _, i := range s.items {
		if i.ReleaseID == fromRelease {
			i.ReleaseID = toRelease
		}
	}
	return nil
}

func (s *memStore) ClearItemsNeedsReview(_ context.Context, provider, externalGameID string) error {
	for _, i := range s.items {
		if i.AggregatorProvider == provider && i.AggregatorExternalGameID == externalGameID {
			i.NeedsReview = false
		}
	}
	return nil
}
