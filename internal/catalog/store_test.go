// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gamehoard/gamehoard/internal/database"
	"github.com/gamehoard/gamehoard/internal/models"
)

// fakeStore is an in-memory Store for resolver and merge tests.
type fakeStore struct {
	mappings map[uuid.UUID]*models.GameExternalMapping
	titles   map[uuid.UUID]*models.GameTitle
	releases map[uuid.UUID]*models.GameRelease

	// itemsByRelease tracks item re-pointing during merges.
	itemsByRelease map[uuid.UUID]int

	// reviewCleared records ClearItemsNeedsReview calls as
	// "provider/externalGameID".
	reviewCleared []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		mappings:       make(map[uuid.UUID]*models.GameExternalMapping),
		titles:         make(map[uuid.UUID]*models.GameTitle),
		releases:       make(map[uuid.UUID]*models.GameRelease),
		itemsByRelease: make(map[uuid.UUID]int),
	}
}

func (s *fakeStore) GetMapping(_ context.Context, provider, externalGameID string) (*models.GameExternalMapping, error) {
	for _, m := range s.mappings {
		if m.Provider == provider && m.ExternalGameID == externalGameID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, database.ErrMappingNotFound
}

func (s *fakeStore) GetMappingByID(_ context.Context, id uuid.UUID) (*models.GameExternalMapping, error) {
	m, ok := s.mappings[id]
	if !ok {
		return nil, database.ErrMappingNotFound
	}
	copied := *m
	return &copied, nil
}

func (s *fakeStore) CreateMapping(_ context.Context, mapping *models.GameExternalMapping) error {
	for _, m := range s.mappings {
		if m.Provider == mapping.Provider && m.ExternalGameID == mapping.ExternalGameID {
			return database.ErrMappingConflict
		}
	}
	if mapping.ID == uuid.Nil {
		mapping.ID = uuid.New()
	}
	mapping.CreatedAt = time.Now()
	copied := *mapping
	s.mappings[mapping.ID] = &copied
	return nil
}

func (s *fakeStore) UpdateMapping(_ context.Context, mapping *models.GameExternalMapping) error {
	if _, ok := s.mappings[mapping.ID]; !ok {
		return database.ErrMappingNotFound
	}
	copied := *mapping
	s.mappings[mapping.ID] = &copied
	return nil
}

func (s *fakeStore) ListMappingsByStatus(_ context.Context, status string) ([]models.GameExternalMapping, error) {
	var out []models.GameExternalMapping
	for _, m := range s.mappings {
		if m.Status == status {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *fakeStore) ReassignMappings(_ context.Context, fromRelease uuid.UUID, toTitle, toRelease uuid.UUID) error {
	for _, m := range s.mappings {
		if m.ReleaseID != nil && *m.ReleaseID == fromRelease {
			m.TitleID = toTitle
			rel := toRelease
			m.ReleaseID = &rel
		}
	}
	return nil
}

func (s *fakeStore) ReassignMappingsTitle(_ context.Context, fromTitle, toTitle uuid.UUID) error {
	for _, m := range s.mappings {
		if m.TitleID == fromTitle {
			m.TitleID = toTitle
		}
	}
	return nil
}

func (s *fakeStore) CreateGameTitle(_ context.Context, title *models.GameTitle) error {
	if title.ID == uuid.Nil {
		title.ID = uuid.New()
	}
	copied := *title
	s.titles[title.ID] = &copied
	return nil
}

func (s *fakeStore) GetGameTitle(_ context.Context, id uuid.UUID) (*models.GameTitle, error) {
	t, ok := s.titles[id]
	if !ok {
		return nil, database.ErrTitleNotFound
	}
	copied := *t
	return &copied, nil
}

func (s *fakeStore) DeleteGameTitle(_ context.Context, id uuid.UUID) error {
	delete(s.titles, id)
	return nil
}

func (s *fakeStore) CreateGameRelease(_ context.Context, release *models.GameRelease) error {
	if release.ID == uuid.Nil {
		release.ID = uuid.New()
	}
	copied := *release
	s.releases[release.ID] = &copied
	return nil
}

func (s *fakeStore) GetGameRelease(_ context.Context, id uuid.UUID) (*models.GameRelease, error) {
	r, ok := s.releases[id]
	if !ok {
		return nil, database.ErrReleaseNotFound
	}
	copied := *r
	return &copied, nil
}

func (s *fakeStore) ListGameReleases(_ context.Context, titleID uuid.UUID) ([]models.GameRelease, error) {
	var out []models.GameRelease
	for _, r := range s.releases {
		if r.TitleID == titleID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *fakeStore) ReassignReleasesTitle(_ context.Context, fromTitle, toTitle uuid.UUID) error {
	for _, r := range s.releases {
		if r.TitleID == fromTitle {
			r.TitleID = toTitle
		}
	}
	return nil
}

func (s *fakeStore) UpdateReleaseTitle(_ context.Context, releaseID, titleID uuid.UUID) error {
	r, ok := s.releases[releaseID]
	if !ok {
		return database.ErrReleaseNotFound
	}
	r.TitleID = titleID
	return nil
}

func (s *fakeStore) DeleteGameRelease(_ context.Context, id uuid.UUID) error {
	delete(s.releases, id)
	return nil
}

func (s *fakeStore) ReassignItemsRelease(_ context.Context, fromRelease, toRelease uuid.UUID) error {
	s.itemsByRelease[toRelease] += s.itemsByRelease[fromRelease]
	delete(s.itemsByRelease, fromRelease)
	return nil
}

func (s *fakeStore) ClearItemsNeedsReview(_ context.Context, provider, externalGameID string) error {
	s.reviewCleared = append(s.reviewCleared, provider+"/"+externalGameID)
	return nil
}
