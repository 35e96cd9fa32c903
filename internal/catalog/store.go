// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

// Package catalog resolves external game identities to canonical
// GameTitle/GameRelease entities and executes explicit merge
// operations on them.
package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/gamehoard/gamehoard/internal/models"
)

// Store is the persistence surface the catalog needs. *database.DB
// satisfies it; tests substitute an in-memory fake.
type Store interface {
	GetMapping(ctx context.Context, provider, externalGameID string) (*models.GameExternalMapping, error)
	GetMappingByID(ctx context.Context, id uuid.UUID) (*models.GameExternalMapping, error)
	CreateMapping(ctx context.Context, mapping *models.GameExternalMapping) error
	UpdateMapping(ctx context.Context, mapping *models.GameExternalMapping) error
	ListMappingsByStatus(ctx context.Context, status string) ([]models.GameExternalMapping, error)
	ReassignMappings(ctx context.Context, fromRelease uuid.UUID, toTitle, toRelease uuid.UUID) error
	ReassignMappingsTitle(ctx context.Context, fromTitle, toTitle uuid.UUID) error

	CreateGameTitle(ctx context.Context, title *models.GameTitle) error
	GetGameTitle(ctx context.Context, id uuid.UUID) (*models.GameTitle, error)
	DeleteGameTitle(ctx context.Context, id uuid.UUID) error

	CreateGameRelease(ctx context.Context, release *models.GameRelease) error
	GetGameRelease(ctx context.Context, id uuid.UUID) (*models.GameRelease, error)
	ListGameReleases(ctx context.Context, titleID uuid.UUID) ([]models.GameRelease, error)
	ReassignReleasesTitle(ctx context.Context, fromTitle, toTitle uuid.UUID) error
	UpdateReleaseTitle(ctx context.Context, releaseID, titleID uuid.UUID) error
	DeleteGameRelease(ctx context.Context, id uuid.UUID) error

	ReassignItemsRelease(ctx context.Context, fromRelease, toRelease uuid.UUID) error
	ClearItemsNeedsReview(ctx context.Context, provider, externalGameID string) error
}
