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

// Catalog errors
var (
	ErrTitleNotFound   = errors.New("game title not found")
	ErrReleaseNotFound = errors.New("game release not found")
	ErrMappingNotFound = errors.New("game external mapping not found")
	ErrMappingConflict = errors.New("mapping already exists for this identity")
)

const titleColumns = `id, name, game_type, description, cover_url,
	min_players, max_players, coop_max,
	supports_online, online_min_players, online_max_players,
	supports_local, local_min_players, local_max_players,
	supports_physical, created_at, updated_at`

// CreateGameTitle inserts a new canonical title.
func (db *DB) CreateGameTitle(ctx context.Context, title *models.GameTitle) error {
	if title.ID == uuid.Nil {
		title.ID = uuid.New()
	}
	if title.CreatedAt.IsZero() {
		title.CreatedAt = time.Now().UTC()
	}
	title.UpdatedAt = title.CreatedAt
	if title.GameType == "" {
		title.GameType = "game"
	}
	if title.MinPlayers == 0 {
		title.MinPlayers = 1
	}
	if title.MaxPlayers == 0 {
		title.MaxPlayers = 1
	}

	query := `INSERT INTO game_titles (` + titleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(ctx, query,
		title.ID, title.Name, title.GameType, title.Description, title.CoverURL,
		title.MinPlayers, title.MaxPlayers, title.CoopMax,
		title.SupportsOnline, title.OnlineMinPlayers, title.OnlineMaxPlayers,
		title.SupportsLocal, title.LocalMinPlayers, title.LocalMaxPlayers,
		title.SupportsPhysical, title.CreatedAt, title.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create game title: %w", err)
	}
	return nil
}

// GetGameTitle retrieves a title by ID.
func (db *DB) GetGameTitle(ctx context.Context, id uuid.UUID) (*models.GameTitle, error) {
	query := `SELECT ` + titleColumns + ` FROM game_titles WHERE id = ?`
	row := db.conn.QueryRowContext(ctx, query, id)
	return scanGameTitle(row)
}

// UpdateGameTitle persists enrichment changes to a title.
func (db *DB) UpdateGameTitle(ctx context.Context, title *models.GameTitle) error {
	title.UpdatedAt = time.Now().UTC()

	query := `UPDATE game_titles SET
		name = ?, game_type = ?, description = ?, cover_url = ?,
		min_players = ?, max_players = ?, coop_max = ?,
		supports_online = ?, online_min_players = ?, online_max_players = ?,
		supports_local = ?, local_min_players = ?, local_max_players = ?,
		supports_physical = ?, updated_at = ?
		WHERE id = ?`

	_, err := db.conn.ExecContext(ctx, query,
		title.Name, title.GameType, title.Description, title.CoverURL,
		title.MinPlayers, title.MaxPlayers, title.CoopMax,
		title.SupportsOnline, title.OnlineMinPlayers, title.OnlineMaxPlayers,
		title.SupportsLocal, title.LocalMinPlayers, title.LocalMaxPlayers,
		title.SupportsPhysical, title.UpdatedAt, title.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update game title: %w", err)
	}
	return nil
}

// ListGameTitles returns all titles, ordered by creation time. Used by
// the catalog-wide enrichment resync.
func (db *DB) ListGameTitles(ctx context.Context) ([]models.GameTitle, error) {
	query := `SELECT ` + titleColumns + ` FROM game_titles ORDER BY created_at`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list game titles: %w", err)
	}
	defer rows.Close()

	var titles []models.GameTitle
	for rows.Next() {
		var t models.GameTitle
		if err := rows.Scan(&t.ID, &t.Name, &t.GameType, &t.Description, &t.CoverURL,
			&t.MinPlayers, &t.MaxPlayers, &t.CoopMax,
			&t.SupportsOnline, &t.OnlineMinPlayers, &t.OnlineMaxPlayers,
			&t.SupportsLocal, &t.LocalMinPlayers, &t.LocalMaxPlayers,
			&t.SupportsPhysical, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game title: %w", err)
		}
		titles = append(titles, t)
	}
	return titles, rows.Err()
}

// DeleteGameTitle removes a title record. Only merge operations call
// this, after re-pointing everything that referenced it.
func (db *DB) DeleteGameTitle(ctx context.Context, id uuid.UUID) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM game_titles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete game title: %w", err)
	}
	return nil
}

// CreateGameRelease inserts a new release for a title.
func (db *DB) CreateGameRelease(ctx context.Context, release *models.GameRelease) error {
	if release.ID == uuid.Nil {
		release.ID = uuid.New()
	}
	if release.CreatedAt.IsZero() {
		release.CreatedAt = time.Now().UTC()
	}
	if release.Platform == "" {
		release.Platform = "PC"
	}

	query := `INSERT INTO game_releases (id, title_id, platform, edition, release_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(ctx, query,
		release.ID, release.TitleID, release.Platform, release.Edition, release.ReleaseAt, release.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create game release: %w", err)
	}
	return nil
}

// GetGameRelease retrieves a release by ID.
func (db *DB) GetGameRelease(ctx context.Context, id uuid.UUID) (*models.GameRelease, error) {
	query := `SELECT id, title_id, platform, edition, release_at, created_at
		FROM game_releases WHERE id = ?`

	var r models.GameRelease
	err := db.conn.QueryRowContext(ctx, query, id).Scan(
		&r.ID, &r.TitleID, &r.Platform, &r.Edition, &r.ReleaseAt, &r.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReleaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan game release: %w", err)
	}
	return &r, nil
}

// ListGameReleases returns all releases of a title.
func (db *DB) ListGameReleases(ctx context.Context, titleID uuid.UUID) ([]models.GameRelease, error) {
	query := `SELECT id, title_id, platform, edition, release_at, created_at
		FROM game_releases WHERE title_id = ? ORDER BY created_at`

	rows, err := db.conn.QueryContext(ctx, query, titleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list game releases: %w", err)
	}
	defer rows.Close()

	var releases []models.GameRelease
	for rows.Next() {
		var r models.GameRelease
		if err := rows.Scan(&r.ID, &r.TitleID, &r.Platform, &r.Edition, &r.ReleaseAt, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game release: %w", err)
		}
		releases = append(releases, r)
	}
	return releases, rows.Err()
}

// ReassignReleasesTitle re-points all releases from one title to another.
func (db *DB) ReassignReleasesTitle(ctx context.Context, fromTitle, toTitle uuid.UUID) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE game_releases SET title_id = ? WHERE title_id = ?`, toTitle, fromTitle)
	if err != nil {
		return fmt.Errorf("failed to reassign releases: %w", err)
	}
	return nil
}

// DeleteGameRelease removes a release record. Only merge operations call
// this.
func (db *DB) DeleteGameRelease(ctx context.Context, id uuid.UUID) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM game_releases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete game release: %w", err)
	}
	return nil
}

// UpdateReleaseTitle moves a release under a different title.
func (db *DB) UpdateReleaseTitle(ctx context.Context, releaseID, titleID uuid.UUID) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE game_releases SET title_id = ? WHERE id = ?`, titleID, releaseID)
	if err != nil {
		return fmt.Errorf("failed to move release: %w", err)
	}
	return nil
}

const mappingColumns = `id, provider, external_game_id, title_id, release_id, status, display_name, created_at, updated_at`

// GetMapping retrieves a mapping by its external identity.
func (db *DB) GetMapping(ctx context.Context, provider, externalGameID string) (*models.GameExternalMapping, error) {
	query := `SELECT ` + mappingColumns + ` FROM game_external_mappings
		WHERE provider = ? AND external_game_id = ?`

	row := db.conn.QueryRowContext(ctx, query, provider, externalGameID)
	return scanMapping(row)
}

// CreateMapping inserts a new external identity binding.
func (db *DB) CreateMapping(ctx context.Context, mapping *models.GameExternalMapping) error {
	if mapping.ID == uuid.Nil {
		mapping.ID = uuid.New()
	}
	if mapping.CreatedAt.IsZero() {
		mapping.CreatedAt = time.Now().UTC()
	}
	mapping.UpdatedAt = mapping.CreatedAt

	query := `INSERT INTO game_external_mappings (` + mappingColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(ctx, query,
		mapping.ID, mapping.Provider, mapping.ExternalGameID, mapping.TitleID,
		mapping.ReleaseID, mapping.Status, mapping.DisplayName,
		mapping.CreatedAt, mapping.UpdatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrMappingConflict
		}
		return fmt.Errorf("failed to create mapping: %w", err)
	}
	return nil
}

// UpdateMapping persists a status or binding change.
func (db *DB) UpdateMapping(ctx context.Context, mapping *models.GameExternalMapping) error {
	mapping.UpdatedAt = time.Now().UTC()

	query := `UPDATE game_external_mappings SET
		title_id = ?, release_id = ?, status = ?, display_name = ?, updated_at = ?
		WHERE id = ?`

	_, err := db.conn.ExecContext(ctx, query,
		mapping.TitleID, mapping.ReleaseID, mapping.Status, mapping.DisplayName,
		mapping.UpdatedAt, mapping.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update mapping: %w", err)
	}
	return nil
}

// ListMappingsByStatus returns mappings with the given status, oldest
// first. The manual-resolution queue is ListMappingsByStatus(PENDING).
func (db *DB) ListMappingsByStatus(ctx context.Context, status string) ([]models.GameExternalMapping, error) {
	query := `SELECT ` + mappingColumns + ` FROM game_external_mappings
		WHERE status = ? ORDER BY created_at`

	rows, err := db.conn.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list mappings: %w", err)
	}
	defer rows.Close()

	var mappings []models.GameExternalMapping
	for rows.Next() {
		var m models.GameExternalMapping
		if err := rows.Scan(&m.ID, &m.Provider, &m.ExternalGameID, &m.TitleID,
			&m.ReleaseID, &m.Status, &m.DisplayName, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mapping: %w", err)
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

// GetMappingByID retrieves a mapping by its record ID.
func (db *DB) GetMappingByID(ctx context.Context, id uuid.UUID) (*models.GameExternalMapping, error) {
	query := `SELECT ` + mappingColumns + ` FROM game_external_mappings WHERE id = ?`
	row := db.conn.QueryRowContext(ctx, query, id)
	return scanMapping(row)
}

// ReassignMappingsTitle re-points all mappings under one title to
// another, keeping their release binding. Used by title merges.
func (db *DB) ReassignMappingsTitle(ctx context.Context, fromTitle, toTitle uuid.UUID) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE game_external_mappings SET title_id = ?, updated_at = ? WHERE title_id = ?`,
		toTitle, time.Now().UTC(), fromTitle)
	if err != nil {
		return fmt.Errorf("failed to reassign mappings by title: %w", err)
	}
	return nil
}

// ReassignMappings re-points all mappings bound to one release (or its
// title) to a different title/release pair. Used by merge operations.
func (db *DB) ReassignMappings(ctx context.Context, fromRelease uuid.UUID, toTitle, toRelease uuid.UUID) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE game_external_mappings SET title_id = ?, release_id = ?, updated_at = ?
		WHERE release_id = ?`,
		toTitle, toRelease, time.Now().UTC(), fromRelease)
	if err != nil {
		return fmt.Errorf("failed to reassign mappings: %w", err)
	}
	return nil
}

// scanMapping scans a single row into a GameExternalMapping.
func scanMapping(row *sql.Row) (*models.GameExternalMapping, error) {
	var m models.GameExternalMapping
	err := row.Scan(&m.ID, &m.Provider, &m.ExternalGameID, &m.TitleID,
		&m.ReleaseID, &m.Status, &m.DisplayName, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMappingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan mapping: %w", err)
	}
	return &m, nil
}

// scanGameTitle scans a single row into a GameTitle.
func scanGameTitle(row *sql.Row) (*models.GameTitle, error) {
	var t models.GameTitle
	err := row.Scan(&t.ID, &t.Name, &t.GameType, &t.Description, &t.CoverURL,
		&t.MinPlayers, &t.MaxPlayers, &t.CoopMax,
		&t.SupportsOnline, &t.OnlineMinPlayers, &t.OnlineMaxPlayers,
		&t.SupportsLocal, &t.LocalMinPlayers, &t.LocalMaxPlayers,
		&t.SupportsPhysical, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTitleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan game title: %w", err)
	}
	return &t, nil
}
