// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

// Package metadata implements the multi-provider enrichment pipeline:
// ranked provider queries with deterministic fallback, a player-count
// secondary pass, and conservative field-level merge rules.
package metadata

import (
	"context"
	"sort"

	"github.com/gamehoard/gamehoard/internal/models"
)

// Provider is one external metadata source.
//
// Rank orders providers for the primary pass (lower is queried first).
// PlayerCountCapable marks providers trusted for accurate min/max
// player counts, a distinct capability axis from primary ranking.
type Provider interface {
	Name() string
	Rank() int
	Supports(gameType string) bool
	PlayerCountCapable() bool

	Search(ctx context.Context, name string) ([]models.MetadataSearchResult, error)
	Fetch(ctx context.Context, externalID string) (*models.GameMetadata, error)
}

// Registry holds the configured providers. It is an explicit value
// constructed once at process start and passed into the pipeline; there
// is no ambient global lookup.
type Registry struct {
	providers []Provider
}

// NewRegistry creates a registry. Providers are kept sorted by rank.
func NewRegistry(providers ...Provider) *Registry {
	sorted := make([]Provider, len(providers))
	copy(sorted, providers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rank() < sorted[j].Rank()
	})
	return &Registry{providers: sorted}
}

// Ranked returns the providers applicable to a game type, in rank
// order.
func (r *Registry) Ranked(gameType string) []Provider {
	var out []Provider
	for _, p := range r.providers {
		if p.Supports(gameType) {
			out = append(out, p)
		}
	}
	return out
}

// PlayerCountCapable returns the providers trusted for player counts,
// in rank order.
func (r *Registry) PlayerCountCapable(gameType string) []Provider {
	var out []Provider
	for _, p := range r.Ranked(gameType) {
		if p.PlayerCountCapable() {
			out = append(out, p)
		}
	}
	return out
}

// Empty reports whether no providers are configured.
func (r *Registry) Empty() bool {
	return len(r.providers) == 0
}
