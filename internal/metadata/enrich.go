// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package metadata

import (
	"context"

	"github.com/google/uuid"

	"github.com/gamehoard/gamehoard/internal/logging"
	"github.com/gamehoard/gamehoard/internal/models"
)

// minValidDescriptionLength is the threshold below which an existing
// description counts as a stub and may be overwritten.
const minValidDescriptionLength = 40

// TitleStore is the catalog surface of the enrichment pipeline.
type TitleStore interface {
	GetGameTitle(ctx context.Context, id uuid.UUID) (*models.GameTitle, error)
	UpdateGameTitle(ctx context.Context, title *models.GameTitle) error
	ListGameTitles(ctx context.Context) ([]models.GameTitle, error)
}

// EnrichResult reports what one enrichment run changed.
type EnrichResult struct {
	Updated       bool     `json:"updated"`
	FieldsUpdated []string `json:"fields_updated"`
	Provider      string   `json:"provider,omitempty"`
}

// Pipeline queries ranked providers and applies conservative field
// merges to catalog titles.
type Pipeline struct {
	registry *Registry
	store    TitleStore
	cache    *SearchCache // nil disables caching
}

// NewPipeline wires the enrichment pipeline.
func NewPipeline(registry *Registry, store TitleStore, cache *SearchCache) *Pipeline {
	return &Pipeline{registry: registry, store: store, cache: cache}
}

// EnrichTitle loads a title, enriches it, and persists any changes.
func (p *Pipeline) EnrichTitle(ctx context.Context, titleID uuid.UUID) (*EnrichResult, error) {
	title, err := p.store.GetGameTitle(ctx, titleID)
	if err != nil {
		return nil, err
	}

	result := p.Enrich(ctx, title)
	if result.Updated {
		if err := p.store.UpdateGameTitle(ctx, title); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Enrich mutates the title in memory from provider metadata and reports
// the fields it changed. Persistence is the caller's concern.
//
// The primary pass queries providers in rank order and stops at the
// first provider returning any search result (provider short-circuit).
// If the primary result indicates multiplayer support but carries no
// specific player counts, a secondary pass consults the player-count
// capable providers, merging only player-count fields.
func (p *Pipeline) Enrich(ctx context.Context, title *models.GameTitle) *EnrichResult {
	result := &EnrichResult{}

	primary, provider := p.fetchPrimary(ctx, title)
	if primary == nil {
		return result
	}
	result.Provider = provider

	result.FieldsUpdated = applyMetadata(title, primary, false)

	if primary.Multiplayer() && !primary.HasPlayerCounts() {
		if counts := p.fetchPlayerCounts(ctx, title, provider); counts != nil {
			result.FieldsUpdated = append(result.FieldsUpdated, applyMetadata(title, counts, true)...)
		}
	}

	result.Updated = len(result.FieldsUpdated) > 0
	return result
}

// fetchPrimary runs the ranked primary pass. Provider failures are
// logged and skipped, never fatal.
func (p *Pipeline) fetchPrimary(ctx context.Context, title *models.GameTitle) (*models.GameMetadata, string) {
	for _, provider := range p.registry.Ranked(title.GameType) {
		results, err := p.search(ctx, provider, title.Name)
		if err != nil {
			logging.Warn().Err(err).
				Str("provider", provider.Name()).
				Str("title", title.Name).
				Msg("Provider search failed")
			continue
		}
		if len(results) == 0 {
			continue
		}

		md, err := provider.Fetch(ctx, results[0].ExternalID)
		if err != nil {
			logging.Warn().Err(err).
				Str("provider", provider.Name()).
				Str("title", title.Name).
				Msg("Provider fetch failed")
			continue
		}
		return md, provider.Name()
	}
	return nil, ""
}

// fetchPlayerCounts runs the secondary pass against player-count
// capable providers, skipping the one that already answered, and stops
// at the first result carrying counts.
func (p *Pipeline) fetchPlayerCounts(ctx context.Context, title *models.GameTitle, primaryProvider string) *models.GameMetadata {
	for _, provider := range p.registry.PlayerCountCapable(title.GameType) {
		if provider.Name() == primaryProvider {
			continue
		}

		results, err := p.search(ctx, provider, title.Name)
		if err != nil || len(results) == 0 {
			continue
		}
		md, err := provider.Fetch(ctx, results[0].ExternalID)
		if err != nil {
			continue
		}
		if md.HasPlayerCounts() {
			return md
		}
	}
	return nil
}

// search consults the cache before the provider.
func (p *Pipeline) search(ctx context.Context, provider Provider, name string) ([]models.MetadataSearchResult, error) {
	if p.cache != nil {
		if cached, ok := p.cache.Get(provider.Name(), name); ok {
			return cached, nil
		}
	}

	results, err := provider.Search(ctx, name)
	if err != nil {
		return nil, err
	}
	if p.cache != nil {
		p.cache.Set(provider.Name(), name, results)
	}
	return results, nil
}

// Search is the user-facing disambiguation entry point: every
// applicable provider is queried and the combined candidates ranked.
func (p *Pipeline) Search(ctx context.Context, gameType, query string) []models.MetadataSearchResult {
	var combined []models.MetadataSearchResult
	for _, provider := range p.registry.Ranked(gameType) {
		results, err := p.search(ctx, provider, query)
		if err != nil {
			logging.Warn().Err(err).Str("provider", provider.Name()).Msg("Provider search failed")
			continue
		}
		combined = append(combined, results...)
	}
	return RankSearchResults(combined, query)
}

// applyMetadata merges fetched metadata into the title under the
// conservative field rules, returning the names of changed fields.
// countsOnly restricts the merge to mode flags and player counts.
func applyMetadata(title *models.GameTitle, md *models.GameMetadata, countsOnly bool) []string {
	var fields []string

	if !countsOnly {
		if md.Description != "" && descriptionOverwritable(title) && title.Description != md.Description {
			title.Description = md.Description
			fields = append(fields, "description")
		}
		if md.CoverURL != "" && title.CoverURL == "" {
			title.CoverURL = md.CoverURL
			fields = append(fields, "cover_url")
		}
	}

	if md.MinPlayers != nil && title.MinPlayers != *md.MinPlayers {
		title.MinPlayers = *md.MinPlayers
		fields = append(fields, "min_players")
	}
	if md.MaxPlayers != nil && title.MaxPlayers != *md.MaxPlayers {
		title.MaxPlayers = *md.MaxPlayers
		fields = append(fields, "max_players")
	}

	fields = append(fields, applyMode(
		md.SupportsOnline, md.OnlineMinPlayers, md.OnlineMaxPlayers,
		&title.SupportsOnline, &title.OnlineMinPlayers, &title.OnlineMaxPlayers,
		"online",
	)...)
	fields = append(fields, applyMode(
		md.SupportsLocal, md.LocalMinPlayers, md.LocalMaxPlayers,
		&title.SupportsLocal, &title.LocalMinPlayers, &title.LocalMaxPlayers,
		"local",
	)...)

	return fields
}

// applyMode merges one mode's support flag and counts. A mode newly set
// unsupported has its counts cleared in the same update; counts are
// only written when the mode ends up supported after the update.
func applyMode(mdSupports *bool, mdMin, mdMax *int, supports *bool, minPlayers, maxPlayers **int, mode string) []string {
	var fields []string

	if mdSupports != nil && *supports != *mdSupports {
		*supports = *mdSupports
		fields = append(fields, "supports_"+mode)

		if !*mdSupports {
			if *minPlayers != nil {
				*minPlayers = nil
				fields = append(fields, mode+"_min_players")
			}
			if *maxPlayers != nil {
				*maxPlayers = nil
				fields = append(fields, mode+"_max_players")
			}
		}
	}

	if !*supports {
		return fields
	}

	if mdMin != nil && !intPtrEqual(*minPlayers, mdMin) {
		v := *mdMin
		*minPlayers = &v
		fields = append(fields, mode+"_min_players")
	}
	if mdMax != nil && !intPtrEqual(*maxPlayers, mdMax) {
		v := *mdMax
		*maxPlayers = &v
		fields = append(fields, mode+"_max_players")
	}

	return fields
}

// descriptionOverwritable: empty, placeholder (the title's own name),
// or shorter than the minimum valid length.
func descriptionOverwritable(title *models.GameTitle) bool {
	desc := title.Description
	return desc == "" || desc == title.Name || len(desc) < minValidDescriptionLength
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
