// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package metadata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/gamehoard/gamehoard/internal/config"
	"github.com/gamehoard/gamehoard/internal/metrics"
	"github.com/gamehoard/gamehoard/internal/models"
)

// RAWGProvider queries the RAWG.io games database. It is the primary
// provider: broad coverage, good descriptions and cover art, but no
// reliable per-mode player counts.
type RAWGProvider struct {
	cfg     config.RAWGConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// NewRAWGProvider creates the RAWG provider.
func NewRAWGProvider(cfg config.RAWGConfig) *RAWGProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RAWGProvider{
		cfg:     cfg,
		client:  &http.Client{Timeout: timeout},
		breaker: newProviderBreaker("rawg"),
	}
}

// Name implements Provider.
func (p *RAWGProvider) Name() string { return "rawg" }

// Rank implements Provider. RAWG is queried first.
func (p *RAWGProvider) Rank() int { return 1 }

// Supports implements Provider. RAWG covers video games only.
func (p *RAWGProvider) Supports(gameType string) bool {
	return gameType == "game" || gameType == "dlc" || gameType == "expansion"
}

// PlayerCountCapable implements Provider. RAWG player data is too
// coarse for the count merge.
func (p *RAWGProvider) PlayerCountCapable() bool { return false }

// rawgSearchResponse mirrors the fields we consume from /games.
type rawgSearchResponse struct {
	Results []struct {
		ID              int    `json:"id"`
		Name            string `json:"name"`
		Released        string `json:"released"`
		BackgroundImage string `json:"background_image"`
	} `json:"results"`
}

// rawgGameResponse mirrors the fields we consume from /games/{id}.
type rawgGameResponse struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	DescriptionRaw  string `json:"description_raw"`
	BackgroundImage string `json:"background_image"`
	Tags            []struct {
		Slug string `json:"slug"`
	} `json:"tags"`
}

// Search implements Provider.
func (p *RAWGProvider) Search(ctx context.Context, name string) ([]models.MetadataSearchResult, error) {
	started := time.Now()

	endpoint := fmt.Sprintf("%s/games?key=%s&search=%s&page_size=10",
		p.cfg.BaseURL, url.QueryEscape(p.cfg.APIKey), url.QueryEscape(name))

	body, err := p.get(ctx, endpoint)
	metrics.RecordProviderRequest("rawg", "search", err, time.Since(started))
	if err != nil {
		return nil, err
	}

	var parsed rawgSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("rawg search decode: %w", err)
	}

	results := make([]models.MetadataSearchResult, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		results = append(results, models.MetadataSearchResult{
			Provider:    "rawg",
			ExternalID:  strconv.Itoa(r.ID),
			Name:        r.Name,
			ReleaseYear: releaseYear(r.Released),
			CoverURL:    r.BackgroundImage,
		})
	}
	return results, nil
}

// Fetch implements Provider.
func (p *RAWGProvider) Fetch(ctx context.Context, externalID string) (*models.GameMetadata, error) {
	started := time.Now()

	endpoint := fmt.Sprintf("%s/games/%s?key=%s",
		p.cfg.BaseURL, url.PathEscape(externalID), url.QueryEscape(p.cfg.APIKey))

	body, err := p.get(ctx, endpoint)
	metrics.RecordProviderRequest("rawg", "fetch", err, time.Since(started))
	if err != nil {
		return nil, err
	}

	var parsed rawgGameResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("rawg fetch decode: %w", err)
	}

	md := &models.GameMetadata{
		Provider:    "rawg",
		ExternalID:  externalID,
		Name:        parsed.Name,
		Description: parsed.DescriptionRaw,
		CoverURL:    parsed.BackgroundImage,
	}

	// RAWG tags only say whether multiplayer exists, never how many
	// players, so only the support flags are derived from them.
	for _, tag := range parsed.Tags {
		switch tag.Slug {
		case "multiplayer", "online-multiplayer", "co-op", "online-co-op":
			supports := true
			md.SupportsOnline = &supports
		case "local-multiplayer", "local-co-op", "split-screen":
			supports := true
			md.SupportsLocal = &supports
		}
	}

	return md, nil
}

// get performs one breaker-protected GET.
func (p *RAWGProvider) get(ctx context.Context, endpoint string) ([]byte, error) {
	return p.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("rawg request: %w", err)
		}

		resp, err := p.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("rawg request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("rawg returned status %d", resp.StatusCode)
		}

		return io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	})
}

// releaseYear extracts the year from RAWG's YYYY-MM-DD release date.
func releaseYear(released string) int {
	if len(released) < 4 {
		return 0
	}
	year, err := strconv.Atoi(released[:4])
	if err != nil {
		return 0
	}
	return year
}
