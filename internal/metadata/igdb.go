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
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/gamehoard/gamehoard/internal/config"
	"github.com/gamehoard/gamehoard/internal/metrics"
	"github.com/gamehoard/gamehoard/internal/models"
)

// IGDBProvider queries IGDB v4 (Apicalypse query bodies, Twitch OAuth
// credentials). It is the secondary provider for general metadata but
// the authoritative one for per-mode player counts.
type IGDBProvider struct {
	cfg     config.IGDBConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// NewIGDBProvider creates the IGDB provider.
func NewIGDBProvider(cfg config.IGDBConfig) *IGDBProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &IGDBProvider{
		cfg:     cfg,
		client:  &http.Client{Timeout: timeout},
		breaker: newProviderBreaker("igdb"),
	}
}

// Name implements Provider.
func (p *IGDBProvider) Name() string { return "igdb" }

// Rank implements Provider.
func (p *IGDBProvider) Rank() int { return 2 }

// Supports implements Provider.
func (p *IGDBProvider) Supports(gameType string) bool {
	return gameType == "game" || gameType == "dlc" || gameType == "expansion"
}

// PlayerCountCapable implements Provider. IGDB's multiplayer_modes
// carry exact per-mode player counts.
func (p *IGDBProvider) PlayerCountCapable() bool { return true }

// igdbGame mirrors the fields we consume from /games.
type igdbGame struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
	Cover   struct {
		URL string `json:"url"`
	} `json:"cover"`
	FirstReleaseDate int64 `json:"first_release_date"`
	MultiplayerModes []struct {
		OnlineMax    int  `json:"onlinemax"`
		OnlineCoop   bool `json:"onlinecoop"`
		OfflineMax   int  `json:"offlinemax"`
		OfflineCoop  bool `json:"offlinecoop"`
		LANCoop      bool `json:"lancoop"`
		SplitScreen  bool `json:"splitscreen"`
		CampaignCoop bool `json:"campaigncoop"`
	} `json:"multiplayer_modes"`
}

// Search implements Provider.
func (p *IGDBProvider) Search(ctx context.Context, name string) ([]models.MetadataSearchResult, error) {
	started := time.Now()

	query := fmt.Sprintf(`search %q; fields name,cover.url,first_release_date; limit 10;`, name)
	body, err := p.post(ctx, "/games", query)
	metrics.RecordProviderRequest("igdb", "search", err, time.Since(started))
	if err != nil {
		return nil, err
	}

	var games []igdbGame
	if err := json.Unmarshal(body, &games); err != nil {
		return nil, fmt.Errorf("igdb search decode: %w", err)
	}

	results := make([]models.MetadataSearchResult, 0, len(games))
	for _, g := range games {
		results = append(results, models.MetadataSearchResult{
			Provider:    "igdb",
			ExternalID:  strconv.Itoa(g.ID),
			Name:        g.Name,
			ReleaseYear: unixYear(g.FirstReleaseDate),
			CoverURL:    normalizeIGDBImageURL(g.Cover.URL),
		})
	}
	return results, nil
}

// Fetch implements Provider.
func (p *IGDBProvider) Fetch(ctx context.Context, externalID string) (*models.GameMetadata, error) {
	started := time.Now()

	query := fmt.Sprintf(`fields name,summary,cover.url,first_release_date,multiplayer_modes.*; where id = %s;`, externalID)
	body, err := p.post(ctx, "/games", query)
	metrics.RecordProviderRequest("igdb", "fetch", err, time.Since(started))
	if err != nil {
		return nil, err
	}

	var games []igdbGame
	if err := json.Unmarshal(body, &games); err != nil {
		return nil, fmt.Errorf("igdb fetch decode: %w", err)
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("igdb game %s not found", externalID)
	}
	g := games[0]

	md := &models.GameMetadata{
		Provider:    "igdb",
		ExternalID:  externalID,
		Name:        g.Name,
		Description: g.Summary,
		CoverURL:    normalizeIGDBImageURL(g.Cover.URL),
	}

	for _, mode := range g.MultiplayerModes {
		if mode.OnlineMax > 0 || mode.OnlineCoop {
			supports := true
			md.SupportsOnline = &supports
			if mode.OnlineMax > 0 {
				online := mode.OnlineMax
				md.OnlineMaxPlayers = &online
				one := 1
				if md.OnlineMinPlayers == nil {
					md.OnlineMinPlayers = &one
				}
			}
		}
		if mode.OfflineMax > 1 || mode.OfflineCoop || mode.SplitScreen || mode.LANCoop {
			supports := true
			md.SupportsLocal = &supports
			if mode.OfflineMax > 0 {
				local := mode.OfflineMax
				md.LocalMaxPlayers = &local
				one := 1
				if md.LocalMinPlayers == nil {
					md.LocalMinPlayers = &one
				}
			}
		}
	}

	// Overall max is the largest mode-specific count.
	if md.OnlineMaxPlayers != nil || md.LocalMaxPlayers != nil {
		overall := 1
		if md.OnlineMaxPlayers != nil && *md.OnlineMaxPlayers > overall {
			overall = *md.OnlineMaxPlayers
		}
		if md.LocalMaxPlayers != nil && *md.LocalMaxPlayers > overall {
			overall = *md.LocalMaxPlayers
		}
		md.MaxPlayers = &overall
		one := 1
		md.MinPlayers = &one
	}

	return md, nil
}

// post performs one breaker-protected Apicalypse POST.
func (p *IGDBProvider) post(ctx context.Context, path, query string) ([]byte, error) {
	return p.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+path, strings.NewReader(query))
		if err != nil {
			return nil, fmt.Errorf("igdb request: %w", err)
		}
		req.Header.Set("Client-ID", p.cfg.ClientID)
		req.Header.Set("Authorization", "Bearer "+p.cfg.AccessToken)
		req.Header.Set("Accept", "application/json")

		resp, err := p.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("igdb request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("igdb returned status %d", resp.StatusCode)
		}

		return io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	})
}

// normalizeIGDBImageURL upgrades IGDB's protocol-relative thumbnail
// URLs to https cover-size URLs.
func normalizeIGDBImageURL(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}
	return strings.Replace(raw, "t_thumb", "t_cover_big", 1)
}

func unixYear(ts int64) int {
	if ts <= 0 {
		return 0
	}
	return time.Unix(ts, 0).UTC().Year()
}
