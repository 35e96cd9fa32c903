// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package metadata

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/gamehoard/gamehoard/internal/logging"
)

// ResyncResult summarizes one catalog-wide enrichment run.
type ResyncResult struct {
	TitlesProcessed int `json:"titles_processed"`
	TitlesUpdated   int `json:"titles_updated"`
	Failures        int `json:"failures"`
}

// ResyncAll enriches every catalog title at a fixed pace. The delay
// between titles bounds the request rate against the provider APIs;
// per-title failures are logged and counted, never fatal.
func (p *Pipeline) ResyncAll(ctx context.Context, delay time.Duration) (*ResyncResult, error) {
	if delay <= 0 {
		delay = 1500 * time.Millisecond
	}

	titles, err := p.store.ListGameTitles(ctx)
	if err != nil {
		return nil, err
	}

	limiter := rate.NewLimiter(rate.Every(delay), 1)
	result := &ResyncResult{}
	started := time.Now()

	for i := range titles {
		if err := limiter.Wait(ctx); err != nil {
			return result, err
		}

		title := &titles[i]
		result.TitlesProcessed++

		enriched := p.Enrich(ctx, title)
		if !enriched.Updated {
			continue
		}
		if err := p.store.UpdateGameTitle(ctx, title); err != nil {
			result.Failures++
			logging.Warn().Err(err).
				Str("title_id", title.ID.String()).
				Str("title", title.Name).
				Msg("Failed to persist enriched title")
			continue
		}
		result.TitlesUpdated++
	}

	logging.Info().
		Int("processed", result.TitlesProcessed).
		Int("updated", result.TitlesUpdated).
		Int("failures", result.Failures).
		Dur("elapsed", time.Since(started)).
		Msg("Metadata resync finished")
	return result, nil
}
