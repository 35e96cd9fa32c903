// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package metadata

import (
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/gamehoard/gamehoard/internal/logging"
	"github.com/gamehoard/gamehoard/internal/metrics"
	"github.com/gamehoard/gamehoard/internal/models"
)

// SearchCache persists provider search results in badger with a TTL so
// a catalog-wide resync does not re-issue identical queries against
// rate-limited provider APIs.
type SearchCache struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenSearchCache opens (or creates) the cache at dir. A zero ttl
// defaults to seven days.
func OpenSearchCache(dir string, ttl time.Duration) (*SearchCache, error) {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open search cache: %w", err)
	}
	return &SearchCache{db: db, ttl: ttl}, nil
}

// Close closes the underlying store.
func (c *SearchCache) Close() error {
	return c.db.Close()
}

func cacheKey(provider, query string) []byte {
	return []byte("search:" + provider + ":" + query)
}

// Get returns cached results for (provider, query), or ok=false.
func (c *SearchCache) Get(provider, query string) ([]models.MetadataSearchResult, bool) {
	var results []models.MetadataSearchResult

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(provider, query))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &results)
		})
	})
	if err != nil {
		metrics.MetadataCacheMisses.Inc()
		return nil, false
	}

	metrics.MetadataCacheHits.Inc()
	return results, true
}

// Set stores results for (provider, query) with the cache TTL. Cache
// write failures are logged, never propagated; the cache is an
// optimization.
func (c *SearchCache) Set(provider, query string, results []models.MetadataSearchResult) {
	data, err := json.Marshal(results)
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to encode search cache entry")
		return
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(cacheKey(provider, query), data).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to write search cache entry")
	}
}
