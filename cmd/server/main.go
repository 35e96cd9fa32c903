// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

// Package main is the entry point for the GameHoard server.
//
// GameHoard ingests game library exports from aggregator clients
// (currently Playnite), reconciles them against a canonical catalog of
// titles and releases, and enriches the catalog from external metadata
// providers.
//
// Startup order:
//
//  1. Configuration: Koanf v2 layered sources (env > config.yaml > defaults)
//  2. Database: DuckDB with the catalog and library schema
//  3. Ingestion: reconciler, projector, sweeper, and catalog resolver
//  4. Events: in-process Watermill bus for import lifecycle events
//  5. Metadata: enrichment pipeline with RAWG/IGDB providers (optional)
//  6. HTTP server: REST API under a suture supervision tree
//
// The server shuts down gracefully on SIGINT and SIGTERM: the listener
// stops accepting connections, in-flight requests get a bounded drain
// window, then the event bus and database are closed.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gamehoard/gamehoard/internal/api"
	"github.com/gamehoard/gamehoard/internal/auth"
	"github.com/gamehoard/gamehoard/internal/catalog"
	"github.com/gamehoard/gamehoard/internal/config"
	"github.com/gamehoard/gamehoard/internal/database"
	"github.com/gamehoard/gamehoard/internal/events"
	"github.com/gamehoard/gamehoard/internal/ingest"
	"github.com/gamehoard/gamehoard/internal/logging"
	"github.com/gamehoard/gamehoard/internal/metadata"
	"github.com/gamehoard/gamehoard/internal/supervisor"
	"github.com/gamehoard/gamehoard/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Bool("metadata_enabled", cfg.Metadata.Enabled).
		Msg("Starting GameHoard")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	tokens := auth.NewTokenManager(db)
	resolver := catalog.NewResolver(db)

	// In-process event bus. The importer publishes a completion event
	// per accepted import; subscribers run under the supervisor.
	bus := events.NewBus()
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	importer := ingest.NewImporter(
		ingest.NewReconciler(db),
		ingest.NewProjector(db),
		ingest.NewSweeper(db),
		resolver,
		db,
		bus,
	)

	pipeline, searchCache := initMetadata(cfg, db)
	if searchCache != nil {
		defer func() {
			if err := searchCache.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing metadata search cache")
			}
		}()
	}

	var resync *metadata.ResyncScheduler
	if pipeline != nil {
		resync = metadata.NewResyncScheduler(pipeline, cfg.Metadata.ResyncDelay)
	}

	handler := api.NewHandler(cfg, db, importer, resolver, tokens, pipeline, resync)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	tree.AddMessagingService(events.NewImportLogSubscriber(bus))
	if resync != nil {
		tree.AddMessagingService(resync)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain the error channel until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Server stopped gracefully")
}

// initMetadata builds the enrichment pipeline from configuration.
// Returns a nil pipeline when enrichment is disabled; the API reports
// the feature as unavailable in that case. The returned cache, when
// non-nil, must be closed by the caller on shutdown.
func initMetadata(cfg *config.Config, db *database.DB) (*metadata.Pipeline, *metadata.SearchCache) {
	if !cfg.Metadata.Enabled {
		logging.Info().Msg("Metadata enrichment disabled")
		return nil, nil
	}

	var providers []metadata.Provider
	if cfg.Metadata.RAWG.Enabled {
		providers = append(providers, metadata.NewRAWGProvider(cfg.Metadata.RAWG))
	}
	if cfg.Metadata.IGDB.Enabled {
		providers = append(providers, metadata.NewIGDBProvider(cfg.Metadata.IGDB))
	}
	registry := metadata.NewRegistry(providers...)

	// The search cache is optional. A cache failure downgrades to
	// uncached lookups rather than refusing to start.
	var cache *metadata.SearchCache
	if cfg.Metadata.CachePath != "" {
		var err error
		cache, err = metadata.OpenSearchCache(cfg.Metadata.CachePath, cfg.Metadata.CacheTTL)
		if err != nil {
			logging.Warn().Err(err).Str("path", cfg.Metadata.CachePath).
				Msg("Failed to open metadata search cache, continuing without it")
			cache = nil
		}
	}

	logging.Info().Int("providers", len(providers)).Msg("Metadata enrichment enabled")
	return metadata.NewPipeline(registry, db, cache), cache
}
