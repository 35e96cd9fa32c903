// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package api

import (
	"net/http"
	"time"

	"github.com/gamehoard/gamehoard/internal/auth"
	"github.com/gamehoard/gamehoard/internal/catalog"
	"github.com/gamehoard/gamehoard/internal/config"
	"github.com/gamehoard/gamehoard/internal/database"
	"github.com/gamehoard/gamehoard/internal/ingest"
	"github.com/gamehoard/gamehoard/internal/metadata"
)

// Handler carries the wired application services the HTTP handlers
// dispatch into.
type Handler struct {
	cfg      *config.Config
	db       *database.DB
	importer *ingest.Importer
	catalog  *catalog.Resolver
	tokens   *auth.TokenManager

	// pipeline and resync are nil when metadata enrichment is disabled.
	pipeline *metadata.Pipeline
	resync   *metadata.ResyncScheduler
}

// NewHandler creates the handler set.
func NewHandler(cfg *config.Config, db *database.DB, importer *ingest.Importer, resolver *catalog.Resolver, tokens *auth.TokenManager, pipeline *metadata.Pipeline, resync *metadata.ResyncScheduler) *Handler {
	return &Handler{
		cfg:      cfg,
		db:       db,
		importer: importer,
		catalog:  resolver,
		tokens:   tokens,
		pipeline: pipeline,
		resync:   resync,
	}
}

// Healthz reports liveness and database reachability.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	status := map[string]interface{}{
		"status":   "ok",
		"database": "ok",
	}
	httpStatus := http.StatusOK

	if err := h.db.Conn().PingContext(r.Context()); err != nil {
		status["status"] = "degraded"
		status["database"] = err.Error()
		httpStatus = http.StatusServiceUnavailable
	}

	writeSuccess(w, httpStatus, status, started)
}
