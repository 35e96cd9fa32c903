// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gamehoard/gamehoard/internal/database"
)

// EnrichTitle triggers metadata enrichment for one title.
func (h *Handler) EnrichTitle(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	if h.pipeline == nil {
		writeError(w, http.StatusServiceUnavailable, "INTERNAL_ERROR", "metadata enrichment is disabled", nil)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a valid UUID", nil)
		return
	}

	result, err := h.pipeline.EnrichTitle(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrTitleNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "title not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "enrichment failed", nil)
		return
	}

	writeSuccess(w, http.StatusOK, result, started)
}

// ResyncMetadata queues a catalog-wide enrichment pass on the
// supervised scheduler and returns immediately.
func (h *Handler) ResyncMetadata(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	if h.pipeline == nil || h.resync == nil {
		writeError(w, http.StatusServiceUnavailable, "INTERNAL_ERROR", "metadata enrichment is disabled", nil)
		return
	}

	state := "queued"
	if !h.resync.Trigger() {
		state = "already_queued"
	}

	writeSuccess(w, http.StatusAccepted, map[string]interface{}{"resync": state}, started)
}

// SearchMetadata queries every provider and returns ranked candidates
// for manual disambiguation.
func (h *Handler) SearchMetadata(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	if h.pipeline == nil {
		writeError(w, http.StatusServiceUnavailable, "INTERNAL_ERROR", "metadata enrichment is disabled", nil)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "q is required", nil)
		return
	}
	gameType := r.URL.Query().Get("type")
	if gameType == "" {
		gameType = "game"
	}

	results := h.pipeline.Search(r.Context(), gameType, query)
	writeSuccess(w, http.StatusOK, map[string]interface{}{"results": results, "count": len(results)}, started)
}
