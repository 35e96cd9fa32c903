// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gamehoard/gamehoard/internal/database"
)

// GetJob returns one sync job by ID.
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a valid UUID", nil)
		return
	}

	job, err := h.db.GetSyncJob(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrSyncJobNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "sync job not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load sync job", nil)
		return
	}

	writeSuccess(w, http.StatusOK, job, started)
}

// ListJobs returns recent sync jobs for an account, newest first.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	accountID, err := uuid.Parse(r.URL.Query().Get("account_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "account_id must be a valid UUID", nil)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be a non-negative integer", nil)
			return
		}
	}

	jobs, err := h.db.ListSyncJobs(r.Context(), accountID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list sync jobs", nil)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"jobs": jobs, "count": len(jobs)}, started)
}
