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

	"github.com/gamehoard/gamehoard/internal/catalog"
	"github.com/gamehoard/gamehoard/internal/database"
	"github.com/gamehoard/gamehoard/internal/validation"
)

// ListTitles returns the catalog titles.
func (h *Handler) ListTitles(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	titles, err := h.db.ListGameTitles(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list titles", nil)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"titles": titles, "count": len(titles)}, started)
}

// GetTitle returns one title with its releases.
func (h *Handler) GetTitle(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a valid UUID", nil)
		return
	}

	title, err := h.db.GetGameTitle(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrTitleNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "title not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load title", nil)
		return
	}

	releases, err := h.db.ListGameReleases(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load releases", nil)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"title": title, "releases": releases}, started)
}

// ReviewQueue returns pending mappings awaiting manual resolution.
func (h *Handler) ReviewQueue(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	pending, err := h.catalog.PendingQueue(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load review queue", nil)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"pending": pending, "count": len(pending)}, started)
}

// resolveReviewRequest is the body of a manual resolution.
type resolveReviewRequest struct {
	ReleaseID uuid.UUID `json:"release_id" validate:"required"`
}

// ResolveReview binds a pending mapping to a chosen release, folding
// any provisional entities into the target.
func (h *Handler) ResolveReview(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	mappingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a valid UUID", nil)
		return
	}

	var req resolveReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		writeError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	if err := h.catalog.ResolvePending(r.Context(), mappingID, req.ReleaseID); err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotPending):
			writeError(w, http.StatusConflict, "VALIDATION_ERROR", "mapping is not pending review", nil)
		case errors.Is(err, database.ErrMappingNotFound), errors.Is(err, database.ErrReleaseNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
		default:
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to resolve mapping", nil)
		}
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"mapping_id": mappingID, "status": "MAPPED"}, started)
}

// IgnoreReview marks a pending mapping ignored.
func (h *Handler) IgnoreReview(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	mappingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a valid UUID", nil)
		return
	}

	if err := h.catalog.IgnorePending(r.Context(), mappingID); err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotPending):
			writeError(w, http.StatusConflict, "VALIDATION_ERROR", "mapping is not pending review", nil)
		case errors.Is(err, database.ErrMappingNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "mapping not found", nil)
		default:
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to ignore mapping", nil)
		}
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"mapping_id": mappingID, "status": "IGNORED"}, started)
}

// Merge executes a catalog merge operation: two titles, two releases,
// or a title demoted to a release of another title.
func (h *Handler) Merge(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var op catalog.MergeOperation
	if err := decodeJSON(r, &op); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	if verr := validation.ValidateStruct(&op); verr != nil {
		apiErr := verr.ToAPIError()
		writeError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	if err := h.catalog.Merge(r.Context(), op); err != nil {
		switch {
		case errors.Is(err, catalog.ErrMergeSelf), errors.Is(err, catalog.ErrUnknownMergeKind):
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		case errors.Is(err, database.ErrTitleNotFound), errors.Is(err, database.ErrReleaseNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
		default:
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "merge failed", nil)
		}
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"merged": true, "kind": op.Kind}, started)
}
