// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package api

import (
	"net/http"
	"time"

	"github.com/gamehoard/gamehoard/internal/auth"
	"github.com/gamehoard/gamehoard/internal/ingest"
	"github.com/gamehoard/gamehoard/internal/logging"
	"github.com/gamehoard/gamehoard/internal/models"
	"github.com/gamehoard/gamehoard/internal/validation"
)

// ImportPlaynite accepts a full Playnite library export from an
// authenticated device and reconciles it. The whole payload is
// validated up front, collecting every violation, before any entry is
// processed.
func (h *Handler) ImportPlaynite(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "missing device identity", nil)
		return
	}

	var payload models.PlayniteImportRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	if len(payload.Games) > h.cfg.Import.MaxBatchEntries {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"too many games in batch", map[string]interface{}{
				"received": len(payload.Games),
				"max":      h.cfg.Import.MaxBatchEntries,
			})
		return
	}

	if verr := validation.ValidateStruct(&payload); verr != nil {
		apiErr := verr.ToAPIError()
		writeError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	result, err := h.importer.Import(r.Context(), ingest.ImportRequest{
		OwnerID:   identity.OwnerID,
		AccountID: identity.AccountID,
		DeviceID:  identity.DeviceID,
		Payload:   &payload,
	})
	if err != nil {
		logging.Error().Err(err).
			Str("account_id", identity.AccountID.String()).
			Msg("Import failed")
		writeError(w, http.StatusInternalServerError, "IMPORT_FAILED",
			"import aborted, no partial state was kept silent; retry the batch", nil)
		return
	}

	writeSuccess(w, http.StatusOK, result, started)
}
