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
	"github.com/gamehoard/gamehoard/internal/models"
	"github.com/gamehoard/gamehoard/internal/validation"
)

// createAccountRequest registers an aggregator connection.
type createAccountRequest struct {
	OwnerID     uuid.UUID `json:"owner_id" validate:"required"`
	Provider    string    `json:"provider" validate:"required,eq=playnite"`
	AccountName string    `json:"account_name" validate:"required,min=1,max=200"`
}

// CreateAccount registers a new external account.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		writeError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	account := &models.ExternalAccount{
		OwnerID:     req.OwnerID,
		Provider:    req.Provider,
		AccountName: req.AccountName,
	}
	if err := h.db.CreateExternalAccount(r.Context(), account); err != nil {
		if errors.Is(err, database.ErrAccountConflict) {
			writeError(w, http.StatusConflict, "VALIDATION_ERROR", err.Error(), nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to create account", nil)
		return
	}

	writeSuccess(w, http.StatusCreated, account, started)
}

// registerDeviceRequest registers a client device under an account.
type registerDeviceRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// RegisterDevice creates a device and issues its first token. The
// plaintext token appears only in this response.
func (h *Handler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	accountID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a valid UUID", nil)
		return
	}

	var req registerDeviceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		writeError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	if _, err := h.db.GetExternalAccount(r.Context(), accountID); err != nil {
		if errors.Is(err, database.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "account not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load account", nil)
		return
	}

	device := &models.Device{AccountID: accountID, Name: req.Name}
	if err := h.db.CreateDevice(r.Context(), device); err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to create device", nil)
		return
	}

	token, plaintext, err := h.tokens.Issue(r.Context(), device.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to issue device token", nil)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]interface{}{
		"device":       device,
		"token":        plaintext,
		"token_id":     token.ID,
		"token_prefix": token.TokenPrefix,
	}, started)
}

// RevokeDeviceToken invalidates a device token.
func (h *Handler) RevokeDeviceToken(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	tokenID, err := uuid.Parse(chi.URLParam(r, "tokenID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "tokenID must be a valid UUID", nil)
		return
	}

	if err := h.tokens.Revoke(r.Context(), tokenID); err != nil {
		if errors.Is(err, database.ErrTokenNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "token not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to revoke token", nil)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"token_id": tokenID, "revoked": true}, started)
}
