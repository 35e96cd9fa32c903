// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

// Package auth implements device bearer-token authentication for the
// import API.
//
// Token format: hoard_dev_<base64-encoded-id>_<random-secret>
//
// Tokens are SHA-256'd then bcrypt-hashed before storage; only a short
// prefix is kept in cleartext for candidate lookup. The plaintext is
// shown exactly once, at issue time.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gamehoard/gamehoard/internal/logging"
	"github.com/gamehoard/gamehoard/internal/models"
)

const (
	// tokenPrefix marks all GameHoard device tokens.
	tokenPrefix = "hoard_dev_"

	// tokenSecretLength is the random secret portion in bytes.
	tokenSecretLength = 32

	// tokenPrefixDisplayLength is how many characters past the fixed
	// prefix are stored cleartext for lookup.
	tokenPrefixDisplayLength = 8

	// bcryptCost for token hashing.
	bcryptCost = 12
)

// Authentication errors. All validation failures collapse to
// ErrInvalidToken at the API boundary so callers cannot probe which
// stage rejected them.
var (
	ErrInvalidToken = errors.New("invalid device token")
	ErrTokenRevoked = errors.New("device token revoked")
)

// TokenStore defines the persistence operations token management needs.
type TokenStore interface {
	CreateDeviceToken(ctx context.Context, token *models.DeviceToken) error
	ListDeviceTokensByPrefix(ctx context.Context, prefix string) ([]models.DeviceToken, error)
	TouchDeviceToken(ctx context.Context, id uuid.UUID) error
	RevokeDeviceToken(ctx context.Context, id uuid.UUID) error

	GetDevice(ctx context.Context, id uuid.UUID) (*models.Device, error)
	TouchDevice(ctx context.Context, id uuid.UUID) error
	GetExternalAccount(ctx context.Context, id uuid.UUID) (*models.ExternalAccount, error)
}

// Identity is the authenticated principal of a request: the device that
// presented the token and the account and owner it belongs to.
type Identity struct {
	DeviceID  uuid.UUID
	AccountID uuid.UUID
	OwnerID   uuid.UUID
}

// TokenManager issues and validates device tokens.
type TokenManager struct {
	store TokenStore
}

// NewTokenManager creates a token manager.
func NewTokenManager(store TokenStore) *TokenManager {
	return &TokenManager{store: store}
}

// Issue generates a new token for a device. Returns the stored record
// and the plaintext token, which is never recoverable afterwards.
func (m *TokenManager) Issue(ctx context.Context, deviceID uuid.UUID) (*models.DeviceToken, string, error) {
	if _, err := m.store.GetDevice(ctx, deviceID); err != nil {
		return nil, "", err
	}

	tokenID := uuid.New()

	secretBytes := make([]byte, tokenSecretLength)
	if _, err := rand.Read(secretBytes); err != nil {
		return nil, "", fmt.Errorf("failed to generate token secret: %w", err)
	}
	secret := base64.RawURLEncoding.EncodeToString(secretBytes)

	idEncoded := base64.RawURLEncoding.EncodeToString([]byte(tokenID.String()))
	plaintext := fmt.Sprintf("%s%s_%s", tokenPrefix, idEncoded, secret)

	hash, err := hashToken(plaintext)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash token: %w", err)
	}

	token := &models.DeviceToken{
		ID:          tokenID,
		DeviceID:    deviceID,
		TokenPrefix: plaintext[:len(tokenPrefix)+tokenPrefixDisplayLength],
		TokenHash:   hash,
	}
	if err := m.store.CreateDeviceToken(ctx, token); err != nil {
		return nil, "", fmt.Errorf("failed to store token: %w", err)
	}

	logging.Info().
		Str("token_id", tokenID.String()).
		Str("device_id", deviceID.String()).
		Msg("Device token issued")

	return token, plaintext, nil
}

// Validate checks a plaintext token and resolves the presenting
// identity. Candidates are looked up by prefix; prefix collisions are
// resolved by verifying the hash against each.
func (m *TokenManager) Validate(ctx context.Context, plaintext string) (*Identity, error) {
	if !strings.HasPrefix(plaintext, tokenPrefix) ||
		len(plaintext) < len(tokenPrefix)+tokenPrefixDisplayLength {
		return nil, ErrInvalidToken
	}

	prefix := plaintext[:len(tokenPrefix)+tokenPrefixDisplayLength]
	candidates, err := m.store.ListDeviceTokensByPrefix(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("token lookup failed: %w", err)
	}

	var matched *models.DeviceToken
	for i := range candidates {
		if verifyToken(plaintext, candidates[i].TokenHash) {
			matched = &candidates[i]
			break
		}
	}
	if matched == nil {
		return nil, ErrInvalidToken
	}
	if matched.Revoked() {
		return nil, ErrTokenRevoked
	}

	device, err := m.store.GetDevice(ctx, matched.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("device lookup failed: %w", err)
	}
	account, err := m.store.GetExternalAccount(ctx, device.AccountID)
	if err != nil {
		return nil, fmt.Errorf("account lookup failed: %w", err)
	}

	// Usage bookkeeping is fire-and-forget; validation does not wait on
	// it and failures are only logged.
	tokenID, deviceID := matched.ID, device.ID
	go func() {
		touchCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.store.TouchDeviceToken(touchCtx, tokenID); err != nil {
			logging.Warn().Err(err).Str("token_id", tokenID.String()).Msg("Failed to update token last used")
		}
		if err := m.store.TouchDevice(touchCtx, deviceID); err != nil {
			logging.Warn().Err(err).Str("device_id", deviceID.String()).Msg("Failed to update device last seen")
		}
	}()

	return &Identity{
		DeviceID:  device.ID,
		AccountID: account.ID,
		OwnerID:   account.OwnerID,
	}, nil
}

// Revoke invalidates a token. Subsequent validations fail.
func (m *TokenManager) Revoke(ctx context.Context, tokenID uuid.UUID) error {
	if err := m.store.RevokeDeviceToken(ctx, tokenID); err != nil {
		return err
	}
	logging.Info().Str("token_id", tokenID.String()).Msg("Device token revoked")
	return nil
}

// ExtractBearerToken pulls a device token out of an Authorization
// header. Both "Bearer <token>" and the raw token are accepted.
func ExtractBearerToken(authHeader string) string {
	authHeader = strings.TrimSpace(authHeader)

	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if strings.HasPrefix(authHeader, tokenPrefix) {
		return authHeader
	}
	return ""
}

// hashToken bcrypt-hashes a token. bcrypt caps input at 72 bytes, so
// the token is SHA-256'd first to a fixed length.
func hashToken(plaintext string) (string, error) {
	sha := sha256.Sum256([]byte(plaintext))
	hash, err := bcrypt.GenerateFromPassword(sha[:], bcryptCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt failed: %w", err)
	}
	return string(hash), nil
}

// verifyToken checks a plaintext token against a stored hash.
func verifyToken(plaintext, storedHash string) bool {
	sha := sha256.Sum256([]byte(plaintext))
	return bcrypt.CompareHashAndPassword([]byte(storedHash), sha[:]) == nil
}
