// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package models

import (
	"time"

	"github.com/google/uuid"
)

// DeviceToken is the stored form of a device bearer token. Only the
// bcrypt hash of the secret half is persisted; the prefix enables an
// indexed lookup before the hash comparison.
type DeviceToken struct {
	ID          uuid.UUID  `json:"id"`
	DeviceID    uuid.UUID  `json:"device_id"`
	TokenPrefix string     `json:"token_prefix"`
	TokenHash   string     `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
}

// Revoked reports whether the token has been revoked.
func (t *DeviceToken) Revoked() bool {
	return t.RevokedAt != nil
}
