// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package models

// PlayniteImportRequest is the batch export payload pushed by the
// Playnite companion extension. Unknown fields, at the top level and
// inside each game entry, are tolerated for forward compatibility;
// only the fields below are validated and consumed.
type PlayniteImportRequest struct {
	Aggregator string           `json:"aggregator" validate:"required,eq=playnite"`
	ExportedAt string           `json:"exportedAt" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Plugins    []PlaynitePlugin `json:"plugins,omitempty" validate:"dive"`
	Games      []PlayniteGame   `json:"games" validate:"required,dive"`
}

// PlaynitePlugin describes one library plugin installed in the exporting
// Playnite instance.
type PlaynitePlugin struct {
	PluginID string `json:"pluginId" validate:"required"`
	Name     string `json:"name" validate:"required"`
}

// PlayniteGame is one game entry in a Playnite export.
//
// PlayniteDatabaseID is Playnite's own opaque record id; it is only
// stable within one Playnite installation, which is why it serves as the
// entitlement-key fallback of last resort. OriginalProvider* fields name
// the underlying storefront that actually grants the license.
type PlayniteGame struct {
	EntitlementKey     string `json:"entitlementKey,omitempty"`
	PlayniteDatabaseID string `json:"playniteDatabaseId" validate:"required"`
	Name               string `json:"name" validate:"required,max=512"`

	IsCustomGame bool  `json:"isCustomGame,omitempty"`
	Hidden       bool  `json:"hidden,omitempty"`
	Installed    *bool `json:"installed,omitempty"`

	InstallDirectory string `json:"installDirectory,omitempty"`
	LastActivity     string `json:"lastActivity,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	PlaytimeSeconds  int64  `json:"playtimeSeconds,omitempty" validate:"gte=0"`

	Platforms  []string `json:"platforms,omitempty"`
	SourceID   string   `json:"sourceId,omitempty"`
	SourceName string   `json:"sourceName,omitempty"`

	OriginalProviderPluginID string `json:"originalProviderPluginId" validate:"required"`
	OriginalProviderName     string `json:"originalProviderName" validate:"required"`
	OriginalProviderGameID   string `json:"originalProviderGameId,omitempty"`

	Links []PlayniteLink `json:"links,omitempty"`

	Raw map[string]interface{} `json:"raw,omitempty"`
}

// PlayniteLink is one named URL attached to a game entry. Store URLs are
// extracted from these by descending-priority passes.
type PlayniteLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PlaytimeMinutes converts the export's playtime to whole minutes.
func (g *PlayniteGame) PlaytimeMinutes() int64 {
	return g.PlaytimeSeconds / 60
}
