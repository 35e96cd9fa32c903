// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

// Package playnite implements the Playnite-specific half of the import
// engine: provider normalization, store-URL extraction, and entitlement
// key resolution.
package playnite

import (
	"strings"

	"github.com/gamehoard/gamehoard/internal/models"
)

// Aggregator is the canonical tag for the Playnite aggregator itself,
// as distinct from the original providers behind it.
const Aggregator = "playnite"

// ProviderUnknown is returned for any plugin ID not in the lookup table.
const ProviderUnknown = "unknown"

// providerByPluginID maps Playnite library plugin UUIDs to canonical
// provider tags. The UUIDs are fixed per plugin and stable across
// Playnite installations.
var providerByPluginID = map[string]string{
	"cb91dfc9-b977-43bf-8e70-55f46e410fab": "steam",
	"aebe8b7c-6dc3-4a66-af31-e7375c6b5e9e": "gog",
	"00000002-dbd1-46c6-b5d0-b1ba559d10e4": "epic",
	"85dd7072-2f20-4e76-a007-41035e390724": "ea",
	"c2f038e5-8b92-4877-91f1-da9094155fc5": "ubisoft",
	"e3c26a3d-d695-4cb7-a769-5ff7612c7edd": "battlenet",
	"7e4fbb5e-2ae3-48d4-8ba0-6b30e7a4e779": "xbox",
	"402674cd-4af6-4886-b6ec-0e695bfa0688": "amazon",
	"00000001-ebb2-4eec-abcb-7c89937a42bb": "itchio",
	"96e8c4bc-ec5c-4c8b-87e7-18ee5a690626": "humble",
}

// storefrontDomains maps canonical provider tags to domain fragments
// used by the last-resort URL pass.
var storefrontDomains = map[string][]string{
	"steam":     {"store.steampowered.com", "steamcommunity.com"},
	"gog":       {"gog.com"},
	"epic":      {"epicgames.com"},
	"ea":        {"ea.com", "origin.com"},
	"ubisoft":   {"ubisoft.com", "ubi.com"},
	"battlenet": {"battle.net", "blizzard.com"},
	"xbox":      {"xbox.com", "microsoft.com"},
	"amazon":    {"amazon.com", "gaming.amazon.com"},
	"itchio":    {"itch.io"},
	"humble":    {"humblebundle.com"},
}

// NormalizeProvider maps a vendor plugin UUID to a canonical provider
// tag. Unrecognized input maps to "unknown"; it never fails.
func NormalizeProvider(pluginID string) string {
	if tag, ok := providerByPluginID[strings.ToLower(strings.TrimSpace(pluginID))]; ok {
		return tag
	}
	return ProviderUnknown
}

// ExtractStoreURL searches a game's link list for its store page using
// descending-priority passes:
//
//  1. exact canonical-provider name match
//  2. original-provider-name match
//  3. known storefront domain anywhere in the list (last resort)
//  4. a generic "website" link as the weakest fallback
//
// Returns nil if nothing matches; it never guesses.
func ExtractStoreURL(links []models.PlayniteLink, canonicalTag, originalProviderName string) *string {
	if len(links) == 0 {
		return nil
	}

	if canonicalTag != "" && canonicalTag != ProviderUnknown {
		if url := findLinkByName(links, canonicalTag); url != nil {
			return url
		}
	}

	if originalProviderName != "" {
		if url := findLinkByName(links, originalProviderName); url != nil {
			return url
		}
	}

	if domains, ok := storefrontDomains[canonicalTag]; ok {
		for _, link := range links {
			lower := strings.ToLower(link.URL)
			for _, domain := range domains {
				if strings.Contains(lower, domain) && link.URL != "" {
					url := link.URL
					return &url
				}
			}
		}
	}

	return findLinkByName(links, "website")
}

// findLinkByName returns the first link whose name matches
// case-insensitively, or nil.
func findLinkByName(links []models.PlayniteLink, name string) *string {
	target := strings.ToLower(strings.TrimSpace(name))
	for _, link := range links {
		if strings.ToLower(strings.TrimSpace(link.Name)) == target && link.URL != "" {
			url := link.URL
			return &url
		}
	}
	return nil
}
