// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package metadata

import (
	"sort"
	"strings"

	"github.com/gamehoard/gamehoard/internal/models"
)

// RankSearchResults orders candidates for user-facing disambiguation:
// exact case-insensitive name match first, then prefix match, then
// shortest name. Duplicates by lower-cased trimmed name are dropped,
// keeping the first occurrence. The auto-enrichment path does not use
// this; it takes the provider's top result as-is.
func RankSearchResults(results []models.MetadataSearchResult, query string) []models.MetadataSearchResult {
	deduped := dedupeByName(results)
	q := strings.ToLower(strings.TrimSpace(query))

	sort.SliceStable(deduped, func(i, j int) bool {
		return resultClass(deduped[i], q).less(resultClass(deduped[j], q))
	})
	return deduped
}

// rankClass captures the two-level ordering key of one candidate.
type rankClass struct {
	tier    int // 0 exact, 1 prefix, 2 other
	nameLen int
}

func (a rankClass) less(b rankClass) bool {
	if a.tier != b.tier {
		return a.tier < b.tier
	}
	return a.nameLen < b.nameLen
}

func resultClass(r models.MetadataSearchResult, query string) rankClass {
	name := strings.ToLower(strings.TrimSpace(r.Name))
	switch {
	case name == query:
		return rankClass{tier: 0, nameLen: len(name)}
	case strings.HasPrefix(name, query):
		return rankClass{tier: 1, nameLen: len(name)}
	default:
		return rankClass{tier: 2, nameLen: len(name)}
	}
}

// dedupeByName drops later duplicates by lower-cased trimmed name.
func dedupeByName(results []models.MetadataSearchResult) []models.MetadataSearchResult {
	seen := make(map[string]struct{}, len(results))
	out := make([]models.MetadataSearchResult, 0, len(results))
	for _, r := range results {
		key := strings.ToLower(strings.TrimSpace(r.Name))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
