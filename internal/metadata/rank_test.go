// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package metadata

import (
	"testing"

	"github.com/gamehoard/gamehoard/internal/models"
)

func TestRankSearchResultsOrdering(t *testing.T) {
	results := []models.MetadataSearchResult{
		{Provider: "rawg", ExternalID: "3", Name: "Hades II"},
		{Provider: "rawg", ExternalID: "1", Name: "Hades"},
		{Provider: "igdb", ExternalID: "9", Name: "Shades of Hades Collection"},
	}

	ranked := RankSearchResults(results, "hades")

	want := []string{"Hades", "Hades II", "Shades of Hades Collection"}
	if len(ranked) != len(want) {
		t.Fatalf("got %d results, want %d", len(ranked), len(want))
	}
	for i, name := range want {
		if ranked[i].Name != name {
			t.Errorf("ranked[%d] = %q, want %q", i, ranked[i].Name, name)
		}
	}
}

func TestRankSearchResultsDedupesByName(t *testing.T) {
	results := []models.MetadataSearchResult{
		{Provider: "rawg", ExternalID: "1", Name: "Hades"},
		{Provider: "igdb", ExternalID: "77", Name: "hades "},
	}

	ranked := RankSearchResults(results, "hades")

	if len(ranked) != 1 {
		t.Fatalf("got %d results, want 1 after dedupe", len(ranked))
	}
	if ranked[0].Provider != "rawg" {
		t.Errorf("kept provider = %q, want the first occurrence", ranked[0].Provider)
	}
}

func TestRankSearchResultsPrefersShorterWithinTier(t *testing.T) {
	results := []models.MetadataSearchResult{
		{Provider: "rawg", ExternalID: "2", Name: "Celeste Classic Anthology"},
		{Provider: "rawg", ExternalID: "1", Name: "Celeste Classic"},
	}

	ranked := RankSearchResults(results, "celeste")

	if ranked[0].Name != "Celeste Classic" {
		t.Errorf("ranked[0] = %q, want the shorter prefix match first", ranked[0].Name)
	}
}

func TestNormalizeIGDBImageURL(t *testing.T) {
	got := normalizeIGDBImageURL("//images.igdb.com/igdb/image/upload/t_thumb/co1234.jpg")
	want := "https://images.igdb.com/igdb/image/upload/t_cover_big/co1234.jpg"
	if got != want {
		t.Errorf("normalizeIGDBImageURL = %q, want %q", got, want)
	}
	if normalizeIGDBImageURL("") != "" {
		t.Error("empty URL should stay empty")
	}
}
