// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package config

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := defaultConfig()
	cfg.Server.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for port 0")
	}
	cfg.Server.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for port 70000")
	}
}

func TestValidateRejectsEmptyDatabasePath(t *testing.T) {
	cfg := defaultConfig()
	cfg.Database.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty database path")
	}
}

func TestValidateMetadataProviderCredentials(t *testing.T) {
	t.Run("enabled without providers", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Metadata.Enabled = true
		if err := cfg.Validate(); err == nil {
			t.Error("expected error when no provider is enabled")
		}
	})

	t.Run("rawg without api key", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Metadata.Enabled = true
		cfg.Metadata.RAWG.Enabled = true
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for missing RAWG api key")
		}
	})

	t.Run("igdb without credentials", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Metadata.Enabled = true
		cfg.Metadata.IGDB.Enabled = true
		cfg.Metadata.IGDB.ClientID = "client"
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for missing IGDB access token")
		}
	})

	t.Run("fully configured", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Metadata.Enabled = true
		cfg.Metadata.RAWG.Enabled = true
		cfg.Metadata.RAWG.APIKey = "key"
		cfg.Metadata.IGDB.Enabled = true
		cfg.Metadata.IGDB.ClientID = "client"
		cfg.Metadata.IGDB.AccessToken = "token"
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected valid config, got %v", err)
		}
	})
}

func TestEnvTransformFunc(t *testing.T) {
	cases := []struct {
		env  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"DUCKDB_PATH", "database.path"},
		{"IMPORT_RATE_LIMIT_REQUESTS", "import.rate_limit_requests"},
		{"RAWG_API_KEY", "metadata.rawg.api_key"},
		{"IGDB_ACCESS_TOKEN", "metadata.igdb.access_token"},
		{"LOG_LEVEL", "logging.level"},
		{"SOME_RANDOM_VAR", ""},
		{"PATH", ""},
	}

	for _, tc := range cases {
		if got := envTransformFunc(tc.env); got != tc.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tc.env, got, tc.want)
		}
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("DUCKDB_PATH", t.TempDir()+"/test.duckdb")
	t.Setenv("METADATA_RESYNC_DELAY", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Metadata.ResyncDelay != 5*time.Second {
		t.Errorf("Metadata.ResyncDelay = %v, want 5s", cfg.Metadata.ResyncDelay)
	}
}

func TestLoadParsesCORSOriginsFromEnv(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.Security.CORSOrigins) != 2 {
		t.Fatalf("CORSOrigins = %v, want 2 entries", cfg.Security.CORSOrigins)
	}
	if cfg.Security.CORSOrigins[0] != "https://a.example" {
		t.Errorf("CORSOrigins[0] = %q", cfg.Security.CORSOrigins[0])
	}
}
