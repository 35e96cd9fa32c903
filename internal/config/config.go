// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

// Package config provides layered application configuration via Koanf v2.
// Precedence, highest wins: environment variables > YAML config file >
// built-in defaults.
package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Import   ImportConfig   `koanf:"import"`
	Metadata MetadataConfig `koanf:"metadata"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	// Threads <= 0 means runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// ImportConfig holds library-import settings.
type ImportConfig struct {
	// MaxBatchEntries caps the number of game entries accepted per import.
	MaxBatchEntries int `koanf:"max_batch_entries"`

	// RateLimitRequests and RateLimitWindow bound imports per device.
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// MetadataConfig holds enrichment pipeline settings.
type MetadataConfig struct {
	Enabled bool `koanf:"enabled"`

	// ResyncDelay is the fixed pacing between titles during a catalog
	// resync, to respect provider API quotas.
	ResyncDelay time.Duration `koanf:"resync_delay"`

	// CachePath is the badger directory for cached provider search
	// results. Empty disables the cache.
	CachePath string        `koanf:"cache_path"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`

	RAWG RAWGConfig `koanf:"rawg"`
	IGDB IGDBConfig `koanf:"igdb"`
}

// RAWGConfig configures the RAWG.io provider.
type RAWGConfig struct {
	Enabled bool          `koanf:"enabled"`
	BaseURL string        `koanf:"base_url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`
}

// IGDBConfig configures the IGDB provider. IGDB is the player-count
// capable provider used by the secondary enrichment pass.
type IGDBConfig struct {
	Enabled     bool          `koanf:"enabled"`
	BaseURL     string        `koanf:"base_url"`
	ClientID    string        `koanf:"client_id"`
	AccessToken string        `koanf:"access_token"`
	Timeout     time.Duration `koanf:"timeout"`
}

// SecurityConfig holds boundary settings.
type SecurityConfig struct {
	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for invalid combinations.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Import.MaxBatchEntries < 1 {
		return fmt.Errorf("import.max_batch_entries must be positive, got %d", c.Import.MaxBatchEntries)
	}
	if c.Import.RateLimitRequests < 1 {
		return fmt.Errorf("import.rate_limit_requests must be positive, got %d", c.Import.RateLimitRequests)
	}
	if c.Metadata.Enabled {
		if !c.Metadata.RAWG.Enabled && !c.Metadata.IGDB.Enabled {
			return fmt.Errorf("metadata.enabled requires at least one provider enabled")
		}
		if c.Metadata.RAWG.Enabled && c.Metadata.RAWG.APIKey == "" {
			return fmt.Errorf("metadata.rawg.api_key is required when the RAWG provider is enabled")
		}
		if c.Metadata.IGDB.Enabled && (c.Metadata.IGDB.ClientID == "" || c.Metadata.IGDB.AccessToken == "") {
			return fmt.Errorf("metadata.igdb.client_id and access_token are required when the IGDB provider is enabled")
		}
		if c.Metadata.ResyncDelay < 0 {
			return fmt.Errorf("metadata.resync_delay must not be negative")
		}
	}
	return nil
}
