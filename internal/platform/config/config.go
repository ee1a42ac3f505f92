// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A '.env' file in the
working directory is loaded first when present, so local development does not
need exported variables.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Prober) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/taibuivan/rankeverything/internal/platform/constants"
)

// # Store Drivers

const (
	// DriverPostgres selects the pgx-backed PostgreSQL store.
	DriverPostgres = "postgres"

	// DriverSQLite selects the embedded SQLite store.
	DriverSQLite = "sqlite"
)

// # Configuration Schema

// Config holds all runtime configuration for the ranking API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// StoreDriver picks the Item Store backend ("postgres" or "sqlite").
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// SQLitePath is the database file used when StoreDriver is "sqlite".
	SQLitePath string `env:"SQLITE_PATH" envDefault:"./data/rankeverything.db"`

	// Key-Value Cache (Redis). Optional: the image probe cache is disabled without it.
	RedisURL string `env:"REDIS_URL"`

	// Image probing. A cached success is reused for at most constants.MaxProbeCacheTTL.
	ProbeTimeout    time.Duration `env:"PROBE_TIMEOUT"      envDefault:"5s"`
	ProbeRatePerSec float64       `env:"PROBE_RATE_PER_SEC" envDefault:"5"`
	ProbeBurst      int           `env:"PROBE_BURST"        envDefault:"10"`
	ProbeCacheTTL   time.Duration `env:"PROBE_CACHE_TTL"    envDefault:"30s"`

	// Cross-Origin Resource Sharing (comma-separated; "*" allows all)
	AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"*"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// A missing .env file is the normal case outside development.
	_ = godotenv.Load()

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field requirements that struct tags cannot express.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("config: SQLITE_PATH is required when STORE_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.ProbeTimeout <= 0 {
		return errors.New("config: PROBE_TIMEOUT must be positive")
	}

	if c.ProbeRatePerSec <= 0 || c.ProbeBurst < 1 {
		return errors.New("config: PROBE_RATE_PER_SEC and PROBE_BURST must be positive")
	}

	if c.ProbeCacheTTL <= 0 || c.ProbeCacheTTL > constants.MaxProbeCacheTTL {
		return fmt.Errorf("config: PROBE_CACHE_TTL must be in (0, %s]", constants.MaxProbeCacheTTL)
	}

	return nil
}

// Origins returns AllowedOrigins split on commas with blanks removed.
func (c *Config) Origins() []string {
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
