// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// Supported values of [App.Environment].
const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
)

// Supported values of [Storage.Driver].
const (
	DriverNone      = "none"
	DriverMemory    = "memory"
	DriverFirestore = "firestore"
	DriverSQLite    = "sqlite"
	DriverPostgres  = "postgres"
)

// StructuredConfig is the top-level configuration container for the
// go-bank-sync application. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// an optional JSON file and finally the built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings.
	App App `envPrefix:"APP_"`

	// Cache holds the list-result cache settings.
	Cache Cache `envPrefix:"CACHE_"`

	// Storage selects and configures the remote document store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP server.
	Server Server `envPrefix:"SERVER_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Environment is either "development" or "production". Outside of
	// production, failed single-document reads fall back to offline fixtures.
	// Env: APP_ENVIRONMENT
	Environment string `env:"ENVIRONMENT"`

	// LogLevel is the zerolog level name (e.g. "debug", "info").
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// Version is the semantic version string exposed via /api/version.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// IsProduction reports whether the application runs in production mode.
func (a App) IsProduction() bool {
	return a.Environment == EnvironmentProduction
}

// Cache holds the TTL cache settings.
type Cache struct {
	// TTL is how long a cached list result stays valid.
	// Env: CACHE_TTL
	TTL time.Duration `env:"TTL"`

	// CleanupInterval is how often expired entries are purged in the
	// background.
	// Env: CACHE_CLEANUP_INTERVAL
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL"`
}

// Storage groups the configuration of all document store backends.
type Storage struct {
	// Driver selects the backend: none, memory, firestore, sqlite or postgres.
	// Env: STORAGE_DRIVER
	Driver string `env:"DRIVER"`

	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`

	// Firestore holds the Cloud Firestore settings.
	Firestore Firestore `envPrefix:"FIRESTORE_"`

	// FixturesPath points to a JSON file with offline documents used as the
	// read fallback outside of production.
	// Env: STORAGE_FIXTURES_PATH
	FixturesPath string `env:"FIXTURES_PATH"`
}

// DB holds connection settings for the SQL backends.
type DB struct {
	// DSN is the SQLite file path or PostgreSQL connection string.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Firestore holds Cloud Firestore client settings.
type Firestore struct {
	// ProjectID is the Google Cloud project hosting the database.
	// Env: STORAGE_FIRESTORE_PROJECT_ID
	ProjectID string `env:"PROJECT_ID"`

	// CredentialsFile is an optional service-account key file. When empty,
	// application default credentials (or FIRESTORE_EMULATOR_HOST) are used.
	// Env: STORAGE_FIRESTORE_CREDENTIALS_FILE
	CredentialsFile string `env:"CREDENTIALS_FILE"`
}

// Server holds network and timeout settings for the HTTP server.
type Server struct {
	// HTTPAddress is the TCP address in "host:port" format.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration of a single non-streaming request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Defaults returns the configuration used for every field no other source
// has set.
func Defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			Environment: EnvironmentDevelopment,
			LogLevel:    "debug",
			Version:     "dev",
		},
		Cache: Cache{
			TTL:             5 * time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
		Storage: Storage{
			Driver: DriverMemory,
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 30 * time.Second,
		},
	}
}

// GetStructuredConfig loads, merges, and validates the application
// configuration. For every field the first source that sets it wins:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
