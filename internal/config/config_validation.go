// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"slices"
)

var (
	knownEnvironments = []string{EnvironmentDevelopment, EnvironmentProduction}
	knownDrivers      = []string{DriverNone, DriverMemory, DriverFirestore, DriverSQLite, DriverPostgres}
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or one of the ErrInvalid*
// sentinels wrapped with a short description otherwise.
func (cfg *StructuredConfig) validate() error {
	if !slices.Contains(knownEnvironments, cfg.App.Environment) {
		return fmt.Errorf("%w: unknown environment %q", ErrInvalidAppConfigs, cfg.App.Environment)
	}

	if !slices.Contains(knownDrivers, cfg.Storage.Driver) {
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidStorageConfigs, cfg.Storage.Driver)
	}

	switch cfg.Storage.Driver {
	case DriverSQLite, DriverPostgres:
		if cfg.Storage.DB.DSN == "" {
			return fmt.Errorf("%w: driver %s requires a DSN", ErrInvalidStorageConfigs, cfg.Storage.Driver)
		}
	case DriverFirestore:
		if cfg.Storage.Firestore.ProjectID == "" {
			return fmt.Errorf("%w: firestore requires a project id", ErrInvalidStorageConfigs)
		}
	}

	if cfg.Cache.TTL <= 0 {
		return ErrInvalidCacheConfigs
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	return nil
}
