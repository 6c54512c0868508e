// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv reads a [StructuredConfig] from environment variables. Nested
// groups use their envPrefix tags, so the store driver comes from
// STORAGE_DRIVER and the cache TTL from CACHE_TTL. Unset variables leave the
// zero value for the defaults layer to fill in.
func parseEnv() (*StructuredConfig, error) {
	cfg, err := env.ParseAs[StructuredConfig]()
	if err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}

	return &cfg, nil
}
