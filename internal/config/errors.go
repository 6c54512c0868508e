package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, an unknown environment name).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an unknown driver or a SQL driver without DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidCacheConfigs indicates a non-positive cache TTL.
	ErrInvalidCacheConfigs = errors.New("invalid cache configuration")
	// ErrInvalidServerConfigs indicates missing HTTP address or request timeout.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
)

// Flag parsing errors returned by [NetAddress.Set].
var (
	ErrInvalidAddress = errors.New("need address in a form `host:port`")
	ErrInvalidPort    = errors.New("port number must be in range 1-65535")
	ErrInvalidHost    = errors.New("host must be localhost or an IP address")
)
