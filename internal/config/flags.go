package config

import (
	"flag"
	"fmt"
	"net"
	"strconv"
	"time"
)

// NetAddress is the -a flag value.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags registers and parses all configuration flags on fs.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-env application environment (development|production)
//	-log-level zerolog level name
//	-driver document store driver (none|memory|firestore|sqlite|postgres)
//	-d database DSN
//	-project Firestore project id
//	-credentials Firestore service account key file
//	-fixtures offline fixtures JSON file
//	-cache-ttl list cache TTL (e.g. "5m")
//	-request-timeout request timeout (e.g. "30s")
//	-c/-config json file path with configs
func parseFlags(fs *flag.FlagSet, args []string) (*StructuredConfig, error) {
	var serverAddress NetAddress
	var environment, logLevel string
	var driver, databaseDSN, projectID, credentials, fixtures string
	var cacheTTL, requestTimeout time.Duration
	var jsonConfigPath string

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&environment, "env", "", "Application environment (development|production)")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.StringVar(&driver, "driver", "", "Document store driver (none|memory|firestore|sqlite|postgres)")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&projectID, "project", "", "Firestore project id")
	fs.StringVar(&credentials, "credentials", "", "Firestore credentials file")
	fs.StringVar(&fixtures, "fixtures", "", "Offline fixtures JSON file")
	fs.DurationVar(&cacheTTL, "cache-ttl", 0, "List cache TTL (e.g., 5m)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			Environment: environment,
			LogLevel:    logLevel,
		},
		Cache: Cache{
			TTL: cacheTTL,
		},
		Storage: Storage{
			Driver:       driver,
			DB:           DB{DSN: databaseDSN},
			Firestore:    Firestore{ProjectID: projectID, CredentialsFile: credentials},
			FixturesPath: fixtures,
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns host:port, or "" for the zero value.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set parses host:port. An empty host binds every interface; bracketed IPv6
// literals are accepted.
func (a *NetAddress) Set(s string) error {
	host, rawPort, err := net.SplitHostPort(s)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}

	port, err := strconv.Atoi(rawPort)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %q", ErrInvalidPort, rawPort)
	}

	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return fmt.Errorf("%w: %q", ErrInvalidHost, host)
	}

	a.Host = host
	a.Port = port
	return nil
}
