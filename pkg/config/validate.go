package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// server.port must be positive.
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	// storage.type must be a known value.
	switch c.Storage.Type {
	case "memory", "postgres":
		// valid
	default:
		errs = append(errs, fmt.Errorf("storage.type must be \"memory\" or \"postgres\", got %q", c.Storage.Type))
	}

	// If storage.type is "postgres", DSN or DSNFile must be set.
	if c.Storage.Type == "postgres" {
		if c.Storage.Postgres.DSN == "" && c.Storage.Postgres.DSNFile == "" {
			errs = append(errs, fmt.Errorf("storage.postgres.dsn or storage.postgres.dsn_file is required when storage.type is \"postgres\""))
		}
	}

	// auth.session_ttl must be positive.
	if c.Auth.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("auth.session_ttl must be > 0, got %s", c.Auth.SessionTTL))
	}

	// auth.hash_pool_size must be positive.
	if c.Auth.HashPoolSize <= 0 {
		errs = append(errs, fmt.Errorf("auth.hash_pool_size must be > 0, got %d", c.Auth.HashPoolSize))
	}

	// auth.lookup_timeout must be positive.
	if c.Auth.LookupTimeout <= 0 {
		errs = append(errs, fmt.Errorf("auth.lookup_timeout must be > 0, got %s", c.Auth.LookupTimeout))
	}

	return errors.Join(errs...)
}
