package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

var validLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true,
	"warning": true, "error": true, "fatal": true, "disabled": true, "off": true,
}

// Validate checks ranges and enumerations of every section
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidConfig}, args...)...))
	}

	if strings.TrimSpace(c.Database.Path) == "" {
		add("database.path is required")
	}
	if c.Database.ImportBatchSize <= 0 {
		add("database.import_batch_size must be positive, got %d", c.Database.ImportBatchSize)
	}
	if c.Database.NeighborCacheSize < 0 {
		add("database.neighbor_cache_size must not be negative, got %d", c.Database.NeighborCacheSize)
	}

	if c.Resolver.Timeout <= 0 {
		add("resolver.timeout must be positive, got %s", c.Resolver.Timeout)
	}
	if c.Resolver.MaxRetries < 0 {
		add("resolver.max_retries must not be negative, got %d", c.Resolver.MaxRetries)
	}
	if c.Resolver.BaseDelay < 0 || c.Resolver.MaxDelay < c.Resolver.BaseDelay {
		add("resolver delays must satisfy 0 <= base_delay <= max_delay, got %s and %s", c.Resolver.BaseDelay, c.Resolver.MaxDelay)
	}
	if c.Resolver.RequestsPerSecond < 0 {
		add("resolver.requests_per_second must not be negative, got %g", c.Resolver.RequestsPerSecond)
	}
	if c.Resolver.CacheSize < 0 {
		add("resolver.cache_size must not be negative, got %d", c.Resolver.CacheSize)
	}

	if c.Recommend.SearchBreadth <= 0 {
		add("recommend.search_breadth must be positive, got %d", c.Recommend.SearchBreadth)
	}

	if !validLevels[strings.ToLower(c.Logging.Level)] {
		add("logging.level %q is not a known level", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		add("logging.format must be json or console, got %q", c.Logging.Format)
	}

	if c.HTTP.Addr == "" {
		add("http.addr is required")
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		add("http.shutdown_timeout must be positive, got %s", c.HTTP.ShutdownTimeout)
	}

	return errors.Join(errs...)
}
