package config

import (
	"time"

	"github.com/dshills/skillspace-mcp/internal/logging"
	"github.com/dshills/skillspace-mcp/internal/recommender"
	"github.com/dshills/skillspace-mcp/internal/resolver"
	"github.com/dshills/skillspace-mcp/internal/skillspace"
	"github.com/dshills/skillspace-mcp/internal/snapshot"
)

// Config is the complete server configuration
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Resolver  ResolverConfig  `koanf:"resolver"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
	HTTP      HTTPConfig      `koanf:"http"`
}

// DatabaseConfig locates the snapshot database
type DatabaseConfig struct {
	Path              string `koanf:"path"`
	ImportBatchSize   int    `koanf:"import_batch_size"`
	NeighborCacheSize int    `koanf:"neighbor_cache_size"` // 0 disables the neighbour query cache
}

// ResolverConfig controls the URL-existence probe
type ResolverConfig struct {
	// Verify disables probing when false; URLs are derived from identifiers only
	Verify            bool          `koanf:"verify"`
	Timeout           time.Duration `koanf:"timeout"`
	MaxRetries        int           `koanf:"max_retries"`
	BaseDelay         time.Duration `koanf:"base_delay"`
	MaxDelay          time.Duration `koanf:"max_delay"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	CacheSize         int           `koanf:"cache_size"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`
	UserAgent         string        `koanf:"user_agent"`
}

// RecommendConfig tunes the recommendation pipelines
type RecommendConfig struct {
	SearchBreadth int      `koanf:"search_breadth"`
	Exclude       []string `koanf:"exclude"`
}

// LoggingConfig configures zerolog
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// HTTPConfig configures the REST API server
type HTTPConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// defaultConfig returns the built-in settings, overridden by file and env
func defaultConfig() *Config {
	retry := resolver.DefaultRetryConfig()
	res := resolver.DefaultConfig()
	return &Config{
		Database: DatabaseConfig{
			Path:              "skillspace.db",
			ImportBatchSize:   snapshot.DefaultBatchSize,
			NeighborCacheSize: 256,
		},
		Resolver: ResolverConfig{
			Verify:            true,
			Timeout:           res.Timeout,
			MaxRetries:        retry.MaxRetries,
			BaseDelay:         retry.BaseDelay,
			MaxDelay:          retry.MaxDelay,
			RequestsPerSecond: res.RequestsPerSecond,
			Burst:             res.Burst,
			CacheSize:         res.CacheSize,
			CacheTTL:          res.CacheTTL,
			UserAgent:         res.UserAgent,
		},
		Recommend: RecommendConfig{
			SearchBreadth: skillspace.ProjectSearchBreadth,
			Exclude:       append([]string(nil), recommender.DefaultExclude...),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		HTTP: HTTPConfig{
			Addr:            "127.0.0.1:8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    5 * time.Minute, // URL probing with retries is slow
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// Default returns the built-in configuration
func Default() *Config {
	return defaultConfig()
}

// ResolverSettings converts the resolver section
func (c *Config) ResolverSettings() resolver.Config {
	return resolver.Config{
		Timeout: c.Resolver.Timeout,
		Retry: resolver.RetryConfig{
			MaxRetries: c.Resolver.MaxRetries,
			BaseDelay:  c.Resolver.BaseDelay,
			MaxDelay:   c.Resolver.MaxDelay,
			Multiplier: 2,
		},
		RequestsPerSecond: c.Resolver.RequestsPerSecond,
		Burst:             c.Resolver.Burst,
		CacheSize:         c.Resolver.CacheSize,
		CacheTTL:          c.Resolver.CacheTTL,
		UserAgent:         c.Resolver.UserAgent,
	}
}

// NewResolver builds the resolver selected by resolver.verify
func (c *Config) NewResolver() resolver.Resolver {
	if !c.Resolver.Verify {
		return resolver.OfflineResolver{}
	}
	return resolver.NewHTTPResolver(c.ResolverSettings())
}

// RecommenderOptions converts the recommend section
func (c *Config) RecommenderOptions() recommender.Options {
	return recommender.Options{
		Breadth: c.Recommend.SearchBreadth,
		Exclude: append([]string{}, c.Recommend.Exclude...),
	}
}

// SnapshotOptions converts the database section
func (c *Config) SnapshotOptions() snapshot.LoadOptions {
	return snapshot.LoadOptions{NeighborCacheSize: c.Database.NeighborCacheSize}
}

// LoggingSettings converts the logging section; output stays on stderr
func (c *Config) LoggingSettings() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Format = c.Logging.Format
	cfg.Caller = c.Logging.Caller
	return cfg
}
