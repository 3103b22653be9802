package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - api.go: remote catalog and auth endpoints
//   - storage.go: token store, cart snapshots, and Redis
//   - observability.go: logging and metrics
type AppConfig struct {
	// IsDev switches the logger to a text handler.
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	Log LogConfig

	// Remote API configuration
	API APIConfig `envPrefix:"API_"`

	// Storage configuration
	Tokens TokenStoreConfig
	Redis  RedisConfig `envPrefix:"REDIS_"`
	Cart   CartConfig

	Catalog CatalogConfig

	Metrics MetricsConfig `envPrefix:"METRICS_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Log.Sanitize()
	c.API.Sanitize()
	c.Tokens.Sanitize()
	c.Redis.Sanitize()
	c.Metrics.Sanitize()

	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// Validate checks struct-level constraints. Call it after Sanitize.
func (c *AppConfig) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// NeedsRedis reports whether any configured store is backed by Redis.
func (c *AppConfig) NeedsRedis() bool {
	return c.Tokens.Backend == StoreBackendRedis
}
