package config

import (
	"strings"
	"time"
)

// APIConfig points the client at the remote catalog and auth services.
type APIConfig struct {
	CatalogBaseURL string `env:"CATALOG_BASE_URL" envDefault:"https://fakestoreapi.com"        validate:"required,url"`
	ProductsPath   string `env:"PRODUCTS_PATH"    envDefault:"/products"`
	AuthBaseURL    string `env:"AUTH_BASE_URL"    envDefault:"https://api.escuelajs.co/api/v1" validate:"required,url"`
	LoginPath      string `env:"LOGIN_PATH"       envDefault:"/auth/login"`
	ProfilePath    string `env:"PROFILE_PATH"     envDefault:"/auth/profile"`

	// Timeout bounds each request, including reading the body.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s" validate:"gt=0"`

	// ErrorMessagePath is a JMESPath expression for the message in error bodies.
	ErrorMessagePath string `env:"ERROR_MESSAGE_PATH" envDefault:"message"`
	UserAgent        string `env:"USER_AGENT"         envDefault:"storefront"`
}

// Sanitize trims whitespace and restores defaults for blank values.
func (c *APIConfig) Sanitize() {
	c.CatalogBaseURL = strings.TrimSpace(c.CatalogBaseURL)
	c.AuthBaseURL = strings.TrimSpace(c.AuthBaseURL)
	c.ProductsPath = strings.TrimSpace(c.ProductsPath)
	c.LoginPath = strings.TrimSpace(c.LoginPath)
	c.ProfilePath = strings.TrimSpace(c.ProfilePath)
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.ErrorMessagePath = strings.TrimSpace(c.ErrorMessagePath); c.ErrorMessagePath == "" {
		c.ErrorMessagePath = "message"
	}
	if c.UserAgent = strings.TrimSpace(c.UserAgent); c.UserAgent == "" {
		c.UserAgent = "storefront"
	}
}

// CatalogConfig controls the in-process product cache.
type CatalogConfig struct {
	// CacheTTL of zero or less disables caching.
	CacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`
}

// ServiceTTL converts the configured TTL to the catalog service convention,
// where zero selects the default and a negative value disables the cache.
func (c CatalogConfig) ServiceTTL() time.Duration {
	if c.CacheTTL <= 0 {
		return -1
	}
	return c.CacheTTL
}
