package config

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func parse(t *testing.T) AppConfig {
	t.Helper()
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	cfg.Sanitize()
	return cfg
}

func TestAppConfig_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NODE_ENV", "")

	cfg := parse(t)

	if cfg.API.CatalogBaseURL != "https://fakestoreapi.com" {
		t.Errorf("unexpected catalog base url %q", cfg.API.CatalogBaseURL)
	}
	if cfg.API.AuthBaseURL != "https://api.escuelajs.co/api/v1" {
		t.Errorf("unexpected auth base url %q", cfg.API.AuthBaseURL)
	}
	if cfg.API.LoginPath != "/auth/login" || cfg.API.ProfilePath != "/auth/profile" || cfg.API.ProductsPath != "/products" {
		t.Errorf("unexpected paths %+v", cfg.API)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("expected 10s timeout, got %v", cfg.API.Timeout)
	}
	if cfg.Tokens.Backend != StoreBackendFile {
		t.Errorf("expected file backend, got %q", cfg.Tokens.Backend)
	}
	if cfg.Tokens.TTL != 168*time.Hour {
		t.Errorf("expected 168h token ttl, got %v", cfg.Tokens.TTL)
	}
	if filepath.Base(cfg.Tokens.FileDir) != ".storefront" {
		t.Errorf("expected .storefront dir, got %q", cfg.Tokens.FileDir)
	}
	if cfg.Cart.Persist {
		t.Error("cart persistence should be off by default")
	}
	if cfg.Catalog.CacheTTL != 5*time.Minute {
		t.Errorf("expected 5m catalog ttl, got %v", cfg.Catalog.CacheTTL)
	}
	if cfg.Metrics.IsEnabled() {
		t.Error("metrics should be off by default")
	}
	if cfg.IsDev {
		t.Error("dev mode should be off by default")
	}
	if cfg.NeedsRedis() {
		t.Error("file backend should not need redis")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestAppConfig_ParseEnv(t *testing.T) {
	t.Setenv("API_CATALOG_BASE_URL", " http://localhost:3000 ")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("TOKEN_STORE", "Redis")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("TOKEN_REDIS_PREFIX", "shop:")
	t.Setenv("REDIS_URI", "redis:6379")
	t.Setenv("REDIS_CLUSTER_NODES", "a:1, ,b:2")
	t.Setenv("CART_PERSIST", "true")
	t.Setenv("CATALOG_CACHE_TTL", "0s")
	t.Setenv("METRICS_ENABLED", "true")
	t.Setenv("METRICS_PREFIX", ".shop.")
	t.Setenv("LOG_LEVEL", "WARNING")

	cfg := parse(t)

	if cfg.API.CatalogBaseURL != "http://localhost:3000" {
		t.Errorf("expected trimmed url, got %q", cfg.API.CatalogBaseURL)
	}
	if cfg.API.Timeout != 3*time.Second {
		t.Errorf("expected 3s, got %v", cfg.API.Timeout)
	}
	if !cfg.NeedsRedis() || cfg.Tokens.RedisPrefix != "shop:" || cfg.Tokens.TTL != time.Hour {
		t.Errorf("unexpected token config %+v", cfg.Tokens)
	}
	if cfg.Redis.URI != "redis:6379" {
		t.Errorf("unexpected redis uri %q", cfg.Redis.URI)
	}
	if len(cfg.Redis.ClusterNodes) != 2 {
		t.Errorf("expected blank cluster nodes dropped, got %v", cfg.Redis.ClusterNodes)
	}
	if !cfg.Cart.Persist {
		t.Error("expected cart persistence")
	}
	if cfg.Catalog.ServiceTTL() >= 0 {
		t.Errorf("zero cache ttl should disable the cache, got %v", cfg.Catalog.ServiceTTL())
	}
	if !cfg.Metrics.IsEnabled() || cfg.Metrics.Prefix != "shop" {
		t.Errorf("unexpected metrics config %+v", cfg.Metrics)
	}
	if cfg.Log.SlogLevel() != slog.LevelWarn {
		t.Errorf("expected warn level, got %v", cfg.Log.SlogLevel())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config: %v", err)
	}
}

func TestAppConfig_InvalidStoreBackend(t *testing.T) {
	t.Setenv("TOKEN_STORE", "postgres")

	var cfg AppConfig
	if err := env.Parse(&cfg); err == nil {
		t.Fatal("expected parse error for unknown backend")
	}
}

func TestAppConfig_ValidateRejectsBadURL(t *testing.T) {
	t.Setenv("API_AUTH_BASE_URL", "not a url")

	cfg := parse(t)
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestAppConfig_DetectDevModeFromNodeEnv(t *testing.T) {
	t.Setenv("DEV", "false")
	t.Setenv("NODE_ENV", "development")

	cfg := parse(t)
	if !cfg.IsDev {
		t.Fatal("expected NODE_ENV=development to enable dev mode")
	}
}

func TestAPIConfig_SanitizeRestoresDefaults(t *testing.T) {
	cfg := APIConfig{ErrorMessagePath: " ", UserAgent: ""}
	cfg.Sanitize()

	if cfg.Timeout != 10*time.Second {
		t.Errorf("expected default timeout, got %v", cfg.Timeout)
	}
	if cfg.ErrorMessagePath != "message" {
		t.Errorf("expected default message path, got %q", cfg.ErrorMessagePath)
	}
	if cfg.UserAgent != "storefront" {
		t.Errorf("expected default user agent, got %q", cfg.UserAgent)
	}
}

func TestLogConfig_Sanitize(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		cfg := LogConfig{Level: in}
		cfg.Sanitize()
		if got := cfg.SlogLevel(); got != want {
			t.Errorf("level %q: expected %v, got %v", in, want, got)
		}
	}
}

func TestMetricsConfig_Sanitize(t *testing.T) {
	cfg := MetricsConfig{
		Enabled:       true,
		StatsdAddress: " ",
	}

	cfg.Sanitize()

	if cfg.Enabled {
		t.Fatalf("expected enabled to be false when address is empty")
	}

	cfg = MetricsConfig{
		Enabled:       true,
		StatsdAddress: " statsd:1234 ",
	}

	cfg.Sanitize()

	if !cfg.IsEnabled() {
		t.Fatalf("expected metrics to remain enabled")
	}
	if cfg.StatsdAddress != "statsd:1234" {
		t.Fatalf("expected address to be trimmed, got %q", cfg.StatsdAddress)
	}
}

func TestStoreBackend_UnmarshalText(t *testing.T) {
	var b StoreBackend
	if err := b.UnmarshalText([]byte(" Memory ")); err != nil || b != StoreBackendMemory {
		t.Fatalf("expected memory backend, got %q (%v)", b, err)
	}
	if err := b.UnmarshalText([]byte("s3")); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
