package bootstrap

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/storefront/config"
)

func TestInitLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := InitLogger(config.AppConfig{Log: config.LogConfig{Level: "warn"}}, &buf)
	logger.Info("dropped")
	logger.Warn("kept", "key", "value")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "value", entry["key"])

	buf.Reset()
	logger = InitLogger(config.AppConfig{IsDev: true, Log: config.LogConfig{Level: "debug"}}, &buf)
	logger.Debug("hello")
	assert.True(t, strings.Contains(buf.String(), "msg=hello"), buf.String())
}

func TestLoadConfig_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CATALOG_CACHE_TTL=90s\n"), 0o600))
	t.Chdir(dir)

	// Register a restore, then unset so the .env value applies.
	t.Setenv("CATALOG_CACHE_TTL", "")
	require.NoError(t, os.Unsetenv("CATALOG_CACHE_TTL"))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Catalog.CacheTTL)
}

func TestLoadConfig_RejectsInvalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("API_CATALOG_BASE_URL", "::not-a-url")

	_, err := LoadConfig()
	require.Error(t, err)
}
