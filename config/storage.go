package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// StoreBackend selects where durable state lives.
type StoreBackend string

const (
	// StoreBackendFile keeps state in a local directory.
	StoreBackendFile StoreBackend = "file"
	// StoreBackendRedis keeps state in Redis.
	StoreBackendRedis StoreBackend = "redis"
	// StoreBackendMemory keeps state for the process lifetime only.
	StoreBackendMemory StoreBackend = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for StoreBackend.
func (b *StoreBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch StoreBackend(v) {
	case StoreBackendFile, StoreBackendRedis, StoreBackendMemory:
		*b = StoreBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid StoreBackend: %q (valid options: file, redis, memory)", v)
	}
}

// TokenStoreConfig controls where the session token pair is persisted.
type TokenStoreConfig struct {
	Backend StoreBackend `env:"TOKEN_STORE" envDefault:"file" validate:"oneof=file redis memory"`

	// TTL is how long a saved pair stays valid. Zero keeps it until logout.
	TTL time.Duration `env:"TOKEN_TTL" envDefault:"168h" validate:"gte=0"`

	// FileDir is the directory used by the file backend. Defaults to $HOME/.storefront.
	FileDir string `env:"TOKEN_FILE_DIR"`

	RedisPrefix string `env:"TOKEN_REDIS_PREFIX" envDefault:"storefront:"`
}

// Sanitize resolves the file directory and normalises the prefix.
func (c *TokenStoreConfig) Sanitize() {
	if c.Backend == "" {
		c.Backend = StoreBackendFile
	}
	if c.TTL < 0 {
		c.TTL = 0
	}
	c.FileDir = strings.TrimSpace(c.FileDir)
	if c.FileDir == "" {
		c.FileDir = defaultStateDir()
	}
	if c.RedisPrefix = strings.TrimSpace(c.RedisPrefix); c.RedisPrefix == "" {
		c.RedisPrefix = "storefront:"
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".storefront"
	}
	return filepath.Join(home, ".storefront")
}

// CartConfig controls cart snapshots. Snapshots share the token store backend.
type CartConfig struct {
	Persist bool `env:"CART_PERSIST" envDefault:"false"`
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"                validate:"gte=0"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}

// Sanitize drops blank node entries.
func (c *RedisConfig) Sanitize() {
	c.URI = strings.TrimSpace(c.URI)
	c.SentinelNodes = compact(c.SentinelNodes)
	c.ClusterNodes = compact(c.ClusterNodes)
}

func compact(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
