package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gocloud.dev/blob"

	"github.com/target/storefront/config"
	"github.com/target/storefront/internal/adapters/blobstore"
	redisstore "github.com/target/storefront/internal/adapters/redis"
	"github.com/target/storefront/internal/ports"
)

// StoreOptions selects and configures the durable stores.
type StoreOptions struct {
	Tokens config.TokenStoreConfig
	Cart   config.CartConfig
	// Redis is required for the redis backend.
	Redis  redis.UniversalClient
	Logger *slog.Logger
}

// Stores holds the token store and, when persistence is on, the cart snapshot
// store. Both share one backend.
type Stores struct {
	Tokens ports.TokenStore
	Cart   ports.CartSnapshotStore

	bucket *blob.Bucket
}

// OpenStores builds the stores for the configured backend.
func OpenStores(opts StoreOptions) (*Stores, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var stores *Stores
	switch opts.Tokens.Backend {
	case config.StoreBackendRedis:
		if opts.Redis == nil {
			return nil, errors.New("redis token store requires a redis client")
		}
		stores = &Stores{
			Tokens: redisstore.NewTokenStore(opts.Redis, redisstore.TokenStoreOptions{
				Prefix: opts.Tokens.RedisPrefix,
				TTL:    opts.Tokens.TTL,
			}),
		}
		if opts.Cart.Persist {
			stores.Cart = redisstore.NewCartStore(opts.Redis, opts.Tokens.RedisPrefix, 0)
		}
	case config.StoreBackendMemory:
		stores = bucketStores(blobstore.OpenMemoryBucket(), opts)
	case config.StoreBackendFile, "":
		bucket, err := blobstore.OpenFileBucket(opts.Tokens.FileDir)
		if err != nil {
			return nil, fmt.Errorf("open state directory: %w", err)
		}
		stores = bucketStores(bucket, opts)
	default:
		return nil, fmt.Errorf("unknown token store backend %q", opts.Tokens.Backend)
	}

	logger.Debug("stores opened",
		"backend", string(opts.Tokens.Backend),
		"cart_persist", stores.Cart != nil,
	)
	return stores, nil
}

func bucketStores(bucket *blob.Bucket, opts StoreOptions) *Stores {
	stores := &Stores{
		Tokens: blobstore.NewTokenStore(bucket, opts.Tokens.TTL),
		bucket: bucket,
	}
	if opts.Cart.Persist {
		stores.Cart = blobstore.NewCartStore(bucket)
	}
	return stores
}

// Close releases the underlying bucket, if any. A Redis client is owned by
// the caller.
func (s *Stores) Close() error {
	if s == nil || s.bucket == nil {
		return nil
	}
	if err := s.bucket.Close(); err != nil {
		return fmt.Errorf("close bucket: %w", err)
	}
	return nil
}
