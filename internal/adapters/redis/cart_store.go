package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/storefront/internal/domain/cart"
	"github.com/target/storefront/internal/ports"
)

const cartKey = "cart"

var _ ports.CartSnapshotStore = (*CartStore)(nil)

// CartStore keeps the cart snapshot as one JSON value.
type CartStore struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// NewCartStore creates a Redis-backed cart snapshot store. A zero ttl stores
// without expiry.
func NewCartStore(client redis.UniversalClient, prefix string, ttl time.Duration) *CartStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &CartStore{client: client, key: prefix + cartKey, ttl: ttl}
}

func (s *CartStore) Load(ctx context.Context) (*cart.Snapshot, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var snap cart.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return &snap, nil
}

func (s *CartStore) Save(ctx context.Context, snap cart.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	return s.client.Set(ctx, s.key, data, s.ttl).Err()
}

func (s *CartStore) Delete(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
