// Package redis provides Redis-based adapters for storefront state.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/target/storefront/internal/domain/auth"
	apperrors "github.com/target/storefront/internal/errors"
	"github.com/target/storefront/internal/ports"
)

const (
	// DefaultPrefix namespaces every storefront key.
	DefaultPrefix = "storefront:"

	accessKey  = "access_token"
	refreshKey = "refresh_token"
)

var _ ports.TokenStore = (*TokenStore)(nil)

// TokenStore keeps the token pair in two Redis keys sharing one TTL.
type TokenStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// TokenStoreOptions configures a TokenStore.
type TokenStoreOptions struct {
	Prefix string
	// TTL applies to both keys. Zero stores without expiry.
	TTL time.Duration
}

// NewTokenStore creates a Redis-backed token store.
func NewTokenStore(client redis.UniversalClient, opts TokenStoreOptions) *TokenStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &TokenStore{client: client, prefix: prefix, ttl: opts.TTL}
}

// Load returns whatever is stored. A missing or expired key yields an empty field.
func (s *TokenStore) Load(ctx context.Context) (domainauth.Tokens, error) {
	vals, err := s.client.MGet(ctx, s.key(accessKey), s.key(refreshKey)).Result()
	if err != nil {
		return domainauth.Tokens{}, fmt.Errorf("redis mget tokens: %w", err)
	}
	return domainauth.Tokens{
		Access:  stringValue(vals, 0),
		Refresh: stringValue(vals, 1),
	}, nil
}

// Save writes both tokens atomically.
func (s *TokenStore) Save(ctx context.Context, tokens domainauth.Tokens) error {
	if !tokens.Complete() {
		return apperrors.Validation("token pair is incomplete")
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(accessKey), tokens.Access, s.ttl)
		pipe.Set(ctx, s.key(refreshKey), tokens.Refresh, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save tokens: %w", err)
	}
	return nil
}

// Clear deletes both keys. Deleting absent keys is not an error.
func (s *TokenStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key(accessKey), s.key(refreshKey)).Err(); err != nil {
		return fmt.Errorf("redis clear tokens: %w", err)
	}
	return nil
}

func (s *TokenStore) key(name string) string { return s.prefix + name }

func stringValue(vals []any, i int) string {
	if i >= len(vals) {
		return ""
	}
	str, _ := vals[i].(string)
	return str
}
