// Package blobstore keeps storefront state in a gocloud blob bucket. The file
// driver gives a per-user directory on disk; the memory driver gives a
// process-local store.
package blobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"

	domainauth "github.com/target/storefront/internal/domain/auth"
	"github.com/target/storefront/internal/domain/cart"
	apperrors "github.com/target/storefront/internal/errors"
	"github.com/target/storefront/internal/ports"
)

const (
	tokensKey   = "tokens.json"
	cartKey     = "cart.json"
	contentJSON = "application/json"
)

var (
	_ ports.TokenStore        = (*TokenStore)(nil)
	_ ports.CartSnapshotStore = (*CartStore)(nil)
)

// OpenFileBucket opens a bucket rooted at dir, creating it with owner-only
// permissions when missing.
func OpenFileBucket(dir string) (*blob.Bucket, error) {
	if dir == "" {
		return nil, errors.New("blobstore: directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	bucket, err := fileblob.OpenBucket(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("open file bucket: %w", err)
	}
	return bucket, nil
}

// OpenMemoryBucket opens an empty in-memory bucket.
func OpenMemoryBucket() *blob.Bucket {
	return memblob.OpenBucket(nil)
}

type tokenRecord struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at,omitzero"`
}

// TokenStore keeps the token pair as one JSON object. Records past their
// expiry read as empty and are removed.
type TokenStore struct {
	bucket *blob.Bucket
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenStore creates a token store on bucket. A zero ttl never expires.
func NewTokenStore(bucket *blob.Bucket, ttl time.Duration) *TokenStore {
	return &TokenStore{bucket: bucket, ttl: ttl, now: time.Now}
}

// WithClock overrides the time source; used by tests.
func (s *TokenStore) WithClock(now func() time.Time) *TokenStore {
	s.now = now
	return s
}

func (s *TokenStore) Load(ctx context.Context) (domainauth.Tokens, error) {
	var rec tokenRecord
	found, err := readJSON(ctx, s.bucket, tokensKey, &rec)
	if err != nil || !found {
		return domainauth.Tokens{}, err
	}

	if !rec.ExpiresAt.IsZero() && !s.now().Before(rec.ExpiresAt) {
		if err := deleteKey(ctx, s.bucket, tokensKey); err != nil {
			return domainauth.Tokens{}, fmt.Errorf("remove expired tokens: %w", err)
		}
		return domainauth.Tokens{}, nil
	}
	return domainauth.Tokens{Access: rec.AccessToken, Refresh: rec.RefreshToken}, nil
}

func (s *TokenStore) Save(ctx context.Context, tokens domainauth.Tokens) error {
	if !tokens.Complete() {
		return apperrors.Validation("token pair is incomplete")
	}
	rec := tokenRecord{AccessToken: tokens.Access, RefreshToken: tokens.Refresh}
	if s.ttl > 0 {
		rec.ExpiresAt = s.now().Add(s.ttl).UTC()
	}
	return writeJSON(ctx, s.bucket, tokensKey, rec)
}

func (s *TokenStore) Clear(ctx context.Context) error {
	return deleteKey(ctx, s.bucket, tokensKey)
}

// CartStore keeps the cart snapshot as one JSON object.
type CartStore struct {
	bucket *blob.Bucket
}

// NewCartStore creates a cart snapshot store on bucket.
func NewCartStore(bucket *blob.Bucket) *CartStore {
	return &CartStore{bucket: bucket}
}

func (s *CartStore) Load(ctx context.Context) (*cart.Snapshot, error) {
	var snap cart.Snapshot
	found, err := readJSON(ctx, s.bucket, cartKey, &snap)
	if err != nil || !found {
		return nil, err
	}
	return &snap, nil
}

func (s *CartStore) Save(ctx context.Context, snap cart.Snapshot) error {
	return writeJSON(ctx, s.bucket, cartKey, snap)
}

func (s *CartStore) Delete(ctx context.Context) error {
	return deleteKey(ctx, s.bucket, cartKey)
}

func readJSON(ctx context.Context, bucket *blob.Bucket, key string, dst any) (bool, error) {
	data, err := bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "decode %s", key)
	}
	return true, nil
}

func writeJSON(ctx context.Context, bucket *blob.Bucket, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeInternal, "encode %s", key)
	}
	if err := bucket.WriteAll(ctx, key, data, &blob.WriterOptions{ContentType: contentJSON}); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func deleteKey(ctx context.Context, bucket *blob.Bucket, key string) error {
	err := bucket.Delete(ctx, key)
	if err == nil || gcerrors.Code(err) == gcerrors.NotFound {
		return nil
	}
	return fmt.Errorf("delete %s: %w", key, err)
}
