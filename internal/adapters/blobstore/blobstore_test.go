package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"

	domainauth "github.com/target/storefront/internal/domain/auth"
	"github.com/target/storefront/internal/domain/cart"
	apperrors "github.com/target/storefront/internal/errors"
	"github.com/target/storefront/internal/testutil"
)

var pair = domainauth.Tokens{Access: "access-abc", Refresh: "refresh-xyz"}

func openBuckets(t *testing.T) map[string]*blob.Bucket {
	t.Helper()
	fileBucket, err := OpenFileBucket(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)
	buckets := map[string]*blob.Bucket{
		"file":   fileBucket,
		"memory": OpenMemoryBucket(),
	}
	t.Cleanup(func() {
		for _, b := range buckets {
			_ = b.Close()
		}
	})
	return buckets
}

func TestTokenStore_SaveLoadClear(t *testing.T) {
	for name, bucket := range openBuckets(t) {
		t.Run(name, func(t *testing.T) {
			store := NewTokenStore(bucket, time.Hour)
			ctx := context.Background()

			got, err := store.Load(ctx)
			require.NoError(t, err)
			assert.True(t, got.Empty())

			require.NoError(t, store.Save(ctx, pair))
			got, err = store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, pair, got)

			require.NoError(t, store.Clear(ctx))
			require.NoError(t, store.Clear(ctx), "clearing twice is fine")
			got, err = store.Load(ctx)
			require.NoError(t, err)
			assert.True(t, got.Empty())
		})
	}
}

func TestTokenStore_Expiry(t *testing.T) {
	clock := testutil.NewClock(testutil.TestTime())
	store := NewTokenStore(OpenMemoryBucket(), 168*time.Hour).WithClock(clock.Now)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, pair))

	clock.Advance(167 * time.Hour)
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, pair, got)

	clock.Advance(time.Hour)
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestTokenStore_ZeroTTLNeverExpires(t *testing.T) {
	clock := testutil.NewClock(testutil.TestTime())
	store := NewTokenStore(OpenMemoryBucket(), 0).WithClock(clock.Now)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, pair))
	clock.Advance(10 * 365 * 24 * time.Hour)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, pair, got)
}

func TestTokenStore_RejectsIncompletePair(t *testing.T) {
	store := NewTokenStore(OpenMemoryBucket(), 0)
	err := store.Save(context.Background(), domainauth.Tokens{Refresh: "r"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestTokenStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	bucket, err := OpenFileBucket(dir)
	require.NoError(t, err)
	defer bucket.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, tokensKey), []byte("not json"), 0o600))

	_, err = NewTokenStore(bucket, 0).Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsInternal(err))
	assert.Contains(t, err.Error(), "decode tokens.json")
}

func TestOpenFileBucket_RequiresDir(t *testing.T) {
	_, err := OpenFileBucket("")
	require.Error(t, err)
}

func TestOpenFileBucket_OwnerOnlyDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "store")
	bucket, err := OpenFileBucket(dir)
	require.NoError(t, err)
	defer bucket.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}

func TestCartStore_RoundTrip(t *testing.T) {
	for name, bucket := range openBuckets(t) {
		t.Run(name, func(t *testing.T) {
			store := NewCartStore(bucket)
			ctx := context.Background()

			snap, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, snap)

			c := cart.New()
			c.Add(testutil.NewProduct(1).Build())
			c.SetAuthenticated(true)
			c.Add(testutil.NewProduct(2).WithPrice("22.30").Build())
			require.NoError(t, store.Save(ctx, c.Snapshot()))

			snap, err = store.Load(ctx)
			require.NoError(t, err)
			require.NotNil(t, snap)
			assert.True(t, snap.Authenticated)
			require.Len(t, snap.User, 2)
			assert.Equal(t, "22.30", snap.User[1].Price.StringFixed(2))

			require.NoError(t, store.Delete(ctx))
			snap, err = store.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, snap)
		})
	}
}
