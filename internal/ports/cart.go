package ports

import (
	"context"

	"github.com/target/storefront/internal/domain/cart"
)

// CartSnapshotStore persists cart snapshots between runs.
// Load returns (nil, nil) when no snapshot exists.
type CartSnapshotStore interface {
	Load(ctx context.Context) (*cart.Snapshot, error)
	Save(ctx context.Context, snap cart.Snapshot) error
	Delete(ctx context.Context) error
}
