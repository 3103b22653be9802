package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/target/storefront/internal/domain/cart"
	"github.com/target/storefront/internal/domain/catalog"
	"github.com/target/storefront/internal/ports"
)

const defaultPersistTimeout = 2 * time.Second

// CartServiceOptions groups dependencies for CartService.
type CartServiceOptions struct {
	// Snapshots persists the cart after each change. Optional.
	Snapshots      ports.CartSnapshotStore
	PersistTimeout time.Duration
	Logger         *slog.Logger
}

// CartService serializes access to a cart.Cart. Operations never fail; a
// persistence failure is logged and the in-memory cart stays authoritative.
type CartService struct {
	mu   sync.Mutex
	cart *cart.Cart

	snapshots      ports.CartSnapshotStore
	persistTimeout time.Duration
	logger         *slog.Logger
}

// NewCartService constructs a CartService holding an empty guest cart.
func NewCartService(opts CartServiceOptions) *CartService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.PersistTimeout
	if timeout <= 0 {
		timeout = defaultPersistTimeout
	}
	return &CartService{
		cart:           cart.New(),
		snapshots:      opts.Snapshots,
		persistTimeout: timeout,
		logger:         logger.With("component", "cart"),
	}
}

// Restore replaces the in-memory cart with the stored snapshot, if any. It
// must run before the synchronizer starts: the mirror comes back as it was
// saved, so the first push from the session either keeps the user collection
// or clears it when the session did not survive. A guest-mode snapshot never
// carries user lines.
func (s *CartService) Restore(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}
	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	restored := *snap
	if !restored.Authenticated {
		restored.User = nil
	}
	s.cart = cart.FromSnapshot(restored)
	s.logger.InfoContext(ctx, "cart restored",
		"guest_lines", len(restored.Guest),
		"user_lines", len(restored.User),
		"authenticated", restored.Authenticated,
	)
	return nil
}

// AddItem adds one unit of p to the active collection.
func (s *CartService) AddItem(p catalog.Product) {
	s.mutate(func(c *cart.Cart) bool {
		c.Add(p)
		return true
	})
}

// RemoveItem drops the product line from the active collection.
func (s *CartService) RemoveItem(productID int64) {
	s.mutate(func(c *cart.Cart) bool {
		return c.Remove(productID)
	})
}

// UpdateQuantity sets a line's quantity; zero or negative removes the line.
func (s *CartService) UpdateQuantity(productID int64, qty int) {
	s.mutate(func(c *cart.Cart) bool {
		return c.SetQuantity(productID, qty)
	})
}

// Clear empties the active collection.
func (s *CartService) Clear() {
	s.mutate(func(c *cart.Cart) bool {
		c.Clear()
		return true
	})
}

// ClearGuest empties the guest collection regardless of mode.
func (s *CartService) ClearGuest() {
	s.mutate(func(c *cart.Cart) bool {
		c.ClearOwner(cart.OwnerGuest)
		return true
	})
}

// SetAuthenticated mirrors the session flag, merging or clearing collections
// on a flip. Repeated values are harmless.
func (s *CartService) SetAuthenticated(authenticated bool) cart.Transition {
	var transition cart.Transition
	s.mutate(func(c *cart.Cart) bool {
		transition = c.SetAuthenticated(authenticated)
		return transition != cart.TransitionNone
	})
	if transition != cart.TransitionNone {
		s.logger.Debug("cart mode changed", "transition", transition.String())
	}
	return transition
}

// RestoreUserCart replaces the user collection with saved items. It is ignored
// in guest mode.
func (s *CartService) RestoreUserCart(items []cart.Item) bool {
	var applied bool
	s.mutate(func(c *cart.Cart) bool {
		applied = c.ReplaceUser(items)
		return applied
	})
	return applied
}

// Items returns the active collection.
func (s *CartService) Items() []cart.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ActiveItems()
}

// ItemsFor returns one owner's collection.
func (s *CartService) ItemsFor(owner cart.Owner) []cart.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Items(owner)
}

// Authenticated reports the mirrored session flag.
func (s *CartService) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Authenticated()
}

// ItemCount is the total quantity in the active collection.
func (s *CartService) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ItemCount()
}

// Subtotal is the price total of the active collection.
func (s *CartService) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Subtotal()
}

// Snapshot returns the serializable form of the cart.
func (s *CartService) Snapshot() cart.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Snapshot()
}

// mutate applies fn under the lock and persists when fn reports a change.
// Saving happens under the same lock so snapshots land in mutation order.
func (s *CartService) mutate(fn func(*cart.Cart) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !fn(s.cart) || s.snapshots == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
	defer cancel()
	if err := s.snapshots.Save(ctx, s.cart.Snapshot()); err != nil {
		s.logger.Warn("persist cart failed", "error", err)
	}
}
