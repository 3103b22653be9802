package service

import (
	"log/slog"
	"sync"

	domainauth "github.com/target/storefront/internal/domain/auth"
	"github.com/target/storefront/internal/domain/cart"
)

// AuthSource is the session side of the synchronizer.
type AuthSource interface {
	Observe(fn domainauth.Listener, initial func(authenticated bool)) func()
}

// CartTarget is the cart side of the synchronizer.
type CartTarget interface {
	SetAuthenticated(authenticated bool) cart.Transition
	ClearGuest()
}

// SynchronizerOptions groups dependencies for Synchronizer.
type SynchronizerOptions struct {
	Session AuthSource
	Cart    CartTarget
	Logger  *slog.Logger
}

// Synchronizer keeps the cart's authenticated mirror equal to the session flag.
// It forwards each flag change exactly once and empties the guest collection
// when a session ends.
type Synchronizer struct {
	session AuthSource
	cart    CartTarget
	logger  *slog.Logger

	lifecycle sync.Mutex
	unsub     func()

	mu      sync.Mutex
	last    bool
	hasLast bool
}

// NewSynchronizer constructs a Synchronizer. Call Start to begin forwarding.
func NewSynchronizer(opts SynchronizerOptions) *Synchronizer {
	if opts.Session == nil || opts.Cart == nil {
		panic("service: Synchronizer requires a session and a cart")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer{
		session: opts.Session,
		cart:    opts.Cart,
		logger:  logger.With("component", "cart_sync"),
	}
}

// Start subscribes to session events and pushes the current flag once.
// Calling Start on a running synchronizer is a no-op.
func (s *Synchronizer) Start() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	if s.unsub != nil {
		return
	}

	s.mu.Lock()
	s.hasLast = false
	s.mu.Unlock()

	s.unsub = s.session.Observe(s.handle, s.forward)
}

// Stop unsubscribes from session events.
func (s *Synchronizer) Stop() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
}

func (s *Synchronizer) handle(ev domainauth.Event) {
	switch ev.Kind {
	case domainauth.EventAuthChanged:
		s.forward(ev.Authenticated)
	case domainauth.EventSessionEnded:
		s.cart.ClearGuest()
		s.logger.Debug("guest cart cleared on session end")
	}
}

// forward pushes flag unless it equals the last value pushed.
func (s *Synchronizer) forward(flag bool) {
	s.mu.Lock()
	if s.hasLast && s.last == flag {
		s.mu.Unlock()
		return
	}
	s.last = flag
	s.hasLast = true
	s.mu.Unlock()

	if t := s.cart.SetAuthenticated(flag); t != cart.TransitionNone {
		s.logger.Info("cart followed session", "transition", t.String())
	}
}
