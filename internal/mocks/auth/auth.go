package auth

// Package auth contains simple hand-written test doubles for session ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"fmt"
	"sync"

	domainauth "github.com/target/storefront/internal/domain/auth"
	"github.com/target/storefront/internal/domain/cart"
	"github.com/target/storefront/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthAPI           = (*StubAuthAPI)(nil)
	_ ports.TokenStore        = (*MemoryTokenStore)(nil)
	_ ports.CartSnapshotStore = (*MemoryCartStore)(nil)
)

// StubAuthAPI simulates the remote auth service with deterministic tokens.
type StubAuthAPI struct {
	LoginFunc   func(ctx context.Context, creds ports.Credentials) (domainauth.Tokens, error)
	ProfileFunc func(ctx context.Context, accessToken string) (domainauth.User, error)

	// DefaultUser is returned by Profile when ProfileFunc is nil.
	DefaultUser domainauth.User

	mu           sync.Mutex
	loginCalls   int
	profileCalls int
	lastToken    string
}

// NewStubAuthAPI creates a StubAuthAPI with sensible defaults.
func NewStubAuthAPI() *StubAuthAPI {
	return &StubAuthAPI{
		DefaultUser: domainauth.User{
			ID:     1,
			Email:  "john@mail.com",
			Name:   "Jhon",
			Role:   domainauth.RoleCustomer,
			Avatar: "https://i.imgur.com/LDOO4Qs.jpg",
		},
	}
}

func (s *StubAuthAPI) Login(ctx context.Context, creds ports.Credentials) (domainauth.Tokens, error) {
	s.mu.Lock()
	s.loginCalls++
	n := s.loginCalls
	s.mu.Unlock()

	if s.LoginFunc != nil {
		return s.LoginFunc(ctx, creds)
	}
	return domainauth.Tokens{
		Access:  fmt.Sprintf("access-%d", n),
		Refresh: fmt.Sprintf("refresh-%d", n),
	}, nil
}

func (s *StubAuthAPI) Profile(ctx context.Context, accessToken string) (domainauth.User, error) {
	s.mu.Lock()
	s.profileCalls++
	s.lastToken = accessToken
	s.mu.Unlock()

	if s.ProfileFunc != nil {
		return s.ProfileFunc(ctx, accessToken)
	}
	return s.DefaultUser, nil
}

// LoginCalls returns how many times Login was invoked.
func (s *StubAuthAPI) LoginCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loginCalls
}

// ProfileCalls returns how many times Profile was invoked.
func (s *StubAuthAPI) ProfileCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileCalls
}

// LastProfileToken returns the bearer token of the latest Profile call.
func (s *StubAuthAPI) LastProfileToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastToken
}

// MemoryTokenStore is an in-memory token store for unit tests. It outlives the
// session that uses it, so it can stand in for storage across a simulated restart.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens domainauth.Tokens

	LoadErr  error
	SaveErr  error
	ClearErr error

	saves  int
	clears int
}

// NewMemoryTokenStore creates a store pre-populated with tokens (which may be empty).
func NewMemoryTokenStore(tokens domainauth.Tokens) *MemoryTokenStore {
	return &MemoryTokenStore{tokens: tokens}
}

func (m *MemoryTokenStore) Load(_ context.Context) (domainauth.Tokens, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return domainauth.Tokens{}, m.LoadErr
	}
	return m.tokens, nil
}

func (m *MemoryTokenStore) Save(_ context.Context, tokens domainauth.Tokens) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.saves++
	m.tokens = tokens
	return nil
}

func (m *MemoryTokenStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.clears++
	m.tokens = domainauth.Tokens{}
	return nil
}

// Tokens returns what is currently stored.
func (m *MemoryTokenStore) Tokens() domainauth.Tokens {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens
}

// Saves returns the number of successful Save calls.
func (m *MemoryTokenStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Clears returns the number of successful Clear calls.
func (m *MemoryTokenStore) Clears() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clears
}

// MemoryCartStore is an in-memory cart snapshot store for unit tests.
type MemoryCartStore struct {
	mu   sync.Mutex
	snap *cart.Snapshot

	SaveErr error
	saves   int
}

// NewMemoryCartStore creates an empty snapshot store.
func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{}
}

func (m *MemoryCartStore) Load(_ context.Context) (*cart.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return nil, nil
	}
	cp := *m.snap
	return &cp, nil
}

func (m *MemoryCartStore) Save(_ context.Context, snap cart.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.saves++
	m.snap = &snap
	return nil
}

func (m *MemoryCartStore) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = nil
	return nil
}

// Saves returns the number of successful Save calls.
func (m *MemoryCartStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
