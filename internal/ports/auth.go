package ports

// Package ports defines interfaces (hexagonal ports) for storefront behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/target/storefront/internal/domain/auth"
)

// Credentials carries the login form.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthAPI talks to the remote auth service.
type AuthAPI interface {
	// Login exchanges credentials for a token pair. Non-2xx answers surface as an
	// auth_rejected AppError carrying the server message; transport failures as network.
	Login(ctx context.Context, creds Credentials) (domainauth.Tokens, error)

	// Profile fetches the user behind accessToken.
	Profile(ctx context.Context, accessToken string) (domainauth.User, error)
}

// TokenStore is durable storage for the token pair.
// Load returns empty Tokens (and no error) when nothing is stored or entries expired.
type TokenStore interface {
	Load(ctx context.Context) (domainauth.Tokens, error)
	Save(ctx context.Context, tokens domainauth.Tokens) error
	Clear(ctx context.Context) error
}
