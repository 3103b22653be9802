package auth

// Package auth contains domain-level types for the storefront session.
// It is pure and free of framework/adapter concerns.

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Role is the profile role reported by the auth service.
// Keep string form; the service may add values we do not know about.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// User is the profile returned by the profile endpoint.
type User struct {
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar"`
}

// Tokens is the credential pair issued by the login endpoint.
type Tokens struct {
	Access  string `json:"access_token"`
	Refresh string `json:"refresh_token"`
}

// Complete reports whether both tokens are present. Only a complete pair authenticates.
func (t Tokens) Complete() bool { return t.Access != "" && t.Refresh != "" }

// Empty reports whether neither token is present.
func (t Tokens) Empty() bool { return t.Access == "" && t.Refresh == "" }

// OAuth2 converts the pair into a bearer oauth2.Token.
func (t Tokens) OAuth2() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  t.Access,
		RefreshToken: t.Refresh,
		TokenType:    "Bearer",
	}
	if exp, ok := t.AccessExpiry(); ok {
		tok.Expiry = exp
	}
	return tok
}

// AccessExpiry reads the exp claim of a JWT access token without verifying it.
// It is informational only; the server remains the authority on validity.
func (t Tokens) AccessExpiry() (time.Time, bool) {
	if t.Access == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(t.Access, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Phase is the coarse state of the session's async operations.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseError   Phase = "error"
)

// Status is idle, loading, or error(message).
type Status struct {
	Phase   Phase  `json:"phase"`
	Message string `json:"message,omitempty"`
}

// Idle is the zero-error resting status.
func Idle() Status { return Status{Phase: PhaseIdle} }

// Loading marks an in-flight operation.
func Loading() Status { return Status{Phase: PhaseLoading} }

// Failed records an error message.
func Failed(msg string) Status { return Status{Phase: PhaseError, Message: msg} }

func (s Status) IsLoading() bool { return s.Phase == PhaseLoading }
func (s Status) IsError() bool   { return s.Phase == PhaseError }

func (s Status) String() string {
	if s.Phase == "" {
		return string(PhaseIdle)
	}
	if s.Phase == PhaseError && s.Message != "" {
		return string(s.Phase) + ": " + s.Message
	}
	return string(s.Phase)
}

// SessionState is the full in-memory session.
// User is only meaningful while Authenticated; Tokens decide Authenticated.
type SessionState struct {
	User          *User  `json:"user,omitempty"`
	Tokens        Tokens `json:"tokens"`
	Authenticated bool   `json:"authenticated"`
	Status        Status `json:"status"`
}

// EmptySession returns the reset form used at start and after logout.
func EmptySession() SessionState {
	return SessionState{Status: Idle()}
}

// Clone returns a copy that shares no pointers with s.
func (s SessionState) Clone() SessionState {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}
