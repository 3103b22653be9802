package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	domainauth "github.com/target/storefront/internal/domain/auth"
	apperrors "github.com/target/storefront/internal/errors"
	"github.com/target/storefront/internal/ports"
)

const (
	msgLoginFailed      = "Login failed"
	msgNoAccessToken    = "No access token available"
	msgProfileFailed    = "Failed to fetch profile"
	msgIncompleteTokens = "login response did not include both tokens"
	msgSuperseded       = "superseded by logout"
)

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	API      ports.AuthAPI
	Tokens   ports.TokenStore
	Notifier domainauth.Notifier // optional; a DefaultNotifier is created when nil
	Logger   *slog.Logger
}

// SessionService owns the authentication session: tokens, profile, and status.
// It persists tokens through a TokenStore and announces authentication flips on
// its Notifier. It knows nothing about carts.
type SessionService struct {
	api      ports.AuthAPI
	tokens   ports.TokenStore
	notifier domainauth.Notifier
	logger   *slog.Logger

	// commitMu orders state commits together with the events they raise, so
	// listeners observe transitions in the order they happened.
	commitMu sync.Mutex

	mu    sync.RWMutex
	state domainauth.SessionState
	// epoch advances on every logout. Results of requests started under an
	// older epoch are dropped.
	epoch uint64
}

// NewSessionService constructs a new SessionService. API and Tokens are required.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	if opts.API == nil {
		panic("service: SessionService requires an AuthAPI")
	}
	if opts.Tokens == nil {
		panic("service: SessionService requires a TokenStore")
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = domainauth.NewNotifier()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		api:      opts.API,
		tokens:   opts.Tokens,
		notifier: notifier,
		logger:   logger.With("component", "session"),
		state:    domainauth.EmptySession(),
	}
}

// Subscribe registers a listener for session events.
func (s *SessionService) Subscribe(fn domainauth.Listener) func() {
	return s.notifier.Subscribe(fn)
}

// Observe registers fn and hands the current flag to initial. No event is
// published between the two, so initial never sees a value older than the
// first event fn receives. initial must not call back into the session.
func (s *SessionService) Observe(fn domainauth.Listener, initial func(authenticated bool)) func() {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	unsub := s.notifier.Subscribe(fn)
	initial(s.Authenticated())
	return unsub
}

// Snapshot returns a copy of the current session state.
func (s *SessionService) Snapshot() domainauth.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Authenticated reports the current authenticated flag.
func (s *SessionService) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Authenticated
}

// RestoreSession hydrates tokens from durable storage. When both tokens are
// present the session becomes authenticated without any network call; the
// profile stays absent until FetchProfile succeeds. Returns whether a session
// was restored.
func (s *SessionService) RestoreSession(ctx context.Context) bool {
	tokens, err := s.tokens.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "read stored tokens failed", "error", err)
		return false
	}
	if !tokens.Complete() {
		return false
	}

	s.commit(func(st *domainauth.SessionState) {
		st.Tokens = tokens
		st.Authenticated = true
	})
	s.logger.InfoContext(ctx, "session restored from storage")
	return true
}

// Login exchanges credentials for tokens. Credentials are passed through as
// given; the auth service decides whether they are acceptable.
//
// On failure the status records the message, the session is marked
// unauthenticated, and previously held tokens stay in place.
func (s *SessionService) Login(ctx context.Context, email, password string) error {
	epoch := s.begin()

	tokens, err := s.api.Login(ctx, ports.Credentials{Email: email, Password: password})
	if err == nil && !tokens.Complete() {
		err = apperrors.Internal(msgIncompleteTokens)
	}
	if err != nil {
		msg := failureMessage(err, msgLoginFailed)
		if !s.commitIf(epoch, func(st *domainauth.SessionState) {
			st.Status = domainauth.Failed(msg)
			st.Authenticated = false
		}) {
			return apperrors.Canceled(msgSuperseded)
		}
		s.logger.WarnContext(ctx, "login failed", "code", apperrors.GetCode(err), "error", msg)
		return fmt.Errorf("login: %w", err)
	}

	if s.currentEpoch() != epoch {
		return apperrors.Canceled(msgSuperseded)
	}

	// Durable write first, then mark authenticated.
	if saveErr := s.tokens.Save(ctx, tokens); saveErr != nil {
		s.logger.WarnContext(ctx, "persist tokens failed", "error", saveErr)
	}

	if !s.commitIf(epoch, func(st *domainauth.SessionState) {
		st.Tokens = tokens
		st.Authenticated = true
		st.Status = domainauth.Idle()
	}) {
		// A logout landed between the epoch check and the commit; undo our write.
		if clearErr := s.tokens.Clear(context.WithoutCancel(ctx)); clearErr != nil {
			s.logger.WarnContext(ctx, "clear superseded tokens failed", "error", clearErr)
		}
		return apperrors.Canceled(msgSuperseded)
	}

	s.logger.InfoContext(ctx, "login succeeded")
	return nil
}

// FetchProfile loads the profile for the current access token, falling back to
// durable storage when memory holds none. Without any token it fails with a
// no_token error and makes no request. A failure never deauthenticates.
func (s *SessionService) FetchProfile(ctx context.Context) (domainauth.User, error) {
	token := s.accessToken()
	if token == "" {
		stored, err := s.tokens.Load(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "read stored tokens failed", "error", err)
		}
		token = stored.Access
	}
	if token == "" {
		err := apperrors.NoToken(msgNoAccessToken)
		s.commit(func(st *domainauth.SessionState) {
			st.Status = domainauth.Failed(err.Message)
		})
		return domainauth.User{}, err
	}

	epoch := s.begin()

	user, err := s.api.Profile(ctx, token)
	if err != nil {
		msg := failureMessage(err, msgProfileFailed)
		if !s.commitIf(epoch, func(st *domainauth.SessionState) {
			st.Status = domainauth.Failed(msg)
		}) {
			return domainauth.User{}, apperrors.Canceled(msgSuperseded)
		}
		s.logger.WarnContext(ctx, "fetch profile failed", "code", apperrors.GetCode(err), "error", msg)
		return domainauth.User{}, fmt.Errorf("fetch profile: %w", err)
	}

	if !s.commitIf(epoch, func(st *domainauth.SessionState) {
		u := user
		st.User = &u
		st.Status = domainauth.Idle()
	}) {
		return domainauth.User{}, apperrors.Canceled(msgSuperseded)
	}
	return user, nil
}

// Logout removes stored tokens and resets the session to its empty form. It
// announces the flag flip (if any) and then the end of the session, which
// listeners use to drop guest-scoped data. In-flight requests become stale.
func (s *SessionService) Logout(ctx context.Context) error {
	clearErr := s.tokens.Clear(ctx)
	if clearErr != nil {
		s.logger.WarnContext(ctx, "remove stored tokens failed", "error", clearErr)
	}

	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	was := s.state.Authenticated
	s.state = domainauth.EmptySession()
	s.epoch++
	s.mu.Unlock()

	if was {
		s.notifier.Publish(domainauth.Event{Kind: domainauth.EventAuthChanged, Authenticated: false})
	}
	s.notifier.Publish(domainauth.Event{Kind: domainauth.EventSessionEnded})
	s.logger.InfoContext(ctx, "logged out")

	if clearErr != nil {
		return fmt.Errorf("remove stored tokens: %w", clearErr)
	}
	return nil
}

// ClearError moves an error status back to idle.
func (s *SessionService) ClearError() {
	s.commit(func(st *domainauth.SessionState) {
		if st.Status.IsError() {
			st.Status = domainauth.Idle()
		}
	})
}

// begin marks an operation as loading, which replaces any error message, and
// returns the epoch it runs under.
func (s *SessionService) begin() uint64 {
	var epoch uint64
	s.commit(func(st *domainauth.SessionState) {
		st.Status = domainauth.Loading()
		epoch = s.epoch
	})
	return epoch
}

func (s *SessionService) currentEpoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

func (s *SessionService) accessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Tokens.Access
}

func (s *SessionService) commit(mutate func(*domainauth.SessionState)) {
	s.commitLocked(false, 0, mutate)
}

func (s *SessionService) commitIf(epoch uint64, mutate func(*domainauth.SessionState)) bool {
	return s.commitLocked(true, epoch, mutate)
}

// commitLocked applies mutate and publishes an auth change when the flag flipped.
func (s *SessionService) commitLocked(checkEpoch bool, epoch uint64, mutate func(*domainauth.SessionState)) bool {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	if checkEpoch && s.epoch != epoch {
		s.mu.Unlock()
		return false
	}
	was := s.state.Authenticated
	mutate(&s.state)
	now := s.state.Authenticated
	s.mu.Unlock()

	if was != now {
		s.notifier.Publish(domainauth.Event{Kind: domainauth.EventAuthChanged, Authenticated: now})
	}
	return true
}

func failureMessage(err error, fallback string) string {
	if msg := apperrors.Message(err); msg != "" {
		return msg
	}
	return fallback
}
