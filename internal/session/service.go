package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nathanaelowenk/bookrental/internal/api"
	"github.com/nathanaelowenk/bookrental/internal/domain"
)

// Authenticator is the slice of the API client the session service calls.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*api.Credentials, error)
	Register(ctx context.Context, username, password string) (*api.Credentials, error)
}

// TokenCarrier installs and clears the bearer token held by the API client.
type TokenCarrier interface {
	SetToken(token string)
	ClearToken()
}

// Service owns authentication state. It is the single source of truth for
// whether a user is logged in: at every observable instant
// Authenticated() == (user present && token present).
type Service struct {
	auth   Authenticator
	tokens TokenCarrier
	store  RecordStore

	mu      sync.RWMutex
	current Session

	// resets are run on sign-out to clear dependent caches.
	resets []func()
}

// NewService creates a session service backed by the given record store.
func NewService(auth Authenticator, tokens TokenCarrier, store RecordStore) *Service {
	return &Service{
		auth:   auth,
		tokens: tokens,
		store:  store,
	}
}

// OnSignOut registers a reset hook run whenever the session is signed out.
// Hooks run after the session and token are cleared.
func (s *Service) OnSignOut(reset func()) {
	s.resets = append(s.resets, reset)
}

// Restore loads a previously persisted session. On success the token is
// installed into the API client and the service is marked authenticated. Any
// load or decode failure, and any half record (exactly one of user/token),
// discards the persisted pair entirely: a corrupt record is
// indistinguishable from never having logged in and is never surfaced as an
// error.
func (s *Service) Restore() bool {
	rec, err := s.store.Load()
	if err != nil {
		if err != ErrNotFound {
			slog.Warn("discarding unreadable session record", "error", err)
			s.clearPersisted()
		}
		return false
	}
	if !rec.Authenticated() {
		slog.Warn("discarding partial session record")
		s.clearPersisted()
		return false
	}

	s.tokens.SetToken(rec.Token)
	s.mu.Lock()
	s.current = *rec
	s.mu.Unlock()
	return true
}

// Login authenticates against the service. On success the session is
// persisted and the service marked authenticated; on failure the service is
// left unauthenticated with nothing persisted. The session is never left
// half-updated.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, error) {
	creds, err := s.auth.Login(ctx, username, password)
	if err != nil {
		s.reset()
		return nil, err
	}
	return s.install(creds), nil
}

// Register creates an account and behaves like Login on both outcomes.
func (s *Service) Register(ctx context.Context, username, password string) (*domain.User, error) {
	creds, err := s.auth.Register(ctx, username, password)
	if err != nil {
		s.reset()
		return nil, err
	}
	return s.install(creds), nil
}

func (s *Service) install(creds *api.Credentials) *domain.User {
	user := creds.User
	sess := Session{User: &user, Token: creds.Token}

	if err := s.store.Save(&sess); err != nil {
		// The in-memory session is still valid; only restore-after-restart
		// is lost.
		slog.Warn("persist session record", "error", err)
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	return &user
}

// SignOut is a full state reset: it clears the persisted record, clears the
// API client's token and runs every registered cache reset.
func (s *Service) SignOut() {
	s.reset()
	for _, reset := range s.resets {
		reset()
	}
}

func (s *Service) reset() {
	s.mu.Lock()
	s.current = Session{}
	s.mu.Unlock()
	s.clearPersisted()
	s.tokens.ClearToken()
}

func (s *Service) clearPersisted() {
	if err := s.store.Clear(); err != nil {
		slog.Warn("clear session record", "error", err)
	}
}

// Authenticated reports whether a user is logged in.
func (s *Service) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Authenticated()
}

// User returns a copy of the authenticated identity, or nil.
func (s *Service) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.User == nil {
		return nil
	}
	user := *s.current.User
	return &user
}

// UserID returns the authenticated user's id, or 0 when logged out.
func (s *Service) UserID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.User == nil {
		return 0
	}
	return s.current.User.ID
}
