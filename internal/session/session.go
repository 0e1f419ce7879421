package session

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	"acaihouse/internal/apiclient"
	"acaihouse/internal/domain"
	"acaihouse/internal/storage"
)

// API is the slice of the api client the session needs.
type API interface {
	Login(ctx context.Context, email, password string) (*apiclient.LoginResult, error)
	Logout(ctx context.Context) error
	GetProfile(ctx context.Context) (*domain.User, error)
}

// Credentials is the token/user pair persisted between runs.
type Credentials struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user,omitempty"`
}

// Listener is invoked after every authentication-identity change. The user is
// nil when the session became (or stayed) unauthenticated.
type Listener func(ctx context.Context, user *domain.User)

// Session is the process-wide authentication state. It owns the persisted
// credentials and is the only component that decides who is signed in.
type Session struct {
	mu       sync.Mutex
	api      API
	store    storage.Storage
	logger   *log.Logger
	token    string
	user     *domain.User
	listener Listener
}

func New(api API, store storage.Storage, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Session{api: api, store: store, logger: logger}
}

// OnChange registers the single identity-change listener. It must be set
// before Init or Login so the listener observes every transition.
func (s *Session) OnChange(fn Listener) {
	s.mu.Lock()
	s.listener = fn
	s.mu.Unlock()
}

// Token returns the current access token, empty when unauthenticated.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns the signed-in user, nil when unauthenticated.
func (s *Session) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) IsAuthenticated() bool {
	return s.User() != nil
}

// Init restores a persisted session at startup. The stored token is validated
// once against the profile endpoint; an invalid or expired token clears the
// stored credentials and leaves the session unauthenticated. Init never fails
// the caller over auth problems.
func (s *Session) Init(ctx context.Context) error {
	var creds Credentials
	ok, err := s.store.Get(storage.CredentialsKey, &creds)
	if err != nil || !ok || creds.Token == "" {
		s.notify(ctx, nil)
		return nil
	}

	s.mu.Lock()
	s.token = creds.Token
	s.mu.Unlock()

	profile, err := s.api.GetProfile(ctx)
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			s.logger.Printf("session: stored token rejected, clearing credentials")
			s.reset()
			s.notify(ctx, nil)
			return nil
		}
		// Network trouble: keep the stored identity and let the next call
		// sort it out.
		s.mu.Lock()
		s.user = creds.User
		u := s.user
		s.mu.Unlock()
		s.notify(ctx, u)
		return err
	}

	s.mu.Lock()
	s.user = profile
	s.mu.Unlock()
	_ = s.store.Set(storage.CredentialsKey, Credentials{Token: creds.Token, User: profile})
	s.notify(ctx, profile)
	return nil
}

// Login is strictly ordered: verify credentials, persist the issued token,
// fetch the full profile, and only then flip to authenticated and notify.
func (s *Session) Login(ctx context.Context, email, password string) (*domain.User, error) {
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.token = res.AccessToken
	s.mu.Unlock()

	if err := s.store.Set(storage.CredentialsKey, Credentials{Token: res.AccessToken}); err != nil {
		s.reset()
		return nil, err
	}

	profile, err := s.api.GetProfile(ctx)
	if err != nil {
		s.reset()
		_ = s.store.Delete(storage.CredentialsKey)
		return nil, err
	}

	s.mu.Lock()
	s.user = profile
	s.mu.Unlock()
	_ = s.store.Set(storage.CredentialsKey, Credentials{Token: res.AccessToken, User: profile})

	s.notify(ctx, profile)
	return profile, nil
}

// Logout tears the session down. The server-side revoke is best effort.
func (s *Session) Logout(ctx context.Context) {
	if s.IsAuthenticated() {
		if err := s.api.Logout(ctx); err != nil {
			s.logger.Printf("session: logout revoke failed: %v", err)
		}
	}
	s.reset()
	_ = s.store.Delete(storage.CredentialsKey)
	s.notify(ctx, nil)
}

func (s *Session) reset() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
}

func (s *Session) notify(ctx context.Context, user *domain.User) {
	s.mu.Lock()
	fn := s.listener
	s.mu.Unlock()
	if fn != nil {
		fn(ctx, user)
	}
}
