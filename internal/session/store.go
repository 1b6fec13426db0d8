// Package session owns the signed-in user: sign-in, sign-up, sign-out,
// hydration from local storage, and change notification for the stores
// that key their data by user.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/storage"
)

// Listener is called after every session transition with the new user,
// or nil when the session became anonymous.
type Listener func(ctx context.Context, user *domain.User)

// Store holds the active user. Safe for concurrent use.
//
// Transitions are serialized: the persisted record, the active user and the
// order listeners observe always agree. Listeners must not start another
// transition.
type Store struct {
	transition sync.Mutex // held across persist and notify

	mu        sync.Mutex
	user      *domain.User
	kv        domain.KeyValueStore
	auth      domain.Authenticator
	listeners []Listener
	log       *logger.Logger
}

// NewStore creates an anonymous session store. Call Hydrate to restore a
// previously persisted user.
func NewStore(kv domain.KeyValueStore, auth domain.Authenticator, log *logger.Logger) *Store {
	return &Store{
		kv:   kv,
		auth: auth,
		log:  log,
	}
}

// Subscribe registers fn to run on every transition. Listeners run in
// registration order on the goroutine that caused the transition.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Current returns a copy of the active user, or nil when anonymous.
func (s *Store) Current() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.user)
}

// State reports whether a user is signed in.
func (s *Store) State() domain.SessionState {
	if s.Current() == nil {
		return domain.SessionAnonymous
	}
	return domain.SessionAuthenticated
}

// Hydrate restores the persisted user. A missing or unreadable record
// leaves the session anonymous; the failure is logged, not returned.
func (s *Store) Hydrate(ctx context.Context) {
	s.transition.Lock()
	defer s.transition.Unlock()

	var u domain.User
	err := storage.GetJSON(ctx, s.kv, storage.UserKey, &u)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.log.Debug("session: no persisted user")
		s.set(ctx, nil)
	case err != nil:
		s.log.Warn("session: hydrate failed, continuing anonymous: %v", err)
		s.set(ctx, nil)
	case u.ID == "":
		s.log.Warn("session: persisted user has no id, continuing anonymous")
		s.set(ctx, nil)
	default:
		s.log.Info("session: restored %s", u.Email)
		s.set(ctx, &u)
	}
}

// SignIn authenticates the credentials and persists the resulting user.
func (s *Store) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	email, password, err := normalize(email, password)
	if err != nil {
		return nil, err
	}
	u, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("session: sign in: %w", err)
	}
	return s.establish(ctx, u)
}

// SignUp registers the credentials and persists the resulting user.
func (s *Store) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	email, password, err := normalize(email, password)
	if err != nil {
		return nil, err
	}
	u, err := s.auth.Register(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("session: sign up: %w", err)
	}
	return s.establish(ctx, u)
}

// SignOut forgets the persisted user. On failure the session is unchanged.
func (s *Store) SignOut(ctx context.Context) error {
	s.transition.Lock()
	defer s.transition.Unlock()

	if err := s.kv.Delete(ctx, storage.UserKey); err != nil {
		s.log.Error("session: sign out: %v", err)
		return fmt.Errorf("session: sign out: %w", err)
	}
	s.log.Info("session: signed out")
	s.set(ctx, nil)
	return nil
}

func (s *Store) establish(ctx context.Context, u *domain.User) (*domain.User, error) {
	s.transition.Lock()
	defer s.transition.Unlock()

	if err := storage.PutJSON(ctx, s.kv, storage.UserKey, u); err != nil {
		s.log.Error("session: persist user: %v", err)
		return nil, fmt.Errorf("session: persist user: %w", err)
	}
	s.log.Info("session: signed in as %s", u.Email)
	s.set(ctx, u)
	return clone(u), nil
}

// set swaps the active user and notifies listeners outside mu. Callers
// hold transition.
func (s *Store) set(ctx context.Context, u *domain.User) {
	s.mu.Lock()
	s.user = clone(u)
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(ctx, clone(u))
	}
}

func normalize(email, password string) (string, string, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return "", "", domain.ErrInvalidCredentials
	}
	return email, password, nil
}

func clone(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
