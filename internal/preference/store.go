// Package preference holds the per-user dark-mode flag.
package preference

import (
	"context"
	"errors"
	"sync"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/storage"
)

// Store tracks the dark-mode flag of the active user. Safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	user *domain.User
	dark bool
	kv   domain.KeyValueStore
	log  *logger.Logger
}

// NewStore creates a store with no active user and dark mode off.
func NewStore(kv domain.KeyValueStore, log *logger.Logger) *Store {
	return &Store{kv: kv, log: log}
}

// DarkMode reports the current flag.
func (s *Store) DarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dark
}

// Toggle flips and persists the flag, returning the new value. Anonymous
// sessions get domain.ErrLoginRequired. A failed write leaves the flag as it
// was and is only logged.
func (s *Store) Toggle(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return s.dark, domain.ErrLoginRequired
	}
	next := !s.dark
	if err := storage.PutJSON(ctx, s.kv, storage.ThemeKey(s.user.ID), next); err != nil {
		s.log.Error("preference: %v", err)
		return s.dark, nil
	}
	s.dark = next
	s.log.Debug("preference: dark mode %v for %s", next, s.user.ID)
	return next, nil
}

// Switch loads the flag of user, or resets it when user is nil.
func (s *Store) Switch(ctx context.Context, user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dark = false
	if user == nil {
		s.user = nil
		return
	}
	u := *user
	s.user = &u

	var dark bool
	err := storage.GetJSON(ctx, s.kv, storage.ThemeKey(u.ID), &dark)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		s.log.Warn("preference: load theme for %s: %v", u.ID, err)
	default:
		s.dark = dark
	}
}
