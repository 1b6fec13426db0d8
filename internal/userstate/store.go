// Package userstate holds the signed-in user's favorite recipes and
// personal ingredient list, persisted per user.
package userstate

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/storage"
)

// Store keeps both collections of the active user in memory and rewrites
// the whole collection on every mutation. Safe for concurrent use; the lock
// is held across the write so concurrent mutations cannot lose updates.
type Store struct {
	mu          sync.Mutex
	user        *domain.User
	favorites   []domain.Recipe
	ingredients []domain.Ingredient
	kv          domain.KeyValueStore
	log         *logger.Logger
}

// NewStore creates a store with no active user.
func NewStore(kv domain.KeyValueStore, log *logger.Logger) *Store {
	return &Store{kv: kv, log: log}
}

// Switch loads the collections of user, or clears them when user is nil.
// It has the session.Listener signature.
func (s *Store) Switch(ctx context.Context, user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user == nil {
		s.user = nil
		s.favorites = nil
		s.ingredients = nil
		s.log.Debug("userstate: cleared")
		return
	}

	u := *user
	s.user = &u
	s.favorites = nil
	s.ingredients = nil
	load(ctx, s, storage.FavoritesKey(u.ID), &s.favorites)
	load(ctx, s, storage.IngredientsKey(u.ID), &s.ingredients)
	s.log.Debug("userstate: loaded %d favorites, %d ingredients for %s",
		len(s.favorites), len(s.ingredients), u.ID)
}

func load[T any](ctx context.Context, s *Store, key string, dst *[]T) {
	var v []T
	err := storage.GetJSON(ctx, s.kv, key, &v)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		v = nil
	case err != nil:
		s.log.Warn("userstate: load %s: %v", key, err)
		v = nil
	}
	*dst = v
}

// ── Favorites ────────────────────────────────────────────────────

// Favorites returns a copy of the favorites list in insertion order.
func (s *Store) Favorites() []domain.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRecipes(s.favorites)
}

// IsFavorite reports whether a recipe with id is in the favorites list.
func (s *Store) IsFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.favorites, id) >= 0
}

// AddFavorite appends r unless a favorite with the same ID exists.
func (s *Store) AddFavorite(ctx context.Context, r domain.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return domain.ErrLoginRequired
	}
	if indexOf(s.favorites, r.ID) >= 0 {
		return nil
	}
	next := append(cloneRecipes(s.favorites), cloneRecipe(r))
	if s.persist(ctx, storage.FavoritesKey(s.user.ID), next) {
		s.favorites = next
	}
	return nil
}

// RemoveFavorite removes every favorite with id. The list is rewritten even
// when nothing matched.
func (s *Store) RemoveFavorite(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return domain.ErrLoginRequired
	}
	next := slices.DeleteFunc(cloneRecipes(s.favorites), func(r domain.Recipe) bool { return r.ID == id })
	if s.persist(ctx, storage.FavoritesKey(s.user.ID), next) {
		s.favorites = next
	}
	return nil
}

// ── Ingredients ──────────────────────────────────────────────────

// Ingredients returns a copy of the ingredient list in insertion order.
func (s *Store) Ingredients() []domain.Ingredient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.ingredients)
}

// AddIngredient appends ing. The caller validates the name.
func (s *Store) AddIngredient(ctx context.Context, ing domain.Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return domain.ErrLoginRequired
	}
	next := append(slices.Clone(s.ingredients), ing)
	if s.persist(ctx, storage.IngredientsKey(s.user.ID), next) {
		s.ingredients = next
	}
	return nil
}

// RemoveIngredient removes the ingredient with id.
func (s *Store) RemoveIngredient(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return domain.ErrLoginRequired
	}
	next := slices.DeleteFunc(slices.Clone(s.ingredients), func(i domain.Ingredient) bool { return i.ID == id })
	if s.persist(ctx, storage.IngredientsKey(s.user.ID), next) {
		s.ingredients = next
	}
	return nil
}

// persist writes v under key. Failures are logged and reported as false so
// the caller keeps its previous state.
func (s *Store) persist(ctx context.Context, key string, v any) bool {
	if err := storage.PutJSON(ctx, s.kv, key, v); err != nil {
		s.log.Error("userstate: %v", err)
		return false
	}
	return true
}

func indexOf(recipes []domain.Recipe, id string) int {
	return slices.IndexFunc(recipes, func(r domain.Recipe) bool { return r.ID == id })
}

func cloneRecipe(r domain.Recipe) domain.Recipe {
	r.Tags = slices.Clone(r.Tags)
	r.Ingredients = slices.Clone(r.Ingredients)
	return r
}

func cloneRecipes(in []domain.Recipe) []domain.Recipe {
	if in == nil {
		return nil
	}
	out := make([]domain.Recipe, len(in))
	for i, r := range in {
		out[i] = cloneRecipe(r)
	}
	return out
}
