// Package engine is the facade every view talks to. It wires the session,
// user state and preference stores together, applies login gating, and
// builds the home feed from the recipe sources.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/preference"
	"github.com/hammamikhairi/recipebox/internal/session"
	"github.com/hammamikhairi/recipebox/internal/userstate"
)

// DefaultFeedSize is how many random recipes the home feed asks for.
const DefaultFeedSize = 8

// Option configures the engine.
type Option func(*Engine)

// WithFeedSize sets the number of random recipes fetched for the home feed.
func WithFeedSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.feedSize = n
		}
	}
}

// Engine holds the process-wide stores. It depends only on interfaces for
// recipe lookups and is fully testable with in-memory sources.
type Engine struct {
	recipes  domain.RecipeSource
	featured domain.RecipeSource
	session  *session.Store
	user     *userstate.Store
	prefs    *preference.Store
	log      *logger.Logger
	feedSize int
}

// New creates an engine. featured is the fallback shown when the home feed
// comes back empty; it may be nil.
func New(
	recipes, featured domain.RecipeSource,
	sess *session.Store,
	user *userstate.Store,
	prefs *preference.Store,
	log *logger.Logger,
	opts ...Option,
) *Engine {
	e := &Engine{
		recipes:  recipes,
		featured: featured,
		session:  sess,
		user:     user,
		prefs:    prefs,
		log:      log,
		feedSize: DefaultFeedSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start subscribes the per-user stores to session changes and restores the
// persisted session, which loads the user's data.
func (e *Engine) Start(ctx context.Context) {
	e.session.Subscribe(e.user.Switch)
	e.session.Subscribe(e.prefs.Switch)
	e.session.Hydrate(ctx)
}

// ── Session ──────────────────────────────────────────────────────

// SignIn signs in with the configured authenticator.
func (e *Engine) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	return e.session.SignIn(ctx, email, password)
}

// SignUp registers and signs in.
func (e *Engine) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	return e.session.SignUp(ctx, email, password)
}

// SignOut ends the session and clears the per-user stores.
func (e *Engine) SignOut(ctx context.Context) error {
	return e.session.SignOut(ctx)
}

// CurrentUser returns the signed-in user or nil.
func (e *Engine) CurrentUser() *domain.User {
	return e.session.Current()
}

func (e *Engine) requireLogin() error {
	if e.session.Current() == nil {
		return domain.ErrLoginRequired
	}
	return nil
}

// ── Browse ───────────────────────────────────────────────────────

// Search returns catalog matches for query. A failed search is empty.
func (e *Engine) Search(ctx context.Context, query string) ([]domain.Recipe, error) {
	return e.recipes.Search(ctx, strings.TrimSpace(query))
}

// Random returns one arbitrary recipe.
func (e *Engine) Random(ctx context.Context) (*domain.Recipe, error) {
	return e.recipes.Random(ctx)
}

// Recipe returns the recipe with id, consulting the featured catalog when
// the main source has nothing.
func (e *Engine) Recipe(ctx context.Context, id string) (*domain.Recipe, error) {
	id = strings.TrimSpace(id)
	r, err := e.recipes.Get(ctx, id)
	if err == nil {
		return r, nil
	}
	if e.featured != nil && errors.Is(err, domain.ErrNotFound) {
		if fr, ferr := e.featured.Get(ctx, id); ferr == nil {
			return fr, nil
		}
	}
	return nil, fmt.Errorf("engine: recipe %s: %w", id, err)
}

// Home builds the home feed. A non-blank query is a search. A blank query
// fetches random recipes in parallel, drops failures and duplicates, and
// falls back to the featured catalog when nothing came back.
func (e *Engine) Home(ctx context.Context, query string) ([]domain.Recipe, error) {
	if q := strings.TrimSpace(query); q != "" {
		return e.Search(ctx, q)
	}

	results := make([]*domain.Recipe, e.feedSize)
	g, gctx := errgroup.WithContext(ctx)
	for i := range results {
		g.Go(func() error {
			r, err := e.recipes.Random(gctx)
			if err != nil {
				e.log.Debug("engine: feed slot %d empty: %v", i, err)
				return nil
			}
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()

	feed := make([]domain.Recipe, 0, len(results))
	seen := make(map[string]bool, len(results))
	for _, r := range results {
		if r == nil || seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		feed = append(feed, *r)
	}

	if len(feed) == 0 && e.featured != nil {
		e.log.Warn("engine: home feed empty, showing featured recipes")
		return e.featured.Search(ctx, "")
	}
	e.log.Debug("engine: home feed has %d recipes", len(feed))
	return feed, nil
}

// ── Favorites ────────────────────────────────────────────────────

// Favorites returns the signed-in user's favorites.
func (e *Engine) Favorites() ([]domain.Recipe, error) {
	if err := e.requireLogin(); err != nil {
		return nil, err
	}
	return e.user.Favorites(), nil
}

// IsFavorite reports whether id is a favorite. Always false when anonymous.
func (e *Engine) IsFavorite(id string) bool {
	return e.user.IsFavorite(id)
}

// AddFavorite looks up the recipe and adds it to the favorites.
func (e *Engine) AddFavorite(ctx context.Context, id string) (*domain.Recipe, error) {
	if err := e.requireLogin(); err != nil {
		return nil, err
	}
	r, err := e.Recipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := e.user.AddFavorite(ctx, *r); err != nil {
		return nil, err
	}
	return r, nil
}

// RemoveFavorite removes id from the favorites.
func (e *Engine) RemoveFavorite(ctx context.Context, id string) error {
	if err := e.requireLogin(); err != nil {
		return err
	}
	return e.user.RemoveFavorite(ctx, strings.TrimSpace(id))
}

// ToggleFavorite adds id when it is not a favorite and removes it otherwise.
// It returns whether the recipe is a favorite afterwards.
func (e *Engine) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	if err := e.requireLogin(); err != nil {
		return false, err
	}
	id = strings.TrimSpace(id)
	if e.user.IsFavorite(id) {
		if err := e.user.RemoveFavorite(ctx, id); err != nil {
			return true, err
		}
		return e.user.IsFavorite(id), nil
	}
	if _, err := e.AddFavorite(ctx, id); err != nil {
		return false, err
	}
	return e.user.IsFavorite(id), nil
}

// ── Ingredients ──────────────────────────────────────────────────

// Ingredients returns the signed-in user's ingredient list.
func (e *Engine) Ingredients() ([]domain.Ingredient, error) {
	if err := e.requireLogin(); err != nil {
		return nil, err
	}
	return e.user.Ingredients(), nil
}

// AddIngredient trims the fields, rejects a blank name, and appends the
// ingredient under a fresh ID.
func (e *Engine) AddIngredient(ctx context.Context, name, quantity, unit string) (*domain.Ingredient, error) {
	if err := e.requireLogin(); err != nil {
		return nil, err
	}
	ing := domain.Ingredient{
		ID:       newIngredientID(),
		Name:     strings.TrimSpace(name),
		Quantity: strings.TrimSpace(quantity),
		Unit:     strings.TrimSpace(unit),
	}
	if ing.Name == "" {
		return nil, domain.ErrInvalidIngredient
	}
	if err := e.user.AddIngredient(ctx, ing); err != nil {
		return nil, err
	}
	e.log.Debug("engine: added ingredient %s (%s)", ing.Name, ing.ID)
	return &ing, nil
}

// RemoveIngredient removes the ingredient with id.
func (e *Engine) RemoveIngredient(ctx context.Context, id string) error {
	if err := e.requireLogin(); err != nil {
		return err
	}
	return e.user.RemoveIngredient(ctx, strings.TrimSpace(id))
}

// ── Theme ────────────────────────────────────────────────────────

// DarkMode reports the active user's dark-mode flag.
func (e *Engine) DarkMode() bool {
	return e.prefs.DarkMode()
}

// ToggleTheme flips dark mode and returns the new value.
func (e *Engine) ToggleTheme(ctx context.Context) (bool, error) {
	return e.prefs.Toggle(ctx)
}
