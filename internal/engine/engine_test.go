package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/preference"
	"github.com/hammamikhairi/recipebox/internal/recipe"
	"github.com/hammamikhairi/recipebox/internal/session"
	"github.com/hammamikhairi/recipebox/internal/storage"
	"github.com/hammamikhairi/recipebox/internal/userstate"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// flakySource hands out recipes from a fixed list in turn and fails every
// call whose sequence number is listed in fail.
type flakySource struct {
	recipes []domain.Recipe
	fail    func(n int64) bool
	calls   atomic.Int64
}

func (f *flakySource) Search(ctx context.Context, q string) ([]domain.Recipe, error) {
	return []domain.Recipe{}, nil
}

func (f *flakySource) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	for _, r := range f.recipes {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *flakySource) Random(ctx context.Context) (*domain.Recipe, error) {
	n := f.calls.Add(1)
	if f.fail != nil && f.fail(n) {
		return nil, domain.ErrNotFound
	}
	if len(f.recipes) == 0 {
		return nil, domain.ErrNotFound
	}
	r := f.recipes[int(n-1)%len(f.recipes)]
	return &r, nil
}

type fixture struct {
	eng *Engine
	kv  *storage.MemoryStore
	ctx context.Context
}

func setupEngine(t *testing.T, remote domain.RecipeSource, opts ...Option) fixture {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	kv := storage.NewMemoryStore(log)
	sess := session.NewStore(kv, session.StubAuthenticator{}, log)
	eng := New(
		remote,
		recipe.NewMemorySource(log),
		sess,
		userstate.NewStore(kv, log),
		preference.NewStore(kv, log),
		log,
		opts...,
	)
	ctx := context.Background()
	eng.Start(ctx)
	return fixture{eng: eng, kv: kv, ctx: ctx}
}

func catalog() *recipe.MemorySource {
	return recipe.NewMemorySource(logger.New(logger.LevelOff, nil))
}

func TestHomeSearchesWithQuery(t *testing.T) {
	f := setupEngine(t, catalog())

	got, err := f.eng.Home(f.ctx, "  chicken ")
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "52772", got[0].ID)

	none, err := f.eng.Home(f.ctx, "xyz-no-such-query")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestHomeFeedDropsFailuresAndDuplicates(t *testing.T) {
	src := &flakySource{
		recipes: []domain.Recipe{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		fail:    func(n int64) bool { return n%2 == 0 },
	}
	f := setupEngine(t, src, WithFeedSize(6))

	feed, err := f.eng.Home(f.ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(6), src.calls.Load())

	seen := map[string]bool{}
	for _, r := range feed {
		assert.False(t, seen[r.ID], "duplicate %s in feed", r.ID)
		seen[r.ID] = true
	}
	assert.NotEmpty(t, feed)
	assert.LessOrEqual(t, len(feed), 3)
}

func TestHomeFeedFallsBackToFeatured(t *testing.T) {
	src := &flakySource{fail: func(int64) bool { return true }}
	f := setupEngine(t, src)

	feed, err := f.eng.Home(f.ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(DefaultFeedSize), src.calls.Load())
	assert.Len(t, feed, len(catalog().List(f.ctx)))
}

func TestRecipeFallsBackToFeatured(t *testing.T) {
	f := setupEngine(t, &flakySource{})

	r, err := f.eng.Recipe(f.ctx, "52977")
	require.NoError(t, err)
	assert.Equal(t, "Corba", r.Name)

	_, err = f.eng.Recipe(f.ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPersonalDataRequiresLogin(t *testing.T) {
	f := setupEngine(t, catalog())

	_, err := f.eng.Favorites()
	assert.ErrorIs(t, err, domain.ErrLoginRequired)
	_, err = f.eng.AddFavorite(f.ctx, "52771")
	assert.ErrorIs(t, err, domain.ErrLoginRequired)
	assert.ErrorIs(t, f.eng.RemoveFavorite(f.ctx, "52771"), domain.ErrLoginRequired)
	_, err = f.eng.ToggleFavorite(f.ctx, "52771")
	assert.ErrorIs(t, err, domain.ErrLoginRequired)
	_, err = f.eng.Ingredients()
	assert.ErrorIs(t, err, domain.ErrLoginRequired)
	_, err = f.eng.AddIngredient(f.ctx, "Salt", "1", "tsp")
	assert.ErrorIs(t, err, domain.ErrLoginRequired)
	assert.ErrorIs(t, f.eng.RemoveIngredient(f.ctx, "x"), domain.ErrLoginRequired)
	_, err = f.eng.ToggleTheme(f.ctx)
	assert.ErrorIs(t, err, domain.ErrLoginRequired)

	assert.Equal(t, 0, f.kv.Len())
}

func TestSignInSignOutScenario(t *testing.T) {
	f := setupEngine(t, catalog())

	u, err := f.eng.SignIn(f.ctx, "user@example.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", u.Email)
	assert.Equal(t, "user@example.com", f.eng.CurrentUser().Email)

	_, err = f.eng.AddFavorite(f.ctx, "52771")
	require.NoError(t, err)
	assert.True(t, f.eng.IsFavorite("52771"))

	require.NoError(t, f.eng.SignOut(f.ctx))
	assert.Nil(t, f.eng.CurrentUser())
	assert.False(t, f.eng.IsFavorite("52771"))

	_, err = f.eng.SignIn(f.ctx, "user@example.com", "pw123")
	require.NoError(t, err)
	assert.True(t, f.eng.IsFavorite("52771"), "favorites restored for the same user")
}

func TestStartHydratesStores(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	kv := storage.NewMemoryStore(log)
	ctx := context.Background()
	require.NoError(t, storage.PutJSON(ctx, kv, storage.UserKey, domain.User{ID: "1", Email: "user@example.com"}))
	require.NoError(t, storage.PutJSON(ctx, kv, storage.FavoritesKey("1"), []domain.Recipe{{ID: "52771"}}))
	require.NoError(t, storage.PutJSON(ctx, kv, storage.ThemeKey("1"), true))

	eng := New(catalog(), nil,
		session.NewStore(kv, session.StubAuthenticator{}, log),
		userstate.NewStore(kv, log),
		preference.NewStore(kv, log),
		log)
	eng.Start(ctx)

	assert.Equal(t, "user@example.com", eng.CurrentUser().Email)
	assert.True(t, eng.IsFavorite("52771"))
	assert.True(t, eng.DarkMode())
}

func TestToggleFavorite(t *testing.T) {
	f := setupEngine(t, catalog())
	_, err := f.eng.SignIn(f.ctx, "user@example.com", "pw123")
	require.NoError(t, err)

	on, err := f.eng.ToggleFavorite(f.ctx, "52959")
	require.NoError(t, err)
	assert.True(t, on)

	favs, err := f.eng.Favorites()
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "Baked salmon with fennel & tomatoes", favs[0].Name)

	off, err := f.eng.ToggleFavorite(f.ctx, "52959")
	require.NoError(t, err)
	assert.False(t, off)

	_, err = f.eng.ToggleFavorite(f.ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddIngredient(t *testing.T) {
	f := setupEngine(t, catalog())
	_, err := f.eng.SignIn(f.ctx, "user@example.com", "pw123")
	require.NoError(t, err)

	tests := []struct {
		name, in, qty, unit string
		wantErr             error
	}{
		{"blank name", "   ", "1", "tsp", domain.ErrInvalidIngredient},
		{"empty name", "", "", "", domain.ErrInvalidIngredient},
		{"trimmed", "  Salt ", " 1 ", " tsp ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ing, err := f.eng.AddIngredient(f.ctx, tt.in, tt.qty, tt.unit)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Salt", ing.Name)
			assert.Equal(t, "1", ing.Quantity)
			assert.Equal(t, "tsp", ing.Unit)
			assert.NotEmpty(t, ing.ID)
		})
	}

	ings, err := f.eng.Ingredients()
	require.NoError(t, err)
	require.Len(t, ings, 1)
	assert.Equal(t, "Salt", ings[0].Name)

	require.NoError(t, f.eng.RemoveIngredient(f.ctx, ings[0].ID))
	ings, err = f.eng.Ingredients()
	require.NoError(t, err)
	assert.Empty(t, ings)
}

func TestIngredientIDsAreUnique(t *testing.T) {
	f := setupEngine(t, catalog())
	_, err := f.eng.SignIn(f.ctx, "user@example.com", "pw123")
	require.NoError(t, err)

	a, err := f.eng.AddIngredient(f.ctx, "Salt", "", "")
	require.NoError(t, err)
	b, err := f.eng.AddIngredient(f.ctx, "Salt", "", "")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestToggleTheme(t *testing.T) {
	f := setupEngine(t, catalog())
	_, err := f.eng.SignIn(f.ctx, "user@example.com", "pw123")
	require.NoError(t, err)

	on, err := f.eng.ToggleTheme(f.ctx)
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, f.eng.DarkMode())

	require.NoError(t, f.eng.SignOut(f.ctx))
	assert.False(t, f.eng.DarkMode())
}
