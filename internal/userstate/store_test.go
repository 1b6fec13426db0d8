package userstate

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/storage"
)

var (
	u1 = &domain.User{ID: "u1", Email: "one@example.com"}
	u2 = &domain.User{ID: "u2", Email: "two@example.com"}

	penne = domain.Recipe{
		ID:          "52771",
		Name:        "Spicy Arrabiata Penne",
		Tags:        []string{"Pasta"},
		Ingredients: []domain.RecipeIngredient{{Name: "penne rigate", Measure: "1 pound"}},
	}
	corba = domain.Recipe{ID: "52977", Name: "Corba"}
)

// brokenKV fails every write.
type brokenKV struct{ *storage.MemoryStore }

func (brokenKV) Set(context.Context, string, []byte) error { return errors.New("disk full") }

func newStore(t *testing.T) (*Store, *storage.MemoryStore) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	kv := storage.NewMemoryStore(log)
	return NewStore(kv, log), kv
}

func TestFavoriteMembership(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	s.Switch(ctx, u1)

	require.NoError(t, s.AddFavorite(ctx, penne))
	assert.True(t, s.IsFavorite(penne.ID))

	require.NoError(t, s.RemoveFavorite(ctx, penne.ID))
	assert.False(t, s.IsFavorite(penne.ID))
	assert.Empty(t, s.Favorites())
}

func TestAddFavoriteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)
	s.Switch(ctx, u1)

	require.NoError(t, s.AddFavorite(ctx, penne))
	renamed := penne
	renamed.Name = "Another name"
	require.NoError(t, s.AddFavorite(ctx, renamed))

	favs := s.Favorites()
	require.Len(t, favs, 1)
	assert.Equal(t, penne.Name, favs[0].Name)

	var persisted []domain.Recipe
	require.NoError(t, storage.GetJSON(ctx, kv, storage.FavoritesKey(u1.ID), &persisted))
	assert.Len(t, persisted, 1)
}

func TestFavoritesAreCopies(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	s.Switch(ctx, u1)

	r := penne
	r.Tags = []string{"Pasta"}
	require.NoError(t, s.AddFavorite(ctx, r))
	r.Tags[0] = "mutated"

	favs := s.Favorites()
	favs[0].Name = "mutated"
	assert.Equal(t, "Pasta", s.Favorites()[0].Tags[0])
	assert.Equal(t, penne.Name, s.Favorites()[0].Name)
}

func TestSwitchRestoresPerUserState(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	s.Switch(ctx, u1)
	require.NoError(t, s.AddFavorite(ctx, penne))
	require.NoError(t, s.AddIngredient(ctx, domain.Ingredient{ID: "i1", Name: "Salt", Quantity: "1", Unit: "tsp"}))
	wantFavs, wantIngs := s.Favorites(), s.Ingredients()

	s.Switch(ctx, u2)
	assert.Empty(t, s.Favorites())
	assert.Empty(t, s.Ingredients())
	require.NoError(t, s.AddFavorite(ctx, corba))

	s.Switch(ctx, u1)
	if diff := cmp.Diff(wantFavs, s.Favorites()); diff != "" {
		t.Errorf("favorites mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantIngs, s.Ingredients()); diff != "" {
		t.Errorf("ingredients mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, s.IsFavorite(corba.ID))
}

func TestSwitchToNilClears(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	s.Switch(ctx, u1)
	require.NoError(t, s.AddFavorite(ctx, penne))

	s.Switch(ctx, nil)
	assert.False(t, s.IsFavorite(penne.ID))
	assert.Empty(t, s.Favorites())
	assert.Empty(t, s.Ingredients())
}

func TestSwitchIgnoresCorruptData(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)
	require.NoError(t, kv.Set(ctx, storage.FavoritesKey(u1.ID), []byte("not json")))
	require.NoError(t, storage.PutJSON(ctx, kv, storage.IngredientsKey(u1.ID), []domain.Ingredient{{ID: "i1", Name: "Salt"}}))

	s.Switch(ctx, u1)
	assert.Empty(t, s.Favorites())
	assert.Len(t, s.Ingredients(), 1)
}

func TestAnonymousMutationsRequireLogin(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)

	assert.ErrorIs(t, s.AddFavorite(ctx, penne), domain.ErrLoginRequired)
	assert.ErrorIs(t, s.RemoveFavorite(ctx, penne.ID), domain.ErrLoginRequired)
	assert.ErrorIs(t, s.AddIngredient(ctx, domain.Ingredient{ID: "i1", Name: "Salt"}), domain.ErrLoginRequired)
	assert.ErrorIs(t, s.RemoveIngredient(ctx, "i1"), domain.ErrLoginRequired)
	assert.False(t, s.IsFavorite(penne.ID))
	assert.Equal(t, 0, kv.Len())
}

func TestIngredientLifecycle(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)
	s.Switch(ctx, u1)

	salt := domain.Ingredient{ID: "i1", Name: "Salt", Quantity: "1", Unit: "tsp"}
	require.NoError(t, s.AddIngredient(ctx, salt))

	ings := s.Ingredients()
	require.Len(t, ings, 1)
	assert.Equal(t, "Salt", ings[0].Name)

	require.NoError(t, s.RemoveIngredient(ctx, salt.ID))
	assert.Empty(t, s.Ingredients())

	var persisted []domain.Ingredient
	require.NoError(t, storage.GetJSON(ctx, kv, storage.IngredientsKey(u1.ID), &persisted))
	assert.Empty(t, persisted)
}

func TestPersistFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	log := logger.New(logger.LevelOff, nil)
	s := NewStore(brokenKV{storage.NewMemoryStore(log)}, log)
	s.Switch(ctx, u1)

	require.NoError(t, s.AddFavorite(ctx, penne))
	assert.False(t, s.IsFavorite(penne.ID))

	require.NoError(t, s.AddIngredient(ctx, domain.Ingredient{ID: "i1", Name: "Salt"}))
	assert.Empty(t, s.Ingredients())
}

func TestConcurrentAddsKeepEveryFavorite(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)
	s.Switch(ctx, u1)

	const n = 50
	var wg sync.WaitGroup
	want := make([]string, 0, n)
	for i := range n {
		id := string(rune('A'+i%26)) + string(rune('a'+i/26))
		want = append(want, id)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.AddFavorite(ctx, domain.Recipe{ID: id})
		}()
	}
	wg.Wait()

	var persisted []domain.Recipe
	require.NoError(t, storage.GetJSON(ctx, kv, storage.FavoritesKey(u1.ID), &persisted))
	got := make([]string, 0, len(persisted))
	for _, r := range persisted {
		got = append(got, r.ID)
	}
	sortStrings := cmpopts.SortSlices(func(a, b string) bool { return a < b })
	if diff := cmp.Diff(want, got, sortStrings); diff != "" {
		t.Errorf("persisted favorites mismatch (-want +got):\n%s", diff)
	}
}
