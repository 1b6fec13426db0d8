package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/storage"
)

var errDisk = errors.New("disk full")

// failingKV wraps a MemoryStore and fails writes when failSet/failDelete are set.
type failingKV struct {
	*storage.MemoryStore
	failSet    bool
	failDelete bool
}

func (f *failingKV) Set(ctx context.Context, key string, value []byte) error {
	if f.failSet {
		return errDisk
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func (f *failingKV) Delete(ctx context.Context, key string) error {
	if f.failDelete {
		return errDisk
	}
	return f.MemoryStore.Delete(ctx, key)
}

func newKV() *failingKV {
	return &failingKV{MemoryStore: storage.NewMemoryStore(logger.New(logger.LevelOff, nil))}
}

func newStore(kv domain.KeyValueStore) *Store {
	return NewStore(kv, StubAuthenticator{}, logger.New(logger.LevelOff, nil))
}

func TestSignInSignOut(t *testing.T) {
	ctx := context.Background()
	kv := newKV()
	s := newStore(kv)

	var seen []*domain.User
	s.Subscribe(func(ctx context.Context, u *domain.User) { seen = append(seen, u) })

	assert.Equal(t, domain.SessionAnonymous, s.State())

	u, err := s.SignIn(ctx, " user@example.com ", "pw123")
	require.NoError(t, err)
	assert.Equal(t, &domain.User{ID: StubUserID, Email: "user@example.com"}, u)
	assert.Equal(t, domain.SessionAuthenticated, s.State())
	assert.Equal(t, "user@example.com", s.Current().Email)

	var persisted domain.User
	require.NoError(t, storage.GetJSON(ctx, kv, storage.UserKey, &persisted))
	assert.Equal(t, *u, persisted)

	require.NoError(t, s.SignOut(ctx))
	assert.Nil(t, s.Current())
	_, err = kv.Get(ctx, storage.UserKey)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.Len(t, seen, 2)
	assert.Equal(t, "user@example.com", seen[0].Email)
	assert.Nil(t, seen[1])
}

func TestSignUpUsesRegister(t *testing.T) {
	s := newStore(newKV())
	u, err := s.SignUp(context.Background(), "new@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", u.Email)
	assert.Equal(t, domain.SessionAuthenticated, s.State())
}

func TestSignInRejectsBlankCredentials(t *testing.T) {
	tests := []struct {
		name, email, password string
	}{
		{"empty email", "", "pw"},
		{"blank email", "   ", "pw"},
		{"empty password", "user@example.com", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(newKV())
			_, err := s.SignIn(context.Background(), tt.email, tt.password)
			assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
			assert.Nil(t, s.Current())
		})
	}
}

func TestSignInPersistFailure(t *testing.T) {
	kv := newKV()
	kv.failSet = true
	s := newStore(kv)

	notified := false
	s.Subscribe(func(context.Context, *domain.User) { notified = true })

	_, err := s.SignIn(context.Background(), "user@example.com", "pw123")
	assert.ErrorIs(t, err, errDisk)
	assert.Nil(t, s.Current())
	assert.False(t, notified)
}

func TestSignOutFailureKeepsSession(t *testing.T) {
	ctx := context.Background()
	kv := newKV()
	s := newStore(kv)
	_, err := s.SignIn(ctx, "user@example.com", "pw123")
	require.NoError(t, err)

	kv.failDelete = true
	assert.ErrorIs(t, s.SignOut(ctx), errDisk)
	assert.NotNil(t, s.Current())
}

func TestHydrate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  *domain.User
	}{
		{"missing", "", nil},
		{"valid", `{"id":"1","email":"user@example.com"}`, &domain.User{ID: "1", Email: "user@example.com"}},
		{"malformed", `{"id":`, nil},
		{"no id", `{"email":"user@example.com"}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := newKV()
			if tt.value != "" {
				require.NoError(t, kv.Set(ctx, storage.UserKey, []byte(tt.value)))
			}
			s := newStore(kv)

			calls := 0
			var got *domain.User
			s.Subscribe(func(_ context.Context, u *domain.User) {
				calls++
				got = u
			})

			s.Hydrate(ctx)
			assert.Equal(t, 1, calls, "hydrate always notifies")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, s.Current())
		})
	}
}

func TestConcurrentTransitionsStayOrdered(t *testing.T) {
	ctx := context.Background()
	kv := newKV()
	s := newStore(kv)

	var mu sync.Mutex
	var last *domain.User
	s.Subscribe(func(ctx context.Context, u *domain.User) {
		mu.Lock()
		last = u
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := s.SignIn(ctx, fmt.Sprintf("user%d@example.com", i), "pw123")
			assert.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.SignOut(ctx))
		}()
	}
	wg.Wait()

	var persisted domain.User
	err := storage.GetJSON(ctx, kv, storage.UserKey, &persisted)
	current := s.Current()
	if current == nil {
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Nil(t, last)
		return
	}
	require.NoError(t, err)
	assert.Equal(t, *current, persisted)
	assert.Equal(t, current, last)
}

func TestCurrentReturnsCopy(t *testing.T) {
	s := newStore(newKV())
	_, err := s.SignIn(context.Background(), "user@example.com", "pw123")
	require.NoError(t, err)

	s.Current().Email = "changed"
	assert.Equal(t, "user@example.com", s.Current().Email)
}

func TestLocalAuthenticator(t *testing.T) {
	ctx := context.Background()
	log := logger.New(logger.LevelOff, nil)
	kv := storage.NewMemoryStore(log)
	auth := NewLocalAuthenticator(kv, log, WithCost(bcrypt.MinCost))
	s := NewStore(kv, auth, log)

	_, err := s.SignIn(ctx, "cook@example.com", "pw123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "unknown account")

	u, err := s.SignUp(ctx, "cook@example.com", "pw123")
	require.NoError(t, err)
	assert.NotEqual(t, StubUserID, u.ID)
	assert.NotEmpty(t, u.ID)

	_, err = s.SignUp(ctx, "COOK@example.com", "other")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	_, err = s.SignIn(ctx, "cook@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	again, err := s.SignIn(ctx, "Cook@Example.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)

	other, err := s.SignUp(ctx, "second@example.com", "pw123")
	require.NoError(t, err)
	assert.NotEqual(t, u.ID, other.ID)
}
