package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/storage"
)

// StubUserID is the identifier every stub session receives.
const StubUserID = "1"

// Compile-time interface checks.
var (
	_ domain.Authenticator = StubAuthenticator{}
	_ domain.Authenticator = (*LocalAuthenticator)(nil)
)

// StubAuthenticator accepts any credentials and returns a user with the
// fixed StubUserID. Not for production: all accounts share one data space.
type StubAuthenticator struct{}

// Authenticate returns the stub user for email.
func (StubAuthenticator) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	return &domain.User{ID: StubUserID, Email: email}, nil
}

// Register returns the stub user for email.
func (StubAuthenticator) Register(ctx context.Context, email, password string) (*domain.User, error) {
	return &domain.User{ID: StubUserID, Email: email}, nil
}

// credential is the persisted record behind a local account.
type credential struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Hash   []byte `json:"hash"`
}

// LocalAuthenticator keeps bcrypt-hashed credentials in the key-value store.
// Each account gets its own UUID, so personal data is separated per email.
type LocalAuthenticator struct {
	kv   domain.KeyValueStore
	cost int
	log  *logger.Logger
}

// LocalOption configures the LocalAuthenticator.
type LocalOption func(*LocalAuthenticator)

// WithCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithCost(cost int) LocalOption {
	return func(a *LocalAuthenticator) { a.cost = cost }
}

// NewLocalAuthenticator creates an authenticator backed by kv.
func NewLocalAuthenticator(kv domain.KeyValueStore, log *logger.Logger, opts ...LocalOption) *LocalAuthenticator {
	a := &LocalAuthenticator{kv: kv, cost: bcrypt.DefaultCost, log: log}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Register creates an account. An existing email yields domain.ErrAlreadyExists.
func (a *LocalAuthenticator) Register(ctx context.Context, email, password string) (*domain.User, error) {
	key := storage.CredentialsKey(email)
	var existing credential
	err := storage.GetJSON(ctx, a.kv, key, &existing)
	switch {
	case err == nil:
		return nil, domain.ErrAlreadyExists
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("auth: read credentials: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	c := credential{UserID: uuid.NewString(), Email: strings.TrimSpace(email), Hash: hash}
	if err := storage.PutJSON(ctx, a.kv, key, c); err != nil {
		return nil, fmt.Errorf("auth: save credentials: %w", err)
	}
	a.log.Debug("auth: registered %s as %s", c.Email, c.UserID)
	return &domain.User{ID: c.UserID, Email: c.Email}, nil
}

// Authenticate verifies the password. Unknown emails and wrong passwords
// both yield domain.ErrInvalidCredentials.
func (a *LocalAuthenticator) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	var c credential
	err := storage.GetJSON(ctx, a.kv, storage.CredentialsKey(email), &c)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("auth: read credentials: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(c.Hash, []byte(password)); err != nil {
		a.log.Debug("auth: password mismatch for %s", c.Email)
		return nil, domain.ErrInvalidCredentials
	}
	return &domain.User{ID: c.UserID, Email: c.Email}, nil
}
