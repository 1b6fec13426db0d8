package domain

import "context"

// RecipeSource provides catalog recipes. Implementations can be the remote
// catalog API or an in-memory set of curated recipes.
type RecipeSource interface {
	Search(ctx context.Context, query string) ([]Recipe, error)
	Get(ctx context.Context, id string) (*Recipe, error)
	Random(ctx context.Context) (*Recipe, error)
}

// KeyValueStore is the device-local persistence primitive. Values are opaque
// blobs; every store in this module writes JSON text. Get returns ErrNotFound
// for a missing key. Delete of a missing key is not an error.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Authenticator turns credentials into a User. The session store owns
// persistence of the result; authenticators only decide identity.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*User, error)
	Register(ctx context.Context, email, password string) (*User, error)
}

// IntentParser converts raw user input into structured intents.
type IntentParser interface {
	Parse(ctx context.Context, input string) (*Intent, error)
}

// Notifier delivers messages to the user.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}
