package preference

import (
	"context"
	"errors"
	"testing"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/storage"
)

type brokenKV struct{ *storage.MemoryStore }

func (brokenKV) Set(context.Context, string, []byte) error { return errors.New("disk full") }

func TestToggleTwiceRestores(t *testing.T) {
	ctx := context.Background()
	log := logger.New(logger.LevelOff, nil)
	kv := storage.NewMemoryStore(log)
	s := NewStore(kv, log)
	s.Switch(ctx, &domain.User{ID: "1"})

	if s.DarkMode() {
		t.Fatal("expected dark mode off by default")
	}
	on, err := s.Toggle(ctx)
	if err != nil || !on {
		t.Fatalf("first toggle: on=%v err=%v", on, err)
	}
	off, err := s.Toggle(ctx)
	if err != nil || off {
		t.Fatalf("second toggle: on=%v err=%v", off, err)
	}
	if s.DarkMode() {
		t.Fatal("expected dark mode restored to off")
	}

	raw, err := kv.Get(ctx, storage.ThemeKey("1"))
	if err != nil {
		t.Fatalf("theme not persisted: %v", err)
	}
	if string(raw) != "false" {
		t.Fatalf("expected persisted false, got %q", raw)
	}
}

func TestSwitchLoadsPerUser(t *testing.T) {
	ctx := context.Background()
	log := logger.New(logger.LevelOff, nil)
	kv := storage.NewMemoryStore(log)
	if err := kv.Set(ctx, storage.ThemeKey("dark"), []byte("true")); err != nil {
		t.Fatal(err)
	}
	if err := kv.Set(ctx, storage.ThemeKey("corrupt"), []byte("maybe")); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		user *domain.User
		want bool
	}{
		{"dark user", &domain.User{ID: "dark"}, true},
		{"never set", &domain.User{ID: "fresh"}, false},
		{"corrupt value", &domain.User{ID: "corrupt"}, false},
		{"anonymous", nil, false},
	}

	s := NewStore(kv, log)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.Switch(ctx, &domain.User{ID: "dark"})
			s.Switch(ctx, tt.user)
			if got := s.DarkMode(); got != tt.want {
				t.Fatalf("DarkMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToggleAnonymousRejected(t *testing.T) {
	ctx := context.Background()
	log := logger.New(logger.LevelOff, nil)
	kv := storage.NewMemoryStore(log)
	s := NewStore(kv, log)

	if _, err := s.Toggle(ctx); !errors.Is(err, domain.ErrLoginRequired) {
		t.Fatalf("expected ErrLoginRequired, got %v", err)
	}
	if s.DarkMode() {
		t.Fatal("flag changed while anonymous")
	}
	if kv.Len() != 0 {
		t.Fatalf("expected nothing persisted, got %d keys", kv.Len())
	}
}

func TestTogglePersistFailure(t *testing.T) {
	ctx := context.Background()
	log := logger.New(logger.LevelOff, nil)
	s := NewStore(brokenKV{storage.NewMemoryStore(log)}, log)
	s.Switch(ctx, &domain.User{ID: "1"})

	on, err := s.Toggle(ctx)
	if err != nil {
		t.Fatalf("persist failure should not surface: %v", err)
	}
	if on || s.DarkMode() {
		t.Fatal("flag changed despite failed write")
	}
}
