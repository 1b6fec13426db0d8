package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

// GetJSON reads key and decodes it into v. A missing key yields
// domain.ErrNotFound unwrapped so callers can compare with errors.Is.
func GetJSON(ctx context.Context, kv domain.KeyValueStore, key string, v any) error {
	data, err := kv.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("storage: decode %s: %w", key, err)
	}
	return nil
}

// PutJSON encodes v as JSON text and writes it under key.
func PutJSON(ctx context.Context, kv domain.KeyValueStore, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("storage: write %s: %w", key, err)
	}
	return nil
}
