// Package tools persists the state of the interactive trip tools. Each
// tool lives in its own subpackage; this package only moves state in and
// out of a domain.KVStore.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"essex_travel/internal/domain"
)

const keyPrefix = "tools:"

// Key is the storage key of one tool for one visitor session. Keys of
// different tools never overlap.
func Key(session, tool string) string {
	return keyPrefix + session + ":" + tool
}

// Checker is implemented by states that can reject decoded but
// inconsistent data.
type Checker interface {
	Check() error
}

// Load returns the stored state, or def() when nothing usable is stored.
// The value is always usable. A non-nil error says why def() was used
// and is for logging only.
func Load[T any](ctx context.Context, kv domain.KVStore, key string, def func() T) (T, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return def(), fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return def(), nil
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return def(), fmt.Errorf("decode %s: %w", key, err)
	}
	if c, ok := any(&v).(Checker); ok {
		if err := c.Check(); err != nil {
			return def(), fmt.Errorf("check %s: %w", key, err)
		}
	}
	return v, nil
}

// Save stores v. A failed write leaves the in-memory state authoritative
// for the rest of the session.
func Save[T any](ctx context.Context, kv domain.KVStore, key string, v T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func Reset(ctx context.Context, kv domain.KVStore, key string) error {
	if err := kv.Remove(ctx, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
