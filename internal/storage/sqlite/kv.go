package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// KV is a KVStore over the kv table. Expired rows read as missing and are
// overwritten on the next Set.
type KV struct {
	c   *Client
	ttl time.Duration
}

// KV returns the tool-state store. ttl <= 0 keeps values forever.
func (c *Client) KV(ttl time.Duration) *KV { return &KV{c: c, ttl: ttl} }

func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value   string
		expires sql.NullInt64
	)
	err := k.c.db.QueryRowContext(ctx, `SELECT value, expires_at FROM kv WHERE key = ?`, key).Scan(&value, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get %s: %w", key, err)
	}
	if expires.Valid && k.c.now().UnixMilli() >= expires.Int64 {
		return "", false, nil
	}
	return value, true, nil
}

func (k *KV) Set(ctx context.Context, key, value string) error {
	var expires any
	if k.ttl > 0 {
		expires = k.c.now().Add(k.ttl).UnixMilli()
	}
	_, err := k.c.db.ExecContext(ctx, `
	INSERT INTO kv (key, value, expires_at) VALUES (?, ?, ?)
	ON CONFLICT (key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, expires)
	if err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

func (k *KV) Remove(ctx context.Context, key string) error {
	if _, err := k.c.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("kv remove %s: %w", key, err)
	}
	return nil
}

func (k *KV) Clear(ctx context.Context) error {
	if _, err := k.c.db.ExecContext(ctx, `DELETE FROM kv`); err != nil {
		return fmt.Errorf("kv clear: %w", err)
	}
	return nil
}

// Sweep deletes expired rows and reports how many went.
func (k *KV) Sweep(ctx context.Context) (int64, error) {
	res, err := k.c.db.ExecContext(ctx, `DELETE FROM kv WHERE expires_at IS NOT NULL AND expires_at <= ?`, k.c.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("kv sweep: %w", err)
	}
	return res.RowsAffected()
}
