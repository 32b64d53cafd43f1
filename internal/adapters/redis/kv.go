package redisad

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"essex_travel/internal/domain"
)

var _ domain.KVStore = (*KV)(nil)

// KV is the tool-state store. Every key lives under prefix and expires ttl
// after its last write; a zero ttl keeps keys forever.
type KV struct {
	c      *redis.Client
	prefix string
	ttl    time.Duration
}

func NewKV(c *redis.Client, prefix string, ttl time.Duration) *KV {
	return &KV{c: c, prefix: prefix, ttl: ttl}
}

func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := k.c.Get(ctx, k.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (k *KV) Set(ctx context.Context, key, value string) error {
	return k.c.Set(ctx, k.prefix+key, value, k.ttl).Err()
}

func (k *KV) Remove(ctx context.Context, key string) error {
	return k.c.Del(ctx, k.prefix+key).Err()
}

// Clear deletes every key under the prefix, scanning in batches.
func (k *KV) Clear(ctx context.Context) error {
	iter := k.c.Scan(ctx, 0, k.prefix+"*", 200).Iterator()
	batch := make([]string, 0, 200)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := k.c.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return k.c.Del(ctx, batch...).Err()
	}
	return nil
}
