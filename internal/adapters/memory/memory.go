// Package memory holds process-local stores for tests and single-node dev.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"essex_travel/internal/adapters/observability"
	"essex_travel/internal/domain"
)

var (
	_ domain.KVStore   = (*KV)(nil)
	_ domain.PageCache = (*Cache)(nil)
)

// KV is an in-memory KVStore. A non-nil failure from FailWith is returned
// by every call until cleared.
type KV struct {
	mu   sync.RWMutex
	data map[string]string
	fail error
}

func NewKV() *KV {
	return &KV{data: make(map[string]string)}
}

// FailWith makes every later call return err. Pass nil to recover.
func (k *KV) FailWith(err error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.fail = err
}

func (k *KV) Get(_ context.Context, key string) (string, bool, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.fail != nil {
		return "", false, k.fail
	}
	v, ok := k.data[key]
	return v, ok, nil
}

func (k *KV) Set(_ context.Context, key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.fail != nil {
		return k.fail
	}
	k.data[key] = value
	return nil
}

func (k *KV) Remove(_ context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.fail != nil {
		return k.fail
	}
	delete(k.data, key)
	return nil
}

func (k *KV) Clear(_ context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.fail != nil {
		return k.fail
	}
	k.data = make(map[string]string)
	return nil
}

// Keys lists stored keys with the given prefix, sorted.
func (k *KV) Keys(prefix string) []string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	var out []string
	for key := range k.data {
		if strings.HasPrefix(key, prefix) {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

type entry struct {
	payload []byte
	expires time.Time
}

// Cache is an in-memory PageCache with per-entry expiry.
type Cache struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

func NewCache() *Cache {
	return &Cache{data: make(map[string]entry), now: time.Now}
}

func (c *Cache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	e, ok := c.data[key]
	if ok && !e.expires.IsZero() && !c.now().Before(e.expires) {
		delete(c.data, key)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		observability.ObserveCache("memory", "miss")
		return false, nil
	}
	observability.ObserveCache("memory", "hit")
	return true, json.Unmarshal(e.payload, dst)
}

func (c *Cache) Set(_ context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	e := entry{payload: b}
	if ttlSec > 0 {
		e.expires = c.now().Add(time.Duration(ttlSec) * time.Second)
	}
	c.mu.Lock()
	c.data[key] = e
	c.mu.Unlock()
	observability.ObserveCache("memory", "set")
	return nil
}

func (c *Cache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
	observability.ObserveCache("memory", "del")
	return nil
}
