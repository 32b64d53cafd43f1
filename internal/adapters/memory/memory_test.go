package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKV_Lifecycle(t *testing.T) {
	ctx := context.Background()
	kv := NewKV()

	require.NoError(t, kv.Set(ctx, "tools:a:budget", "1"))
	require.NoError(t, kv.Set(ctx, "tools:a:packing", "2"))
	require.NoError(t, kv.Set(ctx, "tools:b:budget", "3"))
	assert.Equal(t, []string{"tools:a:budget", "tools:a:packing"}, kv.Keys("tools:a:"))

	v, ok, err := kv.Get(ctx, "tools:a:packing")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	require.NoError(t, kv.Remove(ctx, "tools:a:packing"))
	_, ok, _ = kv.Get(ctx, "tools:a:packing")
	assert.False(t, ok)

	require.NoError(t, kv.Clear(ctx))
	assert.Empty(t, kv.Keys(""))
}

func TestKV_FailureInjection(t *testing.T) {
	ctx := context.Background()
	kv := NewKV()
	quota := errors.New("quota exceeded")

	kv.FailWith(quota)
	assert.ErrorIs(t, kv.Set(ctx, "k", "v"), quota)
	_, _, err := kv.Get(ctx, "k")
	assert.ErrorIs(t, err, quota)
	assert.ErrorIs(t, kv.Clear(ctx), quota)

	kv.FailWith(nil)
	assert.NoError(t, kv.Set(ctx, "k", "v"))
}

func TestKV_ConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	kv := NewKV()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = kv.Set(ctx, "k", "v")
				_, _, _ = kv.Get(ctx, "k")
			}
		}()
	}
	wg.Wait()
	assert.Len(t, kv.Keys(""), 1)
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewCache()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "/deals", map[string]string{"etag": "x"}, 60))
	var got map[string]string
	ok, err := c.Get(ctx, "/deals", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", got["etag"])

	now = now.Add(61 * time.Second)
	ok, err = c.Get(ctx, "/deals", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "/forever", 1, 0))
	now = now.Add(24 * time.Hour)
	var n int
	ok, _ = c.Get(ctx, "/forever", &n)
	assert.True(t, ok)
	assert.NoError(t, c.Del(ctx, "/forever"))
}
