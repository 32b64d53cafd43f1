package tools_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essex_travel/internal/adapters/memory"
	"essex_travel/internal/tools"
)

type state struct {
	Count int `json:"count"`
}

func (s *state) Check() error {
	if s.Count < 0 {
		return errors.New("negative count")
	}
	return nil
}

func def() state { return state{Count: 1} }

func TestKey_DisjointPerTool(t *testing.T) {
	assert.Equal(t, "tools:abc:budget", tools.Key("abc", "budget"))
	assert.NotEqual(t, tools.Key("abc", "budget"), tools.Key("abc", "packing"))
}

func TestLoadSave_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKV()
	key := tools.Key("s", "counter")

	got, err := tools.Load(ctx, kv, key, def)
	require.NoError(t, err)
	assert.Equal(t, def(), got)

	require.NoError(t, tools.Save(ctx, kv, key, state{Count: 7}))
	got, err = tools.Load(ctx, kv, key, def)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Count)

	require.NoError(t, tools.Reset(ctx, kv, key))
	got, _ = tools.Load(ctx, kv, key, def)
	assert.Equal(t, def(), got)
}

func TestLoad_FallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKV()
	key := tools.Key("s", "counter")

	require.NoError(t, kv.Set(ctx, key, "{not json"))
	got, err := tools.Load(ctx, kv, key, def)
	assert.Error(t, err)
	assert.Equal(t, def(), got)

	require.NoError(t, kv.Set(ctx, key, `{"count":-4}`))
	got, err = tools.Load(ctx, kv, key, def)
	assert.ErrorContains(t, err, "negative count")
	assert.Equal(t, def(), got)

	kv.FailWith(errors.New("storage disabled"))
	got, err = tools.Load(ctx, kv, key, def)
	assert.ErrorContains(t, err, "storage disabled")
	assert.Equal(t, def(), got)
	assert.Error(t, tools.Save(ctx, kv, key, state{Count: 2}))
}
