package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essex_travel/internal/domain"
)

func open(t *testing.T) *Client {
	t.Helper()
	c, err := Open(context.Background(), "sqlite://"+filepath.Join(t.TempDir(), "essex.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestParseDSN(t *testing.T) {
	cases := []struct {
		in, want string
		wantErr  bool
	}{
		{in: "sqlite://:memory:", want: ":memory:"},
		{in: "sqlite:///var/lib/essex.db", want: "/var/lib/essex.db"},
		{in: "sqlite://essex.db", want: "./essex.db"},
		{in: "sqlite://./data/essex.db", want: "./data/essex.db"},
		{in: "sqlite://my%20site.db?_txlock=immediate", want: "./my site.db?_txlock=immediate"},
		{in: "postgres://x", wantErr: true},
		{in: "sqlite://", wantErr: true},
	}
	for _, tc := range cases {
		got, err := parseDSN(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestOpen_InMemory(t *testing.T) {
	c, err := Open(context.Background(), "sqlite://:memory:")
	require.NoError(t, err)
	defer c.Close()

	kv := c.KV(0)
	require.NoError(t, kv.Set(context.Background(), "k", "v"))
	v, ok, err := kv.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestLeads_SaveAndRecent(t *testing.T) {
	ctx := context.Background()
	leads := open(t).Leads()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	email, n := "dana@example.com", 4

	first := domain.Lead{ID: "a", Name: "Dana", Email: &email, Travelers: &n, RawJSON: []byte(`{"name":"Dana"}`), CreatedAt: base}
	second := domain.Lead{ID: "b", Name: "Sam", CreatedAt: base.Add(time.Minute)}
	for _, l := range []domain.Lead{first, second, first} {
		require.NoError(t, leads.SaveLead(ctx, l))
	}

	got, err := leads.RecentLeads(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
	assert.Equal(t, email, *got[1].Email)
	assert.Equal(t, 4, *got[1].Travelers)
	assert.Nil(t, got[1].Phone)
	assert.JSONEq(t, `{"name":"Dana"}`, string(got[1].RawJSON))
	assert.True(t, got[1].CreatedAt.Equal(base))

	one, err := leads.RecentLeads(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}

func TestKV_TTLAndClear(t *testing.T) {
	ctx := context.Background()
	c := open(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	kv := c.KV(time.Hour)

	require.NoError(t, kv.Set(ctx, "tools:s:budget", `{"a":1}`))
	require.NoError(t, kv.Set(ctx, "tools:s:budget", `{"a":2}`))
	v, ok, err := kv.Get(ctx, "tools:s:budget")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":2}`, v)

	now = now.Add(2 * time.Hour)
	_, ok, err = kv.Get(ctx, "tools:s:budget")
	require.NoError(t, err)
	assert.False(t, ok, "expired value must read as missing")

	swept, err := kv.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)

	require.NoError(t, kv.Set(ctx, "a", "1"))
	require.NoError(t, kv.Set(ctx, "b", "2"))
	require.NoError(t, kv.Remove(ctx, "a"))
	_, ok, _ = kv.Get(ctx, "a")
	assert.False(t, ok)
	require.NoError(t, kv.Clear(ctx))
	_, ok, _ = kv.Get(ctx, "b")
	assert.False(t, ok)
}
