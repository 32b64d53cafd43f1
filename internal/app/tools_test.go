package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essex_travel/internal/adapters/memory"
	"essex_travel/internal/app"
	"essex_travel/internal/catalog"
	"essex_travel/internal/tools"
)

func TestTools_DefaultsThenPutThenReset(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKV()
	s := app.NewToolService(kv, catalog.MustDefault())

	v, err := s.Get(ctx, "sess", app.ToolBudget)
	require.NoError(t, err)
	b := v.(app.BudgetView)
	assert.Len(t, b.Planner.Categories, 6)
	assert.Zero(t, b.GrandTotal)

	body := `{"currency":"USD","travelers":2,"categories":[{"id":"c1","name":"Cruise","items":[{"id":"i1","name":"Fare","amount_cents":129950,"quantity":2}]}]}`
	v, err = s.Put(ctx, "sess", app.ToolBudget, []byte(body))
	require.NoError(t, err)
	b = v.(app.BudgetView)
	assert.Equal(t, int64(259900), b.GrandTotal)
	assert.Equal(t, int64(129950), b.PerPerson)
	assert.Equal(t, "$2,599.00", b.Formatted)

	v, err = s.Get(ctx, "sess", app.ToolBudget)
	require.NoError(t, err)
	assert.Equal(t, int64(259900), v.(app.BudgetView).GrandTotal)

	v, err = s.Reset(ctx, "sess", app.ToolBudget)
	require.NoError(t, err)
	assert.Zero(t, v.(app.BudgetView).GrandTotal)
}

func TestTools_SessionsAndToolsAreDisjoint(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKV()
	s := app.NewToolService(kv, catalog.MustDefault())

	_, err := s.Put(ctx, "a", app.ToolCompare, []byte(`{"ships":["symphony-of-the-seas"]}`))
	require.NoError(t, err)
	_, err = s.Put(ctx, "a", app.ToolPacking, []byte(`{"inputs":{"destination":"alaska","season":"summer"}}`))
	require.NoError(t, err)

	v, err := s.Get(ctx, "b", app.ToolCompare)
	require.NoError(t, err)
	assert.Empty(t, v.(app.CompareView).Selection.Ships)

	assert.ElementsMatch(t, []string{tools.Key("a", app.ToolCompare), tools.Key("a", app.ToolPacking)}, kv.Keys("tools:"))
}

func TestTools_CorruptStateFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKV()
	require.NoError(t, kv.Set(ctx, tools.Key("s", app.ToolPacking), "{not json"))
	s := app.NewToolService(kv, catalog.MustDefault())

	v, err := s.Get(ctx, "s", app.ToolPacking)
	require.NoError(t, err)
	assert.NotEmpty(t, v.(app.PackingView).Checklist.Items)
}

func TestTools_StorageDownNeverSurfaces(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKV()
	kv.FailWith(errors.New("quota exceeded"))
	s := app.NewToolService(kv, catalog.MustDefault())

	v, err := s.Put(ctx, "s", app.ToolCountdown, []byte(`{"label":"Alaska","target":"2030-06-01T00:00:00Z"}`))
	require.NoError(t, err)
	cd := v.(app.CountdownView)
	assert.Equal(t, "Alaska", cd.Countdown.Label)
	assert.NotEmpty(t, cd.Milestones)

	_, err = s.Get(ctx, "s", app.ToolCountdown)
	require.NoError(t, err)
	_, err = s.Reset(ctx, "s", app.ToolCountdown)
	require.NoError(t, err)
}

func TestTools_Rejections(t *testing.T) {
	ctx := context.Background()
	s := app.NewToolService(memory.NewKV(), catalog.MustDefault())

	_, err := s.Get(ctx, "s", "horoscope")
	assert.ErrorIs(t, err, app.ErrUnknownTool)

	_, err = s.Put(ctx, "s", app.ToolCompare, []byte(`{"ships":["a","b","c","d"]}`))
	assert.ErrorIs(t, err, app.ErrInvalidState)

	_, err = s.Put(ctx, "s", app.ToolCompare, []byte(`{"ships":["titanic"]}`))
	assert.ErrorIs(t, err, app.ErrInvalidState)

	_, err = s.Put(ctx, "s", app.ToolBudget, []byte(`[]`))
	assert.ErrorIs(t, err, app.ErrInvalidState)

	_, err = s.Put(ctx, "s", app.ToolBudget, []byte(`{"currency":"USD","travelers":1,"categories":[{"id":"c1","name":"Cruise","items":[{"id":"i1","name":"Fare","amount":"-0.50","quantity":1}]}]}`))
	assert.ErrorIs(t, err, app.ErrInvalidState)
}

func TestTools_BudgetAcceptsTypedAmounts(t *testing.T) {
	s := app.NewToolService(memory.NewKV(), catalog.MustDefault())
	body := `{"currency":"USD","travelers":2,"categories":[{"id":"c1","name":"Cruise","items":[{"id":"i1","name":"Fare","amount":"$1,299.50","quantity":2}]}]}`

	v, err := s.Put(context.Background(), "sess", app.ToolBudget, []byte(body))
	require.NoError(t, err)
	b := v.(app.BudgetView)
	assert.Equal(t, int64(129950), b.Planner.Categories[0].Items[0].AmountCents)
	assert.Equal(t, "$2,599.00", b.Formatted)
}
