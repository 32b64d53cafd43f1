package build_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"essex_travel/internal/app"
	"essex_travel/internal/build"
	"essex_travel/internal/catalog"
	"essex_travel/internal/domain"
	"essex_travel/internal/render"
	"essex_travel/internal/routes"
	"essex_travel/internal/shared"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func pages(t *testing.T, site domain.Business) *app.PageService {
	t.Helper()
	r, err := render.New()
	require.NoError(t, err)
	return app.NewPageService(site, catalog.MustDefault(), r, nil, 0)
}

func TestBuild_WritesEveryPage(t *testing.T) {
	out := t.TempDir()
	rep, err := build.New(pages(t, shared.DefaultSite()), 4, true).Build(context.Background(), out)
	require.NoError(t, err)

	all := routes.All(catalog.MustDefault())
	assert.Equal(t, len(all), rep.Pages)
	assert.Empty(t, rep.Failures)

	for _, p := range []string{
		"index.html",
		"locations/essex-county/montclair/airport-transfers/index.html",
		"guides/cruise-neighborhoods/central-park/index.html",
		"schema/index.json",
		"schema/deals/disney-free-dining.json",
		"sitemap.xml",
		"robots.txt",
		"404.html",
	} {
		_, err := os.Stat(filepath.Join(out, p))
		assert.NoError(t, err, p)
	}

	raw, err := os.ReadFile(filepath.Join(out, build.SchemaFile("/locations/essex-county/newark/airport-transfers")))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "https://schema.org", doc["@context"])
}

func TestBuild_StrictFailsOnInvalidSchema(t *testing.T) {
	site := shared.DefaultSite()
	site.Rating = &domain.Rating{Value: 7, Count: 3}

	rep, err := build.New(pages(t, site), 2, false).Build(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.NotEmpty(t, rep.Failures)

	_, err = build.New(pages(t, site), 2, true).Build(context.Background(), t.TempDir())
	assert.True(t, errors.Is(err, build.ErrSchemaInvalid))
}

func TestBuild_GraphErrorStopsBuild(t *testing.T) {
	site := shared.DefaultSite()
	site.Address.Street = ""
	_, err := build.New(pages(t, site), 2, false).Build(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestBuild_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := build.New(pages(t, shared.DefaultSite()), 2, false).Build(ctx, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSchemaFile(t *testing.T) {
	assert.Equal(t, filepath.Join("schema", "index.json"), build.SchemaFile("/"))
	assert.Equal(t, filepath.Join("schema", "deals", "x.json"), build.SchemaFile("/deals/x"))
}

func TestWatch_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() { done <- build.Watch(ctx, dir, 50*time.Millisecond, func() { calls.Add(1) }) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "cities.yaml"), []byte("cities: []\n"), 0o644))
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	cancel()
	require.NoError(t, <-done)
}
