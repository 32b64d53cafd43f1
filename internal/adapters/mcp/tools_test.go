package mcp

import (
	"context"
	"errors"
	"sort"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essex_travel/internal/catalog"
	"essex_travel/internal/domain"
	"essex_travel/internal/shared"
)

func newTestServer() *Server {
	return NewServer(shared.DefaultSite(), catalog.MustDefault(), "test")
}

func TestLookupCity(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	tests := []struct {
		name     string
		input    string
		wantSlug string
	}{
		{name: "by name", input: "Montclair", wantSlug: "montclair"},
		{name: "by slug", input: "newark", wantSlug: "newark"},
		{name: "padded lowercase name", input: "  west orange ", wantSlug: "west-orange"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := s.handleLookupCity(ctx, nil, LookupCityInput{Name: tt.input})
			require.NoError(t, err)
			assert.Equal(t, tt.wantSlug, out.Slug)
			assert.Len(t, out.Pages, 1+len(s.cat.Services()))
		})
	}

	_, _, err := s.handleLookupCity(ctx, nil, LookupCityInput{Name: "Gotham"})
	assert.True(t, errors.Is(err, domain.ErrUnknownTown))
	_, _, err = s.handleLookupCity(ctx, nil, LookupCityInput{})
	assert.Error(t, err)
}

func TestListServicesAndGetEntity(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	_, services, err := s.handleListServices(ctx, nil, ListServicesInput{})
	require.NoError(t, err)
	assert.Len(t, services.Services, len(s.cat.Services()))

	_, e, err := s.handleGetEntity(ctx, nil, GetEntityInput{Kind: "cruise-neighborhoods", Slug: "boardwalk"})
	require.NoError(t, err)
	assert.Equal(t, "/guides/cruise-neighborhoods/boardwalk", e.Path)
	assert.Contains(t, e.Related, "/guides/cruise-neighborhoods/central-park")

	_, _, err = s.handleGetEntity(ctx, nil, GetEntityInput{Kind: "castles", Slug: "x"})
	assert.Error(t, err)
	_, _, err = s.handleGetEntity(ctx, nil, GetEntityInput{Kind: "deals", Slug: "nope"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestLocationSchema(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	_, town, err := s.handleLocationSchema(ctx, nil, LocationSchemaInput{Town: "Newark"})
	require.NoError(t, err)
	assert.Equal(t, "https://schema.org", town.Graph["@context"])
	assert.Empty(t, town.Issues)
	geo := town.Graph["geo"].(map[string]any)
	assert.InDelta(t, 40.7357, geo["latitude"], 0.01)

	_, page, err := s.handleLocationSchema(ctx, nil, LocationSchemaInput{Town: "Montclair", Service: "airport-transfers"})
	require.NoError(t, err)
	assert.Len(t, page.Graph["@graph"], 4)

	_, _, err = s.handleLocationSchema(ctx, nil, LocationSchemaInput{Town: "Atlantis"})
	assert.True(t, errors.Is(err, domain.ErrUnknownTown))
}

func TestServer_ListsToolsOverTransport(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clientT, serverT := sdk.NewInMemoryTransports()
	s := newTestServer()
	serverSession, err := s.mcp.Connect(ctx, serverT, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := sdk.NewClient(&sdk.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	defer session.Close()

	res, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"get_entity", "list_services", "location_schema", "lookup_city"}, names)

	call, err := session.CallTool(ctx, &sdk.CallToolParams{Name: "lookup_city", Arguments: map[string]any{"name": "Nutley"}})
	require.NoError(t, err)
	assert.False(t, call.IsError)
}
