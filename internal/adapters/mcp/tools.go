package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"essex_travel/internal/domain"
	"essex_travel/internal/routes"
	"essex_travel/internal/schema"
)

type LookupCityInput struct {
	Name string `json:"name" jsonschema:"town name or slug, e.g. Montclair"`
}

type CityOutput struct {
	Slug       string   `json:"slug"`
	Name       string   `json:"name"`
	Population int      `json:"population"`
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	PostalCode string   `json:"postal_code"`
	Pages      []string `json:"pages"`
}

type ListServicesInput struct{}

type ServiceOutput struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

type ListServicesOutput struct {
	Services []ServiceOutput `json:"services"`
}

type GetEntityInput struct {
	Kind string `json:"kind" jsonschema:"collection, e.g. cruise-ships or travel-guides"`
	Slug string `json:"slug" jsonschema:"entity slug"`
}

type EntityOutput struct {
	Kind            string   `json:"kind"`
	Slug            string   `json:"slug"`
	Title           string   `json:"title"`
	Path            string   `json:"path"`
	MetaTitle       string   `json:"meta_title"`
	MetaDescription string   `json:"meta_description"`
	Category        string   `json:"category"`
	Priority        string   `json:"priority"`
	Updated         string   `json:"updated"`
	Keywords        []string `json:"keywords"`
	Related         []string `json:"related"`
}

type LocationSchemaInput struct {
	Town    string `json:"town" jsonschema:"town name, e.g. Newark"`
	Service string `json:"service,omitempty" jsonschema:"optional service slug; omit for the town business only"`
}

type LocationSchemaOutput struct {
	Graph  map[string]any `json:"graph"`
	Issues []string       `json:"issues"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "lookup_city",
		Description: "Find a served Essex County town by name or slug",
	}, s.handleLookupCity)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_services",
		Description: "List every service offered in each town",
	}, s.handleListServices)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_entity",
		Description: "Retrieve a guide, ship, deal or package by collection and slug",
	}, s.handleGetEntity)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "location_schema",
		Description: "Generate and validate the JSON-LD for a town, optionally for one service",
	}, s.handleLocationSchema)
}

func (s *Server) handleLookupCity(ctx context.Context, req *sdk.CallToolRequest, input LookupCityInput) (*sdk.CallToolResult, CityOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, CityOutput{}, fmt.Errorf("name is required")
	}
	city, ok := s.cat.City(strings.ToLower(name))
	if !ok {
		city, ok = s.cat.CityByName(name)
	}
	if !ok {
		return nil, CityOutput{}, fmt.Errorf("%w: %q", domain.ErrUnknownTown, name)
	}
	out := CityOutput{
		Slug:       city.Slug,
		Name:       city.Name,
		Population: city.Population,
		Lat:        city.Coords.Lat,
		Lng:        city.Coords.Lng,
		PostalCode: city.PostalCode,
		Pages:      []string{routes.CityPath(city.Slug)},
	}
	for _, svc := range s.cat.Services() {
		out.Pages = append(out.Pages, routes.LocationPath(city.Slug, svc.Slug))
	}
	return nil, out, nil
}

func (s *Server) handleListServices(ctx context.Context, req *sdk.CallToolRequest, input ListServicesInput) (*sdk.CallToolResult, ListServicesOutput, error) {
	services := s.cat.Services()
	out := make([]ServiceOutput, 0, len(services))
	for _, svc := range services {
		out = append(out, ServiceOutput{
			Slug:        svc.Slug,
			Name:        svc.Name,
			Title:       svc.Title,
			Description: svc.Description,
			Keywords:    svc.Keywords,
		})
	}
	return nil, ListServicesOutput{Services: out}, nil
}

func (s *Server) handleGetEntity(ctx context.Context, req *sdk.CallToolRequest, input GetEntityInput) (*sdk.CallToolResult, EntityOutput, error) {
	kind, ok := domain.ParseKind(input.Kind)
	if !ok {
		return nil, EntityOutput{}, fmt.Errorf("unknown collection %q", input.Kind)
	}
	e, ok := s.cat.Entity(kind, input.Slug)
	if !ok {
		return nil, EntityOutput{}, fmt.Errorf("%w: %s/%s", domain.ErrNotFound, input.Kind, input.Slug)
	}
	out := EntityOutput{
		Kind:            kind.String(),
		Slug:            e.Slug,
		Title:           e.Title,
		Path:            routes.EntityPath(kind, e.Slug),
		MetaTitle:       e.MetaTitle,
		MetaDescription: e.MetaDescription,
		Category:        e.Category,
		Priority:        e.Priority.String(),
		Updated:         e.Updated,
		Keywords:        e.Keywords,
	}
	for _, rel := range s.cat.Related(kind, e.Slug, 3) {
		out.Related = append(out.Related, routes.EntityPath(rel.Kind, rel.Slug))
	}
	return nil, out, nil
}

func (s *Server) handleLocationSchema(ctx context.Context, req *sdk.CallToolRequest, input LocationSchemaInput) (*sdk.CallToolResult, LocationSchemaOutput, error) {
	var (
		doc any
		err error
	)
	if input.Service == "" {
		doc, err = schema.TownBusiness(s.site, s.cat, input.Town)
	} else {
		doc, err = schema.LocationPage(s.site, s.cat, input.Town, input.Service)
	}
	if err != nil {
		return nil, LocationSchemaOutput{}, err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, LocationSchemaOutput{}, err
	}
	out := LocationSchemaOutput{Issues: []string{}}
	if err := json.Unmarshal(raw, &out.Graph); err != nil {
		return nil, LocationSchemaOutput{}, err
	}
	for _, issue := range schema.Check(raw) {
		out.Issues = append(out.Issues, issue.String())
	}
	return nil, out, nil
}
