package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"essex_travel/internal/adapters/observability"
	"essex_travel/internal/catalog"
	"essex_travel/internal/domain"
	"essex_travel/internal/render"
	"essex_travel/internal/routes"
	"essex_travel/internal/schema"
)

// RenderedPage is one finished page. It is what the cache stores.
type RenderedPage struct {
	Path   string          `json:"path"`
	Kind   string          `json:"kind"`
	HTML   []byte          `json:"html"`
	Schema json.RawMessage `json:"schema"`
	// Issues lists schema validation findings. The page is still served.
	Issues []string `json:"issues,omitempty"`
}

type PageService struct {
	site     domain.Business
	cat      *catalog.Catalog
	r        *render.Renderer
	cache    domain.PageCache
	cacheTTL time.Duration
}

func NewPageService(site domain.Business, c *catalog.Catalog, r *render.Renderer, cache domain.PageCache, ttl time.Duration) *PageService {
	return &PageService{site: site, cat: c, r: r, cache: cache, cacheTTL: ttl}
}

func (s *PageService) Site() domain.Business     { return s.site }
func (s *PageService) Catalog() *catalog.Catalog { return s.cat }

// Page serves the page at path, from cache when possible.
func (s *PageService) Page(ctx context.Context, path string) (RenderedPage, error) {
	route, ok := routes.Resolve(s.cat, path)
	if !ok {
		return RenderedPage{}, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	key := "page:" + route.Path
	var out RenderedPage
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}
	out, err := s.Build(route)
	if err != nil {
		return RenderedPage{}, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("path", route.Path).Msg("page cache set failed")
		}
	}
	return out, nil
}

// Schema returns the JSON-LD document of the page at path.
func (s *PageService) Schema(ctx context.Context, path string) (json.RawMessage, error) {
	p, err := s.Page(ctx, path)
	if err != nil {
		return nil, err
	}
	return p.Schema, nil
}

// NotFound renders the miss page.
func (s *PageService) NotFound() []byte {
	var buf bytes.Buffer
	if err := s.r.NotFound(&buf, s.site); err != nil {
		log.Error().Err(err).Msg("render not-found page")
		return []byte("not found")
	}
	return buf.Bytes()
}

// Build renders one route without touching the cache. Graph construction
// errors are returned; validation findings are recorded on the page.
func (s *PageService) Build(route routes.Route) (RenderedPage, error) {
	g, err := s.Graph(route)
	if err != nil {
		return RenderedPage{}, err
	}
	raw, err := json.Marshal(g)
	if err != nil {
		return RenderedPage{}, fmt.Errorf("marshal schema %s: %w", route.Path, err)
	}
	out := RenderedPage{Path: route.Path, Kind: route.Kind.String(), Schema: raw}
	for _, issue := range schema.Check(raw) {
		out.Issues = append(out.Issues, issue.String())
	}
	if len(out.Issues) > 0 {
		observability.ObserveSchemaFailure(out.Kind)
		log.Warn().Str("path", route.Path).Strs("issues", out.Issues).Msg("structured data failed validation")
	}

	view, err := s.view(route)
	if err != nil {
		return RenderedPage{}, err
	}
	if view.JSONLD, err = render.JSONLD(g); err != nil {
		return RenderedPage{}, err
	}
	var buf bytes.Buffer
	if err := s.r.Page(&buf, view); err != nil {
		return RenderedPage{}, fmt.Errorf("render %s: %w", route.Path, err)
	}
	out.HTML = buf.Bytes()
	observability.ObservePage(out.Kind)
	return out, nil
}

// Graph builds the structured data of one route.
func (s *PageService) Graph(route routes.Route) (schema.Graph, error) {
	switch route.Kind {
	case routes.RouteHome:
		return schema.HomePage(s.site, s.cat)
	case routes.RouteCollection:
		return schema.CollectionPage(s.site, s.cat, route.Collection), nil
	case routes.RouteEntity:
		e, ok := s.cat.Entity(route.Collection, route.Slug)
		if !ok {
			return schema.Graph{}, fmt.Errorf("%w: %s", domain.ErrNotFound, route.Path)
		}
		return schema.EntityPage(s.site, e), nil
	case routes.RouteLocationIndex:
		return schema.LocationIndexPage(s.site, s.cat), nil
	case routes.RouteCity:
		return schema.CityPage(s.site, s.cat, route.CitySlug)
	case routes.RouteLocation:
		city, ok := s.cat.City(route.CitySlug)
		if !ok {
			return schema.Graph{}, fmt.Errorf("%w: %s", domain.ErrNotFound, route.Path)
		}
		return schema.LocationPage(s.site, s.cat, city.Name, route.ServiceSlug)
	}
	return schema.Graph{}, fmt.Errorf("%w: %s", domain.ErrNotFound, route.Path)
}

func (s *PageService) view(route routes.Route) (render.Page, error) {
	home := render.Crumb{Name: "Home", Path: "/"}
	county := render.Crumb{Name: "Essex County", Path: routes.LocationsPrefix}
	p := render.Page{Site: s.site}

	switch route.Kind {
	case routes.RouteHome:
		p.Meta = routes.HomeMeta(s.site)
		p.Hero = domain.Hero{
			Headline:    "Local travel planning for Essex County",
			Subheadline: servingLine(s.site),
		}
		if len(s.site.Testimonials) > 0 {
			l := render.List{Heading: "What travelers say"}
			for _, t := range s.site.Testimonials {
				l.Items = append(l.Items, fmt.Sprintf("%q - %s, %s", t.Body, t.Author, t.Town))
			}
			p.Lists = append(p.Lists, l)
		}
		p.LinksHeading = "Explore"
		for _, k := range domain.Kinds() {
			p.Links = append(p.Links, render.Link{Title: k.Label(), Path: k.Prefix()})
		}
		p.Links = append(p.Links, render.Link{Title: "Towns we serve", Path: routes.LocationsPrefix})

	case routes.RouteCollection:
		k := route.Collection
		p.Meta = routes.CollectionMeta(s.site, k)
		p.Crumbs = []render.Crumb{home, {Name: k.Label(), Path: k.Prefix()}}
		for _, cat := range s.cat.Categories(k) {
			g := render.Group{Heading: categoryLabel(cat)}
			for _, e := range s.cat.ByCategory(k, cat) {
				g.Links = append(g.Links, render.Link{Title: e.Title, Path: routes.EntityPath(k, e.Slug)})
			}
			p.Groups = append(p.Groups, g)
		}
		// uncategorised entries follow the groups
		p.LinksHeading = "More " + strings.ToLower(k.Label())
		for _, e := range s.cat.Entities(k) {
			if e.Category == "" {
				p.Links = append(p.Links, render.Link{Title: e.Title, Path: routes.EntityPath(k, e.Slug)})
			}
		}

	case routes.RouteEntity:
		e, ok := s.cat.Entity(route.Collection, route.Slug)
		if !ok {
			return p, fmt.Errorf("%w: %s", domain.ErrNotFound, route.Path)
		}
		sections, err := s.r.Sections(e.Sections)
		if err != nil {
			return p, fmt.Errorf("%s: %w", route.Path, err)
		}
		p.Meta = routes.EntityMeta(s.site, e)
		p.Crumbs = []render.Crumb{home, {Name: e.Kind.Label(), Path: e.Kind.Prefix()}, {Name: e.Title, Path: route.Path}}
		p.Hero = e.Hero
		p.Sections = sections
		p.Lists = []render.List{
			{Heading: "Pros", Items: e.Pros},
			{Heading: "Cons", Items: e.Cons},
			{Heading: "Local tips", Items: e.LocalTips},
		}
		p.FAQs = e.FAQs
		p.Offer = e.Offer
		p.Ship = e.Ship
		p.LinksHeading = "Related"
		for _, rel := range s.cat.Related(e.Kind, e.Slug, 3) {
			p.Links = append(p.Links, render.Link{Title: rel.Title, Path: routes.EntityPath(rel.Kind, rel.Slug)})
		}

	case routes.RouteLocationIndex:
		p.Meta = routes.LocationIndexMeta(s.site)
		p.Crumbs = []render.Crumb{home, county}
		p.LinksHeading = "Towns"
		for _, city := range s.cat.Cities() {
			p.Links = append(p.Links, render.Link{Title: city.Name, Path: routes.CityPath(city.Slug)})
		}

	case routes.RouteCity:
		city, ok := s.cat.City(route.CitySlug)
		if !ok {
			return p, fmt.Errorf("%w: %s", domain.ErrNotFound, route.Path)
		}
		p.Meta = routes.CityMeta(s.site, city)
		p.Crumbs = []render.Crumb{home, county, {Name: city.Name, Path: route.Path}}
		p.ContactCity = city.Name
		p.LinksHeading = "Services in " + city.Name
		for _, svc := range s.cat.Services() {
			p.Links = append(p.Links, render.Link{Title: svc.Name, Path: routes.LocationPath(city.Slug, svc.Slug), Note: svc.Title})
		}

	case routes.RouteLocation:
		city, ok := s.cat.City(route.CitySlug)
		if !ok {
			return p, fmt.Errorf("%w: %s", domain.ErrNotFound, route.Path)
		}
		content, ok := routes.ServiceContent(s.cat, route.ServiceSlug, city.Name)
		if !ok {
			return p, fmt.Errorf("%w: %s", domain.ErrNotFound, route.Path)
		}
		p.Meta = routes.LocationMeta(s.site, city, content.Service)
		p.Crumbs = []render.Crumb{home, county, {Name: city.Name, Path: routes.CityPath(city.Slug)}, {Name: content.Service.Name, Path: route.Path}}
		p.Intro = content.Intro
		p.Lists = []render.List{
			{Heading: "Why book with us", Items: content.Benefits},
			{Heading: "Ideal for", Items: content.IdealFor},
		}
		p.FAQs = schema.LocationFAQs(s.site, content)
		p.ContactService = content.Service.Name
		p.ContactCity = city.Name
		p.LinksHeading = "More services in " + city.Name
		for _, svc := range s.cat.Services() {
			if svc.Slug == content.Service.Slug {
				continue
			}
			p.Links = append(p.Links, render.Link{Title: svc.Name, Path: routes.LocationPath(city.Slug, svc.Slug)})
		}

	default:
		return p, fmt.Errorf("%w: %s", domain.ErrNotFound, route.Path)
	}
	return p, nil
}

// categoryLabel turns a category slug such as "all-inclusive" into a heading.
func categoryLabel(cat string) string {
	words := strings.Fields(strings.ReplaceAll(cat, "-", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func servingLine(b domain.Business) string {
	if b.FoundingYear > 0 {
		return fmt.Sprintf("Serving %s since %d", schema.Region(b), b.FoundingYear)
	}
	return "Serving " + schema.Region(b)
}
