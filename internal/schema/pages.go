package schema

import (
	"fmt"
	"strings"

	"essex_travel/internal/catalog"
	"essex_travel/internal/domain"
	"essex_travel/internal/routes"
)

// LocationFAQs are the questions shown, and marked up, on a city × service
// page.
func LocationFAQs(b domain.Business, content routes.Content) []domain.FAQ {
	svc := strings.ToLower(content.Service.Name)
	out := []domain.FAQ{{
		Question: fmt.Sprintf("Do you offer %s in %s?", svc, content.CityName),
		Answer:   content.Intro,
	}}
	if len(content.IdealFor) > 0 {
		out = append(out, domain.FAQ{
			Question: fmt.Sprintf("Who is %s in %s best suited for?", svc, content.CityName),
			Answer:   "It suits " + joinList(content.IdealFor) + ".",
		})
	}
	out = append(out, domain.FAQ{
		Question: fmt.Sprintf("How do I reach a travel agent from %s?", content.CityName),
		Answer: fmt.Sprintf("Call %s or send a request from this page. Our office is at %s, %s.",
			b.Telephone, b.Address.Street, b.Address.Locality),
	})
	return out
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}

// LocationPage is the graph of a city × service page: the town business,
// the service, a booking action and the page FAQ.
func LocationPage(b domain.Business, c *catalog.Catalog, townName, serviceSlug string) (Graph, error) {
	town, err := TownBusiness(b, c, townName)
	if err != nil {
		return Graph{}, err
	}
	city, _ := c.CityByName(townName)
	content, ok := routes.ServiceContent(c, serviceSlug, city.Name)
	if !ok {
		return Graph{}, fmt.Errorf("%w: service %q", domain.ErrNotFound, serviceSlug)
	}
	svc := NewService(b, content.Service, &city)
	svc.Description = content.Intro
	return NewGraph(
		town,
		svc,
		NewReserveAction(absURL(b, routes.LocationPath(city.Slug, serviceSlug))+"#book"),
		NewFAQPage(LocationFAQs(b, content)),
	), nil
}

// HomePage is the graph of the site index.
func HomePage(b domain.Business, c *catalog.Catalog) (Graph, error) {
	biz, err := Business(b, c)
	if err != nil {
		return Graph{}, err
	}
	return NewGraph(biz, NewReserveAction(absURL(b, "/#book"))), nil
}

// CityPage is the graph of a city hub listing every service.
func CityPage(b domain.Business, c *catalog.Catalog, citySlug string) (Graph, error) {
	city, ok := c.City(citySlug)
	if !ok {
		return Graph{}, fmt.Errorf("%w: city %q", domain.ErrNotFound, citySlug)
	}
	town, err := TownBusiness(b, c, city.Name)
	if err != nil {
		return Graph{}, err
	}
	var items []Crumb
	for _, svc := range c.Services() {
		items = append(items, Crumb{Name: svc.Name + " in " + city.Name, Path: routes.LocationPath(city.Slug, svc.Slug)})
	}
	return NewGraph(
		town,
		listing(b, "Travel services in "+city.Name, items),
		Breadcrumbs(b, []Crumb{
			{Name: "Home", Path: "/"},
			{Name: "Essex County", Path: routes.LocationsPrefix},
			{Name: city.Name, Path: routes.CityPath(city.Slug)},
		}),
	), nil
}

// LocationIndexPage lists every town served.
func LocationIndexPage(b domain.Business, c *catalog.Catalog) Graph {
	var items []Crumb
	for _, city := range c.Cities() {
		items = append(items, Crumb{Name: city.Name, Path: routes.CityPath(city.Slug)})
	}
	return NewGraph(
		listing(b, "Towns we serve", items),
		Breadcrumbs(b, []Crumb{{Name: "Home", Path: "/"}, {Name: "Essex County", Path: routes.LocationsPrefix}}),
	)
}

// CollectionPage lists every entity of one kind.
func CollectionPage(b domain.Business, c *catalog.Catalog, kind domain.Kind) Graph {
	var items []Crumb
	for _, e := range c.Entities(kind) {
		items = append(items, Crumb{Name: e.Title, Path: routes.EntityPath(kind, e.Slug)})
	}
	return NewGraph(
		listing(b, kind.Label(), items),
		Breadcrumbs(b, []Crumb{{Name: "Home", Path: "/"}, {Name: kind.Label(), Path: kind.Prefix()}}),
	)
}

// EntityPage picks the main node for the entity's kind and adds its FAQ and
// breadcrumbs.
func EntityPage(b domain.Business, e domain.Entity) Graph {
	var nodes []Node
	switch e.Kind {
	case domain.KindCruiseNeighborhood, domain.KindDisneyRoom, domain.KindTravelGuide:
		nodes = append(nodes, NewArticle(b, e))
	case domain.KindCruiseShip:
		nodes = append(nodes, Vessel(b, e))
	case domain.KindDeal:
		nodes = append(nodes, Deal(b, e))
	case domain.KindPackage:
		nodes = append(nodes, Trip(b, e), NewReserveAction(absURL(b, routes.PackagePath(e.Slug))+"#book"))
	}
	if len(e.FAQs) > 0 {
		nodes = append(nodes, NewFAQPage(e.FAQs))
	}
	nodes = append(nodes, Breadcrumbs(b, []Crumb{
		{Name: "Home", Path: "/"},
		{Name: e.Kind.Label(), Path: e.Kind.Prefix()},
		{Name: e.Title, Path: routes.EntityPath(e.Kind, e.Slug)},
	}))
	return NewGraph(nodes...)
}
