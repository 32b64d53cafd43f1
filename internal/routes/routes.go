// Package routes enumerates every static page of the site and maps request
// paths back onto catalog records.
package routes

import (
	"strings"

	"essex_travel/internal/catalog"
	"essex_travel/internal/domain"
)

// LocationsPrefix is the parent path of every city × service page.
const LocationsPrefix = "/locations/essex-county"

// ValidSegment reports whether s may appear as one path segment. Segments
// follow the catalog slug rule.
func ValidSegment(s string) bool {
	return catalog.ValidSlug(s)
}

type RouteKind int

const (
	RouteHome RouteKind = iota + 1
	RouteCollection
	RouteEntity
	RouteLocationIndex
	RouteCity
	RouteLocation
)

func (k RouteKind) String() string {
	switch k {
	case RouteHome:
		return "home"
	case RouteCollection:
		return "collection"
	case RouteEntity:
		return "entity"
	case RouteLocationIndex:
		return "location_index"
	case RouteCity:
		return "city"
	case RouteLocation:
		return "location"
	}
	return "unknown"
}

// Route describes one static page.
type Route struct {
	Kind        RouteKind
	Path        string
	Collection  domain.Kind // RouteCollection, RouteEntity
	Slug        string      // RouteEntity
	CitySlug    string      // RouteCity, RouteLocation
	ServiceSlug string      // RouteLocation
}

// Combination is the parameter record of one city × service page.
type Combination struct {
	CitySlug    string `json:"city"`
	ServiceSlug string `json:"service"`
}

func (c Combination) Path() string {
	return LocationPath(c.CitySlug, c.ServiceSlug)
}

// Combinations returns the full city × service product, city-major in
// catalog order, so every build emits the same sequence.
func Combinations(c *catalog.Catalog) []Combination {
	cities := c.Cities()
	services := c.Services()
	out := make([]Combination, 0, len(cities)*len(services))
	for _, city := range cities {
		for _, svc := range services {
			out = append(out, Combination{CitySlug: city.Slug, ServiceSlug: svc.Slug})
		}
	}
	return out
}

func EntityPath(kind domain.Kind, slug string) string {
	return kind.Prefix() + "/" + slug
}

func CityPath(citySlug string) string {
	return LocationsPrefix + "/" + citySlug
}

func LocationPath(citySlug, serviceSlug string) string {
	return LocationsPrefix + "/" + citySlug + "/" + serviceSlug
}

func PackagePath(packageType string) string {
	return EntityPath(domain.KindPackage, packageType)
}

func DealPath(slug string) string {
	return EntityPath(domain.KindDeal, slug)
}

// All lists every page of the site: home, collection indexes, entity pages,
// the locations index, one page per city and one per combination.
func All(c *catalog.Catalog) []Route {
	out := []Route{{Kind: RouteHome, Path: "/"}}
	for _, kind := range domain.Kinds() {
		out = append(out, Route{Kind: RouteCollection, Path: kind.Prefix(), Collection: kind})
		for _, e := range c.Entities(kind) {
			out = append(out, Route{
				Kind:       RouteEntity,
				Path:       EntityPath(kind, e.Slug),
				Collection: kind,
				Slug:       e.Slug,
			})
		}
	}
	out = append(out, Route{Kind: RouteLocationIndex, Path: LocationsPrefix})
	for _, city := range c.Cities() {
		out = append(out, Route{Kind: RouteCity, Path: CityPath(city.Slug), CitySlug: city.Slug})
	}
	for _, combo := range Combinations(c) {
		out = append(out, Route{
			Kind:        RouteLocation,
			Path:        combo.Path(),
			CitySlug:    combo.CitySlug,
			ServiceSlug: combo.ServiceSlug,
		})
	}
	return out
}

// Resolve maps a request path onto a route. Unknown or malformed paths miss.
func Resolve(c *catalog.Catalog, path string) (Route, bool) {
	if path == "" || path == "/" {
		return Route{Kind: RouteHome, Path: "/"}, true
	}
	path = strings.TrimSuffix(path, "/")

	if path == LocationsPrefix {
		return Route{Kind: RouteLocationIndex, Path: path}, true
	}
	if rest, ok := strings.CutPrefix(path, LocationsPrefix+"/"); ok {
		parts := strings.Split(rest, "/")
		for _, p := range parts {
			if !ValidSegment(p) {
				return Route{}, false
			}
		}
		switch len(parts) {
		case 1:
			if !c.IsValidCitySlug(parts[0]) {
				return Route{}, false
			}
			return Route{Kind: RouteCity, Path: path, CitySlug: parts[0]}, true
		case 2:
			if !c.IsValidCitySlug(parts[0]) || !c.IsValidServiceSlug(parts[1]) {
				return Route{}, false
			}
			return Route{Kind: RouteLocation, Path: path, CitySlug: parts[0], ServiceSlug: parts[1]}, true
		}
		return Route{}, false
	}

	for _, kind := range domain.Kinds() {
		prefix := kind.Prefix()
		if path == prefix {
			return Route{Kind: RouteCollection, Path: path, Collection: kind}, true
		}
		slug, ok := strings.CutPrefix(path, prefix+"/")
		if !ok {
			continue
		}
		if !ValidSegment(slug) || !c.IsValidEntitySlug(kind, slug) {
			return Route{}, false
		}
		return Route{Kind: RouteEntity, Path: path, Collection: kind, Slug: slug}, true
	}
	return Route{}, false
}
