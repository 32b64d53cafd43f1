// Package catalog holds the immutable content universe of the site: the towns
// served, the services offered and every guide, ship, deal and package entry.
//
// A Catalog is built once (usually from the embedded YAML data) and then only
// read. Lookups that miss report ok=false and leave the decision about a
// "not found" response to the caller.
package catalog

import (
	"strings"

	"essex_travel/internal/domain"
)

type entityKey struct {
	kind domain.Kind
	slug string
}

type Catalog struct {
	cities   []domain.City
	services []domain.Service
	entities map[domain.Kind][]domain.Entity

	cityIndex    map[string]int
	cityByName   map[string]int
	serviceIndex map[string]int
	entityIndex  map[entityKey]int
}

// New indexes the given records. The first record wins when a slug repeats;
// Lint reports the duplicate.
func New(cities []domain.City, services []domain.Service, entities []domain.Entity) *Catalog {
	c := &Catalog{
		cities:       append([]domain.City(nil), cities...),
		services:     append([]domain.Service(nil), services...),
		entities:     make(map[domain.Kind][]domain.Entity),
		cityIndex:    make(map[string]int, len(cities)),
		cityByName:   make(map[string]int, len(cities)),
		serviceIndex: make(map[string]int, len(services)),
		entityIndex:  make(map[entityKey]int, len(entities)),
	}
	for i, city := range c.cities {
		if _, ok := c.cityIndex[city.Slug]; !ok {
			c.cityIndex[city.Slug] = i
		}
		name := strings.ToLower(strings.TrimSpace(city.Name))
		if _, ok := c.cityByName[name]; !ok {
			c.cityByName[name] = i
		}
	}
	for i, svc := range c.services {
		if _, ok := c.serviceIndex[svc.Slug]; !ok {
			c.serviceIndex[svc.Slug] = i
		}
	}
	for _, e := range entities {
		list := c.entities[e.Kind]
		key := entityKey{kind: e.Kind, slug: e.Slug}
		if _, ok := c.entityIndex[key]; !ok {
			c.entityIndex[key] = len(list)
		}
		c.entities[e.Kind] = append(list, e)
	}
	return c
}

func (c *Catalog) Cities() []domain.City {
	return append([]domain.City(nil), c.cities...)
}

func (c *Catalog) Services() []domain.Service {
	return append([]domain.Service(nil), c.services...)
}

// Entities returns the collection of the given kind in catalog order.
func (c *Catalog) Entities(kind domain.Kind) []domain.Entity {
	return append([]domain.Entity(nil), c.entities[kind]...)
}

func (c *Catalog) City(slug string) (domain.City, bool) {
	i, ok := c.cityIndex[slug]
	if !ok {
		return domain.City{}, false
	}
	return c.cities[i], true
}

// CityByName matches the display name case-insensitively.
func (c *Catalog) CityByName(name string) (domain.City, bool) {
	i, ok := c.cityByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return domain.City{}, false
	}
	return c.cities[i], true
}

func (c *Catalog) Service(slug string) (domain.Service, bool) {
	i, ok := c.serviceIndex[slug]
	if !ok {
		return domain.Service{}, false
	}
	return c.services[i], true
}

func (c *Catalog) Entity(kind domain.Kind, slug string) (domain.Entity, bool) {
	i, ok := c.entityIndex[entityKey{kind: kind, slug: slug}]
	if !ok {
		return domain.Entity{}, false
	}
	return c.entities[kind][i], true
}

func (c *Catalog) IsValidCitySlug(slug string) bool {
	_, ok := c.cityIndex[slug]
	return ok
}

func (c *Catalog) IsValidServiceSlug(slug string) bool {
	_, ok := c.serviceIndex[slug]
	return ok
}

func (c *Catalog) IsValidEntitySlug(kind domain.Kind, slug string) bool {
	_, ok := c.entityIndex[entityKey{kind: kind, slug: slug}]
	return ok
}

// ByCategory filters a collection by its category label (case-insensitive).
func (c *Catalog) ByCategory(kind domain.Kind, category string) []domain.Entity {
	var out []domain.Entity
	for _, e := range c.entities[kind] {
		if strings.EqualFold(e.Category, category) {
			out = append(out, e)
		}
	}
	return out
}

// Categories lists the distinct categories of a collection in first-seen order.
func (c *Catalog) Categories(kind domain.Kind) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range c.entities[kind] {
		key := strings.ToLower(e.Category)
		if e.Category == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e.Category)
	}
	return out
}

// Related returns up to limit entities of the same kind: explicitly related
// slugs first (unknown ones are skipped), then same-category entries in
// catalog order.
func (c *Catalog) Related(kind domain.Kind, slug string, limit int) []domain.Entity {
	self, ok := c.Entity(kind, slug)
	if !ok || limit <= 0 {
		return nil
	}
	picked := map[string]struct{}{slug: {}}
	out := make([]domain.Entity, 0, limit)
	add := func(e domain.Entity) {
		if len(out) >= limit {
			return
		}
		if _, dup := picked[e.Slug]; dup {
			return
		}
		picked[e.Slug] = struct{}{}
		out = append(out, e)
	}
	for _, r := range self.Related {
		if e, ok := c.Entity(kind, r); ok {
			add(e)
		}
	}
	if self.Category != "" {
		for _, e := range c.entities[kind] {
			if strings.EqualFold(e.Category, self.Category) {
				add(e)
			}
		}
	}
	return out
}
