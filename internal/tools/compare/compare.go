// Package compare builds side-by-side tables of up to MaxShips cruise ships.
package compare

import (
	"errors"
	"fmt"
	"strconv"

	"essex_travel/internal/catalog"
	"essex_travel/internal/domain"
)

const MaxShips = 3

var (
	ErrFull      = fmt.Errorf("at most %d ships can be compared", MaxShips)
	ErrDuplicate = errors.New("ship already selected")
	ErrUnknown   = errors.New("unknown ship")
)

type Selection struct {
	Ships []string `json:"ships"`
}

func Default() Selection { return Selection{Ships: []string{}} }

func (s *Selection) Check() error {
	if len(s.Ships) > MaxShips {
		return ErrFull
	}
	seen := map[string]bool{}
	for _, slug := range s.Ships {
		if seen[slug] {
			return fmt.Errorf("%w: %s", ErrDuplicate, slug)
		}
		seen[slug] = true
	}
	return nil
}

// Add selects a catalog ship.
func (s *Selection) Add(c *catalog.Catalog, slug string) error {
	if !c.IsValidEntitySlug(domain.KindCruiseShip, slug) {
		return fmt.Errorf("%w: %s", ErrUnknown, slug)
	}
	for _, have := range s.Ships {
		if have == slug {
			return fmt.Errorf("%w: %s", ErrDuplicate, slug)
		}
	}
	if len(s.Ships) >= MaxShips {
		return ErrFull
	}
	s.Ships = append(s.Ships, slug)
	return nil
}

func (s *Selection) Remove(slug string) bool {
	for i, have := range s.Ships {
		if have == slug {
			s.Ships = append(s.Ships[:i], s.Ships[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Selection) Clear() { s.Ships = []string{} }

type Row struct {
	Attribute string   `json:"attribute"`
	Values    []string `json:"values"`
}

type Table struct {
	Ships []string `json:"ships"` // display titles, one column each
	Slugs []string `json:"slugs"`
	Rows  []Row    `json:"rows"`
}

// Build lays the selected ships out in columns. Slugs that are no longer in
// the catalog are skipped.
func Build(c *catalog.Catalog, s Selection) Table {
	var ships []domain.Entity
	for _, slug := range s.Ships {
		if e, ok := c.Entity(domain.KindCruiseShip, slug); ok {
			ships = append(ships, e)
		}
	}
	t := Table{}
	for _, e := range ships {
		t.Ships = append(t.Ships, e.Title)
		t.Slugs = append(t.Slugs, e.Slug)
	}
	attrs := []struct {
		name string
		get  func(domain.Entity) string
	}{
		{"Cruise line", func(e domain.Entity) string { return spec(e, func(s *domain.ShipSpec) string { return s.Line }) }},
		{"Year built", func(e domain.Entity) string { return spec(e, func(s *domain.ShipSpec) string { return itoa(s.Year) }) }},
		{"Gross tonnage", func(e domain.Entity) string { return spec(e, func(s *domain.ShipSpec) string { return itoa(s.Tonnage) }) }},
		{"Passengers", func(e domain.Entity) string { return spec(e, func(s *domain.ShipSpec) string { return itoa(s.Passengers) }) }},
		{"Decks", func(e domain.Entity) string { return spec(e, func(s *domain.ShipSpec) string { return itoa(s.Decks) }) }},
		{"Homeport", func(e domain.Entity) string { return spec(e, func(s *domain.ShipSpec) string { return s.Homeport }) }},
		{"Guest rating", func(e domain.Entity) string {
			if e.Rating == nil {
				return "-"
			}
			return strconv.FormatFloat(e.Rating.Value, 'f', 1, 64) + " / 5"
		}},
	}
	for _, a := range attrs {
		row := Row{Attribute: a.name, Values: make([]string, 0, len(ships))}
		for _, e := range ships {
			row.Values = append(row.Values, a.get(e))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func spec(e domain.Entity, f func(*domain.ShipSpec) string) string {
	if e.Ship == nil {
		return "-"
	}
	return f(e.Ship)
}

func itoa(n int) string {
	if n == 0 {
		return "-"
	}
	return strconv.Itoa(n)
}
