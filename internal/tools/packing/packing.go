// Package packing generates cruise and vacation packing checklists from a
// destination, a season, the number of formal nights and custom items.
package packing

import (
	"errors"
	"fmt"
	"strings"
)

const (
	CategoryDocuments   = "Documents"
	CategoryClothing    = "Clothing"
	CategoryToiletries  = "Toiletries"
	CategoryElectronics = "Electronics"
	CategoryHealth      = "Health"
	CategoryDestination = "Destination"
	CategoryFormal      = "Formal Nights"
	CategorySeason      = "Weather"
	CategoryCustom      = "Custom"
)

type climate int

const (
	tropical climate = iota + 1
	temperate
	cold
	theme
)

type destination struct {
	key     string
	name    string
	climate climate
	items   []string
}

var destinations = []destination{
	{"caribbean", "Caribbean", tropical, []string{"Reef-safe sunscreen", "Snorkel mask", "Water shoes", "Beach bag"}},
	{"bahamas", "Bahamas", tropical, []string{"Reef-safe sunscreen", "Beach cover-up", "Waterproof phone pouch"}},
	{"mexico", "Mexico", tropical, []string{"Reef-safe sunscreen", "Wide-brim hat", "Small bills for tipping"}},
	{"bermuda", "Bermuda", temperate, []string{"Light rain jacket", "Beach towel clips", "Bus and ferry pass"}},
	{"alaska", "Alaska", cold, []string{"Waterproof shell", "Binoculars", "Fleece mid-layer", "Warm gloves"}},
	{"europe", "Europe", temperate, []string{"Power adapter (Type C)", "Comfortable walking shoes", "Shoulder cover for churches"}},
	{"disney", "Walt Disney World", theme, []string{"Park day bag", "Portable phone charger", "Poncho", "Autograph book"}},
}

// Destinations lists the destination keys accepted by Generate.
func Destinations() []string {
	out := make([]string, 0, len(destinations))
	for _, d := range destinations {
		out = append(out, d.key)
	}
	return out
}

func lookup(key string) (destination, bool) {
	for _, d := range destinations {
		if d.key == key {
			return d, true
		}
	}
	return destination{}, false
}

var seasons = []string{"spring", "summer", "fall", "winter"}

func Seasons() []string { return append([]string(nil), seasons...) }

var base = []struct {
	category string
	items    []string
}{
	{CategoryDocuments, []string{"Passport", "Cruise or hotel confirmation", "Travel insurance card", "Credit cards"}},
	{CategoryClothing, []string{"Casual day outfits", "Swimsuit", "Sleepwear", "Comfortable sandals"}},
	{CategoryToiletries, []string{"Toothbrush and toothpaste", "Shampoo", "Deodorant", "Sunglasses"}},
	{CategoryElectronics, []string{"Phone charger", "Non-surge power strip"}},
	{CategoryHealth, []string{"Prescription medications", "Seasickness remedy", "First-aid kit"}},
}

var formal = []string{"Formal dinner outfit", "Dress shoes", "Suit jacket or cocktail dress", "Formal accessories"}

// FormalItems is the set added when the trip has at least one formal night.
func FormalItems() []string { return append([]string(nil), formal...) }

func seasonal(c climate, season string) []string {
	switch c {
	case tropical:
		if season == "summer" || season == "fall" {
			return []string{"Hurricane-season travel insurance check", "Insect repellent"}
		}
		return []string{"Light sweater for evenings"}
	case cold:
		if season == "summer" {
			return []string{"Layered base layers", "Knit hat"}
		}
		return []string{"Insulated parka", "Thermal base layers", "Knit hat"}
	case temperate:
		if season == "winter" || season == "spring" {
			return []string{"Packable umbrella", "Light jacket"}
		}
		return []string{"Packable umbrella"}
	case theme:
		if season == "summer" {
			return []string{"Cooling towel", "Refillable water bottle"}
		}
		return []string{"Refillable water bottle", "Light jacket"}
	}
	return nil
}

type Inputs struct {
	Destination  string   `json:"destination"`
	FormalNights int      `json:"formal_nights"`
	Season       string   `json:"season"`
	CustomItems  []string `json:"custom_items"`
}

// Check rejects inputs Generate cannot honor.
func (in Inputs) Check() error {
	var errs []error
	if in.Destination != "" {
		if _, ok := lookup(in.Destination); !ok {
			errs = append(errs, fmt.Errorf("unknown destination %q", in.Destination))
		}
	}
	if in.FormalNights < 0 {
		errs = append(errs, fmt.Errorf("formal nights must not be negative, got %d", in.FormalNights))
	}
	if in.Season != "" {
		known := false
		for _, s := range seasons {
			known = known || s == in.Season
		}
		if !known {
			errs = append(errs, fmt.Errorf("unknown season %q", in.Season))
		}
	}
	return errors.Join(errs...)
}

type Item struct {
	Text     string `json:"text"`
	Category string `json:"category"`
	Checked  bool   `json:"checked"`
}

// Generate builds the unchecked list for in. Items are unique by text; the
// first axis to name an item owns it.
func Generate(in Inputs) []Item {
	var out []Item
	seen := map[string]bool{}
	add := func(category string, texts ...string) {
		for _, t := range texts {
			t = strings.TrimSpace(t)
			if t == "" || seen[strings.ToLower(t)] {
				continue
			}
			seen[strings.ToLower(t)] = true
			out = append(out, Item{Text: t, Category: category})
		}
	}

	for _, b := range base {
		add(b.category, b.items...)
	}
	d, ok := lookup(in.Destination)
	if ok {
		add(CategoryDestination, d.items...)
	}
	if in.FormalNights > 0 {
		add(CategoryFormal, formal...)
	}
	if ok && in.Season != "" {
		add(CategorySeason, seasonal(d.climate, in.Season)...)
	}
	add(CategoryCustom, in.CustomItems...)
	return out
}

// Checklist is the persisted tool state.
type Checklist struct {
	Inputs Inputs `json:"inputs"`
	Items  []Item `json:"items"`
}

func New(in Inputs) Checklist {
	return Checklist{Inputs: in, Items: Generate(in)}
}

func Default() Checklist { return New(Inputs{}) }

func (c *Checklist) Check() error { return c.Inputs.Check() }

// Regenerate rebuilds the list for new inputs. Items that survive keep
// their checked state, matched by text.
func (c *Checklist) Regenerate(in Inputs) {
	checked := make(map[string]bool, len(c.Items))
	for _, it := range c.Items {
		if it.Checked {
			checked[strings.ToLower(it.Text)] = true
		}
	}
	items := Generate(in)
	for i := range items {
		items[i].Checked = checked[strings.ToLower(items[i].Text)]
	}
	c.Inputs = in
	c.Items = items
}

// Toggle flips the item with text and reports whether it exists.
func (c *Checklist) Toggle(text string) bool {
	for i := range c.Items {
		if strings.EqualFold(c.Items[i].Text, text) {
			c.Items[i].Checked = !c.Items[i].Checked
			return true
		}
	}
	return false
}

// AddCustom appends a custom item and regenerates.
func (c *Checklist) AddCustom(text string) {
	in := c.Inputs
	in.CustomItems = append(append([]string(nil), in.CustomItems...), text)
	c.Regenerate(in)
}

func (c Checklist) Progress() (done, total int) {
	for _, it := range c.Items {
		if it.Checked {
			done++
		}
	}
	return done, len(c.Items)
}
