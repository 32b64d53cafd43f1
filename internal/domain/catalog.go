package domain

import (
	"fmt"
	"strings"
)

// Priority ranks a content entity for crawl scheduling.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "HIGH"
	case PriorityMedium:
		return "MEDIUM"
	case PriorityLow:
		return "LOW"
	}
	return "UNKNOWN"
}

// SitemapPriority maps the enum onto the fixed sitemap table.
func (p Priority) SitemapPriority() float64 {
	switch p {
	case PriorityHigh:
		return 0.9
	case PriorityMedium:
		return 0.7
	case PriorityLow:
		return 0.5
	}
	return 0.5
}

func (p Priority) MarshalText() ([]byte, error) {
	if p < PriorityLow || p > PriorityHigh {
		return nil, fmt.Errorf("invalid priority %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(b []byte) error {
	switch strings.ToUpper(strings.TrimSpace(string(b))) {
	case "HIGH":
		*p = PriorityHigh
	case "MEDIUM":
		*p = PriorityMedium
	case "LOW":
		*p = PriorityLow
	default:
		return fmt.Errorf("invalid priority %q (want HIGH, MEDIUM or LOW)", string(b))
	}
	return nil
}

// Kind names a content collection. Every kind owns a route prefix.
type Kind int

const (
	KindCruiseNeighborhood Kind = iota + 1
	KindDisneyRoom
	KindTravelGuide
	KindCruiseShip
	KindDeal
	KindPackage
)

// Kinds lists every collection in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindCruiseNeighborhood,
		KindDisneyRoom,
		KindTravelGuide,
		KindCruiseShip,
		KindDeal,
		KindPackage,
	}
}

func (k Kind) String() string {
	switch k {
	case KindCruiseNeighborhood:
		return "cruise-neighborhoods"
	case KindDisneyRoom:
		return "disney-rooms"
	case KindTravelGuide:
		return "travel-guides"
	case KindCruiseShip:
		return "cruise-ships"
	case KindDeal:
		return "deals"
	case KindPackage:
		return "packages"
	}
	return "unknown"
}

// Prefix is the URL path under which entities of this kind are served.
func (k Kind) Prefix() string {
	switch k {
	case KindCruiseNeighborhood:
		return "/guides/cruise-neighborhoods"
	case KindDisneyRoom:
		return "/guides/disney-rooms"
	case KindTravelGuide:
		return "/travel-guides"
	case KindCruiseShip:
		return "/cruise-ships"
	case KindDeal:
		return "/deals"
	case KindPackage:
		return "/packages"
	}
	return ""
}

// Label is the human-readable collection name used in breadcrumbs.
func (k Kind) Label() string {
	switch k {
	case KindCruiseNeighborhood:
		return "Cruise Neighborhoods"
	case KindDisneyRoom:
		return "Disney Room Guides"
	case KindTravelGuide:
		return "Travel Guides"
	case KindCruiseShip:
		return "Cruise Ships"
	case KindDeal:
		return "Travel Deals"
	case KindPackage:
		return "Vacation Packages"
	}
	return ""
}

func (k Kind) MarshalText() ([]byte, error) {
	if k.Prefix() == "" {
		return nil, fmt.Errorf("invalid kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, ok := ParseKind(string(b))
	if !ok {
		return fmt.Errorf("invalid kind %q", string(b))
	}
	*k = parsed
	return nil
}

// ParseKind accepts the collection name as produced by Kind.String.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds() {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

type Coords struct {
	Lat float64 `yaml:"lat" json:"lat"`
	Lng float64 `yaml:"lng" json:"lng"`
}

// City is a town the agency serves.
type City struct {
	Slug       string `yaml:"slug" json:"slug"`
	Name       string `yaml:"name" json:"name"`
	Population int    `yaml:"population" json:"population"`
	Coords     Coords `yaml:"coordinates" json:"coordinates"`
	PostalCode string `yaml:"postal_code" json:"postal_code"`
}

// Service is one line of business offered in every city.
type Service struct {
	Slug        string   `yaml:"slug" json:"slug"`
	Name        string   `yaml:"name" json:"name"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Keywords    []string `yaml:"keywords" json:"keywords"`
	Benefits    []string `yaml:"benefits" json:"benefits"`
	IdealFor    []string `yaml:"ideal_for" json:"ideal_for"`
	// Overrides holds city-specific copy keyed by city slug.
	Overrides map[string]string `yaml:"overrides" json:"overrides,omitempty"`
}

type Hero struct {
	Headline    string `yaml:"headline" json:"headline"`
	Subheadline string `yaml:"subheadline" json:"subheadline"`
	Image       string `yaml:"image" json:"image,omitempty"`
}

// Section body is markdown.
type Section struct {
	Heading string `yaml:"heading" json:"heading"`
	Body    string `yaml:"body" json:"body"`
}

type FAQ struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

type Rating struct {
	Value float64 `yaml:"value" json:"value"`
	Count int     `yaml:"count" json:"count"`
}

type Offer struct {
	Price        float64 `yaml:"price" json:"price"`
	Currency     string  `yaml:"currency" json:"currency"`
	ValidThrough string  `yaml:"valid_through" json:"valid_through,omitempty"`
	Nights       int     `yaml:"nights" json:"nights,omitempty"`
	Departure    string  `yaml:"departure" json:"departure,omitempty"`
}

// ShipSpec carries the comparison attributes of a cruise ship.
type ShipSpec struct {
	Line       string `yaml:"line" json:"line"`
	Year       int    `yaml:"year" json:"year"`
	Tonnage    int    `yaml:"tonnage" json:"tonnage"`
	Passengers int    `yaml:"passengers" json:"passengers"`
	Decks      int    `yaml:"decks" json:"decks"`
	Homeport   string `yaml:"homeport" json:"homeport"`
}

// Entity is one piece of guide or deal content.
type Entity struct {
	Slug            string    `yaml:"slug" json:"slug"`
	Kind            Kind      `yaml:"-" json:"kind"`
	Title           string    `yaml:"title" json:"title"`
	MetaTitle       string    `yaml:"meta_title" json:"meta_title"`
	MetaDescription string    `yaml:"meta_description" json:"meta_description"`
	Keywords        []string  `yaml:"keywords" json:"keywords"`
	Priority        Priority  `yaml:"priority" json:"priority"`
	SearchVolume    *int      `yaml:"search_volume" json:"search_volume,omitempty"`
	Category        string    `yaml:"category" json:"category"`
	Updated         string    `yaml:"updated" json:"updated"`
	Hero            Hero      `yaml:"hero" json:"hero"`
	Sections        []Section `yaml:"sections" json:"sections"`
	FAQs            []FAQ     `yaml:"faqs" json:"faqs"`
	Pros            []string  `yaml:"pros" json:"pros,omitempty"`
	Cons            []string  `yaml:"cons" json:"cons,omitempty"`
	LocalTips       []string  `yaml:"local_tips" json:"local_tips,omitempty"`
	Related         []string  `yaml:"related" json:"related,omitempty"`
	Rating          *Rating   `yaml:"rating" json:"rating,omitempty"`
	Offer           *Offer    `yaml:"offer" json:"offer,omitempty"`
	Ship            *ShipSpec `yaml:"ship" json:"ship,omitempty"`
}

type PostalAddress struct {
	Street     string `yaml:"street" json:"street"`
	Locality   string `yaml:"locality" json:"locality"`
	Region     string `yaml:"region" json:"region"`
	PostalCode string `yaml:"postal_code" json:"postal_code"`
	Country    string `yaml:"country" json:"country"`
}

// Business is the agency profile every schema graph is anchored on.
type Business struct {
	Name          string        `yaml:"name"`
	Telephone     string        `yaml:"telephone"`
	Email         string        `yaml:"email"`
	URL           string        `yaml:"url"`
	Logo          string        `yaml:"logo"`
	Address       PostalAddress `yaml:"address"`
	Geo           Coords        `yaml:"geo"`
	PriceRange    string        `yaml:"price_range"`
	OpeningHours  []string      `yaml:"opening_hours"`
	Rating        *Rating       `yaml:"rating"`
	SameAs        []string      `yaml:"same_as"`
	FoundingYear  int           `yaml:"founding_year"`
	ServiceRegion string        `yaml:"service_region"`
	Testimonials  []Testimonial `yaml:"testimonials"`
}

// Testimonial is a published client review.
type Testimonial struct {
	Author string  `yaml:"author"`
	Town   string  `yaml:"town"`
	Rating float64 `yaml:"rating"`
	Body   string  `yaml:"body"`
	Date   string  `yaml:"date"`
}
