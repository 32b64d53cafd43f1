// Package schema builds the schema.org JSON-LD documents embedded in every
// page and checks them against the fields search engines require.
package schema

import (
	"encoding/json"
	"fmt"
)

// Context is the JSON-LD vocabulary of every document.
const Context = "https://schema.org"

// ServiceRadius is the reach declared by every per-town business node.
const ServiceRadius = "25 mi"

// Types is a JSON-LD @type. A single type marshals as a bare string.
type Types []string

func (t Types) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return json.Marshal(t[0])
	}
	return json.Marshal([]string(t))
}

func (t *Types) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*t = Types{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("@type: %w", err)
	}
	*t = many
	return nil
}

func (t Types) Has(name string) bool {
	for _, s := range t {
		if s == name {
			return true
		}
	}
	return false
}

// Node is a top-level schema object. Nodes stand alone with an @context or
// sit inside a Graph without one.
type Node interface {
	inGraph() Node
}

// Base carries the JSON-LD keywords shared by every node.
type Base struct {
	Context string `json:"@context,omitempty"`
	Type    Types  `json:"@type"`
	ID      string `json:"@id,omitempty"`
}

// Thing is the smallest typed reference: a type and a name.
type Thing struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type PostalAddress struct {
	Type            string `json:"@type"`
	StreetAddress   string `json:"streetAddress"`
	AddressLocality string `json:"addressLocality"`
	AddressRegion   string `json:"addressRegion"`
	PostalCode      string `json:"postalCode"`
	AddressCountry  string `json:"addressCountry,omitempty"`
}

type GeoCoordinates struct {
	Type      string  `json:"@type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type GeoCircle struct {
	Type        string         `json:"@type"`
	GeoMidpoint GeoCoordinates `json:"geoMidpoint"`
	GeoRadius   string         `json:"geoRadius"`
}

type Place struct {
	Type string          `json:"@type"`
	Name string          `json:"name"`
	Geo  *GeoCoordinates `json:"geo,omitempty"`
}

type AggregateRating struct {
	Type        string  `json:"@type"`
	RatingValue float64 `json:"ratingValue"`
	ReviewCount int     `json:"reviewCount"`
	BestRating  int     `json:"bestRating"`
	WorstRating int     `json:"worstRating"`
}

type Rating struct {
	Type        string  `json:"@type"`
	RatingValue float64 `json:"ratingValue"`
	BestRating  int     `json:"bestRating"`
	WorstRating int     `json:"worstRating"`
}

type Review struct {
	Type            string `json:"@type"`
	Author          Thing  `json:"author"`
	ReviewRating    Rating `json:"reviewRating"`
	ReviewBody      string `json:"reviewBody"`
	DatePublished   string `json:"datePublished,omitempty"`
	LocationCreated *Thing `json:"locationCreated,omitempty"`
}

// Organization references the agency from nested positions such as
// provider, author or seller.
type Organization struct {
	Type      Types  `json:"@type"`
	ID        string `json:"@id,omitempty"`
	Name      string `json:"name"`
	Telephone string `json:"telephone,omitempty"`
	URL       string `json:"url,omitempty"`
	Logo      string `json:"logo,omitempty"`
}

type LocalBusiness struct {
	Base
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	URL             string           `json:"url,omitempty"`
	Telephone       string           `json:"telephone"`
	Email           string           `json:"email,omitempty"`
	Logo            string           `json:"logo,omitempty"`
	PriceRange      string           `json:"priceRange,omitempty"`
	Address         PostalAddress    `json:"address"`
	Geo             *GeoCoordinates  `json:"geo,omitempty"`
	AreaServed      any              `json:"areaServed,omitempty"` // []Place or Place
	ServiceArea     *GeoCircle       `json:"serviceArea,omitempty"`
	OpeningHours    []string         `json:"openingHours,omitempty"`
	AggregateRating *AggregateRating `json:"aggregateRating,omitempty"`
	Review          []Review         `json:"review,omitempty"`
	SameAs          []string         `json:"sameAs,omitempty"`
	FoundingDate    string           `json:"foundingDate,omitempty"`
}

type CatalogOffer struct {
	Type        string `json:"@type"`
	ItemOffered Thing  `json:"itemOffered"`
}

type OfferCatalog struct {
	Type            string         `json:"@type"`
	Name            string         `json:"name"`
	ItemListElement []CatalogOffer `json:"itemListElement"`
}

type Service struct {
	Base
	Name            string        `json:"name"`
	Description     string        `json:"description,omitempty"`
	ServiceType     string        `json:"serviceType"`
	URL             string        `json:"url,omitempty"`
	Provider        Organization  `json:"provider"`
	AreaServed      Place         `json:"areaServed"`
	HasOfferCatalog *OfferCatalog `json:"hasOfferCatalog,omitempty"`
}

type Answer struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

type Question struct {
	Type           string `json:"@type"`
	Name           string `json:"name"`
	AcceptedAnswer Answer `json:"acceptedAnswer"`
}

type FAQPage struct {
	Base
	MainEntity []Question `json:"mainEntity"`
}

type EntryPoint struct {
	Type           string   `json:"@type"`
	URLTemplate    string   `json:"urlTemplate"`
	InLanguage     string   `json:"inLanguage,omitempty"`
	ActionPlatform []string `json:"actionPlatform,omitempty"`
}

// Action is a potential action such as ReserveAction.
type Action struct {
	Base
	Name   string     `json:"name,omitempty"`
	Target EntryPoint `json:"target"`
	Result *Thing     `json:"result,omitempty"`
}

type ListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item,omitempty"`
}

// ItemList backs both BreadcrumbList and collection listings.
type ItemList struct {
	Base
	Name            string     `json:"name,omitempty"`
	ItemListElement []ListItem `json:"itemListElement"`
}

type Article struct {
	Base
	Headline         string       `json:"headline"`
	Description      string       `json:"description,omitempty"`
	Keywords         string       `json:"keywords,omitempty"`
	ArticleSection   string       `json:"articleSection,omitempty"`
	DateModified     string       `json:"dateModified,omitempty"`
	Image            string       `json:"image,omitempty"`
	MainEntityOfPage string       `json:"mainEntityOfPage,omitempty"`
	Author           Organization `json:"author"`
	Publisher        Organization `json:"publisher"`
}

type Offer struct {
	Type          string        `json:"@type"`
	Price         float64       `json:"price"`
	PriceCurrency string        `json:"priceCurrency"`
	ValidThrough  string        `json:"validThrough,omitempty"`
	Availability  string        `json:"availability,omitempty"`
	URL           string        `json:"url,omitempty"`
	Seller        *Organization `json:"seller,omitempty"`
}

type PropertyValue struct {
	Type  string `json:"@type"`
	Name  string `json:"name"`
	Value any    `json:"value"`
}

type Product struct {
	Base
	Name               string           `json:"name"`
	Description        string           `json:"description,omitempty"`
	URL                string           `json:"url,omitempty"`
	Image              string           `json:"image,omitempty"`
	Category           string           `json:"category,omitempty"`
	Brand              *Thing           `json:"brand,omitempty"`
	Offers             *Offer           `json:"offers,omitempty"`
	AggregateRating    *AggregateRating `json:"aggregateRating,omitempty"`
	AdditionalProperty []PropertyValue  `json:"additionalProperty,omitempty"`
}

type TouristTrip struct {
	Base
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	TouristType string       `json:"touristType,omitempty"`
	Offers      *Offer       `json:"offers,omitempty"`
	Provider    Organization `json:"provider"`
}

func (n LocalBusiness) inGraph() Node { n.Context = ""; return n }
func (n Service) inGraph() Node { n.Context = ""; return n }
func (n FAQPage) inGraph() Node { n.Context = ""; return n }
func (n Action) inGraph() Node { n.Context = ""; return n }
func (n ItemList) inGraph() Node { n.Context = ""; return n }
func (n Article) inGraph() Node { n.Context = ""; return n }
func (n Product) inGraph() Node { n.Context = ""; return n }
func (n TouristTrip) inGraph() Node { n.Context = ""; return n }

// Graph is a composite document describing one page with several nodes.
type Graph struct {
	Context string `json:"@context"`
	Nodes   []Node `json:"@graph"`
}

// NewGraph holds exactly the given nodes, in order, without their own
// @context.
func NewGraph(nodes ...Node) Graph {
	g := Graph{Context: Context, Nodes: make([]Node, 0, len(nodes))}
	for _, n := range nodes {
		g.Nodes = append(g.Nodes, n.inGraph())
	}
	return g
}

// Types lists the @type of every node in order.
func (g Graph) Types() []Types {
	out := make([]Types, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		out = append(out, typeOf(n))
	}
	return out
}

func typeOf(n Node) Types {
	switch v := n.(type) {
	case LocalBusiness:
		return v.Type
	case Service:
		return v.Type
	case FAQPage:
		return v.Type
	case Action:
		return v.Type
	case ItemList:
		return v.Type
	case Article:
		return v.Type
	case Product:
		return v.Type
	case TouristTrip:
		return v.Type
	}
	return nil
}
