package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"essex_travel/internal/catalog"
	"essex_travel/internal/domain"
	"essex_travel/internal/routes"
)

// ErrIncomplete reports a business profile that lacks a field every business
// node must carry.
var ErrIncomplete = errors.New("incomplete business profile")

var businessTypes = Types{"TravelAgency", "LocalBusiness"}

func requireBusiness(b domain.Business) error {
	var missing []string
	for _, f := range []struct{ name, v string }{
		{"name", b.Name},
		{"telephone", b.Telephone},
		{"address.street", b.Address.Street},
		{"address.locality", b.Address.Locality},
		{"address.region", b.Address.Region},
		{"address.postal_code", b.Address.PostalCode},
	} {
		if strings.TrimSpace(f.v) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncomplete, strings.Join(missing, ", "))
	}
	return nil
}

func absURL(b domain.Business, path string) string {
	return strings.TrimSuffix(b.URL, "/") + path
}

func agencyID(b domain.Business) string {
	return absURL(b, "/#agency")
}

func agency(b domain.Business) Organization {
	return Organization{
		Type:      Types{"TravelAgency"},
		ID:        agencyID(b),
		Name:      b.Name,
		Telephone: b.Telephone,
		URL:       b.URL,
		Logo:      b.Logo,
	}
}

func address(b domain.Business) PostalAddress {
	return PostalAddress{
		Type:            "PostalAddress",
		StreetAddress:   b.Address.Street,
		AddressLocality: b.Address.Locality,
		AddressRegion:   b.Address.Region,
		PostalCode:      b.Address.PostalCode,
		AddressCountry:  b.Address.Country,
	}
}

func geo(c domain.Coords) GeoCoordinates {
	return GeoCoordinates{Type: "GeoCoordinates", Latitude: c.Lat, Longitude: c.Lng}
}

func aggregate(r *domain.Rating) *AggregateRating {
	if r == nil {
		return nil
	}
	return &AggregateRating{
		Type:        "AggregateRating",
		RatingValue: r.Value,
		ReviewCount: r.Count,
		BestRating:  5,
		WorstRating: 1,
	}
}

// Business describes the agency as a whole. Every catalog city is listed in
// areaServed.
func Business(b domain.Business, c *catalog.Catalog) (LocalBusiness, error) {
	if err := requireBusiness(b); err != nil {
		return LocalBusiness{}, err
	}
	cities := c.Cities()
	served := make([]Place, 0, len(cities))
	for _, city := range cities {
		served = append(served, Place{Type: "City", Name: city.Name})
	}
	lb := LocalBusiness{
		Base:            Base{Context: Context, Type: businessTypes, ID: agencyID(b)},
		Name:            b.Name,
		Description:     fmt.Sprintf("Local travel agency serving %s with cruises, Disney vacations and all-inclusive trips.", Region(b)),
		URL:             b.URL,
		Telephone:       b.Telephone,
		Email:           b.Email,
		Logo:            b.Logo,
		PriceRange:      b.PriceRange,
		Address:         address(b),
		AreaServed:      served,
		OpeningHours:    append([]string(nil), b.OpeningHours...),
		AggregateRating: aggregate(b.Rating),
		Review:          Reviews(b.Testimonials),
		SameAs:          append([]string(nil), b.SameAs...),
	}
	if b.Geo != (domain.Coords{}) {
		g := geo(b.Geo)
		lb.Geo = &g
	}
	if b.FoundingYear > 0 {
		lb.FoundingDate = strconv.Itoa(b.FoundingYear)
	}
	return lb, nil
}

// Region is the area the agency serves, with a county default for profiles
// that leave it blank.
func Region(b domain.Business) string {
	if r := strings.TrimSpace(b.ServiceRegion); r != "" {
		return r
	}
	return "Essex County, NJ"
}

// TownBusiness is the agency as seen from one town: the town's coordinates,
// the town in the name and a fixed service radius around it. An unknown
// town is a caller error.
func TownBusiness(b domain.Business, c *catalog.Catalog, townName string) (LocalBusiness, error) {
	city, ok := c.CityByName(townName)
	if !ok {
		return LocalBusiness{}, fmt.Errorf("%w: %q", domain.ErrUnknownTown, townName)
	}
	if err := requireBusiness(b); err != nil {
		return LocalBusiness{}, err
	}
	g := geo(city.Coords)
	return LocalBusiness{
		Base:        Base{Context: Context, Type: businessTypes, ID: absURL(b, routes.CityPath(city.Slug)+"#agency")},
		Name:        fmt.Sprintf("%s - %s", b.Name, city.Name),
		Description: fmt.Sprintf("Cruise, Disney and vacation planning for %s, NJ travelers.", city.Name),
		URL:         absURL(b, routes.CityPath(city.Slug)),
		Telephone:   b.Telephone,
		Email:       b.Email,
		Logo:        b.Logo,
		PriceRange:  b.PriceRange,
		Address:     address(b),
		Geo:         &g,
		AreaServed:  Place{Type: "City", Name: city.Name},
		ServiceArea: &GeoCircle{
			Type:        "GeoCircle",
			GeoMidpoint: g,
			GeoRadius:   ServiceRadius,
		},
		OpeningHours:    append([]string(nil), b.OpeningHours...),
		AggregateRating: aggregate(b.Rating),
	}, nil
}

// NewService describes one service line. A nil city scopes it to the whole
// service region.
func NewService(b domain.Business, svc domain.Service, city *domain.City) Service {
	s := Service{
		Base:        Base{Context: Context, Type: Types{"Service"}},
		Name:        svc.Name,
		Description: svc.Description,
		ServiceType: svc.Name,
		URL:         b.URL,
		Provider:    agency(b),
		AreaServed:  Place{Type: "AdministrativeArea", Name: Region(b)},
	}
	if city != nil {
		s.Name = svc.Name + " in " + city.Name
		s.URL = absURL(b, routes.LocationPath(city.Slug, svc.Slug))
		s.AreaServed = Place{Type: "City", Name: city.Name}
	}
	if len(svc.Benefits) > 0 {
		oc := &OfferCatalog{Type: "OfferCatalog", Name: svc.Name}
		for _, benefit := range svc.Benefits {
			oc.ItemListElement = append(oc.ItemListElement, CatalogOffer{
				Type:        "Offer",
				ItemOffered: Thing{Type: "Service", Name: benefit},
			})
		}
		s.HasOfferCatalog = oc
	}
	return s
}

func NewFAQPage(faqs []domain.FAQ) FAQPage {
	p := FAQPage{Base: Base{Context: Context, Type: Types{"FAQPage"}}, MainEntity: make([]Question, 0, len(faqs))}
	for _, f := range faqs {
		p.MainEntity = append(p.MainEntity, Question{
			Type:           "Question",
			Name:           f.Question,
			AcceptedAnswer: Answer{Type: "Answer", Text: f.Answer},
		})
	}
	return p
}

// Reviews converts published testimonials. Nil in, nil out.
func Reviews(ts []domain.Testimonial) []Review {
	if len(ts) == 0 {
		return nil
	}
	out := make([]Review, 0, len(ts))
	for _, t := range ts {
		r := Review{
			Type:          "Review",
			Author:        Thing{Type: "Person", Name: t.Author},
			ReviewRating:  Rating{Type: "Rating", RatingValue: t.Rating, BestRating: 5, WorstRating: 1},
			ReviewBody:    t.Body,
			DatePublished: t.Date,
		}
		if t.Town != "" {
			r.LocationCreated = &Thing{Type: "City", Name: t.Town}
		}
		out = append(out, r)
	}
	return out
}

// NewReserveAction points booking intents at target.
func NewReserveAction(target string) Action {
	return Action{
		Base: Base{Context: Context, Type: Types{"ReserveAction"}},
		Name: "Request a trip consultation",
		Target: EntryPoint{
			Type:        "EntryPoint",
			URLTemplate: target,
			InLanguage:  "en-US",
			ActionPlatform: []string{
				"https://schema.org/DesktopWebPlatform",
				"https://schema.org/MobileWebPlatform",
			},
		},
		Result: &Thing{Type: "Reservation", Name: "Travel consultation"},
	}
}

// Crumb is one breadcrumb step. Path is site-relative.
type Crumb struct {
	Name string
	Path string
}

func Breadcrumbs(b domain.Business, crumbs []Crumb) ItemList {
	l := ItemList{Base: Base{Context: Context, Type: Types{"BreadcrumbList"}}, ItemListElement: make([]ListItem, 0, len(crumbs))}
	for i, cr := range crumbs {
		l.ItemListElement = append(l.ItemListElement, ListItem{
			Type:     "ListItem",
			Position: i + 1,
			Name:     cr.Name,
			Item:     absURL(b, cr.Path),
		})
	}
	return l
}

func listing(b domain.Business, name string, items []Crumb) ItemList {
	l := Breadcrumbs(b, items)
	l.Type = Types{"ItemList"}
	l.Name = name
	return l
}

func NewArticle(b domain.Business, e domain.Entity) Article {
	url := absURL(b, routes.EntityPath(e.Kind, e.Slug))
	return Article{
		Base:             Base{Context: Context, Type: Types{"Article"}, ID: url + "#article"},
		Headline:         e.Title,
		Description:      e.MetaDescription,
		Keywords:         strings.Join(e.Keywords, ", "),
		ArticleSection:   e.Kind.Label(),
		DateModified:     e.Updated,
		Image:            e.Hero.Image,
		MainEntityOfPage: url,
		Author:           agency(b),
		Publisher:        agency(b),
	}
}

func offer(b domain.Business, o *domain.Offer, url string) *Offer {
	if o == nil {
		return nil
	}
	seller := agency(b)
	return &Offer{
		Type:          "Offer",
		Price:         o.Price,
		PriceCurrency: o.Currency,
		ValidThrough:  o.ValidThrough,
		Availability:  "https://schema.org/InStock",
		URL:           url,
		Seller:        &seller,
	}
}

// Deal describes a priced deal as a Product with an Offer.
func Deal(b domain.Business, e domain.Entity) Product {
	url := absURL(b, routes.EntityPath(e.Kind, e.Slug))
	return Product{
		Base:            Base{Context: Context, Type: Types{"Product"}, ID: url + "#deal"},
		Name:            e.Title,
		Description:     e.MetaDescription,
		URL:             url,
		Image:           e.Hero.Image,
		Category:        e.Category,
		Offers:          offer(b, e.Offer, url),
		AggregateRating: aggregate(e.Rating),
	}
}

// Vessel describes a cruise ship as a Product branded with its line.
func Vessel(b domain.Business, e domain.Entity) Product {
	url := absURL(b, routes.EntityPath(e.Kind, e.Slug))
	p := Product{
		Base:            Base{Context: Context, Type: Types{"Product"}, ID: url + "#ship"},
		Name:            e.Title,
		Description:     e.MetaDescription,
		URL:             url,
		Image:           e.Hero.Image,
		Category:        "Cruise ship",
		AggregateRating: aggregate(e.Rating),
	}
	if s := e.Ship; s != nil {
		p.Brand = &Thing{Type: "Brand", Name: s.Line}
		p.AdditionalProperty = []PropertyValue{
			{Type: "PropertyValue", Name: "Year built", Value: s.Year},
			{Type: "PropertyValue", Name: "Gross tonnage", Value: s.Tonnage},
			{Type: "PropertyValue", Name: "Passenger capacity", Value: s.Passengers},
			{Type: "PropertyValue", Name: "Decks", Value: s.Decks},
			{Type: "PropertyValue", Name: "Homeport", Value: s.Homeport},
		}
	}
	return p
}

// Trip describes a vacation package.
func Trip(b domain.Business, e domain.Entity) TouristTrip {
	url := absURL(b, routes.EntityPath(e.Kind, e.Slug))
	return TouristTrip{
		Base:        Base{Context: Context, Type: Types{"TouristTrip"}, ID: url + "#trip"},
		Name:        e.Title,
		Description: e.MetaDescription,
		URL:         url,
		TouristType: e.Category,
		Offers:      offer(b, e.Offer, url),
		Provider:    agency(b),
	}
}
