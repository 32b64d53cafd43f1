package shared

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"essex_travel/internal/domain"
)

// AgencyTelephone is the published phone number of the agency office.
const AgencyTelephone = "+1-973-555-0142"

// DefaultSite is the compiled-in agency profile used when SITE_CONFIG is unset.
func DefaultSite() domain.Business {
	return domain.Business{
		Name:      "Essex Getaways Travel",
		Telephone: AgencyTelephone,
		Email:     "hello@essexgetaways.example",
		URL:       "https://www.essexgetaways.example",
		Logo:      "https://www.essexgetaways.example/static/logo.png",
		Address: domain.PostalAddress{
			Street:     "415 Bloomfield Avenue",
			Locality:   "Montclair",
			Region:     "NJ",
			PostalCode: "07042",
			Country:    "US",
		},
		Geo:           domain.Coords{Lat: 40.8145, Lng: -74.2157},
		PriceRange:    "$$",
		OpeningHours:  []string{"Mo-Fr 09:00-18:00", "Sa 10:00-14:00"},
		Rating:        &domain.Rating{Value: 4.9, Count: 212},
		SameAs:        []string{"https://www.facebook.com/essexgetaways", "https://www.instagram.com/essexgetaways"},
		FoundingYear:  2009,
		ServiceRegion: "Essex County, NJ",
		Testimonials: []domain.Testimonial{
			{Author: "Dana R.", Town: "Montclair", Rating: 5, Date: "2025-03-14",
				Body: "They booked our Symphony of the Seas sailing from Cape Liberty and handled the car to the port."},
			{Author: "Marcus T.", Town: "West Orange", Rating: 5, Date: "2025-06-02",
				Body: "Our Disney trip ran perfectly. The room advice alone was worth it."},
			{Author: "Priya S.", Town: "Livingston", Rating: 4, Date: "2025-09-21",
				Body: "Great honeymoon planning, quick answers every time we called."},
		},
	}
}

// LoadSite reads an agency profile from a YAML file. Fields the file leaves
// empty keep their DefaultSite values.
func LoadSite(path string) (domain.Business, error) {
	site := DefaultSite()
	if path == "" {
		return site, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Business{}, fmt.Errorf("loading site config: %w", err)
	}
	if err := yaml.Unmarshal(data, &site); err != nil {
		return domain.Business{}, fmt.Errorf("loading site config: %w", err)
	}
	if err := ValidateSite(site); err != nil {
		return domain.Business{}, fmt.Errorf("loading site config %s: %w", path, err)
	}
	return site, nil
}

// ValidateSite enforces the fields every business schema depends on.
func ValidateSite(b domain.Business) error {
	var errs []error
	need := func(field, v string) {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, fmt.Errorf("%s is required", field))
		}
	}
	need("name", b.Name)
	need("telephone", b.Telephone)
	need("url", b.URL)
	need("address.street", b.Address.Street)
	need("address.locality", b.Address.Locality)
	need("address.region", b.Address.Region)
	need("address.postal_code", b.Address.PostalCode)
	if b.Rating != nil && (b.Rating.Value < 1 || b.Rating.Value > 5) {
		errs = append(errs, fmt.Errorf("rating.value %.1f outside [1,5]", b.Rating.Value))
	}
	return errors.Join(errs...)
}
