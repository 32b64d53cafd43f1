package routes

import (
	"fmt"
	"strings"

	"essex_travel/internal/catalog"
	"essex_travel/internal/domain"
)

// Content is the copy bundle for one city × service page.
type Content struct {
	Service  domain.Service
	CityName string
	Intro    string
	Benefits []string
	IdealFor []string
	// Override is true when Intro came from city-specific copy.
	Override bool
}

// ServiceContent derives the copy for serviceSlug in cityName. It is pure:
// identical inputs always give identical bundles.
func ServiceContent(c *catalog.Catalog, serviceSlug, cityName string) (Content, bool) {
	svc, ok := c.Service(serviceSlug)
	if !ok {
		return Content{}, false
	}
	out := Content{
		Service:  svc,
		CityName: cityName,
		Benefits: append([]string(nil), svc.Benefits...),
		IdealFor: append([]string(nil), svc.IdealFor...),
	}
	if city, ok := c.CityByName(cityName); ok {
		if text := strings.TrimSpace(svc.Overrides[city.Slug]); text != "" {
			out.Intro = text
			out.Override = true
			return out, true
		}
	}
	out.Intro = fallbackIntro(svc.Name, cityName)
	return out, true
}

func fallbackIntro(serviceName, cityName string) string {
	city := strings.TrimSpace(cityName)
	if city == "" {
		city = "Essex County"
	}
	return fmt.Sprintf("Our %s team serves %s travelers with local, personal planning from our Essex County office.",
		strings.ToLower(serviceName), city)
}

// PageMeta is the head metadata of a rendered page.
type PageMeta struct {
	Title       string
	Description string
	Canonical   string
	Keywords    []string
	Heading     string
}

func canonical(base, path string) string {
	return strings.TrimSuffix(base, "/") + path
}

// LocationMeta builds the head metadata for a city × service page.
func LocationMeta(biz domain.Business, city domain.City, svc domain.Service) PageMeta {
	keywords := make([]string, 0, len(svc.Keywords)+2)
	keywords = append(keywords, svc.Keywords...)
	keywords = append(keywords,
		strings.ToLower(svc.Name)+" "+strings.ToLower(city.Name),
		strings.ToLower(svc.Name)+" "+strings.ToLower(city.Name)+" nj",
	)
	return PageMeta{
		Title:       fmt.Sprintf("%s in %s, NJ | %s", svc.Name, city.Name, biz.Name),
		Description: fmt.Sprintf("%s for %s travelers. %s Call %s.", svc.Title, city.Name, svc.Description, biz.Telephone),
		Canonical:   canonical(biz.URL, LocationPath(city.Slug, svc.Slug)),
		Keywords:    keywords,
		Heading:     fmt.Sprintf("%s in %s", svc.Name, city.Name),
	}
}

// CityMeta builds the head metadata for a city hub page.
func CityMeta(biz domain.Business, city domain.City) PageMeta {
	return PageMeta{
		Title:       fmt.Sprintf("Travel Agent in %s, NJ | %s", city.Name, biz.Name),
		Description: fmt.Sprintf("Cruises, Disney trips and beach vacations planned for %s travelers by a local Essex County agency.", city.Name),
		Canonical:   canonical(biz.URL, CityPath(city.Slug)),
		Keywords:    []string{"travel agent " + strings.ToLower(city.Name), "travel agency " + strings.ToLower(city.Name) + " nj"},
		Heading:     "Travel planning in " + city.Name,
	}
}

// EntityMeta uses the entity's own SEO fields.
func EntityMeta(biz domain.Business, e domain.Entity) PageMeta {
	return PageMeta{
		Title:       e.MetaTitle,
		Description: e.MetaDescription,
		Canonical:   canonical(biz.URL, EntityPath(e.Kind, e.Slug)),
		Keywords:    append([]string(nil), e.Keywords...),
		Heading:     e.Title,
	}
}

// CollectionMeta builds the head metadata for a collection index.
func CollectionMeta(biz domain.Business, kind domain.Kind) PageMeta {
	return PageMeta{
		Title:       fmt.Sprintf("%s | %s", kind.Label(), biz.Name),
		Description: fmt.Sprintf("Browse our %s, written by local travel agents in Essex County, NJ.", strings.ToLower(kind.Label())),
		Canonical:   canonical(biz.URL, kind.Prefix()),
		Heading:     kind.Label(),
	}
}

func HomeMeta(biz domain.Business) PageMeta {
	return PageMeta{
		Title:       fmt.Sprintf("%s | Essex County Travel Agency", biz.Name),
		Description: "Cruises, Disney vacations, honeymoons and all-inclusive trips planned by local agents serving every Essex County town.",
		Canonical:   canonical(biz.URL, "/"),
		Heading:     biz.Name,
	}
}

func LocationIndexMeta(biz domain.Business) PageMeta {
	return PageMeta{
		Title:       fmt.Sprintf("Towns We Serve in Essex County | %s", biz.Name),
		Description: "Local travel planning for every town in Essex County, New Jersey.",
		Canonical:   canonical(biz.URL, LocationsPrefix),
		Heading:     "Towns we serve",
	}
}
