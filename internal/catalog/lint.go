package catalog

import (
	"fmt"
	"regexp"
	"time"

	"essex_travel/internal/domain"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeBadSlug         = "invalid_slug"
	codeDuplicateSlug   = "duplicate_slug"
	codeCrossCollection = "cross_collection_slug"
	codeMetaTitle       = "meta_title_too_long"
	codeMetaDescription = "meta_description_too_long"
	codeFewKeywords     = "too_few_keywords"
	codeMissingField    = "missing_required_field"
	codeCoordinates     = "coordinates_out_of_region"
	codeDanglingRelated = "dangling_related_slug"
	codeBadDate         = "invalid_updated_date"
	codeUnknownOverride = "unknown_override_city"
	codeBadPriority     = "invalid_priority"
)

// Content limits enforced on every entity.
const (
	MaxMetaTitle       = 60
	MaxMetaDescription = 160
	MinKeywords        = 5
)

// Region bounds the coordinates of every served town.
var Region = struct{ MinLat, MaxLat, MinLng, MaxLng float64 }{40, 41, -75, -74}

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidSlug reports whether s can be used as a URL path segment.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

type Issue struct {
	Severity Severity
	Code     string
	Message  string
	Entity   string
}

type Report struct {
	Issues []Issue
}

func (r *Report) Errors() []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			out = append(out, i)
		}
	}
	return out
}

func (r *Report) add(sev Severity, code, entity, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Severity: sev,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Entity:   entity,
	})
}

// Lint checks the content rules every published page depends on.
func Lint(c *Catalog) *Report {
	r := &Report{Issues: make([]Issue, 0)}

	seenCity := make(map[string]struct{})
	for _, city := range c.cities {
		ref := "city:" + city.Slug
		checkSlug(r, ref, city.Slug, seenCity)
		if city.Name == "" {
			r.add(SeverityError, codeMissingField, ref, "missing name")
		}
		if city.Coords.Lat < Region.MinLat || city.Coords.Lat > Region.MaxLat ||
			city.Coords.Lng < Region.MinLng || city.Coords.Lng > Region.MaxLng {
			r.add(SeverityError, codeCoordinates, ref, "coordinates %.4f,%.4f outside service region", city.Coords.Lat, city.Coords.Lng)
		}
	}

	seenService := make(map[string]struct{})
	for _, svc := range c.services {
		ref := "service:" + svc.Slug
		checkSlug(r, ref, svc.Slug, seenService)
		if svc.Name == "" || svc.Title == "" {
			r.add(SeverityError, codeMissingField, ref, "missing name or title")
		}
		if len(svc.Keywords) < MinKeywords {
			r.add(SeverityError, codeFewKeywords, ref, "%d keywords, need at least %d", len(svc.Keywords), MinKeywords)
		}
		for citySlug := range svc.Overrides {
			if !c.IsValidCitySlug(citySlug) {
				r.add(SeverityWarn, codeUnknownOverride, ref, "override for unknown city %s", citySlug)
			}
		}
	}

	owner := make(map[string]domain.Kind)
	for _, kind := range domain.Kinds() {
		seen := make(map[string]struct{})
		for _, e := range c.entities[kind] {
			ref := kind.String() + ":" + e.Slug
			checkSlug(r, ref, e.Slug, seen)
			if prev, ok := owner[e.Slug]; ok && prev != kind {
				r.add(SeverityError, codeCrossCollection, ref, "slug also used in %s", prev)
			} else {
				owner[e.Slug] = kind
			}
			lintEntity(r, c, ref, e)
		}
	}

	return r
}

func checkSlug(r *Report, ref, slug string, seen map[string]struct{}) {
	if !ValidSlug(slug) {
		r.add(SeverityError, codeBadSlug, ref, "slug %q must match %s", slug, slugPattern)
	}
	if _, dup := seen[slug]; dup {
		r.add(SeverityError, codeDuplicateSlug, ref, "duplicate slug %q", slug)
	}
	seen[slug] = struct{}{}
}

func lintEntity(r *Report, c *Catalog, ref string, e domain.Entity) {
	if e.Title == "" || e.MetaTitle == "" || e.MetaDescription == "" {
		r.add(SeverityError, codeMissingField, ref, "missing title or meta fields")
	}
	if n := len([]rune(e.MetaTitle)); n > MaxMetaTitle {
		r.add(SeverityError, codeMetaTitle, ref, "meta title is %d chars (max %d)", n, MaxMetaTitle)
	}
	if n := len([]rune(e.MetaDescription)); n > MaxMetaDescription {
		r.add(SeverityError, codeMetaDescription, ref, "meta description is %d chars (max %d)", n, MaxMetaDescription)
	}
	if len(e.Keywords) < MinKeywords {
		r.add(SeverityError, codeFewKeywords, ref, "%d keywords, need at least %d", len(e.Keywords), MinKeywords)
	}
	if e.Priority < domain.PriorityLow || e.Priority > domain.PriorityHigh {
		r.add(SeverityError, codeBadPriority, ref, "priority not set")
	}
	if _, err := time.Parse(time.DateOnly, e.Updated); err != nil {
		r.add(SeverityError, codeBadDate, ref, "updated %q is not YYYY-MM-DD", e.Updated)
	}
	for _, rel := range e.Related {
		if !c.IsValidEntitySlug(e.Kind, rel) {
			r.add(SeverityWarn, codeDanglingRelated, ref, "related slug %q not in %s", rel, e.Kind)
		}
	}
}
