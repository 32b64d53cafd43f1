// Package sitemap lists every page for crawlers and writes sitemap.xml and
// robots.txt.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"essex_travel/internal/catalog"
	"essex_travel/internal/domain"
	"essex_travel/internal/routes"
)

const (
	ChangeWeekly = "weekly"

	priorityHome     = 1.0
	priorityIndex    = 0.8
	priorityCity     = 0.7
	priorityLocation = 0.7
)

type Entry struct {
	URL             string  `xml:"loc" json:"url"`
	LastModified    string  `xml:"lastmod" json:"lastModified"`
	ChangeFrequency string  `xml:"changefreq" json:"changeFrequency"`
	Priority        float64 `xml:"priority" json:"priority"`
}

// Entries follows routes.All order. Entity pages use their own updated
// date; every other page uses the newest date in the catalog.
func Entries(c *catalog.Catalog, baseURL string) []Entry {
	base := strings.TrimSuffix(baseURL, "/")
	latest := LatestUpdate(c)

	all := routes.All(c)
	out := make([]Entry, 0, len(all))
	for _, r := range all {
		e := Entry{URL: base + r.Path, LastModified: latest, ChangeFrequency: ChangeWeekly}
		switch r.Kind {
		case routes.RouteHome:
			e.URL = base + "/"
			e.Priority = priorityHome
		case routes.RouteCollection, routes.RouteLocationIndex:
			e.Priority = priorityIndex
		case routes.RouteEntity:
			ent, _ := c.Entity(r.Collection, r.Slug)
			e.Priority = ent.Priority.SitemapPriority()
			if ent.Updated != "" {
				e.LastModified = ent.Updated
			}
		case routes.RouteCity:
			e.Priority = priorityCity
		case routes.RouteLocation:
			e.Priority = priorityLocation
		}
		out = append(out, e)
	}
	return out
}

// LatestUpdate is the newest entity date in the catalog. ISO dates compare
// correctly as strings.
func LatestUpdate(c *catalog.Catalog) string {
	latest := ""
	for _, kind := range domain.Kinds() {
		for _, e := range c.Entities(kind) {
			if e.Updated > latest {
				latest = e.Updated
			}
		}
	}
	return latest
}

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []Entry  `xml:"url"`
}

// WriteXML writes entries as a sitemaps.org urlset.
func WriteXML(w io.Writer, entries []Entry) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(urlset{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9", URLs: entries}); err != nil {
		return fmt.Errorf("encode sitemap: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteRobots allows everything except the JSON APIs and points at the
// sitemap.
func WriteRobots(w io.Writer, baseURL string) error {
	_, err := fmt.Fprintf(w, "User-agent: *\nAllow: /\nDisallow: /api/\n\nSitemap: %s/sitemap.xml\n",
		strings.TrimSuffix(baseURL, "/"))
	return err
}
