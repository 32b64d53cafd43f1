// Package render turns page view models into HTML.
package render

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"essex_travel/internal/domain"
	"essex_travel/internal/routes"
)

//go:embed templates/*.html
var templateFS embed.FS

type Crumb struct {
	Name string
	Path string
}

type Link struct {
	Title string
	Path  string
	Note  string
}

// Group is a headed list of links, e.g. one category of a collection.
type Group struct {
	Heading string
	Links   []Link
}

// List is a headed bullet list such as pros, cons or local tips.
type List struct {
	Heading string
	Items   []string
}

type Section struct {
	Heading string
	Body    template.HTML
}

// Page is the view model of every HTML page.
type Page struct {
	Meta     routes.PageMeta
	Site     domain.Business
	JSONLD   template.JS
	Crumbs   []Crumb
	Hero     domain.Hero
	Intro    string
	Sections []Section
	Lists    []List
	FAQs     []domain.FAQ
	Offer    *domain.Offer
	Ship     *domain.ShipSpec
	Groups   []Group
	// LinksHeading titles Links: related items or a listing.
	LinksHeading string
	Links        []Link
	// ContactService and ContactCity prefill the lead form.
	ContactService string
	ContactCity    string
}

type Renderer struct {
	tmpl   *template.Template
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"money": Money,
		"join":  strings.Join,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{
		tmpl:   tmpl,
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Typographer)),
		policy: bluemonday.UGCPolicy(),
	}, nil
}

// Markdown converts a section body and strips anything unsafe.
func (r *Renderer) Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("markdown: %w", err)
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}

// Sections converts every catalog section body.
func (r *Renderer) Sections(in []domain.Section) ([]Section, error) {
	out := make([]Section, 0, len(in))
	for _, s := range in {
		body, err := r.Markdown(s.Body)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", s.Heading, err)
		}
		out = append(out, Section{Heading: s.Heading, Body: body})
	}
	return out, nil
}

// JSONLD marshals a schema document for a script block. encoding/json
// escapes <, > and & so the payload cannot close the element.
func JSONLD(v any) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("json-ld: %w", err)
	}
	return template.JS(b), nil
}

func (r *Renderer) Page(w io.Writer, p Page) error {
	return r.tmpl.ExecuteTemplate(w, "page.html", p)
}

// NotFound renders the miss page. It carries no request details.
func (r *Renderer) NotFound(w io.Writer, site domain.Business) error {
	return r.tmpl.ExecuteTemplate(w, "notfound.html", Page{
		Site: site,
		Meta: routes.PageMeta{Title: "Page not found | " + site.Name, Heading: "We couldn't find that page"},
	})
}

// Money formats a price with thousands separators and no cents when whole.
func Money(amount float64, currency string) string {
	symbol := currency + " "
	if currency == "USD" || currency == "" {
		symbol = "$"
	}
	cents := int64(amount*100 + 0.5)
	whole, frac := cents/100, cents%100
	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if frac != 0 {
		return fmt.Sprintf("%s%s.%02d", symbol, b.String(), frac)
	}
	return symbol + b.String()
}
