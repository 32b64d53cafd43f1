package schema_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"essex_travel/internal/catalog"
	"essex_travel/internal/domain"
	"essex_travel/internal/routes"
	"essex_travel/internal/schema"
	"essex_travel/internal/shared"
)

func toMap(t *testing.T, v any) map[string]any {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return m
}

func TestTownBusiness_NewarkUsesCatalogCoordinates(t *testing.T) {
	c := catalog.MustDefault()
	newark, _ := c.City("newark")

	lb, err := schema.TownBusiness(shared.DefaultSite(), c, "Newark")
	if err != nil {
		t.Fatalf("TownBusiness: %v", err)
	}
	if lb.Geo == nil || lb.Geo.Latitude != newark.Coords.Lat || lb.Geo.Longitude != newark.Coords.Lng {
		t.Fatalf("geo = %+v, want %+v", lb.Geo, newark.Coords)
	}
	if !strings.Contains(lb.Name, "Newark") {
		t.Fatalf("name %q does not mention the town", lb.Name)
	}

	m := toMap(t, lb)
	served, ok := m["areaServed"].(map[string]any)
	if !ok || served["name"] != "Newark" {
		t.Fatalf("areaServed = %#v", m["areaServed"])
	}
	g := m["geo"].(map[string]any)
	if g["latitude"] != newark.Coords.Lat || g["longitude"] != newark.Coords.Lng {
		t.Fatalf("json geo = %#v", g)
	}
}

func TestTownBusiness_UnknownTownNamesIt(t *testing.T) {
	_, err := schema.TownBusiness(shared.DefaultSite(), catalog.MustDefault(), "NotATown")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "NotATown") {
		t.Fatalf("error %q does not name the town", err)
	}
	if !errors.Is(err, domain.ErrUnknownTown) {
		t.Fatalf("error should wrap ErrUnknownTown: %v", err)
	}
}

func TestTownBusiness_FixedRadiusEverywhere(t *testing.T) {
	c := catalog.MustDefault()
	for _, city := range c.Cities() {
		lb, err := schema.TownBusiness(shared.DefaultSite(), c, city.Name)
		if err != nil {
			t.Fatalf("%s: %v", city.Name, err)
		}
		if lb.ServiceArea == nil || lb.ServiceArea.GeoRadius != schema.ServiceRadius {
			t.Fatalf("%s: service area %+v", city.Name, lb.ServiceArea)
		}
		if lb.ServiceArea.GeoMidpoint.Latitude != city.Coords.Lat {
			t.Fatalf("%s: circle not centred on town", city.Name)
		}
		if !schema.Validate(lb) {
			t.Fatalf("%s: %v", city.Name, schema.Check(lb))
		}
	}
}

func TestBusiness_AreaServedListsEveryCity(t *testing.T) {
	c := catalog.MustDefault()
	lb, err := schema.Business(shared.DefaultSite(), c)
	if err != nil {
		t.Fatalf("Business: %v", err)
	}
	served, ok := lb.AreaServed.([]schema.Place)
	if !ok {
		t.Fatalf("areaServed is %T", lb.AreaServed)
	}
	var got, want []string
	for _, p := range served {
		if p.Type != "City" {
			t.Fatalf("areaServed entry typed %s", p.Type)
		}
		got = append(got, p.Name)
	}
	for _, city := range c.Cities() {
		want = append(want, city.Name)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("areaServed mismatch (-want +got):\n%s", diff)
	}
	if !schema.Validate(lb) {
		t.Fatalf("business schema invalid: %v", schema.Check(lb))
	}
	if len(lb.Review) == 0 || lb.AggregateRating == nil {
		t.Fatalf("expected reviews and rating on the default profile")
	}
}

func TestBusiness_IncompleteProfileRejected(t *testing.T) {
	site := shared.DefaultSite()
	site.Telephone = ""
	site.Address.PostalCode = ""
	_, err := schema.Business(site, catalog.MustDefault())
	if !errors.Is(err, schema.ErrIncomplete) {
		t.Fatalf("got %v, want ErrIncomplete", err)
	}
	if !strings.Contains(err.Error(), "telephone") || !strings.Contains(err.Error(), "postal_code") {
		t.Fatalf("error should list missing fields: %v", err)
	}
}

func minimal() map[string]any {
	return map[string]any{
		"@context":  "https://schema.org",
		"@type":     "LocalBusiness",
		"name":      "Essex Getaways Travel",
		"telephone": "+1-973-555-0142",
		"address": map[string]any{
			"@type":           "PostalAddress",
			"streetAddress":   "415 Bloomfield Avenue",
			"addressLocality": "Montclair",
			"addressRegion":   "NJ",
			"postalCode":      "07042",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m map[string]any)
		want   bool
	}{
		{"minimal", func(map[string]any) {}, true},
		{"no telephone", func(m map[string]any) { delete(m, "telephone") }, false},
		{"empty name", func(m map[string]any) { m["name"] = "" }, false},
		{"no address", func(m map[string]any) { delete(m, "address") }, false},
		{"no street", func(m map[string]any) { delete(m["address"].(map[string]any), "streetAddress") }, false},
		{"no locality", func(m map[string]any) { delete(m["address"].(map[string]any), "addressLocality") }, false},
		{"no region", func(m map[string]any) { delete(m["address"].(map[string]any), "addressRegion") }, false},
		{"no postal code", func(m map[string]any) { delete(m["address"].(map[string]any), "postalCode") }, false},
		{"no context", func(m map[string]any) { delete(m, "@context") }, false},
		{"type list", func(m map[string]any) { m["@type"] = []string{"TravelAgency", "LocalBusiness"} }, true},
		{"empty type list", func(m map[string]any) { m["@type"] = []string{} }, false},
		{"numeric geo", func(m map[string]any) {
			m["geo"] = map[string]any{"@type": "GeoCoordinates", "latitude": 40.7357, "longitude": -74.1724}
		}, true},
		{"string latitude", func(m map[string]any) {
			m["geo"] = map[string]any{"latitude": "forty", "longitude": -74.1724}
		}, false},
		{"missing longitude", func(m map[string]any) { m["geo"] = map[string]any{"latitude": 40.7} }, false},
		{"rating ok", func(m map[string]any) {
			m["aggregateRating"] = map[string]any{"ratingValue": 4.8, "reviewCount": 120}
		}, true},
		{"rating too high", func(m map[string]any) { m["aggregateRating"] = map[string]any{"ratingValue": 6} }, false},
		{"rating too low", func(m map[string]any) { m["aggregateRating"] = map[string]any{"ratingValue": 0.5} }, false},
		{"rating as text", func(m map[string]any) { m["aggregateRating"] = map[string]any{"ratingValue": "4.8"} }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := minimal()
			tt.mutate(m)
			if got := schema.Validate(m); got != tt.want {
				t.Fatalf("Validate = %v, want %v (issues %v)", got, tt.want, schema.Check(m))
			}
		})
	}
}

func TestValidate_OddInputs(t *testing.T) {
	for name, v := range map[string]any{
		"nil":      nil,
		"channel":  make(chan int),
		"array":    []int{1, 2},
		"bad json": []byte("{"),
		"string":   "not json",
	} {
		if schema.Validate(v) {
			t.Errorf("%s: expected false", name)
		}
	}
	raw, _ := json.Marshal(minimal())
	if !schema.Validate(raw) {
		t.Fatalf("raw JSON bytes of a valid schema should pass")
	}
}

func TestValidate_GraphChecksBusinessNodes(t *testing.T) {
	faqOnly := map[string]any{
		"@context": "https://schema.org",
		"@graph":   []any{map[string]any{"@type": "FAQPage", "mainEntity": []any{}}},
	}
	if !schema.Validate(faqOnly) {
		t.Fatalf("graph without business nodes should pass: %v", schema.Check(faqOnly))
	}

	broken := minimal()
	delete(broken, "@context")
	delete(broken, "telephone")
	doc := map[string]any{"@context": "https://schema.org", "@graph": []any{broken}}
	issues := schema.Check(doc)
	if len(issues) != 1 || issues[0].Field != "@graph[0].telephone" {
		t.Fatalf("issues = %v", issues)
	}
}

func TestLocationPage_MontclairAirportTransfers(t *testing.T) {
	c := catalog.MustDefault()
	site := shared.DefaultSite()
	g, err := schema.LocationPage(site, c, "Montclair", "airport-transfers")
	if err != nil {
		t.Fatalf("LocationPage: %v", err)
	}

	want := []schema.Types{
		{"TravelAgency", "LocalBusiness"},
		{"Service"},
		{"ReserveAction"},
		{"FAQPage"},
	}
	if diff := cmp.Diff(want, g.Types()); diff != "" {
		t.Fatalf("graph nodes (-want +got):\n%s", diff)
	}

	m := toMap(t, g)
	nodes := m["@graph"].([]any)
	for i, n := range nodes {
		if _, ok := n.(map[string]any)["@context"]; ok {
			t.Fatalf("node %d repeats @context", i)
		}
	}
	svc := nodes[1].(map[string]any)
	provider := svc["provider"].(map[string]any)
	if provider["telephone"] != shared.AgencyTelephone {
		t.Fatalf("provider telephone = %v", provider["telephone"])
	}
	if svc["areaServed"].(map[string]any)["name"] != "Montclair" {
		t.Fatalf("service areaServed = %v", svc["areaServed"])
	}

	city, _ := c.City("montclair")
	svcRec, _ := c.Service("airport-transfers")
	meta := routes.LocationMeta(site, city, svcRec)
	if !strings.Contains(meta.Title, "Montclair") || !strings.Contains(meta.Title, svcRec.Name) {
		t.Fatalf("title %q", meta.Title)
	}
	if !schema.Validate(g) {
		t.Fatalf("location graph invalid: %v", schema.Check(g))
	}
}

func TestLocationPage_Errors(t *testing.T) {
	c := catalog.MustDefault()
	if _, err := schema.LocationPage(shared.DefaultSite(), c, "Gotham", "airport-transfers"); !errors.Is(err, domain.ErrUnknownTown) {
		t.Fatalf("got %v", err)
	}
	if _, err := schema.LocationPage(shared.DefaultSite(), c, "Newark", "teleportation"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestGenerators_Idempotent(t *testing.T) {
	c := catalog.MustDefault()
	site := shared.DefaultSite()

	for _, combo := range routes.Combinations(c) {
		city, _ := c.City(combo.CitySlug)
		a, errA := schema.LocationPage(site, c, city.Name, combo.ServiceSlug)
		b, errB := schema.LocationPage(site, c, city.Name, combo.ServiceSlug)
		if errA != nil || errB != nil {
			t.Fatalf("%s: %v %v", combo.Path(), errA, errB)
		}
		if diff := cmp.Diff(a, b); diff != "" {
			t.Fatalf("%s: output differs:\n%s", combo.Path(), diff)
		}
		if !schema.Validate(a) {
			t.Fatalf("%s: %v", combo.Path(), schema.Check(a))
		}
	}
	for _, kind := range domain.Kinds() {
		for _, e := range c.Entities(kind) {
			if diff := cmp.Diff(schema.EntityPage(site, e), schema.EntityPage(site, e)); diff != "" {
				t.Fatalf("%s/%s: output differs:\n%s", kind, e.Slug, diff)
			}
		}
	}
}

func TestEntityPage_MainNodeByKind(t *testing.T) {
	c := catalog.MustDefault()
	site := shared.DefaultSite()
	want := map[domain.Kind]string{
		domain.KindCruiseNeighborhood: "Article",
		domain.KindDisneyRoom:         "Article",
		domain.KindTravelGuide:        "Article",
		domain.KindCruiseShip:         "Product",
		domain.KindDeal:               "Product",
		domain.KindPackage:            "TouristTrip",
	}
	for kind, typ := range want {
		for _, e := range c.Entities(kind) {
			g := schema.EntityPage(site, e)
			types := g.Types()
			if !types[0].Has(typ) {
				t.Fatalf("%s: first node %v, want %s", e.Slug, types[0], typ)
			}
			if !types[len(types)-1].Has("BreadcrumbList") {
				t.Fatalf("%s: breadcrumbs should close the graph", e.Slug)
			}
			if !schema.Validate(g) {
				t.Fatalf("%s: %v", e.Slug, schema.Check(g))
			}
		}
	}

	deal, _ := c.Entity(domain.KindDeal, "disney-free-dining")
	m := toMap(t, schema.EntityPage(site, deal))
	offers := m["@graph"].([]any)[0].(map[string]any)["offers"].(map[string]any)
	if offers["priceCurrency"] != deal.Offer.Currency {
		t.Fatalf("offers = %v", offers)
	}
}

func TestTypes_SingleMarshalsAsString(t *testing.T) {
	b, _ := json.Marshal(schema.Types{"Service"})
	if string(b) != `"Service"` {
		t.Fatalf("got %s", b)
	}
	b, _ = json.Marshal(schema.Types{"TravelAgency", "LocalBusiness"})
	if string(b) != `["TravelAgency","LocalBusiness"]` {
		t.Fatalf("got %s", b)
	}
	var back schema.Types
	if err := json.Unmarshal([]byte(`"FAQPage"`), &back); err != nil || !back.Has("FAQPage") {
		t.Fatalf("unmarshal: %v %v", back, err)
	}
}
