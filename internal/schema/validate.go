package schema

import (
	"encoding/json"
	"fmt"
	"math"
)

// Issue is one structural problem found by Check.
type Issue struct {
	Field   string
	Message string
}

func (i Issue) String() string {
	if i.Field == "" {
		return i.Message
	}
	return i.Field + ": " + i.Message
}

// Validate reports whether v is a well-formed business schema document. It
// accepts any value and never panics.
func Validate(v any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return len(Check(v)) == 0
}

// Check lists the structural problems of v. Single objects must carry the
// full business field set; in an @graph document only business-typed nodes
// do. Semantic correctness against the schema.org vocabulary is not checked.
func Check(v any) []Issue {
	doc, err := normalize(v)
	if err != nil {
		return []Issue{{Message: err.Error()}}
	}
	root, ok := doc.(map[string]any)
	if !ok {
		return []Issue{{Message: "document must be a JSON object"}}
	}

	var issues []Issue
	if !nonEmpty(root["@context"]) {
		issues = append(issues, Issue{Field: "@context", Message: "required"})
	}
	raw, isGraph := root["@graph"]
	if !isGraph {
		issues = append(issues, checkType(root, "")...)
		return append(issues, checkBusiness(root, "")...)
	}

	nodes, ok := raw.([]any)
	if !ok || len(nodes) == 0 {
		return append(issues, Issue{Field: "@graph", Message: "must be a non-empty array"})
	}
	for i, n := range nodes {
		prefix := fmt.Sprintf("@graph[%d].", i)
		m, ok := n.(map[string]any)
		if !ok {
			issues = append(issues, Issue{Field: prefix[:len(prefix)-1], Message: "must be an object"})
			continue
		}
		issues = append(issues, checkType(m, prefix)...)
		if isBusiness(m["@type"]) {
			issues = append(issues, checkBusiness(m, prefix)...)
		}
	}
	return issues
}

func normalize(v any) (any, error) {
	var raw []byte
	switch t := v.(type) {
	case nil:
		return nil, fmt.Errorf("document is nil")
	case []byte:
		raw = t
	case json.RawMessage:
		raw = t
	case string:
		raw = []byte(t)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode document: %w", err)
		}
		raw = b
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return out, nil
}

func nonEmpty(v any) bool {
	s, ok := v.(string)
	return ok && s != ""
}

func checkType(m map[string]any, prefix string) []Issue {
	switch t := m["@type"].(type) {
	case string:
		if t != "" {
			return nil
		}
	case []any:
		if len(t) == 0 {
			break
		}
		for _, s := range t {
			if !nonEmpty(s) {
				return []Issue{{Field: prefix + "@type", Message: "every entry must be a non-empty string"}}
			}
		}
		return nil
	}
	return []Issue{{Field: prefix + "@type", Message: "must be a string or a list of strings"}}
}

func isBusiness(t any) bool {
	match := func(s any) bool { return s == "LocalBusiness" || s == "TravelAgency" }
	if list, ok := t.([]any); ok {
		for _, s := range list {
			if match(s) {
				return true
			}
		}
		return false
	}
	return match(t)
}

var addressFields = []string{"streetAddress", "addressLocality", "addressRegion", "postalCode"}

func checkBusiness(m map[string]any, prefix string) []Issue {
	var issues []Issue
	for _, f := range []string{"name", "telephone"} {
		if !nonEmpty(m[f]) {
			issues = append(issues, Issue{Field: prefix + f, Message: "required"})
		}
	}

	addr, ok := m["address"].(map[string]any)
	if !ok {
		issues = append(issues, Issue{Field: prefix + "address", Message: "required"})
	} else {
		for _, f := range addressFields {
			if !nonEmpty(addr[f]) {
				issues = append(issues, Issue{Field: prefix + "address." + f, Message: "required"})
			}
		}
	}

	if raw, present := m["geo"]; present {
		g, ok := raw.(map[string]any)
		if !ok {
			issues = append(issues, Issue{Field: prefix + "geo", Message: "must be an object"})
		} else {
			issues = append(issues, checkNumber(g, prefix+"geo.", "latitude", -90, 90)...)
			issues = append(issues, checkNumber(g, prefix+"geo.", "longitude", -180, 180)...)
		}
	}

	if raw, present := m["aggregateRating"]; present {
		r, ok := raw.(map[string]any)
		if !ok {
			issues = append(issues, Issue{Field: prefix + "aggregateRating", Message: "must be an object"})
		} else {
			issues = append(issues, checkNumber(r, prefix+"aggregateRating.", "ratingValue", 1, 5)...)
		}
	}
	return issues
}

func checkNumber(m map[string]any, prefix, field string, lo, hi float64) []Issue {
	n, ok := m[field].(float64)
	if !ok || math.IsNaN(n) {
		return []Issue{{Field: prefix + field, Message: "must be a number"}}
	}
	if n < lo || n > hi {
		return []Issue{{Field: prefix + field, Message: fmt.Sprintf("%g outside [%g, %g]", n, lo, hi)}}
	}
	return nil
}
