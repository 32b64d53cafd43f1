package app

import (
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"unicode"

	"essex_travel/internal/domain"
)

/********** alias registry (single source of truth) **********/

// Contact forms on the site, landing pages and partner embeds all post
// slightly different field names.
var leadAliases = map[string][]string{
	"name":        {"name", "full_name", "fullName", "contact.name"},
	"first":       {"first_name", "firstName", "contact.first_name"},
	"last":        {"last_name", "lastName", "contact.last_name"},
	"email":       {"email", "email_address", "emailAddress", "contact.email"},
	"phone":       {"phone", "telephone", "phone_number", "phoneNumber", "contact.phone"},
	"message":     {"message", "comments", "notes", "body"},
	"service":     {"service", "service_name", "interest"},
	"city":        {"city", "town", "location"},
	"travel_date": {"travel_date", "travelDate", "departure", "date"},
	"travelers":   {"travelers", "party_size", "partySize", "guests"},
	"source_path": {"source_path", "page", "path"},
}

const (
	maxNameLen    = 200
	maxMessageLen = 5000
	maxTravelers  = 50
)

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the trimmed string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) *string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return &s
		}
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, " ")
}

// firstIntFlexible: int from several paths (float64/int/string).
func firstIntFlexible(m map[string]any, paths ...string) *int {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			x := int(v)
			return &x
		case int:
			x := v
			return &x
		case int64:
			x := int(v)
			return &x
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if n, err := strconv.Atoi(s); err == nil {
				return &n
			}
		}
	}
	return nil
}

/********** mapping **********/

func mapLead(p map[string]any) domain.Lead {
	l := domain.Lead{
		Email:      firstNonEmptyAlias(p, leadAliases, "email"),
		Phone:      firstNonEmptyAlias(p, leadAliases, "phone"),
		Message:    firstNonEmptyAlias(p, leadAliases, "message"),
		Service:    firstNonEmptyAlias(p, leadAliases, "service"),
		City:       firstNonEmptyAlias(p, leadAliases, "city"),
		TravelDate: firstNonEmptyAlias(p, leadAliases, "travel_date"),
		Travelers:  firstIntFlexible(p, leadAliases["travelers"]...),
		SourcePath: firstNonEmptyAlias(p, leadAliases, "source_path"),
	}
	if n := firstNonEmptyAlias(p, leadAliases, "name"); n != nil {
		l.Name = *n
	} else {
		l.Name = joinNonEmpty(
			deref(firstNonEmptyAlias(p, leadAliases, "first")),
			deref(firstNonEmptyAlias(p, leadAliases, "last")),
		)
	}
	if l.Email != nil {
		e := strings.ToLower(*l.Email)
		l.Email = &e
	}
	return l
}

func validateLead(l domain.Lead) error {
	var errs []error
	if l.Name == "" {
		errs = append(errs, errors.New("name is required"))
	} else if len(l.Name) > maxNameLen {
		errs = append(errs, errors.New("name is too long"))
	}
	if l.Email == nil && l.Phone == nil {
		errs = append(errs, errors.New("email or phone is required"))
	}
	if l.Email != nil {
		if _, err := mail.ParseAddress(*l.Email); err != nil {
			errs = append(errs, fmt.Errorf("email %q is not valid", *l.Email))
		}
	}
	if l.Phone != nil && digits(*l.Phone) < 7 {
		errs = append(errs, fmt.Errorf("phone %q is not valid", *l.Phone))
	}
	if l.Message != nil && len(*l.Message) > maxMessageLen {
		errs = append(errs, errors.New("message is too long"))
	}
	if l.Travelers != nil && (*l.Travelers < 1 || *l.Travelers > maxTravelers) {
		errs = append(errs, fmt.Errorf("travelers must be between 1 and %d", maxTravelers))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidLead, errors.Join(errs...))
	}
	return nil
}

func digits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
