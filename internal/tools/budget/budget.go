// Package budget is the trip budget planner. Amounts are integer cents in
// BaseCurrency; other currencies are for display only.
package budget

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const BaseCurrency = "USD"

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownItem     = errors.New("unknown item")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrUnknownCurrency = errors.New("unknown currency")
)

type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
	Quantity    int    `json:"quantity"`
}

func (i Item) Total() int64 { return i.AmountCents * int64(i.Quantity) }

// UnmarshalJSON also accepts the amount as typed by the traveler, e.g.
// "amount": "$1,299.50", which takes precedence over amount_cents.
func (i *Item) UnmarshalJSON(b []byte) error {
	type plain Item
	var aux struct {
		plain
		Amount *string `json:"amount"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*i = Item(aux.plain)
	if aux.Amount != nil {
		cents, err := ParseAmount(*aux.Amount)
		if err != nil {
			return err
		}
		i.AmountCents = cents
	}
	return nil
}

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

func (c Category) Total() int64 {
	var sum int64
	for _, it := range c.Items {
		sum += it.Total()
	}
	return sum
}

type Planner struct {
	Currency   string     `json:"currency"`
	Travelers  int        `json:"travelers"`
	Categories []Category `json:"categories"`
}

var defaultCategories = []string{
	"Transportation",
	"Accommodation",
	"Food & Dining",
	"Activities & Excursions",
	"Travel Insurance",
	"Shopping & Souvenirs",
}

// Default is a two-traveler planner with the standard empty categories.
// Category ids are stable so a default state always encodes the same way.
func Default() Planner {
	p := Planner{Currency: BaseCurrency, Travelers: 2}
	for i, name := range defaultCategories {
		p.Categories = append(p.Categories, Category{ID: "cat-" + strconv.Itoa(i+1), Name: name, Items: []Item{}})
	}
	return p
}

// Check rejects states no sequence of planner operations can produce.
func (p *Planner) Check() error {
	if p.Currency != BaseCurrency {
		return fmt.Errorf("%w: base currency %q", ErrUnknownCurrency, p.Currency)
	}
	if p.Travelers < 1 {
		return fmt.Errorf("travelers must be at least 1, got %d", p.Travelers)
	}
	for _, c := range p.Categories {
		if c.ID == "" {
			return errors.New("category without id")
		}
		for _, it := range c.Items {
			if it.ID == "" || it.AmountCents < 0 || it.Quantity < 1 {
				return fmt.Errorf("%w: item %q in %q", ErrInvalidAmount, it.Name, c.Name)
			}
		}
	}
	return nil
}

func (p *Planner) category(id string) (*Category, error) {
	for i := range p.Categories {
		if p.Categories[i].ID == id {
			return &p.Categories[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, id)
}

func (p *Planner) AddCategory(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("category name is required")
	}
	id := uuid.NewString()
	p.Categories = append(p.Categories, Category{ID: id, Name: name, Items: []Item{}})
	return id, nil
}

func (p *Planner) RemoveCategory(id string) bool {
	for i := range p.Categories {
		if p.Categories[i].ID == id {
			p.Categories = append(p.Categories[:i], p.Categories[i+1:]...)
			return true
		}
	}
	return false
}

func checkLine(amountCents int64, qty int) error {
	if amountCents < 0 || qty < 1 {
		return fmt.Errorf("%w: %d x %d", ErrInvalidAmount, amountCents, qty)
	}
	return nil
}

func (p *Planner) AddItem(categoryID, name string, amountCents int64, qty int) (string, error) {
	if err := checkLine(amountCents, qty); err != nil {
		return "", err
	}
	c, err := p.category(categoryID)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	c.Items = append(c.Items, Item{ID: id, Name: strings.TrimSpace(name), AmountCents: amountCents, Quantity: qty})
	return id, nil
}

func (p *Planner) UpdateItem(categoryID, itemID, name string, amountCents int64, qty int) error {
	if err := checkLine(amountCents, qty); err != nil {
		return err
	}
	c, err := p.category(categoryID)
	if err != nil {
		return err
	}
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].Name = strings.TrimSpace(name)
			c.Items[i].AmountCents = amountCents
			c.Items[i].Quantity = qty
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
}

func (p *Planner) RemoveItem(categoryID, itemID string) bool {
	c, err := p.category(categoryID)
	if err != nil {
		return false
	}
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Planner) SetTravelers(n int) error {
	if n < 1 {
		return fmt.Errorf("travelers must be at least 1, got %d", n)
	}
	p.Travelers = n
	return nil
}

func (p Planner) CategoryTotal(id string) (int64, error) {
	c, err := p.category(id)
	if err != nil {
		return 0, err
	}
	return c.Total(), nil
}

func (p Planner) GrandTotal() int64 {
	var sum int64
	for _, c := range p.Categories {
		sum += c.Total()
	}
	return sum
}

// PerPerson splits the grand total, rounding half a cent up.
func (p Planner) PerPerson() int64 {
	if p.Travelers < 1 {
		return p.GrandTotal()
	}
	t := int64(p.Travelers)
	return (p.GrandTotal() + t/2) / t
}

// ParseAmount reads a decimal amount such as "1,299.5" into cents. Only
// digits, one decimal point, thousands commas and a leading "$" are
// accepted; signs are not.
func ParseAmount(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$")), ",", "")
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: %q has more than two decimals", ErrInvalidAmount, s)
	}
	if !digits(whole) || (frac != "" && !digits(frac)) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || w > math.MaxInt64/100-1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	var f int64
	if frac != "" {
		f, _ = strconv.ParseInt((frac + "0")[:2], 10, 64)
	}
	return w*100 + f, nil
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

type currency struct {
	symbol string
	rate   float64 // units per USD
}

// Static display rates. They are not quotes.
var currencies = map[string]currency{
	"USD": {"$", 1},
	"EUR": {"€", 0.92},
	"GBP": {"£", 0.79},
	"CAD": {"CA$", 1.36},
	"MXN": {"MX$", 17.05},
	"JPY": {"¥", 149.5},
}

// Currencies lists the display currencies in a stable order.
func Currencies() []string {
	return []string{"USD", "EUR", "GBP", "CAD", "MXN", "JPY"}
}

// Convert returns cents of BaseCurrency in units of code.
func Convert(cents int64, code string) (float64, error) {
	cur, ok := currencies[strings.ToUpper(code)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
	}
	return float64(cents) / 100 * cur.rate, nil
}

// Format renders cents of BaseCurrency in code, e.g. "$1,299.50".
func Format(cents int64, code string) (string, error) {
	v, err := Convert(cents, code)
	if err != nil {
		return "", err
	}
	cur := currencies[strings.ToUpper(code)]
	neg := v < 0
	scaled := int64(math.Round(math.Abs(v) * 100))
	whole, frac := strconv.FormatInt(scaled/100, 10), scaled%100

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(cur.symbol)
	for i, d := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	fmt.Fprintf(&b, ".%02d", frac)
	return b.String(), nil
}
