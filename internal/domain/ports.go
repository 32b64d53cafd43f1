package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrUnknownTown = errors.New("unknown town")
	ErrInvalidLead = errors.New("invalid lead")
)

// KVStore is the persistence port used by the interactive tools.
// Keys are owned by exactly one tool; there is no cross-key coordination.
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

type PageCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type LeadRepository interface {
	SaveLead(ctx context.Context, l Lead) error
	RecentLeads(ctx context.Context, limit int) ([]Lead, error)
}

// LeadForwarder hands a stored lead to the CRM.
type LeadForwarder interface {
	Forward(ctx context.Context, l Lead) error
}

// EventSink is fire-and-forget; implementations must not block the caller.
type EventSink interface {
	Track(ctx context.Context, e Event)
}

// Lead is a contact-form submission.
type Lead struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      *string   `json:"email,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Message    *string   `json:"message,omitempty"`
	Service    *string   `json:"service,omitempty"`
	City       *string   `json:"city,omitempty"`
	TravelDate *string   `json:"travel_date,omitempty"`
	Travelers  *int      `json:"travelers,omitempty"`
	SourcePath *string   `json:"source_path,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	RawJSON    []byte    `json:"-"` // original payload
}

type Event struct {
	Name  string            `json:"name"`
	Path  string            `json:"path,omitempty"`
	Props map[string]string `json:"props,omitempty"`
	At    time.Time         `json:"at"`
}
