package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"essex_travel/internal/adapters/observability"
	"essex_travel/internal/domain"
)

// ForwardTimeout bounds one CRM delivery, retries included.
const ForwardTimeout = 30 * time.Second

type LeadService struct {
	repo    domain.LeadRepository
	forward domain.LeadForwarder
	events  domain.EventSink
	now     func() time.Time

	mu      sync.Mutex
	closed  bool
	pending sync.WaitGroup
}

// NewLeadService wires the lead pipeline. forward and events may be nil.
func NewLeadService(r domain.LeadRepository, f domain.LeadForwarder, e domain.EventSink) *LeadService {
	return &LeadService{repo: r, forward: f, events: e, now: time.Now}
}

// Close waits for CRM deliveries in flight. Leads submitted afterwards are
// stored but not forwarded.
func (s *LeadService) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.pending.Wait()
}

// Submit stores a contact-form submission. Only validation and storage
// failures reach the caller; CRM and analytics run in the background.
func (s *LeadService) Submit(ctx context.Context, payload map[string]any) (domain.Lead, error) {
	l := mapLead(payload)
	if err := validateLead(l); err != nil {
		observability.ObserveLead("invalid")
		return domain.Lead{}, err
	}
	l.ID = uuid.NewString()
	l.CreatedAt = s.now().UTC()
	if raw, err := json.Marshal(payload); err == nil {
		l.RawJSON = raw
	}

	if err := s.repo.SaveLead(ctx, l); err != nil {
		observability.ObserveLead("store_error")
		return domain.Lead{}, fmt.Errorf("save lead: %w", err)
	}

	observability.ObserveLead("stored")
	s.forwardAsync(ctx, l)

	if s.events != nil {
		props := map[string]string{"lead_id": l.ID}
		if l.Service != nil {
			props["service"] = *l.Service
		}
		if l.City != nil {
			props["city"] = *l.City
		}
		s.events.Track(ctx, domain.Event{Name: "lead_submitted", Path: deref(l.SourcePath), Props: props, At: l.CreatedAt})
	}
	return l, nil
}

// forwardAsync hands the stored lead to the CRM without holding up the
// response. Failures are logged; the lead can be replayed from storage.
func (s *LeadService) forwardAsync(ctx context.Context, l domain.Lead) {
	if s.forward == nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		observability.ObserveLead("forward_failed")
		log.Warn().Str("lead_id", l.ID).Msg("shutting down, lead not forwarded")
		return
	}
	s.pending.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ForwardTimeout)
		defer cancel()
		if err := s.forward.Forward(ctx, l); err != nil {
			observability.ObserveLead("forward_failed")
			log.Warn().Err(err).Str("lead_id", l.ID).Msg("crm forward failed")
			return
		}
		observability.ObserveLead("forwarded")
	}()
}

// Recent lists the newest stored leads.
func (s *LeadService) Recent(ctx context.Context, limit int) ([]domain.Lead, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.RecentLeads(ctx, limit)
}

// IsInvalid reports whether err came from lead validation.
func IsInvalid(err error) bool {
	return errors.Is(err, domain.ErrInvalidLead)
}
