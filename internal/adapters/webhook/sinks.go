package webhook

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"essex_travel/internal/adapters/observability"
	"essex_travel/internal/domain"
)

var (
	_ domain.LeadForwarder = (*CRM)(nil)
	_ domain.EventSink     = (*Analytics)(nil)
)

// CRM forwards accepted leads.
type CRM struct {
	c   *Client
	url string
}

func NewCRM(url, key string, rps int) (*CRM, error) {
	if url == "" {
		return nil, errors.New("CRM webhook URL is required")
	}
	return &CRM{c: NewClient("crm", key, rps), url: url}, nil
}

type leadPayload struct {
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
}

func (f *CRM) Forward(ctx context.Context, l domain.Lead) error {
	return f.c.Post(ctx, f.url, "lead", leadPayload{
		ID: l.ID, Name: l.Name, Email: l.Email, Phone: l.Phone, Message: l.Message,
		Service: l.Service, City: l.City, TravelDate: l.TravelDate, Travelers: l.Travelers,
		SourcePath: l.SourcePath, CreatedAt: l.CreatedAt,
	})
}

// maxInFlight bounds concurrent analytics pushes; events beyond it are
// dropped.
const maxInFlight = 32

// Analytics pushes events in the background. Track never blocks the caller
// and never reports failure; Close waits for pushes in flight and drops
// later events.
type Analytics struct {
	c       *Client
	url     string
	timeout time.Duration
	sem     *semaphore.Weighted

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewAnalytics(url string, rps int) *Analytics {
	return &Analytics{
		c:       NewClient("analytics", "", rps),
		url:     url,
		timeout: 5 * time.Second,
		sem:     semaphore.NewWeighted(maxInFlight),
	}
}

func (a *Analytics) Track(ctx context.Context, ev domain.Event) {
	if a.url == "" {
		return
	}
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	if !a.sem.TryAcquire(1) {
		a.mu.Unlock()
		log.Warn().Str("event", ev.Name).Msg("analytics saturated, event dropped")
		return
	}
	a.wg.Add(1)
	a.mu.Unlock()

	go func() {
		defer a.wg.Done()
		defer a.sem.Release(1)
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()
		if err := a.c.Post(ctx, a.url, "event", ev); err != nil {
			log.Warn().Err(err).Str("event", ev.Name).Str("err_type", observability.LabelErr(err)).Msg("analytics push failed")
		}
	}()
}

func (a *Analytics) Close() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	a.wg.Wait()
}
