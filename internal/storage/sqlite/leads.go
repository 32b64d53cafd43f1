package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"essex_travel/internal/domain"
)

const insertLeadSQL = `
INSERT INTO leads
	(id, name, email, phone, message, service, city, travel_date, travelers, source_path, raw, created_at)
VALUES
	(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO NOTHING
`

const recentLeadsSQL = `
SELECT id, name, email, phone, message, service, city, travel_date, travelers, source_path, raw, created_at
FROM leads
ORDER BY created_at DESC, id DESC
LIMIT ?
`

// Leads is the SQLite LeadRepository.
type Leads struct{ c *Client }

func (c *Client) Leads() *Leads { return &Leads{c: c} }

func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func (l *Leads) SaveLead(ctx context.Context, lead domain.Lead) error {
	var raw any
	if len(lead.RawJSON) > 0 {
		raw = string(lead.RawJSON)
	}
	_, err := l.c.db.ExecContext(ctx, insertLeadSQL,
		lead.ID,
		lead.Name,
		nullable(lead.Email),
		nullable(lead.Phone),
		nullable(lead.Message),
		nullable(lead.Service),
		nullable(lead.City),
		nullable(lead.TravelDate),
		nullable(lead.Travelers),
		nullable(lead.SourcePath),
		raw,
		lead.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert lead %s: %w", lead.ID, err)
	}
	return nil
}

func (l *Leads) RecentLeads(ctx context.Context, limit int) ([]domain.Lead, error) {
	rows, err := l.c.db.QueryContext(ctx, recentLeadsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("querying leads: %w", err)
	}
	defer rows.Close()

	var out []domain.Lead
	for rows.Next() {
		var (
			lead                  domain.Lead
			email, phone, message sql.NullString
			service, city, date   sql.NullString
			source, raw           sql.NullString
			travelers             sql.NullInt64
			created               string
		)
		if err := rows.Scan(&lead.ID, &lead.Name, &email, &phone, &message, &service, &city, &date,
			&travelers, &source, &raw, &created); err != nil {
			return nil, fmt.Errorf("scanning lead: %w", err)
		}
		lead.Email, lead.Phone, lead.Message = str(email), str(phone), str(message)
		lead.Service, lead.City, lead.TravelDate = str(service), str(city), str(date)
		lead.SourcePath = str(source)
		if travelers.Valid {
			n := int(travelers.Int64)
			lead.Travelers = &n
		}
		if raw.Valid {
			lead.RawJSON = []byte(raw.String)
		}
		if lead.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("lead %s created_at: %w", lead.ID, err)
		}
		out = append(out, lead)
	}
	return out, rows.Err()
}

func str(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
