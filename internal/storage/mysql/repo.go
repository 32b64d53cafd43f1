package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"essex_travel/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

func nullStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// Repo is the MySQL LeadRepository.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) SaveLead(ctx context.Context, l domain.Lead) error {
	_, err := r.db.ExecContext(ctx, insertLeadSQL,
		l.ID,
		l.Name,
		valStr(l.Email),
		valStr(l.Phone),
		valStr(l.Message),
		valStr(l.Service),
		valStr(l.City),
		valStr(l.TravelDate),
		valInt(l.Travelers),
		valStr(l.SourcePath),
		valJSON(l.RawJSON),
		l.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert lead %s: %w", l.ID, err)
	}
	return nil
}

func (r *Repo) RecentLeads(ctx context.Context, limit int) ([]domain.Lead, error) {
	rows, err := r.db.QueryContext(ctx, recentLeadsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Lead
	for rows.Next() {
		var l domain.Lead
		var (
			email, phone, message sql.NullString
			service, city, date   sql.NullString
			source                sql.NullString
			travelers             sql.NullInt64
			raw                   sql.RawBytes
		)
		if err := rows.Scan(
			&l.ID,
			&l.Name,
			&email,
			&phone,
			&message,
			&service,
			&city,
			&date,
			&travelers,
			&source,
			&raw,
			&l.CreatedAt,
		); err != nil {
			return nil, err
		}
		l.Email, l.Phone, l.Message = nullStr(email), nullStr(phone), nullStr(message)
		l.Service, l.City, l.TravelDate = nullStr(service), nullStr(city), nullStr(date)
		l.SourcePath = nullStr(source)
		if travelers.Valid {
			n := int(travelers.Int64)
			l.Travelers = &n
		}
		if len(raw) > 0 {
			l.RawJSON = append([]byte(nil), raw...)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
