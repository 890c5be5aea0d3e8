// Package dashboard serves the read-only summaries behind the stats and leads views.
package dashboard

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wolfman30/coachflow/internal/coach"
)

// Repository reads dashboard figures straight from the database.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repository over an open database handle.
func NewRepository(db *sql.DB) *Repository {
	if db == nil {
		panic("dashboard: sql.DB required")
	}
	return &Repository{db: db}
}

// Stats returns client, session and payment totals.
func (r *Repository) Stats(ctx context.Context) (*coach.Stats, error) {
	var st coach.Stats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM clients),
			(SELECT COUNT(*) FROM sessions),
			(SELECT COUNT(*) FROM sessions WHERE status = 'completed'),
			(SELECT COALESCE(SUM(amount), 0) FROM payment_links WHERE status = 'paid'),
			(SELECT COUNT(*) FROM payment_links WHERE status = 'pending')
	`).Scan(&st.TotalClients, &st.TotalSessions, &st.CompletedSessions, &st.TotalRevenue, &st.PendingPayments)
	if err != nil {
		return nil, fmt.Errorf("dashboard: stats: %w", err)
	}
	return &st, nil
}

// Leads returns the most recent leads first.
func (r *Repository) Leads(ctx context.Context) ([]coach.Lead, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, phone, source, status, created_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT 100
	`)
	if err != nil {
		return nil, fmt.Errorf("dashboard: leads: %w", err)
	}
	defer rows.Close()

	var out []coach.Lead
	for rows.Next() {
		var l coach.Lead
		if err := rows.Scan(&l.ID, &l.Name, &l.Phone, &l.Source, &l.Status, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("dashboard: scan lead: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dashboard: leads: %w", err)
	}
	return out, nil
}
