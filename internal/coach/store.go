package coach

import (
	"context"
	"time"
)

// Store persists the coach's clients, workouts, sessions and payment links.
type Store interface {
	ListClients(ctx context.Context) ([]Client, error)
	GetClient(ctx context.Context, id string) (*Client, error)
	CreateClient(ctx context.Context, req NewClient) (*Client, error)
	DeleteClient(ctx context.Context, id string) error

	ListWorkouts(ctx context.Context) ([]Workout, error)
	CreateWorkout(ctx context.Context, req NewWorkout) (*Workout, error)
	DeleteWorkout(ctx context.Context, id string) error

	// InsertSessions stores a batch atomically and returns the stored rows.
	InsertSessions(ctx context.Context, sessions []Session) ([]Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
	UpdateSessionStatus(ctx context.Context, id string, status SessionStatus) (*Session, error)
	// SessionsBetween lists sessions starting in [from, to), ordered by start, with client names filled.
	SessionsBetween(ctx context.Context, from, to time.Time) ([]Session, error)
	// NextSession returns the client's earliest open session starting at or after the given time.
	NextSession(ctx context.Context, clientID string, after time.Time) (*Session, error)

	CreatePaymentLink(ctx context.Context, link PaymentLink) (*PaymentLink, error)
}

// Dashboard serves the read-only summaries shown on the coach dashboard.
type Dashboard interface {
	Stats(ctx context.Context) (*Stats, error)
	Leads(ctx context.Context) ([]Lead, error)
}
