package assistant

import (
	"context"

	"github.com/wolfman30/coachflow/internal/coach"
)

// Collaborator is the backing API the assistant reads from and mutates.
// coach.Service is the production implementation.
type Collaborator interface {
	ListClients(ctx context.Context) ([]coach.Client, error)
	ListWorkouts(ctx context.Context) ([]coach.Workout, error)
	CreateClient(ctx context.Context, req coach.NewClient) (*coach.Client, error)
	CreateWorkout(ctx context.Context, req coach.NewWorkout) (*coach.Workout, error)
	DeleteClient(ctx context.Context, id string) error
	DeleteWorkout(ctx context.Context, id string) error

	CreateSession(ctx context.Context, spec coach.SessionSpec) (*coach.Session, error)
	CreateRecurringSessions(ctx context.Context, spec coach.SessionSpec) ([]coach.Session, error)
	MarkAttendance(ctx context.Context, sessionID string, status coach.AttendanceStatus) (*coach.Session, error)
	SendReminder(ctx context.Context, clientID string, method coach.ReminderMethod) (*coach.Reminder, error)
	CreatePaymentLink(ctx context.Context, clientID string, amount float64) (*coach.PaymentLink, error)
	TodaySchedule(ctx context.Context) ([]coach.Session, error)

	Stats(ctx context.Context) (*coach.Stats, error)
	Leads(ctx context.Context) ([]coach.Lead, error)
}
