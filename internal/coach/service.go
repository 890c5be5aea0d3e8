package coach

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wolfman30/coachflow/internal/notify"
	"github.com/wolfman30/coachflow/pkg/logging"
)

// ReminderSender is the notify capability the service needs.
type ReminderSender interface {
	Send(ctx context.Context, req notify.ReminderRequest) (*notify.ReminderResult, error)
}

// ServiceConfig carries the business settings of the service.
type ServiceConfig struct {
	PaymentBaseURL string
	Currency       string
}

// Service applies business rules on top of a Store. It is the API the assistant talks to.
type Service struct {
	store     Store
	dashboard Dashboard
	reminders ReminderSender
	cfg       ServiceConfig
	logger    *logging.Logger
	now       func() time.Time
}

func NewService(store Store, dashboard Dashboard, reminders ReminderSender, cfg ServiceConfig, logger *logging.Logger) *Service {
	if store == nil {
		panic("coach: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if reminders == nil {
		reminders = notify.NewReminderSender(nil, logger)
	}
	if cfg.PaymentBaseURL == "" {
		cfg.PaymentBaseURL = "https://pay.coachflow.app/l"
	}
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	cfg.PaymentBaseURL = strings.TrimRight(cfg.PaymentBaseURL, "/")
	return &Service{
		store:     store,
		dashboard: dashboard,
		reminders: reminders,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) ListClients(ctx context.Context) ([]Client, error) {
	return s.store.ListClients(ctx)
}

func (s *Service) ListWorkouts(ctx context.Context) ([]Workout, error) {
	return s.store.ListWorkouts(ctx)
}

func (s *Service) CreateClient(ctx context.Context, req NewClient) (*Client, error) {
	req.Name = strings.TrimSpace(req.Name)
	c, err := s.store.CreateClient(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("client created", "client_id", c.ID)
	return c, nil
}

func (s *Service) CreateWorkout(ctx context.Context, req NewWorkout) (*Workout, error) {
	req.Name = strings.TrimSpace(req.Name)
	w, err := s.store.CreateWorkout(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("workout created", "workout_id", w.ID, "category", w.Category)
	return w, nil
}

func (s *Service) DeleteClient(ctx context.Context, id string) error {
	if err := s.store.DeleteClient(ctx, id); err != nil {
		return err
	}
	s.logger.Info("client deleted", "client_id", id)
	return nil
}

func (s *Service) DeleteWorkout(ctx context.Context, id string) error {
	if err := s.store.DeleteWorkout(ctx, id); err != nil {
		return err
	}
	s.logger.Info("workout deleted", "workout_id", id)
	return nil
}

// CreateSession books a single session. Any recurrence in the spec is ignored.
func (s *Service) CreateSession(ctx context.Context, spec SessionSpec) (*Session, error) {
	spec.Recurrence = RecurrenceOnce
	spec.Count = 1
	out, err := s.insertSeries(ctx, spec)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// CreateRecurringSessions expands the spec into its occurrences and stores them together.
func (s *Service) CreateRecurringSessions(ctx context.Context, spec SessionSpec) ([]Session, error) {
	if spec.Recurrence == "" {
		spec.Recurrence = RecurrenceOnce
	}
	return s.insertSeries(ctx, spec)
}

func (s *Service) insertSeries(ctx context.Context, spec SessionSpec) ([]Session, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.store.GetClient(ctx, spec.ClientID); err != nil {
		return nil, err
	}

	starts := Occurrences(spec.Start, spec.Recurrence, spec.Count)
	batch := make([]Session, 0, len(starts))
	for i, start := range starts {
		sess := Session{
			ID:              uuid.New().String(),
			ClientID:        spec.ClientID,
			Start:           start,
			DurationMinutes: spec.DurationMinutes,
			Status:          SessionScheduled,
			Recurrence:      spec.Recurrence,
		}
		if spec.WorkoutID != nil {
			sess.WorkoutID = *spec.WorkoutID
		}
		if spec.Recurrence.Recurring() {
			sess.SeriesIndex = i + 1
			sess.SeriesTotal = len(starts)
		}
		batch = append(batch, sess)
	}

	out, err := s.store.InsertSessions(ctx, batch)
	if err != nil {
		return nil, err
	}
	s.logger.Info("sessions scheduled", "client_id", spec.ClientID, "recurrence", string(spec.Recurrence), "count", len(out))
	return out, nil
}

// MarkAttendance records attendance. Only scheduled or confirmed sessions can change.
func (s *Service) MarkAttendance(ctx context.Context, sessionID string, status AttendanceStatus) (*Session, error) {
	if status != AttendancePresent && status != AttendanceAbsent {
		return nil, fmt.Errorf("coach: unknown attendance status %q", status)
	}
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Status.Open() {
		return nil, ErrSessionClosed
	}
	updated, err := s.store.UpdateSessionStatus(ctx, sessionID, status.SessionStatus())
	if err != nil {
		return nil, err
	}
	s.logger.Info("attendance marked", "session_id", sessionID, "status", string(updated.Status))
	return updated, nil
}

// SendReminder reminds the client about their next open session, or sends a check-in if there is none.
func (s *Service) SendReminder(ctx context.Context, clientID string, method ReminderMethod) (*Reminder, error) {
	switch method {
	case ReminderWhatsApp, ReminderSMS, ReminderEmail:
	default:
		return nil, ErrInvalidMethod
	}
	client, err := s.store.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	req := notify.ReminderRequest{
		Method: string(method),
		Name:   client.Name,
		Phone:  client.Phone,
		Email:  client.Email,
	}
	reminder := &Reminder{ClientID: client.ID, Method: method}

	next, err := s.store.NextSession(ctx, client.ID, s.now())
	switch {
	case err == nil:
		req.SessionStart = next.Start
		reminder.SessionID = next.ID
	case errors.Is(err, ErrNoUpcomingSession):
	default:
		return nil, err
	}

	res, err := s.reminders.Send(ctx, req)
	if err != nil {
		return nil, err
	}
	reminder.Delivered = res.Delivered
	reminder.Link = res.Link
	s.logger.Info("reminder sent", "client_id", client.ID, "method", string(method), "delivered", res.Delivered)
	return reminder, nil
}

// CreatePaymentLink records a pending payment and returns the link the client pays through.
func (s *Service) CreatePaymentLink(ctx context.Context, clientID string, amount float64) (*PaymentLink, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, ErrInvalidAmount
	}
	if _, err := s.store.GetClient(ctx, clientID); err != nil {
		return nil, err
	}
	id := uuid.New().String()
	link, err := s.store.CreatePaymentLink(ctx, PaymentLink{
		ID:       id,
		ClientID: clientID,
		Amount:   math.Round(amount*100) / 100,
		Currency: s.cfg.Currency,
		URL:      s.cfg.PaymentBaseURL + "/" + id,
		Status:   PaymentPending,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("payment link created", "client_id", clientID, "payment_id", link.ID)
	return link, nil
}

// TodaySchedule lists every session starting today, earliest first.
func (s *Service) TodaySchedule(ctx context.Context) ([]Session, error) {
	from, to := DayBounds(s.now())
	return s.store.SessionsBetween(ctx, from, to)
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	if s.dashboard == nil {
		return nil, errors.New("coach: dashboard not configured")
	}
	return s.dashboard.Stats(ctx)
}

func (s *Service) Leads(ctx context.Context) ([]Lead, error) {
	if s.dashboard == nil {
		return nil, errors.New("coach: dashboard not configured")
	}
	return s.dashboard.Leads(ctx)
}
