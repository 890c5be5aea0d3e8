package assistant

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wolfman30/coachflow/internal/coach"
	"github.com/wolfman30/coachflow/pkg/logging"
)

// Thursday 15 Oct 2026, 10:30 local.
var testNow = time.Date(2026, 10, 15, 10, 30, 0, 0, time.Local)

type attendanceCall struct {
	SessionID string
	Status    coach.AttendanceStatus
}

type reminderCall struct {
	ClientID string
	Method   coach.ReminderMethod
}

type paymentCall struct {
	ClientID string
	Amount   float64
}

// fakeCollaborator records every call and serves canned data.
type fakeCollaborator struct {
	mu sync.Mutex

	clients  []coach.Client
	workouts []coach.Workout
	today    []coach.Session

	calls            []string
	createdClients   []coach.NewClient
	createdWorkouts  []coach.NewWorkout
	singleSessions   []coach.SessionSpec
	recurring        []coach.SessionSpec
	deleted          []string
	attendance       []attendanceCall
	reminders        []reminderCall
	payments         []paymentCall
	failOn           map[string]error
	blockUntilCancel map[string]bool
	seq              int
}

func newFakeCollaborator() *fakeCollaborator {
	return &fakeCollaborator{failOn: map[string]error{}, blockUntilCancel: map[string]bool{}}
}

var mutatingOps = map[string]bool{
	"create_client": true, "create_workout": true, "delete_client": true, "delete_workout": true,
	"create_session": true, "create_recurring_sessions": true, "mark_attendance": true,
	"send_reminder": true, "create_payment_link": true,
}

func (f *fakeCollaborator) enter(ctx context.Context, op string) error {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	err := f.failOn[op]
	block := f.blockUntilCancel[op]
	f.mu.Unlock()
	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

func (f *fakeCollaborator) mutations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		if mutatingOps[c] {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeCollaborator) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s%d", prefix, f.seq)
}

func (f *fakeCollaborator) addClient(name, phone string) coach.Client {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := coach.Client{ID: f.nextID("c"), Name: name, Phone: phone}
	f.clients = append(f.clients, c)
	return c
}

func (f *fakeCollaborator) addWorkout(name, category string, minutes int) coach.Workout {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := coach.Workout{ID: f.nextID("w"), Name: name, Category: category, DurationMinutes: minutes}
	f.workouts = append(f.workouts, w)
	return w
}

func (f *fakeCollaborator) ListClients(ctx context.Context) ([]coach.Client, error) {
	if err := f.enter(ctx, "list_clients"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]coach.Client(nil), f.clients...), nil
}

func (f *fakeCollaborator) ListWorkouts(ctx context.Context) ([]coach.Workout, error) {
	if err := f.enter(ctx, "list_workouts"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]coach.Workout(nil), f.workouts...), nil
}

func (f *fakeCollaborator) CreateClient(ctx context.Context, req coach.NewClient) (*coach.Client, error) {
	if err := f.enter(ctx, "create_client"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdClients = append(f.createdClients, req)
	c := coach.Client{ID: f.nextID("c"), Name: req.Name, Phone: req.Phone}
	if req.Email != nil {
		c.Email = *req.Email
	}
	f.clients = append(f.clients, c)
	return &c, nil
}

func (f *fakeCollaborator) CreateWorkout(ctx context.Context, req coach.NewWorkout) (*coach.Workout, error) {
	if err := f.enter(ctx, "create_workout"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdWorkouts = append(f.createdWorkouts, req)
	w := coach.Workout{ID: f.nextID("w"), Name: req.Name, Category: req.Category, DurationMinutes: req.DurationMinutes}
	f.workouts = append(f.workouts, w)
	return &w, nil
}

func (f *fakeCollaborator) DeleteClient(ctx context.Context, id string) error {
	if err := f.enter(ctx, "delete_client"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	for i, c := range f.clients {
		if c.ID == id {
			f.clients = append(f.clients[:i], f.clients[i+1:]...)
			return nil
		}
	}
	return coach.ErrClientNotFound
}

func (f *fakeCollaborator) DeleteWorkout(ctx context.Context, id string) error {
	if err := f.enter(ctx, "delete_workout"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	for i, w := range f.workouts {
		if w.ID == id {
			f.workouts = append(f.workouts[:i], f.workouts[i+1:]...)
			return nil
		}
	}
	return coach.ErrWorkoutNotFound
}

func (f *fakeCollaborator) CreateSession(ctx context.Context, spec coach.SessionSpec) (*coach.Session, error) {
	if err := f.enter(ctx, "create_session"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.singleSessions = append(f.singleSessions, spec)
	return &coach.Session{ID: f.nextID("s"), ClientID: spec.ClientID, Start: spec.Start, DurationMinutes: spec.DurationMinutes, Status: coach.SessionScheduled}, nil
}

func (f *fakeCollaborator) CreateRecurringSessions(ctx context.Context, spec coach.SessionSpec) ([]coach.Session, error) {
	if err := f.enter(ctx, "create_recurring_sessions"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recurring = append(f.recurring, spec)
	var out []coach.Session
	for _, start := range coach.Occurrences(spec.Start, spec.Recurrence, spec.Count) {
		out = append(out, coach.Session{ID: f.nextID("s"), ClientID: spec.ClientID, Start: start, DurationMinutes: spec.DurationMinutes})
	}
	return out, nil
}

func (f *fakeCollaborator) MarkAttendance(ctx context.Context, sessionID string, status coach.AttendanceStatus) (*coach.Session, error) {
	if err := f.enter(ctx, "mark_attendance"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attendance = append(f.attendance, attendanceCall{SessionID: sessionID, Status: status})
	for i := range f.today {
		if f.today[i].ID == sessionID {
			f.today[i].Status = status.SessionStatus()
			s := f.today[i]
			return &s, nil
		}
	}
	return nil, coach.ErrSessionNotFound
}

func (f *fakeCollaborator) SendReminder(ctx context.Context, clientID string, method coach.ReminderMethod) (*coach.Reminder, error) {
	if err := f.enter(ctx, "send_reminder"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders = append(f.reminders, reminderCall{ClientID: clientID, Method: method})
	if method == coach.ReminderEmail {
		return &coach.Reminder{ClientID: clientID, Method: method, Delivered: true}, nil
	}
	return &coach.Reminder{ClientID: clientID, Method: method, Link: "https://wa.me/919876543210"}, nil
}

func (f *fakeCollaborator) CreatePaymentLink(ctx context.Context, clientID string, amount float64) (*coach.PaymentLink, error) {
	if err := f.enter(ctx, "create_payment_link"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payments = append(f.payments, paymentCall{ClientID: clientID, Amount: amount})
	id := f.nextID("p")
	return &coach.PaymentLink{ID: id, ClientID: clientID, Amount: amount, Currency: "INR", URL: "https://pay.example/l/" + id, Status: coach.PaymentPending}, nil
}

func (f *fakeCollaborator) TodaySchedule(ctx context.Context) ([]coach.Session, error) {
	if err := f.enter(ctx, "today_schedule"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]coach.Session(nil), f.today...), nil
}

func (f *fakeCollaborator) Stats(ctx context.Context) (*coach.Stats, error) {
	if err := f.enter(ctx, "stats"); err != nil {
		return nil, err
	}
	return &coach.Stats{TotalClients: 12, TotalSessions: 40, CompletedSessions: 31, TotalRevenue: 45500, PendingPayments: 3}, nil
}

func (f *fakeCollaborator) Leads(ctx context.Context) ([]coach.Lead, error) {
	if err := f.enter(ctx, "leads"); err != nil {
		return nil, err
	}
	return []coach.Lead{{ID: "l1", Name: "Anita", Phone: "9000000001", Source: "instagram", Status: "new"}}, nil
}

func newTestAssistant(t *testing.T, collab Collaborator) *Assistant {
	t.Helper()
	return New(collab, Options{
		Timeout: time.Second,
		Logger:  logging.Discard(),
		Now:     func() time.Time { return testNow },
	})
}

// converse feeds turns in order and returns the replies.
func converse(t *testing.T, a *Assistant, sess *Session, turns ...string) []Message {
	t.Helper()
	out := make([]Message, 0, len(turns))
	for _, turn := range turns {
		out = append(out, a.Handle(context.Background(), sess, turn))
	}
	return out
}
