package coach

import (
	"strings"
	"time"
)

// Client is a coached person.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Workout is a reusable workout template.
type Workout struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	DurationMinutes int       `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
}

// SessionStatus is the lifecycle state of a scheduled session.
type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionConfirmed SessionStatus = "confirmed"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
	SessionNoShow    SessionStatus = "no_show"
)

// Open reports whether attendance can still be recorded for the session.
func (s SessionStatus) Open() bool {
	return s == SessionScheduled || s == SessionConfirmed
}

// Recurrence describes how a series of sessions repeats.
type Recurrence string

const (
	RecurrenceOnce     Recurrence = "once"
	RecurrenceDaily    Recurrence = "daily"
	RecurrenceWeekdays Recurrence = "weekdays"
	RecurrenceWeekly   Recurrence = "weekly"
	RecurrenceBiweekly Recurrence = "biweekly"
)

// Valid reports whether r is a known recurrence.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceOnce, RecurrenceDaily, RecurrenceWeekdays, RecurrenceWeekly, RecurrenceBiweekly:
		return true
	}
	return false
}

// Recurring reports whether the recurrence produces more than one session.
func (r Recurrence) Recurring() bool {
	return r.Valid() && r != RecurrenceOnce
}

// Session is one booked slot between the coach and a client.
type Session struct {
	ID              string        `json:"id"`
	ClientID        string        `json:"client_id"`
	ClientName      string        `json:"client_name,omitempty"`
	WorkoutID       string        `json:"workout_id,omitempty"`
	Start           time.Time     `json:"start"`
	DurationMinutes int           `json:"duration_minutes"`
	Status          SessionStatus `json:"status"`
	Recurrence      Recurrence    `json:"recurrence"`
	SeriesIndex     int           `json:"series_index,omitempty"`
	SeriesTotal     int           `json:"series_total,omitempty"`
}

// NewClient carries the fields for creating a client. A nil Email means none was given.
type NewClient struct {
	Name  string  `json:"name"`
	Phone string  `json:"phone"`
	Email *string `json:"email"`
}

// Validate checks the client payload.
func (c NewClient) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(c.Phone) == "" {
		return ErrMissingPhone
	}
	return nil
}

// NewWorkout carries the fields for creating a workout.
type NewWorkout struct {
	Name            string `json:"name"`
	Category        string `json:"category"`
	DurationMinutes int    `json:"duration_minutes"`
}

// Validate checks the workout payload.
func (w NewWorkout) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return ErrInvalidName
	}
	if w.DurationMinutes < MinWorkoutMinutes {
		return ErrInvalidDuration
	}
	return nil
}

// MinWorkoutMinutes is the shortest workout or session accepted.
const MinWorkoutMinutes = 5

// SessionSpec is the payload for creating one session or a recurring series.
type SessionSpec struct {
	ClientID        string     `json:"client_id"`
	Start           time.Time  `json:"start"`
	DurationMinutes int        `json:"duration_minutes"`
	Recurrence      Recurrence `json:"recurrence"`
	Count           int        `json:"count,omitempty"`
	WorkoutID       *string    `json:"workout_id"`
}

// Validate checks the session payload.
func (s SessionSpec) Validate() error {
	if strings.TrimSpace(s.ClientID) == "" {
		return ErrClientNotFound
	}
	if s.Start.IsZero() {
		return ErrInvalidStart
	}
	if s.DurationMinutes < MinWorkoutMinutes {
		return ErrInvalidDuration
	}
	if !s.Recurrence.Valid() {
		return ErrInvalidRecurrence
	}
	if s.Recurrence.Recurring() && (s.Count < 1 || s.Count > MaxSeriesLength) {
		return ErrInvalidCount
	}
	return nil
}

// MaxSeriesLength caps how many sessions one recurring request may create.
const MaxSeriesLength = 52

// AttendanceStatus is what the coach reports for a session.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// SessionStatus maps an attendance report onto the session lifecycle.
func (a AttendanceStatus) SessionStatus() SessionStatus {
	if a == AttendancePresent {
		return SessionCompleted
	}
	return SessionNoShow
}

// ReminderMethod is the channel a reminder goes out on.
type ReminderMethod string

const (
	ReminderWhatsApp ReminderMethod = "whatsapp"
	ReminderSMS      ReminderMethod = "sms"
	ReminderEmail    ReminderMethod = "email"
)

// Reminder is the outcome of a reminder request.
type Reminder struct {
	ClientID  string         `json:"client_id"`
	SessionID string         `json:"session_id,omitempty"`
	Method    ReminderMethod `json:"method"`
	Delivered bool           `json:"delivered"`
	Link      string         `json:"link,omitempty"`
}

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

// PaymentLink is a pending payment request sent to a client.
type PaymentLink struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	URL       string    `json:"url"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Lead is a prospective client captured outside the client list.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Source    string    `json:"source"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats summarises the coach's business.
type Stats struct {
	TotalClients      int     `json:"total_clients"`
	TotalSessions     int     `json:"total_sessions"`
	CompletedSessions int     `json:"completed_sessions"`
	TotalRevenue      float64 `json:"total_revenue"`
	PendingPayments   int     `json:"pending_payments"`
}
