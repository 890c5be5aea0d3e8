package coach

import "errors"

var (
	// ErrInvalidName is returned when the name is empty
	ErrInvalidName = errors.New("name is required")

	// ErrMissingPhone is returned when a client has no phone number
	ErrMissingPhone = errors.New("phone is required")

	// ErrInvalidDuration is returned for sessions or workouts shorter than MinWorkoutMinutes
	ErrInvalidDuration = errors.New("duration is too short")

	ErrInvalidStart      = errors.New("start time is required")
	ErrInvalidRecurrence = errors.New("unknown recurrence")
	ErrInvalidCount      = errors.New("session count out of range")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidMethod     = errors.New("unsupported reminder method")

	ErrClientNotFound  = errors.New("client not found")
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionClosed is returned when attendance is marked on a session that is no longer open
	ErrSessionClosed = errors.New("session is no longer open for attendance")

	// ErrNoUpcomingSession is returned when a reminder has nothing to remind about
	ErrNoUpcomingSession = errors.New("client has no upcoming session")
)
