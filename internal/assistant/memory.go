package assistant

import "github.com/wolfman30/coachflow/internal/coach"

// ContextMemory remembers the last client and workout the coach created or named,
// so "them" or "it" can stand in for a name.
type ContextMemory struct {
	LastClient  *coach.Client  `json:"last_client,omitempty"`
	LastWorkout *coach.Workout `json:"last_workout,omitempty"`
}

func (m *ContextMemory) RememberClient(c coach.Client) {
	m.LastClient = &c
}

func (m *ContextMemory) RememberWorkout(w coach.Workout) {
	m.LastWorkout = &w
}

func (m *ContextMemory) Clear() {
	m.LastClient = nil
	m.LastWorkout = nil
}
