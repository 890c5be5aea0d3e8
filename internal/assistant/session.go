package assistant

import (
	"encoding/json"
	"fmt"
	"time"
)

// Session is one conversation: its transcript, the active flow (if any) and the context memory.
// It is owned by a single conversation and must not be used by two turns at once.
type Session struct {
	ID         string
	Transcript []Message
	Flow       Flow
	Memory     ContextMemory
	UpdatedAt  time.Time
}

func NewSession(id string) *Session {
	return &Session{ID: id}
}

type sessionJSON struct {
	ID         string        `json:"id"`
	Transcript []Message     `json:"transcript"`
	Flow       *flowEnvelope `json:"flow,omitempty"`
	Memory     ContextMemory `json:"memory"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

type flowEnvelope struct {
	Kind  FlowKind        `json:"kind"`
	State json.RawMessage `json:"state"`
}

func (s *Session) MarshalJSON() ([]byte, error) {
	out := sessionJSON{
		ID:         s.ID,
		Transcript: s.Transcript,
		Memory:     s.Memory,
		UpdatedAt:  s.UpdatedAt,
	}
	if s.Flow != nil {
		state, err := json.Marshal(s.Flow)
		if err != nil {
			return nil, fmt.Errorf("assistant: encode flow: %w", err)
		}
		out.Flow = &flowEnvelope{Kind: s.Flow.Kind(), State: state}
	}
	return json.Marshal(out)
}

func (s *Session) UnmarshalJSON(data []byte) error {
	var in sessionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	s.ID = in.ID
	s.Transcript = in.Transcript
	s.Memory = in.Memory
	s.UpdatedAt = in.UpdatedAt
	s.Flow = nil
	if in.Flow == nil {
		return nil
	}

	var f Flow
	switch in.Flow.Kind {
	case FlowAddClient:
		f = &AddClientFlow{}
	case FlowBulkAddClients:
		f = &BulkAddClientsFlow{}
	case FlowAddWorkout:
		f = &AddWorkoutFlow{}
	case FlowScheduleSession:
		f = &ScheduleSessionFlow{}
	case FlowMarkAttendance:
		f = &MarkAttendanceFlow{}
	case FlowConfirmDelete:
		f = &ConfirmDeleteFlow{}
	default:
		return fmt.Errorf("assistant: unknown flow kind %q", in.Flow.Kind)
	}
	if err := json.Unmarshal(in.Flow.State, f); err != nil {
		return fmt.Errorf("assistant: decode %s flow: %w", in.Flow.Kind, err)
	}
	s.Flow = f
	return nil
}
