package assistant

import (
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/coachflow/internal/coach"
)

// Slot names one piece of information a flow collects.
type Slot string

const (
	SlotNone       Slot = ""
	SlotName       Slot = "name"
	SlotPhone      Slot = "phone"
	SlotEmail      Slot = "email"
	SlotCount      Slot = "count"
	SlotEntryName  Slot = "entry_name"
	SlotEntryPhone Slot = "entry_phone"
	SlotCategory   Slot = "category"
	SlotDuration   Slot = "duration"
	SlotAssignee   Slot = "assignee"
	SlotClient     Slot = "client"
	SlotRecurrence Slot = "recurrence"
	SlotStart      Slot = "start"
	SlotWorkout    Slot = "workout"
	SlotStatus     Slot = "status"
	SlotConfirm    Slot = "confirm"
)

// Optional reports whether the slot may be skipped. Optional slots always come last.
func (s Slot) Optional() bool {
	return s == SlotEmail || s == SlotAssignee || s == SlotWorkout
}

// FlowKind identifies a flow variant.
type FlowKind string

const (
	FlowAddClient       FlowKind = "add_client"
	FlowBulkAddClients  FlowKind = "bulk_add_clients"
	FlowAddWorkout      FlowKind = "add_workout"
	FlowScheduleSession FlowKind = "schedule_session"
	FlowMarkAttendance  FlowKind = "mark_attendance"
	FlowConfirmDelete   FlowKind = "confirm_delete"
)

// Flow is the state of one guided, multi-turn operation. The set of variants is closed.
type Flow interface {
	Kind() FlowKind
	isFlow()
}

type AddClientFlow struct {
	Name          string  `json:"name,omitempty"`
	Phone         string  `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty"`
	EmailAnswered bool    `json:"email_answered,omitempty"`
}

type BulkEntry struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

type BulkAddClientsFlow struct {
	Count   int         `json:"count,omitempty"`
	Entries []BulkEntry `json:"entries,omitempty"`
}

type AddWorkoutFlow struct {
	Name             string        `json:"name,omitempty"`
	Category         string        `json:"category,omitempty"`
	Duration         int           `json:"duration,omitempty"`
	AssigneeAnswered bool          `json:"assignee_answered,omitempty"`
	Assignee         *coach.Client `json:"assignee,omitempty"`
}

type ScheduleSessionFlow struct {
	Client          *coach.Client    `json:"client,omitempty"`
	Recurrence      coach.Recurrence `json:"recurrence,omitempty"`
	Count           int              `json:"count,omitempty"`
	Start           time.Time        `json:"start,omitempty"`
	Duration        int              `json:"duration,omitempty"`
	WorkoutAnswered bool             `json:"workout_answered,omitempty"`
	Workout         *coach.Workout   `json:"workout,omitempty"`
}

type MarkAttendanceFlow struct {
	Client *coach.Client          `json:"client,omitempty"`
	Status coach.AttendanceStatus `json:"status,omitempty"`
}

// ConfirmDeleteFlow holds a deletion awaiting a yes/no answer.
type ConfirmDeleteFlow struct {
	Target    EntityKind `json:"target"`
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Confirmed *bool      `json:"confirmed,omitempty"`
}

func (*AddClientFlow) Kind() FlowKind       { return FlowAddClient }
func (*BulkAddClientsFlow) Kind() FlowKind  { return FlowBulkAddClients }
func (*AddWorkoutFlow) Kind() FlowKind      { return FlowAddWorkout }
func (*ScheduleSessionFlow) Kind() FlowKind { return FlowScheduleSession }
func (*MarkAttendanceFlow) Kind() FlowKind  { return FlowMarkAttendance }
func (*ConfirmDeleteFlow) Kind() FlowKind   { return FlowConfirmDelete }

func (*AddClientFlow) isFlow()       {}
func (*BulkAddClientsFlow) isFlow()  {}
func (*AddWorkoutFlow) isFlow()      {}
func (*ScheduleSessionFlow) isFlow() {}
func (*MarkAttendanceFlow) isFlow()  {}
func (*ConfirmDeleteFlow) isFlow()   {}

// NextSlot returns the first slot still missing in the flow's declared order,
// or SlotNone when the flow is ready for its terminal action.
func NextSlot(f Flow) Slot {
	switch f := f.(type) {
	case *AddClientFlow:
		switch {
		case f.Name == "":
			return SlotName
		case f.Phone == "":
			return SlotPhone
		case !f.EmailAnswered:
			return SlotEmail
		}
	case *BulkAddClientsFlow:
		switch {
		case f.Count == 0:
			return SlotCount
		case len(f.Entries) > 0 && f.Entries[len(f.Entries)-1].Phone == "":
			return SlotEntryPhone
		case len(f.Entries) < f.Count:
			return SlotEntryName
		}
	case *AddWorkoutFlow:
		switch {
		case f.Name == "":
			return SlotName
		case f.Category == "":
			return SlotCategory
		case f.Duration == 0:
			return SlotDuration
		case !f.AssigneeAnswered:
			return SlotAssignee
		}
	case *ScheduleSessionFlow:
		switch {
		case f.Client == nil:
			return SlotClient
		case f.Recurrence == "":
			return SlotRecurrence
		case f.Recurrence.Recurring() && f.Count == 0:
			return SlotCount
		case f.Start.IsZero():
			return SlotStart
		case f.Duration == 0:
			return SlotDuration
		case !f.WorkoutAnswered:
			return SlotWorkout
		}
	case *MarkAttendanceFlow:
		switch {
		case f.Client == nil:
			return SlotClient
		case f.Status == "":
			return SlotStatus
		}
	case *ConfirmDeleteFlow:
		if f.Confirmed == nil {
			return SlotConfirm
		}
	}
	return SlotNone
}

// slotOrder lists every slot of the flow in its declared order.
func slotOrder(f Flow) []Slot {
	switch f.(type) {
	case *AddClientFlow:
		return []Slot{SlotName, SlotPhone, SlotEmail}
	case *BulkAddClientsFlow:
		return []Slot{SlotCount, SlotEntryName, SlotEntryPhone}
	case *AddWorkoutFlow:
		return []Slot{SlotName, SlotCategory, SlotDuration, SlotAssignee}
	case *ScheduleSessionFlow:
		return []Slot{SlotClient, SlotRecurrence, SlotCount, SlotStart, SlotDuration, SlotWorkout}
	case *MarkAttendanceFlow:
		return []Slot{SlotClient, SlotStatus}
	case *ConfirmDeleteFlow:
		return []Slot{SlotConfirm}
	}
	return nil
}

// Prompt is the question asked for slot within flow f.
func Prompt(f Flow, slot Slot) string {
	switch f := f.(type) {
	case *AddClientFlow:
		switch slot {
		case SlotName:
			return "What's the client's name?"
		case SlotPhone:
			return fmt.Sprintf("What's **%s**'s phone number?", f.Name)
		case SlotEmail:
			return fmt.Sprintf("Email address for **%s**? Say **skip** if you don't have one.", f.Name)
		}
	case *BulkAddClientsFlow:
		switch slot {
		case SlotCount:
			return fmt.Sprintf("How many clients are you adding? (1-%d)", MaxBulkClients)
		case SlotEntryName:
			return fmt.Sprintf("Client %d of %d: what's their name?", len(f.Entries)+1, f.Count)
		case SlotEntryPhone:
			return fmt.Sprintf("Phone number for **%s**?", f.Entries[len(f.Entries)-1].Name)
		}
	case *AddWorkoutFlow:
		switch slot {
		case SlotName:
			return "What should the workout be called?"
		case SlotCategory:
			return "Which category is it? (" + strings.Join(WorkoutCategories, ", ") + ")"
		case SlotDuration:
			return fmt.Sprintf("How many minutes does **%s** take?", f.Name)
		case SlotAssignee:
			return "Assign it to a client? Give their name, or say **skip**."
		}
	case *ScheduleSessionFlow:
		switch slot {
		case SlotClient:
			return "Which client is the session for?"
		case SlotRecurrence:
			return "How often? **once**, **daily**, **weekdays**, **weekly** or **biweekly**."
		case SlotCount:
			return fmt.Sprintf("How many sessions should I schedule? (1-%d)", coach.MaxSeriesLength)
		case SlotStart:
			return "When does it start? For example **Monday at 6pm** or **20/10 7:30am**."
		case SlotDuration:
			return "How long is each session, in minutes?"
		case SlotWorkout:
			return "Attach a workout? Give its name, or say **skip**."
		}
	case *MarkAttendanceFlow:
		switch slot {
		case SlotClient:
			return "Whose attendance are you marking?"
		case SlotStatus:
			return fmt.Sprintf("Was **%s** present or absent?", f.Client.Name)
		}
	case *ConfirmDeleteFlow:
		return fmt.Sprintf("Delete %s **%s**? This can't be undone. Reply **yes** to confirm.", f.Target, f.Name)
	}
	return ""
}

func newFlow(intent Intent) Flow {
	switch intent {
	case IntentAddClient:
		return &AddClientFlow{}
	case IntentBulkAddClients:
		return &BulkAddClientsFlow{}
	case IntentAddWorkout:
		return &AddWorkoutFlow{}
	case IntentScheduleSession:
		return &ScheduleSessionFlow{}
	case IntentMarkAttendance:
		return &MarkAttendanceFlow{}
	}
	return nil
}
