package assistant

import (
	"strconv"

	"github.com/wolfman30/coachflow/internal/coach"
)

// Intent is the operation an utterance asks for.
type Intent string

const (
	IntentAddClient         Intent = "add_client"
	IntentBulkAddClients    Intent = "bulk_add_clients"
	IntentListClients       Intent = "list_clients"
	IntentDeleteClient      Intent = "delete_client"
	IntentAddWorkout        Intent = "add_workout"
	IntentListWorkouts      Intent = "list_workouts"
	IntentDeleteWorkout     Intent = "delete_workout"
	IntentScheduleSession   Intent = "schedule_session"
	IntentShowToday         Intent = "show_today"
	IntentMarkAttendance    Intent = "mark_attendance"
	IntentSendReminder      Intent = "send_reminder"
	IntentCreatePaymentLink Intent = "create_payment_link"
	IntentShowStats         Intent = "show_stats"
	IntentShowLeads         Intent = "show_leads"
	IntentHelp              Intent = "help"
	IntentUnknown           Intent = "unknown"
)

// Slots are values captured inline when the intent was recognized. Zero values mean absent.
type Slots struct {
	Name       string
	Phone      string
	Email      string
	Count      int
	Category   string
	Duration   int
	Recurrence coach.Recurrence
	When       string
	Status     coach.AttendanceStatus
	Method     coach.ReminderMethod
	Amount     float64
}

// answers renders the inline slots as flow answers keyed by the slot they fill.
func (s Slots) answers(intent Intent) map[Slot]string {
	out := make(map[Slot]string)
	set := func(slot Slot, v string) {
		if v != "" {
			out[slot] = v
		}
	}
	num := func(n int) string {
		if n <= 0 {
			return ""
		}
		return strconv.Itoa(n)
	}

	switch intent {
	case IntentAddClient:
		set(SlotName, s.Name)
		set(SlotPhone, s.Phone)
		set(SlotEmail, s.Email)
	case IntentBulkAddClients:
		set(SlotCount, num(s.Count))
	case IntentAddWorkout:
		set(SlotName, s.Name)
		set(SlotCategory, s.Category)
		set(SlotDuration, num(s.Duration))
	case IntentScheduleSession:
		set(SlotClient, s.Name)
		set(SlotRecurrence, string(s.Recurrence))
		set(SlotCount, num(s.Count))
		set(SlotStart, s.When)
		set(SlotDuration, num(s.Duration))
	case IntentMarkAttendance:
		set(SlotClient, s.Name)
		set(SlotStatus, string(s.Status))
	}
	return out
}
