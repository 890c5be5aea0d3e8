package assistant

import "time"

// Role identifies who authored a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// View names a dashboard screen the host can navigate to.
type View string

const (
	ViewClients   View = "clients"
	ViewWorkouts  View = "workouts"
	ViewSchedule  View = "schedule"
	ViewPayments  View = "payments"
	ViewDashboard View = "dashboard"
	ViewLeads     View = "leads"
)

// Action is a suggested navigation the host may render as a button.
type Action struct {
	Label string `json:"label"`
	View  View   `json:"view"`
}

// Message is one transcript entry. Text may contain **bold** markup.
type Message struct {
	Role    Role      `json:"role"`
	Text    string    `json:"text"`
	Actions []Action  `json:"actions,omitempty"`
	Failed  bool      `json:"failed,omitempty"`
	At      time.Time `json:"at"`
}

func reply(text string, actions ...Action) Message {
	return Message{Role: RoleAssistant, Text: text, Actions: actions}
}

func failure(text string) Message {
	return Message{Role: RoleAssistant, Text: text, Failed: true}
}
