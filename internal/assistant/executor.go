package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/coachflow/internal/coach"
)

// execute runs a one-shot intent.
func (a *Assistant) execute(ctx context.Context, sess *Session, intent Intent, slots Slots) Message {
	var (
		msg Message
		err error
	)
	switch intent {
	case IntentHelp:
		return reply(helpText)
	case IntentListClients:
		msg, err = a.listClients(ctx)
	case IntentListWorkouts:
		msg, err = a.listWorkouts(ctx)
	case IntentDeleteClient:
		msg, err = a.confirmDelete(ctx, sess, KindClient, slots.Name)
	case IntentDeleteWorkout:
		msg, err = a.confirmDelete(ctx, sess, KindWorkout, slots.Name)
	case IntentShowToday:
		msg, err = a.showToday(ctx)
	case IntentSendReminder:
		msg, err = a.sendReminder(ctx, sess, slots)
	case IntentCreatePaymentLink:
		msg, err = a.paymentLink(ctx, sess, slots)
	case IntentShowStats:
		msg, err = a.showStats(ctx)
	case IntentShowLeads:
		msg, err = a.showLeads(ctx)
	default:
		return reply(unknownText)
	}
	if err != nil {
		return a.failed(err)
	}
	return msg
}

func (a *Assistant) listClients(ctx context.Context) (Message, error) {
	var clients []coach.Client
	if err := a.call(ctx, "list_clients", func(ctx context.Context) (err error) {
		clients, err = a.collab.ListClients(ctx)
		return err
	}); err != nil {
		return Message{}, err
	}
	if len(clients) == 0 {
		return reply("You don't have any clients yet. Say **add a client** to add your first one.",
			Action{Label: "Add client", View: ViewClients}), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have **%d** %s:", len(clients), plural(len(clients), "client", "clients"))
	for _, c := range clients {
		fmt.Fprintf(&b, "\n• **%s** %s", c.Name, c.Phone)
	}
	return reply(b.String(), Action{Label: "Open clients", View: ViewClients}), nil
}

func (a *Assistant) listWorkouts(ctx context.Context) (Message, error) {
	var workouts []coach.Workout
	if err := a.call(ctx, "list_workouts", func(ctx context.Context) (err error) {
		workouts, err = a.collab.ListWorkouts(ctx)
		return err
	}); err != nil {
		return Message{}, err
	}
	if len(workouts) == 0 {
		return reply("You don't have any workouts yet. Say **add a workout** to create one.",
			Action{Label: "Add workout", View: ViewWorkouts}), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have **%d** %s:", len(workouts), plural(len(workouts), "workout", "workouts"))
	for _, w := range workouts {
		fmt.Fprintf(&b, "\n• **%s** (%s, %d min)", w.Name, w.Category, w.DurationMinutes)
	}
	return reply(b.String(), Action{Label: "Open workouts", View: ViewWorkouts}), nil
}

// confirmDelete resolves the target and opens a confirm_delete flow. Nothing is deleted yet.
func (a *Assistant) confirmDelete(ctx context.Context, sess *Session, kind EntityKind, fragment string) (Message, error) {
	if strings.TrimSpace(fragment) == "" {
		return reply(fmt.Sprintf("Which %s should I delete? For example **delete %s %s**.", kind, kind, exampleName(kind))), nil
	}
	f := &ConfirmDeleteFlow{Target: kind}
	switch kind {
	case KindClient:
		c, err := a.resolveClient(ctx, sess, fragment)
		if err != nil {
			return Message{}, err
		}
		f.ID, f.Name = c.ID, c.Name
	case KindWorkout:
		w, err := a.resolveWorkout(ctx, sess, fragment)
		if err != nil {
			return Message{}, err
		}
		f.ID, f.Name = w.ID, w.Name
	}
	sess.Flow = f
	return reply(Prompt(f, SlotConfirm)), nil
}

func (a *Assistant) showToday(ctx context.Context) (Message, error) {
	today, err := a.todaySchedule(ctx)
	if err != nil {
		return Message{}, err
	}
	if len(today) == 0 {
		return reply("Nothing is scheduled for today.", Action{Label: "Open schedule", View: ViewSchedule}), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Today you have **%d** %s:", len(today), plural(len(today), "session", "sessions"))
	for _, s := range today {
		fmt.Fprintf(&b, "\n• %s **%s** (%d min, %s)", s.Start.Format("3:04 PM"), s.ClientName, s.DurationMinutes, s.Status)
	}
	return reply(b.String(), Action{Label: "Open schedule", View: ViewSchedule}), nil
}

func (a *Assistant) todaySchedule(ctx context.Context) ([]coach.Session, error) {
	var today []coach.Session
	err := a.call(ctx, "today_schedule", func(ctx context.Context) (err error) {
		today, err = a.collab.TodaySchedule(ctx)
		return err
	})
	return today, err
}

func (a *Assistant) sendReminder(ctx context.Context, sess *Session, slots Slots) (Message, error) {
	method := slots.Method
	if method == "" {
		method = coach.ReminderWhatsApp
	}
	if strings.TrimSpace(slots.Name) == "" {
		return a.remindToday(ctx, method)
	}

	c, err := a.resolveClient(ctx, sess, slots.Name)
	if err != nil {
		return Message{}, err
	}
	r, err := a.remind(ctx, c.ID, method)
	if err != nil {
		return Message{}, err
	}
	return reply(reminderText(c.Name, method, r), Action{Label: "Open schedule", View: ViewSchedule}), nil
}

// remindToday reminds every client holding an open session today.
func (a *Assistant) remindToday(ctx context.Context, method coach.ReminderMethod) (Message, error) {
	today, err := a.todaySchedule(ctx)
	if err != nil {
		return Message{}, err
	}

	seen := make(map[string]bool)
	var lines []string
	for _, s := range today {
		if !s.Status.Open() || seen[s.ClientID] {
			continue
		}
		seen[s.ClientID] = true
		r, err := a.remind(ctx, s.ClientID, method)
		if err != nil {
			return Message{}, err
		}
		lines = append(lines, "• "+reminderText(s.ClientName, method, r))
	}
	if len(lines) == 0 {
		return reply("No one has an open session today, so there's nobody to remind."), nil
	}
	text := fmt.Sprintf("Reminders for **%d** %s today:\n%s", len(lines), plural(len(lines), "client", "clients"), strings.Join(lines, "\n"))
	return reply(text, Action{Label: "Open schedule", View: ViewSchedule}), nil
}

func (a *Assistant) remind(ctx context.Context, clientID string, method coach.ReminderMethod) (*coach.Reminder, error) {
	var r *coach.Reminder
	err := a.call(ctx, "send_reminder", func(ctx context.Context) (err error) {
		r, err = a.collab.SendReminder(ctx, clientID, method)
		return err
	})
	return r, err
}

func reminderText(name string, method coach.ReminderMethod, r *coach.Reminder) string {
	if r.Delivered {
		return fmt.Sprintf("Reminder sent to **%s** by %s.", name, method)
	}
	if r.Link != "" {
		return fmt.Sprintf("Reminder for **%s** is ready on %s: %s", name, method, r.Link)
	}
	return fmt.Sprintf("Reminder for **%s** queued on %s.", name, method)
}

func (a *Assistant) paymentLink(ctx context.Context, sess *Session, slots Slots) (Message, error) {
	if strings.TrimSpace(slots.Name) == "" || slots.Amount <= 0 {
		return reply("Tell me who to bill and how much, for example **payment link for Rahul 1500**."), nil
	}
	c, err := a.resolveClient(ctx, sess, slots.Name)
	if err != nil {
		return Message{}, err
	}

	var link *coach.PaymentLink
	if err := a.call(ctx, "create_payment_link", func(ctx context.Context) (err error) {
		link, err = a.collab.CreatePaymentLink(ctx, c.ID, slots.Amount)
		return err
	}); err != nil {
		return Message{}, err
	}
	text := fmt.Sprintf("Payment link for **%s** (%s %.2f): %s", c.Name, link.Currency, link.Amount, link.URL)
	return reply(text, Action{Label: "Open payments", View: ViewPayments}), nil
}

func (a *Assistant) showStats(ctx context.Context) (Message, error) {
	var st *coach.Stats
	if err := a.call(ctx, "stats", func(ctx context.Context) (err error) {
		st, err = a.collab.Stats(ctx)
		return err
	}); err != nil {
		return Message{}, err
	}
	text := fmt.Sprintf("**%d** clients, **%d** sessions (%d completed), revenue **%.2f**, %d pending %s.",
		st.TotalClients, st.TotalSessions, st.CompletedSessions, st.TotalRevenue,
		st.PendingPayments, plural(st.PendingPayments, "payment", "payments"))
	return reply(text, Action{Label: "Open dashboard", View: ViewDashboard}), nil
}

func (a *Assistant) showLeads(ctx context.Context) (Message, error) {
	var leads []coach.Lead
	if err := a.call(ctx, "leads", func(ctx context.Context) (err error) {
		leads, err = a.collab.Leads(ctx)
		return err
	}); err != nil {
		return Message{}, err
	}
	if len(leads) == 0 {
		return reply("No leads yet.", Action{Label: "Open leads", View: ViewLeads}), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have **%d** %s:", len(leads), plural(len(leads), "lead", "leads"))
	for _, l := range leads {
		fmt.Fprintf(&b, "\n• **%s** %s (%s, %s)", l.Name, l.Phone, l.Source, l.Status)
	}
	return reply(b.String(), Action{Label: "Open leads", View: ViewLeads}), nil
}

// complete runs the terminal action of a fully slotted flow.
func (a *Assistant) complete(ctx context.Context, sess *Session, f Flow) Message {
	var (
		msg Message
		err error
	)
	switch f := f.(type) {
	case *AddClientFlow:
		msg, err = a.completeAddClient(ctx, sess, f)
	case *BulkAddClientsFlow:
		msg, err = a.completeBulk(ctx, sess, f)
	case *AddWorkoutFlow:
		msg, err = a.completeAddWorkout(ctx, sess, f)
	case *ScheduleSessionFlow:
		msg, err = a.completeSchedule(ctx, f)
	case *MarkAttendanceFlow:
		msg, err = a.completeAttendance(ctx, f)
	case *ConfirmDeleteFlow:
		msg, err = a.completeDelete(ctx, f)
	default:
		err = fmt.Errorf("assistant: unknown flow %T", f)
	}
	if err != nil {
		return a.failed(err)
	}
	return msg
}

func (a *Assistant) completeAddClient(ctx context.Context, sess *Session, f *AddClientFlow) (Message, error) {
	var c *coach.Client
	if err := a.call(ctx, "create_client", func(ctx context.Context) (err error) {
		c, err = a.collab.CreateClient(ctx, coach.NewClient{Name: f.Name, Phone: f.Phone, Email: f.Email})
		return err
	}); err != nil {
		return Message{}, err
	}
	sess.Memory.RememberClient(*c)
	return reply(fmt.Sprintf("Added **%s** (%s) to your clients.", c.Name, c.Phone),
		Action{Label: "Open clients", View: ViewClients}), nil
}

func (a *Assistant) completeBulk(ctx context.Context, sess *Session, f *BulkAddClientsFlow) (Message, error) {
	added := make([]string, 0, len(f.Entries))
	for _, e := range f.Entries {
		var c *coach.Client
		err := a.call(ctx, "create_client", func(ctx context.Context) (err error) {
			c, err = a.collab.CreateClient(ctx, coach.NewClient{Name: e.Name, Phone: e.Phone})
			return err
		})
		if err != nil {
			if len(added) == 0 {
				return Message{}, err
			}
			msg := a.failed(err)
			msg.Text = fmt.Sprintf("Added %s before something went wrong. %s", strings.Join(bold(added), ", "), msg.Text)
			return msg, nil
		}
		sess.Memory.RememberClient(*c)
		added = append(added, c.Name)
	}
	text := fmt.Sprintf("Added **%d** %s: %s.", len(added), plural(len(added), "client", "clients"), strings.Join(bold(added), ", "))
	return reply(text, Action{Label: "Open clients", View: ViewClients}), nil
}

func (a *Assistant) completeAddWorkout(ctx context.Context, sess *Session, f *AddWorkoutFlow) (Message, error) {
	var w *coach.Workout
	if err := a.call(ctx, "create_workout", func(ctx context.Context) (err error) {
		w, err = a.collab.CreateWorkout(ctx, coach.NewWorkout{Name: f.Name, Category: f.Category, DurationMinutes: f.Duration})
		return err
	}); err != nil {
		return Message{}, err
	}
	sess.Memory.RememberWorkout(*w)
	text := fmt.Sprintf("Created **%s** (%s, %d min).", w.Name, w.Category, w.DurationMinutes)
	if f.Assignee == nil {
		return reply(text, Action{Label: "Open workouts", View: ViewWorkouts}), nil
	}

	tomorrow := a.now().AddDate(0, 0, 1)
	start := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), DefaultHour, 0, 0, 0, tomorrow.Location())
	var s *coach.Session
	if err := a.call(ctx, "create_session", func(ctx context.Context) (err error) {
		s, err = a.collab.CreateSession(ctx, coach.SessionSpec{
			ClientID:        f.Assignee.ID,
			Start:           start,
			DurationMinutes: w.DurationMinutes,
			Recurrence:      coach.RecurrenceOnce,
			WorkoutID:       &w.ID,
		})
		return err
	}); err != nil {
		msg := a.failed(err)
		msg.Text = text + " " + msg.Text
		return msg, nil
	}
	text += fmt.Sprintf(" Booked **%s** for it on %s.", f.Assignee.Name, formatWhen(s.Start))
	return reply(text, Action{Label: "Open schedule", View: ViewSchedule}), nil
}

func (a *Assistant) completeSchedule(ctx context.Context, f *ScheduleSessionFlow) (Message, error) {
	spec := coach.SessionSpec{
		ClientID:        f.Client.ID,
		Start:           f.Start,
		DurationMinutes: f.Duration,
		Recurrence:      f.Recurrence,
	}
	if f.Workout != nil {
		spec.WorkoutID = &f.Workout.ID
	}

	if !f.Recurrence.Recurring() {
		var s *coach.Session
		if err := a.call(ctx, "create_session", func(ctx context.Context) (err error) {
			s, err = a.collab.CreateSession(ctx, spec)
			return err
		}); err != nil {
			return Message{}, err
		}
		text := fmt.Sprintf("Scheduled **%s** on **%s** (%d min).", f.Client.Name, formatWhen(s.Start), s.DurationMinutes)
		return reply(text, Action{Label: "Open schedule", View: ViewSchedule}), nil
	}

	spec.Count = f.Count
	var series []coach.Session
	if err := a.call(ctx, "create_recurring_sessions", func(ctx context.Context) (err error) {
		series, err = a.collab.CreateRecurringSessions(ctx, spec)
		return err
	}); err != nil {
		return Message{}, err
	}
	text := fmt.Sprintf("Scheduled **%d** %s %s for **%s** starting **%s** (%d min each).",
		len(series), f.Recurrence, plural(len(series), "session", "sessions"), f.Client.Name, formatWhen(f.Start), f.Duration)
	return reply(text, Action{Label: "Open schedule", View: ViewSchedule}), nil
}

// completeAttendance only touches an open session of the client's that starts today.
func (a *Assistant) completeAttendance(ctx context.Context, f *MarkAttendanceFlow) (Message, error) {
	today, err := a.todaySchedule(ctx)
	if err != nil {
		return Message{}, err
	}

	var target, closed *coach.Session
	for i := range today {
		s := &today[i]
		if s.ClientID != f.Client.ID {
			continue
		}
		if s.Status.Open() {
			target = s
			break
		}
		if closed == nil {
			closed = s
		}
	}
	switch {
	case target == nil && closed != nil:
		return reply(fmt.Sprintf("**%s**'s session today is already marked %s, so I left it alone.", f.Client.Name, closed.Status)), nil
	case target == nil:
		return reply(fmt.Sprintf("**%s** has no session today, so there's nothing to mark.", f.Client.Name),
			Action{Label: "Open schedule", View: ViewSchedule}), nil
	}

	var updated *coach.Session
	if err := a.call(ctx, "mark_attendance", func(ctx context.Context) (err error) {
		updated, err = a.collab.MarkAttendance(ctx, target.ID, f.Status)
		return err
	}); err != nil {
		return Message{}, err
	}
	return reply(fmt.Sprintf("Marked **%s** %s for the %s session.", f.Client.Name, f.Status, updated.Start.Format("3:04 PM")),
		Action{Label: "Open schedule", View: ViewSchedule}), nil
}

func (a *Assistant) completeDelete(ctx context.Context, f *ConfirmDeleteFlow) (Message, error) {
	if f.Confirmed == nil || !*f.Confirmed {
		return reply(fmt.Sprintf("Okay, I kept **%s**.", f.Name)), nil
	}

	op, del, view := "delete_client", a.collab.DeleteClient, ViewClients
	if f.Target == KindWorkout {
		op, del, view = "delete_workout", a.collab.DeleteWorkout, ViewWorkouts
	}
	if err := a.call(ctx, op, func(ctx context.Context) error {
		return del(ctx, f.ID)
	}); err != nil {
		if errors.Is(err, coach.ErrClientNotFound) || errors.Is(err, coach.ErrWorkoutNotFound) {
			return reply(fmt.Sprintf("**%s** was already gone.", f.Name)), nil
		}
		return Message{}, err
	}
	return reply(fmt.Sprintf("Deleted %s **%s**.", f.Target, f.Name), Action{Label: "Open " + string(view), View: view}), nil
}

func formatWhen(t time.Time) string {
	return t.Format("Mon 2 Jan at 3:04 PM")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func bold(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = "**" + s + "**"
	}
	return out
}

func exampleName(kind EntityKind) string {
	if kind == KindWorkout {
		return "Leg Day"
	}
	return "Rahul"
}
