package assistant

import (
	"context"
	"errors"
	"strings"

	"github.com/wolfman30/coachflow/internal/coach"
)

// startFlow makes f the active flow and pre-fills it with inline answers in slot order.
// Once every mandatory slot is filled, remaining optional slots are skipped and the flow completes.
func (a *Assistant) startFlow(ctx context.Context, sess *Session, f Flow, inline map[Slot]string) Message {
	sess.Flow = f
	a.logger.Debug("flow started", "session_id", sess.ID, "flow", string(f.Kind()), "inline", len(inline))

	for _, slot := range slotOrder(f) {
		answer, ok := inline[slot]
		if !ok {
			continue
		}
		if err := a.apply(ctx, sess, f, slot, answer); err != nil {
			return a.slotFailed(sess, f, NextSlot(f), err)
		}
	}

	for {
		slot := NextSlot(f)
		switch {
		case slot == SlotNone:
			return a.finishFlow(ctx, sess)
		case !slot.Optional():
			return reply(Prompt(f, slot))
		}
		if err := a.apply(ctx, sess, f, slot, "skip"); err != nil {
			return a.slotFailed(sess, f, slot, err)
		}
	}
}

// continueFlow feeds one answer to the active flow.
func (a *Assistant) continueFlow(ctx context.Context, sess *Session, text string) Message {
	f := sess.Flow
	if IsCancel(text) {
		sess.Flow = nil
		a.metrics.ObserveFlow(string(f.Kind()), "cancelled")
		return reply("Okay, I've cancelled that. What would you like to do next?")
	}

	slot := NextSlot(f)
	if slot != SlotNone {
		if err := a.apply(ctx, sess, f, slot, text); err != nil {
			return a.slotFailed(sess, f, slot, err)
		}
	}
	if next := NextSlot(f); next != SlotNone {
		return reply(Prompt(f, next))
	}
	return a.finishFlow(ctx, sess)
}

// slotFailed re-prompts on validation and lookup misses; collaborator failures end the flow.
func (a *Assistant) slotFailed(sess *Session, f Flow, slot Slot, err error) Message {
	var ve *ValidationError
	var nf *NotFoundError
	switch {
	case errors.As(err, &ve):
		return reply(ve.Message + "\n" + Prompt(f, slot))
	case errors.As(err, &nf):
		return reply(nf.Error() + "\n" + Prompt(f, slot))
	}
	sess.Flow = nil
	a.metrics.ObserveFlow(string(f.Kind()), "failed")
	return a.failed(err)
}

// finishFlow clears the flow and runs its terminal action. The flow is cleared even when the action fails.
func (a *Assistant) finishFlow(ctx context.Context, sess *Session) Message {
	f := sess.Flow
	sess.Flow = nil

	msg := a.complete(ctx, sess, f)
	result := "completed"
	if msg.Failed {
		result = "failed"
	}
	a.metrics.ObserveFlow(string(f.Kind()), result)
	return msg
}

// apply validates answer for slot and records it on the flow.
// An answer is always taken as the current slot's answer, never reclassified.
func (a *Assistant) apply(ctx context.Context, sess *Session, f Flow, slot Slot, answer string) error {
	answer = strings.TrimSpace(answer)
	switch f := f.(type) {
	case *AddClientFlow:
		return a.applyAddClient(f, slot, answer)
	case *BulkAddClientsFlow:
		return a.applyBulk(f, slot, answer)
	case *AddWorkoutFlow:
		return a.applyAddWorkout(ctx, sess, f, slot, answer)
	case *ScheduleSessionFlow:
		return a.applySchedule(ctx, sess, f, slot, answer)
	case *MarkAttendanceFlow:
		return a.applyAttendance(ctx, sess, f, slot, answer)
	case *ConfirmDeleteFlow:
		confirmed := IsConfirm(answer)
		f.Confirmed = &confirmed
		return nil
	}
	return nil
}

func (a *Assistant) applyAddClient(f *AddClientFlow, slot Slot, answer string) error {
	switch slot {
	case SlotName:
		if answer == "" {
			return invalid(slot, "I need a name to add the client.")
		}
		f.Name = answer
	case SlotPhone:
		phone, ok := NormalizePhone(answer)
		if !ok {
			return invalid(slot, "That doesn't look like a phone number. It needs at least %d digits.", MinPhoneDigits)
		}
		f.Phone = phone
	case SlotEmail:
		if IsSkip(answer) {
			f.EmailAnswered = true
			return nil
		}
		if !ValidEmail(answer) {
			return invalid(slot, "That doesn't look like an email address.")
		}
		f.Email = &answer
		f.EmailAnswered = true
	}
	return nil
}

func (a *Assistant) applyBulk(f *BulkAddClientsFlow, slot Slot, answer string) error {
	switch slot {
	case SlotCount:
		n, ok := ParseCount(answer)
		if !ok || n < 1 || n > MaxBulkClients {
			return invalid(slot, "Please give a number from 1 to %d.", MaxBulkClients)
		}
		f.Count = n
	case SlotEntryName:
		if answer == "" {
			return invalid(slot, "I need a name for this client.")
		}
		f.Entries = append(f.Entries, BulkEntry{Name: answer})
	case SlotEntryPhone:
		phone, ok := NormalizePhone(answer)
		if !ok {
			return invalid(slot, "That doesn't look like a phone number. It needs at least %d digits.", MinPhoneDigits)
		}
		f.Entries[len(f.Entries)-1].Phone = phone
	}
	return nil
}

func (a *Assistant) applyAddWorkout(ctx context.Context, sess *Session, f *AddWorkoutFlow, slot Slot, answer string) error {
	switch slot {
	case SlotName:
		if answer == "" {
			return invalid(slot, "I need a name for the workout.")
		}
		f.Name = answer
	case SlotCategory:
		f.Category = ParseCategory(answer)
	case SlotDuration:
		n, ok := ParseMinutes(answer)
		if !ok || n < coach.MinWorkoutMinutes {
			return invalid(slot, "Please give the duration as a number of minutes, at least %d.", coach.MinWorkoutMinutes)
		}
		f.Duration = n
	case SlotAssignee:
		if IsSkip(answer) {
			f.AssigneeAnswered = true
			return nil
		}
		c, err := a.resolveClient(ctx, sess, answer)
		if err != nil {
			return err
		}
		f.Assignee = c
		f.AssigneeAnswered = true
	}
	return nil
}

func (a *Assistant) applySchedule(ctx context.Context, sess *Session, f *ScheduleSessionFlow, slot Slot, answer string) error {
	switch slot {
	case SlotClient:
		if answer == "" {
			return invalid(slot, "I need to know who the session is for.")
		}
		c, err := a.resolveClient(ctx, sess, answer)
		if err != nil {
			return err
		}
		f.Client = c
	case SlotRecurrence:
		r, ok := ParseRecurrence(answer)
		if !ok {
			return invalid(slot, "I didn't recognise **%s** as a schedule.", answer)
		}
		f.Recurrence = r
	case SlotCount:
		n, ok := ParseCount(answer)
		if !ok || n < 1 || n > coach.MaxSeriesLength {
			return invalid(slot, "Please give a number of sessions from 1 to %d.", coach.MaxSeriesLength)
		}
		f.Count = n
	case SlotStart:
		start, hasTime := ParseDateTime(answer, a.now())
		if !hasTime {
			return invalid(slot, "I need a time as well, like **6pm** or **7:30am**.")
		}
		f.Start = start
	case SlotDuration:
		n, ok := ParseMinutes(answer)
		if !ok {
			n = a.defaultMinutes
		}
		if n < coach.MinWorkoutMinutes {
			return invalid(slot, "Sessions must be at least %d minutes.", coach.MinWorkoutMinutes)
		}
		f.Duration = n
	case SlotWorkout:
		if IsSkip(answer) {
			f.WorkoutAnswered = true
			return nil
		}
		w, err := a.resolveWorkout(ctx, sess, answer)
		if err != nil {
			return err
		}
		f.Workout = w
		f.WorkoutAnswered = true
	}
	return nil
}

func (a *Assistant) applyAttendance(ctx context.Context, sess *Session, f *MarkAttendanceFlow, slot Slot, answer string) error {
	switch slot {
	case SlotClient:
		if answer == "" {
			return invalid(slot, "I need the client's name.")
		}
		c, err := a.resolveClient(ctx, sess, answer)
		if err != nil {
			return err
		}
		f.Client = c
	case SlotStatus:
		st, ok := ParseAttendanceStatus(answer)
		if !ok {
			return invalid(slot, "Please answer **present** or **absent**.")
		}
		f.Status = st
	}
	return nil
}
