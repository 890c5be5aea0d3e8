package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wolfman30/coachflow/internal/coach"
)

func TestNextSlotFollowsDeclaredOrder(t *testing.T) {
	f := &ScheduleSessionFlow{}
	var seen []Slot
	fill := map[Slot]func(){
		SlotClient:     func() { f.Client = &coach.Client{ID: "c1", Name: "Rahul"} },
		SlotRecurrence: func() { f.Recurrence = coach.RecurrenceWeekly },
		SlotCount:      func() { f.Count = 4 },
		SlotStart:      func() { f.Start = testNow },
		SlotDuration:   func() { f.Duration = 45 },
		SlotWorkout:    func() { f.WorkoutAnswered = true },
	}
	for slot := NextSlot(f); slot != SlotNone; slot = NextSlot(f) {
		seen = append(seen, slot)
		fill[slot]()
	}
	assert.Equal(t, slotOrder(f), seen)
}

func TestNextSlotSkipsCountForSingleSession(t *testing.T) {
	f := &ScheduleSessionFlow{Client: &coach.Client{ID: "c1"}, Recurrence: coach.RecurrenceOnce}
	assert.Equal(t, SlotStart, NextSlot(f))
}

func TestNextSlotBulkAlternatesNameAndPhone(t *testing.T) {
	f := &BulkAddClientsFlow{Count: 2}
	assert.Equal(t, SlotEntryName, NextSlot(f))
	f.Entries = append(f.Entries, BulkEntry{Name: "Rahul"})
	assert.Equal(t, SlotEntryPhone, NextSlot(f))
	f.Entries[0].Phone = "9876543210"
	assert.Equal(t, SlotEntryName, NextSlot(f))
	f.Entries = append(f.Entries, BulkEntry{Name: "Priya", Phone: "9876501234"})
	assert.Equal(t, SlotNone, NextSlot(f))
}

func TestOptionalSlotsComeLast(t *testing.T) {
	for _, f := range []Flow{&AddClientFlow{}, &AddWorkoutFlow{}, &ScheduleSessionFlow{}, &MarkAttendanceFlow{}} {
		order := slotOrder(f)
		seenOptional := false
		for _, s := range order {
			if s.Optional() {
				seenOptional = true
				continue
			}
			assert.False(t, seenOptional, "%s: mandatory slot %s after an optional one", f.Kind(), s)
		}
	}
}

func TestPromptsMentionCollectedValues(t *testing.T) {
	assert.Contains(t, Prompt(&AddClientFlow{Name: "Rahul"}, SlotPhone), "Rahul")
	assert.Contains(t, Prompt(&BulkAddClientsFlow{Count: 3, Entries: []BulkEntry{{Name: "A", Phone: "1"}}}, SlotEntryName), "Client 2 of 3")
	assert.Contains(t, Prompt(&ConfirmDeleteFlow{Target: KindWorkout, Name: "Leg Day"}, SlotConfirm), "Delete workout **Leg Day**")
	assert.Contains(t, Prompt(&MarkAttendanceFlow{Client: &coach.Client{Name: "Priya"}}, SlotStatus), "Priya")
}

func TestNewFlowOnlyForGuidedIntents(t *testing.T) {
	assert.IsType(t, &AddClientFlow{}, newFlow(IntentAddClient))
	assert.IsType(t, &ScheduleSessionFlow{}, newFlow(IntentScheduleSession))
	assert.Nil(t, newFlow(IntentListClients))
	assert.Nil(t, newFlow(IntentDeleteClient))
	assert.Nil(t, newFlow(IntentHelp))
}
