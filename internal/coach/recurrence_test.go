package coach

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOccurrences(t *testing.T) {
	// Friday 16 Oct 2026, 18:00
	start := time.Date(2026, 10, 16, 18, 0, 0, 0, time.Local)

	tests := []struct {
		name  string
		r     Recurrence
		count int
		want  []time.Time
	}{
		{"once ignores count", RecurrenceOnce, 5, []time.Time{start}},
		{"daily", RecurrenceDaily, 3, []time.Time{start, start.AddDate(0, 0, 1), start.AddDate(0, 0, 2)}},
		{"weekly", RecurrenceWeekly, 2, []time.Time{start, start.AddDate(0, 0, 7)}},
		{"biweekly", RecurrenceBiweekly, 3, []time.Time{start, start.AddDate(0, 0, 14), start.AddDate(0, 0, 28)}},
		{"weekdays skip the weekend", RecurrenceWeekdays, 3, []time.Time{start, start.AddDate(0, 0, 3), start.AddDate(0, 0, 4)}},
		{"zero count", RecurrenceWeekly, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Occurrences(start, tt.r, tt.count))
		})
	}
}

func TestOccurrencesWeekdaysFromSaturday(t *testing.T) {
	sat := time.Date(2026, 10, 17, 7, 0, 0, 0, time.Local)
	got := Occurrences(sat, RecurrenceWeekdays, 2)
	require.Len(t, got, 2)
	assert.Equal(t, time.Monday, got[0].Weekday())
	assert.Equal(t, 7, got[0].Hour())
	assert.Equal(t, time.Tuesday, got[1].Weekday())
}

func TestDayBounds(t *testing.T) {
	at := time.Date(2026, 10, 15, 13, 45, 0, 0, time.Local)
	from, to := DayBounds(at)
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.Local), from)
	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, time.Local), to)
}

func TestSessionSpecValidate(t *testing.T) {
	start := time.Date(2026, 10, 19, 18, 0, 0, 0, time.Local)
	base := SessionSpec{ClientID: "c1", Start: start, DurationMinutes: 45, Recurrence: RecurrenceWeekly, Count: 4}
	require.NoError(t, base.Validate())

	noCount := base
	noCount.Count = 0
	assert.ErrorIs(t, noCount.Validate(), ErrInvalidCount)

	once := base
	once.Recurrence = RecurrenceOnce
	once.Count = 0
	assert.NoError(t, once.Validate())

	short := base
	short.DurationMinutes = 4
	assert.ErrorIs(t, short.Validate(), ErrInvalidDuration)

	bad := base
	bad.Recurrence = "monthly"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidRecurrence)
}
