package coach

import "time"

// Occurrences expands a series start into the concrete session start times.
// Weekday series never land on a Saturday or Sunday; a weekend start rolls forward to Monday.
func Occurrences(start time.Time, r Recurrence, count int) []time.Time {
	if !r.Recurring() {
		return []time.Time{start}
	}
	if count < 1 {
		return nil
	}

	out := make([]time.Time, 0, count)
	next := start
	for len(out) < count {
		switch r {
		case RecurrenceWeekdays:
			for isWeekend(next) {
				next = next.AddDate(0, 0, 1)
			}
			out = append(out, next)
			next = next.AddDate(0, 0, 1)
		case RecurrenceDaily:
			out = append(out, next)
			next = next.AddDate(0, 0, 1)
		case RecurrenceWeekly:
			out = append(out, next)
			next = next.AddDate(0, 0, 7)
		case RecurrenceBiweekly:
			out = append(out, next)
			next = next.AddDate(0, 0, 14)
		}
	}
	return out
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DayBounds returns the local midnight that starts t's day and the one after it.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
