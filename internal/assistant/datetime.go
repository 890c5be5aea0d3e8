package assistant

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultHour is used when a date has no time-of-day.
const DefaultHour = 10

var (
	datePattern     = regexp.MustCompile(`\b(\d{1,2})[/\-.](\d{1,2})(?:[/\-.](\d{2}|\d{4}))?\b`)
	meridiemPattern = regexp.MustCompile(`\b(\d{1,2})(?:[:.](\d{2}))?\s*(am\b|pm\b|a\.m\.|p\.m\.)`)
	clockPattern    = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)
)

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// ParseDateTime resolves a natural-language date and time against now, in now's location.
// The date comes from the first of: tomorrow, a weekday name (never today), DD/MM[/YYYY], else today.
// hasTime reports whether a time-of-day token was present; without one the result is at 10:00.
func ParseDateTime(text string, now time.Time) (t time.Time, hasTime bool) {
	lower := strings.ToLower(text)
	// "7.05 pm" is a time, not the 7th of May.
	day := parseDay(meridiemPattern.ReplaceAllString(lower, " "), now)

	hour, minute, hasTime := ParseTimeOfDay(lower)
	if !hasTime {
		hour, minute = DefaultHour, 0
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location()), hasTime
}

func parseDay(lower string, now time.Time) time.Time {
	padded := " " + strings.Join(tokenize(lower), " ") + " "
	switch {
	case strings.Contains(padded, " day after tomorrow "):
		return now.AddDate(0, 0, 2)
	case strings.Contains(padded, " tomorrow ") || strings.Contains(padded, " tmrw "):
		return now.AddDate(0, 0, 1)
	}

	for _, tok := range tokenize(lower) {
		if wd, ok := weekdayNames[tok]; ok {
			d := now.AddDate(0, 0, 1)
			for d.Weekday() != wd {
				d = d.AddDate(0, 0, 1)
			}
			return d
		}
	}

	if m := datePattern.FindStringSubmatch(lower); m != nil {
		dd, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		yy := now.Year()
		if m[3] != "" {
			yy, _ = strconv.Atoi(m[3])
			if len(m[3]) == 2 {
				yy += 2000
			}
		}
		if d, ok := validDate(yy, mm, dd, now.Location()); ok {
			return d
		}
	}
	return now
}

func validDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// ParseTimeOfDay finds a time token: "6pm", "6:30 pm", "18:30", "noon", "midnight".
// 12am is midnight and 12pm is noon.
func ParseTimeOfDay(lower string) (hour, minute int, ok bool) {
	lower = strings.ToLower(lower)
	if m := meridiemPattern.FindStringSubmatch(lower); m != nil {
		h, _ := strconv.Atoi(m[1])
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if h >= 1 && h <= 12 && minute < 60 {
			pm := strings.HasPrefix(m[3], "p")
			switch {
			case h == 12 && !pm:
				h = 0
			case h != 12 && pm:
				h += 12
			}
			return h, minute, true
		}
		minute = 0
	}
	if m := clockPattern.FindStringSubmatch(lower); m != nil {
		h, _ := strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
		return h, minute, true
	}
	padded := " " + strings.Join(tokenize(lower), " ") + " "
	switch {
	case strings.Contains(padded, " noon "):
		return 12, 0, true
	case strings.Contains(padded, " midnight "):
		return 0, 0, true
	}
	return 0, 0, false
}

// HasTimeOfDay reports whether text carries a time token.
func HasTimeOfDay(text string) bool {
	_, _, ok := ParseTimeOfDay(text)
	return ok
}
