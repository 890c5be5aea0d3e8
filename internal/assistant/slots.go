package assistant

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/wolfman30/coachflow/internal/coach"
)

// Slot parsers shared by the router (inline extraction) and the flow engine (answer validation).

// MinPhoneDigits is the shortest phone number accepted.
const MinPhoneDigits = 10

// MaxBulkClients bounds one bulk add.
const MaxBulkClients = 50

var (
	phonePattern  = regexp.MustCompile(`\+?\d[\d\s\-().]{8,}\d`)
	emailPattern  = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)
	amountPattern = regexp.MustCompile(`(?i)(?:₹|rs\.?|inr|\$)?\s*(\d[\d,]*(?:\.\d+)?)\s*(k\b)?`)
	hoursPattern  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:h|hr|hrs|hour|hours)\b`)
)

// NormalizePhone strips formatting, keeping digits and a leading "+".
func NormalizePhone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	var b strings.Builder
	if strings.HasPrefix(s, "+") {
		b.WriteByte('+')
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			digits++
		}
	}
	if digits < MinPhoneDigits {
		return "", false
	}
	return b.String(), true
}

// ExtractPhone finds the first phone-like digit run in free text.
func ExtractPhone(text string) string {
	for _, m := range phonePattern.FindAllString(text, -1) {
		if phone, ok := NormalizePhone(m); ok {
			return phone
		}
	}
	return ""
}

// ExtractEmail finds the first email-like token in free text.
func ExtractEmail(text string) string {
	return emailPattern.FindString(text)
}

// ValidEmail reports whether s is a single email address.
func ValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && emailPattern.FindString(s) == s
}

var skipWords = map[string]bool{
	"skip": true, "no": true, "none": true, "nope": true, "n/a": true, "na": true,
	"-": true, "no email": true, "not now": true, "nothing": true, "no thanks": true,
}

// IsSkip reports whether the answer declines an optional slot.
func IsSkip(s string) bool {
	return skipWords[normalizeAnswer(s)]
}

var confirmWords = map[string]bool{"yes": true, "y": true, "ok": true, "confirm": true}

// IsConfirm reports whether the answer commits a pending deletion.
func IsConfirm(s string) bool {
	return confirmWords[strings.ToLower(strings.TrimSpace(s))]
}

var cancelWords = map[string]bool{
	"cancel": true, "stop": true, "abort": true, "quit": true, "nevermind": true, "never mind": true,
}

// IsCancel reports whether the whole answer asks to abandon the active flow.
func IsCancel(s string) bool {
	return cancelWords[normalizeAnswer(s)]
}

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6, "seven": 7, "eight": 8,
	"nine": 9, "ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
}

// ParseCount reads the first whole number, in digits or words.
func ParseCount(s string) (int, bool) {
	for _, tok := range tokenize(s) {
		if n, err := strconv.Atoi(tok); err == nil {
			return n, true
		}
		if n, ok := numberWords[strings.ToLower(tok)]; ok {
			return n, true
		}
	}
	return 0, false
}

// ParseMinutes reads a whole number of minutes. "1.5 hours" and "an hour" are converted.
func ParseMinutes(s string) (int, bool) {
	lower := strings.ToLower(s)
	if m := hoursPattern.FindStringSubmatch(lower); m != nil {
		h, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return int(h * 60), true
		}
	}
	if strings.Contains(lower, "an hour") || strings.Contains(lower, "one hour") {
		return 60, true
	}
	if m := numberPattern.FindString(lower); m != "" {
		// Minutes are whole; "7.5" is rejected rather than truncated.
		if n, err := strconv.Atoi(m); err == nil {
			return n, true
		}
	}
	return 0, false
}

// ParseRecurrence maps recurrence keywords. More specific phrasings are checked first.
func ParseRecurrence(s string) (coach.Recurrence, bool) {
	lower := " " + strings.ToLower(s) + " "
	switch {
	case containsAny(lower, "weekday", "mon-fri", "monday to friday", "working day"):
		return coach.RecurrenceWeekdays, true
	case containsAny(lower, "biweekly", "bi-weekly", "fortnight", "every other week", "every 2 weeks", "every two weeks"):
		return coach.RecurrenceBiweekly, true
	case containsAny(lower, "daily", "every day", "everyday"):
		return coach.RecurrenceDaily, true
	case containsAny(lower, "weekly", "every week", "once a week"):
		return coach.RecurrenceWeekly, true
	case containsAny(lower, " once ", "one time", "one-time", "one off", "one-off", "single", "just one"):
		return coach.RecurrenceOnce, true
	}
	return "", false
}

// ParseAttendanceStatus maps present/absent keywords. Negative phrasings are checked first.
func ParseAttendanceStatus(s string) (coach.AttendanceStatus, bool) {
	lower := " " + strings.ToLower(s) + " "
	switch {
	case containsAny(lower, "absent", "no show", "no-show", "missed", "didn't", "did not", "skipped", "not present", " no "):
		return coach.AttendanceAbsent, true
	case containsAny(lower, "present", "attended", "came", "showed", " yes ", " here ", "completed", " done "):
		return coach.AttendancePresent, true
	}
	return "", false
}

// WorkoutCategories is the fixed category vocabulary.
var WorkoutCategories = []string{
	"strength", "cardio", "hiit", "yoga", "pilates", "flexibility", "mobility",
	"crossfit", "functional", "endurance", "boxing", "zumba",
}

// DefaultCategory applies when an answer names no known category.
const DefaultCategory = "strength"

var categoryAliases = map[string]string{
	"weights":    "strength",
	"weight":     "strength",
	"gym":        "strength",
	"running":    "cardio",
	"cycling":    "cardio",
	"stretching": "flexibility",
	"stretch":    "flexibility",
}

// MatchCategory returns the category named in s, if any.
func MatchCategory(s string) (string, bool) {
	for _, tok := range tokenize(strings.ToLower(s)) {
		for _, c := range WorkoutCategories {
			if tok == c {
				return c, true
			}
		}
		if c, ok := categoryAliases[tok]; ok {
			return c, true
		}
	}
	return "", false
}

// ParseCategory is MatchCategory with the default applied.
func ParseCategory(s string) string {
	if c, ok := MatchCategory(s); ok {
		return c
	}
	return DefaultCategory
}

// ParseAmount reads a money amount such as "1500", "₹1,500", "rs 999.50" or "2k".
// Phone-length numbers are not amounts.
func ParseAmount(s string) (float64, bool) {
	for _, m := range amountPattern.FindAllStringSubmatch(s, -1) {
		raw := strings.ReplaceAll(m[1], ",", "")
		if len(strings.Split(raw, ".")[0]) >= MinPhoneDigits {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			continue
		}
		if m[2] != "" {
			v *= 1000
		}
		return v, true
	}
	return 0, false
}

// ParseReminderMethod finds the channel named in s.
func ParseReminderMethod(s string) (coach.ReminderMethod, bool) {
	lower := " " + strings.ToLower(s) + " "
	switch {
	case containsAny(lower, "whatsapp", "whats app", " wa "):
		return coach.ReminderWhatsApp, true
	case containsAny(lower, " sms", " text"):
		return coach.ReminderSMS, true
	case containsAny(lower, "email", "e-mail", " mail"):
		return coach.ReminderEmail, true
	}
	return "", false
}

var (
	clientPronouns  = []string{"this client", "that client", "them", "him", "her", "they"}
	workoutPronouns = []string{"this workout", "that workout", "it"}
)

// FindPronoun returns the first pronoun for kind that appears as whole words in s.
func FindPronoun(s string, kind EntityKind) string {
	list := clientPronouns
	if kind == KindWorkout {
		list = workoutPronouns
	}
	padded := " " + strings.Join(tokenize(strings.ToLower(s)), " ") + " "
	for _, p := range list {
		if strings.Contains(padded, " "+p+" ") {
			return p
		}
	}
	return ""
}

// IsPronoun reports whether the whole answer is a pronoun reference for kind.
func IsPronoun(s string, kind EntityKind) bool {
	p := FindPronoun(s, kind)
	return p != "" && p == normalizeAnswer(s)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// tokenize splits on whitespace and strips surrounding punctuation.
func tokenize(s string) []string {
	fields := strings.Fields(s)
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?\"'()[]")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func normalizeAnswer(s string) string {
	return strings.Join(tokenize(strings.ToLower(s)), " ")
}
