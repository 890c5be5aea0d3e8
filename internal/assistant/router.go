package assistant

import (
	"regexp"
	"strings"
	"unicode"
)

// rule is one entry of the router's ordered rule list.
type rule struct {
	intent  Intent
	match   func(lower string) bool
	extract func(text string) Slots
}

// Router classifies an utterance. Rules are tried in order and the first match wins,
// so specific phrasings sit above general ones.
type Router struct {
	rules []rule
}

func NewRouter() *Router {
	return &Router{rules: defaultRules()}
}

// Route returns the intent and inline slots for text. ErrUnknownIntent accompanies IntentUnknown.
func (r *Router) Route(text string) (Intent, Slots, error) {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)
	for _, rl := range r.rules {
		if !rl.match(lower) {
			continue
		}
		var slots Slots
		if rl.extract != nil {
			slots = rl.extract(text)
		}
		return rl.intent, slots, nil
	}
	return IntentUnknown, Slots{}, ErrUnknownIntent
}

var (
	bulkCountPattern     = regexp.MustCompile(`(?i)\b(?:add|create|import)\s+(\d+|[a-z]+)\s+(?:new\s+)?clients\b`)
	seriesCountPattern   = regexp.MustCompile(`(?i)\b(\d+|[a-z]+)\s+(?:sessions|times|weeks|classes|days)\b`)
	minutesPattern       = regexp.MustCompile(`(?i)\b(\d+)\s*(?:m|min|mins|minute|minutes)\b`)
	helpPhrases          = []string{"help", "?", "commands", "what can you do", "what can you do?", "menu"}
	deleteVerbs          = []string{"delete", "remove", "get rid of"}
	addVerbs             = []string{"add", "create", "new", "register", "make"}
	attendanceKeywords   = []string{"attendance", "present", "absent", "attended", "no show", "no-show", "didn't show", "did not show"}
	paymentKeywords      = []string{"payment", "pay link", "invoice", "collect", "charge"}
	statsKeywords        = []string{"stats", "statistics", "revenue", "earnings", "income", "dashboard", "summary", "how am i doing", "numbers"}
	todayShowKeywords    = []string{"show", "what", "who", "today's", "agenda", "list", "view", "see", "my day"}
	scheduleVerbs        = []string{"schedule", "book", "set up a session", "plan a session"}
	bulkKeywords         = []string{"bulk", "multiple", "several", "batch"}
	bulkAddVerbs         = []string{"add", "create", "import", "register"}
	workoutClientKeyword = []string{"client", "member", "trainee", "customer"}
)

func defaultRules() []rule {
	return []rule{
		{
			intent: IntentHelp,
			match: func(l string) bool {
				for _, p := range helpPhrases {
					if l == p {
						return true
					}
				}
				return strings.HasPrefix(l, "help ")
			},
		},
		{
			intent: IntentBulkAddClients,
			match: func(l string) bool {
				if bulkCountPattern.MatchString(l) {
					return true
				}
				return strings.Contains(l, "client") && containsAny(l, bulkKeywords...) && hasWord(l, bulkAddVerbs...)
			},
			extract: func(text string) Slots {
				if m := bulkCountPattern.FindStringSubmatch(text); m != nil {
					if n, ok := ParseCount(m[1]); ok {
						return Slots{Count: n}
					}
				}
				n, _ := ParseCount(text)
				return Slots{Count: n}
			},
		},
		{
			intent: IntentDeleteClient,
			match: func(l string) bool {
				return containsAny(l, deleteVerbs...) && !strings.Contains(l, "workout")
			},
			extract: extractEntityName(KindClient),
		},
		{
			intent: IntentDeleteWorkout,
			match: func(l string) bool {
				return containsAny(l, deleteVerbs...) && strings.Contains(l, "workout")
			},
			extract: extractEntityName(KindWorkout),
		},
		{
			intent: IntentSendReminder,
			match:  func(l string) bool { return strings.Contains(l, "remind") },
			extract: func(text string) Slots {
				s := Slots{Name: extractName(text, KindClient)}
				s.Method, _ = ParseReminderMethod(text)
				return s
			},
		},
		{
			intent: IntentCreatePaymentLink,
			match:  func(l string) bool { return containsAny(l, paymentKeywords...) },
			extract: func(text string) Slots {
				s := Slots{Name: extractName(text, KindClient)}
				s.Amount, _ = ParseAmount(withoutPhones(text))
				return s
			},
		},
		{
			intent: IntentMarkAttendance,
			match: func(l string) bool {
				return containsAny(l, attendanceKeywords...) || strings.HasPrefix(l, "mark ")
			},
			extract: func(text string) Slots {
				s := Slots{Name: extractName(text, KindClient)}
				s.Status, _ = ParseAttendanceStatus(text)
				return s
			},
		},
		{
			intent: IntentAddWorkout,
			match: func(l string) bool {
				return strings.Contains(l, "workout") && startsWithAny(l, addVerbs...)
			},
			extract: func(text string) Slots {
				s := Slots{Name: extractName(text, KindWorkout)}
				s.Category, _ = MatchCategory(text)
				s.Duration = extractMinutes(text)
				return s
			},
		},
		{
			intent: IntentAddClient,
			match: func(l string) bool {
				return startsWithAny(l, addVerbs...) && containsAny(l, workoutClientKeyword...)
			},
			extract: func(text string) Slots {
				return Slots{
					Name:  extractName(text, KindClient),
					Phone: ExtractPhone(text),
					Email: ExtractEmail(text),
				}
			},
		},
		{
			intent: IntentShowToday,
			match: func(l string) bool {
				return l == "today" || (strings.Contains(l, "today") && containsAny(l, todayShowKeywords...))
			},
		},
		{
			intent: IntentScheduleSession,
			match:  func(l string) bool { return containsAny(l, scheduleVerbs...) },
			extract: func(text string) Slots {
				s := Slots{Name: extractName(text, KindClient)}
				s.Recurrence, _ = ParseRecurrence(text)
				if m := seriesCountPattern.FindStringSubmatch(text); m != nil {
					s.Count, _ = ParseCount(m[1])
				}
				if HasTimeOfDay(text) {
					s.When = text
				}
				s.Duration = extractMinutes(text)
				return s
			},
		},
		{
			intent: IntentListClients,
			match:  func(l string) bool { return containsAny(l, "client", "customers", "members") },
		},
		{
			intent: IntentListWorkouts,
			match:  func(l string) bool { return strings.Contains(l, "workout") },
		},
		{
			intent: IntentShowStats,
			match:  func(l string) bool { return containsAny(l, statsKeywords...) },
		},
		{
			intent: IntentShowLeads,
			match:  func(l string) bool { return strings.Contains(l, "lead") || strings.Contains(l, "prospect") },
		},
	}
}

// hasWord reports whether any of words appears as a whole token.
func hasWord(l string, words ...string) bool {
	for _, tok := range tokenize(l) {
		for _, w := range words {
			if tok == w {
				return true
			}
		}
	}
	return false
}

func extractEntityName(kind EntityKind) func(string) Slots {
	return func(text string) Slots {
		return Slots{Name: extractName(text, kind)}
	}
}

func extractMinutes(text string) int {
	if m := minutesPattern.FindStringSubmatch(text); m != nil {
		n, _ := ParseCount(m[1])
		return n
	}
	if m := hoursPattern.FindString(text); m != "" {
		n, _ := ParseMinutes(m)
		return n
	}
	return 0
}

func withoutPhones(text string) string {
	return phonePattern.ReplaceAllStringFunc(text, func(m string) string {
		if _, ok := NormalizePhone(m); ok {
			return " "
		}
		return m
	})
}

// nameStopWords never belong to an entity name. Before a name starts they are skipped;
// after it starts they end it.
var nameStopWords = toSet(
	"a", "an", "the", "my", "new", "is", "to", "for", "with", "on", "at", "from", "starting", "start",
	"and", "of", "as", "please", "i", "me", "want", "would", "like", "can", "you", "could", "up", "set",
	"about", "by", "via", "in", "every", "next", "was", "were", "did", "not", "didn't", "no", "show",
	"client", "clients", "member", "trainee", "customer", "workout", "workouts", "session", "sessions", "class",
	"add", "create", "register", "make", "delete", "remove", "get", "rid", "schedule", "book", "plan",
	"mark", "attendance", "present", "absent", "attended", "came", "today", "tomorrow", "tonight",
	"send", "reminder", "remind", "payment", "link", "pay", "invoice", "collect", "charge",
	"phone", "number", "mobile", "email", "e-mail", "whatsapp", "sms", "text",
	"rs", "rs.", "inr", "minutes", "minute", "min", "mins", "hour", "hours",
	"reminders", "links", "payments", "everyone", "everybody", "all", "today's",
	"daily", "weekly", "biweekly", "bi-weekly", "weekdays", "weekday", "once", "fortnightly", "times",
)

func toSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// nameableStopWords are keywords that are also given names. Written capitalized after the
// first word, or right after "named"/"called", they are read as part of the name.
var nameableStopWords = toSet("mark", "new", "show", "link", "plan", "book", "text")

// extractName pulls an entity name out of an utterance: the first run of words that
// are not keywords, numbers, contacts or dates. Text after "named"/"called" takes priority.
func extractName(text string, kind EntityKind) string {
	tokens := tokenize(text)
	labelled := false
	for i, tok := range tokens {
		if l := strings.ToLower(tok); l == "named" || l == "called" {
			tokens = tokens[i+1:]
			labelled = true
			break
		}
	}

	var run []string
	for i, tok := range tokens {
		l := strings.ToLower(tok)
		if (l == "this" || l == "that") && i+1 < len(tokens) && strings.EqualFold(tokens[i+1], string(kind)) && len(run) == 0 {
			return l + " " + string(kind)
		}
		if nameableStopWords[l] && readsAsName(tok, i, labelled) {
			run = append(run, tok)
			continue
		}
		if isNameBreak(l, kind, len(run) > 0) {
			if len(run) > 0 {
				break
			}
			continue
		}
		run = append(run, tok)
	}
	return strings.Join(run, " ")
}

// readsAsName reports whether a keyword at position i is used as a name.
func readsAsName(tok string, i int, labelled bool) bool {
	if labelled && i == 0 {
		return true
	}
	if i == 0 && !labelled {
		return false
	}
	r := []rune(tok)
	return len(r) > 0 && unicode.IsUpper(r[0])
}

func isNameBreak(l string, kind EntityKind, started bool) bool {
	if nameStopWords[l] {
		return true
	}
	if strings.ContainsAny(l, "0123456789@₹$") {
		return true
	}
	if _, ok := weekdayNames[l]; ok {
		return true
	}
	if l == "noon" || l == "midnight" {
		return true
	}
	if kind == KindWorkout && started {
		if _, ok := MatchCategory(l); ok {
			return true
		}
	}
	return false
}

var politeLeadIns = []string{"please ", "can you ", "could you ", "i want to ", "i'd like to ", "i would like to ", "let's ", "pls "}

// startsWithAny reports whether the utterance opens with one of the verbs, after any polite lead-in.
func startsWithAny(l string, verbs ...string) bool {
	for _, lead := range politeLeadIns {
		l = strings.TrimPrefix(l, lead)
	}
	for _, v := range verbs {
		if strings.HasPrefix(l, v+" ") || l == v {
			return true
		}
	}
	return false
}
