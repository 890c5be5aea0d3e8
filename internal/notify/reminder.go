package notify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/wolfman30/coachflow/pkg/logging"
)

// Reminder channels.
const (
	MethodWhatsApp = "whatsapp"
	MethodSMS      = "sms"
	MethodEmail    = "email"
)

var (
	ErrNoEmail       = errors.New("notify: client has no email address")
	ErrNoPhone       = errors.New("notify: client has no phone number")
	ErrUnknownMethod = errors.New("notify: unknown reminder method")
)

// ReminderRequest describes who to remind and about which session.
// A zero SessionStart means a general check-in.
type ReminderRequest struct {
	Method       string
	Name         string
	Phone        string
	Email        string
	SessionStart time.Time
}

// ReminderResult reports what happened. Link is set for channels the coach opens themselves.
type ReminderResult struct {
	Delivered bool
	Link      string
}

// ReminderSender sends email reminders directly and prepares tap-to-send links for chat channels.
type ReminderSender struct {
	email  EmailSender
	logger *logging.Logger
}

func NewReminderSender(email EmailSender, logger *logging.Logger) *ReminderSender {
	if logger == nil {
		logger = logging.Default()
	}
	if email == nil {
		email = NewStubEmailSender(logger)
	}
	return &ReminderSender{email: email, logger: logger}
}

func (r *ReminderSender) Send(ctx context.Context, req ReminderRequest) (*ReminderResult, error) {
	text := ReminderText(req.Name, req.SessionStart)

	switch req.Method {
	case MethodEmail:
		if strings.TrimSpace(req.Email) == "" {
			return nil, ErrNoEmail
		}
		if err := r.email.Send(ctx, EmailMessage{
			To:       req.Email,
			ToName:   req.Name,
			Subject:  "Your coaching session",
			Text:     text,
			Category: CategoryReminder,
		}); err != nil {
			return nil, err
		}
		return &ReminderResult{Delivered: true}, nil

	case MethodWhatsApp:
		digits := digitsOnly(req.Phone)
		if digits == "" {
			return nil, ErrNoPhone
		}
		link := "https://wa.me/" + digits + "?text=" + url.QueryEscape(text)
		r.logger.Debug("whatsapp reminder prepared", "name", req.Name)
		return &ReminderResult{Link: link}, nil

	case MethodSMS:
		phone := strings.TrimSpace(req.Phone)
		if digitsOnly(phone) == "" {
			return nil, ErrNoPhone
		}
		link := "sms:" + phone + "?body=" + url.QueryEscape(text)
		r.logger.Debug("sms reminder prepared", "name", req.Name)
		return &ReminderResult{Link: link}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, req.Method)
}

// ReminderText is the message body used on every channel.
func ReminderText(name string, start time.Time) string {
	first := strings.Fields(name)
	greeting := "Hi"
	if len(first) > 0 {
		greeting = "Hi " + first[0]
	}
	if start.IsZero() {
		return greeting + ", just checking in from your coach. Reply to book your next session!"
	}
	return fmt.Sprintf("%s, a reminder of your session on %s at %s. See you there!",
		greeting, start.Format("Mon 2 Jan"), start.Format("3:04 PM"))
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
