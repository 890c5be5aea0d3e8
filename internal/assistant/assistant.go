// Package assistant interprets a coach's free-text requests and turns them into
// validated operations against the coach API, one reply per utterance.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/coachflow/internal/observability/metrics"
	"github.com/wolfman30/coachflow/pkg/logging"
)

// Options configures an Assistant. Zero values fall back to defaults.
type Options struct {
	// Timeout bounds every collaborator call. Zero disables it.
	Timeout time.Duration
	// DefaultSessionMinutes applies when a duration answer has no number.
	DefaultSessionMinutes int
	Metrics               *metrics.AssistantMetrics
	Logger                *logging.Logger
	Now                   func() time.Time
}

// Assistant is stateless; all conversation state lives in the Session passed to each call.
type Assistant struct {
	collab         Collaborator
	router         *Router
	timeout        time.Duration
	defaultMinutes int
	metrics        *metrics.AssistantMetrics
	logger         *logging.Logger
	now            func() time.Time
}

func New(collab Collaborator, opts Options) *Assistant {
	if collab == nil {
		panic("assistant: collaborator required")
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultSessionMinutes < 5 {
		opts.DefaultSessionMinutes = 60
	}
	return &Assistant{
		collab:         collab,
		router:         NewRouter(),
		timeout:        opts.Timeout,
		defaultMinutes: opts.DefaultSessionMinutes,
		metrics:        opts.Metrics,
		logger:         opts.Logger,
		now:            opts.Now,
	}
}

// Handle processes one utterance and always returns exactly one reply.
// Both the utterance and the reply are appended to the session transcript.
func (a *Assistant) Handle(ctx context.Context, sess *Session, text string) (out Message) {
	text = strings.TrimSpace(text)
	sess.Transcript = append(sess.Transcript, Message{Role: RoleUser, Text: text, At: a.now()})

	label := "none"
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("assistant turn panicked", "session_id", sess.ID, "label", label, "panic", fmt.Sprint(r))
			sess.Flow = nil
			out = failure("Something went wrong on my side. Please try again.")
		}
		out.Role = RoleAssistant
		out.At = a.now()
		sess.Transcript = append(sess.Transcript, out)
		sess.UpdatedAt = out.At

		outcome := "ok"
		if out.Failed {
			outcome = "failed"
		}
		a.metrics.ObserveTurn(label, outcome)
	}()

	if text == "" {
		return reply("Say something like **add a client**, or type **help**.")
	}

	if sess.Flow != nil {
		label = string(sess.Flow.Kind())
		return a.continueFlow(ctx, sess, text)
	}

	intent, slots, err := a.router.Route(text)
	label = string(intent)
	if errors.Is(err, ErrUnknownIntent) {
		a.logger.Debug("no intent matched", "session_id", sess.ID)
		return reply(unknownText)
	}
	a.logger.Debug("intent routed", "session_id", sess.ID, "intent", string(intent))

	if f := newFlow(intent); f != nil {
		return a.startFlow(ctx, sess, f, slots.answers(intent))
	}
	return a.execute(ctx, sess, intent, slots)
}

// Reset clears the transcript, any active flow and the context memory together.
func (a *Assistant) Reset(sess *Session) {
	if sess.Flow != nil {
		a.metrics.ObserveFlow(string(sess.Flow.Kind()), "reset")
	}
	sess.Transcript = nil
	sess.Flow = nil
	sess.Memory.Clear()
	sess.UpdatedAt = a.now()
}

// call runs one collaborator operation under the per-call timeout. The operation runs on the
// calling goroutine and must honour ctx; it has returned before the turn replies.
func (a *Assistant) call(ctx context.Context, op string, fn func(ctx context.Context) error) (err error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		a.metrics.ObserveCollaborator(op, err != nil, time.Since(start).Seconds())
		if err != nil {
			a.logger.Warn("collaborator call failed", "op", op, "error", err)
			err = &CollaboratorError{Op: op, Err: err}
		}
	}()
	return fn(ctx)
}

// failed turns an error into the reply the coach sees.
func (a *Assistant) failed(err error) Message {
	var ve *ValidationError
	var nf *NotFoundError
	var ce *CollaboratorError
	switch {
	case errors.As(err, &ve):
		return reply(ve.Message)
	case errors.As(err, &nf):
		return reply(nf.Error())
	case errors.As(err, &ce):
		if errors.Is(ce.Err, context.DeadlineExceeded) {
			return failure("Sorry, the server took too long to respond. Please try again.")
		}
		return failure(fmt.Sprintf("Sorry, that didn't work: %v.", ce.Err))
	}
	return failure(fmt.Sprintf("Sorry, that didn't work: %v.", err))
}

const helpText = `Here's what I can do:
• **add a client** or **add 5 clients**
• **show my clients**, **delete client Rahul**
• **add a workout**, **show workouts**, **delete workout Leg Day**
• **schedule Priya weekly starting Monday 6pm**
• **what's on today**, **mark Rahul present**
• **remind Rahul on whatsapp**, or **send reminders** for everyone today
• **payment link for Rahul 1500**
• **show stats**, **show leads**
Say **cancel** at any point to stop what we're doing.`

const unknownText = `I didn't catch that. I can **add a client**, **add clients in bulk**, **show my clients**, ` +
	`**delete a client**, **add a workout**, **show workouts**, **delete a workout**, **schedule a session**, ` +
	`**show today**, **mark attendance**, **send a reminder**, **create a payment link**, **show stats** ` +
	`and **show leads**. Type **help** for examples.`
