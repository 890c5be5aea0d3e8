package assistant

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownIntent is returned by the router when no rule matches.
var ErrUnknownIntent = errors.New("assistant: unknown intent")

// ValidationError means a slot answer was malformed. The flow stays on the same slot.
type ValidationError struct {
	Slot    Slot
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(slot Slot, format string, args ...any) error {
	return &ValidationError{Slot: slot, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError means a name fragment matched no entity.
type NotFoundError struct {
	Kind       EntityKind
	Fragment   string
	Candidates []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("I couldn't find a %s matching **%s**.", e.Kind, e.Fragment)
	if len(e.Candidates) == 0 {
		return msg + fmt.Sprintf(" You don't have any %ss yet.", e.Kind)
	}
	return msg + " Known " + string(e.Kind) + "s: " + strings.Join(e.Candidates, ", ") + "."
}

// CollaboratorError wraps a failure of the backing API.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("assistant: %s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
