package leads

import "errors"

var (
	// ErrInvalidName is returned when the name is invalid
	ErrInvalidName = errors.New("name is required")

	// ErrMissingContact is returned when both email and phone are missing
	ErrMissingContact = errors.New("either email or phone is required")

	ErrInvalidType   = errors.New("lead_type must be interest, callback or referral")
	ErrInvalidStatus = errors.New("status must be new, contacted, converted or closed")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")

	ErrAlreadyConverted = errors.New("lead already converted")
)
