package leads

import (
	"strings"
	"time"
)

// Type is what the prospect asked for on the public form.
type Type string

const (
	TypeInterest Type = "interest"
	TypeCallback Type = "callback"
	TypeReferral Type = "referral"
)

func (t Type) Valid() bool {
	return t == TypeInterest || t == TypeCallback || t == TypeReferral
}

// Status tracks the coach's follow-up.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusConverted Status = "converted"
	StatusClosed    Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusConverted, StatusClosed:
		return true
	}
	return false
}

// Lead is a prospect who reached out through the public interest form.
type Lead struct {
	ID              string    `json:"id"`
	Type            Type      `json:"lead_type"`
	Name            string    `json:"name"`
	Email           string    `json:"email,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Message         string    `json:"message,omitempty"`
	Source          string    `json:"source"`
	ReferredByName  string    `json:"referred_by_name,omitempty"`
	ReferredByEmail string    `json:"referred_by_email,omitempty"`
	Status          Status    `json:"status"`
	CoachNotes      string    `json:"coach_notes,omitempty"`
	ClientID        string    `json:"client_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateLeadRequest represents the request body for creating a lead
type CreateLeadRequest struct {
	Type            Type   `json:"lead_type"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Message         string `json:"message"`
	Source          string `json:"source"`
	ReferredByName  string `json:"referred_by_name"`
	ReferredByEmail string `json:"referred_by_email"`
}

// Normalize trims input and fills defaults.
func (r *CreateLeadRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Message = strings.TrimSpace(r.Message)
	r.Source = strings.TrimSpace(r.Source)
	if r.Type == "" {
		r.Type = TypeInterest
	}
	if r.Source == "" {
		r.Source = "web"
	}
}

// Validate validates the create lead request
func (r *CreateLeadRequest) Validate() error {
	if r.Name == "" {
		return ErrInvalidName
	}
	if r.Email == "" && r.Phone == "" {
		return ErrMissingContact
	}
	if !r.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

// UpdateLeadRequest is the coach's triage of a lead. Nil fields are left unchanged.
type UpdateLeadRequest struct {
	Status     *Status `json:"status"`
	CoachNotes *string `json:"coach_notes"`
	ClientID   *string `json:"-"`
}

func (r *UpdateLeadRequest) Validate() error {
	if r.Status != nil && !r.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// ListFilter narrows List results. Zero values mean no filter.
type ListFilter struct {
	Status Status
	Limit  int
	Offset int
}
