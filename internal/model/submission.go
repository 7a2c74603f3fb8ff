package model

import (
	"errors"
	"strings"
	"time"
)

// FormType distinguishes an open-ended contact message from a structured service request.
type FormType string

const (
	FormTypeContact        FormType = "contact"
	FormTypeServiceRequest FormType = "service-request"
)

// Valid reports whether t is one of the known form types.
func (t FormType) Valid() bool {
	return t == FormTypeContact || t == FormTypeServiceRequest
}

// Status is the lifecycle state of a submission.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusConverted Status = "converted"
	StatusClosed    Status = "closed"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusNew, StatusContacted, StatusConverted, StatusClosed}

// ErrInvalidStatus is returned when a status string is not one of Statuses.
var ErrInvalidStatus = errors.New("invalid status")

// Valid reports whether s is one of Statuses.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStatus converts a raw status string, rejecting anything outside the enumeration.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// Submission is a lead captured by one of the public forms.
type Submission struct {
	ID              string    `json:"id"`
	FormType        FormType  `json:"formType"`
	RequestCategory string    `json:"requestCategory,omitempty"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	Role            string    `json:"role,omitempty"`
	Organization    string    `json:"organization,omitempty"`
	ServiceInterest string    `json:"serviceInterest,omitempty"`
	Message         string    `json:"message,omitempty"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Normalize trims every text field and drops requestCategory from contact submissions.
func (s *Submission) Normalize() {
	s.FormType = FormType(strings.TrimSpace(string(s.FormType)))
	s.RequestCategory = strings.TrimSpace(s.RequestCategory)
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Role = strings.TrimSpace(s.Role)
	s.Organization = strings.TrimSpace(s.Organization)
	s.ServiceInterest = strings.TrimSpace(s.ServiceInterest)
	s.Message = strings.TrimSpace(s.Message)
	if s.FormType != FormTypeServiceRequest {
		s.RequestCategory = ""
	}
}

// ListOptions filters and paginates a submission listing.
// Zero values mean no filter and no pagination.
type ListOptions struct {
	Status   Status
	FormType FormType
	Limit    int
	Offset   int
}
