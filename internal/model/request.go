package model

import (
	"fmt"
	"strings"
	"time"
)

type RequestStatus string

const (
	StatusPending    RequestStatus = "PENDING"
	StatusInProgress RequestStatus = "IN_PROGRESS"
	StatusCompleted  RequestStatus = "COMPLETED"
	StatusRejected   RequestStatus = "REJECTED"
)

// RequestStatuses lists every status in filter-tab order.
var RequestStatuses = []RequestStatus{StatusPending, StatusInProgress, StatusCompleted, StatusRejected}

// ParseRequestStatus rejects anything outside the four known statuses.
func ParseRequestStatus(s string) (RequestStatus, error) {
	switch st := RequestStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusInProgress, StatusCompleted, StatusRejected:
		return st, nil
	}
	return "", ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", s)}
}

// Terminal reports whether no further transition is possible.
func (s RequestStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusInProgress || next.Terminal()
	case StatusInProgress:
		return next.Terminal()
	}
	return false
}

type Request struct {
	ID            string        `json:"id"`
	MemberID      string        `json:"member_id"`
	MemberName    string        `json:"member_name"`
	MemberPhone   string        `json:"member_phone"`
	Description   string        `json:"request_description"`
	Status        RequestStatus `json:"status"`
	Notes         string        `json:"notes"`
	RequestDate   time.Time     `json:"request_date"`
	CompletedDate *time.Time    `json:"completed_date"`
}

// RequestInput is the new-request form: the selected person and what they
// asked for.
type RequestInput struct {
	MemberID    string `json:"member_id"`
	Description string `json:"request_description"`
}

func (in RequestInput) Validate() error {
	if strings.TrimSpace(in.MemberID) == "" {
		return ValidationError{Field: "memberId", Message: "Please select a person"}
	}
	if strings.TrimSpace(in.Description) == "" {
		return required("requestDescription")
	}
	return nil
}
