package leave

import (
	"strings"
	"time"
)

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "rejected"
)

// Kind distinguishes planned leave from a reported absence. Both excuse the day.
type Kind string

const (
	KindLeave   Kind = "leave"
	KindAbsence Kind = "absence"
)

// LeaveRequest entity
type LeaveRequest struct {
	ID         string
	EmployeeID string
	Kind       Kind

	// Inclusive civil dates
	StartDate time.Time
	EndDate   time.Time

	Reason string

	Status          LeaveRequestStatus
	ReviewedBy      *string
	ReviewedAt      *time.Time
	RejectionReason *string

	// AppliedDate is the civil date the request was filed. Older rows only
	// carry SubmittedAt.
	AppliedDate *time.Time
	SubmittedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Relationships (for responses)
	EmployeeName *string
}

func (r LeaveRequest) IsPending() bool {
	return strings.EqualFold(string(r.Status), string(LeaveRequestStatusPending))
}

func (r LeaveRequest) IsApproved() bool {
	return strings.EqualFold(string(r.Status), string(LeaveRequestStatusApproved))
}

// Covers reports whether date falls within [StartDate, EndDate], by calendar date.
func (r LeaveRequest) Covers(date time.Time) bool {
	d := date.Format("2006-01-02")
	return d >= r.StartDate.Format("2006-01-02") && d <= r.EndDate.Format("2006-01-02")
}

// Applied returns AppliedDate, falling back to SubmittedAt.
func (r LeaveRequest) Applied() time.Time {
	if r.AppliedDate != nil {
		return *r.AppliedDate
	}
	return r.SubmittedAt
}
