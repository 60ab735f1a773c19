package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)

	// ListApprovedOverlapping returns approved requests intersecting [start, end)
	ListApprovedOverlapping(ctx context.Context, start, end time.Time) ([]LeaveRequest, error)

	// HasOverlapping reports a pending or approved request of the employee intersecting [start, end]
	HasOverlapping(ctx context.Context, employeeID string, start, end time.Time) (bool, error)

	UpdateStatus(ctx context.Context, id string, status LeaveRequestStatus, reviewedBy *string, rejectionReason *string) error

	// ListPending returns every pending request, locked for update inside a transaction
	ListPending(ctx context.Context) ([]LeaveRequest, error)
	CountAll(ctx context.Context) (int64, error)
	CountPending(ctx context.Context) (int64, error)
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}
