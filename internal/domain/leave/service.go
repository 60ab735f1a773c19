package leave

import (
	"context"
)

type LeaveService interface {
	CreateLeaveRequest(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	ApproveLeaveRequest(ctx context.Context, requestID string, reviewerID string) error
	RejectLeaveRequest(ctx context.Context, req RejectRequestRequest) error
	ListLeaveRequest(ctx context.Context, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	GetLeaveRequest(ctx context.Context, requestID string) (LeaveRequestResponse, error)

	// CleanupDelayed removes pending requests that waited too long for a decision
	CleanupDelayed(ctx context.Context) (CleanupResult, error)
}
