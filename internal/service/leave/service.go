package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/staff-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveRequestRepository
	employee.EmployeeRepository
	loc *time.Location
	now func() time.Time
}

func NewLeaveService(tx database.Transactor, leaveRequestRepository leave.LeaveRequestRepository, employeeRepository employee.EmployeeRepository, loc *time.Location) leave.LeaveService {
	if loc == nil {
		loc = time.UTC
	}
	return &LeaveServiceImpl{
		tx:                     tx,
		LeaveRequestRepository: leaveRequestRepository,
		EmployeeRepository:     employeeRepository,
		loc:                    loc,
		now:                    time.Now,
	}
}

// CreateLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateLeaveRequest(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	emp, err := l.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequestResponse{}, employee.ErrEmployeeNotFound
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.IsActive {
		return leave.LeaveRequestResponse{}, employee.ErrEmployeeInactive
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)

	hasOverlap, err := l.LeaveRequestRepository.HasOverlapping(ctx, emp.ID, startDate, endDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to check overlapping leave requests: %w", err)
	}
	if hasOverlap {
		return leave.LeaveRequestResponse{}, leave.ErrOverlappingLeaveRequest
	}

	now := l.now().In(l.loc)
	applied := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	created, err := l.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		EmployeeID:  emp.ID,
		Kind:        leave.Kind(strings.ToLower(req.Kind)),
		StartDate:   startDate,
		EndDate:     endDate,
		Reason:      strings.TrimSpace(req.Reason),
		Status:      leave.LeaveRequestStatusPending,
		AppliedDate: &applied,
		SubmittedAt: now,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	created.EmployeeName = &emp.FullName

	return toResponse(created), nil
}

// ApproveLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) ApproveLeaveRequest(ctx context.Context, requestID string, reviewerID string) error {
	return l.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := l.getPending(txCtx, requestID); err != nil {
			return err
		}
		if err := l.LeaveRequestRepository.UpdateStatus(txCtx, requestID, leave.LeaveRequestStatusApproved, &reviewerID, nil); err != nil {
			return fmt.Errorf("failed to approve leave request: %w", err)
		}
		return nil
	})
}

// RejectLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) RejectLeaveRequest(ctx context.Context, req leave.RejectRequestRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	return l.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := l.getPending(txCtx, req.RequestID); err != nil {
			return err
		}
		reason := strings.TrimSpace(req.RejectionReason)
		if err := l.LeaveRequestRepository.UpdateStatus(txCtx, req.RequestID, leave.LeaveRequestStatusRejected, &req.ReviewerID, &reason); err != nil {
			return fmt.Errorf("failed to reject leave request: %w", err)
		}
		return nil
	})
}

func (l *LeaveServiceImpl) getPending(ctx context.Context, requestID string) (leave.LeaveRequest, error) {
	request, err := l.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	if !request.IsPending() {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}
	return request, nil
}

// GetLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error) {
	request, err := l.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return toResponse(request), nil
}

// ListLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) ListLeaveRequest(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	requests, total, err := l.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, toResponse(r))
	}

	return leave.ListLeaveRequestResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Requests:   responses,
	}, nil
}

// CleanupDelayed implements leave.LeaveService. Counting, selecting and
// deleting share one transaction so the reported counts agree with what was
// removed.
func (l *LeaveServiceImpl) CleanupDelayed(ctx context.Context) (leave.CleanupResult, error) {
	var result leave.CleanupResult
	now := l.now().In(l.loc)

	err := l.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		initial, err := l.LeaveRequestRepository.CountAll(txCtx)
		if err != nil {
			return fmt.Errorf("failed to count leave requests: %w", err)
		}

		pending, err := l.LeaveRequestRepository.ListPending(txCtx)
		if err != nil {
			return fmt.Errorf("failed to list pending leave requests: %w", err)
		}

		_, delayed := Partition(pending, now)
		var removed int64
		if len(delayed) > 0 {
			ids := make([]string, 0, len(delayed))
			for _, r := range delayed {
				ids = append(ids, r.ID)
			}
			removed, err = l.LeaveRequestRepository.DeleteByIDs(txCtx, ids)
			if err != nil {
				return fmt.Errorf("failed to delete delayed leave requests: %w", err)
			}
		}

		result = leave.CleanupResult{
			InitialCount: initial,
			FinalCount:   initial - removed,
			Removed:      removed,
		}
		return nil
	})
	if err != nil {
		return leave.CleanupResult{}, err
	}

	slog.Info("Delayed leave requests cleaned up",
		"initial_count", result.InitialCount,
		"final_count", result.FinalCount,
		"removed", result.Removed,
	)
	return result, nil
}

func toResponse(r leave.LeaveRequest) leave.LeaveRequestResponse {
	resp := leave.LeaveRequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		Kind:            string(r.Kind),
		StartDate:       r.StartDate.Format("2006-01-02"),
		EndDate:         r.EndDate.Format("2006-01-02"),
		Reason:          r.Reason,
		Status:          strings.ToLower(string(r.Status)),
		AppliedDate:     r.Applied().Format("2006-01-02"),
		ReviewedBy:      r.ReviewedBy,
		RejectionReason: r.RejectionReason,
		SubmittedAt:     r.SubmittedAt.Format(time.RFC3339),
	}
	if r.ReviewedAt != nil {
		reviewedAt := r.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &reviewedAt
	}
	return resp
}
