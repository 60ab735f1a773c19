package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/leave"
	"golang.org/x/sync/errgroup"
)

// Policy is the classification configuration supplied by the caller.
type Policy struct {
	WeekendDays []time.Weekday
	Shift       attendance.ShiftPolicy
}

// Loader reads one consistent set of rows, holidays and approved leave for a
// range and classifies it.
type Loader struct {
	attendance.AttendanceRepository
	attendance.HolidayRepository
	leave.LeaveRequestRepository
	policy Policy
}

func NewLoader(attendanceRepository attendance.AttendanceRepository, holidayRepository attendance.HolidayRepository, leaveRequestRepository leave.LeaveRequestRepository, policy Policy) *Loader {
	if policy.WeekendDays == nil {
		policy.WeekendDays = attendance.DefaultWeekendDays
	}
	return &Loader{
		AttendanceRepository:   attendanceRepository,
		HolidayRepository:      holidayRepository,
		LeaveRequestRepository: leaveRequestRepository,
		policy:                 policy,
	}
}

// WeekendSet returns the configured weekend days.
func (l *Loader) WeekendSet() map[time.Weekday]bool {
	set := make(map[time.Weekday]bool, len(l.policy.WeekendDays))
	for _, d := range l.policy.WeekendDays {
		set[d] = true
	}
	return set
}

// Load classifies the rows with start <= date < end, optionally for one
// employee. The three reads run in parallel.
func (l *Loader) Load(ctx context.Context, start, end time.Time, employeeID *string) ([]attendance.DailyRecord, error) {
	var (
		rows     []attendance.Record
		holidays []attendance.Holiday
		approved []leave.LeaveRequest
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		rows, err = l.AttendanceRepository.ListByRange(gctx, start, end, employeeID)
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		holidays, err = l.HolidayRepository.ListBetween(gctx, start, end)
		if err != nil {
			return fmt.Errorf("failed to list holidays: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		approved, err = l.LeaveRequestRepository.ListApprovedOverlapping(gctx, start, end)
		if err != nil {
			return fmt.Errorf("failed to list approved leave: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	classifier := NewClassifier(
		attendance.NewCalendar(l.policy.WeekendDays, holidays),
		l.policy.Shift,
		NewLeaveIndex(approved),
	)
	records := classifier.ClassifyAll(rows)

	skipped := 0
	for _, r := range records {
		if r.Invalid {
			skipped++
			slog.Debug("Skipping invalid attendance row", "employee_id", r.EmployeeID, "date", attendance.DateKey(r.Date), "reason", r.InvalidReason)
		}
	}
	if skipped > 0 {
		slog.Warn("Attendance rows excluded from statistics", "skipped", skipped, "start", attendance.DateKey(start), "end", attendance.DateKey(end))
	}

	return records, nil
}
