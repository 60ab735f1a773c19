package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/leave"
)

// DailyJobs holds the once-a-day maintenance jobs. The scheduler ticks them
// hourly and each one only does work during RunHour in the school timezone.
type DailyJobs struct {
	attendanceService attendance.AttendanceService
	leaveService      leave.LeaveService
	loc               *time.Location
	runHour           int
	now               func() time.Time
}

func NewDailyJobs(attendanceService attendance.AttendanceService, leaveService leave.LeaveService, loc *time.Location, runHour int) *DailyJobs {
	if loc == nil {
		loc = time.UTC
	}
	return &DailyJobs{
		attendanceService: attendanceService,
		leaveService:      leaveService,
		loc:               loc,
		runHour:           runHour,
		now:               time.Now,
	}
}

func (j *DailyJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_absent_employees", time.Hour, j.MarkAbsentEmployees)
	scheduler.AddJob("purge_delayed_leave_requests", time.Hour, j.PurgeDelayedLeaveRequests)
}

func (j *DailyJobs) due() (time.Time, bool) {
	now := j.now().In(j.loc)
	return now, now.Hour() == j.runHour
}

// MarkAbsentEmployees inserts empty rows for yesterday so the day is
// classified as absent, weekend, holiday or leave instead of missing.
func (j *DailyJobs) MarkAbsentEmployees(ctx context.Context) error {
	now, ok := j.due()
	if !ok {
		return nil
	}

	yesterday := attendance.DateKey(now.AddDate(0, 0, -1))
	slog.Info("Cron: Starting mark absent employees job", "date", yesterday)

	created, err := j.attendanceService.MarkAbsentEmployees(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("failed to mark absent employees: %w", err)
	}

	slog.Info("Cron: Mark absent employees completed", "date", yesterday, "created", created)
	return nil
}

func (j *DailyJobs) PurgeDelayedLeaveRequests(ctx context.Context) error {
	if _, ok := j.due(); !ok {
		return nil
	}

	slog.Info("Cron: Starting purge delayed leave requests job")

	result, err := j.leaveService.CleanupDelayed(ctx)
	if err != nil {
		return fmt.Errorf("failed to purge delayed leave requests: %w", err)
	}

	slog.Info("Cron: Purge delayed leave requests completed",
		"initial", result.InitialCount,
		"final", result.FinalCount,
		"removed", result.Removed)
	return nil
}
