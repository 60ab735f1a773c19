package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/analytics"
	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/staff-attendance-go/internal/pkg/timemath"
	"golang.org/x/sync/errgroup"
)

const latestRecordsLimit = 10

type DashboardServiceImpl struct {
	analytics analytics.AnalyticsService
	leave.LeaveRequestRepository
}

func NewDashboardService(analyticsService analytics.AnalyticsService, leaveRequestRepository leave.LeaveRequestRepository) dashboard.DashboardService {
	return &DashboardServiceImpl{
		analytics:              analyticsService,
		LeaveRequestRepository: leaveRequestRepository,
	}
}

// parseMonth parses YYYY-MM format, defaults to current month
func parseMonth(month string, now time.Time) time.Time {
	if month != "" {
		if parsed, err := time.Parse("2006-01", month); err == nil {
			return parsed
		}
	}
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// parseDate parses YYYY-MM-DD format, defaults to today
func parseDate(date string, now time.Time) time.Time {
	if date != "" {
		if parsed, err := time.Parse(attendance.DateLayout, date); err == nil {
			return parsed
		}
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func customFilter(start, end time.Time) analytics.AnalyticsFilter {
	s, e := attendance.DateKey(start), attendance.DateKey(end)
	return analytics.AnalyticsFilter{Period: string(analytics.PeriodCustom), StartDate: &s, EndDate: &e}
}

// GetDashboard returns combined dashboard data using parallel goroutines.
// Every number comes from the analytics service.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (*dashboard.DashboardResponse, error) {
	var (
		today   analytics.SummaryResponse
		month   analytics.SummaryResponse
		weekly  analytics.WeeklyResponse
		atRisk  int
		pending int64
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Today
	g.Go(func() error {
		var err error
		today, err = s.analytics.Summary(gCtx, analytics.AnalyticsFilter{Period: string(analytics.PeriodToday)})
		return err
	})

	// 2. Current month
	g.Go(func() error {
		var err error
		month, err = s.analytics.Summary(gCtx, analytics.AnalyticsFilter{Period: string(analytics.PeriodMonth)})
		return err
	})

	// 3. Weekday pattern of the month
	g.Go(func() error {
		var err error
		weekly, err = s.analytics.Weekly(gCtx, analytics.AnalyticsFilter{Period: string(analytics.PeriodMonth)})
		return err
	})

	// 4. At-risk employees this month
	g.Go(func() error {
		perf, err := s.analytics.Performance(gCtx, analytics.AnalyticsFilter{Period: string(analytics.PeriodMonth)})
		if err != nil {
			return err
		}
		atRisk = len(perf.Report.AtRisk)
		return nil
	})

	// 5. Pending leave requests (1 query)
	g.Go(func() error {
		var err error
		pending, err = s.LeaveRequestRepository.CountPending(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count pending leave requests: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dashboard.DashboardResponse{
		Today:           today,
		Month:           month,
		Weekly:          weekly.Pattern,
		AtRiskCount:     atRisk,
		PendingRequests: pending,
		UpdatedAt:       s.analytics.Now().Format(time.RFC3339),
	}, nil
}

// GetMonthlyAttendance returns attendance counts and the latest records for a month
func (s *DashboardServiceImpl) GetMonthlyAttendance(ctx context.Context, month string) (*dashboard.MonthlyAttendanceResponse, error) {
	start := parseMonth(month, s.analytics.Now())
	_, records, err := s.analytics.Records(ctx, customFilter(start, start.AddDate(0, 1, -1)))
	if err != nil {
		return nil, err
	}

	// Newest first; records on the same day keep their order.
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date.After(records[j].Date) })

	resp := &dashboard.MonthlyAttendanceResponse{
		Records: make([]dashboard.AttendanceRecordItem, 0, latestRecordsLimit),
		Month:   start.Format("2006-01"),
	}
	for _, r := range records {
		if r.Invalid || !r.Status.IsWorkingDay() {
			continue
		}
		switch r.Status {
		case attendance.StatusPresent:
			resp.OnTime++
		case attendance.StatusLate:
			resp.Late++
		case attendance.StatusEarlyLeave:
			resp.EarlyLeave++
		default:
			resp.Absent++
		}
		if len(resp.Records) < latestRecordsLimit {
			resp.Records = append(resp.Records, dashboard.AttendanceRecordItem{
				No:           len(resp.Records) + 1,
				EmployeeName: r.EmployeeName,
				Date:         attendance.DateKey(r.Date),
				Status:       string(r.Status),
				CheckIn:      r.CheckIn,
			})
		}
	}
	return resp, nil
}

// GetDailyAttendanceStats returns attendance stats with percentages for a specific day
func (s *DashboardServiceImpl) GetDailyAttendanceStats(ctx context.Context, date string) (*dashboard.AttendanceStatsResponse, error) {
	d := parseDate(date, s.analytics.Now())

	summary, err := s.analytics.Summary(ctx, customFilter(d, d))
	if err != nil {
		return nil, err
	}

	sum := summary.Summary
	return &dashboard.AttendanceStatsResponse{
		OnTime:        sum.PresentCount,
		Late:          sum.LateCount,
		EarlyLeave:    sum.EarlyLeaveCount,
		Absent:        sum.AbsentCount,
		Total:         sum.TotalRecords,
		OnTimePercent: timemath.FormatPercent(timemath.Percent(sum.PresentCount, sum.TotalRecords)),
		LatePercent:   timemath.FormatPercent(timemath.Percent(sum.LateCount, sum.TotalRecords)),
		AbsentPercent: timemath.FormatPercent(timemath.Percent(sum.AbsentCount, sum.TotalRecords)),
		Date:          attendance.DateKey(d),
	}, nil
}
