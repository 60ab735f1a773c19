package analytics

import (
	"context"
	"time"

	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/attendance"
)

// RangeResolver resolves a filter against a clock and timezone.
type RangeResolver interface {
	ResolveRange(filter AnalyticsFilter) (CalendarRange, error)
}

// AnalyticsService is the single source of attendance statistics. Dashboard
// and report endpoints call through it.
type AnalyticsService interface {
	Summary(ctx context.Context, filter AnalyticsFilter) (SummaryResponse, error)
	DepartmentBreakdown(ctx context.Context, filter AnalyticsFilter) (BreakdownResponse, error)
	EmployeeBreakdown(ctx context.Context, filter AnalyticsFilter) (BreakdownResponse, error)
	Weekly(ctx context.Context, filter AnalyticsFilter) (WeeklyResponse, error)
	Performance(ctx context.Context, filter AnalyticsFilter) (PerformanceResponse, error)

	// Records returns the classified days behind every statistic
	Records(ctx context.Context, filter AnalyticsFilter) (CalendarRange, []attendance.DailyRecord, error)

	RangeResolver
	Now() time.Time
}
