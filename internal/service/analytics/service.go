package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/analytics"
	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/employee"
	attendanceService "github.com/cmlabs-hris/staff-attendance-go/internal/service/attendance"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type AnalyticsServiceImpl struct {
	employee.EmployeeRepository
	loader     *attendanceService.Loader
	thresholds analytics.Thresholds
	loc        *time.Location
	now        func() time.Time
}

func NewAnalyticsService(
	loader *attendanceService.Loader,
	employeeRepository employee.EmployeeRepository,
	thresholds analytics.Thresholds,
	loc *time.Location,
) analytics.AnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsServiceImpl{
		EmployeeRepository: employeeRepository,
		loader:             loader,
		thresholds:         thresholds,
		loc:                loc,
		now:                time.Now,
	}
}

// Now implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) Now() time.Time {
	return s.now().In(s.loc)
}

// ResolveRange implements analytics.RangeResolver. An unknown period still
// yields the fallback range together with ErrUnknownPeriod.
func (s *AnalyticsServiceImpl) ResolveRange(filter analytics.AnalyticsFilter) (analytics.CalendarRange, error) {
	if err := filter.Validate(); err != nil {
		return analytics.CalendarRange{}, err
	}
	return Resolve(filter.ToPeriod(), s.now(), s.loc)
}

// Records implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) Records(ctx context.Context, filter analytics.AnalyticsFilter) (analytics.CalendarRange, []attendance.DailyRecord, error) {
	rng, err := s.ResolveRange(filter)
	if err != nil {
		if !errors.Is(err, analytics.ErrUnknownPeriod) {
			return analytics.CalendarRange{}, nil, err
		}
		slog.Warn("Unknown period, using full history", "period", filter.Period)
	}

	records, err := s.loader.Load(ctx, rng.Start, rng.End, filter.EmployeeID)
	if err != nil {
		return analytics.CalendarRange{}, nil, err
	}

	if filter.Department != nil && *filter.Department != "" {
		kept := records[:0]
		for _, r := range records {
			if strings.EqualFold(r.Department, *filter.Department) {
				kept = append(kept, r)
			}
		}
		records = kept
	}

	return rng, records, nil
}

// Summary implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) Summary(ctx context.Context, filter analytics.AnalyticsFilter) (analytics.SummaryResponse, error) {
	rng, records, err := s.Records(ctx, filter)
	if err != nil {
		return analytics.SummaryResponse{}, err
	}
	return analytics.SummaryResponse{Range: rangeInfo(rng), Summary: Summarize(records)}, nil
}

// DepartmentBreakdown implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) DepartmentBreakdown(ctx context.Context, filter analytics.AnalyticsFilter) (analytics.BreakdownResponse, error) {
	rng, records, err := s.Records(ctx, filter)
	if err != nil {
		return analytics.BreakdownResponse{}, err
	}
	return analytics.BreakdownResponse{Range: rangeInfo(rng), Groups: SummarizeBy(records, ByDepartment)}, nil
}

// EmployeeBreakdown implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) EmployeeBreakdown(ctx context.Context, filter analytics.AnalyticsFilter) (analytics.BreakdownResponse, error) {
	rng, records, err := s.Records(ctx, filter)
	if err != nil {
		return analytics.BreakdownResponse{}, err
	}
	return analytics.BreakdownResponse{Range: rangeInfo(rng), Groups: SummarizeBy(records, ByEmployee)}, nil
}

// Weekly implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) Weekly(ctx context.Context, filter analytics.AnalyticsFilter) (analytics.WeeklyResponse, error) {
	rng, records, err := s.Records(ctx, filter)
	if err != nil {
		return analytics.WeeklyResponse{}, err
	}
	return analytics.WeeklyResponse{
		Range:   rangeInfo(rng),
		Pattern: AnalyzeWeekly(records, s.loader.WeekendSet()),
	}, nil
}

// Performance implements analytics.AnalyticsService. Active employees without
// any row in the range are listed as unrated.
func (s *AnalyticsServiceImpl) Performance(ctx context.Context, filter analytics.AnalyticsFilter) (analytics.PerformanceResponse, error) {
	var (
		rng       analytics.CalendarRange
		records   []attendance.DailyRecord
		employees []employee.Employee
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		rng, records, err = s.Records(gctx, filter)
		return err
	})

	g.Go(func() error {
		var err error
		employees, err = s.EmployeeRepository.List(gctx, employee.EmployeeFilter{
			Department: filter.Department,
			ActiveOnly: true,
		})
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return analytics.PerformanceResponse{}, err
	}

	aggs := Accumulate(records)
	seen := make(map[string]bool, len(aggs))
	for _, a := range aggs {
		seen[a.EmployeeID] = true
	}
	for _, e := range employees {
		if seen[e.ID] || (filter.EmployeeID != nil && *filter.EmployeeID != e.ID) {
			continue
		}
		aggs = append(aggs, analytics.EmployeeAggregate{
			EmployeeID:   e.ID,
			EmployeeName: e.FullName,
			Department:   e.Department,
			WorkedHours:  decimal.Zero,
		})
	}

	return analytics.PerformanceResponse{Range: rangeInfo(rng), Report: Segment(aggs, s.thresholds)}, nil
}

func rangeInfo(r analytics.CalendarRange) analytics.RangeInfo {
	info := analytics.RangeInfo{Label: r.Label}
	if !r.Start.IsZero() {
		info.Start = attendance.DateKey(r.Start)
	}
	if !r.End.IsZero() {
		// End is exclusive internally; responses show the last day covered.
		info.End = attendance.DateKey(r.End.AddDate(0, 0, -1))
	}
	return info
}
