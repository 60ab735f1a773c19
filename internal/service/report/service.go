package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/analytics"
	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/staff-attendance-go/internal/pkg/timemath"
	analyticsService "github.com/cmlabs-hris/staff-attendance-go/internal/service/analytics"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type ReportServiceImpl struct {
	analytics analytics.AnalyticsService
}

func NewReportService(analyticsService analytics.AnalyticsService) report.ReportService {
	return &ReportServiceImpl{
		analytics: analyticsService,
	}
}

// GenerateMonthlyAttendanceReport generates the monthly attendance report
func (s *ReportServiceImpl) GenerateMonthlyAttendanceReport(ctx context.Context, req report.MonthlyAttendanceReportRequest) (report.MonthlyAttendanceReport, error) {
	// Validate request
	if err := req.Validate(); err != nil {
		return report.MonthlyAttendanceReport{}, err
	}

	// Calculate period dates
	periodStart := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, -1)

	start, end := attendance.DateKey(periodStart), attendance.DateKey(periodEnd)
	_, records, err := s.analytics.Records(ctx, analytics.AnalyticsFilter{
		Period:     string(analytics.PeriodCustom),
		StartDate:  &start,
		EndDate:    &end,
		Department: req.Department,
	})
	if err != nil {
		return report.MonthlyAttendanceReport{}, fmt.Errorf("failed to get attendance data: %w", err)
	}

	return report.MonthlyAttendanceReport{
		PeriodMonth: req.Month,
		PeriodYear:  req.Year,
		PeriodStart: start,
		PeriodEnd:   end,
		GeneratedAt: s.analytics.Now().Format(time.RFC3339),
		Overall:     analyticsService.Summarize(records),
		Employees:   buildEmployees(records),
	}, nil
}

// buildEmployees groups classified days per employee, keeping the order in
// which employees first appear.
func buildEmployees(records []attendance.DailyRecord) []report.MonthlyAttendanceEmployee {
	groups := analyticsService.SummarizeBy(records, analyticsService.ByEmployee)

	index := make(map[string]int, len(groups))
	employees := make([]report.MonthlyAttendanceEmployee, 0, len(groups))
	hours := make([]decimal.Decimal, len(groups))
	for i, g := range groups {
		index[g.Key] = i
		hours[i] = decimal.Zero
		employees = append(employees, report.MonthlyAttendanceEmployee{
			EmployeeID:   g.Key,
			EmployeeName: g.Label,
			Summary: report.AttendanceSummary{
				TotalWorkDays:      g.TotalRecords,
				TotalWorkHours:     g.TotalWorkedHours,
				TotalLateMinutes:   g.TotalLateMinutes,
				TotalOvertimeHours: g.TotalOvertimeHours,
				TotalPresent:       g.PresentCount,
				TotalLateDays:      g.LateCount,
				TotalEarlyLeave:    g.EarlyLeaveCount,
				TotalAbsent:        g.UnauthorizedAbsences,
				TotalLeave:         g.AuthorizedAbsences,
				AttendanceRate:     g.AttendanceRate,
			},
			DailyLogs: []report.AttendanceDailyLog{},
		})
	}

	for _, r := range records {
		i := index[r.EmployeeID]
		emp := &employees[i]
		if emp.Department == "" {
			emp.Department = r.Department
		}
		if !r.Invalid {
			hours[i] = hours[i].Add(r.WorkedHours)
		}
		emp.DailyLogs = append(emp.DailyLogs, dailyLog(r))
	}

	for i := range employees {
		employees[i].Summary.DisplayWorkHours = timemath.RoundForDisplay(hours[i])
	}
	return employees
}

func dailyLog(r attendance.DailyRecord) report.AttendanceDailyLog {
	log := report.AttendanceDailyLog{
		Date:              attendance.DateKey(r.Date),
		DayOfWeek:         r.Date.Weekday().String(),
		ClockIn:           r.CheckIn,
		ClockOut:          r.CheckOut,
		Status:            string(r.Status),
		LateMinutes:       r.LateMinutes,
		EarlyLeaveMinutes: r.EarlyLeaveMinutes,
		OvertimeMinutes:   r.OvertimeMinutes,
	}
	switch {
	case r.Invalid:
		log.Status = "invalid"
		log.Note = r.InvalidReason
	case r.Open:
		log.Note = "not checked out"
	case r.CheckIn != nil && r.CheckOut != nil:
		h := timemath.Float(r.WorkedHours, 2)
		log.WorkedHours = &h
	}
	return log
}

const (
	summarySheet = "Summary"
	logSheet     = "Daily Logs"
)

var (
	summaryHeadings = []string{
		"Employee ID", "Employee Name", "Department", "Work Days", "Present", "Late",
		"Early Leave", "Absent", "Leave", "Worked Hours", "Display Hours", "Late Minutes",
		"Overtime Hours", "Attendance Rate",
	}
	logHeadings = []string{
		"Employee Name", "Date", "Day", "Clock In", "Clock Out", "Status", "Worked Hours",
		"Late Minutes", "Early Leave Minutes", "Overtime Minutes", "Note",
	}
)

// ExportMonthlyAttendanceReport renders the monthly report into an xlsx
// workbook with a summary sheet and a daily log sheet.
func (s *ReportServiceImpl) ExportMonthlyAttendanceReport(ctx context.Context, req report.MonthlyAttendanceReportRequest, w io.Writer) error {
	rep, err := s.GenerateMonthlyAttendanceReport(ctx, req)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}
	if _, err := f.NewSheet(logSheet); err != nil {
		return fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	if err := writeRow(f, summarySheet, 1, toCells(summaryHeadings)); err != nil {
		return err
	}
	if err := writeRow(f, logSheet, 1, toCells(logHeadings)); err != nil {
		return err
	}

	logRow := 2
	for i, emp := range rep.Employees {
		sum := emp.Summary
		err := writeRow(f, summarySheet, i+2, []interface{}{
			emp.EmployeeID, emp.EmployeeName, emp.Department, sum.TotalWorkDays, sum.TotalPresent,
			sum.TotalLateDays, sum.TotalEarlyLeave, sum.TotalAbsent, sum.TotalLeave, sum.TotalWorkHours,
			sum.DisplayWorkHours, sum.TotalLateMinutes, sum.TotalOvertimeHours, sum.AttendanceRate,
		})
		if err != nil {
			return err
		}

		for _, l := range emp.DailyLogs {
			err := writeRow(f, logSheet, logRow, []interface{}{
				emp.EmployeeName, l.Date, l.DayOfWeek, deref(l.ClockIn), deref(l.ClockOut), l.Status,
				derefFloat(l.WorkedHours), l.LateMinutes, l.EarlyLeaveMinutes, l.OvertimeMinutes, l.Note,
			})
			if err != nil {
				return err
			}
			logRow++
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}
	return nil
}

func toCells(headings []string) []interface{} {
	out := make([]interface{}, len(headings))
	for i, h := range headings {
		out[i] = h
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) interface{} {
	if f == nil {
		return ""
	}
	return *f
}
