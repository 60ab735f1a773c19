package report

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/analytics"
	"github.com/cmlabs-hris/staff-attendance-go/internal/pkg/validator"
)

// ========================================
// MONTHLY ATTENDANCE REPORT
// ========================================

type MonthlyAttendanceReportRequest struct {
	Month      int     `json:"month"`
	Year       int     `json:"year"`
	Department *string `json:"department,omitempty"`
}

func (r *MonthlyAttendanceReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	currentYear := time.Now().Year()
	if r.Year < 2020 || r.Year > currentYear+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2020 and %d", currentYear+1),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MonthlyAttendanceReport struct {
	PeriodMonth int    `json:"period_month"`
	PeriodYear  int    `json:"period_year"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	GeneratedAt string `json:"generated_at"`

	Overall   analytics.Summary           `json:"overall"`
	Employees []MonthlyAttendanceEmployee `json:"employees"`
}

type MonthlyAttendanceEmployee struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Department   string `json:"department"`

	Summary   AttendanceSummary    `json:"summary"`
	DailyLogs []AttendanceDailyLog `json:"daily_logs"`
}

type AttendanceSummary struct {
	TotalWorkDays      int     `json:"total_work_days"`
	TotalWorkHours     float64 `json:"total_work_hours"`
	DisplayWorkHours   int     `json:"display_work_hours"` // rounded at 30 minutes
	TotalLateMinutes   int     `json:"total_late_minutes"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`
	TotalPresent       int     `json:"total_present"`
	TotalLateDays      int     `json:"total_late_days"`
	TotalEarlyLeave    int     `json:"total_early_leave"`
	TotalAbsent        int     `json:"total_absent"`
	TotalLeave         int     `json:"total_leave"`
	AttendanceRate     string  `json:"attendance_rate"`
}

type AttendanceDailyLog struct {
	Date              string   `json:"date"`
	DayOfWeek         string   `json:"day_of_week"`
	ClockIn           *string  `json:"clock_in"`
	ClockOut          *string  `json:"clock_out"`
	Status            string   `json:"status"`
	WorkedHours       *float64 `json:"worked_hours"`
	LateMinutes       int      `json:"late_minutes"`
	EarlyLeaveMinutes int      `json:"early_leave_minutes"`
	OvertimeMinutes   int      `json:"overtime_minutes"`
	Note              string   `json:"note,omitempty"`
}
