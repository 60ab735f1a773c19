package analytics

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/staff-attendance-go/internal/pkg/validator"
)

// Summary is the aggregate shape shared by every reporting endpoint.
type Summary struct {
	TotalRecords             int     `json:"totalRecords"`
	PresentCount             int     `json:"presentCount"`
	LateCount                int     `json:"lateCount"`
	EarlyLeaveCount          int     `json:"earlyLeaveCount"`
	AbsentCount              int     `json:"absentCount"`
	NonWorkingDays           int     `json:"nonWorkingDays"`
	AttendanceRate           string  `json:"attendanceRate"`
	LateRate                 string  `json:"lateRate"`
	EarlyLeaveRate           string  `json:"earlyLeaveRate"`
	AbsentRate               string  `json:"absentRate"`
	AverageHours             float64 `json:"averageHours"`
	TotalWorkedHours         float64 `json:"totalWorkedHours"`
	TotalLateMinutes         int     `json:"totalLateMinutes"`
	TotalOvertimeHours       float64 `json:"totalOvertimeHours"`
	AuthorizedAbsences       int     `json:"authorizedAbsences"`
	UnauthorizedAbsences     int     `json:"unauthorizedAbsences"`
	PermissionComplianceRate string  `json:"permissionComplianceRate"`
	SkippedRecords           int     `json:"skippedRecords"`
}

type GroupSummary struct {
	Key   string `json:"key"`
	Label string `json:"label,omitempty"`
	Summary
}

type DayPattern struct {
	Day       string `json:"day"`
	Weekday   int    `json:"weekday"`
	IsWeekend bool   `json:"isWeekend"`
	Summary
}

type WeeklyPattern struct {
	Days     []DayPattern `json:"days"`
	BestDay  *string      `json:"bestDay"`
	WorstDay *string      `json:"worstDay"`
}

type EmployeePerformance struct {
	EmployeeID       string       `json:"employeeId"`
	EmployeeName     string       `json:"employeeName"`
	Department       string       `json:"department"`
	TotalRecords     int          `json:"totalRecords"`
	PresentCount     int          `json:"presentCount"`
	LateCount        int          `json:"lateCount"`
	EarlyLeaveCount  int          `json:"earlyLeaveCount"`
	AbsentCount      int          `json:"absentCount"`
	AttendanceRate   string       `json:"attendanceRate"`
	PunctualityScore string       `json:"punctualityScore"`
	AverageHours     float64      `json:"averageHours"`
	OvertimeHours    float64      `json:"overtimeHours"`
	Tier             Tier         `json:"tier,omitempty"`
	AtRisk           bool         `json:"atRisk"`
	RiskReasons      []RiskReason `json:"riskReasons"`
}

type PerformanceReport struct {
	Excellent []EmployeePerformance `json:"excellent"`
	Good      []EmployeePerformance `json:"good"`
	Average   []EmployeePerformance `json:"average"`
	Poor      []EmployeePerformance `json:"poor"`
	Unrated   []EmployeePerformance `json:"unrated"`
	AtRisk    []EmployeePerformance `json:"atRisk"`
}

// RangeInfo describes the resolved range in responses.
type RangeInfo struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"`
}

type SummaryResponse struct {
	Range   RangeInfo `json:"range"`
	Summary Summary   `json:"summary"`
}

type BreakdownResponse struct {
	Range  RangeInfo      `json:"range"`
	Groups []GroupSummary `json:"groups"`
}

type WeeklyResponse struct {
	Range   RangeInfo     `json:"range"`
	Pattern WeeklyPattern `json:"pattern"`
}

type PerformanceResponse struct {
	Range  RangeInfo         `json:"range"`
	Report PerformanceReport `json:"report"`
}

// AnalyticsFilter is parsed from the query string.
type AnalyticsFilter struct {
	Period     string  `json:"period"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD, inclusive
	Department *string `json:"department,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
}

func (f *AnalyticsFilter) Validate() error {
	var errs validator.ValidationErrors

	f.Period = strings.TrimSpace(f.Period)
	if f.Period == "" {
		if f.StartDate != nil || f.EndDate != nil {
			f.Period = string(PeriodCustom)
		} else {
			f.Period = string(PeriodMonth)
		}
	}
	if token, ok := ParsePeriodToken(f.Period); ok {
		f.Period = string(token)
	}

	var start, end time.Time
	var startOK, endOK bool
	if f.StartDate != nil {
		if start, startOK = validator.IsValidDate(*f.StartDate); !startOK {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != nil {
		if end, endOK = validator.IsValidDate(*f.EndDate); !endOK {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if PeriodToken(f.Period) == PeriodCustom {
		if f.StartDate == nil || f.EndDate == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "period",
				Message: ErrMissingRange.Error(),
			})
		} else if startOK && endOK && end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToPeriod converts a validated filter into a Period.
func (f AnalyticsFilter) ToPeriod() Period {
	p := Period{Token: PeriodToken(f.Period)}
	if token, ok := ParsePeriodToken(f.Period); ok {
		p.Token = token
	}
	if p.Token == PeriodCustom && f.StartDate != nil && f.EndDate != nil {
		p.Start, _ = time.Parse("2006-01-02", *f.StartDate)
		p.End, _ = time.Parse("2006-01-02", *f.EndDate)
	}
	return p
}
