package analytics

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodToken names a relative reporting window.
type PeriodToken string

const (
	PeriodToday     PeriodToken = "today"
	PeriodWeek      PeriodToken = "week"
	PeriodMonth     PeriodToken = "month"
	PeriodLastMonth PeriodToken = "lastMonth"
	PeriodQuarter   PeriodToken = "quarter"
	PeriodYear      PeriodToken = "year"
	PeriodCustom    PeriodToken = "custom"
)

var periodAliases = map[string]PeriodToken{
	"today":      PeriodToday,
	"week":       PeriodWeek,
	"month":      PeriodMonth,
	"lastmonth":  PeriodLastMonth,
	"last_month": PeriodLastMonth,
	"quarter":    PeriodQuarter,
	"year":       PeriodYear,
	"custom":     PeriodCustom,
}

// ParsePeriodToken maps a query value to its canonical token, ignoring case
// and surrounding spaces.
func ParsePeriodToken(s string) (PeriodToken, bool) {
	token, ok := periodAliases[strings.ToLower(strings.TrimSpace(s))]
	return token, ok
}

// Period is either a relative token or, for PeriodCustom, an explicit
// Start..End pair of civil dates where End is inclusive.
type Period struct {
	Token PeriodToken
	Start time.Time
	End   time.Time
}

// CalendarRange is the half-open interval [Start, End) of civil dates.
type CalendarRange struct {
	Start time.Time
	End   time.Time
	Label string
}

// Contains reports whether the civil date of t lies in the range.
func (r CalendarRange) Contains(t time.Time) bool {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(r.Start) && d.Before(r.End)
}

// Days is the number of calendar days covered.
func (r CalendarRange) Days() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierAverage   Tier = "average"
	TierPoor      Tier = "poor"
)

// RiskReason tags explain why an employee is flagged at risk.
type RiskReason string

const (
	RiskLowAttendance   RiskReason = "low_attendance"
	RiskFrequentLate    RiskReason = "frequent_late"
	RiskFrequentAbsence RiskReason = "frequent_absence"
)

// Thresholds drive tier assignment and the at-risk rule. Rates are percentages,
// shares are fractions of total records.
type Thresholds struct {
	Excellent   decimal.Decimal
	Good        decimal.Decimal
	Average     decimal.Decimal
	AtRiskRate  decimal.Decimal
	LateShare   decimal.Decimal
	AbsentShare decimal.Decimal
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Excellent:   decimal.NewFromInt(95),
		Good:        decimal.NewFromInt(85),
		Average:     decimal.NewFromInt(75),
		AtRiskRate:  decimal.NewFromInt(80),
		LateShare:   decimal.RequireFromString("0.3"),
		AbsentShare: decimal.RequireFromString("0.2"),
	}
}

// EmployeeAggregate accumulates one employee's classified days within a range.
type EmployeeAggregate struct {
	EmployeeID      string
	EmployeeName    string
	Department      string
	Total           int
	Present         int
	Late            int
	EarlyLeave      int
	Absent          int
	WorkedHours     decimal.Decimal
	LateMinutes     int
	OvertimeMinutes int
	Skipped         int
}
