package attendance

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/staff-attendance-go/internal/pkg/timemath"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// Status is the single derived state of one employee-day. The values are
// mutually exclusive.
type Status string

const (
	StatusPresent        Status = "present"
	StatusLate           Status = "late"
	StatusEarlyLeave     Status = "early_leave"
	StatusAbsent         Status = "absent"
	StatusWeekend        Status = "weekend"
	StatusHoliday        Status = "holiday"
	StatusPermittedLeave Status = "permitted_leave"
)

var statusAliases = map[string]Status{
	"present":         StatusPresent,
	"on_time":         StatusPresent,
	"late":            StatusLate,
	"early_leave":     StatusEarlyLeave,
	"earlyleave":      StatusEarlyLeave,
	"absent":          StatusAbsent,
	"weekend":         StatusWeekend,
	"holiday":         StatusHoliday,
	"permitted_leave": StatusPermittedLeave,
	"permittedleave":  StatusPermittedLeave,
	"leave":           StatusPermittedLeave,
}

// ParseStatus maps a stored status string (case-insensitive, with aliases)
// onto the taxonomy.
func ParseStatus(s string) (Status, bool) {
	st, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]
	return st, ok
}

// IsWorkingDay reports whether the status counts toward attendance totals.
func (s Status) IsWorkingDay() bool {
	return s != StatusWeekend && s != StatusHoliday
}

// Record is a stored attendance row. CheckIn/CheckOut are 12-hour clock
// strings ("08:05 AM"); Status is only set when imported pre-computed.
type Record struct {
	ID         string
	EmployeeID string
	Date       time.Time
	CheckIn    *string
	CheckOut   *string
	Status     *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Joined
	EmployeeName *string
	Department   *string
}

// DailyRecord is a classified employee-day.
type DailyRecord struct {
	EmployeeID        string
	EmployeeName      string
	Department        string
	Date              time.Time
	CheckIn           *string
	CheckOut          *string
	Status            Status
	WorkedHours       decimal.Decimal
	LateMinutes       int
	EarlyLeaveMinutes int
	OvertimeMinutes   int
	HasPermission     bool

	// Open is set when the employee checked in but has not checked out yet.
	Open bool

	// Invalid records are excluded from every sum and counted as skipped.
	Invalid       bool
	InvalidReason string
}

type Holiday struct {
	ID       string
	Date     time.Time
	Name     string
	IsActive bool
}

var DefaultWeekendDays = []time.Weekday{time.Friday, time.Saturday}

const (
	DefaultShiftStart = "08:00 AM"
	DefaultShiftEnd   = "03:00 PM"
)

// Calendar holds the non-working days used by the classifier.
type Calendar struct {
	weekend  map[time.Weekday]bool
	holidays map[string]bool
}

func NewCalendar(weekendDays []time.Weekday, holidays []Holiday) Calendar {
	c := Calendar{
		weekend:  make(map[time.Weekday]bool, len(weekendDays)),
		holidays: make(map[string]bool, len(holidays)),
	}
	for _, d := range weekendDays {
		c.weekend[d] = true
	}
	for _, h := range holidays {
		key := DateKey(h.Date)
		// an active entry wins over an inactive duplicate
		c.holidays[key] = c.holidays[key] || h.IsActive
	}
	return c
}

func (c Calendar) IsWeekend(date time.Time) bool {
	return c.weekend[date.Weekday()]
}

func (c Calendar) IsHoliday(date time.Time) bool {
	return c.holidays[DateKey(date)]
}

func (c Calendar) WeekendDays() map[time.Weekday]bool {
	return c.weekend
}

// ShiftPolicy is the reference shift, in minutes since midnight. A check-in
// within GraceMinutes of the start is on time; lateness is still measured from
// the start.
type ShiftPolicy struct {
	StartMinutes int
	EndMinutes   int
	GraceMinutes int
}

// NewShiftPolicy parses 12-hour reference times such as "07:30 AM".
func NewShiftPolicy(start, end string, graceMinutes int) (ShiftPolicy, error) {
	s, err := timemath.ParseClock(start)
	if err != nil {
		return ShiftPolicy{}, fmt.Errorf("shift start: %w", err)
	}
	e, err := timemath.ParseClock(end)
	if err != nil {
		return ShiftPolicy{}, fmt.Errorf("shift end: %w", err)
	}
	if e <= s {
		return ShiftPolicy{}, fmt.Errorf("shift end %q must be after shift start %q", end, start)
	}
	if graceMinutes < 0 {
		graceMinutes = 0
	}
	return ShiftPolicy{StartMinutes: s, EndMinutes: e, GraceMinutes: graceMinutes}, nil
}

// LengthMinutes is the standard shift length.
func (p ShiftPolicy) LengthMinutes() int {
	return p.EndMinutes - p.StartMinutes
}

// DateKey formats the civil date of t.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// CivilDate truncates t to midnight UTC of its calendar date in t's location.
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
