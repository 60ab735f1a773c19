package attendance

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/staff-attendance-go/internal/pkg/timemath"
	"github.com/shopspring/decimal"
)

// LeaveIndex answers whether an approved request covers an employee-day.
type LeaveIndex struct {
	byEmployee map[string][]leave.LeaveRequest
}

// NewLeaveIndex keeps only approved requests; pending and rejected ones never
// excuse a day.
func NewLeaveIndex(requests []leave.LeaveRequest) LeaveIndex {
	idx := LeaveIndex{byEmployee: make(map[string][]leave.LeaveRequest)}
	for _, r := range requests {
		if !r.IsApproved() {
			continue
		}
		idx.byEmployee[r.EmployeeID] = append(idx.byEmployee[r.EmployeeID], r)
	}
	return idx
}

func (x LeaveIndex) Covers(employeeID string, date time.Time) bool {
	for _, r := range x.byEmployee[employeeID] {
		if r.Covers(date) {
			return true
		}
	}
	return false
}

// Classifier derives the status of a stored attendance row. Rules are applied
// in a fixed order and the first match wins:
//
//	weekend > holiday > approved leave > stored status > check times > absent
type Classifier struct {
	Calendar attendance.Calendar
	Shift    attendance.ShiftPolicy
	Leaves   LeaveIndex
}

func NewClassifier(calendar attendance.Calendar, shift attendance.ShiftPolicy, leaves LeaveIndex) Classifier {
	return Classifier{Calendar: calendar, Shift: shift, Leaves: leaves}
}

// ClassifyAll classifies rows in order.
func (c Classifier) ClassifyAll(records []attendance.Record) []attendance.DailyRecord {
	out := make([]attendance.DailyRecord, 0, len(records))
	for _, r := range records {
		out = append(out, c.Classify(r))
	}
	return out
}

func (c Classifier) Classify(rec attendance.Record) attendance.DailyRecord {
	day := attendance.DailyRecord{
		EmployeeID:  rec.EmployeeID,
		Date:        attendance.CivilDate(rec.Date),
		CheckIn:     nonEmpty(rec.CheckIn),
		CheckOut:    nonEmpty(rec.CheckOut),
		WorkedHours: decimal.Zero,
	}
	if rec.EmployeeName != nil {
		day.EmployeeName = *rec.EmployeeName
	}
	if rec.Department != nil {
		day.Department = *rec.Department
	}

	switch {
	case c.Calendar.IsWeekend(day.Date):
		day.Status = attendance.StatusWeekend
		return day
	case c.Calendar.IsHoliday(day.Date):
		day.Status = attendance.StatusHoliday
		return day
	case c.Leaves.Covers(day.EmployeeID, day.Date):
		day.Status = attendance.StatusPermittedLeave
		day.HasPermission = true
		return day
	}

	if rec.Status != nil && strings.TrimSpace(*rec.Status) != "" {
		return c.applyStoredStatus(day, *rec.Status)
	}

	switch {
	case day.CheckIn != nil && day.CheckOut != nil:
		return c.classifyShift(day)
	case day.CheckIn != nil:
		return c.classifyOpen(day)
	case day.CheckOut != nil:
		return markInvalid(day, "check-out without check-in")
	default:
		day.Status = attendance.StatusAbsent
		return day
	}
}

// applyStoredStatus honours a pre-computed status. Hours are derived when the
// row still carries both times.
func (c Classifier) applyStoredStatus(day attendance.DailyRecord, stored string) attendance.DailyRecord {
	st, ok := attendance.ParseStatus(stored)
	if !ok {
		return markInvalid(day, fmt.Sprintf("%s: %q", attendance.ErrInvalidStatus, stored))
	}
	day.Status = st

	switch st {
	case attendance.StatusPresent, attendance.StatusLate, attendance.StatusEarlyLeave:
		if day.CheckIn != nil && day.CheckOut != nil {
			if h, err := timemath.WorkedHours(*day.CheckIn, *day.CheckOut); err == nil {
				day.WorkedHours = h
			}
		}
	case attendance.StatusPermittedLeave:
		day.HasPermission = true
	}
	return day
}

func (c Classifier) classifyShift(day attendance.DailyRecord) attendance.DailyRecord {
	hours, err := timemath.WorkedHours(*day.CheckIn, *day.CheckOut)
	if err != nil {
		return markInvalid(day, err.Error())
	}
	in, _ := timemath.ParseClock(*day.CheckIn)
	out, _ := timemath.ParseClock(*day.CheckOut)

	day.WorkedHours = hours
	day.LateMinutes = c.lateMinutes(in)
	day.EarlyLeaveMinutes = max(0, c.Shift.EndMinutes-out)
	day.OvertimeMinutes = max(0, (out-in)-c.Shift.LengthMinutes())

	// Late wins when the employee was both late and left early.
	switch {
	case day.LateMinutes > 0:
		day.Status = attendance.StatusLate
	case day.EarlyLeaveMinutes > 0:
		day.Status = attendance.StatusEarlyLeave
	default:
		day.Status = attendance.StatusPresent
	}
	return day
}

// classifyOpen handles a day with a check-in and no check-out yet.
func (c Classifier) classifyOpen(day attendance.DailyRecord) attendance.DailyRecord {
	in, err := timemath.ParseClock(*day.CheckIn)
	if err != nil {
		return markInvalid(day, err.Error())
	}
	day.Open = true
	day.LateMinutes = c.lateMinutes(in)
	if day.LateMinutes > 0 {
		day.Status = attendance.StatusLate
	} else {
		day.Status = attendance.StatusPresent
	}
	return day
}

func (c Classifier) lateMinutes(checkIn int) int {
	if checkIn <= c.Shift.StartMinutes+c.Shift.GraceMinutes {
		return 0
	}
	return checkIn - c.Shift.StartMinutes
}

func markInvalid(day attendance.DailyRecord, reason string) attendance.DailyRecord {
	day.Status = ""
	day.Invalid = true
	day.InvalidReason = reason
	day.WorkedHours = decimal.Zero
	day.LateMinutes, day.EarlyLeaveMinutes, day.OvertimeMinutes = 0, 0, 0
	return day
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
