package analytics

import (
	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/analytics"
	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/staff-attendance-go/internal/pkg/timemath"
	"github.com/shopspring/decimal"
)

// tally accumulates classified days. Weekend and holiday rows are counted
// apart from the working-day total; invalid rows only bump skipped.
type tally struct {
	total        int
	present      int
	late         int
	earlyLeave   int
	nonWorking   int
	authorized   int
	unauthorized int
	skipped      int
	lateMinutes  int
	overtime     int
	hours        decimal.Decimal
}

func (t *tally) add(r attendance.DailyRecord) {
	if r.Invalid {
		t.skipped++
		return
	}
	if !r.Status.IsWorkingDay() {
		t.nonWorking++
		return
	}

	t.total++
	switch r.Status {
	case attendance.StatusPresent:
		t.present++
	case attendance.StatusLate:
		t.late++
	case attendance.StatusEarlyLeave:
		t.earlyLeave++
	default:
		if r.HasPermission {
			t.authorized++
		} else {
			t.unauthorized++
		}
	}
	t.hours = t.hours.Add(r.WorkedHours)
	t.lateMinutes += r.LateMinutes
	t.overtime += r.OvertimeMinutes
}

func (t tally) absent() int {
	return t.total - t.present - t.late - t.earlyLeave
}

func (t tally) summary() analytics.Summary {
	s := analytics.Summary{
		TotalRecords:         t.total,
		PresentCount:         t.present,
		LateCount:            t.late,
		EarlyLeaveCount:      t.earlyLeave,
		AbsentCount:          t.absent(),
		NonWorkingDays:       t.nonWorking,
		AttendanceRate:       timemath.FormatPercent(timemath.Percent(t.present, t.total)),
		LateRate:             timemath.FormatPercent(timemath.Percent(t.late, t.total)),
		EarlyLeaveRate:       timemath.FormatPercent(timemath.Percent(t.earlyLeave, t.total)),
		AbsentRate:           timemath.FormatPercent(timemath.Percent(t.absent(), t.total)),
		TotalWorkedHours:     timemath.Float(t.hours, 2),
		TotalLateMinutes:     t.lateMinutes,
		TotalOvertimeHours:   timemath.Float(timemath.MinutesToHours(t.overtime), 2),
		AuthorizedAbsences:   t.authorized,
		UnauthorizedAbsences: t.unauthorized,
		SkippedRecords:       t.skipped,
	}
	if t.total > 0 {
		s.AverageHours = timemath.Float(t.hours.Div(decimal.NewFromInt(int64(t.total))), 2)
	}

	// No absences at all reads as full compliance.
	if judged := t.authorized + t.unauthorized; judged == 0 {
		s.PermissionComplianceRate = "100%"
	} else {
		s.PermissionComplianceRate = timemath.FormatPercent(timemath.Percent(t.authorized, judged))
	}
	return s
}

// Summarize aggregates classified days that already belong to one range.
func Summarize(records []attendance.DailyRecord) analytics.Summary {
	var t tally
	for _, r := range records {
		t.add(r)
	}
	return t.summary()
}

// GroupKey returns the grouping key and display label of a record.
type GroupKey func(r attendance.DailyRecord) (key, label string)

func ByEmployee(r attendance.DailyRecord) (string, string) {
	return r.EmployeeID, r.EmployeeName
}

func ByDepartment(r attendance.DailyRecord) (string, string) {
	if r.Department == "" {
		return "unassigned", "Unassigned"
	}
	return r.Department, r.Department
}

// SummarizeBy aggregates per group. Groups appear in encounter order.
func SummarizeBy(records []attendance.DailyRecord, key GroupKey) []analytics.GroupSummary {
	index := make(map[string]int)
	var (
		keys   []string
		labels []string
		groups []tally
	)
	for _, r := range records {
		k, label := key(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			keys = append(keys, k)
			labels = append(labels, label)
			groups = append(groups, tally{})
		}
		if labels[i] == "" {
			labels[i] = label
		}
		groups[i].add(r)
	}

	out := make([]analytics.GroupSummary, 0, len(groups))
	for i, g := range groups {
		out = append(out, analytics.GroupSummary{Key: keys[i], Label: labels[i], Summary: g.summary()})
	}
	return out
}
