package analytics

import (
	"sort"

	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/analytics"
	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/staff-attendance-go/internal/pkg/timemath"
	"github.com/shopspring/decimal"
)

// Accumulate builds one aggregate per employee in encounter order.
func Accumulate(records []attendance.DailyRecord) []analytics.EmployeeAggregate {
	index := make(map[string]int)
	var out []analytics.EmployeeAggregate
	for _, r := range records {
		i, ok := index[r.EmployeeID]
		if !ok {
			i = len(out)
			index[r.EmployeeID] = i
			out = append(out, analytics.EmployeeAggregate{
				EmployeeID:   r.EmployeeID,
				EmployeeName: r.EmployeeName,
				Department:   r.Department,
				WorkedHours:  decimal.Zero,
			})
		}

		a := &out[i]
		if r.Invalid {
			a.Skipped++
			continue
		}
		if !r.Status.IsWorkingDay() {
			continue
		}
		a.Total++
		switch r.Status {
		case attendance.StatusPresent:
			a.Present++
		case attendance.StatusLate:
			a.Late++
		case attendance.StatusEarlyLeave:
			a.EarlyLeave++
		default:
			a.Absent++
		}
		a.WorkedHours = a.WorkedHours.Add(r.WorkedHours)
		a.LateMinutes += r.LateMinutes
		a.OvertimeMinutes += r.OvertimeMinutes
	}
	return out
}

// TierFor assigns a tier top-down; every bound is inclusive.
func TierFor(rate decimal.Decimal, th analytics.Thresholds) analytics.Tier {
	switch {
	case rate.GreaterThanOrEqual(th.Excellent):
		return analytics.TierExcellent
	case rate.GreaterThanOrEqual(th.Good):
		return analytics.TierGood
	case rate.GreaterThanOrEqual(th.Average):
		return analytics.TierAverage
	default:
		return analytics.TierPoor
	}
}

// RiskReasons lists the at-risk rules an aggregate triggers. Empty aggregates
// are never at risk.
func RiskReasons(a analytics.EmployeeAggregate, th analytics.Thresholds) []analytics.RiskReason {
	reasons := []analytics.RiskReason{}
	if a.Total == 0 {
		return reasons
	}
	total := decimal.NewFromInt(int64(a.Total))

	if timemath.Percent(a.Present, a.Total).LessThan(th.AtRiskRate) {
		reasons = append(reasons, analytics.RiskLowAttendance)
	}
	if decimal.NewFromInt(int64(a.Late)).GreaterThan(th.LateShare.Mul(total)) {
		reasons = append(reasons, analytics.RiskFrequentLate)
	}
	if decimal.NewFromInt(int64(a.Absent)).GreaterThan(th.AbsentShare.Mul(total)) {
		reasons = append(reasons, analytics.RiskFrequentAbsence)
	}
	return reasons
}

// Evaluate derives the rates, tier and risk flags of one employee. The tier is
// taken from the reported one-decimal rate. An employee without working days
// in the range gets no tier.
func Evaluate(a analytics.EmployeeAggregate, th analytics.Thresholds) analytics.EmployeePerformance {
	rate := timemath.Percent(a.Present, a.Total)
	p := analytics.EmployeePerformance{
		EmployeeID:       a.EmployeeID,
		EmployeeName:     a.EmployeeName,
		Department:       a.Department,
		TotalRecords:     a.Total,
		PresentCount:     a.Present,
		LateCount:        a.Late,
		EarlyLeaveCount:  a.EarlyLeave,
		AbsentCount:      a.Absent,
		AttendanceRate:   timemath.FormatPercent(rate),
		PunctualityScore: timemath.FormatPercent(timemath.ExactPercent(a.Present+a.Late+a.EarlyLeave, a.Total)),
		OvertimeHours:    timemath.Float(timemath.MinutesToHours(a.OvertimeMinutes), 2),
		RiskReasons:      RiskReasons(a, th),
	}
	if a.Total > 0 {
		p.AverageHours = timemath.Float(a.WorkedHours.Div(decimal.NewFromInt(int64(a.Total))), 2)
		p.Tier = TierFor(rate, th)
	}
	p.AtRisk = len(p.RiskReasons) > 0
	return p
}

type ranked struct {
	perf analytics.EmployeePerformance
	rate decimal.Decimal
}

// Segment splits employees into tiers sorted by attendance rate, highest
// first, keeping encounter order on ties. The at-risk list is ordered lowest
// rate first.
func Segment(aggs []analytics.EmployeeAggregate, th analytics.Thresholds) analytics.PerformanceReport {
	tiers := map[analytics.Tier][]ranked{}
	var atRisk []ranked
	report := analytics.PerformanceReport{Unrated: []analytics.EmployeePerformance{}}

	for _, a := range aggs {
		p := Evaluate(a, th)
		if a.Total == 0 {
			report.Unrated = append(report.Unrated, p)
			continue
		}
		r := ranked{perf: p, rate: timemath.ExactPercent(a.Present, a.Total)}
		tiers[p.Tier] = append(tiers[p.Tier], r)
		if p.AtRisk {
			atRisk = append(atRisk, r)
		}
	}

	sorted := func(list []ranked, desc bool) []analytics.EmployeePerformance {
		sort.SliceStable(list, func(i, j int) bool {
			if desc {
				return list[i].rate.GreaterThan(list[j].rate)
			}
			return list[i].rate.LessThan(list[j].rate)
		})
		out := make([]analytics.EmployeePerformance, 0, len(list))
		for _, r := range list {
			out = append(out, r.perf)
		}
		return out
	}

	report.Excellent = sorted(tiers[analytics.TierExcellent], true)
	report.Good = sorted(tiers[analytics.TierGood], true)
	report.Average = sorted(tiers[analytics.TierAverage], true)
	report.Poor = sorted(tiers[analytics.TierPoor], true)
	report.AtRisk = sorted(atRisk, false)
	return report
}
