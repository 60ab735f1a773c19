package analytics

import (
	"testing"

	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/analytics"
	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func agg(id string, present, late, early, absent int) analytics.EmployeeAggregate {
	return analytics.EmployeeAggregate{
		EmployeeID:  id,
		Total:       present + late + early + absent,
		Present:     present,
		Late:        late,
		EarlyLeave:  early,
		Absent:      absent,
		WorkedHours: decimal.Zero,
	}
}

func TestEvaluate_Scenario(t *testing.T) {
	p := Evaluate(agg("emp-1", 18, 2, 0, 2), analytics.DefaultThresholds())

	assert.Equal(t, 22, p.TotalRecords)
	assert.Equal(t, "81.8%", p.AttendanceRate)
	assert.Equal(t, "90.9%", p.PunctualityScore)
	assert.Equal(t, analytics.TierAverage, p.Tier)
	assert.False(t, p.AtRisk)
	assert.Empty(t, p.RiskReasons)
}

func TestTierFor_Boundaries(t *testing.T) {
	th := analytics.DefaultThresholds()
	cases := []struct {
		rate string
		want analytics.Tier
	}{
		{"100", analytics.TierExcellent},
		{"95.0", analytics.TierExcellent},
		{"94.9", analytics.TierGood},
		{"94.99", analytics.TierGood},
		{"85", analytics.TierGood},
		{"84.9", analytics.TierAverage},
		{"75", analytics.TierAverage},
		{"74.9", analytics.TierPoor},
		{"0", analytics.TierPoor},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TierFor(decimal.RequireFromString(tc.rate), th), tc.rate)
	}
}

func TestEvaluate_TierMatchesReportedRate(t *testing.T) {
	th := analytics.DefaultThresholds()

	cases := []struct {
		name    string
		agg     analytics.EmployeeAggregate
		rate    string
		tier    analytics.Tier
		lowRate bool
	}{
		{"exactly 95", agg("a", 19, 0, 0, 1), "95%", analytics.TierExcellent, false},
		{"94.9 stays good", agg("b", 949, 0, 0, 51), "94.9%", analytics.TierGood, false},
		{"94.95 reported as 95", agg("c", 1899, 0, 0, 101), "95%", analytics.TierExcellent, false},
		{"189 of 199", agg("d", 189, 0, 0, 10), "95%", analytics.TierExcellent, false},
		{"94.94 reported as 94.9", agg("e", 4747, 0, 0, 253), "94.9%", analytics.TierGood, false},
		{"79.96 reported as 80", agg("f", 1999, 0, 0, 501), "80%", analytics.TierAverage, false},
		{"79.9 is low", agg("g", 799, 0, 0, 201), "79.9%", analytics.TierAverage, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Evaluate(tc.agg, th)
			assert.Equal(t, tc.rate, p.AttendanceRate)
			assert.Equal(t, tc.tier, p.Tier)
			assert.Equal(t, tc.lowRate, containsReason(p.RiskReasons, analytics.RiskLowAttendance))
		})
	}
}

func containsReason(reasons []analytics.RiskReason, want analytics.RiskReason) bool {
	for _, r := range reasons {
		if r == want {
			return true
		}
	}
	return false
}

func TestRiskReasons(t *testing.T) {
	th := analytics.DefaultThresholds()

	cases := []struct {
		name string
		agg  analytics.EmployeeAggregate
		want []analytics.RiskReason
	}{
		{"healthy", agg("a", 10, 0, 0, 0), []analytics.RiskReason{}},
		{"low attendance", agg("a", 7, 1, 1, 1), []analytics.RiskReason{analytics.RiskLowAttendance}},
		{"late share at the limit", agg("a", 7, 3, 0, 0), []analytics.RiskReason{analytics.RiskLowAttendance}},
		{"frequent late", agg("a", 9, 4, 0, 0), []analytics.RiskReason{analytics.RiskLowAttendance, analytics.RiskFrequentLate}},
		{"absent share at the limit", agg("a", 8, 0, 0, 2), []analytics.RiskReason{}},
		{"frequent absence", agg("a", 13, 0, 0, 4), []analytics.RiskReason{analytics.RiskLowAttendance, analytics.RiskFrequentAbsence}},
		{"everything", agg("a", 0, 4, 0, 6), []analytics.RiskReason{analytics.RiskLowAttendance, analytics.RiskFrequentLate, analytics.RiskFrequentAbsence}},
		{"no records", agg("a", 0, 0, 0, 0), []analytics.RiskReason{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RiskReasons(tc.agg, th))
		})
	}
}

func TestRiskIsIndependentOfTier(t *testing.T) {
	// With a lowered bar the tier is excellent, yet lateness still flags it.
	th := analytics.DefaultThresholds()
	th.Excellent = decimal.NewFromInt(60)

	p := Evaluate(agg("a", 6, 4, 0, 0), th)
	assert.Equal(t, analytics.TierExcellent, p.Tier)
	assert.True(t, p.AtRisk)
	assert.Equal(t, []analytics.RiskReason{analytics.RiskLowAttendance, analytics.RiskFrequentLate}, p.RiskReasons)
}

func TestSegment_StableOrdering(t *testing.T) {
	aggs := []analytics.EmployeeAggregate{
		agg("a", 9, 0, 0, 1),  // 90 good
		agg("b", 10, 0, 0, 0), // 100 excellent
		agg("c", 9, 1, 0, 0),  // 90 good
		agg("d", 20, 0, 0, 0), // 100 excellent
		agg("e", 0, 0, 0, 0),  // unrated
		agg("f", 17, 0, 0, 3), // 85 good
		agg("g", 3, 0, 0, 7),  // 30 poor, at risk
		agg("h", 7, 0, 0, 3),  // 70 poor, at risk
	}

	report := Segment(aggs, analytics.DefaultThresholds())

	ids := func(list []analytics.EmployeePerformance) []string {
		out := []string{}
		for _, p := range list {
			out = append(out, p.EmployeeID)
		}
		return out
	}
	assert.Equal(t, []string{"b", "d"}, ids(report.Excellent))
	assert.Equal(t, []string{"a", "c", "f"}, ids(report.Good))
	assert.Equal(t, []string{}, ids(report.Average))
	assert.Equal(t, []string{"h", "g"}, ids(report.Poor))
	assert.Equal(t, []string{"e"}, ids(report.Unrated))
	assert.Equal(t, []string{"g", "h"}, ids(report.AtRisk))

	require.Len(t, report.Unrated, 1)
	assert.Empty(t, report.Unrated[0].Tier)
	assert.False(t, report.Unrated[0].AtRisk)
	assert.NotNil(t, report.Average)
}

func TestAccumulate(t *testing.T) {
	records := []attendance.DailyRecord{
		rec("2024-03-04", attendance.StatusPresent, in("b", "Math"), hours("7"), overtime(30)),
		rec("2024-03-04", attendance.StatusLate, in("a", "Science"), hours("6.5"), lateBy(20)),
		rec("2024-03-05", attendance.StatusPermittedLeave, in("b", "Math"), permitted()),
		rec("2024-03-01", attendance.StatusWeekend, in("b", "Math")),
		rec("2024-03-06", "", in("a", "Science"), invalid()),
		rec("2024-03-06", attendance.StatusEarlyLeave, in("b", "Math"), hours("5")),
	}

	aggs := Accumulate(records)
	require.Len(t, aggs, 2)

	b := aggs[0]
	assert.Equal(t, "b", b.EmployeeID)
	assert.Equal(t, "Math", b.Department)
	assert.Equal(t, 3, b.Total)
	assert.Equal(t, 1, b.Present)
	assert.Equal(t, 1, b.EarlyLeave)
	assert.Equal(t, 1, b.Absent)
	assert.Equal(t, "12", b.WorkedHours.String())
	assert.Equal(t, 30, b.OvertimeMinutes)

	a := aggs[1]
	assert.Equal(t, 1, a.Total)
	assert.Equal(t, 1, a.Late)
	assert.Equal(t, 20, a.LateMinutes)
	assert.Equal(t, 1, a.Skipped)
}
