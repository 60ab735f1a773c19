package analytics

import (
	"time"

	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/analytics"
	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/staff-attendance-go/internal/pkg/timemath"
)

// AnalyzeWeekly buckets records by weekday, Sunday first. All seven buckets
// are returned even when empty, and configured weekend days are flagged.
// Best and worst day only consider buckets with working-day records; ties
// keep the earlier weekday.
func AnalyzeWeekly(records []attendance.DailyRecord, weekend map[time.Weekday]bool) analytics.WeeklyPattern {
	var buckets [7]tally
	for _, r := range records {
		buckets[r.Date.Weekday()].add(r)
	}

	pattern := analytics.WeeklyPattern{Days: make([]analytics.DayPattern, 0, 7)}
	best, worst := -1, -1
	for i, b := range buckets {
		day := time.Weekday(i)
		pattern.Days = append(pattern.Days, analytics.DayPattern{
			Day:       day.String(),
			Weekday:   i,
			IsWeekend: weekend[day],
			Summary:   b.summary(),
		})
		if b.total == 0 {
			continue
		}

		rate := timemath.ExactPercent(b.present, b.total)
		if best < 0 || rate.GreaterThan(timemath.ExactPercent(buckets[best].present, buckets[best].total)) {
			best = i
		}
		if worst < 0 || rate.LessThan(timemath.ExactPercent(buckets[worst].present, buckets[worst].total)) {
			worst = i
		}
	}

	if best >= 0 {
		name := time.Weekday(best).String()
		pattern.BestDay = &name
	}
	if worst >= 0 {
		name := time.Weekday(worst).String()
		pattern.WorstDay = &name
	}
	return pattern
}
