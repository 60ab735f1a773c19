package analytics

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/analytics"
)

var epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// Resolve turns a period into a half-open range of civil dates. "now" is read
// in loc; the returned bounds are midnight UTC of the local calendar dates.
//
// An unknown token resolves to the whole history up to and including today
// and is reported with ErrUnknownPeriod so the caller can log it. A custom
// period takes an inclusive end date.
func Resolve(p analytics.Period, now time.Time, loc *time.Location) (analytics.CalendarRange, error) {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	token, ok := analytics.ParsePeriodToken(string(p.Token))
	if !ok {
		r := analytics.CalendarRange{Start: epoch, End: today.AddDate(0, 0, 1), Label: "All Time"}
		return r, fmt.Errorf("%w: %q", analytics.ErrUnknownPeriod, p.Token)
	}

	switch token {
	case analytics.PeriodToday:
		return analytics.CalendarRange{Start: today, End: today.AddDate(0, 0, 1), Label: "Today"}, nil

	case analytics.PeriodWeek:
		start := today.AddDate(0, 0, -int(today.Weekday()))
		return analytics.CalendarRange{Start: start, End: start.AddDate(0, 0, 7), Label: "This Week"}, nil

	case analytics.PeriodMonth:
		return analytics.CalendarRange{
			Start: monthStart,
			End:   monthStart.AddDate(0, 1, 0),
			Label: monthStart.Format("January 2006"),
		}, nil

	case analytics.PeriodLastMonth:
		start := monthStart.AddDate(0, -1, 0)
		return analytics.CalendarRange{Start: start, End: monthStart, Label: start.Format("January 2006")}, nil

	case analytics.PeriodQuarter:
		q := (int(today.Month()) - 1) / 3
		start := time.Date(today.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, time.UTC)
		return analytics.CalendarRange{
			Start: start,
			End:   start.AddDate(0, 3, 0),
			Label: fmt.Sprintf("Q%d %d", q+1, today.Year()),
		}, nil

	case analytics.PeriodYear:
		start := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return analytics.CalendarRange{Start: start, End: start.AddDate(1, 0, 0), Label: start.Format("2006")}, nil

	default: // custom
		if p.Start.IsZero() || p.End.IsZero() {
			return analytics.CalendarRange{}, analytics.ErrMissingRange
		}
		start := civil(p.Start)
		last := civil(p.End)
		if last.Before(start) {
			return analytics.CalendarRange{}, analytics.ErrInvalidRange
		}
		return analytics.CalendarRange{
			Start: start,
			End:   last.AddDate(0, 0, 1),
			Label: start.Format("2006-01-02") + " to " + last.Format("2006-01-02"),
		}, nil
	}
}

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
