// Package timemath converts wall-clock strings into decimal work hours.
// Rounding is half-up on shopspring/decimal values.
package timemath

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrParse is returned for a missing or malformed clock string.
	ErrParse = errors.New("invalid clock time")
	// ErrTimeOrder is returned when check-out is not after check-in.
	ErrTimeOrder = errors.New("check-out must be after check-in")
)

var (
	sixty   = decimal.NewFromInt(60)
	hundred = decimal.NewFromInt(100)
	thirty  = decimal.NewFromInt(30)
)

// 12-hour clock with optional seconds: "8:05 AM", "08:05:30 pm", "8:05PM"
var clockRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?\s*([AaPp][Mm])$`)

// ParseClock returns the minutes since midnight for a 12-hour clock string.
// Seconds are accepted and ignored.
func ParseClock(s string) (int, error) {
	m := clockRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrParse, s)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrParse, s)
	}
	if m[3] != "" {
		if sec, _ := strconv.Atoi(m[3]); sec > 59 {
			return 0, fmt.Errorf("%w: %q", ErrParse, s)
		}
	}

	pm := strings.EqualFold(m[4], "PM")
	switch {
	case hour == 12 && !pm:
		hour = 0
	case hour != 12 && pm:
		hour += 12
	}

	return hour*60 + minute, nil
}

// FormatClock renders minutes since midnight as "03:04 PM".
func FormatClock(minutes int) string {
	minutes = ((minutes % (24 * 60)) + 24*60) % (24 * 60)
	h24, m := minutes/60, minutes%60

	suffix := "AM"
	if h24 >= 12 {
		suffix = "PM"
	}
	h12 := h24 % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%02d:%02d %s", h12, m, suffix)
}

// MinutesToHours divides by 60 without rounding.
func MinutesToHours(totalMinutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(totalMinutes)).Div(sixty)
}

// WorkedHours returns checkOut - checkIn in decimal hours, rounded half-up to
// two places. On any error the hours are zero; callers treat that as
// "no computable hours", not as a failure.
func WorkedHours(checkIn, checkOut string) (decimal.Decimal, error) {
	in, err := ParseClock(checkIn)
	if err != nil {
		return decimal.Zero, err
	}
	out, err := ParseClock(checkOut)
	if err != nil {
		return decimal.Zero, err
	}
	if out <= in {
		return decimal.Zero, fmt.Errorf("%w: %s -> %s", ErrTimeOrder, checkIn, checkOut)
	}

	return MinutesToHours(out).Sub(MinutesToHours(in)).Round(2), nil
}

// RoundForDisplay rounds decimal hours to whole hours using a 30 minute
// threshold: 7.49 -> 7, 7.50 -> 8.
func RoundForDisplay(hours decimal.Decimal) int {
	floor := hours.Floor()
	if hours.Sub(floor).Mul(sixty).LessThan(thirty) {
		return int(floor.IntPart())
	}
	return int(floor.IntPart()) + 1
}

// ExactPercent returns part/total*100 without rounding, zero when total is 0.
func ExactPercent(part, total int) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(total)))
}

// Percent is ExactPercent rounded half-up to one decimal place.
func Percent(part, total int) decimal.Decimal {
	return ExactPercent(part, total).Round(1)
}

// FormatPercent renders "81.8%", "100%", "0%".
func FormatPercent(d decimal.Decimal) string {
	return d.Round(1).String() + "%"
}

// Float rounds to places and converts for JSON responses.
func Float(d decimal.Decimal, places int32) float64 {
	return d.Round(places).InexactFloat64()
}
