package timemath

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		input string
		want  int
	}{
		{"12:00 AM", 0},
		{"12:30 am", 30},
		{"1:05 AM", 65},
		{"11:59 AM", 719},
		{"12:00 PM", 720},
		{"12:45 PM", 765},
		{"1:00 PM", 780},
		{"08:15:42 PM", 20*60 + 15},
		{" 7:30AM ", 450},
	}
	for _, c := range cases {
		got, err := ParseClock(c.input)
		require.NoError(t, err, c.input)
		assert.Equal(t, c.want, got, c.input)
	}
}

func TestParseClock_Invalid(t *testing.T) {
	invalid := []string{"", "8", "13:00 PM", "0:30 AM", "8:60 AM", "08:00", "8:00 XM", "8:00:61 AM", "abc"}
	for _, s := range invalid {
		_, err := ParseClock(s)
		assert.ErrorIs(t, err, ErrParse, s)
	}
}

func TestFormatClock_RoundTrip(t *testing.T) {
	for m := 0; m < 24*60; m += 7 {
		got, err := ParseClock(FormatClock(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	assert.Equal(t, "12:00 AM", FormatClock(0))
	assert.Equal(t, "12:00 PM", FormatClock(720))
	assert.Equal(t, "03:04 PM", FormatClock(15*60+4))
}

func TestMinutesToHours(t *testing.T) {
	assert.True(t, MinutesToHours(90).Equal(decimal.RequireFromString("1.5")))
	assert.True(t, MinutesToHours(0).IsZero())
	assert.Equal(t, "0.17", MinutesToHours(10).Round(2).String())
}

func TestWorkedHours(t *testing.T) {
	h, err := WorkedHours("08:00 AM", "03:30 PM")
	require.NoError(t, err)
	assert.Equal(t, "7.5", h.String())

	h, err = WorkedHours("11:50 AM", "12:10 PM")
	require.NoError(t, err)
	assert.Equal(t, "0.33", h.String())

	h, err = WorkedHours("07:55 AM", "02:05 PM")
	require.NoError(t, err)
	assert.Equal(t, "6.17", h.String())
}

func TestWorkedHours_Errors(t *testing.T) {
	h, err := WorkedHours("", "03:00 PM")
	assert.ErrorIs(t, err, ErrParse)
	assert.True(t, h.IsZero())

	h, err = WorkedHours("08:00 AM", "garbage")
	assert.ErrorIs(t, err, ErrParse)
	assert.True(t, h.IsZero())

	h, err = WorkedHours("03:00 PM", "08:00 AM")
	assert.ErrorIs(t, err, ErrTimeOrder)
	assert.True(t, h.IsZero())

	_, err = WorkedHours("08:00 AM", "08:00 AM")
	assert.ErrorIs(t, err, ErrTimeOrder)
}

// Every same-day pair matches (out-in)/60 rounded to 2 places, and the
// rounded hours never drift more than one minute from the original.
func TestWorkedHours_MatchesMinuteDifference(t *testing.T) {
	for in := 0; in < 24*60; in += 37 {
		for out := in + 1; out < 24*60; out += 53 {
			h, err := WorkedHours(FormatClock(in), FormatClock(out))
			require.NoError(t, err)

			want := decimal.NewFromInt(int64(out - in)).Div(sixty).Round(2)
			require.True(t, want.Equal(h), "%d -> %d: got %s want %s", in, out, h, want)

			back := h.Mul(sixty).Round(0).IntPart()
			diff := back - int64(out-in)
			require.LessOrEqual(t, diff, int64(1))
			require.GreaterOrEqual(t, diff, int64(-1))
		}
	}
}

func TestRoundForDisplay(t *testing.T) {
	cases := []struct {
		hours string
		want  int
	}{
		{"7.49", 7},
		{"7.50", 8},
		{"7.99", 8},
		{"0", 0},
		{"0.49", 0},
		{"0.5", 1},
		{"8", 8},
		{"12.25", 12},
	}
	for _, c := range cases {
		got := RoundForDisplay(decimal.RequireFromString(c.hours))
		assert.Equal(t, c.want, got, c.hours)
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "81.8%", FormatPercent(Percent(18, 22)))
	assert.Equal(t, "100%", FormatPercent(Percent(5, 5)))
	assert.Equal(t, "0%", FormatPercent(Percent(0, 0)))
	assert.Equal(t, "0%", FormatPercent(Percent(3, 0)))
	assert.Equal(t, "33.3%", FormatPercent(Percent(1, 3)))
	assert.Equal(t, "66.7%", FormatPercent(Percent(2, 3)))
	assert.True(t, ExactPercent(19, 20).Equal(decimal.NewFromInt(95)))
}
