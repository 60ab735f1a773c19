package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// 2024-03-04 is a Monday, 2024-03-01 a Friday.
const monday = "2024-03-04"

func newTestClassifier(t *testing.T, holidays []attendance.Holiday, requests []leave.LeaveRequest) Classifier {
	t.Helper()
	shift, err := attendance.NewShiftPolicy("08:00 AM", "03:00 PM", 0)
	require.NoError(t, err)
	return NewClassifier(
		attendance.NewCalendar(attendance.DefaultWeekendDays, holidays),
		shift,
		NewLeaveIndex(requests),
	)
}

func row(day, in, out string) attendance.Record {
	r := attendance.Record{EmployeeID: "emp-1", Date: date(day)}
	if in != "" {
		r.CheckIn = strPtr(in)
	}
	if out != "" {
		r.CheckOut = strPtr(out)
	}
	return r
}

func TestClassifier_ShiftDays(t *testing.T) {
	c := newTestClassifier(t, nil, nil)

	cases := []struct {
		name     string
		in, out  string
		status   attendance.Status
		hours    string
		late     int
		early    int
		overtime int
	}{
		{"on time", "08:00 AM", "03:00 PM", attendance.StatusPresent, "7", 0, 0, 0},
		{"early arrival", "07:45 AM", "03:00 PM", attendance.StatusPresent, "7.25", 0, 0, 15},
		{"late", "08:10 AM", "03:00 PM", attendance.StatusLate, "6.83", 10, 0, 0},
		{"early leave", "08:00 AM", "02:30 PM", attendance.StatusEarlyLeave, "6.5", 0, 30, 0},
		{"late and early leave", "08:20 AM", "02:00 PM", attendance.StatusLate, "5.67", 20, 60, 0},
		{"overtime", "07:30 AM", "04:00 PM", attendance.StatusPresent, "8.5", 0, 0, 90},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := c.Classify(row(monday, tc.in, tc.out))
			require.False(t, d.Invalid, d.InvalidReason)
			assert.Equal(t, tc.status, d.Status)
			assert.Equal(t, tc.hours, d.WorkedHours.String())
			assert.Equal(t, tc.late, d.LateMinutes)
			assert.Equal(t, tc.early, d.EarlyLeaveMinutes)
			assert.Equal(t, tc.overtime, d.OvertimeMinutes)
			assert.False(t, d.Open)
			assert.False(t, d.HasPermission)
		})
	}
}

func TestClassifier_Absent(t *testing.T) {
	c := newTestClassifier(t, nil, nil)

	d := c.Classify(row(monday, "", ""))
	assert.Equal(t, attendance.StatusAbsent, d.Status)
	assert.True(t, d.WorkedHours.IsZero())
	assert.False(t, d.HasPermission)

	d = c.Classify(row(monday, "  ", ""))
	assert.Equal(t, attendance.StatusAbsent, d.Status)
}

func TestClassifier_Weekend(t *testing.T) {
	c := newTestClassifier(t, nil, nil)

	d := c.Classify(row("2024-03-01", "08:30 AM", "03:00 PM"))
	assert.Equal(t, attendance.StatusWeekend, d.Status)
	assert.True(t, d.WorkedHours.IsZero())
	assert.Zero(t, d.LateMinutes)

	d = c.Classify(row("2024-03-02", "", ""))
	assert.Equal(t, attendance.StatusWeekend, d.Status)

	d = c.Classify(row("2024-03-03", "", ""))
	assert.Equal(t, attendance.StatusAbsent, d.Status, "sunday is a working day by default")
}

func TestClassifier_CustomWeekend(t *testing.T) {
	shift, err := attendance.NewShiftPolicy("08:00 AM", "03:00 PM", 0)
	require.NoError(t, err)
	c := NewClassifier(attendance.NewCalendar([]time.Weekday{time.Saturday, time.Sunday}, nil), shift, NewLeaveIndex(nil))

	assert.Equal(t, attendance.StatusWeekend, c.Classify(row("2024-03-03", "", "")).Status)
	assert.Equal(t, attendance.StatusAbsent, c.Classify(row("2024-03-01", "", "")).Status)
}

func TestClassifier_Holiday(t *testing.T) {
	holidays := []attendance.Holiday{
		{Date: date(monday), Name: "Founders Day", IsActive: true},
		{Date: date("2024-03-05"), Name: "Cancelled", IsActive: false},
	}
	c := newTestClassifier(t, holidays, nil)

	d := c.Classify(row(monday, "08:00 AM", "03:00 PM"))
	assert.Equal(t, attendance.StatusHoliday, d.Status)
	assert.True(t, d.WorkedHours.IsZero())

	d = c.Classify(row("2024-03-05", "", ""))
	assert.Equal(t, attendance.StatusAbsent, d.Status, "inactive holiday is a working day")
}

func TestClassifier_HolidayBeatsApprovedLeave(t *testing.T) {
	holidays := []attendance.Holiday{{Date: date(monday), IsActive: true}}
	requests := []leave.LeaveRequest{{
		EmployeeID: "emp-1",
		StartDate:  date("2024-03-03"),
		EndDate:    date("2024-03-05"),
		Status:     leave.LeaveRequestStatusApproved,
	}}
	c := newTestClassifier(t, holidays, requests)

	d := c.Classify(row(monday, "", ""))
	assert.Equal(t, attendance.StatusHoliday, d.Status)
	assert.False(t, d.HasPermission)

	d = c.Classify(row("2024-03-05", "", ""))
	assert.Equal(t, attendance.StatusPermittedLeave, d.Status)
	assert.True(t, d.HasPermission)
}

func TestClassifier_ApprovedLeave(t *testing.T) {
	requests := []leave.LeaveRequest{
		{EmployeeID: "emp-1", StartDate: date(monday), EndDate: date(monday), Status: "APPROVED"},
		{EmployeeID: "emp-1", StartDate: date("2024-03-05"), EndDate: date("2024-03-05"), Status: leave.LeaveRequestStatusPending},
		{EmployeeID: "emp-2", StartDate: date("2024-03-06"), EndDate: date("2024-03-06"), Status: leave.LeaveRequestStatusApproved},
	}
	c := newTestClassifier(t, nil, requests)

	d := c.Classify(row(monday, "08:00 AM", "03:00 PM"))
	assert.Equal(t, attendance.StatusPermittedLeave, d.Status)
	assert.True(t, d.HasPermission)
	assert.True(t, d.WorkedHours.IsZero())

	d = c.Classify(row("2024-03-05", "", ""))
	assert.Equal(t, attendance.StatusAbsent, d.Status, "pending request does not excuse")

	d = c.Classify(row("2024-03-06", "", ""))
	assert.Equal(t, attendance.StatusAbsent, d.Status, "other employee's request does not excuse")
}

func TestClassifier_OpenSession(t *testing.T) {
	c := newTestClassifier(t, nil, nil)

	d := c.Classify(row(monday, "08:05 AM", ""))
	assert.True(t, d.Open)
	assert.Equal(t, attendance.StatusLate, d.Status)
	assert.Equal(t, 5, d.LateMinutes)
	assert.Zero(t, d.EarlyLeaveMinutes)
	assert.True(t, d.WorkedHours.IsZero())

	d = c.Classify(row(monday, "07:55 AM", ""))
	assert.True(t, d.Open)
	assert.Equal(t, attendance.StatusPresent, d.Status)
}

func TestClassifier_GracePeriod(t *testing.T) {
	shift, err := attendance.NewShiftPolicy("08:00 AM", "03:00 PM", 5)
	require.NoError(t, err)
	c := NewClassifier(attendance.NewCalendar(attendance.DefaultWeekendDays, nil), shift, NewLeaveIndex(nil))

	d := c.Classify(row(monday, "08:05 AM", "03:00 PM"))
	assert.Equal(t, attendance.StatusPresent, d.Status)
	assert.Zero(t, d.LateMinutes)

	d = c.Classify(row(monday, "08:06 AM", "03:00 PM"))
	assert.Equal(t, attendance.StatusLate, d.Status)
	assert.Equal(t, 6, d.LateMinutes)
}

func TestClassifier_Invalid(t *testing.T) {
	c := newTestClassifier(t, nil, nil)

	cases := []struct {
		name    string
		in, out string
	}{
		{"malformed check-in", "8am", "03:00 PM"},
		{"malformed check-out", "08:00 AM", "25:00 PM"},
		{"check-out before check-in", "03:00 PM", "08:00 AM"},
		{"check-out only", "", "03:00 PM"},
		{"malformed open check-in", "noon", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := c.Classify(row(monday, tc.in, tc.out))
			assert.True(t, d.Invalid)
			assert.NotEmpty(t, d.InvalidReason)
			assert.True(t, d.WorkedHours.IsZero())
		})
	}

	// Non-working days never look at the times.
	d := c.Classify(row("2024-03-01", "8am", ""))
	assert.False(t, d.Invalid)
	assert.Equal(t, attendance.StatusWeekend, d.Status)
}

func TestClassifier_StoredStatus(t *testing.T) {
	c := newTestClassifier(t, nil, nil)

	cases := []struct {
		stored string
		want   attendance.Status
	}{
		{"present", attendance.StatusPresent},
		{"on_time", attendance.StatusPresent},
		{"Late", attendance.StatusLate},
		{"earlyLeave", attendance.StatusEarlyLeave},
		{"EARLY_LEAVE", attendance.StatusEarlyLeave},
		{"absent", attendance.StatusAbsent},
		{"leave", attendance.StatusPermittedLeave},
	}
	for _, tc := range cases {
		r := row(monday, "", "")
		r.Status = strPtr(tc.stored)
		d := c.Classify(r)
		assert.False(t, d.Invalid, tc.stored)
		assert.Equal(t, tc.want, d.Status, tc.stored)
	}

	r := row(monday, "08:00 AM", "03:30 PM")
	r.Status = strPtr("late")
	d := c.Classify(r)
	assert.Equal(t, attendance.StatusLate, d.Status)
	assert.Equal(t, "7.5", d.WorkedHours.String())

	r = row(monday, "", "")
	r.Status = strPtr("sick")
	d = c.Classify(r)
	assert.True(t, d.Invalid)

	// Calendar rules run before the stored status.
	r = row("2024-03-02", "", "")
	r.Status = strPtr("present")
	assert.Equal(t, attendance.StatusWeekend, c.Classify(r).Status)
}

func TestClassifier_ClassifyAllKeepsOrderAndJoinedFields(t *testing.T) {
	c := newTestClassifier(t, nil, nil)
	a := row(monday, "08:00 AM", "03:00 PM")
	a.EmployeeName = strPtr("Aisha")
	a.Department = strPtr("Science")
	b := row("2024-03-05", "", "")

	out := c.ClassifyAll([]attendance.Record{a, b})
	require.Len(t, out, 2)
	assert.Equal(t, "Aisha", out[0].EmployeeName)
	assert.Equal(t, "Science", out[0].Department)
	assert.Equal(t, attendance.StatusPresent, out[0].Status)
	assert.Equal(t, attendance.StatusAbsent, out[1].Status)
}

func TestNewShiftPolicy(t *testing.T) {
	p, err := attendance.NewShiftPolicy("07:30 AM", "02:30 PM", -3)
	require.NoError(t, err)
	assert.Equal(t, 450, p.StartMinutes)
	assert.Equal(t, 870, p.EndMinutes)
	assert.Equal(t, 420, p.LengthMinutes())
	assert.Zero(t, p.GraceMinutes)

	_, err = attendance.NewShiftPolicy("03:00 PM", "08:00 AM", 0)
	assert.Error(t, err)

	_, err = attendance.NewShiftPolicy("8", "03:00 PM", 0)
	assert.Error(t, err)
}
