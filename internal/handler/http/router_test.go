package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/analytics"
	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/staff-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/staff-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/staff-attendance-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAttendance struct {
	attendance.AttendanceService
	checkedIn map[string]bool
}

func (s *stubAttendance) CheckIn(_ context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if s.checkedIn[req.EmployeeID] {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}
	s.checkedIn[req.EmployeeID] = true
	in := "08:00 AM"
	return attendance.AttendanceResponse{EmployeeID: req.EmployeeID, Date: "2024-03-04", CheckIn: &in, Status: "present", Open: true}, nil
}

func (s *stubAttendance) ListAttendance(_ context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if filter.Status != nil && *filter.Status == "bogus" {
		return attendance.ListAttendanceResponse{}, validator.ValidationErrors{{Field: "status", Message: "status is invalid"}}
	}
	return attendance.ListAttendanceResponse{TotalCount: 1, Page: filter.Page, Limit: filter.Limit, TotalPages: 1, Range: "This Month"}, nil
}

type stubAnalytics struct {
	analytics.AnalyticsService
	last analytics.AnalyticsFilter
}

func (s *stubAnalytics) Summary(_ context.Context, filter analytics.AnalyticsFilter) (analytics.SummaryResponse, error) {
	s.last = filter
	return analytics.SummaryResponse{
		Range:   analytics.RangeInfo{Start: "2024-03-01", End: "2024-03-31", Label: "This Month"},
		Summary: analytics.Summary{TotalRecords: 4, AttendanceRate: "75%"},
	}, nil
}

type stubReport struct {
	report.ReportService
}

func (stubReport) ExportMonthlyAttendanceReport(_ context.Context, _ report.MonthlyAttendanceReportRequest, w io.Writer) error {
	_, err := w.Write([]byte("xlsx"))
	return err
}

type stubLeave struct {
	leave.LeaveService
}

func (stubLeave) ApproveLeaveRequest(_ context.Context, requestID, _ string) error {
	if requestID == "done" {
		return leave.ErrLeaveRequestAlreadyProcessed
	}
	return nil
}

type fixture struct {
	router    http.Handler
	jwt       jwt.Service
	analytics *stubAnalytics
}

func newFixture(t *testing.T, opts RouterOptions) fixture {
	t.Helper()
	jwtService := jwt.NewJWTService("test-secret", time.Hour)
	an := &stubAnalytics{}
	router := NewRouter(jwtService, Handlers{
		Attendance: NewAttendanceHandler(&stubAttendance{checkedIn: map[string]bool{}}),
		Analytics:  NewAnalyticsHandler(an),
		Dashboard:  NewDashboardHandler(nil),
		Report:     NewReportHandler(stubReport{}),
		Leave:      NewLeaveHandler(stubLeave{}),
	}, opts)
	return fixture{router: router, jwt: jwtService, analytics: an}
}

func (f fixture) do(t *testing.T, method, target string, role employee.Role) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if role != "" {
		token, _, err := f.jwt.GenerateAccessToken("emp-1", role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestRouter_Authorization(t *testing.T) {
	f := newFixture(t, RouterOptions{})

	tests := []struct {
		name   string
		method string
		target string
		role   employee.Role
		want   int
	}{
		{"missing token", http.MethodGet, "/api/v1/attendance/my", "", http.StatusUnauthorized},
		{"teacher on analytics", http.MethodGet, "/api/v1/analytics/summary", employee.RoleTeacher, http.StatusForbidden},
		{"teacher on attendance list", http.MethodGet, "/api/v1/attendance", employee.RoleTeacher, http.StatusForbidden},
		{"manager on analytics", http.MethodGet, "/api/v1/analytics/summary", employee.RoleManager, http.StatusOK},
		{"admin on attendance list", http.MethodGet, "/api/v1/attendance", employee.RoleAdmin, http.StatusOK},
		{"unknown route", http.MethodGet, "/api/v1/nothing", employee.RoleAdmin, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, tt.method, tt.target, tt.role)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRouter_RejectsNonAccessToken(t *testing.T) {
	f := newFixture(t, RouterOptions{})

	_, token, err := f.jwt.JWTAuth().Encode(map[string]interface{}{
		"employee_id": "emp-1",
		"role":        "manager",
		"type":        "refresh",
		"exp":         time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance/my", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAnalyticsHandler_ParsesFilter(t *testing.T) {
	f := newFixture(t, RouterOptions{})

	rec := f.do(t, http.MethodGet, "/api/v1/analytics/summary?period=week&department=Science&employee_id=emp-9", employee.RoleManager)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "week", f.analytics.last.Period)
	require.NotNil(t, f.analytics.last.Department)
	assert.Equal(t, "Science", *f.analytics.last.Department)
	require.NotNil(t, f.analytics.last.EmployeeID)
	assert.Equal(t, "emp-9", *f.analytics.last.EmployeeID)
	assert.Nil(t, f.analytics.last.StartDate)

	body := decode(t, rec)
	assert.True(t, body.Success)
	data := body.Data.(map[string]interface{})
	assert.Equal(t, "75%", data["summary"].(map[string]interface{})["attendanceRate"])
}

func TestAttendanceHandler_CheckIn(t *testing.T) {
	f := newFixture(t, RouterOptions{})

	rec := f.do(t, http.MethodPost, "/api/v1/attendance/check-in", employee.RoleTeacher)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "emp-1", body.Data.(map[string]interface{})["employee_id"])

	rec = f.do(t, http.MethodPost, "/api/v1/attendance/check-in", employee.RoleTeacher)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAttendanceHandler_ListValidation(t *testing.T) {
	f := newFixture(t, RouterOptions{})

	rec := f.do(t, http.MethodGet, "/api/v1/attendance?status=bogus", employee.RoleManager)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "status is invalid", body.Error.Details["status"])

	rec = f.do(t, http.MethodGet, "/api/v1/attendance?page=2&limit=5", employee.RoleManager)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	require.NotNil(t, body.Meta)
	assert.Equal(t, 2, body.Meta.Page)
	assert.Equal(t, 5, body.Meta.Limit)
}

func TestLeaveHandler_Approve(t *testing.T) {
	f := newFixture(t, RouterOptions{})

	rec := f.do(t, http.MethodPost, "/api/v1/leave-requests/lr-1/approve", employee.RoleManager)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/leave-requests/done/approve", employee.RoleManager)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/leave-requests/lr-1/approve", employee.RoleTeacher)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestReportHandler_Export(t *testing.T) {
	f := newFixture(t, RouterOptions{})

	rec := f.do(t, http.MethodGet, "/api/v1/reports/monthly-attendance/export?month=3&year=2024", employee.RoleManager)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="attendance-2024-03.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "xlsx", rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/v1/reports/monthly-attendance/export?month=march&year=2024", employee.RoleManager)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_RateLimit(t *testing.T) {
	f := newFixture(t, RouterOptions{RateLimitPerMinute: 1, RateLimitBurst: 1})

	rec := f.do(t, http.MethodGet, "/api/v1/analytics/summary", employee.RoleManager)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/analytics/summary", employee.RoleManager)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	// Routes outside the analytics group are not limited
	rec = f.do(t, http.MethodGet, "/api/v1/attendance", employee.RoleManager)
	assert.Equal(t, http.StatusOK, rec.Code)
}
