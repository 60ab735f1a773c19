package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/analytics"
	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/staff-attendance-go/internal/pkg/timemath"
	"github.com/jackc/pgx/v5"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	loader   *Loader
	resolver analytics.RangeResolver
	loc      *time.Location
	now      func() time.Time
}

func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	employeeRepository employee.EmployeeRepository,
	loader *Loader,
	resolver analytics.RangeResolver,
	loc *time.Location,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		EmployeeRepository:   employeeRepository,
		loader:               loader,
		resolver:             resolver,
		loc:                  loc,
		now:                  time.Now,
	}
}

// localNow returns the wall clock in the school timezone, the civil date of
// today and the minutes since midnight.
func (a *AttendanceServiceImpl) localNow() (time.Time, time.Time, int) {
	nowLocal := a.now().In(a.loc)
	date := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, time.UTC)
	return nowLocal, date, nowLocal.Hour()*60 + nowLocal.Minute()
}

func (a *AttendanceServiceImpl) activeEmployee(ctx context.Context, employeeID string) (employee.Employee, error) {
	emp, err := a.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.IsActive {
		return employee.Employee{}, employee.ErrEmployeeInactive
	}
	return emp, nil
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := a.activeEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	_, date, minutes := a.localNow()
	checkIn := timemath.FormatClock(minutes)

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check if employee has checked in today: %w", err)
	}

	var record attendance.Record
	switch {
	case existing != nil && existing.CheckIn != nil:
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	case existing != nil:
		// Row pre-created by the absence job.
		record = *existing
		record.CheckIn = &checkIn
		if err := a.AttendanceRepository.Update(ctx, record); err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
		}
	default:
		record, err = a.AttendanceRepository.Create(ctx, attendance.Record{
			EmployeeID: emp.ID,
			Date:       date,
			CheckIn:    &checkIn,
		})
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
		}
	}

	slog.Info("Employee checked in", "employee_id", emp.ID, "date", attendance.DateKey(date), "check_in", checkIn)
	return a.classifiedResponse(ctx, emp, record)
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := a.activeEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	_, date, minutes := a.localNow()

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if existing == nil || existing.CheckIn == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if existing.CheckOut != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	checkedInAt, err := timemath.ParseClock(*existing.CheckIn)
	if err == nil && minutes <= checkedInAt {
		return attendance.AttendanceResponse{}, attendance.ErrCheckOutTooEarly
	}

	checkOut := timemath.FormatClock(minutes)
	record := *existing
	record.CheckOut = &checkOut
	if err := a.AttendanceRepository.Update(ctx, record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	slog.Info("Employee checked out", "employee_id", emp.ID, "date", attendance.DateKey(date), "check_out", checkOut)
	return a.classifiedResponse(ctx, emp, record)
}

// classifiedResponse classifies a single row against the calendar of its day.
func (a *AttendanceServiceImpl) classifiedResponse(ctx context.Context, emp employee.Employee, record attendance.Record) (attendance.AttendanceResponse, error) {
	record.EmployeeName = &emp.FullName
	record.Department = &emp.Department

	records, err := a.loader.Load(ctx, record.Date, record.Date.AddDate(0, 0, 1), &emp.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	for _, r := range records {
		if attendance.DateKey(r.Date) == attendance.DateKey(record.Date) {
			resp := toResponse(r)
			resp.ID = record.ID
			return resp, nil
		}
	}

	// The row is not visible yet (replica lag); classify without calendar data.
	c := NewClassifier(attendance.NewCalendar(a.loader.policy.WeekendDays, nil), a.loader.policy.Shift, NewLeaveIndex(nil))
	resp := toResponse(c.Classify(record))
	resp.ID = record.ID
	return resp, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, employeeID string, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	filter.EmployeeID = &employeeID
	filter.Department = nil
	return a.ListAttendance(ctx, filter)
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	rng, err := a.resolver.ResolveRange(analytics.AnalyticsFilter{
		Period:    filter.Period,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
	})
	if err != nil {
		if !errors.Is(err, analytics.ErrUnknownPeriod) {
			return attendance.ListAttendanceResponse{}, err
		}
		slog.Warn("Unknown period, using full history", "period", filter.Period)
	}

	records, err := a.loader.Load(ctx, rng.Start, rng.End, filter.EmployeeID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	var wantStatus attendance.Status
	if filter.Status != nil {
		wantStatus, _ = attendance.ParseStatus(*filter.Status)
	}

	matched := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		if filter.Department != nil && !strings.EqualFold(r.Department, *filter.Department) {
			continue
		}
		if wantStatus != "" && r.Status != wantStatus {
			continue
		}
		matched = append(matched, toResponse(r))
	}

	total := len(matched)
	from := min((filter.Page-1)*filter.Limit, total)
	to := min(from+filter.Limit, total)

	return attendance.ListAttendanceResponse{
		TotalCount: int64(total),
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Range:      rng.Label,
		Records:    matched[from:to],
	}, nil
}

// MarkAbsentEmployees implements attendance.AttendanceService. It inserts an
// empty row for every active employee hired on or before date who has none,
// so the classifier can later derive Absent, Weekend, Holiday or leave.
func (a *AttendanceServiceImpl) MarkAbsentEmployees(ctx context.Context, date string) (int64, error) {
	day, err := time.Parse(attendance.DateLayout, date)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", date, err)
	}

	employees, err := a.EmployeeRepository.List(ctx, employee.EmployeeFilter{ActiveOnly: true})
	if err != nil {
		return 0, fmt.Errorf("failed to list active employees: %w", err)
	}

	rows := make([]attendance.Record, 0, len(employees))
	for _, emp := range employees {
		if !emp.HireDate.IsZero() && emp.HireDate.After(day) {
			continue
		}
		rows = append(rows, attendance.Record{EmployeeID: emp.ID, Date: day})
	}
	if len(rows) == 0 {
		return 0, nil
	}

	inserted, err := a.AttendanceRepository.BulkCreateAbsences(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("failed to create absence rows: %w", err)
	}
	return inserted, nil
}

func toResponse(r attendance.DailyRecord) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		EmployeeID:        r.EmployeeID,
		EmployeeName:      r.EmployeeName,
		Department:        r.Department,
		Date:              attendance.DateKey(r.Date),
		CheckIn:           r.CheckIn,
		CheckOut:          r.CheckOut,
		Status:            string(r.Status),
		LateMinutes:       r.LateMinutes,
		EarlyLeaveMinutes: r.EarlyLeaveMinutes,
		OvertimeMinutes:   r.OvertimeMinutes,
		HasPermission:     r.HasPermission,
		Open:              r.Open,
		Invalid:           r.Invalid,
		InvalidReason:     r.InvalidReason,
	}
	if !r.Invalid && r.CheckIn != nil && r.CheckOut != nil {
		h := timemath.Float(r.WorkedHours, 2)
		resp.WorkedHours = &h
	}
	return resp
}
