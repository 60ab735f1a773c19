package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance rows.
type AttendanceRepository interface {
	// Create creates a new attendance row
	Create(ctx context.Context, record Record) (Record, error)

	// GetByEmployeeAndDate returns nil when the employee has no row on date.
	// Used to prevent double check-in
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Record, error)

	// Update updates check-in/check-out/status of an existing row
	Update(ctx context.Context, record Record) error

	// ListByRange returns rows with start <= date < end, joined with the employee.
	// employeeID narrows the result when not nil.
	ListByRange(ctx context.Context, start, end time.Time, employeeID *string) ([]Record, error)

	// BulkCreateAbsences inserts empty rows, skipping (employee, date) pairs that exist
	BulkCreateAbsences(ctx context.Context, records []Record) (int64, error)
}

// HolidayRepository reads the holiday calendar.
type HolidayRepository interface {
	// ListBetween returns holidays with start <= date < end, active or not
	ListBetween(ctx context.Context, start, end time.Time) ([]Holiday, error)
}
