package report

import (
	"context"
	"io"
)

// ReportService defines the interface for report generation
type ReportService interface {
	// Generate Monthly Attendance Report
	GenerateMonthlyAttendanceReport(ctx context.Context, req MonthlyAttendanceReportRequest) (MonthlyAttendanceReport, error)

	// ExportMonthlyAttendanceReport writes the same report as an xlsx workbook
	ExportMonthlyAttendanceReport(ctx context.Context, req MonthlyAttendanceReportRequest, w io.Writer) error
}
