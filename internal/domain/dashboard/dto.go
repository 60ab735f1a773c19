package dashboard

import "github.com/cmlabs-hris/staff-attendance-go/internal/domain/analytics"

// ========== COMBINED DASHBOARD ==========

// DashboardResponse is the combined response for the main dashboard endpoint
type DashboardResponse struct {
	Today           analytics.SummaryResponse `json:"today"`
	Month           analytics.SummaryResponse `json:"month"`
	Weekly          analytics.WeeklyPattern   `json:"weekly"`
	AtRiskCount     int                       `json:"at_risk_count"`
	PendingRequests int64                     `json:"pending_requests"`
	UpdatedAt       string                    `json:"updated_at"`
}

// ========== DAILY ATTENDANCE STATS (pie chart) ==========

// AttendanceStatsResponse represents attendance statistics for a specific day
type AttendanceStatsResponse struct {
	OnTime        int    `json:"on_time"`
	Late          int    `json:"late"`
	EarlyLeave    int    `json:"early_leave"`
	Absent        int    `json:"absent"`
	Total         int    `json:"total"`
	OnTimePercent string `json:"on_time_percent"`
	LatePercent   string `json:"late_percent"`
	AbsentPercent string `json:"absent_percent"`
	Date          string `json:"date"` // Format: "YYYY-MM-DD"
}

// ========== MONTHLY ATTENDANCE ==========

// MonthlyAttendanceResponse represents monthly attendance summary with latest records
type MonthlyAttendanceResponse struct {
	OnTime     int                    `json:"on_time"`
	Late       int                    `json:"late"`
	EarlyLeave int                    `json:"early_leave"`
	Absent     int                    `json:"absent"`
	Records    []AttendanceRecordItem `json:"records"` // Latest 10 records
	Month      string                 `json:"month"`   // Format: "YYYY-MM"
}

// AttendanceRecordItem represents a single attendance record in the list
type AttendanceRecordItem struct {
	No           int     `json:"no"`
	EmployeeName string  `json:"employee_name"`
	Date         string  `json:"date"`
	Status       string  `json:"status"`
	CheckIn      *string `json:"check_in,omitempty"` // Format: "08:05 AM"
}
