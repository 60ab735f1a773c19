package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/analytics"
)

// optionalQuery returns nil for an absent or empty parameter.
func optionalQuery(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

// intQuery falls back to def when the parameter is missing or not a number.
func intQuery(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func analyticsFilter(r *http.Request) analytics.AnalyticsFilter {
	return analytics.AnalyticsFilter{
		Period:     r.URL.Query().Get("period"),
		StartDate:  optionalQuery(r, "start_date"),
		EndDate:    optionalQuery(r, "end_date"),
		Department: optionalQuery(r, "department"),
		EmployeeID: optionalQuery(r, "employee_id"),
	}
}
