package http

import (
	"net/http"

	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/analytics"
	"github.com/cmlabs-hris/staff-attendance-go/internal/handler/http/response"
)

type AnalyticsHandler interface {
	GetSummary(w http.ResponseWriter, r *http.Request)
	GetDepartments(w http.ResponseWriter, r *http.Request)
	GetEmployees(w http.ResponseWriter, r *http.Request)
	GetWeekly(w http.ResponseWriter, r *http.Request)
	GetPerformance(w http.ResponseWriter, r *http.Request)
}

type analyticsHandlerImpl struct {
	analyticsService analytics.AnalyticsService
}

func NewAnalyticsHandler(analyticsService analytics.AnalyticsService) AnalyticsHandler {
	return &analyticsHandlerImpl{
		analyticsService: analyticsService,
	}
}

// GetSummary handles GET /analytics/summary
func (h *analyticsHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.Summary(r.Context(), analyticsFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetDepartments handles GET /analytics/departments
func (h *analyticsHandlerImpl) GetDepartments(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.DepartmentBreakdown(r.Context(), analyticsFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetEmployees handles GET /analytics/employees
func (h *analyticsHandlerImpl) GetEmployees(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.EmployeeBreakdown(r.Context(), analyticsFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetWeekly handles GET /analytics/weekly
func (h *analyticsHandlerImpl) GetWeekly(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.Weekly(r.Context(), analyticsFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetPerformance handles GET /analytics/performance
func (h *analyticsHandlerImpl) GetPerformance(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.Performance(r.Context(), analyticsFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
