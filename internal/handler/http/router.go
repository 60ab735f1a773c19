package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/staff-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/staff-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/staff-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the deployment settings the router needs.
type RouterOptions struct {
	AppName            string
	Version            string
	Env                string
	AllowedOrigins     []string
	RateLimitPerMinute int
	RateLimitBurst     int
}

type Handlers struct {
	Attendance AttendanceHandler
	Analytics  AnalyticsHandler
	Dashboard  DashboardHandler
	Report     ReportHandler
	Leave      LeaveHandler
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", opts.AppName),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Get("/my", h.Attendance.GetMyAttendance)

				// Manager only
				r.With(middleware.RequireManager).Get("/", h.Attendance.List)
			})

			r.Route("/leave-requests", func(r chi.Router) {
				r.Post("/", h.Leave.CreateRequest)
				r.Get("/my", h.Leave.GetMyRequests)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", h.Leave.ListRequests)
					r.Delete("/delayed", h.Leave.PurgeDelayed)
					r.Get("/{id}", h.Leave.GetRequest)
					r.Post("/{id}/approve", h.Leave.ApproveRequest)
					r.Post("/{id}/reject", h.Leave.RejectRequest)
				})
			})

			// Manager only, rate limited
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireManager)
				r.Use(middleware.RateLimit(opts.RateLimitPerMinute, opts.RateLimitBurst))

				r.Route("/analytics", func(r chi.Router) {
					r.Get("/summary", h.Analytics.GetSummary)
					r.Get("/departments", h.Analytics.GetDepartments)
					r.Get("/employees", h.Analytics.GetEmployees)
					r.Get("/weekly", h.Analytics.GetWeekly)
					r.Get("/performance", h.Analytics.GetPerformance)
				})

				r.Route("/dashboard", func(r chi.Router) {
					r.Get("/", h.Dashboard.GetDashboard)
					r.Get("/monthly-attendance", h.Dashboard.GetMonthlyAttendance)
					r.Get("/daily-attendance-stats", h.Dashboard.GetDailyAttendanceStats)
				})

				r.Route("/reports", func(r chi.Router) {
					r.Get("/monthly-attendance", h.Report.GetMonthlyAttendanceReport)
					r.Get("/monthly-attendance/export", h.Report.ExportMonthlyAttendanceReport)
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	return r
}
