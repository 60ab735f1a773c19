package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/staff-attendance-go/internal/config"
	appHTTP "github.com/cmlabs-hris/staff-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/staff-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/staff-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/staff-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/staff-attendance-go/internal/repository/postgresql"
	analyticsService "github.com/cmlabs-hris/staff-attendance-go/internal/service/analytics"
	attendanceService "github.com/cmlabs-hris/staff-attendance-go/internal/service/attendance"
	dashboardService "github.com/cmlabs-hris/staff-attendance-go/internal/service/dashboard"
	leaveService "github.com/cmlabs-hris/staff-attendance-go/internal/service/leave"
	reportService "github.com/cmlabs-hris/staff-attendance-go/internal/service/report"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	shift, err := cfg.ShiftPolicy()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	// 1. Repositories
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	transactor := postgresql.NewTransactor(db)

	// 2. Services
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	loader := attendanceService.NewLoader(attendanceRepo, holidayRepo, leaveRequestRepo, attendanceService.Policy{
		WeekendDays: cfg.Attendance.WeekendDays,
		Shift:       shift,
	})
	analyticsSvc := analyticsService.NewAnalyticsService(loader, employeeRepo, cfg.Analytics.Thresholds, loc)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, loader, analyticsSvc, loc)
	leaveSvc := leaveService.NewLeaveService(transactor, leaveRequestRepo, employeeRepo, loc)
	dashboardSvc := dashboardService.NewDashboardService(analyticsSvc, leaveRequestRepo)
	reportSvc := reportService.NewReportService(analyticsSvc)

	// 3. Background jobs
	if cfg.Cron.Enabled {
		scheduler := cron.NewScheduler()
		cron.NewDailyJobs(attendanceSvc, leaveSvc, loc, cfg.Cron.RunHour).RegisterJobs(scheduler)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	// 4. HTTP
	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Analytics:  appHTTP.NewAnalyticsHandler(analyticsSvc),
		Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc),
		Report:     appHTTP.NewReportHandler(reportSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
	}, appHTTP.RouterOptions{
		AppName:            cfg.App.Name,
		Version:            cfg.App.Version,
		Env:                cfg.App.Env,
		AllowedOrigins:     cfg.App.AllowedOrigins,
		RateLimitPerMinute: cfg.RateLimit.PerMinute,
		RateLimitBurst:     cfg.RateLimit.Burst,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server started", "addr", server.Addr, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server exited properly")
	return nil
}
