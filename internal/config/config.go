package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/analytics"
	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/attendance"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Analytics  AnalyticsConfig
	Cron       CronConfig
	RateLimit  RateLimitConfig
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Name           string
	Version        string
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	AllowedOrigins []string
}

// AttendanceConfig describes the school week and the expected shift.
type AttendanceConfig struct {
	WeekendDays  []time.Weekday
	ShiftStart   string
	ShiftEnd     string
	GraceMinutes int
}

type AnalyticsConfig struct {
	Thresholds analytics.Thresholds
}

type CronConfig struct {
	Enabled bool
	RunHour int
}

type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

func Load() (*Config, error) {
	// A missing .env is fine, the environment may already be populated
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	var err error

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}
	connLifetime, err := time.ParseDuration(getEnv("DB_MAX_CONN_LIFETIME", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONN_LIFETIME: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            dbPort,
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		Name:            getEnv("DB_NAME", "staff_attendance"),
		SSLMode:         getEnv("DB_SSL_MODE", "disable"),
		MaxConns:        int32(maxConns),
		MinConns:        int32(minConns),
		MaxConnLifetime: connLifetime,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Name:           getEnv("APP_NAME", "staff-attendance"),
		Version:        getEnv("APP_VERSION", "v1.0.0"),
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "UTC"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// JWT configuration
	accessExpiration, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: accessExpiration,
	}

	// Attendance configuration
	weekendDays, err := parseWeekdays(getEnvSlice("ATTENDANCE_WEEKEND_DAYS", "friday,saturday"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_WEEKEND_DAYS: %w", err)
	}
	grace, err := strconv.Atoi(getEnv("ATTENDANCE_GRACE_MINUTES", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_GRACE_MINUTES: %w", err)
	}

	config.Attendance = AttendanceConfig{
		WeekendDays:  weekendDays,
		ShiftStart:   getEnv("ATTENDANCE_SHIFT_START", attendance.DefaultShiftStart),
		ShiftEnd:     getEnv("ATTENDANCE_SHIFT_END", attendance.DefaultShiftEnd),
		GraceMinutes: grace,
	}

	// Analytics thresholds
	th := analytics.DefaultThresholds()
	for _, f := range []struct {
		key string
		dst *decimal.Decimal
	}{
		{"ANALYTICS_EXCELLENT_RATE", &th.Excellent},
		{"ANALYTICS_GOOD_RATE", &th.Good},
		{"ANALYTICS_AVERAGE_RATE", &th.Average},
		{"ANALYTICS_AT_RISK_RATE", &th.AtRiskRate},
		{"ANALYTICS_LATE_SHARE", &th.LateShare},
		{"ANALYTICS_ABSENT_SHARE", &th.AbsentShare},
	} {
		v := os.Getenv(f.key)
		if v == "" {
			continue
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", f.key, err)
		}
		*f.dst = d
	}
	config.Analytics = AnalyticsConfig{Thresholds: th}

	// Cron configuration
	cronEnabled, err := strconv.ParseBool(getEnv("CRON_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_ENABLED: %w", err)
	}
	runHour, err := strconv.Atoi(getEnv("CRON_RUN_HOUR", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_RUN_HOUR: %w", err)
	}
	config.Cron = CronConfig{Enabled: cronEnabled, RunHour: runHour}

	// Rate limit configuration
	perMinute, err := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
	}
	burst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}
	config.RateLimit = RateLimitConfig{PerMinute: perMinute, Burst: burst}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if _, err := c.ShiftPolicy(); err != nil {
		return fmt.Errorf("invalid attendance shift: %w", err)
	}
	if c.Cron.RunHour < 0 || c.Cron.RunHour > 23 {
		return fmt.Errorf("CRON_RUN_HOUR must be between 0 and 23")
	}
	th := c.Analytics.Thresholds
	if !(th.Excellent.GreaterThan(th.Good) && th.Good.GreaterThan(th.Average)) {
		return fmt.Errorf("analytics tier thresholds must be strictly descending")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location is the school timezone used for check-in clocks and period bounds.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.App.Timezone)
}

func (c *Config) ShiftPolicy() (attendance.ShiftPolicy, error) {
	return attendance.NewShiftPolicy(c.Attendance.ShiftStart, c.Attendance.ShiftEnd, c.Attendance.GraceMinutes)
}

func parseWeekdays(names []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		found := false
		for d := time.Sunday; d <= time.Saturday; d++ {
			if strings.EqualFold(name, d.String()) {
				days = append(days, d)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
	}
	return days, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key, fallback string) []string {
	value := getEnv(key, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
