package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Payroll    PayrollConfig
	Attendance AttendanceConfig
	Schedule   ScheduleConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	Storage     string
	Timezone    string
	CORSOrigins []string
	SeedFile    string // employees CSV loaded in memory storage mode
	ArchivePath string
}

// RoleRates are the day rates paid to one personnel role.
type RoleRates struct {
	FullDay           decimal.Decimal
	HalfDay           decimal.Decimal
	PositionAllowance decimal.Decimal
}

// PayrollConfig holds the monetary settings of the payroll engine.
type PayrollConfig struct {
	Manager           RoleRates
	Employee          RoleRates
	AbsenceDayRate    decimal.Decimal
	LateMinuteRate    decimal.Decimal
	MissingHourRate   decimal.Decimal
	OvertimeHourRate  decimal.Decimal
	PersonalDeduction decimal.Decimal
}

// AttendanceConfig holds day classification thresholds.
type AttendanceConfig struct {
	WorkStart              time.Duration // offset from midnight
	StandardHours          float64
	HalfDayHours           float64
	OvertimeMinimumHours   float64
	SweepMissingHours      float64
	LateAllowancePerDayMin int
}

// ScheduleConfig holds cron specs for the batch jobs.
type ScheduleConfig struct {
	DailyPlaceholder string
	PreviousDaySweep string
	MonthlyPayroll   string
	PayrollArchive   string
	WorkerLimit      int
}

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded, using environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hris-payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Storage:     getEnv("APP_STORAGE", StoragePostgres),
		Timezone:    getEnv("APP_TIMEZONE", "Asia/Ho_Chi_Minh"),
		CORSOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		SeedFile:    getEnv("APP_SEED_EMPLOYEES", ""),
		ArchivePath: getEnv("APP_ARCHIVE_PATH", "./storage"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Payroll configuration
	var errs []string
	dec := func(key, fallback string) decimal.Decimal {
		v, err := decimal.NewFromString(getEnv(key, fallback))
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid %s: %v", key, err))
		}
		return v
	}
	num := func(key, fallback string) float64 {
		v, err := strconv.ParseFloat(getEnv(key, fallback), 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid %s: %v", key, err))
		}
		return v
	}

	config.Payroll = PayrollConfig{
		Manager: RoleRates{
			FullDay:           dec("PAYROLL_MANAGER_FULL_DAY_RATE", "800000"),
			HalfDay:           dec("PAYROLL_MANAGER_HALF_DAY_RATE", "400000"),
			PositionAllowance: dec("PAYROLL_POSITION_ALLOWANCE_MANAGER", "0"),
		},
		Employee: RoleRates{
			FullDay:           dec("PAYROLL_EMPLOYEE_FULL_DAY_RATE", "500000"),
			HalfDay:           dec("PAYROLL_EMPLOYEE_HALF_DAY_RATE", "250000"),
			PositionAllowance: dec("PAYROLL_POSITION_ALLOWANCE_EMPLOYEE", "0"),
		},
		AbsenceDayRate:    dec("PAYROLL_ABSENCE_DAY_RATE", "0"),
		LateMinuteRate:    dec("PAYROLL_LATE_MINUTE_RATE", "5000"),
		MissingHourRate:   dec("PAYROLL_MISSING_HOUR_RATE", "50000"),
		OvertimeHourRate:  dec("PAYROLL_OVERTIME_HOUR_RATE", "100000"),
		PersonalDeduction: dec("PAYROLL_PERSONAL_DEDUCTION", "11000000"),
	}

	// Attendance configuration
	workStart, err := parseClock(getEnv("ATTENDANCE_WORK_START", "08:30"))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid ATTENDANCE_WORK_START: %v", err))
	}
	lateAllowance, err := strconv.Atoi(getEnv("ATTENDANCE_LATE_ALLOWANCE_PER_DAY", "30"))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid ATTENDANCE_LATE_ALLOWANCE_PER_DAY: %v", err))
	}

	config.Attendance = AttendanceConfig{
		WorkStart:              workStart,
		StandardHours:          num("ATTENDANCE_STANDARD_HOURS", "8"),
		HalfDayHours:           num("ATTENDANCE_HALF_DAY_HOURS", "4"),
		OvertimeMinimumHours:   num("ATTENDANCE_OVERTIME_MIN_HOURS", "1"),
		SweepMissingHours:      num("ATTENDANCE_SWEEP_MISSING_HOURS", "8"),
		LateAllowancePerDayMin: lateAllowance,
	}

	// Schedule configuration
	workerLimit, err := strconv.Atoi(getEnv("CRON_WORKER_LIMIT", "4"))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid CRON_WORKER_LIMIT: %v", err))
	}

	config.Schedule = ScheduleConfig{
		DailyPlaceholder: getEnv("CRON_DAILY_PLACEHOLDER", "0 5 * * 1-5"),
		PreviousDaySweep: getEnv("CRON_PREVIOUS_DAY_SWEEP", "30 5 * * 2-6"),
		MonthlyPayroll:   getEnv("CRON_MONTHLY_PAYROLL", "0 0 1 * *"),
		PayrollArchive:   getEnv("CRON_PAYROLL_ARCHIVE", "30 0 1 * *"),
		WorkerLimit:      workerLimit,
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration parsing failed: %s", strings.Join(errs, "; "))
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.App.Storage {
	case StoragePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("APP_STORAGE must be %q or %q", StoragePostgres, StorageMemory)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if err := c.Payroll.Validate(); err != nil {
		return err
	}
	if err := c.Attendance.Validate(); err != nil {
		return err
	}
	return c.Schedule.Validate()
}

// Validate rejects negative rates.
func (p PayrollConfig) Validate() error {
	rates := map[string]decimal.Decimal{
		"PAYROLL_MANAGER_FULL_DAY_RATE":       p.Manager.FullDay,
		"PAYROLL_MANAGER_HALF_DAY_RATE":       p.Manager.HalfDay,
		"PAYROLL_POSITION_ALLOWANCE_MANAGER":  p.Manager.PositionAllowance,
		"PAYROLL_EMPLOYEE_FULL_DAY_RATE":      p.Employee.FullDay,
		"PAYROLL_EMPLOYEE_HALF_DAY_RATE":      p.Employee.HalfDay,
		"PAYROLL_POSITION_ALLOWANCE_EMPLOYEE": p.Employee.PositionAllowance,
		"PAYROLL_ABSENCE_DAY_RATE":            p.AbsenceDayRate,
		"PAYROLL_LATE_MINUTE_RATE":            p.LateMinuteRate,
		"PAYROLL_MISSING_HOUR_RATE":           p.MissingHourRate,
		"PAYROLL_OVERTIME_HOUR_RATE":          p.OvertimeHourRate,
		"PAYROLL_PERSONAL_DEDUCTION":          p.PersonalDeduction,
	}
	for key, rate := range rates {
		if rate.IsNegative() {
			return fmt.Errorf("%s must be non-negative", key)
		}
	}
	return nil
}

func (a AttendanceConfig) Validate() error {
	if a.HalfDayHours <= 0 || a.StandardHours <= a.HalfDayHours {
		return fmt.Errorf("ATTENDANCE_STANDARD_HOURS must exceed ATTENDANCE_HALF_DAY_HOURS > 0")
	}
	if a.OvertimeMinimumHours < 0 || a.SweepMissingHours < 0 || a.LateAllowancePerDayMin < 0 {
		return fmt.Errorf("attendance thresholds must be non-negative")
	}
	return nil
}

func (s ScheduleConfig) Validate() error {
	specs := map[string]string{
		"CRON_DAILY_PLACEHOLDER":  s.DailyPlaceholder,
		"CRON_PREVIOUS_DAY_SWEEP": s.PreviousDaySweep,
		"CRON_MONTHLY_PAYROLL":    s.MonthlyPayroll,
		"CRON_PAYROLL_ARCHIVE":    s.PayrollArchive,
	}
	for key, spec := range specs {
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}
	if s.WorkerLimit < 1 {
		return fmt.Errorf("CRON_WORKER_LIMIT must be at least 1")
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

// SlogLevel maps LOG_LEVEL to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
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
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// parseClock parses "HH:MM" into an offset from midnight.
func parseClock(value string) (time.Duration, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
