package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.App.Storage)
	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.App.Timezone)
	assert.True(t, cfg.Payroll.Employee.FullDay.Equal(decimal.NewFromInt(500000)))
	assert.True(t, cfg.Payroll.PersonalDeduction.Equal(decimal.NewFromInt(11000000)))
	assert.Equal(t, 8*time.Hour+30*time.Minute, cfg.Attendance.WorkStart)
	assert.Equal(t, 30, cfg.Attendance.LateAllowancePerDayMin)
	assert.Equal(t, "0 0 1 * *", cfg.Schedule.MonthlyPayroll)
	assert.Equal(t, "30 0 1 * *", cfg.Schedule.PayrollArchive)
	assert.Equal(t, "./storage", cfg.App.ArchivePath)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.CORSOrigins)
}

func TestLoad_MemoryStorageWithoutDBPassword(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")
	t.Setenv("APP_STORAGE", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.App.Storage)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"PAYROLL_LATE_MINUTE_RATE": "abc",
		"CRON_MONTHLY_PAYROLL":     "every month",
		"ATTENDANCE_WORK_START":    "8h30",
		"APP_TIMEZONE":             "Mars/Olympus",
		"APP_STORAGE":              "redis",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(key, value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestPayrollConfig_Validate_Negative(t *testing.T) {
	cfg := PayrollConfig{LateMinuteRate: decimal.NewFromInt(-1)}
	assert.EqualError(t, cfg.Validate(), "PAYROLL_LATE_MINUTE_RATE must be non-negative")
}
