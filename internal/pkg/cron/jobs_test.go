package cron

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/repository/memory"
	payrollsvc "github.com/cmlabs-hris/hris-payroll-engine/internal/service/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ict = time.FixedZone("ICT", 7*3600)

type jobsFixture struct {
	dir        *memory.Directory
	attendance *memory.AttendanceRepository
	payroll    *memory.PayrollRepository
	clock      *clock.Fixed
	archive    *storage.LocalStorage
	attJobs    *AttendanceJobs
	payJobs    *PayrollJobs
}

func newJobsFixture(t *testing.T) jobsFixture {
	t.Helper()

	dir := memory.NewDirectory()
	dir.Add(employee.Employee{EmployeeCode: "EMP-1", FullName: "Linh Tran"}, employee.RoleStaff)
	dir.Add(employee.Employee{EmployeeCode: "EMP-2", FullName: "Hoa Nguyen"}, employee.RoleStaff)
	dir.Add(employee.Employee{EmployeeCode: "MGR-1", FullName: "Minh Pham"}, employee.RoleManager)
	dir.Add(employee.Employee{EmployeeCode: "OLD-1", FullName: "Former Staff", EmploymentStatus: employee.EmploymentStatusTerminated}, employee.RoleStaff)

	attRepo := memory.NewAttendanceRepository()
	payRepo := memory.NewPayrollRepository()
	clk := clock.NewFixed(time.Date(2024, 3, 5, 0, 5, 0, 0, ict))
	policy := attendance.DefaultPolicy()

	calc := payroll.Calculator{
		Manager:             payroll.RoleRates{FullDay: decimal.NewFromInt(800000), HalfDay: decimal.NewFromInt(400000), PositionAllowance: decimal.NewFromInt(1000000)},
		Employee:            payroll.RoleRates{FullDay: decimal.NewFromInt(500000), HalfDay: decimal.NewFromInt(250000)},
		LateMinuteRate:      decimal.NewFromInt(5000),
		MissingHourRate:     decimal.NewFromInt(50000),
		OvertimeHourRate:    decimal.NewFromInt(100000),
		PersonalDeduction:   decimal.NewFromInt(11000000),
		LateAllowancePerDay: 30,
		TaxTable:            payroll.DefaultTaxTable(),
	}
	svc := payrollsvc.NewPayrollService(memory.NewTransactor(), payRepo, attRepo, dir, clk, policy, calc)
	archive, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	return jobsFixture{
		dir:        dir,
		attendance: attRepo,
		payroll:    payRepo,
		clock:      clk,
		archive:    archive,
		attJobs:    NewAttendanceJobs(attRepo, dir, clk, policy, 2),
		payJobs:    NewPayrollJobs(svc, dir, clk, archive, 2),
	}
}

func TestDailyPlaceholder_IsIdempotent(t *testing.T) {
	f := newJobsFixture(t)
	ctx := context.Background()

	report, err := f.attJobs.DailyPlaceholder(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, 0, report.Skipped)
	assert.Empty(t, report.Failures)

	report, err = f.attJobs.DailyPlaceholder(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Processed)
	assert.Equal(t, 3, report.Skipped)

	records, err := f.attendance.ListByDate(ctx, f.clock.Today())
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, a := range records {
		assert.Equal(t, attendance.DayTypeAbsent, a.DayType)
		assert.False(t, a.CheckedIn())
	}
}

func TestPreviousDaySweep_ClosesOpenRecords(t *testing.T) {
	f := newJobsFixture(t)
	ctx := context.Background()
	yesterday := time.Date(2024, 3, 4, 0, 0, 0, 0, ict)

	clockIn := time.Date(2024, 3, 4, 8, 20, 0, 0, ict)
	clockOut := time.Date(2024, 3, 4, 17, 30, 0, 0, ict)
	workHours := decimal.NewFromFloat(9.17)

	open := attendance.NewPlaceholder("", "EMP-1", yesterday)
	open.ClockIn = &clockIn
	_, err := f.attendance.Create(ctx, open)
	require.NoError(t, err)

	_, err = f.attendance.Create(ctx, attendance.NewPlaceholder("", "EMP-2", yesterday))
	require.NoError(t, err)

	closed := attendance.NewPlaceholder("", "MGR-1", yesterday)
	closed.ClockIn = &clockIn
	closed.ClockOut = &clockOut
	closed.WorkHours = &workHours
	closed.DayType = attendance.DayTypeFullDay
	_, err = f.attendance.Create(ctx, closed)
	require.NoError(t, err)

	report, err := f.attJobs.PreviousDaySweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Processed)
	assert.Empty(t, report.Failures)

	swept, err := f.attendance.GetByEmployeeAndDate(ctx, "EMP-1", yesterday)
	require.NoError(t, err)
	assert.Equal(t, attendance.DayTypeAbsent, swept.DayType)
	assert.True(t, swept.NotEnoughHours)
	assert.True(t, swept.MissingHours.Equal(decimal.NewFromInt(8)))
	require.NotNil(t, swept.Note)
	assert.Contains(t, *swept.Note, "2024-03-04")

	untouched, err := f.attendance.GetByEmployeeAndDate(ctx, "MGR-1", yesterday)
	require.NoError(t, err)
	assert.Equal(t, attendance.DayTypeFullDay, untouched.DayType)
	assert.False(t, untouched.NotEnoughHours)

	report, err = f.attJobs.PreviousDaySweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Processed)
}

func TestMonthlyPayroll_CreatesOncePerPeriod(t *testing.T) {
	f := newJobsFixture(t)
	ctx := context.Background()

	report, err := f.payJobs.MonthlyPayroll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Processed)
	assert.Empty(t, report.Failures)

	records, err := f.payroll.ListByPeriod(ctx, 3, 2024)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	report, err = f.payJobs.MonthlyPayroll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Processed)
	assert.Equal(t, 3, report.Skipped)
}

func TestMonthlyPayroll_RecordsRoleFailures(t *testing.T) {
	f := newJobsFixture(t)
	f.dir.Add(employee.Employee{EmployeeCode: "GHOST-1", FullName: "No Registry"}, "")

	report, err := f.payJobs.MonthlyPayroll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Processed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "GHOST-1", report.Failures[0].Key)
}

func TestRegisterJobs(t *testing.T) {
	f := newJobsFixture(t)
	s := NewScheduler(ict)

	require.NoError(t, f.attJobs.RegisterJobs(s, "0 0 * * *", "5 0 * * *"))
	require.NoError(t, f.payJobs.RegisterJobs(s, "0 0 1 * *", "30 0 1 * *"))

	names := make([]string, 0)
	for _, j := range s.Jobs() {
		names = append(names, j.Name)
	}
	assert.Equal(t, []string{JobDailyPlaceholder, JobMonthlyPayroll, JobPayrollArchive, JobPreviousDaySweep}, names)
}

func TestArchivePreviousPeriod_StoresSheetsOnce(t *testing.T) {
	f := newJobsFixture(t)
	ctx := context.Background()

	f.clock.Set(time.Date(2024, 2, 20, 9, 0, 0, 0, ict))
	_, err := f.payJobs.MonthlyPayroll(ctx)
	require.NoError(t, err)

	f.clock.Set(time.Date(2024, 3, 1, 0, 30, 0, 0, ict))
	report, err := f.payJobs.ArchivePreviousPeriod(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Processed)
	assert.Empty(t, report.Failures)

	for _, key := range []string{"payroll/2024/02/payroll-2024-02.csv", "payroll/2024/02/payroll-2024-02.xlsx"} {
		exists, err := f.archive.Exists(ctx, key)
		require.NoError(t, err)
		assert.True(t, exists, key)
	}

	report, err = f.payJobs.ArchivePreviousPeriod(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Processed)
	assert.Equal(t, 2, report.Skipped)
}

func TestArchivePreviousPeriod_WithoutStorage(t *testing.T) {
	f := newJobsFixture(t)
	jobs := NewPayrollJobs(f.payJobs.payrollService, f.dir, f.clock, nil, 1)

	s := NewScheduler(ict)
	require.NoError(t, jobs.RegisterJobs(s, "0 0 1 * *", "30 0 1 * *"))
	assert.Len(t, s.Jobs(), 1)

	_, err := jobs.ArchivePreviousPeriod(context.Background())
	assert.Error(t, err)
}
