package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ict = time.FixedZone("ICT", 7*3600)

type fixture struct {
	svc   attendance.AttendanceService
	repo  *memory.AttendanceRepository
	clock *clock.Fixed
}

func setup(t *testing.T) fixture {
	t.Helper()

	dir := memory.NewDirectory()
	dir.Add(employee.Employee{EmployeeCode: "EMP-1", FullName: "Linh Tran"}, employee.RoleStaff)
	dir.Add(employee.Employee{EmployeeCode: "MGR-1", FullName: "Minh Pham"}, employee.RoleManager)
	dir.Add(employee.Employee{EmployeeCode: "OLD-1", FullName: "Former Staff", EmploymentStatus: employee.EmploymentStatusResigned}, employee.RoleStaff)

	repo := memory.NewAttendanceRepository()
	clk := clock.NewFixed(time.Date(2024, 3, 4, 8, 45, 0, 0, ict))

	return fixture{
		svc:   NewAttendanceService(repo, dir, clk, attendance.DefaultPolicy()),
		repo:  repo,
		clock: clk,
	}
}

func TestCheckIn_CreatesRecordLazily(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	resp, err := f.svc.CheckIn(ctx, "EMP-1")
	require.NoError(t, err)

	assert.Equal(t, "2024-03-04", resp.Date)
	assert.Equal(t, attendance.DayTypeAbsent, resp.DayType)
	assert.Equal(t, 15, resp.LateMinutes)
	require.NotNil(t, resp.ClockIn)
	assert.Nil(t, resp.ClockOut)
}

func TestCheckIn_Twice(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, "EMP-1")
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	_, err = f.svc.CheckIn(ctx, "EMP-1")
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, "ATTENDANCE_ALREADY_CHECKIN", apperror.CodeOf(err))

	record, err := f.repo.GetByEmployeeAndDate(ctx, "EMP-1", clock.DateOf(f.clock.Now()))
	require.NoError(t, err)
	assert.Equal(t, 8, record.ClockIn.Hour())
	assert.Equal(t, 45, record.ClockIn.Minute())
}

func TestCheckIn_UsesPlaceholder(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	today := clock.DateOf(f.clock.Now())

	placeholder, err := f.repo.Create(ctx, attendance.NewPlaceholder("", "EMP-1", today))
	require.NoError(t, err)

	resp, err := f.svc.CheckIn(ctx, "EMP-1")
	require.NoError(t, err)
	assert.Equal(t, placeholder.ID, resp.ID)
}

func TestCheckIn_UnknownEmployee(t *testing.T) {
	f := setup(t)

	_, err := f.svc.CheckIn(context.Background(), "NOBODY")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = f.svc.CheckIn(context.Background(), " ")
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestCheckInOut_InactiveEmployee(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, "OLD-1")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = f.svc.CheckOut(ctx, "OLD-1")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = f.repo.GetByEmployeeAndDate(ctx, "OLD-1", f.clock.Today())
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestCheckOut_WithoutCheckIn(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.CheckOut(ctx, "EMP-1")
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
	assert.ErrorIs(t, err, apperror.ErrPreconditionFailed)
	assert.Equal(t, "ATTENDANCE_NOT_CHECKIN", apperror.CodeOf(err))

	// a placeholder alone is not a check-in
	_, err = f.repo.Create(ctx, attendance.NewPlaceholder("", "EMP-1", clock.DateOf(f.clock.Now())))
	require.NoError(t, err)
	_, err = f.svc.CheckOut(ctx, "EMP-1")
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestCheckOut_ClassifiesDay(t *testing.T) {
	tests := []struct {
		name        string
		worked      time.Duration
		wantType    attendance.DayType
		wantHours   string
		wantMissing string
	}{
		{"overtime", 9*time.Hour + 30*time.Minute, attendance.DayTypeOvertime, "9.5", "0"},
		{"full day", 8 * time.Hour, attendance.DayTypeFullDay, "8", "0"},
		{"half day", 4*time.Hour + 15*time.Minute, attendance.DayTypeHalfDay, "4.25", "0"},
		{"not enough hours", 3 * time.Hour, attendance.DayTypeNotEnoughHours, "3", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			ctx := context.Background()

			_, err := f.svc.CheckIn(ctx, "EMP-1")
			require.NoError(t, err)
			f.clock.Advance(tt.worked)

			resp, err := f.svc.CheckOut(ctx, "EMP-1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, resp.DayType)
			require.NotNil(t, resp.WorkHours)
			assert.True(t, resp.WorkHours.Equal(decimal.RequireFromString(tt.wantHours)), "hours = %s", resp.WorkHours)
			assert.True(t, resp.MissingHours.Equal(decimal.RequireFromString(tt.wantMissing)), "missing = %s", resp.MissingHours)
			assert.False(t, resp.ClockOut.Before(*resp.ClockIn))
		})
	}
}

func TestCheckOut_Twice(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, "EMP-1")
	require.NoError(t, err)
	f.clock.Advance(8 * time.Hour)
	first, err := f.svc.CheckOut(ctx, "EMP-1")
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	_, err = f.svc.CheckOut(ctx, "EMP-1")
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)

	again, err := f.svc.GetAttendance(ctx, "EMP-1", f.clock.Now())
	require.NoError(t, err)
	assert.Equal(t, first.ClockOut, again.ClockOut)
	assert.Equal(t, attendance.DayTypeFullDay, again.DayType)
}

func TestGetAttendance_NotFound(t *testing.T) {
	f := setup(t)

	_, err := f.svc.GetAttendance(context.Background(), "EMP-1", f.clock.Now())
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGetAttendanceRange(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := f.repo.Create(ctx, attendance.NewPlaceholder("", "EMP-1", time.Date(2024, 3, 4+i, 0, 0, 0, 0, ict)))
		require.NoError(t, err)
	}

	resp, err := f.svc.GetAttendanceRange(ctx, attendance.RangeFilter{EmployeeCode: "EMP-1", From: "2024-03-05", To: "2024-03-07"})
	require.NoError(t, err)
	require.Len(t, resp.Attendances, 3)
	assert.Equal(t, "2024-03-05", resp.Attendances[0].Date)
	assert.Equal(t, "2024-03-07", resp.Attendances[2].Date)

	_, err = f.svc.GetAttendanceRange(ctx, attendance.RangeFilter{EmployeeCode: "EMP-1", From: "2024-03-07", To: "2024-03-05"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "to")
}

func TestGetSummary(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// Monday: full day
	_, err := f.svc.CheckIn(ctx, "EMP-1")
	require.NoError(t, err)
	f.clock.Advance(8 * time.Hour)
	_, err = f.svc.CheckOut(ctx, "EMP-1")
	require.NoError(t, err)

	// Tuesday: overtime, on time
	f.clock.Set(time.Date(2024, 3, 5, 8, 0, 0, 0, ict))
	_, err = f.svc.CheckIn(ctx, "EMP-1")
	require.NoError(t, err)
	f.clock.Advance(10 * time.Hour)
	_, err = f.svc.CheckOut(ctx, "EMP-1")
	require.NoError(t, err)

	// Wednesday: absent placeholder
	_, err = f.repo.Create(ctx, attendance.NewPlaceholder("", "EMP-1", time.Date(2024, 3, 6, 0, 0, 0, 0, ict)))
	require.NoError(t, err)

	s, err := f.svc.GetSummary(ctx, "EMP-1", 3, 2024)
	require.NoError(t, err)
	assert.Equal(t, 21, s.WorkingDays)
	assert.Equal(t, 3, s.RecordCount)
	assert.Equal(t, 1, s.FullDayWork)
	assert.Equal(t, 1, s.OvertimeDays)
	assert.Equal(t, 1, s.AbsenceDays)
	assert.Equal(t, 1, s.LateDays)
	assert.Equal(t, 15, s.TotalLateMinutes)
	assert.True(t, s.TotalWorkHours.Equal(decimal.NewFromInt(18)))
	assert.True(t, s.OvertimeHours.Equal(decimal.NewFromInt(2)))

	_, err = f.svc.GetSummary(ctx, "EMP-1", 13, 2024)
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = f.svc.GetSummary(ctx, "NOBODY", 3, 2024)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
