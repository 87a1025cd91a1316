package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	directory      employee.Directory
	clock          clock.Clock
	policy         attendance.Policy
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	directory employee.Directory,
	clk clock.Clock,
	policy attendance.Policy,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		directory:      directory,
		clock:          clk,
		policy:         policy,
	}
}

func requireEmployeeCode(code string) error {
	if validator.IsEmpty(code) {
		return validator.ValidationErrors{{Field: "employee_code", Message: "employee_code is required"}}
	}
	return nil
}

// todayRecord returns today's record, creating the ABSENT placeholder when the
// daily job has not run for this employee yet.
func (s *AttendanceServiceImpl) todayRecord(ctx context.Context, employeeCode string, today time.Time) (attendance.Attendance, error) {
	record, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeCode, today)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.Attendance{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	if _, err := s.attendanceRepo.CreateIfAbsent(ctx, attendance.NewPlaceholder("", employeeCode, today)); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance placeholder: %w", err)
	}

	record, err = s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeCode, today)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	return record, nil
}

// requireActive rejects codes that are unknown or no longer employed.
func (s *AttendanceServiceImpl) requireActive(ctx context.Context, employeeCode string) error {
	emp, err := s.directory.GetByCode(ctx, employeeCode)
	if err != nil {
		return err
	}
	if !emp.IsActive() {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, employeeCode string) (attendance.AttendanceResponse, error) {
	if err := requireEmployeeCode(employeeCode); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := s.requireActive(ctx, employeeCode); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.clock.Now()
	today := clock.DateOf(now)

	record, err := s.todayRecord(ctx, employeeCode, today)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if record.CheckedIn() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	lateMinutes := s.policy.LateMinutes(today, now)
	updated, err := s.attendanceRepo.MarkCheckIn(ctx, record.ID, now, lateMinutes)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Attendance: checked in", "employee_code", employeeCode, "date", today.Format("2006-01-02"), "late_minutes", lateMinutes)
	return attendance.ToResponse(updated), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, employeeCode string) (attendance.AttendanceResponse, error) {
	if err := requireEmployeeCode(employeeCode); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := s.requireActive(ctx, employeeCode); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.clock.Now()
	today := clock.DateOf(now)

	record, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeCode, today)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if !record.CheckedIn() {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if record.CheckedOut() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	clockOut := now
	if clockOut.Before(*record.ClockIn) {
		clockOut = *record.ClockIn
	}

	update := s.policy.CheckOutFor(record, clockOut)
	updated, err := s.attendanceRepo.MarkCheckOut(ctx, record.ID, update)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Attendance: checked out",
		"employee_code", employeeCode,
		"date", today.Format("2006-01-02"),
		"day_type", update.DayType,
		"work_hours", update.WorkHours.String())
	return attendance.ToResponse(updated), nil
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, employeeCode string, date time.Time) (attendance.AttendanceResponse, error) {
	if err := requireEmployeeCode(employeeCode); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeCode, clock.DateOf(date.In(s.clock.Location())))
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.ToResponse(record), nil
}

// GetAttendanceRange implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendanceRange(ctx context.Context, filter attendance.RangeFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(s.clock.Location()); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, err := s.attendanceRepo.ListByEmployeeRange(ctx, filter.EmployeeCode, filter.FromDate, filter.ToDate)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.ToResponse(r))
	}

	return attendance.ListAttendanceResponse{
		EmployeeCode: filter.EmployeeCode,
		From:         filter.FromDate.Format("2006-01-02"),
		To:           filter.ToDate.Format("2006-01-02"),
		Attendances:  responses,
	}, nil
}

// GetSummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetSummary(ctx context.Context, employeeCode string, month, year int) (attendance.SummaryResponse, error) {
	if err := requireEmployeeCode(employeeCode); err != nil {
		return attendance.SummaryResponse{}, err
	}
	if !validator.IsValidPeriod(month, year) {
		return attendance.SummaryResponse{}, validator.ValidationErrors{{Field: "period", Message: "month must be 1-12 and year 2000-9999"}}
	}
	if _, err := s.directory.GetByCode(ctx, employeeCode); err != nil {
		return attendance.SummaryResponse{}, err
	}

	loc := s.clock.Location()
	first, last := calendar.MonthRange(month, year, loc)
	records, err := s.attendanceRepo.ListByEmployeeRange(ctx, employeeCode, first, last)
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	summary := s.policy.Summarize(records)
	return attendance.ToSummaryResponse(employeeCode, month, year, calendar.WorkingDays(month, year, loc), summary), nil
}
