package cron

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/clock"
)

const (
	JobDailyPlaceholder = "daily_attendance_placeholder"
	JobPreviousDaySweep = "previous_day_attendance_sweep"
)

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	directory      employee.Directory
	clock          clock.Clock
	policy         attendance.Policy
	workerLimit    int
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	directory employee.Directory,
	clk clock.Clock,
	policy attendance.Policy,
	workerLimit int,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		directory:      directory,
		clock:          clk,
		policy:         policy,
		workerLimit:    workerLimit,
	}
}

func (j *AttendanceJobs) RegisterJobs(timer Timer, placeholderSpec, sweepSpec string) error {
	if err := timer.OnSchedule(JobDailyPlaceholder, placeholderSpec, j.DailyPlaceholder); err != nil {
		return err
	}
	return timer.OnSchedule(JobPreviousDaySweep, sweepSpec, j.PreviousDaySweep)
}

// DailyPlaceholder creates today's ABSENT record for every active employee
// that has none yet.
func (j *AttendanceJobs) DailyPlaceholder(ctx context.Context) (JobReport, error) {
	today := j.clock.Today()
	slog.Info("Cron: Starting daily attendance placeholder job", "date", today.Format("2006-01-02"))

	employees, err := j.directory.ListActive(ctx)
	if err != nil {
		return JobReport{}, fmt.Errorf("failed to list active employees: %w", err)
	}

	report := fanOut(ctx, j.workerLimit, employees,
		func(emp employee.Employee) string { return emp.EmployeeCode },
		func(ctx context.Context, emp employee.Employee) (outcome, error) {
			created, err := j.attendanceRepo.CreateIfAbsent(ctx, attendance.NewPlaceholder("", emp.EmployeeCode, today))
			if err != nil {
				return outcomeProcessed, fmt.Errorf("failed to create placeholder: %w", err)
			}
			if !created {
				return outcomeSkipped, nil
			}
			return outcomeProcessed, nil
		})
	return report, nil
}

// PreviousDaySweep closes yesterday's records that never got a check-out.
func (j *AttendanceJobs) PreviousDaySweep(ctx context.Context) (JobReport, error) {
	yesterday := j.clock.Today().AddDate(0, 0, -1)
	day := yesterday.Format("2006-01-02")
	slog.Info("Cron: Starting previous day attendance sweep", "date", day)

	open, err := j.attendanceRepo.ListOpenByDate(ctx, yesterday)
	if err != nil {
		return JobReport{}, fmt.Errorf("failed to list open attendances: %w", err)
	}

	note := fmt.Sprintf("Auto-closed: no check-out recorded for %s", day)
	report := fanOut(ctx, j.workerLimit, open,
		func(a attendance.Attendance) string { return a.EmployeeCode },
		func(ctx context.Context, a attendance.Attendance) (outcome, error) {
			if a.CheckedOut() || a.NotEnoughHours {
				return outcomeSkipped, nil
			}
			changed, err := j.attendanceRepo.CloseAsAbsent(ctx, a.ID, j.policy.SweepMissingHours, note)
			if err != nil {
				return outcomeProcessed, fmt.Errorf("failed to close attendance %s: %w", a.ID, err)
			}
			if !changed {
				return outcomeSkipped, nil
			}
			return outcomeProcessed, nil
		})
	return report, nil
}
