package cron

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/storage"
)

const (
	JobMonthlyPayroll = "monthly_payroll"
	JobPayrollArchive = "payroll_archive"
)

type PayrollJobs struct {
	payrollService payroll.PayrollService
	directory      employee.Directory
	clock          clock.Clock
	archive        storage.FileStorage
	workerLimit    int
}

// NewPayrollJobs builds the payroll jobs. archive may be nil, which leaves
// the archive job unregistered.
func NewPayrollJobs(
	payrollService payroll.PayrollService,
	directory employee.Directory,
	clk clock.Clock,
	archive storage.FileStorage,
	workerLimit int,
) *PayrollJobs {
	return &PayrollJobs{
		payrollService: payrollService,
		directory:      directory,
		clock:          clk,
		archive:        archive,
		workerLimit:    workerLimit,
	}
}

func (j *PayrollJobs) RegisterJobs(timer Timer, payrollSpec, archiveSpec string) error {
	if err := timer.OnSchedule(JobMonthlyPayroll, payrollSpec, j.MonthlyPayroll); err != nil {
		return err
	}
	if j.archive == nil {
		return nil
	}
	return timer.OnSchedule(JobPayrollArchive, archiveSpec, j.ArchivePreviousPeriod)
}

// MonthlyPayroll creates the current period's record for every active employee.
// Existing records are left untouched.
func (j *PayrollJobs) MonthlyPayroll(ctx context.Context) (JobReport, error) {
	now := j.clock.Now()
	month, year := int(now.Month()), now.Year()
	slog.Info("Cron: Starting monthly payroll job", "month", month, "year", year)

	employees, err := j.directory.ListActive(ctx)
	if err != nil {
		return JobReport{}, fmt.Errorf("failed to list active employees: %w", err)
	}

	report := fanOut(ctx, j.workerLimit, employees,
		func(emp employee.Employee) string { return emp.EmployeeCode },
		func(ctx context.Context, emp employee.Employee) (outcome, error) {
			_, err := j.payrollService.CreatePayroll(ctx, payroll.CreatePayrollRequest{
				EmployeeCode: emp.EmployeeCode,
				Month:        month,
				Year:         year,
			})
			if errors.Is(err, payroll.ErrPayrollRecordAlreadyExists) {
				return outcomeSkipped, nil
			}
			if err != nil {
				return outcomeProcessed, err
			}
			return outcomeProcessed, nil
		})
	return report, nil
}

// ArchivePreviousPeriod stores the csv and xlsx sheets of the month that just
// ended. Sheets already archived are skipped.
func (j *PayrollJobs) ArchivePreviousPeriod(ctx context.Context) (JobReport, error) {
	if j.archive == nil {
		return JobReport{}, errors.New("payroll archive storage is not configured")
	}

	today := j.clock.Today()
	previous := today.AddDate(0, 0, -today.Day())
	month, year := int(previous.Month()), previous.Year()
	slog.Info("Cron: Starting payroll archive job", "month", month, "year", year)

	formats := []string{payroll.ExportFormatCSV, payroll.ExportFormatXLSX}
	report := fanOut(ctx, j.workerLimit, formats,
		func(format string) string { return format },
		func(ctx context.Context, format string) (outcome, error) {
			file, err := j.payrollService.ExportPayroll(ctx, payroll.ExportPayrollRequest{Month: month, Year: year, Format: format})
			if err != nil {
				return outcomeProcessed, err
			}

			key := fmt.Sprintf("payroll/%04d/%02d/%s", year, month, file.Filename)
			exists, err := j.archive.Exists(ctx, key)
			if err != nil {
				return outcomeProcessed, err
			}
			if exists {
				return outcomeSkipped, nil
			}

			if _, err := j.archive.Upload(ctx, bytes.NewReader(file.Content), key, file.ContentType); err != nil {
				return outcomeProcessed, err
			}
			return outcomeProcessed, nil
		})
	return report, nil
}
