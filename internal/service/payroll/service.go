package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	transactor     database.Transactor
	payrollRepo    payroll.PayrollRepository
	attendanceRepo attendance.AttendanceRepository
	directory      employee.Directory
	clock          clock.Clock
	policy         attendance.Policy
	calculator     payroll.Calculator
}

func NewPayrollService(
	transactor database.Transactor,
	payrollRepo payroll.PayrollRepository,
	attendanceRepo attendance.AttendanceRepository,
	directory employee.Directory,
	clk clock.Clock,
	policy attendance.Policy,
	calculator payroll.Calculator,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		transactor:     transactor,
		payrollRepo:    payrollRepo,
		attendanceRepo: attendanceRepo,
		directory:      directory,
		clock:          clk,
		policy:         policy,
		calculator:     calculator,
	}
}

// calculate re-derives every computed field of record from the attendance ledger.
func (s *PayrollServiceImpl) calculate(ctx context.Context, record *payroll.PayrollRecord) error {
	emp, role, err := employee.ResolveRole(ctx, s.directory, record.EmployeeCode)
	if err != nil {
		return err
	}

	loc := s.clock.Location()
	first, last := calendar.MonthRange(record.PeriodMonth, record.PeriodYear, loc)
	records, err := s.attendanceRepo.ListByEmployeeRange(ctx, record.EmployeeCode, first, last)
	if err != nil {
		return fmt.Errorf("failed to list attendance: %w", err)
	}

	summary := s.policy.Summarize(records)
	workingDays := calendar.WorkingDays(record.PeriodMonth, record.PeriodYear, loc)

	record.Role = string(role)
	s.calculator.Apply(record, summary, workingDays, s.calculator.RatesFor(role == employee.RoleManager), emp.InsuranceBaseOrZero())
	return nil
}

func (s *PayrollServiceImpl) newRecord(ctx context.Context, employeeCode string, month, year int) (payroll.PayrollRecord, error) {
	record := payroll.PayrollRecord{
		EmployeeCode: employeeCode,
		PeriodMonth:  month,
		PeriodYear:   year,
		Bonus:        decimal.Zero,
	}
	if err := s.calculate(ctx, &record); err != nil {
		return payroll.PayrollRecord{}, err
	}

	created, err := s.payrollRepo.Create(ctx, record)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	return created, nil
}

func (s *PayrollServiceImpl) refresh(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	if err := s.calculate(ctx, &record); err != nil {
		return payroll.PayrollRecord{}, err
	}

	updated, err := s.payrollRepo.Update(ctx, record)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to update payroll record: %w", err)
	}
	return updated, nil
}

// refreshPeriod locks and recalculates an existing period record.
func (s *PayrollServiceImpl) refreshPeriod(ctx context.Context, employeeCode string, month, year int) (payroll.PayrollRecord, error) {
	var result payroll.PayrollRecord
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.payrollRepo.GetByEmployeePeriodForUpdate(ctx, employeeCode, month, year)
		if err != nil {
			return err
		}
		result, err = s.refresh(ctx, existing)
		return err
	})
	return result, err
}

// BuildOrRecalculate implements payroll.PayrollService.
func (s *PayrollServiceImpl) BuildOrRecalculate(ctx context.Context, employeeCode string, month, year int) (payroll.PayrollResponse, error) {
	if !validator.IsValidPeriod(month, year) {
		return payroll.PayrollResponse{}, payroll.ErrInvalidPeriod
	}

	var result payroll.PayrollRecord
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.payrollRepo.GetByEmployeePeriodForUpdate(ctx, employeeCode, month, year)
		switch {
		case err == nil:
			result, err = s.refresh(ctx, existing)
			return err
		case errors.Is(err, payroll.ErrPayrollRecordNotFound):
			result, err = s.newRecord(ctx, employeeCode, month, year)
			return err
		default:
			return fmt.Errorf("failed to get payroll record: %w", err)
		}
	})
	if errors.Is(err, payroll.ErrPayrollRecordAlreadyExists) {
		// A concurrent call created the period first; its transaction is gone, ours is aborted.
		slog.Debug("Payroll: create lost race, refreshing", "employee_code", employeeCode, "month", month, "year", year)
		result, err = s.refreshPeriod(ctx, employeeCode, month, year)
	}
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	slog.Debug("Payroll: calculated", "employee_code", employeeCode, "month", month, "year", year, "net_salary", result.NetSalary.String())
	return payroll.ToResponse(result), nil
}

// CreatePayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) CreatePayroll(ctx context.Context, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	var result payroll.PayrollRecord
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := s.payrollRepo.GetByEmployeePeriod(ctx, req.EmployeeCode, req.Month, req.Year)
		if err == nil {
			return payroll.ErrPayrollRecordAlreadyExists
		}
		if !errors.Is(err, payroll.ErrPayrollRecordNotFound) {
			return fmt.Errorf("failed to check existing payroll record: %w", err)
		}

		result, err = s.newRecord(ctx, req.EmployeeCode, req.Month, req.Year)
		return err
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	slog.Info("Payroll: record created", "employee_code", req.EmployeeCode, "month", req.Month, "year", req.Year)
	return payroll.ToResponse(result), nil
}

// CreateOrGetPayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) CreateOrGetPayroll(ctx context.Context, req payroll.CalculatePayrollRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	now := s.clock.Now()
	month, year := int(now.Month()), now.Year()
	if req.Month != nil {
		month = *req.Month
	}
	if req.Year != nil {
		year = *req.Year
	}

	return s.BuildOrRecalculate(ctx, req.EmployeeCode, month, year)
}

// GetPayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPayroll(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	if validator.IsEmpty(id) {
		return payroll.PayrollResponse{}, payroll.ErrPayrollRecordNotFound
	}

	record, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	refreshed, err := s.refreshPeriod(ctx, record.EmployeeCode, record.PeriodMonth, record.PeriodYear)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return payroll.ToResponse(refreshed), nil
}

// GetPayrollByEmployeePeriod implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPayrollByEmployeePeriod(ctx context.Context, employeeCode string, month, year int) (payroll.PayrollResponse, error) {
	if !validator.IsValidPeriod(month, year) {
		return payroll.PayrollResponse{}, payroll.ErrInvalidPeriod
	}

	refreshed, err := s.refreshPeriod(ctx, employeeCode, month, year)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return payroll.ToResponse(refreshed), nil
}

// ListPayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListPayroll(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollResponse{}, err
	}

	var records []payroll.PayrollRecord
	if filter.EmployeeCode != "" {
		record, err := s.payrollRepo.GetByEmployeePeriod(ctx, filter.EmployeeCode, filter.Month, filter.Year)
		if err != nil && !errors.Is(err, payroll.ErrPayrollRecordNotFound) {
			return payroll.ListPayrollResponse{}, fmt.Errorf("failed to get payroll record: %w", err)
		}
		if err == nil {
			records = append(records, record)
		}
	} else {
		var err error
		records, err = s.payrollRepo.ListByPeriod(ctx, filter.Month, filter.Year)
		if err != nil {
			return payroll.ListPayrollResponse{}, fmt.Errorf("failed to list payroll records: %w", err)
		}
	}

	return mapToListResponse(filter.Month, filter.Year, records), nil
}

// ExportPayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) ExportPayroll(ctx context.Context, req payroll.ExportPayrollRequest) (payroll.ExportFile, error) {
	if err := req.Validate(); err != nil {
		return payroll.ExportFile{}, err
	}

	records, err := s.payrollRepo.ListByPeriod(ctx, req.Month, req.Year)
	if err != nil {
		return payroll.ExportFile{}, fmt.Errorf("failed to list payroll records: %w", err)
	}

	return renderExport(req.Format, req.Month, req.Year, records)
}

// ExportPayslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) ExportPayslip(ctx context.Context, id string) (payroll.ExportFile, error) {
	record, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.ExportFile{}, err
	}

	emp, err := s.directory.GetByCode(ctx, record.EmployeeCode)
	if err != nil {
		return payroll.ExportFile{}, err
	}

	return renderPayslip(record, emp.FullName)
}

func mapToListResponse(month, year int, records []payroll.PayrollRecord) payroll.ListPayrollResponse {
	resp := payroll.ListPayrollResponse{
		Month:   month,
		Year:    year,
		Records: make([]payroll.PayrollResponse, 0, len(records)),
		Summary: payroll.PayrollSummary{
			TotalGross:      decimal.Zero,
			TotalDeductions: decimal.Zero,
			TotalNet:        decimal.Zero,
		},
	}
	for _, r := range records {
		resp.Records = append(resp.Records, payroll.ToResponse(r))
		resp.Summary.TotalGross = resp.Summary.TotalGross.Add(r.GrossSalary)
		resp.Summary.TotalDeductions = resp.Summary.TotalDeductions.Add(r.TotalDeductions)
		resp.Summary.TotalNet = resp.Summary.TotalNet.Add(r.NetSalary)
	}
	resp.Summary.TotalRecords = len(records)
	return resp
}
