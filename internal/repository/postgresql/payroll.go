package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const payrollColumns = `
	id, employee_code, role, period_month, period_year,
	working_days, full_day_work, half_day_work, absence_days, late_days, not_enough_hour_days, overtime_days,
	total_work_hours, overtime_hours, total_missing_hours, total_late_minutes,
	full_day_rate, half_day_rate, absence_rate,
	work_salary, position_allowance, overtime_pay, bonus, late_penalty, missing_hours_penalty, penalty,
	gross_salary, insurance_base, social_insurance, health_insurance, unemployment_insurance,
	taxable_income, personal_income_tax, total_deductions, net_salary,
	created_at, updated_at`

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

func scanPayroll(row pgx.Row) (payroll.PayrollRecord, error) {
	var p payroll.PayrollRecord
	err := row.Scan(
		&p.ID, &p.EmployeeCode, &p.Role, &p.PeriodMonth, &p.PeriodYear,
		&p.WorkingDays, &p.FullDayWork, &p.HalfDayWork, &p.AbsenceDays, &p.LateDays, &p.NotEnoughHourDays, &p.OvertimeDays,
		&p.TotalWorkHours, &p.OvertimeHours, &p.TotalMissingHours, &p.TotalLateMinutes,
		&p.FullDayRate, &p.HalfDayRate, &p.AbsenceRate,
		&p.WorkSalary, &p.PositionAllowance, &p.OvertimePay, &p.Bonus, &p.LatePenalty, &p.MissingHoursPenalty, &p.Penalty,
		&p.GrossSalary, &p.InsuranceBase, &p.SocialInsurance, &p.HealthInsurance, &p.UnemploymentInsurance,
		&p.TaxableIncome, &p.PersonalIncomeTax, &p.TotalDeductions, &p.NetSalary,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// computedArgs lists the recalculated fields in payrollColumns order, starting at role.
func computedArgs(p payroll.PayrollRecord) []interface{} {
	return []interface{}{
		p.Role,
		p.WorkingDays, p.FullDayWork, p.HalfDayWork, p.AbsenceDays, p.LateDays, p.NotEnoughHourDays, p.OvertimeDays,
		p.TotalWorkHours, p.OvertimeHours, p.TotalMissingHours, p.TotalLateMinutes,
		p.FullDayRate, p.HalfDayRate, p.AbsenceRate,
		p.WorkSalary, p.PositionAllowance, p.OvertimePay, p.Bonus, p.LatePenalty, p.MissingHoursPenalty, p.Penalty,
		p.GrossSalary, p.InsuranceBase, p.SocialInsurance, p.HealthInsurance, p.UnemploymentInsurance,
		p.TaxableIncome, p.PersonalIncomeTax, p.TotalDeductions, p.NetSalary,
	}
}

// ========== PAYROLL RECORDS ==========

func (r *payrollRepository) Create(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	if record.ID == "" {
		record.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO payroll_records (
			id, employee_code, period_month, period_year, role,
			working_days, full_day_work, half_day_work, absence_days, late_days, not_enough_hour_days, overtime_days,
			total_work_hours, overtime_hours, total_missing_hours, total_late_minutes,
			full_day_rate, half_day_rate, absence_rate,
			work_salary, position_allowance, overtime_pay, bonus, late_penalty, missing_hours_penalty, penalty,
			gross_salary, insurance_base, social_insurance, health_insurance, unemployment_insurance,
			taxable_income, personal_income_tax, total_deductions, net_salary
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34, $35
		) RETURNING ` + payrollColumns

	args := append([]interface{}{record.ID, record.EmployeeCode, record.PeriodMonth, record.PeriodYear}, computedArgs(record)...)
	created, err := scanPayroll(q.QueryRow(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return created, nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + ` FROM payroll_records WHERE id = $1`

	p, err := scanPayroll(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) getByEmployeePeriod(ctx context.Context, employeeCode string, month, year int, lock string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + `
		FROM payroll_records
		WHERE employee_code = $1
		  AND period_month = $2
		  AND period_year = $3
	` + lock

	p, err := scanPayroll(q.QueryRow(ctx, query, employeeCode, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record by period: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, employeeCode string, month, year int) (payroll.PayrollRecord, error) {
	return r.getByEmployeePeriod(ctx, employeeCode, month, year, "")
}

// GetByEmployeePeriodForUpdate only locks when called inside a transaction.
func (r *payrollRepository) GetByEmployeePeriodForUpdate(ctx context.Context, employeeCode string, month, year int) (payroll.PayrollRecord, error) {
	return r.getByEmployeePeriod(ctx, employeeCode, month, year, "FOR UPDATE")
}

func (r *payrollRepository) ListByPeriod(ctx context.Context, month, year int) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + `
		FROM payroll_records
		WHERE period_month = $1
		  AND period_year = $2
		ORDER BY employee_code ASC
	`

	rows, err := q.Query(ctx, query, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	records := make([]payroll.PayrollRecord, 0)
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, p)
	}

	return records, rows.Err()
}

func (r *payrollRepository) Update(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records SET
			role = $2,
			working_days = $3, full_day_work = $4, half_day_work = $5, absence_days = $6, late_days = $7,
			not_enough_hour_days = $8, overtime_days = $9,
			total_work_hours = $10, overtime_hours = $11, total_missing_hours = $12, total_late_minutes = $13,
			full_day_rate = $14, half_day_rate = $15, absence_rate = $16,
			work_salary = $17, position_allowance = $18, overtime_pay = $19, bonus = $20,
			late_penalty = $21, missing_hours_penalty = $22, penalty = $23,
			gross_salary = $24, insurance_base = $25, social_insurance = $26, health_insurance = $27,
			unemployment_insurance = $28, taxable_income = $29, personal_income_tax = $30,
			total_deductions = $31, net_salary = $32,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + payrollColumns

	args := append([]interface{}{record.ID}, computedArgs(record)...)
	updated, err := scanPayroll(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to update payroll record: %w", err)
	}

	return updated, nil
}
