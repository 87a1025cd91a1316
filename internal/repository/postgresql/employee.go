package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const employeeColumns = `id, employee_code, full_name, employment_status, insurance_base, hire_date, created_at, updated_at`

type employeeDirectory struct {
	db *database.DB
}

// NewEmployeeDirectory reads personnel from the employees table and the
// managers and staff registries.
func NewEmployeeDirectory(db *database.DB) employee.Directory {
	return &employeeDirectory{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	var insuranceBase decimal.NullDecimal
	err := row.Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FullName, &emp.EmploymentStatus, &insuranceBase,
		&emp.HireDate, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	if insuranceBase.Valid {
		emp.InsuranceBase = &insuranceBase.Decimal
	}
	return emp, nil
}

// GetByCode implements employee.Directory.
func (r *employeeDirectory) GetByCode(ctx context.Context, employeeCode string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employee_code = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, employeeCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by code: %w", err)
	}
	return emp, nil
}

// ListActive implements employee.Directory.
func (r *employeeDirectory) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees
		WHERE employment_status = $1
		ORDER BY employee_code ASC
	`

	rows, err := q.Query(ctx, query, employee.EmploymentStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (r *employeeDirectory) inRegistry(ctx context.Context, table, employeeCode string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE employee_code = $1)`, table)
	if err := q.QueryRow(ctx, query, employeeCode).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s registry: %w", table, err)
	}
	return exists, nil
}

// IsManager implements employee.Directory.
func (r *employeeDirectory) IsManager(ctx context.Context, employeeCode string) (bool, error) {
	return r.inRegistry(ctx, "managers", employeeCode)
}

// IsStaff implements employee.Directory.
func (r *employeeDirectory) IsStaff(ctx context.Context, employeeCode string) (bool, error) {
	return r.inRegistry(ctx, "staff", employeeCode)
}
