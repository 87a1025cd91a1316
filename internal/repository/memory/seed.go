package memory

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type seedRow struct {
	EmployeeCode     string `csv:"employee_code"`
	FullName         string `csv:"full_name"`
	Role             string `csv:"role"`
	EmploymentStatus string `csv:"employment_status"`
	InsuranceBase    string `csv:"insurance_base"`
	HireDate         string `csv:"hire_date"`
}

// LoadCSV adds the employees listed in r to the directory. The header must
// name employee_code, full_name and role; the other columns are optional.
func (d *Directory) LoadCSV(r io.Reader) (int, error) {
	var rows []seedRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return 0, fmt.Errorf("failed to parse employee csv: %w", err)
	}

	for i, row := range rows {
		line := i + 2
		code := strings.TrimSpace(row.EmployeeCode)
		if code == "" {
			return 0, fmt.Errorf("line %d: employee_code is required", line)
		}

		role := employee.Role(strings.ToLower(strings.TrimSpace(row.Role)))
		if role != "" && role != employee.RoleManager && role != employee.RoleStaff {
			return 0, fmt.Errorf("line %d: unknown role %q", line, row.Role)
		}

		emp := employee.Employee{
			ID:               uuid.Must(uuid.NewV7()).String(),
			EmployeeCode:     code,
			FullName:         strings.TrimSpace(row.FullName),
			EmploymentStatus: employee.EmploymentStatus(strings.TrimSpace(row.EmploymentStatus)),
		}
		if v := strings.TrimSpace(row.InsuranceBase); v != "" {
			base, err := decimal.NewFromString(v)
			if err != nil {
				return 0, fmt.Errorf("line %d: invalid insurance_base: %w", line, err)
			}
			emp.InsuranceBase = &base
		}
		if v := strings.TrimSpace(row.HireDate); v != "" {
			hired, err := time.Parse("2006-01-02", v)
			if err != nil {
				return 0, fmt.Errorf("line %d: invalid hire_date: %w", line, err)
			}
			emp.HireDate = hired
		}

		d.Add(emp, role)
	}
	return len(rows), nil
}
