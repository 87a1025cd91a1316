package payroll

import "context"

// PayrollRepository defines data access methods for payroll records.
type PayrollRepository interface {
	// Create inserts a record, ErrPayrollRecordAlreadyExists on a duplicate period
	Create(ctx context.Context, record PayrollRecord) (PayrollRecord, error)

	GetByID(ctx context.Context, id string) (PayrollRecord, error)

	// GetByEmployeePeriod returns ErrPayrollRecordNotFound when the period has no record
	GetByEmployeePeriod(ctx context.Context, employeeCode string, month, year int) (PayrollRecord, error)

	// GetByEmployeePeriodForUpdate locks the row for the surrounding transaction
	GetByEmployeePeriodForUpdate(ctx context.Context, employeeCode string, month, year int) (PayrollRecord, error)

	ListByPeriod(ctx context.Context, month, year int) ([]PayrollRecord, error)

	// Update overwrites the computed fields of an existing record
	Update(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
}
