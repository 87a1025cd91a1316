package payroll

import "context"

// PayrollService defines business logic for payroll records
type PayrollService interface {
	// BuildOrRecalculate refreshes the period record from the ledger, creating it when absent
	BuildOrRecalculate(ctx context.Context, employeeCode string, month, year int) (PayrollResponse, error)

	// CreatePayroll creates the period record, ErrPayrollRecordAlreadyExists if present
	CreatePayroll(ctx context.Context, req CreatePayrollRequest) (PayrollResponse, error)

	// CreateOrGetPayroll defaults an omitted period to the current month
	CreateOrGetPayroll(ctx context.Context, req CalculatePayrollRequest) (PayrollResponse, error)

	GetPayroll(ctx context.Context, id string) (PayrollResponse, error)
	GetPayrollByEmployeePeriod(ctx context.Context, employeeCode string, month, year int) (PayrollResponse, error)
	ListPayroll(ctx context.Context, filter PayrollFilter) (ListPayrollResponse, error)

	// ExportPayroll renders the period records as a csv or xlsx sheet
	ExportPayroll(ctx context.Context, req ExportPayrollRequest) (ExportFile, error)

	// ExportPayslip renders one record as a PDF payslip
	ExportPayslip(ctx context.Context, id string) (ExportFile, error)
}
