package payroll

import "github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/apperror"

var (
	ErrPayrollRecordNotFound      = apperror.New(apperror.ErrNotFound, "PAYROLL_NOT_FOUND", "payroll record not found")
	ErrPayrollRecordAlreadyExists = apperror.New(apperror.ErrConflict, "PAYROLL_ALREADY_EXISTS", "payroll record already exists for this period")
	ErrInvalidPeriod              = apperror.New(apperror.ErrInvalidInput, "INVALID_PERIOD", "invalid payroll period")
	ErrUnsupportedExportFormat    = apperror.New(apperror.ErrInvalidInput, "EXPORT_FORMAT_UNSUPPORTED", "export format must be csv or xlsx")
)
