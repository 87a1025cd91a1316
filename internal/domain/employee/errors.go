package employee

import "github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/apperror"

var (
	ErrEmployeeNotFound = apperror.New(apperror.ErrNotFound, "EMPLOYEE_NOT_FOUND", "employee not found")
	ErrRoleUnknown      = apperror.New(apperror.ErrIllegalState, "PERSONNEL_ROLE_UNKNOWN", "employee is registered as neither manager nor staff")
)
