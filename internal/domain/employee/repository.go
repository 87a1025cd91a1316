package employee

import (
	"context"
	"fmt"
)

// Directory is the personnel lookup consumed by attendance and payroll.
type Directory interface {
	// GetByCode returns ErrEmployeeNotFound for an unknown code
	GetByCode(ctx context.Context, employeeCode string) (Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
	IsManager(ctx context.Context, employeeCode string) (bool, error)
	IsStaff(ctx context.Context, employeeCode string) (bool, error)
}

// ResolveRole looks the employee up and returns the registry it belongs to.
func ResolveRole(ctx context.Context, dir Directory, employeeCode string) (Employee, Role, error) {
	emp, err := dir.GetByCode(ctx, employeeCode)
	if err != nil {
		return Employee{}, "", err
	}

	isManager, err := dir.IsManager(ctx, employeeCode)
	if err != nil {
		return Employee{}, "", fmt.Errorf("failed to check manager registry: %w", err)
	}
	if isManager {
		return emp, RoleManager, nil
	}

	isStaff, err := dir.IsStaff(ctx, employeeCode)
	if err != nil {
		return Employee{}, "", fmt.Errorf("failed to check staff registry: %w", err)
	}
	if isStaff {
		return emp, RoleStaff, nil
	}

	return Employee{}, "", fmt.Errorf("employee %s: %w", employeeCode, ErrRoleUnknown)
}
