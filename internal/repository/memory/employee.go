package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
)

// Directory is an in-process personnel directory with separate manager and
// staff registries.
type Directory struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
	managers  map[string]struct{}
	staff     map[string]struct{}
}

var _ employee.Directory = (*Directory)(nil)

func NewDirectory() *Directory {
	return &Directory{
		employees: make(map[string]employee.Employee),
		managers:  make(map[string]struct{}),
		staff:     make(map[string]struct{}),
	}
}

// Add registers emp under role. An empty role leaves it in no registry.
func (d *Directory) Add(emp employee.Employee, role employee.Role) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if emp.EmploymentStatus == "" {
		emp.EmploymentStatus = employee.EmploymentStatusActive
	}
	d.employees[emp.EmployeeCode] = emp
	switch role {
	case employee.RoleManager:
		d.managers[emp.EmployeeCode] = struct{}{}
	case employee.RoleStaff:
		d.staff[emp.EmployeeCode] = struct{}{}
	}
}

// GetByCode implements employee.Directory.
func (d *Directory) GetByCode(ctx context.Context, employeeCode string) (employee.Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	emp, ok := d.employees[employeeCode]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

// ListActive implements employee.Directory.
func (d *Directory) ListActive(ctx context.Context) ([]employee.Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make([]employee.Employee, 0, len(d.employees))
	for _, emp := range d.employees {
		if emp.IsActive() {
			result = append(result, emp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].EmployeeCode < result[j].EmployeeCode
	})
	return result, nil
}

// IsManager implements employee.Directory.
func (d *Directory) IsManager(ctx context.Context, employeeCode string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.managers[employeeCode]
	return ok, nil
}

// IsStaff implements employee.Directory.
func (d *Directory) IsStaff(ctx context.Context, employeeCode string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.staff[employeeCode]
	return ok, nil
}
