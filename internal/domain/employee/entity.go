package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	EmploymentStatus EmploymentStatus
	InsuranceBase    *decimal.Decimal
	HireDate         time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

func (e Employee) IsActive() bool {
	return e.EmploymentStatus == EmploymentStatusActive
}

// InsuranceBaseOrZero returns the insurance-eligible salary, zero when unset.
func (e Employee) InsuranceBaseOrZero() decimal.Decimal {
	if e.InsuranceBase == nil {
		return decimal.Zero
	}
	return *e.InsuranceBase
}

// Role is the personnel registry an employee belongs to.
type Role string

const (
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)
