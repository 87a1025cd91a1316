package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollRecord is the computed salary of one employee for one period.
type PayrollRecord struct {
	ID           string
	EmployeeCode string
	Role         string
	PeriodMonth  int
	PeriodYear   int

	// Attendance counts
	WorkingDays       int
	FullDayWork       int
	HalfDayWork       int
	AbsenceDays       int
	LateDays          int
	NotEnoughHourDays int
	OvertimeDays      int

	// Hour totals
	TotalWorkHours    decimal.Decimal
	OvertimeHours     decimal.Decimal
	TotalMissingHours decimal.Decimal
	TotalLateMinutes  int

	// Baseline rates at calculation time
	FullDayRate decimal.Decimal
	HalfDayRate decimal.Decimal
	AbsenceRate decimal.Decimal

	// Money
	WorkSalary            decimal.Decimal
	PositionAllowance     decimal.Decimal
	OvertimePay           decimal.Decimal
	Bonus                 decimal.Decimal
	LatePenalty           decimal.Decimal
	MissingHoursPenalty   decimal.Decimal
	Penalty               decimal.Decimal
	GrossSalary           decimal.Decimal
	InsuranceBase         decimal.Decimal
	SocialInsurance       decimal.Decimal
	HealthInsurance       decimal.Decimal
	UnemploymentInsurance decimal.Decimal
	TaxableIncome         decimal.Decimal
	PersonalIncomeTax     decimal.Decimal
	TotalDeductions       decimal.Decimal
	NetSalary             decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoleRates are the day rates and allowance of one personnel role.
type RoleRates struct {
	FullDay           decimal.Decimal
	HalfDay           decimal.Decimal
	PositionAllowance decimal.Decimal
}

// Insurance holds the statutory contributions withheld from one salary.
type Insurance struct {
	Social       decimal.Decimal
	Health       decimal.Decimal
	Unemployment decimal.Decimal
}

func (i Insurance) Total() decimal.Decimal {
	return i.Social.Add(i.Health).Add(i.Unemployment)
}

// Penalty splits the period penalty into its lateness and missing-hours parts.
type Penalty struct {
	Late    decimal.Decimal
	Missing decimal.Decimal
}

func (p Penalty) Total() decimal.Decimal {
	return p.Late.Add(p.Missing)
}
