package payroll

import (
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

var (
	socialInsuranceRate       = decimal.RequireFromString("0.08")
	healthInsuranceRate       = decimal.RequireFromString("0.015")
	unemploymentInsuranceRate = decimal.RequireFromString("0.01")
)

// Calculator turns an attendance summary into payroll figures.
type Calculator struct {
	Manager             RoleRates
	Employee            RoleRates
	AbsenceDayRate      decimal.Decimal
	LateMinuteRate      decimal.Decimal
	MissingHourRate     decimal.Decimal
	OvertimeHourRate    decimal.Decimal
	PersonalDeduction   decimal.Decimal
	LateAllowancePerDay int // minutes
	TaxTable            TaxTable
}

// RatesFor returns the manager or regular employee rates.
func (c Calculator) RatesFor(manager bool) RoleRates {
	if manager {
		return c.Manager
	}
	return c.Employee
}

// Penalty computes the lateness and missing-hours penalty of a period.
//
// When lateness exceeds the allowance the late part is
// (allowance - totalLate) * rate, which is negative.
func (c Calculator) Penalty(totalLateMinutes int, totalMissingHours decimal.Decimal, workingDays int) Penalty {
	p := Penalty{Late: decimal.Zero, Missing: totalMissingHours.Mul(c.MissingHourRate).Round(moneyPlaces)}

	allowance := c.LateAllowancePerDay * workingDays
	if totalLateMinutes > allowance {
		p.Late = decimal.NewFromInt(int64(allowance - totalLateMinutes)).Mul(c.LateMinuteRate).Round(moneyPlaces)
	}
	return p
}

// InsuranceFor computes the statutory contributions on base; zero when base is not positive.
func InsuranceFor(base decimal.Decimal) Insurance {
	if !base.IsPositive() {
		return Insurance{Social: decimal.Zero, Health: decimal.Zero, Unemployment: decimal.Zero}
	}
	return Insurance{
		Social:       base.Mul(socialInsuranceRate).Round(moneyPlaces),
		Health:       base.Mul(healthInsuranceRate).Round(moneyPlaces),
		Unemployment: base.Mul(unemploymentInsuranceRate).Round(moneyPlaces),
	}
}

// TaxableIncome is gross minus insurance minus the personal deduction.
func (c Calculator) TaxableIncome(gross decimal.Decimal, ins Insurance) decimal.Decimal {
	return gross.Sub(ins.Total()).Sub(c.PersonalDeduction)
}

// Apply fills the attendance and money fields of record. Identity, role and bonus
// are left as they are, so applying twice to the same inputs yields the same figures.
// Every money leaf is rounded to two places before it is summed.
func (c Calculator) Apply(record *PayrollRecord, s attendance.Summary, workingDays int, rates RoleRates, insuranceBase decimal.Decimal) {
	record.WorkingDays = workingDays
	record.FullDayWork = s.FullDayWork
	record.HalfDayWork = s.HalfDayWork
	record.AbsenceDays = s.AbsenceDays
	record.LateDays = s.LateDays
	record.NotEnoughHourDays = s.NotEnoughHourDays
	record.OvertimeDays = s.OvertimeDays
	record.TotalWorkHours = s.TotalWorkHours
	record.OvertimeHours = s.OvertimeHours
	record.TotalMissingHours = s.TotalMissingHours
	record.TotalLateMinutes = s.TotalLateMinutes

	record.FullDayRate = rates.FullDay
	record.HalfDayRate = rates.HalfDay
	record.AbsenceRate = c.AbsenceDayRate

	paidFullDays := decimal.NewFromInt(int64(s.FullDayWork + s.OvertimeDays))
	record.WorkSalary = paidFullDays.Mul(rates.FullDay).
		Add(decimal.NewFromInt(int64(s.HalfDayWork)).Mul(rates.HalfDay)).
		Add(decimal.NewFromInt(int64(s.AbsenceDays)).Mul(c.AbsenceDayRate)).
		Round(moneyPlaces)
	record.PositionAllowance = rates.PositionAllowance
	record.OvertimePay = s.OvertimeHours.Mul(c.OvertimeHourRate).Round(moneyPlaces)

	penalty := c.Penalty(s.TotalLateMinutes, s.TotalMissingHours, workingDays)
	record.LatePenalty = penalty.Late
	record.MissingHoursPenalty = penalty.Missing
	record.Penalty = penalty.Total()

	record.GrossSalary = record.WorkSalary.
		Add(record.PositionAllowance).
		Add(record.OvertimePay).
		Add(record.Bonus).
		Sub(record.Penalty)

	ins := InsuranceFor(insuranceBase)
	record.InsuranceBase = insuranceBase
	record.SocialInsurance = ins.Social
	record.HealthInsurance = ins.Health
	record.UnemploymentInsurance = ins.Unemployment

	record.TaxableIncome = c.TaxableIncome(record.GrossSalary, ins)
	record.PersonalIncomeTax = c.TaxTable.Tax(record.TaxableIncome).Round(moneyPlaces)

	record.TotalDeductions = ins.Total().Add(record.PersonalIncomeTax)
	record.NetSalary = record.GrossSalary.Sub(record.TotalDeductions)
}
