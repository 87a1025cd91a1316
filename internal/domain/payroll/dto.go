package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== REQUEST DTOs ==========

type CreatePayrollRequest struct {
	EmployeeCode string `json:"employee_code"`
	Month        int    `json:"month"`
	Year         int    `json:"year"`
}

func (r *CreatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "is required and must be a valid employee code"})
	}
	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidPeriod(1, r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2000 and 9999"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CalculatePayrollRequest leaves Month and Year nil to use the current period.
type CalculatePayrollRequest struct {
	EmployeeCode string `json:"employee_code"`
	Month        *int   `json:"month,omitempty"`
	Year         *int   `json:"year,omitempty"`
}

func (r *CalculatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "is required and must be a valid employee code"})
	}
	if r.Month != nil && (*r.Month < 1 || *r.Month > 12) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if r.Year != nil && !validator.IsValidPeriod(1, *r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2000 and 9999"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayrollFilter struct {
	Month        int    `json:"month"`
	Year         int    `json:"year"`
	EmployeeCode string `json:"employee_code,omitempty"`
}

func (f *PayrollFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Month < 1 || f.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidPeriod(1, f.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2000 and 9999"})
	}
	if f.EmployeeCode != "" && !validator.IsValidEmployeeCode(f.EmployeeCode) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "must be a valid employee code"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

type ExportPayrollRequest struct {
	Month  int    `json:"month"`
	Year   int    `json:"year"`
	Format string `json:"format"`
}

func (r *ExportPayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidPeriod(r.Month, r.Year) {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "month must be 1-12 and year 2000-9999"})
	}
	if r.Format == "" {
		r.Format = ExportFormatCSV
	}
	if r.Format != ExportFormatCSV && r.Format != ExportFormatXLSX {
		errs = append(errs, validator.ValidationError{Field: "format", Message: "must be 'csv' or 'xlsx'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RESPONSE DTOs ==========

type PayrollResponse struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employee_code"`
	Role         string `json:"role"`
	PeriodMonth  int    `json:"period_month"`
	PeriodYear   int    `json:"period_year"`

	WorkingDays       int `json:"working_days"`
	FullDayWork       int `json:"full_day_work"`
	HalfDayWork       int `json:"half_day_work"`
	AbsenceDays       int `json:"absence_days"`
	LateDays          int `json:"late_days"`
	NotEnoughHourDays int `json:"not_enough_hour_days"`
	OvertimeDays      int `json:"overtime_days"`

	TotalWorkHours    decimal.Decimal `json:"total_work_hours"`
	OvertimeHours     decimal.Decimal `json:"overtime_hours"`
	TotalMissingHours decimal.Decimal `json:"total_missing_hours"`
	TotalLateMinutes  int             `json:"total_late_minutes"`

	FullDayRate decimal.Decimal `json:"full_day_rate"`
	HalfDayRate decimal.Decimal `json:"half_day_rate"`
	AbsenceRate decimal.Decimal `json:"absence_rate"`

	WorkSalary            decimal.Decimal `json:"work_salary"`
	PositionAllowance     decimal.Decimal `json:"position_allowance"`
	OvertimePay           decimal.Decimal `json:"overtime_pay"`
	Bonus                 decimal.Decimal `json:"bonus"`
	LatePenalty           decimal.Decimal `json:"late_penalty"`
	MissingHoursPenalty   decimal.Decimal `json:"missing_hours_penalty"`
	Penalty               decimal.Decimal `json:"penalty"`
	GrossSalary           decimal.Decimal `json:"gross_salary"`
	InsuranceBase         decimal.Decimal `json:"insurance_base"`
	SocialInsurance       decimal.Decimal `json:"social_insurance"`
	HealthInsurance       decimal.Decimal `json:"health_insurance"`
	UnemploymentInsurance decimal.Decimal `json:"unemployment_insurance"`
	TaxableIncome         decimal.Decimal `json:"taxable_income"`
	PersonalIncomeTax     decimal.Decimal `json:"personal_income_tax"`
	TotalDeductions       decimal.Decimal `json:"total_deductions"`
	NetSalary             decimal.Decimal `json:"net_salary"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PayrollSummary struct {
	TotalRecords    int             `json:"total_records"`
	TotalGross      decimal.Decimal `json:"total_gross"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNet        decimal.Decimal `json:"total_net"`
}

type ListPayrollResponse struct {
	Month   int               `json:"month"`
	Year    int               `json:"year"`
	Records []PayrollResponse `json:"records"`
	Summary PayrollSummary    `json:"summary"`
}

// ExportFile is a rendered payroll sheet.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

func ToResponse(r PayrollRecord) PayrollResponse {
	return PayrollResponse{
		ID:                    r.ID,
		EmployeeCode:          r.EmployeeCode,
		Role:                  r.Role,
		PeriodMonth:           r.PeriodMonth,
		PeriodYear:            r.PeriodYear,
		WorkingDays:           r.WorkingDays,
		FullDayWork:           r.FullDayWork,
		HalfDayWork:           r.HalfDayWork,
		AbsenceDays:           r.AbsenceDays,
		LateDays:              r.LateDays,
		NotEnoughHourDays:     r.NotEnoughHourDays,
		OvertimeDays:          r.OvertimeDays,
		TotalWorkHours:        r.TotalWorkHours,
		OvertimeHours:         r.OvertimeHours,
		TotalMissingHours:     r.TotalMissingHours,
		TotalLateMinutes:      r.TotalLateMinutes,
		FullDayRate:           r.FullDayRate,
		HalfDayRate:           r.HalfDayRate,
		AbsenceRate:           r.AbsenceRate,
		WorkSalary:            r.WorkSalary,
		PositionAllowance:     r.PositionAllowance,
		OvertimePay:           r.OvertimePay,
		Bonus:                 r.Bonus,
		LatePenalty:           r.LatePenalty,
		MissingHoursPenalty:   r.MissingHoursPenalty,
		Penalty:               r.Penalty,
		GrossSalary:           r.GrossSalary,
		InsuranceBase:         r.InsuranceBase,
		SocialInsurance:       r.SocialInsurance,
		HealthInsurance:       r.HealthInsurance,
		UnemploymentInsurance: r.UnemploymentInsurance,
		TaxableIncome:         r.TaxableIncome,
		PersonalIncomeTax:     r.PersonalIncomeTax,
		TotalDeductions:       r.TotalDeductions,
		NetSalary:             r.NetSalary,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}
