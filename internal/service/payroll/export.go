package payroll

import (
	"bytes"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/gocarina/gocsv"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

const (
	contentTypeCSV  = "text/csv"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
	sheetName       = "Payroll"
)

// payrollRow is one line of the period export.
type payrollRow struct {
	EmployeeCode      string `csv:"employee_code"`
	Role              string `csv:"role"`
	Month             int    `csv:"month"`
	Year              int    `csv:"year"`
	WorkingDays       int    `csv:"working_days"`
	FullDayWork       int    `csv:"full_day_work"`
	HalfDayWork       int    `csv:"half_day_work"`
	OvertimeDays      int    `csv:"overtime_days"`
	AbsenceDays       int    `csv:"absence_days"`
	NotEnoughHourDays int    `csv:"not_enough_hour_days"`
	LateDays          int    `csv:"late_days"`
	TotalWorkHours    string `csv:"total_work_hours"`
	OvertimeHours     string `csv:"overtime_hours"`
	WorkSalary        string `csv:"work_salary"`
	PositionAllowance string `csv:"position_allowance"`
	OvertimePay       string `csv:"overtime_pay"`
	Bonus             string `csv:"bonus"`
	Penalty           string `csv:"penalty"`
	GrossSalary       string `csv:"gross_salary"`
	SocialInsurance   string `csv:"social_insurance"`
	HealthInsurance   string `csv:"health_insurance"`
	Unemployment      string `csv:"unemployment_insurance"`
	PersonalIncomeTax string `csv:"personal_income_tax"`
	TotalDeductions   string `csv:"total_deductions"`
	NetSalary         string `csv:"net_salary"`
}

var exportHeader = []interface{}{
	"employee_code", "role", "month", "year", "working_days",
	"full_day_work", "half_day_work", "overtime_days", "absence_days", "not_enough_hour_days", "late_days",
	"total_work_hours", "overtime_hours",
	"work_salary", "position_allowance", "overtime_pay", "bonus", "penalty", "gross_salary",
	"social_insurance", "health_insurance", "unemployment_insurance", "personal_income_tax",
	"total_deductions", "net_salary",
}

func toRow(r payroll.PayrollRecord) payrollRow {
	return payrollRow{
		EmployeeCode:      r.EmployeeCode,
		Role:              r.Role,
		Month:             r.PeriodMonth,
		Year:              r.PeriodYear,
		WorkingDays:       r.WorkingDays,
		FullDayWork:       r.FullDayWork,
		HalfDayWork:       r.HalfDayWork,
		OvertimeDays:      r.OvertimeDays,
		AbsenceDays:       r.AbsenceDays,
		NotEnoughHourDays: r.NotEnoughHourDays,
		LateDays:          r.LateDays,
		TotalWorkHours:    r.TotalWorkHours.StringFixed(2),
		OvertimeHours:     r.OvertimeHours.StringFixed(2),
		WorkSalary:        r.WorkSalary.StringFixed(2),
		PositionAllowance: r.PositionAllowance.StringFixed(2),
		OvertimePay:       r.OvertimePay.StringFixed(2),
		Bonus:             r.Bonus.StringFixed(2),
		Penalty:           r.Penalty.StringFixed(2),
		GrossSalary:       r.GrossSalary.StringFixed(2),
		SocialInsurance:   r.SocialInsurance.StringFixed(2),
		HealthInsurance:   r.HealthInsurance.StringFixed(2),
		Unemployment:      r.UnemploymentInsurance.StringFixed(2),
		PersonalIncomeTax: r.PersonalIncomeTax.StringFixed(2),
		TotalDeductions:   r.TotalDeductions.StringFixed(2),
		NetSalary:         r.NetSalary.StringFixed(2),
	}
}

func (r payrollRow) cells() []interface{} {
	return []interface{}{
		r.EmployeeCode, r.Role, r.Month, r.Year, r.WorkingDays,
		r.FullDayWork, r.HalfDayWork, r.OvertimeDays, r.AbsenceDays, r.NotEnoughHourDays, r.LateDays,
		r.TotalWorkHours, r.OvertimeHours,
		r.WorkSalary, r.PositionAllowance, r.OvertimePay, r.Bonus, r.Penalty, r.GrossSalary,
		r.SocialInsurance, r.HealthInsurance, r.Unemployment, r.PersonalIncomeTax,
		r.TotalDeductions, r.NetSalary,
	}
}

func renderExport(format string, month, year int, records []payroll.PayrollRecord) (payroll.ExportFile, error) {
	rows := make([]payrollRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, toRow(r))
	}
	base := fmt.Sprintf("payroll-%04d-%02d", year, month)

	switch format {
	case payroll.ExportFormatCSV:
		content, err := gocsv.MarshalBytes(&rows)
		if err != nil {
			return payroll.ExportFile{}, fmt.Errorf("failed to marshal payroll csv: %w", err)
		}
		return payroll.ExportFile{Filename: base + ".csv", ContentType: contentTypeCSV, Content: content}, nil
	case payroll.ExportFormatXLSX:
		content, err := renderXLSX(rows)
		if err != nil {
			return payroll.ExportFile{}, err
		}
		return payroll.ExportFile{Filename: base + ".xlsx", ContentType: contentTypeXLSX, Content: content}, nil
	default:
		return payroll.ExportFile{}, payroll.ErrUnsupportedExportFormat
	}
}

func renderXLSX(rows []payrollRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name payroll sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(exportHeader), 1)
	if err := f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		cells := row.cells()
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(sheetName, "A", "A", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write payroll xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func renderPayslip(r payroll.PayrollRecord, employeeName string) (payroll.ExportFile, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "PAYSLIP", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Period: %02d/%04d", r.PeriodMonth, r.PeriodYear), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	line := func(label, value string) {
		pdf.CellFormat(90, 7, label, "B", 0, "L", false, 0, "")
		pdf.CellFormat(90, 7, value, "B", 1, "R", false, 0, "")
	}
	section := func(title string) {
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
	}

	line("Employee", fmt.Sprintf("%s (%s)", employeeName, r.EmployeeCode))
	line("Role", r.Role)

	section("Attendance")
	line("Working days", fmt.Sprint(r.WorkingDays))
	line("Full days", fmt.Sprint(r.FullDayWork))
	line("Half days", fmt.Sprint(r.HalfDayWork))
	line("Overtime days", fmt.Sprint(r.OvertimeDays))
	line("Absence days", fmt.Sprint(r.AbsenceDays))
	line("Not enough hours days", fmt.Sprint(r.NotEnoughHourDays))
	line("Late minutes", fmt.Sprint(r.TotalLateMinutes))

	section("Earnings")
	line("Work salary", r.WorkSalary.StringFixed(2))
	line("Position allowance", r.PositionAllowance.StringFixed(2))
	line("Overtime pay", r.OvertimePay.StringFixed(2))
	line("Bonus", r.Bonus.StringFixed(2))
	line("Penalty", r.Penalty.Neg().StringFixed(2))
	line("Gross salary", r.GrossSalary.StringFixed(2))

	section("Deductions")
	line("Social insurance", r.SocialInsurance.StringFixed(2))
	line("Health insurance", r.HealthInsurance.StringFixed(2))
	line("Unemployment insurance", r.UnemploymentInsurance.StringFixed(2))
	line("Personal income tax", r.PersonalIncomeTax.StringFixed(2))
	line("Total deductions", r.TotalDeductions.StringFixed(2))

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	line("Net salary", r.NetSalary.StringFixed(2))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return payroll.ExportFile{}, fmt.Errorf("failed to render payslip: %w", err)
	}

	return payroll.ExportFile{
		Filename:    fmt.Sprintf("payslip-%s-%04d-%02d.pdf", r.EmployeeCode, r.PeriodYear, r.PeriodMonth),
		ContentType: contentTypePDF,
		Content:     buf.Bytes(),
	}, nil
}
