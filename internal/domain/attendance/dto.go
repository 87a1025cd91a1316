package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type RangeFilter struct {
	EmployeeCode string `json:"employee_code"`
	From         string `json:"from"`
	To           string `json:"to"`

	FromDate time.Time `json:"-"`
	ToDate   time.Time `json:"-"`
}

// Validate parses From/To (YYYY-MM-DD) into FromDate/ToDate in loc.
func (f *RangeFilter) Validate(loc *time.Location) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.EmployeeCode) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "employee_code is required"})
	}

	from, err := validator.ParseDateIn(f.From, loc)
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "from", Message: "from must be in YYYY-MM-DD format"})
	}
	to, err := validator.ParseDateIn(f.To, loc)
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "to must be in YYYY-MM-DD format"})
	}

	if len(errs) == 0 && to.Before(from) {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "to must not be before from"})
	}

	if len(errs) > 0 {
		return errs
	}

	f.FromDate = from
	f.ToDate = to
	return nil
}

type AttendanceResponse struct {
	ID             string           `json:"id"`
	EmployeeCode   string           `json:"employee_code"`
	Date           string           `json:"date"`
	DayType        DayType          `json:"day_type"`
	ClockIn        *time.Time       `json:"clock_in,omitempty"`
	ClockOut       *time.Time       `json:"clock_out,omitempty"`
	WorkHours      *decimal.Decimal `json:"work_hours,omitempty"`
	MissingHours   decimal.Decimal  `json:"missing_hours"`
	LateMinutes    int              `json:"late_minutes"`
	NotEnoughHours bool             `json:"not_enough_hours"`
	Note           *string          `json:"note,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

type ListAttendanceResponse struct {
	EmployeeCode string               `json:"employee_code"`
	From         string               `json:"from"`
	To           string               `json:"to"`
	Attendances  []AttendanceResponse `json:"attendances"`
}

type SummaryResponse struct {
	EmployeeCode      string          `json:"employee_code"`
	Month             int             `json:"month"`
	Year              int             `json:"year"`
	WorkingDays       int             `json:"working_days"`
	TotalWorkHours    decimal.Decimal `json:"total_work_hours"`
	OvertimeHours     decimal.Decimal `json:"overtime_hours"`
	FullDayWork       int             `json:"full_day_work"`
	HalfDayWork       int             `json:"half_day_work"`
	AbsenceDays       int             `json:"absence_days"`
	LateDays          int             `json:"late_days"`
	NotEnoughHourDays int             `json:"not_enough_hour_days"`
	OvertimeDays      int             `json:"overtime_days"`
	TotalMissingHours decimal.Decimal `json:"total_missing_hours"`
	TotalLateMinutes  int             `json:"total_late_minutes"`
	RecordCount       int             `json:"record_count"`
}

func ToResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:             a.ID,
		EmployeeCode:   a.EmployeeCode,
		Date:           a.Date.Format("2006-01-02"),
		DayType:        a.DayType,
		ClockIn:        a.ClockIn,
		ClockOut:       a.ClockOut,
		WorkHours:      a.WorkHours,
		MissingHours:   a.MissingHours,
		LateMinutes:    a.LateMinutes,
		NotEnoughHours: a.NotEnoughHours,
		Note:           a.Note,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func ToSummaryResponse(employeeCode string, month, year, workingDays int, s Summary) SummaryResponse {
	return SummaryResponse{
		EmployeeCode:      employeeCode,
		Month:             month,
		Year:              year,
		WorkingDays:       workingDays,
		TotalWorkHours:    s.TotalWorkHours,
		OvertimeHours:     s.OvertimeHours,
		FullDayWork:       s.FullDayWork,
		HalfDayWork:       s.HalfDayWork,
		AbsenceDays:       s.AbsenceDays,
		LateDays:          s.LateDays,
		NotEnoughHourDays: s.NotEnoughHourDays,
		OvertimeDays:      s.OvertimeDays,
		TotalMissingHours: s.TotalMissingHours,
		TotalLateMinutes:  s.TotalLateMinutes,
		RecordCount:       s.RecordCount,
	}
}
