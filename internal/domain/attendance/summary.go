package attendance

import "github.com/shopspring/decimal"

// Summary is the fold of a period of attendance records.
type Summary struct {
	TotalWorkHours    decimal.Decimal
	OvertimeHours     decimal.Decimal
	FullDayWork       int
	HalfDayWork       int
	AbsenceDays       int
	LateDays          int
	NotEnoughHourDays int
	OvertimeDays      int
	TotalMissingHours decimal.Decimal
	TotalLateMinutes  int
	RecordCount       int
}

// Summarize folds records into period totals. Every record lands in exactly one
// of the full, half, absence, not-enough or overtime day counters.
func (p Policy) Summarize(records []Attendance) Summary {
	s := Summary{
		TotalWorkHours:    decimal.Zero,
		OvertimeHours:     decimal.Zero,
		TotalMissingHours: decimal.Zero,
	}
	if len(records) == 0 {
		return s
	}
	s.RecordCount = len(records)

	for _, r := range records {
		if r.DayType == DayTypeAbsent {
			s.AbsenceDays++
			continue
		}

		if r.IsLate() {
			s.LateDays++
		}

		if r.WorkHours != nil {
			s.TotalWorkHours = s.TotalWorkHours.Add(*r.WorkHours)
			s.TotalMissingHours = s.TotalMissingHours.Add(r.MissingHours)
			s.TotalLateMinutes += r.LateMinutes
		}

		switch r.DayType {
		case DayTypeFullDay:
			s.FullDayWork++
		case DayTypeHalfDay:
			s.HalfDayWork++
		case DayTypeOvertime:
			s.OvertimeDays++
			if r.WorkHours != nil {
				extra := r.WorkHours.Sub(p.StandardHours)
				if extra.IsPositive() {
					s.OvertimeHours = s.OvertimeHours.Add(extra)
				}
			}
		default:
			s.NotEnoughHourDays++
		}
	}

	return s
}

// DayCount is the number of records routed into a day counter.
func (s Summary) DayCount() int {
	return s.FullDayWork + s.HalfDayWork + s.AbsenceDays + s.NotEnoughHourDays + s.OvertimeDays
}
