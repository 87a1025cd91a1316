package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Policy holds the thresholds that turn timestamps into a day classification.
type Policy struct {
	WorkStart            time.Duration // offset from midnight
	StandardHours        decimal.Decimal
	HalfDayHours         decimal.Decimal
	OvertimeMinimumHours decimal.Decimal
	SweepMissingHours    decimal.Decimal
}

// DefaultPolicy is an 08:30 start with 8h full days and 4h half days.
func DefaultPolicy() Policy {
	return Policy{
		WorkStart:            8*time.Hour + 30*time.Minute,
		StandardHours:        decimal.NewFromInt(8),
		HalfDayHours:         decimal.NewFromInt(4),
		OvertimeMinimumHours: decimal.NewFromInt(1),
		SweepMissingHours:    decimal.NewFromInt(8),
	}
}

// LateMinutes returns the whole minutes clockIn falls after the work start of date.
func (p Policy) LateMinutes(date, clockIn time.Time) int {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, date.Location()).Add(p.WorkStart)
	if !clockIn.After(start) {
		return 0
	}
	return int(clockIn.Sub(start) / time.Minute)
}

// WorkedHours is the span between check-in and check-out in hours, two decimals.
func WorkedHours(clockIn, clockOut time.Time) decimal.Decimal {
	if clockOut.Before(clockIn) {
		return decimal.Zero
	}
	minutes := decimal.NewFromInt(int64(clockOut.Sub(clockIn) / time.Minute))
	return minutes.Div(decimal.NewFromInt(60)).Round(2)
}

// Classify maps worked hours to a day type and the hours missing below the half-day minimum.
func (p Policy) Classify(worked decimal.Decimal) (DayType, decimal.Decimal) {
	missing := decimal.Max(decimal.Zero, p.HalfDayHours.Sub(worked))

	switch {
	case worked.GreaterThanOrEqual(p.StandardHours.Add(p.OvertimeMinimumHours)):
		return DayTypeOvertime, missing
	case worked.GreaterThanOrEqual(p.StandardHours):
		return DayTypeFullDay, missing
	case worked.GreaterThanOrEqual(p.HalfDayHours):
		return DayTypeHalfDay, missing
	default:
		return DayTypeNotEnoughHours, missing
	}
}

// CheckOutFor derives the check-out update of a checked-in record.
func (p Policy) CheckOutFor(record Attendance, clockOut time.Time) CheckOutUpdate {
	worked := WorkedHours(*record.ClockIn, clockOut)
	dayType, missing := p.Classify(worked)
	return CheckOutUpdate{
		ClockOut:     clockOut,
		WorkHours:    worked,
		MissingHours: missing,
		DayType:      dayType,
	}
}
