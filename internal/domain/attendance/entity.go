package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayType classifies a work day once it is closed.
type DayType string

const (
	DayTypeFullDay        DayType = "FULL_DAY"
	DayTypeHalfDay        DayType = "HALF_DAY"
	DayTypeOvertime       DayType = "OVERTIME"
	DayTypeNotEnoughHours DayType = "NOT_ENOUGH_HOURS"
	DayTypeAbsent         DayType = "ABSENT"
)

func (d DayType) Valid() bool {
	switch d {
	case DayTypeFullDay, DayTypeHalfDay, DayTypeOvertime, DayTypeNotEnoughHours, DayTypeAbsent:
		return true
	}
	return false
}

// Attendance is the ledger row of one employee on one work date.
type Attendance struct {
	ID             string
	EmployeeCode   string
	Date           time.Time
	DayType        DayType
	ClockIn        *time.Time
	ClockOut       *time.Time
	WorkHours      *decimal.Decimal
	MissingHours   decimal.Decimal
	LateMinutes    int
	NotEnoughHours bool
	Note           *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (a Attendance) IsLate() bool {
	return a.LateMinutes > 0
}

func (a Attendance) CheckedIn() bool {
	return a.ClockIn != nil
}

func (a Attendance) CheckedOut() bool {
	return a.ClockOut != nil
}

// CheckOutUpdate carries the fields derived at check-out.
type CheckOutUpdate struct {
	ClockOut     time.Time
	WorkHours    decimal.Decimal
	MissingHours decimal.Decimal
	DayType      DayType
}

// NewPlaceholder returns an ABSENT record for date with no check-in.
func NewPlaceholder(id, employeeCode string, date time.Time) Attendance {
	return Attendance{
		ID:           id,
		EmployeeCode: employeeCode,
		Date:         date,
		DayType:      DayTypeAbsent,
		MissingHours: decimal.Zero,
	}
}
