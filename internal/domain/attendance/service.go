package attendance

import (
	"context"
	"time"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn records today's arrival of the employee
	CheckIn(ctx context.Context, employeeCode string) (AttendanceResponse, error)

	// CheckOut records today's departure and classifies the day
	CheckOut(ctx context.Context, employeeCode string) (AttendanceResponse, error)

	// GetAttendance retrieves the record of one employee on one date
	GetAttendance(ctx context.Context, employeeCode string, date time.Time) (AttendanceResponse, error)

	// GetAttendanceRange retrieves the records of one employee between two dates
	GetAttendanceRange(ctx context.Context, filter RangeFilter) (ListAttendanceResponse, error)

	// GetSummary folds a month of records into totals
	GetSummary(ctx context.Context, employeeCode string, month, year int) (SummaryResponse, error)
}
