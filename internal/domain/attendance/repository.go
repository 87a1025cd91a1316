package attendance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AttendanceRepository defines data access methods for the attendance ledger.
// Dates are work dates truncated to midnight in the organisation timezone.
type AttendanceRepository interface {
	// Create inserts a record, ErrAttendanceAlreadyExists on a duplicate (employee, date)
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// CreateIfAbsent inserts a record unless one exists for (employee, date)
	CreateIfAbsent(ctx context.Context, attendance Attendance) (bool, error)

	// GetByEmployeeAndDate returns ErrAttendanceNotFound when no record exists
	GetByEmployeeAndDate(ctx context.Context, employeeCode string, date time.Time) (Attendance, error)

	// ListByEmployeeRange returns records with from <= date <= to ordered by date
	ListByEmployeeRange(ctx context.Context, employeeCode string, from, to time.Time) ([]Attendance, error)

	ListByDate(ctx context.Context, date time.Time) ([]Attendance, error)

	// ListOpenByDate returns records of date without check-out that were not swept yet
	ListOpenByDate(ctx context.Context, date time.Time) ([]Attendance, error)

	// MarkCheckIn sets check-in only if it is unset, ErrAlreadyCheckedIn otherwise
	MarkCheckIn(ctx context.Context, id string, clockIn time.Time, lateMinutes int) (Attendance, error)

	// MarkCheckOut sets check-out only if check-in is set and check-out is unset,
	// ErrAlreadyCheckedOut otherwise
	MarkCheckOut(ctx context.Context, id string, update CheckOutUpdate) (Attendance, error)

	// CloseAsAbsent forces an open record to ABSENT with notEnoughHours set.
	// It reports false when the record was already closed or swept.
	CloseAsAbsent(ctx context.Context, id string, missingHours decimal.Decimal, note string) (bool, error)
}
