package attendance

import "github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/apperror"

// Attendance domain errors
var (
	// Check-in / check-out errors
	ErrAlreadyCheckedIn  = apperror.New(apperror.ErrConflict, "ATTENDANCE_ALREADY_CHECKIN", "you have already checked in today")
	ErrNotCheckedIn      = apperror.New(apperror.ErrPreconditionFailed, "ATTENDANCE_NOT_CHECKIN", "you have not checked in yet")
	ErrAlreadyCheckedOut = apperror.New(apperror.ErrConflict, "ATTENDANCE_ALREADY_CHECKOUT", "you have already checked out")

	// General errors
	ErrAttendanceNotFound      = apperror.New(apperror.ErrNotFound, "ATTENDANCE_NOT_FOUND", "attendance record not found")
	ErrAttendanceAlreadyExists = apperror.New(apperror.ErrConflict, "ATTENDANCE_ALREADY_EXISTS", "attendance record already exists for this date")
)
