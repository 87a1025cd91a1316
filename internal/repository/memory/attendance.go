package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type attendanceKey struct {
	employeeCode string
	date         string
}

func keyOf(employeeCode string, date time.Time) attendanceKey {
	return attendanceKey{employeeCode: employeeCode, date: date.Format("2006-01-02")}
}

// AttendanceRepository is an in-process attendance ledger.
type AttendanceRepository struct {
	mu    sync.RWMutex
	now   func() time.Time
	byKey map[attendanceKey]attendance.Attendance
	byID  map[string]attendanceKey
}

var _ attendance.AttendanceRepository = (*AttendanceRepository)(nil)

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{
		now:   time.Now,
		byKey: make(map[attendanceKey]attendance.Attendance),
		byID:  make(map[string]attendanceKey),
	}
}

func (r *AttendanceRepository) insert(a attendance.Attendance) attendance.Attendance {
	if a.ID == "" {
		a.ID = uuid.Must(uuid.NewV7()).String()
	}
	now := r.now()
	a.CreatedAt = now
	a.UpdatedAt = now
	k := keyOf(a.EmployeeCode, a.Date)
	r.byKey[k] = a
	r.byID[a.ID] = k
	return a
}

// Create implements attendance.AttendanceRepository.
func (r *AttendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byKey[keyOf(a.EmployeeCode, a.Date)]; ok {
		return attendance.Attendance{}, attendance.ErrAttendanceAlreadyExists
	}
	return r.insert(a), nil
}

// CreateIfAbsent implements attendance.AttendanceRepository.
func (r *AttendanceRepository) CreateIfAbsent(ctx context.Context, a attendance.Attendance) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byKey[keyOf(a.EmployeeCode, a.Date)]; ok {
		return false, nil
	}
	r.insert(a)
	return true, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *AttendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeCode string, date time.Time) (attendance.Attendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byKey[keyOf(employeeCode, date)]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

// ListByEmployeeRange implements attendance.AttendanceRepository.
func (r *AttendanceRepository) ListByEmployeeRange(ctx context.Context, employeeCode string, from, to time.Time) ([]attendance.Attendance, error) {
	lo, hi := from.Format("2006-01-02"), to.Format("2006-01-02")
	return r.filter(func(k attendanceKey, _ attendance.Attendance) bool {
		return k.employeeCode == employeeCode && k.date >= lo && k.date <= hi
	}), nil
}

// ListByDate implements attendance.AttendanceRepository.
func (r *AttendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	day := date.Format("2006-01-02")
	return r.filter(func(k attendanceKey, _ attendance.Attendance) bool {
		return k.date == day
	}), nil
}

// ListOpenByDate implements attendance.AttendanceRepository.
func (r *AttendanceRepository) ListOpenByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	day := date.Format("2006-01-02")
	return r.filter(func(k attendanceKey, a attendance.Attendance) bool {
		return k.date == day && a.ClockOut == nil && !a.NotEnoughHours
	}), nil
}

func (r *AttendanceRepository) filter(match func(attendanceKey, attendance.Attendance) bool) []attendance.Attendance {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]attendance.Attendance, 0)
	for k, a := range r.byKey {
		if match(k, a) {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].EmployeeCode < result[j].EmployeeCode
	})
	return result
}

// MarkCheckIn implements attendance.AttendanceRepository.
func (r *AttendanceRepository) MarkCheckIn(ctx context.Context, id string, clockIn time.Time, lateMinutes int) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k, ok := r.byID[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	a := r.byKey[k]
	if a.ClockIn != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}

	a.ClockIn = &clockIn
	a.LateMinutes = lateMinutes
	a.UpdatedAt = r.now()
	r.byKey[k] = a
	return a, nil
}

// MarkCheckOut implements attendance.AttendanceRepository.
func (r *AttendanceRepository) MarkCheckOut(ctx context.Context, id string, update attendance.CheckOutUpdate) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k, ok := r.byID[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	a := r.byKey[k]
	if a.ClockIn == nil {
		return attendance.Attendance{}, attendance.ErrNotCheckedIn
	}
	if a.ClockOut != nil || a.NotEnoughHours {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}

	clockOut := update.ClockOut
	workHours := update.WorkHours
	a.ClockOut = &clockOut
	a.WorkHours = &workHours
	a.MissingHours = update.MissingHours
	a.DayType = update.DayType
	a.UpdatedAt = r.now()
	r.byKey[k] = a
	return a, nil
}

// CloseAsAbsent implements attendance.AttendanceRepository.
func (r *AttendanceRepository) CloseAsAbsent(ctx context.Context, id string, missingHours decimal.Decimal, note string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k, ok := r.byID[id]
	if !ok {
		return false, attendance.ErrAttendanceNotFound
	}
	a := r.byKey[k]
	if a.ClockOut != nil || a.NotEnoughHours {
		return false, nil
	}

	a.DayType = attendance.DayTypeAbsent
	a.NotEnoughHours = true
	a.MissingHours = missingHours
	a.Note = &note
	a.UpdatedAt = r.now()
	r.byKey[k] = a
	return true, nil
}
