package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const uniqueViolation = "23505"

const attendanceColumns = `
	id, employee_code, date, day_type, clock_in, clock_out, work_hours,
	missing_hours, late_minutes, not_enough_hours, note, created_at, updated_at`

type attendanceRepository struct {
	db  *database.DB
	loc *time.Location
}

// NewAttendanceRepository returns the ledger backed by the attendances table.
// Dates read back are placed at midnight in loc.
func NewAttendanceRepository(db *database.DB, loc *time.Location) attendance.AttendanceRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &attendanceRepository{db: db, loc: loc}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// dateArg strips the clock and zone so the date column stores the local work date.
func dateArg(t time.Time) string {
	return t.Format("2006-01-02")
}

func (a *attendanceRepository) scan(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	var date time.Time
	var workHours decimal.NullDecimal
	err := row.Scan(
		&att.ID, &att.EmployeeCode, &date, &att.DayType, &att.ClockIn, &att.ClockOut, &workHours,
		&att.MissingHours, &att.LateMinutes, &att.NotEnoughHours, &att.Note, &att.CreatedAt, &att.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}

	att.Date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, a.loc)
	if workHours.Valid {
		att.WorkHours = &workHours.Decimal
	}
	return att, nil
}

func (a *attendanceRepository) list(ctx context.Context, query string, args ...interface{}) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]attendance.Attendance, 0)
	for rows.Next() {
		att, err := a.scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, att)
	}
	return result, rows.Err()
}

func (a *attendanceRepository) insert(ctx context.Context, att attendance.Attendance, onConflict string) (pgconn.CommandTag, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			id, employee_code, date, day_type, clock_in, clock_out, work_hours,
			missing_hours, late_minutes, not_enough_hours, note
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	` + onConflict

	var workHours decimal.NullDecimal
	if att.WorkHours != nil {
		workHours = decimal.NewNullDecimal(*att.WorkHours)
	}

	return q.Exec(ctx, query,
		att.ID, att.EmployeeCode, dateArg(att.Date), att.DayType, att.ClockIn, att.ClockOut, workHours,
		att.MissingHours, att.LateMinutes, att.NotEnoughHours, att.Note,
	)
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	if newAttendance.ID == "" {
		newAttendance.ID = uuid.Must(uuid.NewV7()).String()
	}

	if _, err := a.insert(ctx, newAttendance, ""); err != nil {
		if isUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrAttendanceAlreadyExists
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return a.GetByEmployeeAndDate(ctx, newAttendance.EmployeeCode, newAttendance.Date)
}

// CreateIfAbsent implements attendance.AttendanceRepository.
func (a *attendanceRepository) CreateIfAbsent(ctx context.Context, newAttendance attendance.Attendance) (bool, error) {
	if newAttendance.ID == "" {
		newAttendance.ID = uuid.Must(uuid.NewV7()).String()
	}

	tag, err := a.insert(ctx, newAttendance, "ON CONFLICT (employee_code, date) DO NOTHING")
	if err != nil {
		return false, fmt.Errorf("failed to create attendance: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeCode string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_code = $1
		  AND date = $2
	`

	att, err := a.scan(q.QueryRow(ctx, query, employeeCode, dateArg(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}
	return att, nil
}

func (a *attendanceRepository) getByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = $1`

	att, err := a.scan(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

// ListByEmployeeRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployeeRange(ctx context.Context, employeeCode string, from, to time.Time) ([]attendance.Attendance, error) {
	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_code = $1
		  AND date BETWEEN $2 AND $3
		ORDER BY date ASC
	`

	result, err := a.list(ctx, query, employeeCode, dateArg(from), dateArg(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	return result, nil
}

// ListByDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE date = $1
		ORDER BY employee_code ASC
	`

	result, err := a.list(ctx, query, dateArg(date))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances by date: %w", err)
	}
	return result, nil
}

// ListOpenByDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListOpenByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE date = $1
		  AND clock_out IS NULL
		  AND NOT not_enough_hours
		ORDER BY employee_code ASC
	`

	result, err := a.list(ctx, query, dateArg(date))
	if err != nil {
		return nil, fmt.Errorf("failed to list open attendances: %w", err)
	}
	return result, nil
}

// MarkCheckIn implements attendance.AttendanceRepository.
func (a *attendanceRepository) MarkCheckIn(ctx context.Context, id string, clockIn time.Time, lateMinutes int) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET clock_in = $2, late_minutes = $3, updated_at = NOW()
		WHERE id = $1
		  AND clock_in IS NULL
		RETURNING ` + attendanceColumns

	att, err := a.scan(q.QueryRow(ctx, query, id, clockIn, lateMinutes))
	if err == nil {
		return att, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return attendance.Attendance{}, fmt.Errorf("failed to check in: %w", err)
	}

	// The guard failed: either the row is gone or someone checked in first.
	if _, err := a.getByID(ctx, id); err != nil {
		return attendance.Attendance{}, err
	}
	return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
}

// MarkCheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) MarkCheckOut(ctx context.Context, id string, update attendance.CheckOutUpdate) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET clock_out = $2, work_hours = $3, missing_hours = $4, day_type = $5, updated_at = NOW()
		WHERE id = $1
		  AND clock_in IS NOT NULL
		  AND clock_out IS NULL
		  AND NOT not_enough_hours
		RETURNING ` + attendanceColumns

	att, err := a.scan(q.QueryRow(ctx, query, id, update.ClockOut, update.WorkHours, update.MissingHours, update.DayType))
	if err == nil {
		return att, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return attendance.Attendance{}, fmt.Errorf("failed to check out: %w", err)
	}

	current, err := a.getByID(ctx, id)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if !current.CheckedIn() {
		return attendance.Attendance{}, attendance.ErrNotCheckedIn
	}
	return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
}

// CloseAsAbsent implements attendance.AttendanceRepository.
func (a *attendanceRepository) CloseAsAbsent(ctx context.Context, id string, missingHours decimal.Decimal, note string) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET day_type = $2, not_enough_hours = TRUE, missing_hours = $3, note = $4, updated_at = NOW()
		WHERE id = $1
		  AND clock_out IS NULL
		  AND NOT not_enough_hours
	`

	tag, err := q.Exec(ctx, query, id, attendance.DayTypeAbsent, missingHours, note)
	if err != nil {
		return false, fmt.Errorf("failed to close attendance: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	if _, err := a.getByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}
