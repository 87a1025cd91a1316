package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	GetMySummary(w http.ResponseWriter, r *http.Request)
	GetEmployeeAttendance(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	clock             clock.Clock
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, clk clock.Clock) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		clock:             clk,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing caller identity")
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), caller.EmployeeCode)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check in successful", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing caller identity")
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), caller.EmployeeCode)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check out successful", result)
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing caller identity")
		return
	}
	h.writeAttendance(w, r, caller.EmployeeCode)
}

// GetEmployeeAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetEmployeeAttendance(w http.ResponseWriter, r *http.Request) {
	h.writeAttendance(w, r, chi.URLParam(r, "code"))
}

// writeAttendance answers ?from=&to= with a range, ?date= with one day, and
// defaults to today.
func (h *attendanceHandlerImpl) writeAttendance(w http.ResponseWriter, r *http.Request, employeeCode string) {
	ctx := r.Context()
	query := r.URL.Query()

	if query.Get("from") != "" || query.Get("to") != "" {
		filter := attendance.RangeFilter{
			EmployeeCode: employeeCode,
			From:         query.Get("from"),
			To:           query.Get("to"),
		}
		if err := filter.Validate(h.clock.Location()); err != nil {
			response.HandleError(w, err)
			return
		}

		result, err := h.attendanceService.GetAttendanceRange(ctx, filter)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, result)
		return
	}

	date := h.clock.Today()
	if d := query.Get("date"); d != "" {
		parsed, err := validator.ParseDateIn(d, h.clock.Location())
		if err != nil {
			response.HandleError(w, validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}})
			return
		}
		date = parsed
	}

	result, err := h.attendanceService.GetAttendance(ctx, employeeCode, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetMySummary implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMySummary(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing caller identity")
		return
	}

	month, year, err := periodFromQuery(r, h.clock.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.GetSummary(r.Context(), caller.EmployeeCode, month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// periodFromQuery reads ?month=&year=, defaulting each to now's.
func periodFromQuery(r *http.Request, now time.Time) (int, int, error) {
	month, year, err := optionalPeriodFromQuery(r)
	if err != nil {
		return 0, 0, err
	}
	if month == nil {
		m := int(now.Month())
		month = &m
	}
	if year == nil {
		y := now.Year()
		year = &y
	}
	return *month, *year, nil
}

func optionalPeriodFromQuery(r *http.Request) (*int, *int, error) {
	var errs validator.ValidationErrors

	month, err := validator.ParseOptionalInt(r.URL.Query().Get("month"))
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be a number"})
	}
	year, err := validator.ParseOptionalInt(r.URL.Query().Get("year"))
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be a number"})
	}

	if len(errs) > 0 {
		return nil, nil, errs
	}
	return month, year, nil
}
