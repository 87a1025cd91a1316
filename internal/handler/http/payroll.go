package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/clock"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	// Payroll Records
	CreatePayroll(w http.ResponseWriter, r *http.Request)
	CalculatePayroll(w http.ResponseWriter, r *http.Request)
	GetPayrollRecord(w http.ResponseWriter, r *http.Request)
	ListPayrollRecords(w http.ResponseWriter, r *http.Request)
	GetMyPayroll(w http.ResponseWriter, r *http.Request)

	// Documents
	ExportPayroll(w http.ResponseWriter, r *http.Request)
	GetPayslip(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
	clock          clock.Clock
}

func NewPayrollHandler(payrollService payroll.PayrollService, clk clock.Clock) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService, clock: clk}
}

// ========== PAYROLL RECORDS ==========

func (h *payrollHandlerImpl) CreatePayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreatePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CreatePayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll record created", result)
}

func (h *payrollHandlerImpl) CalculatePayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.CalculatePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CreateOrGetPayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetPayrollRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.payrollService.GetPayroll(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListPayrollRecords returns the refreshed record of one employee when
// employee_code is given, otherwise the stored records of the period.
func (h *payrollHandlerImpl) ListPayrollRecords(w http.ResponseWriter, r *http.Request) {
	month, year, err := periodFromQuery(r, h.clock.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := payroll.PayrollFilter{
		Month:        month,
		Year:         year,
		EmployeeCode: r.URL.Query().Get("employee_code"),
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if filter.EmployeeCode != "" {
		result, err := h.payrollService.GetPayrollByEmployeePeriod(r.Context(), filter.EmployeeCode, month, year)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, result)
		return
	}

	result, err := h.payrollService.ListPayroll(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetMyPayroll(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing caller identity")
		return
	}

	month, year, err := optionalPeriodFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.CreateOrGetPayroll(r.Context(), payroll.CalculatePayrollRequest{
		EmployeeCode: caller.EmployeeCode,
		Month:        month,
		Year:         year,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== DOCUMENTS ==========

func (h *payrollHandlerImpl) ExportPayroll(w http.ResponseWriter, r *http.Request) {
	month, year, err := periodFromQuery(r, h.clock.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	file, err := h.payrollService.ExportPayroll(r.Context(), payroll.ExportPayrollRequest{
		Month:  month,
		Year:   year,
		Format: r.URL.Query().Get("format"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Content)
}

func (h *payrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	file, err := h.payrollService.ExportPayslip(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Content)
}
