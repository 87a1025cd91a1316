package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/repository/memory"
	attendancesvc "github.com/cmlabs-hris/hris-payroll-engine/internal/service/attendance"
	payrollsvc "github.com/cmlabs-hris/hris-payroll-engine/internal/service/payroll"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	router  *chi.Mux
	tokens  jwt.Service
	clock   *clock.Fixed
	payroll *memory.PayrollRepository
}

func newAPIFixture(t *testing.T) apiFixture {
	t.Helper()

	ict := time.FixedZone("ICT", 7*3600)
	dir := memory.NewDirectory()
	dir.Add(employee.Employee{EmployeeCode: "EMP-1", FullName: "Linh Tran"}, employee.RoleStaff)
	dir.Add(employee.Employee{EmployeeCode: "MGR-1", FullName: "Minh Pham"}, employee.RoleManager)

	attRepo := memory.NewAttendanceRepository()
	payRepo := memory.NewPayrollRepository()
	clk := clock.NewFixed(time.Date(2024, 3, 4, 8, 45, 0, 0, ict))
	policy := attendance.DefaultPolicy()

	calc := payroll.Calculator{
		Manager:             payroll.RoleRates{FullDay: decimal.NewFromInt(800000), HalfDay: decimal.NewFromInt(400000)},
		Employee:            payroll.RoleRates{FullDay: decimal.NewFromInt(500000), HalfDay: decimal.NewFromInt(250000)},
		LateMinuteRate:      decimal.NewFromInt(5000),
		MissingHourRate:     decimal.NewFromInt(50000),
		OvertimeHourRate:    decimal.NewFromInt(100000),
		PersonalDeduction:   decimal.NewFromInt(11000000),
		LateAllowancePerDay: 30,
		TaxTable:            payroll.DefaultTaxTable(),
	}

	attendanceService := attendancesvc.NewAttendanceService(attRepo, dir, clk, policy)
	payrollService := payrollsvc.NewPayrollService(memory.NewTransactor(), payRepo, attRepo, dir, clk, policy, calc)

	scheduler := cron.NewScheduler(ict)
	require.NoError(t, cron.NewAttendanceJobs(attRepo, dir, clk, policy, 2).RegisterJobs(scheduler, "0 0 * * *", "5 0 * * *"))

	tokens := jwt.NewJWTService("test-secret", "1h")
	router := NewRouter(
		tokens,
		[]string{"http://localhost:3000"},
		"test",
		slog.LevelError,
		NewAttendanceHandler(attendanceService, clk),
		NewPayrollHandler(payrollService, clk),
		NewJobHandler(scheduler),
	)

	return apiFixture{router: router, tokens: tokens, clock: clk, payroll: payRepo}
}

func (f apiFixture) do(t *testing.T, method, path, employeeCode string, role employee.Role, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if employeeCode != "" {
		token, _, err := f.tokens.GenerateAccessToken(employeeCode, role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRouter_RequiresToken(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/attendance/check-in", "", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_CheckInFlow(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/attendance/check-in", "EMP-1", employee.RoleStaff, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode(t, rec)
	assert.True(t, resp.Success)

	rec = f.do(t, http.MethodPost, "/api/v1/attendance/check-in", "EMP-1", employee.RoleStaff, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ATTENDANCE_ALREADY_CHECKIN", decode(t, rec).Error.Code)

	f.clock.Set(time.Date(2024, 3, 4, 17, 45, 0, 0, f.clock.Location()))
	rec = f.do(t, http.MethodPost, "/api/v1/attendance/check-out", "EMP-1", employee.RoleStaff, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/attendance/my", "EMP-1", employee.RoleStaff, "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec).Data.(map[string]interface{})
	assert.Equal(t, string(attendance.DayTypeOvertime), data["day_type"])
}

func TestRouter_CheckOutBeforeCheckIn(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/attendance/check-out", "EMP-1", employee.RoleStaff, "")
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	assert.Equal(t, "ATTENDANCE_NOT_CHECKIN", decode(t, rec).Error.Code)
}

func TestRouter_ManagerRoutesRejectStaff(t *testing.T) {
	f := newAPIFixture(t)

	for _, path := range []string{"/api/v1/payroll", "/api/v1/attendance/employees/MGR-1", "/api/v1/jobs"} {
		rec := f.do(t, http.MethodGet, path, "EMP-1", employee.RoleStaff, "")
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
}

func TestRouter_PayrollLifecycle(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/payroll", "MGR-1", employee.RoleManager, `{"employee_code":"EMP-1","month":3,"year":2024}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode(t, rec).Data.(map[string]interface{})["id"].(string)

	rec = f.do(t, http.MethodPost, "/api/v1/payroll", "MGR-1", employee.RoleManager, `{"employee_code":"EMP-1","month":3,"year":2024}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "PAYROLL_ALREADY_EXISTS", decode(t, rec).Error.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/payroll/"+id, "MGR-1", employee.RoleManager, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/payroll?month=3&year=2024", "MGR-1", employee.RoleManager, "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode(t, rec).Data.(map[string]interface{})
	assert.Len(t, list["records"], 1)

	rec = f.do(t, http.MethodGet, "/api/v1/payroll/export?month=3&year=2024&format=csv", "MGR-1", employee.RoleManager, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")

	rec = f.do(t, http.MethodGet, "/api/v1/payroll/"+id+"/payslip", "MGR-1", employee.RoleManager, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestRouter_PayrollErrors(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/payroll", "MGR-1", employee.RoleManager, `{"employee_code":"EMP-1","month":13,"year":2024}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/payroll?month=march", "MGR-1", employee.RoleManager, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/payroll/0190a1b2-0000-7000-8000-000000000000", "MGR-1", employee.RoleManager, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "PAYROLL_NOT_FOUND", decode(t, rec).Error.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/payroll", "MGR-1", employee.RoleManager, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_MyPayrollDefaultsToCurrentPeriod(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/payroll/my", "EMP-1", employee.RoleStaff, "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec).Data.(map[string]interface{})
	assert.EqualValues(t, 3, data["period_month"])
	assert.EqualValues(t, 2024, data["period_year"])
}

func TestRouter_RunJob(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/jobs/"+cron.JobDailyPlaceholder+"/run", "MGR-1", employee.RoleManager, "")
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode(t, rec).Data.(map[string]interface{})
	assert.EqualValues(t, 2, report["processed"])

	rec = f.do(t, http.MethodPost, "/api/v1/jobs/unknown/run", "MGR-1", employee.RoleManager, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "JOB_NOT_FOUND", decode(t, rec).Error.Code)
}
