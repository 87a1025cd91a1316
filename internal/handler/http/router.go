package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	JWTService jwt.Service,
	allowedOrigins []string,
	env string,
	logLevel slog.Level,
	attendanceHandler AttendanceHandler,
	payrollHandler PayrollHandler,
	jobHandler JobHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       logLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-payroll-engine"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Get("/my", attendanceHandler.GetMyAttendance)
				r.Get("/my/summary", attendanceHandler.GetMySummary)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/employees/{code}", attendanceHandler.GetEmployeeAttendance)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/my", payrollHandler.GetMyPayroll)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", payrollHandler.CreatePayroll)
					r.Post("/calculate", payrollHandler.CalculatePayroll)
					r.Get("/", payrollHandler.ListPayrollRecords)
					r.Get("/export", payrollHandler.ExportPayroll)
					r.Get("/{id}", payrollHandler.GetPayrollRecord)
					r.Get("/{id}/payslip", payrollHandler.GetPayslip)
				})
			})

			r.Route("/jobs", func(r chi.Router) {
				r.Use(middleware.RequireManager)
				r.Get("/", jobHandler.List)
				r.Post("/{name}/run", jobHandler.Run)
			})
		})
	})
	return r
}
