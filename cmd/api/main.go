package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/config"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	appHTTP "github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/repository/memory"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/attendance"
	payrollService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/payroll"
	"github.com/shopspring/decimal"
)

// repositories groups the storage adapters selected by APP_STORAGE.
type repositories struct {
	transactor database.Transactor
	attendance attendance.AttendanceRepository
	payroll    payroll.PayrollRepository
	directory  employee.Directory
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	clk, err := clock.New(cfg.App.Timezone)
	if err != nil {
		log.Fatal("Failed to load timezone:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg, clk.Location())
	if err != nil {
		log.Fatal("Failed to initialize storage:", err)
	}
	defer repos.close()

	policy := newPolicy(cfg.Attendance)
	calculator := newCalculator(cfg.Payroll, cfg.Attendance)

	attendanceSvc := attendanceService.NewAttendanceService(repos.attendance, repos.directory, clk, policy)
	payrollSvc := payrollService.NewPayrollService(repos.transactor, repos.payroll, repos.attendance, repos.directory, clk, policy, calculator)

	scheduler := cron.NewScheduler(clk.Location())
	attendanceJobs := cron.NewAttendanceJobs(repos.attendance, repos.directory, clk, policy, cfg.Schedule.WorkerLimit)
	if err := attendanceJobs.RegisterJobs(scheduler, cfg.Schedule.DailyPlaceholder, cfg.Schedule.PreviousDaySweep); err != nil {
		log.Fatal("Failed to register attendance jobs:", err)
	}
	archive, err := storage.NewLocalStorage(cfg.App.ArchivePath)
	if err != nil {
		log.Fatal("Failed to initialize archive storage:", err)
	}
	payrollJobs := cron.NewPayrollJobs(payrollSvc, repos.directory, clk, archive, cfg.Schedule.WorkerLimit)
	if err := payrollJobs.RegisterJobs(scheduler, cfg.Schedule.MonthlyPayroll, cfg.Schedule.PayrollArchive); err != nil {
		log.Fatal("Failed to register payroll jobs:", err)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	router := appHTTP.NewRouter(
		JWTService,
		cfg.App.CORSOrigins,
		cfg.App.Env,
		cfg.SlogLevel(),
		appHTTP.NewAttendanceHandler(attendanceSvc, clk),
		appHTTP.NewPayrollHandler(payrollSvc, clk),
		appHTTP.NewJobHandler(scheduler),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	scheduler.Start()

	go func() {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.App.Storage, "timezone", cfg.App.Timezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
	scheduler.Stop()
}

func openRepositories(ctx context.Context, cfg *config.Config, loc *time.Location) (repositories, error) {
	switch cfg.App.Storage {
	case config.StorageMemory:
		directory := memory.NewDirectory()
		if cfg.App.SeedFile != "" {
			f, err := os.Open(cfg.App.SeedFile)
			if err != nil {
				return repositories{}, fmt.Errorf("failed to open seed file: %w", err)
			}
			defer f.Close()

			n, err := directory.LoadCSV(f)
			if err != nil {
				return repositories{}, err
			}
			slog.Info("Loaded employees", "count", n, "file", cfg.App.SeedFile)
		}
		return repositories{
			transactor: memory.NewTransactor(),
			attendance: memory.NewAttendanceRepository(),
			payroll:    memory.NewPayrollRepository(),
			directory:  directory,
			close:      func() {},
		}, nil

	case config.StoragePostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), cfg.Database.MaxConns)
		if err != nil {
			return repositories{}, fmt.Errorf("failed to connect to database: %w", err)
		}
		return repositories{
			transactor: postgresql.NewTransactor(db),
			attendance: postgresql.NewAttendanceRepository(db, loc),
			payroll:    postgresql.NewPayrollRepository(db),
			directory:  postgresql.NewEmployeeDirectory(db),
			close:      db.Close,
		}, nil

	default:
		return repositories{}, fmt.Errorf("unsupported storage: %s", cfg.App.Storage)
	}
}

func newPolicy(cfg config.AttendanceConfig) attendance.Policy {
	return attendance.Policy{
		WorkStart:            cfg.WorkStart,
		StandardHours:        decimal.NewFromFloat(cfg.StandardHours),
		HalfDayHours:         decimal.NewFromFloat(cfg.HalfDayHours),
		OvertimeMinimumHours: decimal.NewFromFloat(cfg.OvertimeMinimumHours),
		SweepMissingHours:    decimal.NewFromFloat(cfg.SweepMissingHours),
	}
}

func newCalculator(cfg config.PayrollConfig, att config.AttendanceConfig) payroll.Calculator {
	return payroll.Calculator{
		Manager:             payroll.RoleRates(cfg.Manager),
		Employee:            payroll.RoleRates(cfg.Employee),
		AbsenceDayRate:      cfg.AbsenceDayRate,
		LateMinuteRate:      cfg.LateMinuteRate,
		MissingHourRate:     cfg.MissingHourRate,
		OvertimeHourRate:    cfg.OvertimeHourRate,
		PersonalDeduction:   cfg.PersonalDeduction,
		LateAllowancePerDay: att.LateAllowancePerDayMin,
		TaxTable:            payroll.DefaultTaxTable(),
	}
}
