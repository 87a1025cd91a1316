package http

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/cron"
	"github.com/go-chi/chi/v5"
)

// JobRunner is the part of the scheduler exposed to operators.
type JobRunner interface {
	Jobs() []cron.JobInfo
	RunByName(ctx context.Context, name string) (cron.JobReport, error)
}

type JobHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Run(w http.ResponseWriter, r *http.Request)
}

type jobHandlerImpl struct {
	runner JobRunner
}

func NewJobHandler(runner JobRunner) JobHandler {
	return &jobHandlerImpl{runner: runner}
}

func (h *jobHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.runner.Jobs())
}

// Run executes the job synchronously and returns its report.
func (h *jobHandlerImpl) Run(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	report, err := h.runner.RunByName(r.Context(), name)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Job finished", report)
}
