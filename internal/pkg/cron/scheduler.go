package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/apperror"
	"github.com/robfig/cron/v3"
)

var (
	ErrJobNotFound       = apperror.New(apperror.ErrNotFound, "JOB_NOT_FOUND", "job not found")
	ErrJobAlreadyRunning = apperror.New(apperror.ErrConflict, "JOB_ALREADY_RUNNING", "job is already running")
)

// JobFunc is one run of a batch job.
type JobFunc func(ctx context.Context) (JobReport, error)

// Timer registers jobs against cron expressions.
type Timer interface {
	OnSchedule(name, spec string, fn JobFunc) error
}

// Job represents a scheduled job
type Job struct {
	Name     string
	Spec     string
	Schedule cron.Schedule
	Fn       JobFunc

	running *sync.Mutex
}

// JobInfo describes a registered job.
type JobInfo struct {
	Name    string    `json:"name"`
	Spec    string    `json:"spec"`
	NextRun time.Time `json:"next_run"`
}

// Scheduler manages scheduled jobs
type Scheduler struct {
	jobs   map[string]Job
	loc    *time.Location
	now    func() time.Time
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

var _ Timer = (*Scheduler)(nil)

// NewScheduler creates a new cron scheduler evaluating specs in loc
func NewScheduler(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:   make(map[string]Job),
		loc:    loc,
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
	}
}

// OnSchedule adds a job to the scheduler. spec is a standard five field cron expression.
func (s *Scheduler) OnSchedule(name, spec string, fn JobFunc) error {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("invalid cron spec %q for job %s: %w", spec, name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}
	s.jobs[name] = Job{
		Name:     name,
		Spec:     spec,
		Schedule: schedule,
		Fn:       fn,
		running:  &sync.Mutex{},
	}
	slog.Info("Cron job registered", "name", name, "spec", spec)
	return nil
}

// Jobs lists registered jobs with their next run in the scheduler timezone.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().In(s.loc)
	infos := make([]JobInfo, 0, len(s.jobs))
	for _, job := range s.jobs {
		infos = append(infos, JobInfo{Name: job.Name, Spec: job.Spec, NextRun: job.Schedule.Next(now)})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Start begins running all scheduled jobs
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runJob(job)
	}

	slog.Info("Cron scheduler started", "job_count", len(s.jobs), "timezone", s.loc.String())
}

// Stop gracefully stops all scheduled jobs
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler...")
	s.cancel()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

// runJob sleeps until each next activation of the job's schedule
func (s *Scheduler) runJob(job Job) {
	defer s.wg.Done()

	for {
		now := s.now().In(s.loc)
		next := job.Schedule.Next(now)
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-s.ctx.Done():
			timer.Stop()
			slog.Info("Cron job stopping", "name", job.Name)
			return
		case <-timer.C:
			_, _ = s.executeJob(s.ctx, job)
		}
	}
}

// executeJob executes a job and logs results. Runs of one job never overlap.
func (s *Scheduler) executeJob(ctx context.Context, job Job) (JobReport, error) {
	if !job.running.TryLock() {
		slog.Warn("Cron job skipped, previous run still active", "name", job.Name)
		return JobReport{}, ErrJobAlreadyRunning
	}
	defer job.running.Unlock()

	start := time.Now()
	slog.Debug("Cron job starting", "name", job.Name)

	report, err := job.Fn(ctx)
	report.Job = job.Name
	if err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
		return report, err
	}

	report.Log()
	slog.Debug("Cron job completed", "name", job.Name, "duration", time.Since(start))
	return report, nil
}

// RunByName runs one job immediately, outside its schedule
func (s *Scheduler) RunByName(ctx context.Context, name string) (JobReport, error) {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()

	if !ok {
		return JobReport{}, ErrJobNotFound
	}
	return s.executeJob(ctx, job)
}

// RunOnce runs all jobs once (useful for testing)
func (s *Scheduler) RunOnce(ctx context.Context) map[string]JobReport {
	s.mu.Lock()
	jobs := make([]Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	s.mu.Unlock()
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })

	reports := make(map[string]JobReport, len(jobs))
	for _, job := range jobs {
		report, err := s.executeJob(ctx, job)
		if err != nil {
			continue
		}
		reports[job.Name] = report
	}
	return reports
}
