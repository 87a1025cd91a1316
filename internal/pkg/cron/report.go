package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// JobReport is the outcome of one job run.
type JobReport struct {
	Job        string       `json:"job"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Processed  int          `json:"processed"`
	Skipped    int          `json:"skipped"`
	Failures   []JobFailure `json:"failures"`
}

// JobFailure is one item that could not be processed.
type JobFailure struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

// Log writes the report at info level, or warn when there were failures.
func (r JobReport) Log() {
	attrs := []any{
		"name", r.Job,
		"processed", r.Processed,
		"skipped", r.Skipped,
		"failed", len(r.Failures),
		"duration", r.FinishedAt.Sub(r.StartedAt),
	}
	if len(r.Failures) > 0 {
		slog.Warn("Cron: job finished with failures", append(attrs, "failures", r.Failures)...)
		return
	}
	slog.Info("Cron: job finished", attrs...)
}

// outcome of processing one item
type outcome int

const (
	outcomeProcessed outcome = iota
	outcomeSkipped
)

type collector struct {
	mu     sync.Mutex
	report JobReport
}

func (c *collector) record(key string, o outcome, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case err != nil:
		c.report.Failures = append(c.report.Failures, JobFailure{Key: key, Error: err.Error()})
	case o == outcomeSkipped:
		c.report.Skipped++
	default:
		c.report.Processed++
	}
}

// fanOut runs fn for every item with at most limit in flight. A failing or
// panicking item is recorded and the remaining items still run.
func fanOut[T any](ctx context.Context, limit int, items []T, key func(T) string, fn func(context.Context, T) (outcome, error)) JobReport {
	c := &collector{report: JobReport{StartedAt: time.Now(), Failures: []JobFailure{}}}
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, item := range items {
		item := item
		g.Go(func() error {
			k := key(item)
			defer func() {
				if p := recover(); p != nil {
					c.record(k, outcomeProcessed, fmt.Errorf("panic: %v", p))
				}
			}()

			o, err := fn(gctx, item)
			if err != nil {
				slog.Error("Cron: item failed", "key", k, "error", err)
			}
			c.record(k, o, err)
			return nil
		})
	}
	_ = g.Wait()

	c.report.FinishedAt = time.Now()
	return c.report
}
