// Package scheduler runs named cron jobs on a short tick, catching up missed runs
// from persisted last-success markers.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"complytrack/internal/metrics"
	"complytrack/internal/repository"
)

const (
	JobUpdateStatuses = "update_statuses"
	JobSendReminders  = "send_reminders"

	defaultInterval = time.Minute

	// firstRunLookback is the assumed last run of a job that never succeeded.
	firstRunLookback = 24 * time.Hour
)

var tracer = otel.Tracer("complytrack/internal/scheduler")

// JobFunc is the body of a scheduled job. now is the tick time the run was started for.
type JobFunc func(ctx context.Context, now time.Time) error

type job struct {
	name     string
	spec     string
	schedule cron.Schedule
	fn       JobFunc
	running  atomic.Bool
}

// Scheduler owns the job table and the tick loop. Build one per process with New.
type Scheduler struct {
	runs     repository.JobRunRepository
	interval time.Duration
	loc      *time.Location
	now      func() time.Time
	log      *zap.Logger
	metrics  *metrics.Metrics

	mu   sync.Mutex
	jobs map[string]*job
	wg   sync.WaitGroup
}

// Option configures a Scheduler.
type Option func(*Scheduler)

func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLocation sets the zone cron expressions are evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Scheduler) { s.log = log }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// New returns a Scheduler backed by runs for last-success markers.
func New(runs repository.JobRunRepository, opts ...Option) *Scheduler {
	s := &Scheduler{
		runs:     runs,
		interval: defaultInterval,
		loc:      time.Local,
		now:      time.Now,
		log:      zap.NewNop(),
		jobs:     make(map[string]*job),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("component", "scheduler"))
	return s
}

// Register adds a job under a stable name using a standard 5-field cron spec.
// Registering an existing name replaces its definition.
func (s *Scheduler) Register(name, spec string, fn JobFunc) error {
	if name == "" {
		return fmt.Errorf("job name is required")
	}
	if fn == nil {
		return fmt.Errorf("job %s: func is nil", name)
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("job %s: parse schedule %q: %w", name, spec, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[name] = &job{name: name, spec: spec, schedule: schedule, fn: fn}
	return nil
}

// Jobs returns the registered job names in lexical order.
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run ticks until ctx is cancelled, then waits for in-flight jobs. A first check
// happens immediately so a restarted process catches up without waiting a tick.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info("scheduler_started",
		zap.String("event", "startup"),
		zap.Duration("interval", s.interval),
		zap.Strings("jobs", s.Jobs()),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunDue(ctx, s.now())
	for {
		select {
		case <-ctx.Done():
			s.Wait()
			s.log.Info("scheduler_stopped", zap.String("event", "shutdown"))
			return nil
		case <-ticker.C:
			s.RunDue(ctx, s.now())
		}
	}
}

// RunDue starts every job due at now in its own goroutine and returns the names started.
// Jobs still running from an earlier tick are skipped.
func (s *Scheduler) RunDue(ctx context.Context, now time.Time) []string {
	var started []string
	for _, name := range s.Jobs() {
		s.mu.Lock()
		j, ok := s.jobs[name]
		s.mu.Unlock()
		if !ok {
			continue
		}

		due, err := s.due(ctx, j, now)
		if err != nil {
			s.log.Error("job_due_check_failed", zap.String("job", j.name), zap.Error(err))
			continue
		}
		if !due {
			continue
		}
		if !j.running.CompareAndSwap(false, true) {
			s.log.Warn("job_skipped", zap.String("job", j.name), zap.String("reason", "still_running"))
			continue
		}

		started = append(started, j.name)
		s.wg.Add(1)
		go func(j *job) {
			defer s.wg.Done()
			defer j.running.Store(false)
			s.runJob(ctx, j, now)
		}(j)
	}
	return started
}

// Wait blocks until all started jobs finish.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// due reports whether the first occurrence after the job's last success is at or before now.
func (s *Scheduler) due(ctx context.Context, j *job, now time.Time) (bool, error) {
	last, ok, err := s.runs.LastSuccess(ctx, j.name)
	if err != nil {
		return false, fmt.Errorf("load last run: %w", err)
	}
	if !ok {
		last = now.Add(-firstRunLookback)
	}
	next := j.schedule.Next(last.In(s.loc))
	return !next.After(now), nil
}

func (s *Scheduler) runJob(ctx context.Context, j *job, now time.Time) {
	ctx, span := tracer.Start(ctx, "scheduler."+j.name, trace.WithNewRoot(), trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()
	span.SetAttributes(attribute.String("job.name", j.name), attribute.String("job.schedule", j.spec))

	start := time.Now()
	err := j.fn(ctx, now)
	elapsed := time.Since(start)

	log := s.log.With(
		zap.String("job", j.name),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "job failed")
		s.metrics.JobFinished(j.name, false, elapsed.Seconds())
		log.Error("job_failed", zap.String("status", "error"), zap.Error(err))
		return
	}

	s.metrics.JobFinished(j.name, true, elapsed.Seconds())
	if err := s.runs.MarkSuccess(ctx, j.name, now); err != nil {
		// The job will run again on the next tick; jobs are idempotent.
		log.Error("job_marker_failed", zap.String("status", "error"), zap.Error(err))
		return
	}
	log.Info("job_finished", zap.String("status", "success"))
}
