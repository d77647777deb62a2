package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the domain counters for scheduled jobs and reminder delivery.
// HTTP request metrics live with the HTTP middleware.
type Metrics struct {
	JobRuns          *prometheus.CounterVec
	JobDuration      *prometheus.HistogramVec
	RemindersSent    *prometheus.CounterVec
	ReminderFailures *prometheus.CounterVec
	StatusesSynced   prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		JobRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scheduler_job_runs_total",
				Help: "Scheduled job executions by job name and result.",
			},
			[]string{"job", "result"},
		),
		JobDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scheduler_job_duration_seconds",
				Help:    "Duration of scheduled job executions.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"job"},
		),
		RemindersSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reminders_sent_total",
				Help: "Reminder emails delivered and logged, by reminder type.",
			},
			[]string{"type"},
		),
		ReminderFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reminder_failures_total",
				Help: "Reminder emails that failed to send or log, by reminder type.",
			},
			[]string{"type"},
		),
		StatusesSynced: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "requirement_status_changes_total",
				Help: "Requirement status changes persisted by sync passes.",
			},
		),
	}

	for _, c := range []prometheus.Collector{m.JobRuns, m.JobDuration, m.RemindersSent, m.ReminderFailures, m.StatusesSynced} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// The helpers below are nil-safe so callers can run without metrics wired.

func (m *Metrics) JobFinished(job string, ok bool, seconds float64) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "error"
	}
	m.JobRuns.WithLabelValues(job, result).Inc()
	m.JobDuration.WithLabelValues(job).Observe(seconds)
}

func (m *Metrics) ReminderSent(reminderType string) {
	if m == nil {
		return
	}
	m.RemindersSent.WithLabelValues(reminderType).Inc()
}

func (m *Metrics) ReminderFailed(reminderType string) {
	if m == nil {
		return
	}
	m.ReminderFailures.WithLabelValues(reminderType).Inc()
}

func (m *Metrics) StatusChanges(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.StatusesSynced.Add(float64(n))
}
