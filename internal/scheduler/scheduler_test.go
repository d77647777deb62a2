package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"complytrack/internal/config"
	"complytrack/internal/metrics"
	repoMocks "complytrack/internal/repository/mocks"
	svcMocks "complytrack/internal/service/mocks"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// 09:30 UTC, half an hour after the daily reminder slot.
var tick = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func newScheduler(runs *repoMocks.MockJobRunRepository, opts ...Option) *Scheduler {
	return New(runs, append([]Option{WithLocation(time.UTC)}, opts...)...)
}

func TestRegister(t *testing.T) {
	s := newScheduler(new(repoMocks.MockJobRunRepository))
	noop := func(context.Context, time.Time) error { return nil }

	require.NoError(t, s.Register("b", "0 9 * * *", noop))
	require.NoError(t, s.Register("a", "@daily", noop))
	require.NoError(t, s.Register("b", "0 10 * * *", noop))

	assert.Equal(t, []string{"a", "b"}, s.Jobs())
	assert.Equal(t, "0 10 * * *", s.jobs["b"].spec)

	assert.Error(t, s.Register("c", "not a cron", noop))
	assert.Error(t, s.Register("", "@daily", noop))
	assert.Error(t, s.Register("d", "@daily", nil))
}

func TestRunDue(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		spec       string
		setupMocks func(m *repoMocks.MockJobRunRepository)
		jobErr     error
		wantRun    bool
	}{
		{
			name: "never ran catches up once",
			spec: "0 9 * * *",
			setupMocks: func(m *repoMocks.MockJobRunRepository) {
				m.On("LastSuccess", ctx, "job").Return(time.Time{}, false, nil)
				m.On("MarkSuccess", mock.Anything, "job", tick).Return(nil).Once()
			},
			wantRun: true,
		},
		{
			name: "missed slot after downtime",
			spec: "0 9 * * *",
			setupMocks: func(m *repoMocks.MockJobRunRepository) {
				m.On("LastSuccess", ctx, "job").Return(tick.Add(-72*time.Hour), true, nil)
				m.On("MarkSuccess", mock.Anything, "job", tick).Return(nil).Once()
			},
			wantRun: true,
		},
		{
			name: "already ran today",
			spec: "0 9 * * *",
			setupMocks: func(m *repoMocks.MockJobRunRepository) {
				m.On("LastSuccess", ctx, "job").Return(time.Date(2026, 10, 17, 9, 0, 30, 0, time.UTC), true, nil)
			},
		},
		{
			name: "slot not reached yet",
			spec: "0 12 * * *",
			setupMocks: func(m *repoMocks.MockJobRunRepository) {
				m.On("LastSuccess", ctx, "job").Return(time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC), true, nil)
			},
		},
		{
			name: "failed run leaves marker untouched",
			spec: "0 9 * * *",
			setupMocks: func(m *repoMocks.MockJobRunRepository) {
				m.On("LastSuccess", ctx, "job").Return(time.Time{}, false, nil)
			},
			jobErr:  errors.New("boom"),
			wantRun: true,
		},
		{
			name: "marker lookup failure skips job",
			spec: "0 9 * * *",
			setupMocks: func(m *repoMocks.MockJobRunRepository) {
				m.On("LastSuccess", ctx, "job").Return(time.Time{}, false, errors.New("db down"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRuns := new(repoMocks.MockJobRunRepository)
			tt.setupMocks(mRuns)
			s := newScheduler(mRuns)

			var calls atomic.Int32
			require.NoError(t, s.Register("job", tt.spec, func(_ context.Context, now time.Time) error {
				calls.Add(1)
				assert.Equal(t, tick, now)
				return tt.jobErr
			}))

			started := s.RunDue(ctx, tick)
			s.Wait()

			if tt.wantRun {
				assert.Equal(t, []string{"job"}, started)
				assert.Equal(t, int32(1), calls.Load())
			} else {
				assert.Empty(t, started)
				assert.Equal(t, int32(0), calls.Load())
			}
			mRuns.AssertExpectations(t)
			if tt.jobErr != nil {
				mRuns.AssertNotCalled(t, "MarkSuccess", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestRunDue_UsesLocation(t *testing.T) {
	ctx := context.Background()
	mRuns := new(repoMocks.MockJobRunRepository)
	// 09:00 in UTC+9 is 00:00 UTC, so by 09:30 UTC the slot has long passed.
	tokyo := time.FixedZone("JST", 9*60*60)
	mRuns.On("LastSuccess", ctx, "job").Return(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), true, nil)
	mRuns.On("MarkSuccess", mock.Anything, "job", tick).Return(nil)

	s := New(mRuns, WithLocation(tokyo))
	require.NoError(t, s.Register("job", "0 9 * * *", func(context.Context, time.Time) error { return nil }))

	started := s.RunDue(ctx, tick)
	s.Wait()

	assert.Equal(t, []string{"job"}, started)
	mRuns.AssertExpectations(t)
}

func TestRunDue_SkipsOverlappingRun(t *testing.T) {
	ctx := context.Background()
	mRuns := new(repoMocks.MockJobRunRepository)
	mRuns.On("LastSuccess", ctx, "slow").Return(time.Time{}, false, nil)
	mRuns.On("MarkSuccess", mock.Anything, "slow", mock.Anything).Return(nil).Once()

	release := make(chan struct{})
	var calls atomic.Int32
	s := newScheduler(mRuns)
	require.NoError(t, s.Register("slow", "0 9 * * *", func(ctx context.Context, _ time.Time) error {
		calls.Add(1)
		<-release
		return nil
	}))

	assert.Equal(t, []string{"slow"}, s.RunDue(ctx, tick))
	assert.Empty(t, s.RunDue(ctx, tick.Add(time.Minute)))

	close(release)
	s.Wait()
	assert.Equal(t, int32(1), calls.Load())
	mRuns.AssertExpectations(t)
}

func TestRunDue_RecordsMetrics(t *testing.T) {
	ctx := context.Background()
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)

	mRuns := new(repoMocks.MockJobRunRepository)
	mRuns.On("LastSuccess", ctx, mock.Anything).Return(time.Time{}, false, nil)
	mRuns.On("MarkSuccess", mock.Anything, "ok", tick).Return(nil)

	s := newScheduler(mRuns, WithMetrics(m))
	require.NoError(t, s.Register("ok", "0 9 * * *", func(context.Context, time.Time) error { return nil }))
	require.NoError(t, s.Register("bad", "0 9 * * *", func(context.Context, time.Time) error { return errors.New("x") }))

	s.RunDue(ctx, tick)
	s.Wait()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.JobRuns.WithLabelValues("ok", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.JobRuns.WithLabelValues("bad", "error")))
}

func TestRun_StopsOnCancel(t *testing.T) {
	mRuns := new(repoMocks.MockJobRunRepository)
	mRuns.On("LastSuccess", mock.Anything, "job").Return(tick, true, nil)

	s := newScheduler(mRuns, WithInterval(10*time.Millisecond), WithClock(func() time.Time { return tick }))
	require.NoError(t, s.Register("job", "0 9 * * *", func(context.Context, time.Time) error { return nil }))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestRegisterComplianceJobs(t *testing.T) {
	ctx := context.Background()
	mRuns := new(repoMocks.MockJobRunRepository)
	mRuns.On("LastSuccess", ctx, mock.Anything).Return(time.Time{}, false, nil)
	mRuns.On("MarkSuccess", mock.Anything, JobUpdateStatuses, tick).Return(nil)
	mRuns.On("MarkSuccess", mock.Anything, JobSendReminders, tick).Return(nil)

	mSync := new(svcMocks.MockStatusSyncService)
	mSync.On("SyncAll", mock.Anything).Return(4, nil).Once()
	mReminders := new(svcMocks.MockReminderDispatcher)
	mReminders.On("RunDaily", mock.Anything, tick).Return(2, nil).Once()

	s := newScheduler(mRuns)
	require.NoError(t, RegisterComplianceJobs(s, config.SchedulerConfig{
		StatusCron:   "0 0 * * *",
		ReminderCron: "0 9 * * *",
	}, mSync, mReminders))

	assert.Equal(t, []string{JobSendReminders, JobUpdateStatuses}, s.Jobs())

	s.RunDue(ctx, tick)
	s.Wait()

	mSync.AssertExpectations(t)
	mReminders.AssertExpectations(t)
	mRuns.AssertExpectations(t)
}

func TestRegisterComplianceJobs_BadCron(t *testing.T) {
	s := newScheduler(new(repoMocks.MockJobRunRepository))
	err := RegisterComplianceJobs(s, config.SchedulerConfig{StatusCron: "bogus", ReminderCron: "0 9 * * *"},
		new(svcMocks.MockStatusSyncService), new(svcMocks.MockReminderDispatcher))
	assert.ErrorContains(t, err, JobUpdateStatuses)
}
