package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"complytrack/internal/config"
	"complytrack/internal/service"
)

// RegisterComplianceJobs registers the nightly status refresh and the morning reminder sweep.
func RegisterComplianceJobs(
	s *Scheduler,
	cfg config.SchedulerConfig,
	statuses service.StatusSyncService,
	reminders service.ReminderDispatcher,
) error {
	if err := s.Register(JobUpdateStatuses, cfg.StatusCron, func(ctx context.Context, _ time.Time) error {
		n, err := statuses.SyncAll(ctx)
		if err != nil {
			return err
		}
		s.log.Info("statuses_updated", zap.String("job", JobUpdateStatuses), zap.Int("requirements", n))
		return nil
	}); err != nil {
		return err
	}

	return s.Register(JobSendReminders, cfg.ReminderCron, func(ctx context.Context, now time.Time) error {
		sent, err := reminders.RunDaily(ctx, now)
		if err != nil {
			return err
		}
		s.log.Info("reminders_dispatched", zap.String("job", JobSendReminders), zap.Int("sent", sent))
		return nil
	})
}
