package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"complytrack/internal/mailer"
	"complytrack/internal/model"
	"complytrack/internal/repository"
)

var tracer = otel.Tracer("complytrack/internal/service")

// reminderThresholds maps days-until-expiry to the reminder fired on that day.
var reminderThresholds = map[int]model.ReminderType{
	0:  model.ReminderDayOf,
	7:  model.ReminderSevenDay,
	30: model.ReminderThirtyDay,
}

// DedupWindow is the lookback during which a repeat reminder of a type is suppressed.
func DedupWindow(t model.ReminderType) time.Duration {
	if t == model.ReminderDayOf {
		return 12 * time.Hour
	}
	return 24 * time.Hour
}

// ReminderTypeFor returns the reminder due daysUntilExpiry days before expiration, if any.
func ReminderTypeFor(daysUntilExpiry int) (model.ReminderType, bool) {
	t, ok := reminderThresholds[daysUntilExpiry]
	return t, ok
}

// ReminderDeduplicator answers whether a reminder was already handled.
type ReminderDeduplicator struct {
	logs repository.ReminderLogRepository
}

func NewReminderDeduplicator(logs repository.ReminderLogRepository) *ReminderDeduplicator {
	return &ReminderDeduplicator{logs: logs}
}

// AlreadySent reports true when a reminder of this type was logged for req either against
// its current expiration date or within the type's lookback window ending at now.
func (d *ReminderDeduplicator) AlreadySent(ctx context.Context, req *model.Requirement, t model.ReminderType, now time.Time) (bool, error) {
	sent, err := d.logs.ExistsForCycle(ctx, req.ID, t, model.DateOf(req.ExpirationDate))
	if err != nil {
		return false, fmt.Errorf("check reminder cycle: %w", err)
	}
	if sent {
		return true, nil
	}

	sent, err = d.logs.ExistsSince(ctx, req.ID, t, now.Add(-DedupWindow(t)))
	if err != nil {
		return false, fmt.Errorf("check reminder window: %w", err)
	}
	return sent, nil
}

// ReminderDispatcher decides which reminders are due and sends them.
type ReminderDispatcher interface {
	// RunDaily sweeps every requirement and sends the reminders due on now's date.
	// Per-requirement failures are logged and skipped; only a failed listing returns an error.
	RunDaily(ctx context.Context, now time.Time) (int, error)

	// SendTest force-sends one reminder type for a requirement of orgID, bypassing day
	// matching and dedup. An empty recipient resolves to the organization's recipient.
	SendTest(ctx context.Context, orgID, requirementID, recipient string, t model.ReminderType) error
}

type reminderDispatcher struct {
	requirements  repository.RequirementRepository
	organizations repository.OrganizationRepository
	logs          repository.ReminderLogRepository
	dedup         *ReminderDeduplicator
	sender        mailer.Sender
	baseURL       string
	opts          options
}

// NewReminderDispatcher constructs a ReminderDispatcher. baseURL roots the deep links in emails.
func NewReminderDispatcher(
	requirements repository.RequirementRepository,
	organizations repository.OrganizationRepository,
	logs repository.ReminderLogRepository,
	sender mailer.Sender,
	baseURL string,
	opts ...Option,
) ReminderDispatcher {
	return &reminderDispatcher{
		requirements:  requirements,
		organizations: organizations,
		logs:          logs,
		dedup:         NewReminderDeduplicator(logs),
		sender:        sender,
		baseURL:       baseURL,
		opts:          buildOptions(opts),
	}
}

func (d *reminderDispatcher) RunDaily(ctx context.Context, now time.Time) (int, error) {
	ctx, span := tracer.Start(ctx, "reminders.run_daily")
	defer span.End()

	reqs, err := d.requirements.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list requirements")
		return 0, fmt.Errorf("list requirements: %w", err)
	}

	today := Today(now, d.opts.loc)
	sent := 0
	for i := range reqs {
		req := &reqs[i]
		days := model.DaysBetween(today, req.ExpirationDate)
		t, due := ReminderTypeFor(days)
		if !due {
			continue
		}

		log := d.opts.log.With(
			zap.String("component", "reminders"),
			zap.String("requirement_id", req.ID),
			zap.String("reminder_type", string(t)),
		)

		ok, err := d.dispatchOne(ctx, req, t, days, now, log)
		if err != nil {
			d.opts.metrics.ReminderFailed(string(t))
			log.Error("reminder_failed", zap.String("status", "error"), zap.Error(err))
			continue
		}
		if ok {
			sent++
			d.opts.metrics.ReminderSent(string(t))
			log.Info("reminder_sent", zap.String("status", "success"))
		}
	}

	span.SetAttributes(
		attribute.Int("requirements.scanned", len(reqs)),
		attribute.Int("reminders.sent", sent),
	)
	return sent, nil
}

// dispatchOne handles a single due requirement. It returns false without error when the
// reminder is skipped (no recipient, or already sent).
func (d *reminderDispatcher) dispatchOne(ctx context.Context, req *model.Requirement, t model.ReminderType, days int, now time.Time, log *zap.Logger) (bool, error) {
	recipient, err := d.organizations.Recipient(ctx, req.OrganizationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("reminder_skipped", zap.String("reason", "no_recipient"))
			return false, nil
		}
		return false, fmt.Errorf("resolve recipient: %w", err)
	}

	already, err := d.dedup.AlreadySent(ctx, req, t, now)
	if err != nil {
		return false, err
	}
	if already {
		log.Debug("reminder_skipped", zap.String("reason", "already_sent"))
		return false, nil
	}

	if err := d.send(ctx, req, t, days, recipient.Email, now); err != nil {
		return false, err
	}

	entry := &model.ReminderLog{
		ID:            uuid.NewString(),
		RequirementID: req.ID,
		ReminderType:  t,
		CycleDate:     model.DateOf(req.ExpirationDate),
		SentAt:        now.UTC(),
		EmailTo:       recipient.Email,
	}
	if err := d.logs.Append(ctx, entry); err != nil {
		return false, fmt.Errorf("append reminder log: %w", err)
	}
	return true, nil
}

// send renders and delivers one reminder. The status in the email is reclassified for now,
// so it never shows a value older than the send itself.
func (d *reminderDispatcher) send(ctx context.Context, req *model.Requirement, t model.ReminderType, days int, to string, now time.Time) error {
	view := *req
	view.Status = Classify(req.ExpirationDate, req.HasDocuments(), Today(now, d.opts.loc))

	email, err := RenderReminder(&view, t, days, d.baseURL)
	if err != nil {
		return err
	}
	if err := d.sender.Send(ctx, to, email.Subject, email.HTML); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}
	return nil
}

func (d *reminderDispatcher) SendTest(ctx context.Context, orgID, requirementID, recipient string, t model.ReminderType) error {
	if orgID == "" {
		return ErrOrganizationRequired
	}
	if requirementID == "" {
		return ErrIDRequired
	}
	if _, ok := model.ParseReminderType(string(t)); !ok {
		return ErrUnknownReminderType
	}

	req, err := d.requirements.FindByID(ctx, requirementID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if req.OrganizationID != orgID {
		return ErrForbidden
	}

	if recipient == "" {
		u, err := d.organizations.Recipient(ctx, orgID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNoRecipient
			}
			return fmt.Errorf("resolve recipient: %w", err)
		}
		recipient = u.Email
	}

	now := d.opts.now()
	days := model.DaysBetween(Today(now, d.opts.loc), req.ExpirationDate)
	if err := d.send(ctx, req, t, days, recipient, now); err != nil {
		d.opts.metrics.ReminderFailed(string(t))
		return err
	}
	d.opts.log.Info("test_reminder_sent",
		zap.String("component", "reminders"),
		zap.String("requirement_id", req.ID),
		zap.String("reminder_type", string(t)),
	)
	return nil
}
