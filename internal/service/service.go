package service

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"complytrack/internal/metrics"
)

var (
	ErrIDRequired           = errors.New("id is required")
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("access denied")
	ErrOrganizationRequired = errors.New("organization is required")
	ErrReaderNil            = errors.New("reader is nil")
	ErrInvalidFileType      = errors.New("invalid file type")
	ErrUnknownReminderType  = errors.New("unknown reminder type")
	ErrNoRecipient          = errors.New("no recipient for organization")
)

// options carries the collaborators every service accepts but none requires.
type options struct {
	now     func() time.Time
	loc     *time.Location
	log     *zap.Logger
	metrics *metrics.Metrics
}

// Option configures optional service collaborators.
type Option func(*options)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLocation sets the zone used to derive "today". Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.loc = loc }
}

func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, loc: time.Local, log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.loc == nil {
		o.loc = time.Local
	}
	return o
}

func (o options) today() time.Time {
	return Today(o.now(), o.loc)
}
