// Package digest selects the reminders due today, mails one digest per recipient
// and removes the reminders that were delivered.
package digest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pathakanu/taskDigest/internal/lease"
	"github.com/pathakanu/taskDigest/internal/mail"
	"github.com/pathakanu/taskDigest/internal/model"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrDigestGenerationFailed wraps every failure of a digest run.
var ErrDigestGenerationFailed = errors.New("digest generation failed")

// LeaseName is the lease held for the duration of a run.
const LeaseName = "daily-digest"

// Repository is the subset of reminder operations a run needs.
type Repository interface {
	ListDueOn(ctx context.Context, date string) ([]model.Reminder, error)
	Delete(ctx context.Context, id string) error
}

// Alerter notifies an operator about a run that did not fully succeed.
type Alerter interface {
	Alert(ctx context.Context, text string) error
}

// Report summarises a run.
type Report struct {
	Date    string
	Sent    []string
	Failed  []string
	Deleted int
}

// Dispatcher runs the daily digest.
type Dispatcher struct {
	repo     Repository
	sender   mail.Sender
	locker   lease.Locker
	alerter  Alerter
	leaseTTL time.Duration
	logger   *zap.SugaredLogger
	now      func() time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLocker makes every run hold a lease so that concurrent triggers do not double-send.
func WithLocker(l lease.Locker, ttl time.Duration) Option {
	return func(d *Dispatcher) {
		d.locker = l
		d.leaseTTL = ttl
	}
}

// WithAlerter reports failed recipients after a run.
func WithAlerter(a Alerter) Option {
	return func(d *Dispatcher) { d.alerter = a }
}

// WithClock overrides the time source used to compute today.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(repo Repository, sender mail.Sender, logger *zap.SugaredLogger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		repo:   repo,
		sender: sender,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run mails today's digests. Each recipient is handled independently: a failed send
// leaves that recipient's reminders in place and the run moves on to the next one.
// Reminders are deleted only after their digest was accepted by the mail transport.
// Any failure is reported as ErrDigestGenerationFailed once every recipient was tried.
func (d *Dispatcher) Run(ctx context.Context) (Report, error) {
	report := Report{Date: Today(d.now())}

	if d.locker != nil {
		token, err := d.locker.Acquire(ctx, LeaseName, d.leaseTTL)
		if errors.Is(err, lease.ErrLeaseHeld) {
			d.logger.Warnw("digest run skipped", "date", report.Date, "error", err)
			return report, err
		}
		if err != nil {
			d.logger.Errorw("lease acquire failed", "date", report.Date, "error", err)
			return report, fmt.Errorf("%w: %w", ErrDigestGenerationFailed, err)
		}
		defer func() {
			if err := d.locker.Release(context.WithoutCancel(ctx), LeaseName, token); err != nil {
				d.logger.Errorw("lease release failed", "error", err)
			}
		}()
	}

	records, err := d.repo.ListDueOn(ctx, report.Date)
	if err != nil {
		d.logger.Errorw("fetch reminders failed", "date", report.Date, "error", err)
		return report, fmt.Errorf("%w: fetch reminders: %w", ErrDigestGenerationFailed, err)
	}

	batch := SelectDue(records, report.Date)
	d.logger.Infow("digest run started", "date", report.Date, "recipients", len(batch), "reminders", len(records))

	var errs error
	for _, recipient := range batch.Recipients() {
		items := batch[recipient]
		if err := d.deliver(ctx, recipient, items); err != nil {
			d.logger.Errorw("digest delivery failed", "recipient", recipient, "count", len(items), "error", err)
			report.Failed = append(report.Failed, recipient)
			errs = multierr.Append(errs, fmt.Errorf("recipient %s: %w", recipient, err))
			continue
		}
		report.Sent = append(report.Sent, recipient)

		// The digest is out; cancellation must not leave its reminders behind.
		commitCtx := context.WithoutCancel(ctx)
		for _, item := range items {
			if err := d.repo.Delete(commitCtx, item.ID); err != nil {
				d.logger.Errorw("delete delivered reminder failed", "recipient", recipient, "id", item.ID, "error", err)
				errs = multierr.Append(errs, fmt.Errorf("recipient %s: delete %s: %w", recipient, item.ID, err))
				continue
			}
			report.Deleted++
		}
	}

	d.logger.Infow("digest run finished",
		"date", report.Date,
		"sent", len(report.Sent),
		"failed", len(report.Failed),
		"deleted", report.Deleted,
	)

	if errs != nil {
		d.alert(ctx, report, errs)
		return report, fmt.Errorf("%w: %w", ErrDigestGenerationFailed, errs)
	}
	return report, nil
}

func (d *Dispatcher) deliver(ctx context.Context, recipient string, items []Item) error {
	messages := Messages(items)
	body, err := Compose(messages)
	if err != nil {
		return fmt.Errorf("compose: %w", err)
	}

	return d.sender.Send(ctx, mail.Message{
		To:      recipient,
		Subject: Subject(len(messages)),
		HTML:    body,
		Text:    ComposeText(messages),
	})
}

func (d *Dispatcher) alert(ctx context.Context, report Report, errs error) {
	if d.alerter == nil {
		return
	}
	text := fmt.Sprintf("Digest run for %s had %d error(s). Failed recipients: %s",
		report.Date, len(multierr.Errors(errs)), strings.Join(report.Failed, ", "))
	if len(report.Failed) == 0 {
		text = fmt.Sprintf("Digest run for %s delivered every digest but had %d cleanup error(s).",
			report.Date, len(multierr.Errors(errs)))
	}
	if err := d.alerter.Alert(ctx, text); err != nil {
		d.logger.Errorw("operator alert failed", "error", err)
	}
}
