package digest

import (
	"context"
	"errors"
	"time"

	"github.com/pathakanu/taskDigest/internal/lease"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// runTimeout bounds a single scheduled run.
const runTimeout = 10 * time.Minute

// Runner is anything that can perform a digest run.
type Runner interface {
	Run(ctx context.Context) (Report, error)
}

// Scheduler triggers a Runner on a cron schedule evaluated in IST.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	spec   string
	logger *zap.SugaredLogger
}

// NewScheduler creates a scheduler. An empty spec leaves the scheduler idle.
func NewScheduler(spec string, runner Runner, logger *zap.SugaredLogger) *Scheduler {
	cl := cronLogger{logger}
	c := cron.New(
		cron.WithLocation(IST),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	return &Scheduler{
		cron:   c,
		runner: runner,
		spec:   spec,
		logger: logger,
	}
}

// Start registers the digest job and starts the scheduler loop.
func (s *Scheduler) Start() error {
	if s.spec == "" {
		s.logger.Info("scheduler: no digest schedule configured, waiting for external trigger")
		return nil
	}
	if _, err := s.cron.AddFunc(s.spec, s.runOnce); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Infow("scheduler: started", "schedule", s.spec, "location", IST.String())
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	report, err := s.runner.Run(ctx)
	switch {
	case errors.Is(err, lease.ErrLeaseHeld):
		s.logger.Warn("scheduler: another digest run holds the lease")
	case err != nil:
		s.logger.Errorw("scheduler: digest run failed", "date", report.Date, "failed", report.Failed, "error", err)
	default:
		s.logger.Infow("scheduler: digest run complete", "date", report.Date, "sent", len(report.Sent))
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
