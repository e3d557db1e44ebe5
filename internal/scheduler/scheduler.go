package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/smallbiznis/helpdesk/internal/clock"
	"github.com/smallbiznis/helpdesk/internal/config"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	"github.com/smallbiznis/helpdesk/internal/idgen"
	obsmetrics "github.com/smallbiznis/helpdesk/internal/observability/metrics"
	"github.com/smallbiznis/helpdesk/internal/ratelimit"
	"github.com/smallbiznis/helpdesk/internal/scheduler/guard"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const JobContractExpiry = "contract_expiry"

var ErrInvalidConfig = errors.New("scheduler: invalid config")

type Params struct {
	fx.In

	Log     *zap.Logger
	Store   domain.Service
	Clock   clock.Clock
	IDs     *idgen.Generator
	Console *config.ConsoleConfigHolder
	Config  Config              `optional:"true"`
	Metrics *obsmetrics.Metrics `optional:"true"`
	Locker  *ratelimit.Locker   `optional:"true"`
}

type Scheduler struct {
	log     *zap.Logger
	cfg     Config
	store   domain.Service
	clock   clock.Clock
	ids     *idgen.Generator
	console *config.ConsoleConfigHolder
	metrics *obsmetrics.Metrics
	locker  *ratelimit.Locker
	cron    *cron.Cron
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Store == nil || p.Clock == nil || p.IDs == nil {
		return nil, ErrInvalidConfig
	}
	cfg := p.Config.withDefaults()
	log := p.Log.Named("scheduler").With(zap.String("component", "scheduler"))

	s := &Scheduler{
		log:     log,
		cfg:     cfg,
		store:   p.Store,
		clock:   p.Clock,
		ids:     p.IDs,
		console: p.Console,
		metrics: p.Metrics,
		locker:  p.Locker,
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(cronLogger{log}), cron.SkipIfStillRunning(cronLogger{log})),
		),
	}
	if _, err := s.cron.AddFunc(cfg.ContractExpiry, func() {
		if err := s.RunOnce(context.Background()); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}
	}); err != nil {
		return nil, fmt.Errorf("contract expiry schedule %q: %w", cfg.ContractExpiry, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for a running job to return or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) runJob(parent context.Context, name string, timeout time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	ctx, run, owner := s.ensureJobRun(ctx, name)
	if owner {
		s.logJobStart(ctx, run)
	}

	err := s.withLock(ctx, name, fn)
	if errors.Is(err, errLockHeld) {
		s.logger(ctx).Debug("scheduler job skipped, lock held", zap.String("job", name))
		err = nil
	}
	s.metrics.RecordJobRun(name, err)
	if owner {
		if err != nil && run.errorCount == 0 {
			run.IncError()
		}
		s.logJobFinish(ctx, run)
	}
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.logger(ctx).Warn("job timed out",
			zap.String("job", name),
			zap.Duration("timeout", timeout),
			zap.Error(err),
		)
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

func (s *Scheduler) RunOnce(parent context.Context) error {
	return s.runJob(parent, JobContractExpiry, s.cfg.JobTimeout, s.ContractExpiryJob)
}

func (s *Scheduler) warnDays() int {
	if s.console == nil {
		return s.cfg.DefaultWarnDays
	}
	return s.console.Get().Contracts.ExpiryWarningDays
}

// ContractExpiryJob notifies staff about active contracts expiring inside the
// warning window. Contract status is never changed. Each contract is notified
// at most once per recipient, keyed by the notification link.
func (s *Scheduler) ContractExpiryJob(ctx context.Context) error {
	ctx, run, owner := s.ensureJobRun(ctx, JobContractExpiry)
	if owner {
		s.logJobStart(ctx, run)
		defer s.logJobFinish(ctx, run)
	}

	if !s.store.IsAuthenticated() {
		s.logger(ctx).Debug("contract expiry scan skipped, no session")
		return nil
	}

	now := s.clock.Now()
	days := s.warnDays()
	var errs error
	for _, contract := range s.store.ListContracts() {
		if err := ctx.Err(); err != nil {
			return errors.Join(errs, err)
		}
		if err := guard.EnsureContractNeedsWarning(contract, now, days); err != nil {
			run.AddSkipped(1)
			continue
		}
		link := contractLink(contract.ID)
		if err := guard.EnsureNotWarned(s.store.ListNotifications(contract.StaffID), link); err != nil {
			run.AddSkipped(1)
			continue
		}

		notification, err := s.store.CreateNotification(ctx, domain.CreateNotificationInput{
			UserID:  contract.StaffID,
			Title:   "Contract expiring soon",
			Message: fmt.Sprintf("%s expires on %s.", contract.Title, contract.ExpiryDate),
			Type:    domain.NotificationWarning,
			Link:    link,
		})
		if err != nil {
			s.logJobError(ctx, run, "contract expiry notification failed", err, zap.String("contract_id", contract.ID))
			errs = errors.Join(errs, err)
			continue
		}
		run.AddProcessed(1)
		s.logNotificationCreated(ctx, contract.ID, notification.ID)
	}
	return errs
}

func contractLink(id string) string {
	return "/contracts/" + id
}

// cronLogger routes cron's internal logging through zap.
type cronLogger struct {
	log *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
