package scheduler

import (
	"context"
	"errors"

	"github.com/smallbiznis/helpdesk/internal/ratelimit"
	"go.uber.org/zap"
)

var errLockHeld = errors.New("scheduler lock held elsewhere")

// withLock runs fn while holding the job's redis lock. Without redis the job
// runs unguarded since a single console owns its store.
func (s *Scheduler) withLock(ctx context.Context, job string, fn func(context.Context) error) error {
	if !s.locker.Enabled() {
		return fn(ctx)
	}

	key := s.cfg.LockKeyPrefix + job
	token, ok, err := s.locker.TryLock(ctx, key, s.cfg.LockTTL)
	if err != nil {
		if errors.Is(err, ratelimit.ErrNotConfigured) {
			return fn(ctx)
		}
		return err
	}
	if !ok {
		return errLockHeld
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), key, token); err != nil {
			s.logger(ctx).Warn("scheduler lock release failed", zap.String("key", key), zap.Error(err))
		}
	}()
	return fn(ctx)
}
