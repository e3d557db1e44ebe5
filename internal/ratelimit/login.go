package ratelimit

import (
	"context"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/helpdesk/internal/cache"
	"github.com/smallbiznis/helpdesk/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// LoginLimiter throttles sign-in attempts per email. Without redis, or with a
// zero rate, every attempt is allowed.
type LoginLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
	log    *zap.Logger
}

type LoginLimiterParams struct {
	fx.In

	Cfg   config.Config
	Log   *zap.Logger
	Redis *redis.Client `optional:"true"`
}

func NewLoginLimiter(p LoginLimiterParams) *LoginLimiter {
	limiter := &LoginLimiter{
		rate:  p.Cfg.LoginRate,
		burst: p.Cfg.LoginBurst,
		log:   p.Log.Named("ratelimit.login"),
	}
	if p.Redis != nil && limiter.rate > 0 && limiter.burst > 0 {
		limiter.bucket = NewTokenBucket(p.Redis)
	}
	return limiter
}

func (l *LoginLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

// Allow fails open when redis errors so an outage never locks everyone out.
func (l *LoginLimiter) Allow(ctx context.Context, email string) Result {
	if !l.Enabled() {
		return Result{Allowed: true}
	}
	email = strings.TrimSpace(email)
	res, err := l.bucket.Allow(ctx, cache.Key("login", email), l.rate, l.burst)
	if err != nil {
		l.log.Warn("login rate limit check failed", zap.Error(err))
		return Result{Allowed: true}
	}
	return res
}
