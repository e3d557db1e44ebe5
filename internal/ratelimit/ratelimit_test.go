package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/helpdesk/internal/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLoginLimiterDisabledWithoutRedis(t *testing.T) {
	limiter := NewLoginLimiter(LoginLimiterParams{
		Cfg: config.Config{LoginRate: 1, LoginBurst: 1},
		Log: zap.NewNop(),
	})
	assert.False(t, limiter.Enabled())
	for range 10 {
		assert.True(t, limiter.Allow(context.Background(), "alya@helpdesk.local").Allowed)
	}
}

func TestTokenBucketNotConfigured(t *testing.T) {
	var bucket *TokenBucket
	_, err := bucket.Allow(context.Background(), "k", 1, 1)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, NewTokenBucket(nil))
}

func TestEvaluateRetryAfter(t *testing.T) {
	res := evaluate(false, 0.5, 0.25, 5)
	assert.False(t, res.Allowed)
	assert.Equal(t, 5, res.Limit)
	assert.Equal(t, 0, res.Remaining)
	assert.Equal(t, 2*time.Second, res.RetryAfter)

	res = evaluate(true, 3.7, 1, 5)
	assert.Equal(t, 3, res.Remaining)
	assert.Zero(t, res.RetryAfter)
}

func TestBucketTTL(t *testing.T) {
	assert.Equal(t, 50*time.Second, bucketTTL(0.2, 5))
	assert.Equal(t, time.Second, bucketTTL(100, 1))
	assert.Equal(t, time.Second, bucketTTL(0, 1))
}

func TestScriptValueParsing(t *testing.T) {
	assert.Equal(t, int64(1), toInt(int64(1)))
	assert.Equal(t, int64(7), toInt("7"))
	assert.InDelta(t, 2.75, toFloat("2.75"), 1e-9)
	assert.Zero(t, toFloat(nil))
}

func TestLockerWithoutRedis(t *testing.T) {
	locker := NewLocker(nil)
	assert.False(t, locker.Enabled())
	_, ok, err := locker.TryLock(context.Background(), "k", time.Second)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.NoError(t, locker.Release(context.Background(), "k", "t"))
}
