package cache

import (
	"testing"

	"github.com/smallbiznis/helpdesk/internal/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func TestKeySkipsBlankParts(t *testing.T) {
	assert.Equal(t, "helpdesk:login:alya@helpdesk.local", Key("login", " ", "Alya@Helpdesk.local"))
	assert.Equal(t, "helpdesk", Key())
}

func TestNewRedisClientDisabledWithoutAddr(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	client := NewRedisClient(lc, config.Config{}, zap.NewNop())
	assert.Nil(t, client)
}

func TestNewRedisClientUsesConfig(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	client := NewRedisClient(lc, config.Config{RedisAddr: "127.0.0.1:6390", RedisDB: 2}, zap.NewNop())
	if assert.NotNil(t, client) {
		assert.Equal(t, "127.0.0.1:6390", client.Options().Addr)
		assert.Equal(t, 2, client.Options().DB)
		assert.NoError(t, client.Close())
	}
}
