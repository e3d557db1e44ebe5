package credential

import (
	"fmt"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/helpdesk/internal/cache"
	"github.com/smallbiznis/helpdesk/internal/config"
	"go.uber.org/fx"
)

type Params struct {
	fx.In

	Cfg   config.Config
	Redis *redis.Client `optional:"true"`
}

// NewHolder selects the store named by CREDENTIAL_STORE.
func NewHolder(p Params) (Holder, error) {
	cfg := p.Cfg.Credential
	switch cfg.Store {
	case config.CredentialStoreMemory:
		return NewMemoryStore(), nil
	case config.CredentialStoreRedis:
		store, err := NewRedisStore(p.Redis, cache.Key("credential", cfg.Key))
		if err != nil {
			return nil, fmt.Errorf("credential store redis needs REDIS_ADDR: %w", err)
		}
		return store, nil
	case config.CredentialStoreFile, "":
		return NewFileStore(cfg.Path, cfg.Key), nil
	default:
		return nil, fmt.Errorf("unknown credential store %q", cfg.Store)
	}
}

var Module = fx.Module("credential",
	fx.Provide(NewHolder),
)
