package helpdesk

import (
	"context"

	"github.com/smallbiznis/helpdesk/internal/config"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/fixtures"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("helpdesk.service",
	fx.Provide(service.New),
	fx.Provide(func(s *service.Store) domain.Service { return s }),
	fx.Invoke(registerBootstrap),
)

// FixturesModule serves the store from static data with a permissive login.
var FixturesModule = fx.Module("helpdesk.fixtures",
	fx.Provide(
		fx.Annotate(fixtures.NewLoader, fx.As(new(domain.Loader))),
		fx.Annotate(fixtures.NewAuthenticator, fx.As(new(domain.Authenticator))),
	),
)

// registerBootstrap loads the initial dataset on start. An unreachable backend
// is not fatal; the console starts empty and the next login loads again.
func registerBootstrap(lc fx.Lifecycle, cfg config.Config, store domain.Service, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			err := store.Bootstrap(ctx)
			if err == nil {
				return nil
			}
			if cfg.UsesGateway() {
				log.Warn("bootstrap failed, starting with an empty store", zap.Error(err))
				return nil
			}
			return err
		},
	})
}
