package backend

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/smallbiznis/helpdesk/internal/authorization"
	"github.com/smallbiznis/helpdesk/internal/clock"
	"github.com/smallbiznis/helpdesk/internal/config"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/fixtures"
	"github.com/smallbiznis/helpdesk/internal/migration"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("backend",
	fx.Provide(
		provideEnforcer,
		NewTokenIssuer,
		provideAccountService,
		NewResourceService,
		NewUploadService,
		NewServer,
	),
	authorization.ServiceModule,
	fx.Invoke(prepareDatabase),
	fx.Invoke(run),
)

func provideEnforcer(conn *gorm.DB) (*casbin.SyncedEnforcer, error) {
	return authorization.NewEnforcerWithDB(conn)
}

func provideAccountService(conn *gorm.DB, tokens *TokenIssuer, log *zap.Logger) *AccountService {
	return NewAccountService(conn, tokens, fixtures.DefaultPassword, log)
}

func prepareDatabase(lc fx.Lifecycle, conn *gorm.DB, cfg config.Config, resources *ResourceService, clk clock.Clock, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := migration.Apply(conn, Models()...); err != nil {
				return err
			}
			if !cfg.SeedDemoData {
				return nil
			}
			return Seed(ctx, resources, clk, log)
		},
	})
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.BackendAddr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("backend server stopped", zap.Error(err))
				}
			}()
			log.Info("backend listening", zap.String("addr", cfg.BackendAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
