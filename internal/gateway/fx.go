package gateway

import (
	"context"

	"github.com/smallbiznis/helpdesk/internal/clock"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	"github.com/smallbiznis/helpdesk/internal/notify"
	"github.com/smallbiznis/helpdesk/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type replicatorParams struct {
	fx.In

	Client   *Client
	Log      *zap.Logger
	Clock    clock.Clock
	Notifier notify.Sink      `optional:"true"`
	Metrics  *metrics.Metrics `optional:"true"`
}

func provideReplicator(p replicatorParams) *Replicator {
	return NewReplicator(p.Client, p.Log, ReplicatorOptions{
		Notifier: p.Notifier,
		Metrics:  p.Metrics,
		Clock:    p.Clock,
	})
}

func registerReplicator(lc fx.Lifecycle, store domain.Service, r *Replicator) {
	var unsubscribe func()
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			r.Start()
			unsubscribe = store.Subscribe(r.Observe)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if unsubscribe != nil {
				unsubscribe()
			}
			return r.Stop(ctx)
		},
	})
}

// Module serves the store from the backend: loader, authenticator, the
// write-behind replicator and the upload orchestrator.
var Module = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(NewRedirectRecorder, fx.As(fx.Self()), fx.As(new(Navigator))),
		NewClient,
		fx.Annotate(NewLoader, fx.As(new(domain.Loader))),
		fx.Annotate(NewAuthenticator, fx.As(new(domain.Authenticator))),
		provideReplicator,
		NewUploader,
	),
	fx.Invoke(registerReplicator),
)
