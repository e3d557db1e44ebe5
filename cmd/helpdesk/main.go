package main

import (
	"github.com/smallbiznis/helpdesk/internal/authorization"
	"github.com/smallbiznis/helpdesk/internal/cache"
	"github.com/smallbiznis/helpdesk/internal/clock"
	"github.com/smallbiznis/helpdesk/internal/config"
	"github.com/smallbiznis/helpdesk/internal/credential"
	"github.com/smallbiznis/helpdesk/internal/gateway"
	"github.com/smallbiznis/helpdesk/internal/helpdesk"
	"github.com/smallbiznis/helpdesk/internal/idgen"
	"github.com/smallbiznis/helpdesk/internal/notify"
	"github.com/smallbiznis/helpdesk/internal/observability"
	"github.com/smallbiznis/helpdesk/internal/providers"
	"github.com/smallbiznis/helpdesk/internal/ratelimit"
	"github.com/smallbiznis/helpdesk/internal/scheduler"
	"github.com/smallbiznis/helpdesk/internal/server"
	"go.uber.org/fx"
)

func main() {
	cfg := config.Load()

	fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		clock.Module,
		idgen.Module,
		cache.Module,
		credential.Module,
		ratelimit.Module,

		// Functional Domains
		providers.Module,
		notify.Module,
		authorization.Module,
		helpdesk.Module,
		dataSource(cfg),
		server.Module,
		scheduler.Module,
	).Run()
}

// dataSource picks where the store loads from and signs in against.
func dataSource(cfg config.Config) fx.Option {
	if cfg.UsesGateway() {
		return gateway.Module
	}
	return helpdesk.FixturesModule
}
