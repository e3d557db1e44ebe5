package main

import (
	"github.com/smallbiznis/helpdesk/internal/backend"
	"github.com/smallbiznis/helpdesk/internal/cache"
	"github.com/smallbiznis/helpdesk/internal/clock"
	"github.com/smallbiznis/helpdesk/internal/config"
	"github.com/smallbiznis/helpdesk/internal/observability"
	"github.com/smallbiznis/helpdesk/internal/ratelimit"
	"github.com/smallbiznis/helpdesk/pkg/db"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		config.Module,
		observability.Module,
		clock.Module,
		db.Module,
		cache.Module,
		ratelimit.Module,
		backend.Module,
	).Run()
}
