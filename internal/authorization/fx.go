package authorization

import "go.uber.org/fx"

// Module provides an in-memory enforcer. The backend supplies its own
// *casbin.SyncedEnforcer through NewEnforcerWithDB.
var Module = fx.Module("authorization",
	fx.Provide(NewEnforcer, NewService),
)

var ServiceModule = fx.Module("authorization.service",
	fx.Provide(NewService),
)
