package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock abstracts wall time so store stamps and schedules can be driven in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// New returns the UTC wall clock.
func New() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

var Module = fx.Module("clock",
	fx.Provide(New),
)
