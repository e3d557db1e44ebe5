package gateway

import (
	"context"
	"sync/atomic"

	"github.com/smallbiznis/helpdesk/internal/observability/logger"
	"go.uber.org/zap"
)

// Navigator moves the user to another entry point of the console.
type Navigator interface {
	Redirect(ctx context.Context, path string)
}

// RedirectRecorder holds the most recent redirect until the console's next
// request picks it up. Repeated redirects collapse into one.
type RedirectRecorder struct {
	pending atomic.Pointer[string]
	log     *zap.Logger
}

func NewRedirectRecorder(log *zap.Logger) *RedirectRecorder {
	return &RedirectRecorder{log: log.Named("gateway.navigator")}
}

func (r *RedirectRecorder) Redirect(ctx context.Context, path string) {
	r.pending.Store(&path)
	logger.WithContext(ctx, r.log).Info("redirect requested", zap.String("path", path))
}

// Take returns and clears the pending redirect.
func (r *RedirectRecorder) Take() (string, bool) {
	path := r.pending.Swap(nil)
	if path == nil {
		return "", false
	}
	return *path, true
}
