package notify

import (
	"context"

	"github.com/smallbiznis/helpdesk/internal/observability/logger"
	"go.uber.org/zap"
)

type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log.Named("notify")}
}

func (s *LogSink) Notify(ctx context.Context, toast Toast) {
	log := logger.WithContext(ctx, s.log)
	fields := []zap.Field{
		zap.String("title", toast.Title),
		zap.String("description", toast.Description),
	}
	if toast.Severity == SeverityDestructive {
		log.Warn("toast", fields...)
		return
	}
	log.Info("toast", fields...)
}
