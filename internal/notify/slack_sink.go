package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/smallbiznis/helpdesk/internal/providers/slack"
	"go.uber.org/zap"
)

// SlackSink forwards destructive toasts to a Slack channel from a background
// worker. Toasts are dropped when the queue is full.
type SlackSink struct {
	provider slack.Provider
	channel  string
	log      *zap.Logger
	queue    chan Toast
	wg       sync.WaitGroup
	once     sync.Once
}

func NewSlackSink(provider slack.Provider, channel string, log *zap.Logger) *SlackSink {
	return &SlackSink{
		provider: provider,
		channel:  channel,
		log:      log.Named("notify.slack"),
		queue:    make(chan Toast, 64),
	}
}

func (s *SlackSink) Notify(_ context.Context, toast Toast) {
	if toast.Severity != SeverityDestructive {
		return
	}
	select {
	case s.queue <- toast:
	default:
		s.log.Warn("slack queue full, dropping toast", zap.String("title", toast.Title))
	}
}

func (s *SlackSink) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for toast := range s.queue {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			msg := fmt.Sprintf(":warning: *%s* %s", toast.Title, toast.Description)
			if err := s.provider.PostMessage(ctx, s.channel, msg); err != nil {
				s.log.Warn("slack post failed", zap.Error(err))
			}
			cancel()
		}
	}()
}

// Stop drains the queue and waits for the worker.
func (s *SlackSink) Stop() {
	s.once.Do(func() { close(s.queue) })
	s.wg.Wait()
}
