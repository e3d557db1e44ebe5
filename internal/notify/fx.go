package notify

import (
	"context"

	"github.com/smallbiznis/helpdesk/internal/config"
	"github.com/smallbiznis/helpdesk/internal/providers/slack"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Lc       fx.Lifecycle
	Cfg      config.Config
	Log      *zap.Logger
	Slack    slack.Provider
	Recorder *Recorder
}

func NewSink(p Params) Sink {
	sinks := Multi{NewLogSink(p.Log), p.Recorder}
	if p.Cfg.SlackWebhookURL == "" {
		return sinks
	}

	slackSink := NewSlackSink(p.Slack, p.Cfg.SlackChannel, p.Log)
	p.Lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			slackSink.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			slackSink.Stop()
			return nil
		},
	})
	return append(sinks, slackSink)
}

var Module = fx.Module("notify",
	fx.Provide(
		func() *Recorder { return NewRecorder(200) },
		NewSink,
	),
)
