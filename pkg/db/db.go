package db

import (
	"context"
	"fmt"
	"time"

	"github.com/smallbiznis/helpdesk/internal/config"
	"github.com/smallbiznis/helpdesk/internal/observability/logger"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/prometheus"
)

type Params struct {
	fx.In

	Lc  fx.Lifecycle
	Cfg config.Config
	Log *zap.Logger
}

// New opens the backend database with tracing and pool statistics attached.
func New(p Params) (*gorm.DB, error) {
	cfg := FromAppConfig(p.Cfg)
	dialect, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	level := gormlogger.Warn
	if p.Cfg.LogLevel == "debug" {
		level = gormlogger.Info
	}
	conn, err := gorm.Open(dialect, &gorm.Config{
		Logger:         logger.NewGormLogger(level, 200*time.Millisecond),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Type, err)
	}

	if err := Instrument(conn, cfg.Name, p.Cfg.AppName); err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConn)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConn)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return sqlDB.PingContext(ctx)
		},
		OnStop: func(context.Context) error {
			p.Log.Info("closing database")
			return sqlDB.Close()
		},
	})
	return conn, nil
}

// Instrument adds OpenTelemetry spans and Prometheus pool metrics to conn.
func Instrument(conn *gorm.DB, dbName, appName string) error {
	if err := conn.Use(otelgorm.NewPlugin(otelgorm.WithDBName(dbName))); err != nil {
		return fmt.Errorf("register otelgorm: %w", err)
	}
	err := conn.Use(prometheus.New(prometheus.Config{
		DBName:          dbName,
		RefreshInterval: 15,
		StartServer:     false,
		Labels:          map[string]string{"service": appName},
	}))
	if err != nil {
		return fmt.Errorf("register gorm prometheus: %w", err)
	}
	return nil
}

var Module = fx.Module("db",
	fx.Provide(New),
)
