package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ConsoleConfig is runtime policy that operators may change without a restart.
type ConsoleConfig struct {
	Timesheet TimesheetPolicy `mapstructure:"timesheet"`
	Contracts ContractPolicy  `mapstructure:"contracts"`
	Uploads   UploadPolicy    `mapstructure:"uploads"`
}

type TimesheetPolicy struct {
	// WorkingDaysOnly drops Saturdays and Sundays from the summary denominator.
	WorkingDaysOnly bool `mapstructure:"workingDaysOnly"`
}

type ContractPolicy struct {
	ExpiryWarningDays int `mapstructure:"expiryWarningDays"`
}

type UploadPolicy struct {
	MaxFileSize int64 `mapstructure:"maxFileSize"`
}

func DefaultConsoleConfig() ConsoleConfig {
	return ConsoleConfig{
		Timesheet: TimesheetPolicy{WorkingDaysOnly: false},
		Contracts: ContractPolicy{ExpiryWarningDays: 30},
		Uploads:   UploadPolicy{MaxFileSize: 10 << 20},
	}
}

type ConsoleConfigHolder struct {
	current atomic.Value // holds ConsoleConfig
}

// NewStaticConsoleConfigHolder serves a fixed policy; used by tests and tools.
func NewStaticConsoleConfigHolder(cfg ConsoleConfig) *ConsoleConfigHolder {
	holder := &ConsoleConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewConsoleConfigHolder(log *zap.Logger) (*ConsoleConfigHolder, error) {
	return LoadConsoleConfig(log, "/var/lib/helpdesk/config", "/etc/helpdesk", ".")
}

// LoadConsoleConfig reads console.yml from the first path that has one and
// watches it for changes. Defaults apply when no file exists.
func LoadConsoleConfig(log *zap.Logger, paths ...string) (*ConsoleConfigHolder, error) {
	log = log.Named("config.console")
	v := viper.New()

	v.SetConfigName("console")
	v.SetConfigType("yml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("HELPDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultConsoleConfig()
	v.SetDefault("timesheet.workingDaysOnly", defaults.Timesheet.WorkingDaysOnly)
	v.SetDefault("contracts.expiryWarningDays", defaults.Contracts.ExpiryWarningDays)
	v.SetDefault("uploads.maxFileSize", defaults.Uploads.MaxFileSize)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileFound = false
	}

	var cfg ConsoleConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := validateConsoleConfig(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticConsoleConfigHolder(cfg)
	if !fileFound {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ConsoleConfig
		if err := v.Unmarshal(&updated); err != nil {
			log.Warn("console config reload failed", zap.Error(err))
			return
		}
		if err := validateConsoleConfig(updated); err != nil {
			log.Warn("invalid console config ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("console config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *ConsoleConfigHolder) Get() ConsoleConfig {
	if h == nil {
		return DefaultConsoleConfig()
	}
	cfg, ok := h.current.Load().(ConsoleConfig)
	if !ok {
		return DefaultConsoleConfig()
	}
	return cfg
}

func validateConsoleConfig(cfg ConsoleConfig) error {
	if cfg.Contracts.ExpiryWarningDays < 0 {
		return errors.New("contracts.expiryWarningDays cannot be negative")
	}
	if cfg.Uploads.MaxFileSize <= 0 {
		return errors.New("uploads.maxFileSize must be positive")
	}
	return nil
}
