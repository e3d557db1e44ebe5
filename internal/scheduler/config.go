package scheduler

import (
	"time"

	"github.com/smallbiznis/helpdesk/internal/config"
)

// Config controls when jobs fire and how long one run may take.
type Config struct {
	Enabled         bool
	ContractExpiry  string
	JobTimeout      time.Duration
	LockTTL         time.Duration
	LockKeyPrefix   string
	DefaultWarnDays int
}

func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		ContractExpiry:  "0 7 * * *",
		JobTimeout:      30 * time.Second,
		LockTTL:         5 * time.Minute,
		LockKeyPrefix:   "helpdesk:scheduler:",
		DefaultWarnDays: 30,
	}
}

func ProvideConfig(cfg config.Config) Config {
	c := DefaultConfig()
	c.Enabled = cfg.SchedulerEnabled
	c.ContractExpiry = cfg.ContractExpiryCron
	return c.withDefaults()
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.ContractExpiry == "" {
		c.ContractExpiry = defaults.ContractExpiry
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	if c.LockTTL <= 0 {
		c.LockTTL = defaults.LockTTL
	}
	if c.LockKeyPrefix == "" {
		c.LockKeyPrefix = defaults.LockKeyPrefix
	}
	if c.DefaultWarnDays <= 0 {
		c.DefaultWarnDays = defaults.DefaultWarnDays
	}
	return c
}
