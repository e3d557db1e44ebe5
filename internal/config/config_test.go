package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATA_SOURCE", "")
	t.Setenv("GATEWAY_BASE_URL", "http://backend:8090/")
	t.Setenv("GATEWAY_TIMEOUT", "3s")
	t.Setenv("GATEWAY_RATE", "nope")

	cfg := Load()
	assert.Equal(t, DataSourceFixtures, cfg.DataSource)
	assert.Equal(t, "http://backend:8090", cfg.Gateway.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, float64(20), cfg.Gateway.RatePerSecond)
	assert.False(t, cfg.UsesGateway())
}

func TestLoadGatewayMode(t *testing.T) {
	t.Setenv("DATA_SOURCE", " Gateway ")
	cfg := Load()
	assert.True(t, cfg.UsesGateway())
}

func TestGetenvBool(t *testing.T) {
	t.Setenv("HELPDESK_TEST_FLAG", "yes")
	assert.True(t, getenvBool("HELPDESK_TEST_FLAG", false))
	t.Setenv("HELPDESK_TEST_FLAG", "garbage")
	assert.True(t, getenvBool("HELPDESK_TEST_FLAG", true))
}

func TestConsoleConfigDefaultsWithoutFile(t *testing.T) {
	holder, err := LoadConsoleConfig(zap.NewNop(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConsoleConfig(), holder.Get())
}

func TestConsoleConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	body := []byte("timesheet:\n  workingDaysOnly: true\ncontracts:\n  expiryWarningDays: 14\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "console.yml"), body, 0o600))

	holder, err := LoadConsoleConfig(zap.NewNop(), dir)
	require.NoError(t, err)

	cfg := holder.Get()
	assert.True(t, cfg.Timesheet.WorkingDaysOnly)
	assert.Equal(t, 14, cfg.Contracts.ExpiryWarningDays)
	assert.Equal(t, int64(10<<20), cfg.Uploads.MaxFileSize)
}

func TestConsoleConfigRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	body := []byte("contracts:\n  expiryWarningDays: -1\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "console.yml"), body, 0o600))

	_, err := LoadConsoleConfig(zap.NewNop(), dir)
	assert.Error(t, err)
}

func TestNilHolderFallsBackToDefaults(t *testing.T) {
	var holder *ConsoleConfigHolder
	assert.Equal(t, DefaultConsoleConfig(), holder.Get())
}
