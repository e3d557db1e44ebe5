package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/smallbiznis/helpdesk/internal/authorization"
	"github.com/smallbiznis/helpdesk/internal/clock"
	"github.com/smallbiznis/helpdesk/internal/config"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/fixtures"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/service"
	"github.com/smallbiznis/helpdesk/internal/idgen"
	"github.com/smallbiznis/helpdesk/internal/notify"
	obsmetrics "github.com/smallbiznis/helpdesk/internal/observability/metrics"
	"github.com/smallbiznis/helpdesk/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2025, 5, 20, 7, 0, 0, 0, time.UTC)

type fixture struct {
	sched    *Scheduler
	store    *service.Store
	registry *prometheus.Registry
}

func newFixture(t *testing.T, console config.ConsoleConfig) *fixture {
	t.Helper()
	fc := clock.NewFakeClock(testNow)
	enforcer, err := authorization.NewEnforcer()
	require.NoError(t, err)
	holder := config.NewStaticConsoleConfigHolder(console)

	store := service.New(service.Params{
		Log:      zap.NewNop(),
		Clock:    fc,
		IDs:      idgen.MustNew(1),
		Loader:   fixtures.NewLoader(fc),
		Auth:     fixtures.NewAuthenticator(),
		Authz:    authorization.NewService(authorization.Params{Log: zap.NewNop(), Enforcer: enforcer}),
		Notifier: notify.NewRecorder(10),
		Console:  holder,
	})
	require.NoError(t, store.Bootstrap(context.Background()))

	registry := prometheus.NewRegistry()
	metrics, err := obsmetrics.New(registry, obsmetrics.Config{ServiceName: "helpdesk", Environment: "test"})
	require.NoError(t, err)

	sched, err := New(Params{
		Log:     zap.NewNop(),
		Store:   store,
		Clock:   fc,
		IDs:     idgen.MustNew(2),
		Console: holder,
		Metrics: metrics,
		Locker:  ratelimit.NewLocker(nil),
	})
	require.NoError(t, err)
	return &fixture{sched: sched, store: store, registry: registry}
}

func (f *fixture) signIn(t *testing.T) {
	t.Helper()
	_, err := f.store.Login(context.Background(), fixtures.AdminEmail, "secret")
	require.NoError(t, err)
}

func expiryWarnings(notifications []domain.Notification) []domain.Notification {
	var out []domain.Notification
	for _, n := range notifications {
		if n.Title == "Contract expiring soon" {
			out = append(out, n)
		}
	}
	return out
}

func TestContractExpiryNotifiesStaffOnce(t *testing.T) {
	f := newFixture(t, config.DefaultConsoleConfig())
	f.signIn(t)

	require.NoError(t, f.sched.RunOnce(context.Background()))
	warnings := expiryWarnings(f.store.ListNotifications("user-7"))
	require.Len(t, warnings, 1)
	assert.Equal(t, "/contracts/contract-2", warnings[0].Link)
	assert.Equal(t, domain.NotificationWarning, warnings[0].Type)
	assert.False(t, warnings[0].IsRead)

	// contract-1 expires well outside the window
	assert.Empty(t, expiryWarnings(f.store.ListNotifications("user-8")))

	require.NoError(t, f.sched.RunOnce(context.Background()))
	assert.Len(t, expiryWarnings(f.store.ListNotifications("user-7")), 1)

	contract, ok := f.store.GetContract("contract-2")
	require.True(t, ok)
	assert.Equal(t, domain.ContractStatusActive, contract.Status)

	labels := map[string]string{"service": "helpdesk", "env": "test", "job": JobContractExpiry}
	assert.Equal(t, float64(2), getCounterValue(t, f.registry, "helpdesk_scheduler_job_runs_total", labels))
}

func TestContractExpiryRespectsWarningWindow(t *testing.T) {
	console := config.DefaultConsoleConfig()
	console.Contracts.ExpiryWarningDays = 10
	f := newFixture(t, console)
	f.signIn(t)

	require.NoError(t, f.sched.RunOnce(context.Background()))
	assert.Empty(t, expiryWarnings(f.store.ListNotifications("user-7")))
}

func TestContractExpirySkipsWithoutSession(t *testing.T) {
	f := newFixture(t, config.DefaultConsoleConfig())

	require.NoError(t, f.sched.RunOnce(context.Background()))
	assert.Empty(t, expiryWarnings(f.store.ListNotifications("user-7")))
}

func TestRunJobTimeoutIsSoft(t *testing.T) {
	f := newFixture(t, config.DefaultConsoleConfig())

	err := f.sched.runJob(context.Background(), "timeout_job", 5*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.NoError(t, err)

	labels := map[string]string{"service": "helpdesk", "env": "test", "job": "timeout_job"}
	assert.Equal(t, float64(1), getCounterValue(t, f.registry, "helpdesk_scheduler_job_errors_total", labels))
}

func TestNewRejectsBadSchedule(t *testing.T) {
	_, err := New(Params{
		Log:    zap.NewNop(),
		Store:  &service.Store{},
		Clock:  clock.New(),
		IDs:    idgen.MustNew(1),
		Config: Config{ContractExpiry: "every tuesday"},
	})
	assert.Error(t, err)

	_, err = New(Params{Log: zap.NewNop()})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func getCounterValue(t *testing.T, registry *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	metricFamilies, err := registry.Gather()
	require.NoError(t, err)
	for _, mf := range metricFamilies {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.Metric {
			if !labelsMatch(metric, labels) {
				continue
			}
			require.NotNil(t, metric.Counter, "metric %s is not a counter", name)
			return metric.GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s with labels %v not found", name, labels)
	return 0
}

func labelsMatch(metric *dto.Metric, labels map[string]string) bool {
	if len(metric.Label) != len(labels) {
		return false
	}
	for _, label := range metric.Label {
		if labels[label.GetName()] != label.GetValue() {
			return false
		}
	}
	return true
}
