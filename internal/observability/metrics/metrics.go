package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Config labels every series with the emitting service.
type Config struct {
	ServiceName string
	Environment string
}

// Metrics exposes application-level instruments. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	storeMutations   *prometheus.CounterVec
	summaryComputed  prometheus.Counter
	summaryCacheHits prometheus.Counter
	gatewayRequests  *prometheus.CounterVec
	gatewayLatency   *prometheus.HistogramVec
	replicationFails *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpLatency      *prometheus.HistogramVec
	jobRuns          *prometheus.CounterVec
	jobErrors        *prometheus.CounterVec
}

// NewRegistry returns a registry preloaded with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func New(reg *prometheus.Registry, cfg Config) (*Metrics, error) {
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "helpdesk"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{"service": serviceName, "env": environment}

	m := &Metrics{
		storeMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "helpdesk_store_mutations_total",
			Help:        "Store operations by entity kind, operation and outcome.",
			ConstLabels: constLabels,
		}, []string{"kind", "op", "outcome"}),
		summaryComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "helpdesk_timesheet_summary_computed_total",
			Help:        "Timesheet summaries computed from a scan of the collections.",
			ConstLabels: constLabels,
		}),
		summaryCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "helpdesk_timesheet_summary_cache_hits_total",
			Help:        "Timesheet summaries served from the cache.",
			ConstLabels: constLabels,
		}),
		gatewayRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "helpdesk_gateway_requests_total",
			Help:        "Gateway requests by method and status class.",
			ConstLabels: constLabels,
		}, []string{"method", "status"}),
		gatewayLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "helpdesk_gateway_request_duration_seconds",
			Help:        "Gateway request latency.",
			Buckets:     []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			ConstLabels: constLabels,
		}, []string{"method"}),
		replicationFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "helpdesk_replication_failures_total",
			Help:        "Store events the replicator could not forward.",
			ConstLabels: constLabels,
		}, []string{"kind", "op"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "helpdesk_http_requests_total",
			Help:        "Inbound HTTP requests by route and status code.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "helpdesk_http_request_duration_seconds",
			Help:        "Inbound HTTP request latency.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "helpdesk_scheduler_job_runs_total",
			Help:        "Scheduled job runs by name.",
			ConstLabels: constLabels,
		}, []string{"job"}),
		jobErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "helpdesk_scheduler_job_errors_total",
			Help:        "Scheduled job failures by name.",
			ConstLabels: constLabels,
		}, []string{"job"}),
	}

	for _, c := range []prometheus.Collector{
		m.storeMutations, m.summaryComputed, m.summaryCacheHits,
		m.gatewayRequests, m.gatewayLatency, m.replicationFails,
		m.httpRequests, m.httpLatency, m.jobRuns, m.jobErrors,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Store outcomes.
const (
	OutcomeApplied  = "applied"
	OutcomeNoop     = "noop"
	OutcomeRejected = "rejected"
)

func (m *Metrics) RecordMutation(kind, op, outcome string) {
	if m == nil {
		return
	}
	m.storeMutations.WithLabelValues(kind, op, outcome).Inc()
}

func (m *Metrics) RecordSummaryComputed() {
	if m == nil {
		return
	}
	m.summaryComputed.Inc()
}

func (m *Metrics) RecordSummaryCacheHit() {
	if m == nil {
		return
	}
	m.summaryCacheHits.Inc()
}

// RecordGatewayRequest takes status 0 for transport failures.
func (m *Metrics) RecordGatewayRequest(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.gatewayRequests.WithLabelValues(method, statusClass(status)).Inc()
	m.gatewayLatency.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordReplicationFailure(kind, op string) {
	if m == nil {
		return
	}
	m.replicationFails.WithLabelValues(kind, op).Inc()
}

func (m *Metrics) RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordJobRun(job string, err error) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(job).Inc()
	if err != nil {
		m.jobErrors.WithLabelValues(job).Inc()
	}
}

func statusClass(status int) string {
	if status <= 0 {
		return "transport_error"
	}
	return strconv.Itoa(status/100) + "xx"
}
