package server

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/matzehuels/harnesskit/pkg/observability"
)

const (
	LabelFormat  = "format"
	LabelResult  = "result"
	LabelBackend = "backend"
	LabelOp      = "op"
	LabelKeyType = "key_type"
	LabelRoute   = "route"
	LabelMethod  = "method"
	LabelStatus  = "status"
)

// Metrics holds the Prometheus collectors of the server. It implements the
// observability pipeline, store and cache hooks so library code reports into
// it without importing Prometheus.
type Metrics struct {
	registry *prometheus.Registry

	loads       *prometheus.CounterVec
	validations *prometheus.CounterVec
	serializes  *prometheus.CounterVec
	diagrams    *prometheus.HistogramVec
	stageTime   *prometheus.HistogramVec
	storeOps    *prometheus.HistogramVec
	cacheEvents *prometheus.CounterVec
	requests    *prometheus.CounterVec
	reqDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors on a fresh registry, together with the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "harnesskit_design_loads_total",
			Help: "Design files decoded and built, by format and result",
		}, []string{LabelFormat, LabelResult}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "harnesskit_validations_total",
			Help: "Harness validations, by result (valid or invalid)",
		}, []string{LabelResult}),
		serializes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "harnesskit_serializations_total",
			Help: "Document serializations, by result",
		}, []string{LabelResult}),
		diagrams: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "harnesskit_diagram_duration_seconds",
			Help:    "Time to render a diagram, by format",
			Buckets: prometheus.DefBuckets,
		}, []string{LabelFormat}),
		stageTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "harnesskit_stage_duration_seconds",
			Help:    "Time spent per pipeline stage",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"stage"}),
		storeOps: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "harnesskit_store_operation_duration_seconds",
			Help:    "Document store calls, by backend, operation and result",
			Buckets: prometheus.DefBuckets,
		}, []string{LabelBackend, LabelOp, LabelResult}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "harnesskit_cache_events_total",
			Help: "Diagram cache hits, misses and writes",
		}, []string{LabelKeyType, "event"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "harnesskit_http_requests_total",
			Help: "API requests, by route, method and status",
		}, []string{LabelRoute, LabelMethod, LabelStatus}),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "harnesskit_http_request_duration_seconds",
			Help:    "API request latency, by route",
			Buckets: prometheus.DefBuckets,
		}, []string{LabelRoute}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.loads, m.validations, m.serializes, m.diagrams, m.stageTime,
		m.storeOps, m.cacheEvents, m.requests, m.reqDuration,
	)
	return m
}

// Registry returns the registry served on /metrics.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Install registers m as the process-wide observability hooks.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(m)
	observability.SetStoreHooks(m)
	observability.SetCacheHooks(m)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnLoad(_ context.Context, format string, _, _ int, d time.Duration, err error) {
	m.loads.WithLabelValues(format, result(err)).Inc()
	m.stageTime.WithLabelValues("load").Observe(d.Seconds())
}

func (m *Metrics) OnValidate(_ context.Context, _, errs, _ int, d time.Duration) {
	res := "valid"
	if errs > 0 {
		res = "invalid"
	}
	m.validations.WithLabelValues(res).Inc()
	m.stageTime.WithLabelValues("validate").Observe(d.Seconds())
}

func (m *Metrics) OnSerialize(_ context.Context, _ int, d time.Duration, err error) {
	m.serializes.WithLabelValues(result(err)).Inc()
	m.stageTime.WithLabelValues("serialize").Observe(d.Seconds())
}

func (m *Metrics) OnDiagram(_ context.Context, format string, d time.Duration, _ error) {
	m.diagrams.WithLabelValues(format).Observe(d.Seconds())
}

func (m *Metrics) OnStoreOp(_ context.Context, backend, op string, d time.Duration, err error) {
	m.storeOps.WithLabelValues(backend, op, result(err)).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, _ int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
}

func (m *Metrics) observeRequest(route, method string, status int, d time.Duration) {
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.reqDuration.WithLabelValues(route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.StoreHooks    = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
)
