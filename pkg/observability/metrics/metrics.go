// Package metrics implements the observability hooks on top of Prometheus.
package metrics

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/memorytree/pkg/observability"
)

const namespace = "memorytree"

// Metrics records pipeline and HTTP client events as Prometheus series.
// It implements both [observability.PipelineHooks] and
// [observability.HTTPHooks].
type Metrics struct {
	stageDuration  *prometheus.HistogramVec
	stageTotal     *prometheus.CounterVec
	fetchedNodes   *prometheus.GaugeVec
	relationErrors prometheus.Counter
	inFlight       *prometheus.GaugeVec

	httpDuration *prometheus.HistogramVec
	httpRequests *prometheus.CounterVec
	httpErrors   *prometheus.CounterVec
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)

// New registers the collectors with reg and returns the hooks.
// Registering twice on the same registry panics, as with promauto.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		// Labels: stage (fetch, layout, render), variant (source, kind or formats)
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage", "variant"}),

		// Labels: stage, variant, status (success, error)
		stageTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_total",
			Help:      "Completed pipeline stages by status",
		}, []string{"stage", "variant", "status"}),

		fetchedNodes: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "fetched_nodes",
			Help:      "Node count of the most recently fetched tree",
		}, []string{"source"}),

		relationErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "relation_errors_total",
			Help:      "Failed child queries; the affected entity keeps no children",
		}),

		inFlight: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "in_flight",
			Help:      "Pipeline stages currently running",
		}, []string{"stage"}),

		// Labels: method, host, status (HTTP status code)
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http_client",
			Name:      "request_duration_seconds",
			Help:      "Upstream API request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "host", "status"}),

		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http_client",
			Name:      "requests_total",
			Help:      "Upstream API requests sent",
		}, []string{"method", "host"}),

		httpErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http_client",
			Name:      "errors_total",
			Help:      "Upstream API requests that failed before a response",
		}, []string{"method", "host"}),
	}
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

func (m *Metrics) OnFetchStart(_ context.Context, _ string) {
	m.inFlight.WithLabelValues("fetch").Inc()
}

func (m *Metrics) OnFetchComplete(_ context.Context, source string, nodeCount int, d time.Duration, err error) {
	m.inFlight.WithLabelValues("fetch").Dec()
	m.observe("fetch", source, d, err)
	if err == nil {
		m.fetchedNodes.WithLabelValues(source).Set(float64(nodeCount))
	}
}

func (m *Metrics) OnRelationError(context.Context, string, error) {
	m.relationErrors.Inc()
}

func (m *Metrics) OnLayoutStart(_ context.Context, _ string, _ int) {
	m.inFlight.WithLabelValues("layout").Inc()
}

func (m *Metrics) OnLayoutComplete(_ context.Context, kind string, d time.Duration, err error) {
	m.inFlight.WithLabelValues("layout").Dec()
	m.observe("layout", kind, d, err)
}

func (m *Metrics) OnRenderStart(context.Context, []string) {
	m.inFlight.WithLabelValues("render").Inc()
}

func (m *Metrics) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	m.inFlight.WithLabelValues("render").Dec()
	m.observe("render", strings.Join(formats, ","), d, err)
}

func (m *Metrics) observe(stage, variant string, d time.Duration, err error) {
	m.stageDuration.WithLabelValues(stage, variant).Observe(d.Seconds())
	m.stageTotal.WithLabelValues(stage, variant, status(err)).Inc()
}

// =============================================================================
// HTTP Hooks
// =============================================================================

func (m *Metrics) OnRequest(_ context.Context, method, host, _ string) {
	m.httpRequests.WithLabelValues(method, host).Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, host, _ string, statusCode int, d time.Duration) {
	m.httpDuration.WithLabelValues(method, host, strconv.Itoa(statusCode)).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, method, host, _ string, _ error) {
	m.httpErrors.WithLabelValues(method, host).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
