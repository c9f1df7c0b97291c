// Package metrics holds the Prometheus collectors shared by the oracle layer,
// the gate, the embedding cache and the HTTP front end.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "skillsift"

// Metrics groups every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	oracleCalls    *prometheus.CounterVec
	oracleDuration *prometheus.HistogramVec
	fallbacks      *prometheus.CounterVec
	gateWait       prometheus.Histogram
	gateQueue      prometheus.Gauge
	cacheLookups   *prometheus.CounterVec
	httpDuration   *prometheus.SummaryVec
	httpRequests   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		oracleCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_calls_total",
			Help:      "Oracle invocations by oracle kind and outcome.",
		}, []string{"oracle", "outcome"}),
		oracleDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "oracle_call_duration_seconds",
			Help:      "Oracle invocation latency.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"oracle"}),
		fallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Times a component returned its documented fallback value.",
		}, []string{"component"}),
		gateWait: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gate_wait_seconds",
			Help:      "Time spent queued for the generation oracle.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 30, 60, 120},
		}),
		gateQueue: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gate_queue_depth",
			Help:      "Callers waiting for the generation oracle.",
		}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_cache_lookups_total",
			Help:      "Embedding cache lookups by result.",
		}, []string{"result"}),
		httpDuration: f.NewSummaryVec(prometheus.SummaryOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.95: 0.005,
				0.99: 0.001,
			},
		}, []string{"method", "path", "status_code"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status_code"}),
	}
}

// ObserveOracle records one oracle call of the given kind.
func (m *Metrics) ObserveOracle(oracle string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.oracleCalls.WithLabelValues(oracle, outcome).Inc()
	m.oracleDuration.WithLabelValues(oracle).Observe(d.Seconds())
}

// Fallback counts a degraded result from component.
func (m *Metrics) Fallback(component string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(component).Inc()
}

// GateEnqueued marks a caller as waiting for the gate.
func (m *Metrics) GateEnqueued() {
	if m == nil {
		return
	}
	m.gateQueue.Inc()
}

// GateAdmitted marks a waiting caller as admitted (or gone) after waiting d.
func (m *Metrics) GateAdmitted(d time.Duration) {
	if m == nil {
		return
	}
	m.gateQueue.Dec()
	m.gateWait.Observe(d.Seconds())
}

// CacheLookup counts an embedding cache lookup. result is hit, store_hit or miss.
func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// Middleware records request latency and counts per route and status.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		if m == nil {
			return
		}
		path := ctx.FullPath()
		if path == "" {
			path = ctx.Request.URL.Path
		}
		status := strconv.Itoa(ctx.Writer.Status())
		m.httpDuration.WithLabelValues(ctx.Request.Method, path, status).Observe(time.Since(start).Seconds())
		m.httpRequests.WithLabelValues(ctx.Request.Method, path, status).Inc()
	}
}
