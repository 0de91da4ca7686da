// Package metrics exports classification, cache and pipeline events as
// Prometheus metrics.
//
// [Metrics] implements the hook interfaces of package observability.
// Register it once at startup and serve the registry with [Handler]:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg)
//	m.Install()
//	go metrics.Serve(ctx, ":9090", metrics.Handler(reg), logger)
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/cliquecrit/pkg/observability"
)

const namespace = "cliquecrit"

// Metrics holds every collector. Create it with [New].
type Metrics struct {
	examined       *prometheus.CounterVec
	accepted       *prometheus.CounterVec
	skipped        *prometheus.CounterVec
	streamDuration *prometheus.HistogramVec
	streamErrors   *prometheus.CounterVec

	cacheRequests *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec
	cacheErrors   *prometheus.CounterVec

	stageDuration *prometheus.HistogramVec
	stagesActive  *prometheus.GaugeVec
}

// New registers the collectors with reg. A nil reg uses the default
// Prometheus registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		// examined counts graphs pulled from each source.
		// Labels: source
		examined: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphs_examined_total",
			Help:      "Graphs pulled from candidate sources",
		}, []string{"source"}),

		// accepted counts graphs appended to a bucket.
		// Labels: source, key (atlas index or "unclassified")
		accepted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphs_accepted_total",
			Help:      "Clique-critical graphs added to the classification map",
		}, []string{"source", "key"}),

		// skipped counts examined graphs that were not appended.
		// Labels: source, reason (disconnected, indeterminate, not_critical, oversized)
		skipped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphs_skipped_total",
			Help:      "Examined graphs that were not classified",
		}, []string{"source", "reason"}),

		streamDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stream_duration_seconds",
			Help:      "Time to consume one candidate source",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300, 900},
		}, []string{"source"}),

		streamErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_errors_total",
			Help:      "Sources that stopped with an error",
		}, []string{"source"}),

		// cacheRequests counts lookups by outcome.
		// Labels: key_type (atlas, artifact), result (hit, miss)
		cacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Cache lookups by result",
		}, []string{"key_type", "result"}),

		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache",
		}, []string{"key_type"}),

		cacheErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "errors_total",
			Help:      "Failed cache operations",
		}, []string{"key_type"}),

		// stageDuration measures pipeline stages.
		// Labels: stage (atlas, classify, paginate, render), status (ok, error)
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage duration",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 60, 300, 900},
		}, []string{"stage", "status"}),

		stagesActive: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stages_in_progress",
			Help:      "Pipeline stages currently running",
		}, []string{"stage"}),
	}
}

// Install registers m as the process-wide classify, cache and pipeline hooks.
func (m *Metrics) Install() {
	observability.SetClassifyHooks(m)
	observability.SetCacheHooks(m)
	observability.SetPipelineHooks(m)
}

var (
	_ observability.ClassifyHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.PipelineHooks = (*Metrics)(nil)
)

// =============================================================================
// Classify Hooks
// =============================================================================

func (m *Metrics) OnGraphExamined(_ context.Context, source string) {
	m.examined.WithLabelValues(source).Inc()
}

func (m *Metrics) OnGraphAccepted(_ context.Context, source, key string) {
	m.accepted.WithLabelValues(source, key).Inc()
}

func (m *Metrics) OnGraphSkipped(_ context.Context, source, reason string) {
	m.skipped.WithLabelValues(source, reason).Inc()
}

func (m *Metrics) OnStreamComplete(_ context.Context, source string, _ int, d time.Duration, err error) {
	m.streamDuration.WithLabelValues(source).Observe(d.Seconds())
	if err != nil {
		m.streamErrors.WithLabelValues(source).Inc()
	}
}

// =============================================================================
// Cache Hooks
// =============================================================================

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnCacheError(_ context.Context, keyType string, _ error) {
	m.cacheErrors.WithLabelValues(keyType).Inc()
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

func (m *Metrics) OnStageStart(_ context.Context, stage string) {
	m.stagesActive.WithLabelValues(stage).Inc()
}

func (m *Metrics) OnStageComplete(_ context.Context, stage string, d time.Duration, err error) {
	m.stagesActive.WithLabelValues(stage).Dec()
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.stageDuration.WithLabelValues(stage, status).Observe(d.Seconds())
}
