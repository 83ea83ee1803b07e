package seriesreader

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/atomic"
)

// tracingEnabled gates the optional per-query telemetry hooks (§6): "only
// if a global 'performance tracing' flag is on". Mirrors the package-level
// atomic.Bool toggle (MergeableBatchStreamEnabled) used for a similar
// opt-in fast/slow path switch in the Mimir/Cortex batch merge sibling
// file in the examples pack.
var tracingEnabled atomic.Bool

// EnableTracing turns the optional per-query chunk/point telemetry on or
// off process-wide.
func EnableTracing(on bool) { tracingEnabled.Store(on) }

// TracingEnabled reports the current state of the global tracing flag.
func TracingEnabled() bool { return tracingEnabled.Load() }

// QueryMetrics accumulates per-query chunk/point/page counters, scoped by
// query id. Grounded on ChunkMetrics/NewChunkMetrics in the teacher's
// pkg/storage/batch.go.
type QueryMetrics struct {
	chunks *prometheus.CounterVec
	points *prometheus.CounterVec
	pages  *prometheus.CounterVec
}

// NewQueryMetrics registers the counters against r. Pass a
// prometheus.NewRegistry() (or nil to leave the counters unregistered) once
// per process; individual queries are distinguished by the "query" label.
func NewQueryMetrics(r prometheus.Registerer) *QueryMetrics {
	return &QueryMetrics{
		chunks: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Namespace: "seriesreader",
			Name:      "chunks_total",
			Help:      "Number of chunks unpacked by the overlap pipeline, by query id.",
		}, []string{"query"}),
		points: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Namespace: "seriesreader",
			Name:      "points_total",
			Help:      "Number of points emitted, by query id.",
		}, []string{"query"}),
		pages: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Namespace: "seriesreader",
			Name:      "pages_realized_total",
			Help:      "Number of pages fully realized via AllSatisfiedData, by query id.",
		}, []string{"query"}),
	}
}

// queryCounters is the lazily-acquired, per-query scoped handle a
// SeriesReader holds onto; acquisition is a no-op unless tracing is
// enabled (§5: "scoped acquisition of per-query telemetry counters ... is
// lazy").
type queryCounters struct {
	metrics *QueryMetrics
	queryID string

	chunks prometheus.Counter
	points prometheus.Counter
	pages  prometheus.Counter
}

func newQueryCounters(metrics *QueryMetrics, queryID string) *queryCounters {
	if metrics == nil || !TracingEnabled() {
		return nil
	}
	return &queryCounters{metrics: metrics, queryID: queryID}
}

func (q *queryCounters) addChunk() {
	if q == nil {
		return
	}
	if q.chunks == nil {
		q.chunks = q.metrics.chunks.WithLabelValues(q.queryID)
	}
	q.chunks.Inc()
}

func (q *queryCounters) addPoints(n int) {
	if q == nil || n == 0 {
		return
	}
	if q.points == nil {
		q.points = q.metrics.points.WithLabelValues(q.queryID)
	}
	q.points.Add(float64(n))
}

func (q *queryCounters) addPage() {
	if q == nil {
		return
	}
	if q.pages == nil {
		q.pages = q.metrics.pages.WithLabelValues(q.queryID)
	}
	q.pages.Inc()
}
