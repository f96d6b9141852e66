// Package metrics exposes Prometheus counters for transform runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "traininghours"

// Recorder is safe to use as a nil pointer; all methods become no-ops.
type Recorder struct {
	runs         *prometheus.CounterVec
	rowsAccepted prometheus.Counter
	rowsRejected prometheus.Counter
	duration     prometheus.Histogram
}

func NewRecorder(registerer prometheus.Registerer) *Recorder {
	factory := promauto.With(registerer)
	return &Recorder{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_runs_total",
			Help:      "Transform runs by result status.",
		}, []string{"status"}),
		rowsAccepted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_accepted_total",
			Help:      "Source rows converted into training records.",
		}),
		rowsRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_rejected_total",
			Help:      "Source rows rejected with a warning.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transform_duration_seconds",
			Help:      "Wall time of a transform run.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (r *Recorder) ObserveRun(status string, accepted, rejected int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(status).Inc()
	r.rowsAccepted.Add(float64(accepted))
	r.rowsRejected.Add(float64(rejected))
	r.duration.Observe(elapsed.Seconds())
}
