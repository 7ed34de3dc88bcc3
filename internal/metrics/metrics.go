// Package metrics exposes Prometheus instruments for board mutations and
// persistence. A nil *Recorder is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "logboard"

// Mutation kinds used as the "kind" label.
const (
	KindAddEntry     = "add_entry"
	KindCloseEntry   = "close_entry"
	KindAddReply     = "add_reply"
	KindDeleteAll    = "delete_all"
	KindDeleteByDate = "delete_by_date"
)

// Recorder groups the board's instruments.
type Recorder struct {
	mutations        *prometheus.CounterVec
	persistFailures  *prometheus.CounterVec
	conflicts        prometheus.Counter
	adminAuthFailure prometheus.Counter
	replaceDuration  prometheus.Histogram
	replaceSize      prometheus.Histogram
}

// New registers the instruments with reg. Passing prometheus.DefaultRegisterer
// exposes them on the default /metrics handler.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "board",
			Name:      "mutations_total",
			Help:      "Persisted board mutations by kind",
		}, []string{"kind"}),
		persistFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "board",
			Name:      "persist_failures_total",
			Help:      "Mutations whose replace-all failed, by kind",
		}, []string{"kind"}),
		conflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "board",
			Name:      "version_conflicts_total",
			Help:      "Replace-all attempts rejected for a stale revision",
		}),
		adminAuthFailure: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "admin",
			Name:      "auth_failures_total",
			Help:      "Admin operations rejected for a wrong passphrase",
		}),
		replaceDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "replace_all_duration_seconds",
			Help:      "Replace-all transaction latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		replaceSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "replace_all_entries",
			Help:      "Number of entries written per replace-all",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
}

// Mutation counts a successfully persisted mutation.
func (r *Recorder) Mutation(kind string) {
	if r == nil {
		return
	}
	r.mutations.WithLabelValues(kind).Inc()
}

// PersistFailure counts a mutation whose persist failed.
func (r *Recorder) PersistFailure(kind string) {
	if r == nil {
		return
	}
	r.persistFailures.WithLabelValues(kind).Inc()
}

func (r *Recorder) VersionConflict() {
	if r == nil {
		return
	}
	r.conflicts.Inc()
}

func (r *Recorder) AdminAuthFailure() {
	if r == nil {
		return
	}
	r.adminAuthFailure.Inc()
}

// ReplaceAll observes one replace-all call of n entries that took d.
func (r *Recorder) ReplaceAll(n int, d time.Duration) {
	if r == nil {
		return
	}
	r.replaceDuration.Observe(d.Seconds())
	r.replaceSize.Observe(float64(n))
}
