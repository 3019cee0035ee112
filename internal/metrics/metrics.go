// Package metrics provides engine.Collector implementations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Daolyap/random.daolyap.dev/internal/engine"
)

// PrometheusCollector implements engine.Collector on top of Prometheus.
// There is no built-in exposition endpoint; the caller owns the
// Registerer and decides how to surface it.
type PrometheusCollector struct {
	runsStarted     *prometheus.CounterVec
	runsEnded       *prometheus.CounterVec
	attempts        prometheus.Counter
	batches         prometheus.Counter
	batchSize       prometheus.Histogram
	workerErrors    prometheus.Counter
	workerExhausted prometheus.Counter
	runSeconds      prometheus.Histogram
}

var _ engine.Collector = (*PrometheusCollector)(nil)

// NewPrometheus registers the engine metrics with reg and returns the
// collector. Uses prometheus.DefaultRegisterer when reg is nil.
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "randhunt"
	}

	c := &PrometheusCollector{
		runsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_started_total",
			Help:      "Runs started, by attack mode.",
		}, []string{"mode"}),
		runsEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_ended_total",
			Help:      "Runs ended, by terminal reason.",
		}, []string{"reason"}),
		attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_total",
			Help:      "Candidate values checked across all runs.",
		}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Worker batches reported across all runs.",
		}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_attempts",
			Help:      "Attempts per reported batch.",
			Buckets:   prometheus.ExponentialBuckets(100, 4, 6), // 100 .. 102400
		}),
		workerErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_errors_total",
			Help:      "Workers that failed setup.",
		}),
		workerExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workers_exhausted_total",
			Help:      "Workers that drained their partition without a match.",
		}),
		runSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock run duration.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 4, 8), // 100ms .. ~27m
		}),
	}

	reg.MustRegister(
		c.runsStarted, c.runsEnded, c.attempts, c.batches,
		c.batchSize, c.workerErrors, c.workerExhausted, c.runSeconds,
	)
	return c
}

func (c *PrometheusCollector) RecordRunStart(mode string, _ int) {
	c.runsStarted.WithLabelValues(mode).Inc()
}

func (c *PrometheusCollector) ObserveBatch(attempts uint64) {
	c.batches.Inc()
	c.attempts.Add(float64(attempts))
	c.batchSize.Observe(float64(attempts))
}

func (c *PrometheusCollector) RecordWorkerError() {
	c.workerErrors.Inc()
}

func (c *PrometheusCollector) RecordWorkerExhausted() {
	c.workerExhausted.Inc()
}

func (c *PrometheusCollector) RecordOutcome(reason string, _ uint64, elapsedSeconds float64) {
	c.runsEnded.WithLabelValues(reason).Inc()
	c.runSeconds.Observe(elapsedSeconds)
}

// Nop discards all metrics.
type Nop struct{}

var _ engine.Collector = (*Nop)(nil)

// NewNop returns a collector that records nothing.
func NewNop() *Nop { return &Nop{} }

func (*Nop) RecordRunStart(string, int) {}
func (*Nop) ObserveBatch(uint64) {}
func (*Nop) RecordWorkerError() {}
func (*Nop) RecordWorkerExhausted() {}
func (*Nop) RecordOutcome(string, uint64, float64) {}
