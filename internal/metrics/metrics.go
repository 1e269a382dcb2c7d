// Package metrics exports worker pool activity as Prometheus metrics.
//
// One Metrics value owns the metric vectors for a registerer; each pool gets
// its own labelled Observer from ForPool.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/utkarsh5026/cadence/pool"
)

// Metrics holds the collectors shared by every pool reporting to one registerer.
type Metrics struct {
	Invocations        *prometheus.CounterVec
	CallbackFailures   *prometheus.CounterVec
	ActiveWorkers      *prometheus.GaugeVec
	InvocationDuration *prometheus.HistogramVec
}

// New registers the cadence collectors with registerer.
// A nil registerer uses prometheus.DefaultRegisterer.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &Metrics{
		Invocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cadence_invocations_total",
				Help: "Total number of callback invocations",
			},
			[]string{"pool"},
		),
		CallbackFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cadence_callback_failures_total",
				Help: "Total number of callback invocations that panicked",
			},
			[]string{"pool"},
		),
		ActiveWorkers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cadence_active_workers",
				Help: "Number of workers currently running their loop",
			},
			[]string{"pool"},
		),
		InvocationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cadence_invocation_duration_seconds",
				Help:    "Callback invocation duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs to ~26s
			},
			[]string{"pool"},
		),
	}
}

// ForPool returns an Observer that records events under the given pool label.
func (m *Metrics) ForPool(name string) pool.Observer {
	return &poolObserver{
		invocations: m.Invocations.WithLabelValues(name),
		failures:    m.CallbackFailures.WithLabelValues(name),
		active:      m.ActiveWorkers.WithLabelValues(name),
		duration:    m.InvocationDuration.WithLabelValues(name),
	}
}

type poolObserver struct {
	invocations prometheus.Counter
	failures    prometheus.Counter
	active      prometheus.Gauge
	duration    prometheus.Observer
}

func (o *poolObserver) WorkerStarted(pool.WorkerID) {
	o.active.Inc()
}

func (o *poolObserver) InvocationFinished(_ pool.WorkerID, elapsed time.Duration, err error) {
	o.invocations.Inc()
	o.duration.Observe(elapsed.Seconds())
	if err != nil {
		o.failures.Inc()
	}
}

func (o *poolObserver) WorkerExited(pool.WorkerID, error) {
	o.active.Dec()
}
