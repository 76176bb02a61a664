package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder backed by Prometheus collectors.
// Collectors are created and registered lazily on first use.
type PrometheusRecorder struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	assignments *prometheus.CounterVec
	loadTotal   *prometheus.CounterVec
	unassigned  *prometheus.CounterVec
	loadWrites  *prometheus.CounterVec
	runs        *prometheus.CounterVec
	runDuration prometheus.Histogram
}

var _ Recorder = (*PrometheusRecorder)(nil)

// NewPrometheus creates a recorder registering into reg (the default
// registerer when nil) under namespace ("zone_scheduler" when empty).
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusRecorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "zone_scheduler"
	}
	return &PrometheusRecorder{reg: reg, namespace: namespace}
}

func (p *PrometheusRecorder) ensureRegistered() {
	p.once.Do(func() {
		p.assignments = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "assignments_total",
			Help:      "Committed assignments by zone.",
		}, []string{"zone"})
		p.loadTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "load_units_total",
			Help:      "Load units handed out by zone.",
		}, []string{"zone"})
		p.unassigned = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "unassigned_total",
			Help:      "Day and zone pairs left empty by zone and reason.",
		}, []string{"zone", "reason"})
		p.loadWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "store",
			Name:      "load_writes_total",
			Help:      "Load write-backs to the roster store by result (success,failure).",
		}, []string{"result"})
		p.runs = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "runs_total",
			Help:      "Finished runs by outcome (ok,invalid,store_error,canceled).",
		}, []string{"outcome"})
		p.runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a run in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms .. ~4s
		})

		p.assignments = register(p.reg, p.assignments)
		p.loadTotal = register(p.reg, p.loadTotal)
		p.unassigned = register(p.reg, p.unassigned)
		p.loadWrites = register(p.reg, p.loadWrites)
		p.runs = register(p.reg, p.runs)
		p.runDuration = register(p.reg, p.runDuration)
	})
}

// register adds c to reg, reusing the collector already registered under the
// same name so that two recorders on one registerer do not panic.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
	}
	return c
}

func (p *PrometheusRecorder) RecordAssignment(zone string, load int) {
	p.ensureRegistered()
	p.assignments.WithLabelValues(zone).Inc()
	p.loadTotal.WithLabelValues(zone).Add(float64(load))
}

func (p *PrometheusRecorder) RecordUnassigned(zone, reason string) {
	p.ensureRegistered()
	p.unassigned.WithLabelValues(zone, reason).Inc()
}

func (p *PrometheusRecorder) RecordLoadWrite(success bool) {
	p.ensureRegistered()
	result := "success"
	if !success {
		result = "failure"
	}
	p.loadWrites.WithLabelValues(result).Inc()
}

func (p *PrometheusRecorder) RecordRun(seconds float64, outcome string) {
	p.ensureRegistered()
	p.runs.WithLabelValues(outcome).Inc()
	p.runDuration.Observe(seconds)
}
