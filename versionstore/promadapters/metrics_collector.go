// Package promadapters provides a Prometheus implementation of versionstore.MetricsCollector.
package promadapters

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AntonStoeckl/versionstore-go/versionstore"
)

const (
	labelOperation = "operation"
	labelStatus    = "status"
	labelErrorType = "error_type"
)

// labelNames is the fixed label set of every metric, Prometheus does not allow it to vary per observation.
var labelNames = []string{labelOperation, labelStatus, labelErrorType}

// DurationBuckets cover resolution queries from index hits to large spilled sorts, in seconds.
var DurationBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// MetricsCollector implements versionstore.MetricsCollector with Prometheus vectors:
//   - RecordDuration -> HistogramVec in seconds
//   - IncrementCounter -> CounterVec
//   - RecordValue -> GaugeVec
//
// Vectors are registered on first use. Every vector has the labels operation, status and error_type;
// other labels are dropped and missing ones are empty. It is safe for concurrent use.
type MetricsCollector struct {
	registerer prometheus.Registerer
	mu         sync.Mutex
	histograms map[string]*prometheus.HistogramVec
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
}

// NewMetricsCollector creates a collector registering its vectors with registerer.
// A nil registerer means prometheus.DefaultRegisterer.
func NewMetricsCollector(registerer prometheus.Registerer) *MetricsCollector {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &MetricsCollector{
		registerer: registerer,
		histograms: make(map[string]*prometheus.HistogramVec),
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
	}
}

func (m *MetricsCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	histogram, ok := m.histogram(metric)
	if !ok {
		return
	}

	histogram.With(toLabels(labels)).Observe(duration.Seconds())
}

func (m *MetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	counter, ok := m.counter(metric)
	if !ok {
		return
	}

	counter.With(toLabels(labels)).Inc()
}

func (m *MetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	gauge, ok := m.gauge(metric)
	if !ok {
		return
	}

	gauge.With(toLabels(labels)).Set(value)
}

func (m *MetricsCollector) histogram(name string) (*prometheus.HistogramVec, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if histogram, exists := m.histograms[name]; exists {
		return histogram, true
	}

	histogram, ok := register(m.registerer, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name,
			Help:    "Version store operation duration in seconds",
			Buckets: DurationBuckets,
		},
		labelNames,
	))
	if !ok {
		return nil, false
	}

	m.histograms[name] = histogram

	return histogram, true
}

func (m *MetricsCollector) counter(name string) (*prometheus.CounterVec, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if counter, exists := m.counters[name]; exists {
		return counter, true
	}

	counter, ok := register(m.registerer, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: "Version store operation counter",
		},
		labelNames,
	))
	if !ok {
		return nil, false
	}

	m.counters[name] = counter

	return counter, true
}

func (m *MetricsCollector) gauge(name string) (*prometheus.GaugeVec, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gauge, exists := m.gauges[name]; exists {
		return gauge, true
	}

	gauge, ok := register(m.registerer, prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name,
			Help: "Version store recorded value",
		},
		labelNames,
	))
	if !ok {
		return nil, false
	}

	m.gauges[name] = gauge

	return gauge, true
}

// register registers the vector, or returns the already registered one of the same kind,
// e.g. when two stores share a registry.
func register[V prometheus.Collector](registerer prometheus.Registerer, vec V) (V, bool) {
	err := registerer.Register(vec)
	if err == nil {
		return vec, true
	}

	var alreadyRegistered prometheus.AlreadyRegisteredError
	if errors.As(err, &alreadyRegistered) {
		existing, ok := alreadyRegistered.ExistingCollector.(V)
		return existing, ok
	}

	var zero V

	return zero, false
}

func toLabels(labels map[string]string) prometheus.Labels {
	return prometheus.Labels{
		labelOperation: labels[labelOperation],
		labelStatus:    labels[labelStatus],
		labelErrorType: labels[labelErrorType],
	}
}

var _ versionstore.MetricsCollector = (*MetricsCollector)(nil)
