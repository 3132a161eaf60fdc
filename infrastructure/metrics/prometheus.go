// Package metrics implements the metrics collection port with Prometheus.
package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ahrav/go-mimic/internal/ports"
)

// PrometheusCollector implements ports.MetricsCollector over a Prometheus
// registry. Metric vectors are created lazily on first use; the label set
// of that first observation fixes the label schema for the metric.
type PrometheusCollector struct {
	registry   *prometheus.Registry
	namespace  string
	mu         sync.Mutex
	histograms map[string]*prometheus.HistogramVec
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
}

var _ ports.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheusCollector builds a collector on its own registry under the
// given namespace.
func NewPrometheusCollector(namespace string) *PrometheusCollector {
	return &PrometheusCollector{
		registry:   prometheus.NewRegistry(),
		namespace:  namespace,
		histograms: make(map[string]*prometheus.HistogramVec),
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
	}
}

// Registry exposes the underlying registry for scrape handlers.
func (c *PrometheusCollector) Registry() *prometheus.Registry { return c.registry }

// RecordLatency observes a duration in seconds on the named histogram.
func (c *PrometheusCollector) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	keys, values := splitLabels(labels)

	c.mu.Lock()
	vec, ok := c.histograms[operation]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: c.namespace,
			Name:      operation,
			Help:      "Latency of " + operation,
			Buckets:   prometheus.DefBuckets,
		}, keys)
		c.registry.MustRegister(vec)
		c.histograms[operation] = vec
	}
	c.mu.Unlock()

	vec.WithLabelValues(values...).Observe(duration.Seconds())
}

// RecordCounter adds value to the named counter.
func (c *PrometheusCollector) RecordCounter(metric string, value float64, labels map[string]string) {
	keys, values := splitLabels(labels)

	c.mu.Lock()
	vec, ok := c.counters[metric]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: c.namespace,
			Name:      metric,
			Help:      "Count of " + metric,
		}, keys)
		c.registry.MustRegister(vec)
		c.counters[metric] = vec
	}
	c.mu.Unlock()

	vec.WithLabelValues(values...).Add(value)
}

// RecordGauge sets the named gauge.
func (c *PrometheusCollector) RecordGauge(metric string, value float64, labels map[string]string) {
	keys, values := splitLabels(labels)

	c.mu.Lock()
	vec, ok := c.gauges[metric]
	if !ok {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: c.namespace,
			Name:      metric,
			Help:      "Value of " + metric,
		}, keys)
		c.registry.MustRegister(vec)
		c.gauges[metric] = vec
	}
	c.mu.Unlock()

	vec.WithLabelValues(values...).Set(value)
}

// splitLabels returns label keys sorted with values in matching order, so a
// metric's label schema is stable regardless of map iteration order.
func splitLabels(labels map[string]string) (keys, values []string) {
	keys = make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values = make([]string, len(keys))
	for i, k := range keys {
		values[i] = labels[k]
	}
	return keys, values
}
