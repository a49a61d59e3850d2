// Package metrics exports tree shape and operation counts to Prometheus.
package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Source is a tree-backed value whose shape can be scraped. It must be safe
// to call from the scrape goroutine; buffer.Buffer qualifies.
type Source interface {
	Len() int
	Height() int
	Rotations() int
}

// Collector reports every tracked source on scrape and counts operations.
type Collector struct {
	mu      sync.RWMutex
	sources map[string]Source

	sizeDesc      *prometheus.Desc
	heightDesc    *prometheus.Desc
	rotationsDesc *prometheus.Desc

	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates a collector whose metric names start with namespace.
func New(namespace string) *Collector {
	labels := []string{"tree"}
	return &Collector{
		sources: make(map[string]Source),
		sizeDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "tree", "size"),
			"Number of elements in the tree.", labels, nil),
		heightDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "tree", "height"),
			"Height of the tree; -1 when empty.", labels, nil),
		rotationsDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "tree", "rotations_total"),
			"Rotations performed by the tree, a double rotation counting as two.", labels, nil),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Tree operations by kind.",
		}, []string{"op"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Wall time of tree operations by kind.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"op"}),
	}
}

// Track starts reporting s under name, replacing any earlier source.
func (c *Collector) Track(name string, s Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources[name] = s
}

// Untrack stops reporting name.
func (c *Collector) Untrack(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sources, name)
}

// Observe counts one op and records the time since start.
func (c *Collector) Observe(op string, start time.Time) {
	c.ops.WithLabelValues(op).Inc()
	c.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.sizeDesc
	ch <- c.heightDesc
	ch <- c.rotationsDesc
	c.ops.Describe(ch)
	c.duration.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	names := make([]string, 0, len(c.sources))
	for name := range c.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	sources := make([]Source, len(names))
	for i, name := range names {
		sources[i] = c.sources[name]
	}
	c.mu.RUnlock()

	for i, s := range sources {
		ch <- prometheus.MustNewConstMetric(c.sizeDesc, prometheus.GaugeValue, float64(s.Len()), names[i])
		ch <- prometheus.MustNewConstMetric(c.heightDesc, prometheus.GaugeValue, float64(s.Height()), names[i])
		ch <- prometheus.MustNewConstMetric(c.rotationsDesc, prometheus.CounterValue, float64(s.Rotations()), names[i])
	}
	c.ops.Collect(ch)
	c.duration.Collect(ch)
}
