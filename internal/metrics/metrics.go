// Package metrics exposes generator and HTTP metrics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/eykd/timeid-go/pkg/timeid"
)

const namespace = "timeid"

// StatsSource reports generator counters.
type StatsSource interface {
	Stats() timeid.Stats
}

// generatorCollector reads counters from a StatsSource on every scrape, so
// Generate never touches Prometheus.
type generatorCollector struct {
	src       StatsSource
	generated *prometheus.Desc
	cycles    *prometheus.Desc
	reseeds   *prometheus.Desc
}

// NewGeneratorCollector returns a collector exporting src's counters.
func NewGeneratorCollector(src StatsSource) prometheus.Collector {
	return &generatorCollector{
		src: src,
		generated: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "generator", "ids_total"),
			"IDs generated", nil, nil),
		cycles: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "generator", "cycles_total"),
			"Keystream pool refills", nil, nil),
		reseeds: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "generator", "reseeds_total"),
			"Successful reseeds", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *generatorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.generated
	ch <- c.cycles
	ch <- c.reseeds
}

// Collect implements prometheus.Collector.
func (c *generatorCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.generated, prometheus.CounterValue, float64(s.Generated))
	ch <- prometheus.MustNewConstMetric(c.cycles, prometheus.CounterValue, float64(s.Cycles))
	ch <- prometheus.MustNewConstMetric(c.reseeds, prometheus.CounterValue, float64(s.Reseeds))
}

// HTTP holds request metrics for the ID service.
type HTTP struct {
	// RequestsTotal counts requests by method, route and status.
	RequestsTotal *prometheus.CounterVec
	// RequestDuration observes request latency in seconds by method and route.
	RequestDuration *prometheus.HistogramVec
}

// NewHTTP creates the request metrics and registers them with reg.
func NewHTTP(reg prometheus.Registerer) *HTTP {
	m := &HTTP{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	reg.MustRegister(m.RequestsTotal, m.RequestDuration)
	return m
}

// Register registers a generator collector for src and the HTTP request
// metrics with reg.
func Register(reg prometheus.Registerer, src StatsSource) *HTTP {
	reg.MustRegister(NewGeneratorCollector(src))
	return NewHTTP(reg)
}
