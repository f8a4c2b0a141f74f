package api

import (
	"strconv"

	"github.com/FavorLabs/chainlens"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type metrics struct {
	RequestCount    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	SharedResponses prometheus.Counter
}

func newMetrics() metrics {
	const subsystem = "api"

	return metrics{
		RequestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chainlens",
			Subsystem: subsystem,
			Name:      "request_count",
			Help:      "Number of API requests.",
		}, []string{"route", "code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chainlens",
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Histogram of API response durations.",
			Buckets:   []float64{0.01, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"route"}),
		SharedResponses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chainlens",
			Subsystem: subsystem,
			Name:      "shared_responses",
			Help:      "Number of responses served from an identical in-flight request.",
		}),
	}
}

func (m metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.RequestCount, m.RequestDuration, m.SharedResponses}
}

func (m metrics) observe(route string, code int, seconds float64) {
	m.RequestCount.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(seconds)
}

func newMetricsRegistry() (r *prometheus.Registry) {
	r = prometheus.NewRegistry()

	// register standard metrics
	r.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{
			Namespace: "chainlens",
		}),
		collectors.NewGoCollector(),
		prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "chainlens",
			Name:      "info",
			Help:      "chainlens information.",
			ConstLabels: prometheus.Labels{
				"version": chainlens.Version,
			},
		}),
	)

	return r
}

func (s *Service) MustRegisterMetrics(cs ...prometheus.Collector) {
	s.metricsRegistry.MustRegister(cs...)
}
