package base

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	RequestCount    *prometheus.CounterVec
	RequestFailures *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	MetadataFetches prometheus.Counter
}

func newMetrics() metrics {
	const subsystem = "chain_rpc"

	return metrics{
		RequestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chainlens",
			Subsystem: subsystem,
			Name:      "request_count",
			Help:      "Number of JSON-RPC requests sent to the node.",
		}, []string{"method"}),
		RequestFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chainlens",
			Subsystem: subsystem,
			Name:      "request_failures",
			Help:      "Number of JSON-RPC requests that returned an error.",
		}, []string{"method"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chainlens",
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "JSON-RPC request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		MetadataFetches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chainlens",
			Subsystem: subsystem,
			Name:      "metadata_fetches",
			Help:      "Number of runtime metadata downloads.",
		}),
	}
}

func (s *SubstrateAPI) Metrics() []prometheus.Collector {
	return []prometheus.Collector{
		s.metrics.RequestCount,
		s.metrics.RequestFailures,
		s.metrics.RequestDuration,
		s.metrics.MetadataFetches,
	}
}
