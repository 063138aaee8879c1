package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Search tools metrics - using explicit registration
var (
	// HTTP request counter
	RequestsTotal *prometheus.CounterVec

	// Tool call counters
	ToolCallsTotal *prometheus.CounterVec

	// Tool duration histogram
	ToolDuration *prometheus.HistogramVec

	// Upstream requests by operation and outcome
	UpstreamRequestsTotal *prometheus.CounterVec

	// Upstream latency
	UpstreamLatency *prometheus.HistogramVec

	// Crawl subpages by outcome
	CrawlSubpagesTotal *prometheus.CounterVec
)

func init() {
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "searxng_tools",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "searxng_tools",
			Name:      "tool_calls_total",
			Help:      "Total tool invocations",
		},
		[]string{"tool_name", "surface", "status"},
	)

	ToolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "searxng_tools",
			Name:      "tool_duration_seconds",
			Help:      "Tool execution duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"tool_name", "surface"},
	)

	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "searxng_tools",
			Name:      "upstream_requests_total",
			Help:      "Total requests sent to the metasearch engine and fetched pages",
		},
		[]string{"operation", "status"},
	)

	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "searxng_tools",
			Name:      "upstream_latency_seconds",
			Help:      "Upstream response time in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"operation"},
	)

	CrawlSubpagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "searxng_tools",
			Name:      "crawl_subpages_total",
			Help:      "Crawl subpages by outcome (fetched or dropped)",
		},
		[]string{"outcome"},
	)

	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(ToolCallsTotal)
	prometheus.MustRegister(ToolDuration)
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamLatency)
	prometheus.MustRegister(CrawlSubpagesTotal)
}

// RecordRequest records an HTTP request
func RecordRequest(method, path, status string) {
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordToolCall records a tool invocation on one of the surfaces
func RecordToolCall(toolName, surface, status string, durationSec float64) {
	if status == "" {
		status = "unknown"
	}
	ToolCallsTotal.WithLabelValues(toolName, surface, status).Inc()
	ToolDuration.WithLabelValues(toolName, surface).Observe(durationSec)
}

// RecordUpstream records the outcome and latency of one upstream call
func RecordUpstream(operation, status string, durationSec float64) {
	UpstreamRequestsTotal.WithLabelValues(operation, status).Inc()
	UpstreamLatency.WithLabelValues(operation).Observe(durationSec)
}

// RecordCrawlSubpage counts a crawl subpage outcome
func RecordCrawlSubpage(outcome string) {
	CrawlSubpagesTotal.WithLabelValues(outcome).Inc()
}
