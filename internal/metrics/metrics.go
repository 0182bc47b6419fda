package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// Searches counts orchestrated searches by outcome
	Searches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_searches_total", Help: "Route searches by outcome."},
		[]string{"outcome"},
	)
	// ProviderProbes counts availability probes by provider and result
	ProviderProbes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "provider_probes_total", Help: "Provider availability probes by result."},
		[]string{"provider", "result"},
	)
	// ProviderSearches counts provider search calls by provider and status
	ProviderSearches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "provider_searches_total", Help: "Provider search calls by status."},
		[]string{"provider", "status"},
	)
	// ProviderLatency tracks provider search latency in seconds
	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "provider_search_duration_seconds", Help: "Provider search latency in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"provider"},
	)
	// CacheLookups counts route cache reads by result
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_cache_lookups_total", Help: "Route cache lookups by result."},
		[]string{"result"},
	)
)

// RegisterDefault registers all collectors on Registry once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(Searches)
		Registry.MustRegister(ProviderProbes)
		Registry.MustRegister(ProviderSearches)
		Registry.MustRegister(ProviderLatency)
		Registry.MustRegister(CacheLookups)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
