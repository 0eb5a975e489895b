package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for Mesonet retrieval.
type Metrics struct {
	// Upstream fetches.
	FetchRequests *prometheus.CounterVec   // labels: kind={station_info,five_minute,daily_summary,soil_params}, outcome={success,error}
	FetchDuration *prometheus.HistogramVec // labels: kind

	// Retrieval results.
	RowsReturned    *prometheus.HistogramVec // labels: operation={geoinfo,hydraulic,daily,monthly}
	RetrievalErrors *prometheus.CounterVec   // labels: operation

	// Proxy traffic.
	ProxyRequests *prometheus.CounterVec // labels: route, code
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := NewMetricsForTesting()
	prometheus.MustRegister(
		m.FetchRequests,
		m.FetchDuration,
		m.RowsReturned,
		m.RetrievalErrors,
		m.ProxyRequests,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
// The library uses it as its default so embedding applications opt in to registration.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mesonet",
			Name:      "fetch_requests_total",
			Help:      "Upstream Mesonet requests by file kind and outcome.",
		}, []string{"kind", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mesonet",
			Name:      "fetch_duration_seconds",
			Help:      "Upstream Mesonet request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"kind"}),
		RowsReturned: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mesonet",
			Name:      "rows_returned",
			Help:      "Rows in each returned table by operation.",
			Buckets:   []float64{1, 10, 50, 100, 150, 500, 1000, 5000},
		}, []string{"operation"}),
		RetrievalErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mesonet",
			Name:      "retrieval_errors_total",
			Help:      "Failed retrieval operations.",
		}, []string{"operation"}),
		ProxyRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mesonet",
			Name:      "proxy_requests_total",
			Help:      "Proxy HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}
}
