package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchSessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cecidarium",
			Name:      "search_sessions_active",
			Help:      "Number of live search sessions",
		},
	)

	SearchFilterPassesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cecidarium",
			Name:      "search_filter_passes_total",
			Help:      "Total facet filter passes applied to displayed sets",
		},
	)

	RootFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cecidarium",
			Name:      "root_fetches_total",
			Help:      "Total root candidate fetches",
		},
		[]string{"kind", "status"}, // kind: host|genus, status: ok|error
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchSessionsActive)
	prometheus.MustRegister(SearchFilterPassesTotal)
	prometheus.MustRegister(RootFetchesTotal)
	searchMetricsRegistered = true
}
