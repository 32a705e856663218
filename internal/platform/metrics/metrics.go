package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "routeplan"

// Registry holds every metric this service exports.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// GeocodeLookupsTotal counts address resolutions.
// source: cache|provider, outcome: ok|not_found|ambiguous|unavailable
var GeocodeLookupsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "geocode_lookups_total",
		Help:      "Address resolutions by source and outcome",
	},
	[]string{"source", "outcome"},
)

// RoutePlansTotal counts routing calls.
// outcome: ok|no_route|unavailable
var RoutePlansTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "route_plans_total",
		Help:      "Route plans by preference and outcome",
	},
	[]string{"preference", "outcome"},
)

// StaleResultsDiscarded counts results dropped because a newer search started.
var StaleResultsDiscarded = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_results_discarded_total",
		Help:      "Results from superseded searches that were not applied",
	},
	[]string{"stage"},
)

var SearchDuration = promauto.With(Registry).NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_duration_seconds",
		Help:      "Duration of find-route cycles",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	},
	[]string{"outcome"},
)

var HTTPRequestsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route pattern and status",
	},
	[]string{"method", "pattern", "status"},
)
