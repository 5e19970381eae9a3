package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "weatherwidget_upstream_requests_total",
		Help: "Total OpenWeatherMap requests by endpoint",
	}, []string{"endpoint"})
	UpstreamFailTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "weatherwidget_upstream_fail_total",
		Help: "Total failed OpenWeatherMap requests by endpoint",
	}, []string{"endpoint"})
	UpstreamDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "weatherwidget_upstream_duration_ms",
		Help:    "OpenWeatherMap call duration in milliseconds",
		Buckets: []float64{10, 25, 50, 100, 200, 500, 1000, 2500, 5000},
	}, []string{"endpoint"})
	StaleResponsesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "weatherwidget_stale_responses_total",
		Help: "Responses discarded because a newer request superseded them",
	}, []string{"kind"})
	SearchQueriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "weatherwidget_search_queries_total",
		Help: "Debounced location searches issued",
	})
)

func init() {
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamFailTotal)
	prometheus.MustRegister(UpstreamDurationMs)
	prometheus.MustRegister(StaleResponsesTotal)
	prometheus.MustRegister(SearchQueriesTotal)
}

// Handler exposes the registered metrics for scraping.
func Handler() http.Handler { return promhttp.Handler() }
