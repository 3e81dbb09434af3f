package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "spacetraders_api_requests_total",
		Help: "SpaceTraders API requests by method and HTTP status.",
	},
	[]string{"method", "status"},
)

func observeRequest(method, status string) {
	requestsTotal.WithLabelValues(method, status).Inc()
}
