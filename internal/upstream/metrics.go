package upstream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_upstream_requests_total",
		Help: "Requests issued to the delivery API by method and status.",
	}, []string{"method", "status"})

	refreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_token_refresh_total",
		Help: "Token refresh attempts by outcome.",
	}, []string{"outcome"})
)
