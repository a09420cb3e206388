package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrflow_logins_total",
			Help: "Authentication attempts by result.",
		},
		[]string{"result"},
	)

	refreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrflow_token_refresh_total",
			Help: "Refresh token rotations by result.",
		},
		[]string{"result"},
	)

	transitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrflow_workflow_transitions_total",
			Help: "Workflow status transitions by target status.",
		},
		[]string{"status"},
	)
)

// ObserveLogin counts one authentication attempt.
func ObserveLogin(result string) {
	loginsTotal.WithLabelValues(result).Inc()
}

// ObserveRefresh counts one refresh token rotation attempt.
func ObserveRefresh(result string) {
	refreshTotal.WithLabelValues(result).Inc()
}

// ObserveTransition counts one workflow status transition.
func ObserveTransition(status string) {
	transitionsTotal.WithLabelValues(status).Inc()
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
