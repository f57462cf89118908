package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clinic_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route and status",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2, 5},
		},
		[]string{"method", "route", "status"},
	)

	AuthEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_auth_events_total",
			Help: "Authentication events by type and outcome",
		},
		[]string{"event", "outcome"},
	)

	OTPIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_otp_issued_total",
			Help: "One-time codes issued by provider",
		},
		[]string{"provider"},
	)

	AccessDenied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_access_denied_total",
			Help: "Requests rejected by the authorization gate",
		},
		[]string{"reason"},
	)
)

// Outcome labels a boolean result
func Outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
