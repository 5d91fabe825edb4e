package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for verification session operations.
type Metrics struct {
	SessionsStarted     *prometheus.CounterVec
	SessionsVerified    *prometheus.CounterVec
	SessionsFailed      *prometheus.CounterVec
	SessionsTimedOut    *prometheus.CounterVec
	PollTransportErrors prometheus.Counter
	AwaitDurationMs     prometheus.Histogram
}

// New registers and returns session metrics collectors.
func New() *Metrics {
	return &Metrics{
		SessionsStarted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "persona_sessions_started_total",
			Help: "Total number of verification sessions started",
		}, []string{"provider"}),
		SessionsVerified: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "persona_sessions_verified_total",
			Help: "Total number of sessions reaching verified status",
		}, []string{"provider"}),
		SessionsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "persona_sessions_failed_total",
			Help: "Total number of sessions reporting provider failure",
		}, []string{"provider"}),
		SessionsTimedOut: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "persona_sessions_timed_out_total",
			Help: "Total number of sessions abandoned at the polling ceiling",
		}, []string{"provider"}),
		PollTransportErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "persona_session_poll_transport_errors_total",
			Help: "Total number of swallowed transport errors during status polling",
		}),
		AwaitDurationMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "persona_session_await_duration_ms",
			Help:    "Time from await start to terminal status in milliseconds",
			Buckets: []float64{100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		}),
	}
}
