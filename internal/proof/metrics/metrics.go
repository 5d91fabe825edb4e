package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for proof request operations.
type Metrics struct {
	ProofRequests     *prometheus.CounterVec
	ProofFailures     *prometheus.CounterVec
	ReplayRejections  prometheus.Counter
	ProofDurationMs   prometheus.Histogram
	AgentCallFailures prometheus.Counter
}

// New registers and returns proof metrics collectors.
func New() *Metrics {
	return &Metrics{
		ProofRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "persona_proof_requests_total",
			Help: "Total number of access proof requests by outcome",
		}, []string{"outcome"}),
		ProofFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "persona_proof_failures_total",
			Help: "Total number of proof request failures by error code",
		}, []string{"code"}),
		ReplayRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "persona_proof_replay_rejections_total",
			Help: "Total number of proofs rejected for nullifier reuse",
		}),
		ProofDurationMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "persona_proof_duration_ms",
			Help:    "End-to-end proof request duration in milliseconds",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		}),
		AgentCallFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "persona_proof_agent_call_failures_total",
			Help: "Total number of wallet agent call failures during proof requests",
		}),
	}
}
