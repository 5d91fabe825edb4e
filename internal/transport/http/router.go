// Package httptransport assembles the HTTP surface: middleware stack, domain
// handlers, health probes, and the Prometheus scrape endpoint. Handlers
// delegate to domain services; no business logic lives here.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	request "persona/pkg/platform/middleware/request"
)

// Registrar is implemented by every handler that mounts routes.
type Registrar interface {
	Register(r chi.Router)
}

// maxBodyBytes caps request bodies well above the largest legitimate
// payload (a proof request) while shutting out abusive uploads.
const maxBodyBytes = 1 << 20

// NewRouter wires all endpoints with the shared middleware stack.
func NewRouter(logger *slog.Logger, metrics *request.Metrics, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(request.BodyLimit(maxBodyBytes))
	if metrics != nil {
		r.Use(request.Latency(metrics))
	}

	r.Handle("/metrics", promhttp.Handler())

	for _, h := range handlers {
		h.Register(r)
	}

	return r
}
