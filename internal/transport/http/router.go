// Package httptransport assembles the public router from the per-domain
// handlers.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandler "logitrack/internal/auth/handler"
	inventoryhandler "logitrack/internal/inventory/handler"
	ordershandler "logitrack/internal/orders/handler"
	"logitrack/internal/platform/metrics"
	"logitrack/internal/platform/middleware"
)

// NewRouter wires all public endpoints behind the common middleware chain.
// Route-level auth (bearer token, manager role) lives with each handler.
func NewRouter(
	logger *slog.Logger,
	m *metrics.Metrics,
	authH *authhandler.Handler,
	inventoryH *inventoryhandler.Handler,
	ordersH *ordershandler.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.Latency(m))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	authH.Register(r)
	inventoryH.Register(r)
	ordersH.Register(r)
	return r
}
