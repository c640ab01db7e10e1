package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/user/css-purge-service/internal/delivery/http/handler"
	"github.com/user/css-purge-service/internal/delivery/http/middleware"
	"github.com/user/css-purge-service/pkg/metrics"
)

// New wires the routes. gatherer is the registry exposed on /metrics and
// publicPath is where artifacts are served.
func New(h *handler.Handler, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *zap.Logger, publicPath string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics(m))
	r.Use(chimw.Recoverer)

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealthCheck)
		r.Post("/purge", h.HandlePurge)
	})

	// Must match the URLs reported in purge responses.
	r.Get(strings.TrimSuffix(publicPath, "/")+"/{name}", h.HandleArtifact)

	return r
}
