package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"urlintel/internal/api/v1/handler"
	"urlintel/internal/api/v1/middleware"
	"urlintel/internal/log"
	"urlintel/pkg/response"
)

// New returns the public API with the full middleware chain applied.
func New(h *handler.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("POST /analyze", h.AnalyzePage)
	mux.HandleFunc("GET /analyze-get", h.AnalyzePageGet)
	mux.HandleFunc("POST /test-connectivity", h.TestConnectivity)
	mux.HandleFunc("GET /test-get", h.TestGet)

	return middleware.RecoverPanic(
		log.Logger,
		func(w http.ResponseWriter, r *http.Request, err error) {
			response.Error(w, http.StatusInternalServerError, "an unexpected error occurred")
		},
		middleware.RequestID(
			middleware.Logging(
				middleware.Metrics(mux),
			),
		),
	)
}

// NewMetricsRouter serves Prometheus metrics on their own listener.
func NewMetricsRouter() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}
