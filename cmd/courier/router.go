package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/courier/pkg/httpserver"
	"github.com/dmitrymomot/courier/pkg/metrics"
)

// apiPrefix is where the notification API is mounted.
const apiPrefix = "/v1"

type mountable interface {
	Handle() http.Handler
}

func newRouter(api mountable, m *metrics.Metrics, log *slog.Logger, checks ...httpserver.Check) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		m.Middleware,
	)

	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(log, checks...))
	r.Handle("/metrics", m.Handler())

	r.Mount(apiPrefix, api.Handle())
	return r
}
