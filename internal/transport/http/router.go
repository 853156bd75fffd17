package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"seisprep/internal/config"
	"seisprep/internal/middleware"
	"seisprep/internal/services"
)

// RouterDeps holds the dependencies of the HTTP router.
type RouterDeps struct {
	Config   *config.Config
	Logger   *slog.Logger
	Pipeline *services.PipelineService
	Health   *services.HealthService
	Metrics  http.Handler
}

// NewRouter builds the service router.
func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimw.Recoverer)

	pipelineHandler := NewPipelineHandler(deps.Pipeline, deps.Logger)
	healthHandler := NewHealthHandler(deps.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/pipeline", func(r chi.Router) {
			r.With(middleware.RateLimit(deps.Config.Server.RateLimitRPS, deps.Config.Server.RateLimitBurst)).
				Post("/run", pipelineHandler.Run)
			r.Get("/status", pipelineHandler.Status)
		})
		r.Route("/health", func(r chi.Router) {
			r.Get("/", healthHandler.HealthCheck)
			r.Get("/live", healthHandler.LivenessCheck)
			r.Get("/ready", healthHandler.ReadinessCheck)
		})
	})

	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics)
	}

	return r
}
