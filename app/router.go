package app

import (
	"net/http"

	"github.com/Black-And-White-Club/talent-pipeline/app/shared/httpapi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// routable is implemented by every module's HTTP handlers.
type routable interface {
	Routes(r chi.Router)
}

// Router builds the HTTP API. /metrics is mounted here unless a separate
// metrics address is configured.
func (a *App) Router() http.Handler {
	limiter := httpapi.NewIPRateLimiter(rate.Limit(a.Config.HTTP.RateLimitPerSecond), a.Config.HTTP.RateLimitBurst)

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		httpapi.CorrelationMiddleware,
		httpapi.CORSMiddleware(a.Config.HTTP.AllowedOrigins),
	)

	r.Get("/healthz", a.handleHealth)
	if a.Config.Observability.MetricsAddress == "" {
		r.Method(http.MethodGet, "/metrics", a.metricsHandler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httpapi.RateLimitMiddleware(limiter))
		for _, h := range a.handlers {
			h.Routes(r)
		}
	})
	return r
}

func (a *App) metricsHandler() http.Handler {
	return promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{Registry: a.Registry})
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"database": "ok"}
	code := http.StatusOK
	if err := a.DB.PingContext(r.Context()); err != nil {
		status["database"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	if a.riverRunner != nil {
		status["queue"] = "ok"
		if err := a.riverRunner.HealthCheck(r.Context()); err != nil {
			status["queue"] = err.Error()
			code = http.StatusServiceUnavailable
		}
	}
	httpapi.WriteJSON(w, code, status)
}
