package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"degreeaudit/internal/platform/metrics"
	"degreeaudit/internal/platform/middleware"
	"degreeaudit/internal/ratelimit"
	"degreeaudit/pkg/platform/httputil"
)

// Registrar is implemented by every API handler.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Deps are the collaborators the router mounts.
type Deps struct {
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Tokens    middleware.TokenValidator // nil leaves the API open
	RateLimit *ratelimit.Middleware
	Handlers  []Registrar
	Checks    map[string]HealthCheck
}

// NewRouter wires all public endpoints. Handlers stay thin and delegate to
// domain services so transport concerns remain isolated.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)
	r.Use(d.Metrics.Middleware)
	r.Use(middleware.AccessLog(d.Logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", healthHandler(d.Checks))
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(api chi.Router) {
		if d.Tokens != nil {
			api.Use(middleware.RequireAuth(d.Tokens, d.Logger))
		}
		api.Use(d.RateLimit.Handler)
		for _, h := range d.Handlers {
			h.Register(api)
		}
	})
	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
				continue
			}
			body[name] = "ok"
		}
		httputil.WriteJSON(w, status, body)
	}
}
