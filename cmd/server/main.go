package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"degreeaudit/internal/app"
	auditHandler "degreeaudit/internal/audit/handler"
	genedHandler "degreeaudit/internal/gened/handler"
	"degreeaudit/internal/platform/config"
	"degreeaudit/internal/platform/httpserver"
	"degreeaudit/internal/platform/jwttoken"
	"degreeaudit/internal/platform/logger"
	"degreeaudit/internal/platform/metrics"
	"degreeaudit/internal/platform/middleware"
	rankingHandler "degreeaudit/internal/ranking/handler"
	"degreeaudit/internal/ratelimit"
	httptransport "degreeaudit/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg, log, app.WithMetrics())
	if err != nil {
		log.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("failed to release resources", "error", err)
		}
	}()

	var tokens middleware.TokenValidator
	if cfg.JWTSigningKey != "" {
		tokens = jwttoken.NewService(cfg.JWTSigningKey, config.TokenIssuer, config.TokenAudience)
	} else {
		log.Warn("JWT_SIGNING_KEY not set, API is unauthenticated")
	}

	limiter := ratelimit.NewMiddleware(a.RateLimits, cfg.RateLimit.PerWindow, cfg.RateLimit.Window, log)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:    log,
		Metrics:   metrics.New(),
		Tokens:    tokens,
		RateLimit: limiter,
		Handlers: []httptransport.Registrar{
			auditHandler.New(a.Audits, log),
			rankingHandler.New(a.Ranking, log),
			genedHandler.New(a.GenEd, log),
		},
		Checks: healthChecks(a),
	})

	srv := httpserver.New(cfg.Addr, router, cfg.HTTP)
	go func() {
		log.Info("starting degreeaudit", "addr", cfg.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	if err := httpserver.Shutdown(srv, cfg.HTTP); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

func healthChecks(a *app.App) map[string]httptransport.HealthCheck {
	checks := map[string]httptransport.HealthCheck{}
	if db, ok := a.Store.(interface{ DB() *sql.DB }); ok {
		checks["catalog"] = func(ctx context.Context) error { return db.DB().PingContext(ctx) }
	}
	if a.Redis != nil {
		checks["redis"] = a.Redis.Health
	}
	return checks
}

