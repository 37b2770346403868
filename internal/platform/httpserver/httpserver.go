// Package httpserver builds the API listener from config.HTTPConfig.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"degreeaudit/internal/platform/config"
)

// New returns a server for handler on addr. Zero timeouts in cfg fall back
// to config.DefaultHTTP so a partially filled config never disables a bound.
func New(addr string, handler http.Handler, cfg config.HTTPConfig) *http.Server {
	def := config.DefaultHTTP()
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: orDefault(cfg.ReadHeaderTimeout, def.ReadHeaderTimeout),
		ReadTimeout:       orDefault(cfg.ReadTimeout, def.ReadTimeout),
		WriteTimeout:      orDefault(cfg.WriteTimeout, def.WriteTimeout),
		IdleTimeout:       orDefault(cfg.IdleTimeout, def.IdleTimeout),
	}
}

// Shutdown drains srv within cfg.ShutdownTimeout.
func Shutdown(srv *http.Server, cfg config.HTTPConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), orDefault(cfg.ShutdownTimeout, config.DefaultHTTP().ShutdownTimeout))
	defer cancel()
	return srv.Shutdown(ctx)
}

func orDefault(v, def time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return def
}
