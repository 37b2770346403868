package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"degreeaudit/internal/platform/jwttoken"
	dErrors "degreeaudit/pkg/domain-errors"
	"degreeaudit/pkg/platform/httputil"
	"degreeaudit/pkg/requestcontext"
)

// TokenValidator is satisfied by *jwttoken.Service.
type TokenValidator interface {
	ValidateToken(raw string) (*jwttoken.Claims, error)
}

// RequireAuth admits requests carrying a valid bearer token and records the
// token subject for the rate limiter and access log. Rejections use the
// standard error envelope with code "unauthorized".
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				logger.WarnContext(ctx, "missing bearer token", "request_id", requestcontext.RequestID(ctx))
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or malformed Authorization header"))
				return
			}

			claims, err := validator.ValidateToken(strings.TrimSpace(raw))
			if err != nil {
				logger.WarnContext(ctx, "rejected bearer token",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				httputil.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithSubject(ctx, claims.Subject)))
		})
	}
}
