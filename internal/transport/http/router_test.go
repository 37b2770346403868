package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"degreeaudit/internal/platform/jwttoken"
	"degreeaudit/internal/platform/middleware"
	"degreeaudit/pkg/testutil"
)

type pingHandler struct{}

func (pingHandler) Register(r chi.Router) {
	r.Get("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func newTestRouter(tokens middleware.TokenValidator, checks map[string]HealthCheck) http.Handler {
	return NewRouter(Deps{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tokens:   tokens,
		Handlers: []Registrar{pingHandler{}},
		Checks:   checks,
	})
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		rr := testutil.DoRequest(newTestRouter(nil, map[string]HealthCheck{
			"catalog": func(context.Context) error { return nil },
		}), testutil.NewRequest(t, http.MethodGet, "/health"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "catalog", "ok")
		assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("degraded", func(t *testing.T) {
		rr := testutil.DoRequest(newTestRouter(nil, map[string]HealthCheck{
			"redis": func(context.Context) error { return errors.New("connection refused") },
		}), testutil.NewRequest(t, http.MethodGet, "/health"))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		testutil.AssertJSONContains(t, rr, "status", "degraded")
	})
}

func TestAPIAuth(t *testing.T) {
	tokens := jwttoken.NewService("key", "degreeaudit", "degreeaudit-api")
	router := newTestRouter(tokens, nil)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/v1/ping"))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	token, err := tokens.IssueToken("advisor", "", time.Minute)
	require.NoError(t, err)
	req := testutil.NewRequest(t, http.MethodGet, "/v1/ping")
	req.Header.Set("Authorization", "Bearer "+token)
	rr = testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusNoContent)

	// health stays open
	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/health"))
	testutil.AssertStatusOK(t, rr)
}

func TestOpenAPIWithoutTokens(t *testing.T) {
	rr := testutil.DoRequest(newTestRouter(nil, nil), httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
	testutil.AssertStatus(t, rr, http.StatusNoContent)
}
