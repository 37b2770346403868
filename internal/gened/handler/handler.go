package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"degreeaudit/internal/gened"
	"degreeaudit/pkg/platform/httputil"
	"degreeaudit/pkg/requestcontext"
)

// Service defines the interface for gen-ed suggestion operations.
type Service interface {
	Suggest(ctx context.Context, req gened.Request) ([]gened.AttributeSuggestions, error)
}

// Handler wires gen-ed endpoints to the suggestion service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a gen-ed handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts gen-ed endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/gened/suggestions", h.HandleSuggest)
}

// HandleSuggest handles POST /v1/gened/suggestions requests.
func (h *Handler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SuggestRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Suggest(ctx, gened.Request{
		PrimaryProgram:    req.PrimaryProgramID,
		MissingAttributes: req.MissingAttributes,
		Completed:         req.CompletedIDs(),
		TopN:              req.TopN,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "gen-ed suggestions failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromSuggestions(result))
}
