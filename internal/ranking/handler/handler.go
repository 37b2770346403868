package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"degreeaudit/internal/audit/ports"
	"degreeaudit/internal/ranking"
	dErrors "degreeaudit/pkg/domain-errors"
	"degreeaudit/pkg/platform/httputil"
	"degreeaudit/pkg/requestcontext"
)

// Service defines the interface for ranking operations.
type Service interface {
	Rank(ctx context.Context, req ranking.Request) ([]ranking.Recommendation, error)
}

// Handler wires recommendation endpoints to the ranking service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a ranking handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts ranking endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/recommendations/{kind}", h.HandleRank)
}

// HandleRank handles POST /v1/recommendations/{kind} requests.
func (h *Handler) HandleRank(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	kind, ok := ports.ParseProgramKind(chi.URLParam(r, "kind"))
	if !ok || kind == ports.ProgramKindGenEd {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown recommendation kind"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[RankRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	recs, err := h.service.Rank(ctx, ranking.Request{
		Items:          req.ParsedItems(),
		PrimaryProgram: req.PrimaryProgramID,
		Kind:           kind,
		TopN:           req.TopN,
		MinCompletion:  req.MinCompletion,
		MaxGap:         req.MaxGap,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "ranking failed",
			"request_id", requestID,
			"kind", kind,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "recommendations served",
		"request_id", requestID,
		"kind", kind,
		"returned", len(recs),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromRecommendations(string(kind), recs))
}
