package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"degreeaudit/internal/audit/models"
	"degreeaudit/internal/audit/service"
	"degreeaudit/pkg/platform/httputil"
	"degreeaudit/pkg/requestcontext"
)

// Service defines the interface for audit operations.
type Service interface {
	Evaluate(ctx context.Context, programID string, items []models.CompletedItem) (*service.Evaluation, error)
}

// Handler wires audit endpoints to the audit service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an audit handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts audit endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/audits", h.HandleAudit)
}

// HandleAudit handles POST /v1/audits requests.
func (h *Handler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[AuditRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	eval, err := h.service.Evaluate(ctx, req.ProgramID, req.ParsedItems())
	if err != nil {
		h.logger.WarnContext(ctx, "audit failed",
			"request_id", requestID,
			"program_id", req.ProgramID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "audit completed",
		"request_id", requestID,
		"program_id", req.ProgramID,
		"items", len(req.Items),
		"status", eval.Result.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromEvaluation(eval))
}
