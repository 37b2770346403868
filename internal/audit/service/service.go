// Package service runs program audits end to end: it loads the program,
// audits the record and derives the section and gap views.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"degreeaudit/internal/audit"
	"degreeaudit/internal/audit/metrics"
	"degreeaudit/internal/audit/models"
	"degreeaudit/internal/audit/ports"
	"degreeaudit/internal/sections"
	dErrors "degreeaudit/pkg/domain-errors"
	"degreeaudit/pkg/platform/sentinel"
	"degreeaudit/pkg/requestcontext"
)

// Evaluation is a program audit with its derived views.
type Evaluation struct {
	Program  ports.Program
	Result   models.Result
	Sections []sections.Section
	Needed   []string
	// Claimed is every id the audit committed, sorted.
	Claimed []string
}

// Service orchestrates program audits.
type Service struct {
	programs ports.ProgramPort
	auditor  *audit.Auditor
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service over the data ports.
func New(programs ports.ProgramPort, catalog ports.CatalogPort, equivalents ports.EquivalencyPort, opts ...Option) *Service {
	s := &Service{
		programs: programs,
		auditor:  audit.NewAuditor(catalog, equivalents),
		tracer:   otel.Tracer("degreeaudit/audit"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Programs exposes the program port for callers that enumerate candidates.
func (s *Service) Programs() ports.ProgramPort {
	return s.programs
}

// LoadProgram resolves a program id. Unknown ids yield a not_found domain error.
func (s *Service) LoadProgram(ctx context.Context, programID string) (ports.Program, error) {
	program, err := s.programs.LoadRequirementTree(ctx, programID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return ports.Program{}, dErrors.New(dErrors.CodeNotFound, "program not found")
		}
		return ports.Program{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load program")
	}
	return program, nil
}

// Evaluate audits items against the program with programID using a fresh
// ledger.
func (s *Service) Evaluate(ctx context.Context, programID string, items []models.CompletedItem) (*Evaluation, error) {
	program, err := s.LoadProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveRecordSize(len(items))
	return s.EvaluateProgram(ctx, program, items, nil)
}

// EvaluateProgram audits an already loaded program. ledger seeds the claimed
// set; nil starts empty. Each call must receive its own ledger.
func (s *Service) EvaluateProgram(ctx context.Context, program ports.Program, items []models.CompletedItem, ledger *audit.Ledger) (*Evaluation, error) {
	ctx, span := s.tracer.Start(ctx, "audit.Evaluate", trace.WithAttributes(
		attribute.String("program.id", program.ID),
		attribute.String("program.kind", string(program.Kind)),
		attribute.Int("record.items", len(items)),
	))
	defer span.End()

	if ledger == nil {
		ledger = audit.NewLedger()
	}

	start := time.Now()
	result, err := s.auditor.Audit(ctx, program.Requirements, items, ledger)
	s.metrics.ObserveAuditLatency(string(program.Kind), time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "audit failed")
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "audit failed",
				"program_id", program.ID,
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "catalog unavailable")
	}

	s.metrics.IncrementOutcome(string(program.Kind), string(result.Status))
	span.SetAttributes(attribute.String("audit.status", string(result.Status)))
	if s.logger != nil {
		s.logger.DebugContext(ctx, "program audited",
			"program_id", program.ID,
			"status", result.Status,
			"credits_earned", result.CreditsEarned,
			"credits_required", result.CreditsRequired,
			"request_id", requestcontext.RequestID(ctx),
		)
	}

	return &Evaluation{
		Program:  program,
		Result:   result,
		Sections: sections.Extract(result, program.Requirements, items),
		Needed:   sections.Needed(result, program.Requirements, items),
		Claimed:  ledger.Items(),
	}, nil
}
