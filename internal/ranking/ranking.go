// Package ranking orders candidate programs (minors, certificates) by how
// close a person already is to completing them, assuming they finish the
// courses their primary program names.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"degreeaudit/internal/audit"
	"degreeaudit/internal/audit/models"
	"degreeaudit/internal/audit/ports"
	auditService "degreeaudit/internal/audit/service"
	"degreeaudit/internal/platform/config"
	"degreeaudit/internal/ranking/metrics"
	"degreeaudit/internal/sections"
	dErrors "degreeaudit/pkg/domain-errors"
	"degreeaudit/pkg/platform/sentinel"
	"degreeaudit/pkg/requestcontext"
)

// defaultPlaceholderCredits is used for planned courses the catalog does not know.
const defaultPlaceholderCredits = 3

// Evaluator audits programs. Implemented by the audit service.
type Evaluator interface {
	LoadProgram(ctx context.Context, programID string) (ports.Program, error)
	EvaluateProgram(ctx context.Context, program ports.Program, items []models.CompletedItem, ledger *audit.Ledger) (*auditService.Evaluation, error)
}

// Request describes one ranking run.
type Request struct {
	Items          []models.CompletedItem
	PrimaryProgram string
	Kind           ports.ProgramKind
	// TopN caps the result; zero uses the configured default.
	TopN          int
	MinCompletion *float64
	MaxGap        *float64
}

// Recommendation is one ranked candidate.
type Recommendation struct {
	ProgramID       string
	Name            string
	Kind            ports.ProgramKind
	Score           float64
	Completion      float64
	Gap             float64
	CreditsEarned   float64
	CreditsRequired float64
	Status          models.Status
	// Applied are ids from the real record the audit claimed.
	Applied []string
	// Planned are placeholder ids the audit claimed.
	Planned []string
	// Overlap are claimed ids the primary program also names.
	Overlap  []string
	Sections []sections.Section
	Needed   []string
}

// Service ranks candidate programs.
type Service struct {
	audits   Evaluator
	programs ports.ProgramPort
	catalog  ports.CatalogPort
	cfg      config.RankingConfig
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

// New constructs a ranking Service.
func New(audits Evaluator, programs ports.ProgramPort, catalog ports.CatalogPort, cfg config.RankingConfig, opts ...Option) *Service {
	s := &Service{
		audits:   audits,
		programs: programs,
		catalog:  catalog,
		cfg:      cfg,
		logger:   slog.Default(),
		tracer:   otel.Tracer("degreeaudit/ranking"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rank audits every candidate of req.Kind against the augmented record and
// returns the best TopN by score.
func (s *Service) Rank(ctx context.Context, req Request) ([]Recommendation, error) {
	ctx, span := s.tracer.Start(ctx, "ranking.Rank", trace.WithAttributes(
		attribute.String("ranking.kind", string(req.Kind)),
		attribute.String("ranking.primary", req.PrimaryProgram),
	))
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.ObserveRankLatency(string(req.Kind), time.Since(start)) }()

	plan, err := s.augment(ctx, req)
	if err != nil {
		return nil, err
	}

	ids, err := s.programs.ListCandidateIdentifiers(ctx, req.Kind)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list candidates")
	}
	ids = slices.DeleteFunc(ids, func(id string) bool { return id == req.PrimaryProgram })
	span.SetAttributes(attribute.Int("ranking.candidates", len(ids)))

	recs, err := s.evaluateAll(ctx, ids, plan)
	if err != nil {
		return nil, err
	}
	s.metrics.AddCandidates(string(req.Kind), len(ids))

	recs = slices.DeleteFunc(recs, func(r Recommendation) bool {
		if req.MinCompletion != nil && r.Completion < *req.MinCompletion {
			return true
		}
		return req.MaxGap != nil && r.Gap > *req.MaxGap
	})
	SortRecommendations(recs)

	topN := req.TopN
	if topN <= 0 {
		topN = s.cfg.TopN
	}
	if topN > 0 && len(recs) > topN {
		recs = recs[:topN]
	}

	s.logger.InfoContext(ctx, "candidates ranked",
		"request_id", requestcontext.RequestID(ctx),
		"kind", req.Kind,
		"primary_program", req.PrimaryProgram,
		"candidates", len(ids),
		"returned", len(recs),
		"planned_items", len(plan.placeholders),
	)
	return recs, nil
}

// plan is the augmented record shared read-only by every candidate audit.
// record is the person's real record; section and needed views are built
// from it so planned courses neither count as completed nor drop out of
// the needed list.
type plan struct {
	items        []models.CompletedItem
	record       []models.CompletedItem
	real         map[string]struct{}
	placeholders map[string]struct{}
	named        map[string]struct{}
}

// augment adds a placeholder for every course the primary program names
// that the record does not already contain.
func (s *Service) augment(ctx context.Context, req Request) (*plan, error) {
	p := &plan{
		items:        slices.Clone(req.Items),
		record:       req.Items,
		real:         make(map[string]struct{}, len(req.Items)),
		placeholders: make(map[string]struct{}),
		named:        make(map[string]struct{}),
	}
	for _, it := range req.Items {
		p.real[it.ID] = struct{}{}
	}
	if req.PrimaryProgram == "" {
		return p, nil
	}

	primary, err := s.audits.LoadProgram(ctx, req.PrimaryProgram)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			s.logger.WarnContext(ctx, "primary program not found, ranking without planned courses",
				"request_id", requestcontext.RequestID(ctx),
				"primary_program", req.PrimaryProgram,
			)
			return p, nil
		}
		return nil, err
	}

	for _, id := range audit.NamedItems(primary.Requirements) {
		p.named[id] = struct{}{}
		if _, ok := p.real[id]; ok {
			continue
		}
		credits, err := s.placeholderCredits(ctx, id)
		if err != nil {
			return nil, err
		}
		p.items = append(p.items, models.CompletedItem{ID: id, Grade: s.cfg.PlaceholderGrade, Credits: credits})
		p.placeholders[id] = struct{}{}
	}
	s.metrics.ObservePlaceholders(len(p.placeholders))
	return p, nil
}

func (s *Service) placeholderCredits(ctx context.Context, id string) (float64, error) {
	d, err := s.catalog.LookupItem(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return defaultPlaceholderCredits, nil
		}
		return 0, dErrors.Wrap(fmt.Errorf("lookup course %s: %w", id, err), dErrors.CodeUnavailable, "catalog unavailable")
	}
	if d.Credits <= 0 {
		return defaultPlaceholderCredits, nil
	}
	return d.Credits, nil
}

// evaluateAll audits every candidate concurrently, each with its own ledger.
// Results keep candidate order.
func (s *Service) evaluateAll(ctx context.Context, ids []string, p *plan) ([]Recommendation, error) {
	out := make([]Recommendation, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	if s.cfg.Concurrency > 0 {
		g.SetLimit(s.cfg.Concurrency)
	}

	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			program, err := s.audits.LoadProgram(gctx, id)
			if err != nil {
				return err
			}
			eval, err := s.audits.EvaluateProgram(gctx, program, p.items, audit.NewLedger())
			if err != nil {
				return err
			}
			out[i] = s.recommend(eval, p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) recommend(eval *auditService.Evaluation, p *plan) Recommendation {
	total := eval.Program.CreditsRequired
	if total <= 0 {
		total = eval.Result.CreditsRequired
	}
	earned := eval.Result.CreditsEarned
	gap := math.Max(0, total-earned)

	rec := Recommendation{
		ProgramID:       eval.Program.ID,
		Name:            eval.Program.Name,
		Kind:            eval.Program.Kind,
		Completion:      round1(Completion(earned, total)),
		Gap:             gap,
		CreditsEarned:   earned,
		CreditsRequired: total,
		Status:          eval.Result.Status,
		Score:           Score(earned, total, s.cfg.CompletionWeight, s.cfg.GapWeight),
		Sections:        sections.Extract(eval.Result, eval.Program.Requirements, p.record),
		Needed:          sections.Needed(eval.Result, eval.Program.Requirements, p.record),
	}
	for _, id := range eval.Claimed {
		if _, ok := p.placeholders[id]; ok {
			rec.Planned = append(rec.Planned, id)
		} else if _, ok := p.real[id]; ok {
			rec.Applied = append(rec.Applied, id)
		}
		if _, ok := p.named[id]; ok {
			rec.Overlap = append(rec.Overlap, id)
		}
	}
	return rec
}

// Completion is earned as a percentage of total, capped at 100. A zero
// total counts as complete.
func Completion(earned, total float64) float64 {
	if total <= 0 {
		return 100
	}
	return math.Min(100, earned/total*100)
}

// Score combines completion with an inverted gap normalised by the credit
// target: wc·completion + wg·max(0, 100 − gap/total·100), rounded to one
// decimal.
func Score(earned, total, wc, wg float64) float64 {
	gapScore := 100.0
	if total > 0 {
		gap := math.Max(0, total-earned)
		gapScore = math.Max(0, 100-gap/total*100)
	}
	return round1(wc*Completion(earned, total) + wg*gapScore)
}

// SortRecommendations orders by score descending, then program id.
func SortRecommendations(recs []Recommendation) {
	slices.SortStableFunc(recs, func(a, b Recommendation) int {
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}
			return 1
		}
		return strings.Compare(a.ProgramID, b.ProgramID)
	})
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
