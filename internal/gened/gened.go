// Package gened suggests catalog courses for general education attributes a
// person still needs, preferring courses their primary program also names.
package gened

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"degreeaudit/internal/audit"
	"degreeaudit/internal/audit/ports"
	catalogModels "degreeaudit/internal/catalog/models"
	"degreeaudit/internal/platform/config"
	dErrors "degreeaudit/pkg/domain-errors"
	"degreeaudit/pkg/platform/sentinel"
	pstrings "degreeaudit/pkg/platform/strings"
	"degreeaudit/pkg/requestcontext"
)

const (
	// programMatchBonus rewards a course that also counts toward the primary program.
	programMatchBonus = 10
	// extraAttributeBonus is added for each attribute beyond the first.
	extraAttributeBonus = 2

	defaultCredits = 3
)

// Attributes are the general education attributes suggestions are offered for.
var Attributes = []string{"GWS", "GQ", "GHW", "GN", "GA", "GH", "GS", "interdomain"}

// CanonicalAttribute maps a caller supplied attribute to its canonical
// spelling. ok is false for attributes outside Attributes.
func CanonicalAttribute(attr string) (string, bool) {
	attr = strings.TrimSpace(attr)
	for _, a := range Attributes {
		if strings.EqualFold(a, attr) {
			return a, true
		}
	}
	return "", false
}

// CourseFinder lists catalog courses by attribute. Implemented by the catalog stores.
type CourseFinder interface {
	FindByAttribute(ctx context.Context, attribute string) ([]catalogModels.Course, error)
}

// Request describes one suggestion run.
type Request struct {
	PrimaryProgram    string
	MissingAttributes []string
	// Completed ids are never suggested.
	Completed []string
	// TopN caps suggestions per attribute; zero uses the configured default.
	TopN int
}

// Suggestion is one suggested course.
type Suggestion struct {
	CourseID     string
	Name         string
	Credits      float64
	Attributes   []string
	ProgramMatch bool
	Score        int
}

// AttributeSuggestions groups suggestions for one missing attribute.
type AttributeSuggestions struct {
	Attribute   string
	Suggestions []Suggestion
}

// Service builds gen-ed suggestions.
type Service struct {
	courses  CourseFinder
	programs ports.ProgramPort
	topN     int
	logger   *slog.Logger
	tracer   trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New constructs a suggestion Service.
func New(courses CourseFinder, programs ports.ProgramPort, cfg config.RankingConfig, opts ...Option) *Service {
	s := &Service{
		courses:  courses,
		programs: programs,
		topN:     cfg.GenEdTopN,
		logger:   slog.Default(),
		tracer:   otel.Tracer("degreeaudit/gened"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Suggest returns suggestions for every recognised missing attribute, in
// request order. Unrecognised attributes are skipped.
func (s *Service) Suggest(ctx context.Context, req Request) ([]AttributeSuggestions, error) {
	ctx, span := s.tracer.Start(ctx, "gened.Suggest", trace.WithAttributes(
		attribute.String("gened.primary", req.PrimaryProgram),
		attribute.StringSlice("gened.attributes", req.MissingAttributes),
	))
	defer span.End()

	named, err := s.programCourses(ctx, req.PrimaryProgram)
	if err != nil {
		return nil, err
	}
	completed := make(map[string]struct{}, len(req.Completed))
	for _, id := range pstrings.DedupeIdentifiers(req.Completed) {
		completed[id] = struct{}{}
	}
	topN := req.TopN
	if topN <= 0 {
		topN = s.topN
	}

	out := make([]AttributeSuggestions, 0, len(req.MissingAttributes))
	seen := make(map[string]struct{}, len(req.MissingAttributes))
	for _, raw := range req.MissingAttributes {
		attr, ok := CanonicalAttribute(raw)
		if !ok {
			s.logger.WarnContext(ctx, "skipping unknown gen-ed attribute",
				"request_id", requestcontext.RequestID(ctx),
				"attribute", raw,
			)
			continue
		}
		if _, dup := seen[attr]; dup {
			continue
		}
		seen[attr] = struct{}{}

		courses, err := s.courses.FindByAttribute(ctx, attr)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "catalog unavailable")
		}
		suggestions := make([]Suggestion, 0, len(courses))
		for _, c := range courses {
			id := pstrings.NormalizeIdentifier(c.ID)
			if _, done := completed[id]; done {
				continue
			}
			_, match := named[id]
			suggestions = append(suggestions, Suggestion{
				CourseID:     c.ID,
				Name:         c.Name,
				Credits:      creditsOf(c),
				Attributes:   slices.Clone(c.GenEd),
				ProgramMatch: match,
				Score:        Score(match, len(c.GenEd)),
			})
		}
		SortSuggestions(suggestions)
		if topN > 0 && len(suggestions) > topN {
			suggestions = suggestions[:topN]
		}
		out = append(out, AttributeSuggestions{Attribute: attr, Suggestions: suggestions})
	}

	s.logger.InfoContext(ctx, "gen-ed suggestions built",
		"request_id", requestcontext.RequestID(ctx),
		"primary_program", req.PrimaryProgram,
		"attributes", len(out),
		"program_courses", len(named),
	)
	return out, nil
}

// programCourses returns the normalised ids the primary program names. An
// unknown program contributes nothing.
func (s *Service) programCourses(ctx context.Context, programID string) (map[string]struct{}, error) {
	named := make(map[string]struct{})
	if programID == "" {
		return named, nil
	}
	program, err := s.programs.LoadRequirementTree(ctx, programID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "primary program not found, suggesting without program matches",
				"request_id", requestcontext.RequestID(ctx),
				"primary_program", programID,
			)
			return named, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load program")
	}
	for _, id := range audit.NamedItems(program.Requirements) {
		named[pstrings.NormalizeIdentifier(id)] = struct{}{}
	}
	return named, nil
}

// Score rates a course: a program match is worth programMatchBonus and every
// attribute past the first adds extraAttributeBonus.
func Score(programMatch bool, attributes int) int {
	score := 0
	if programMatch {
		score += programMatchBonus
	}
	if attributes > 1 {
		score += (attributes - 1) * extraAttributeBonus
	}
	return score
}

// SortSuggestions orders by score descending, then course id.
func SortSuggestions(s []Suggestion) {
	slices.SortStableFunc(s, func(a, b Suggestion) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return strings.Compare(a.CourseID, b.CourseID)
	})
}

func creditsOf(c catalogModels.Course) float64 {
	if c.CreditsMin > 0 {
		return c.CreditsMin
	}
	return defaultCredits
}
