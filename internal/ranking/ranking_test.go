package ranking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"

	"degreeaudit/internal/audit/models"
	"degreeaudit/internal/audit/ports"
	auditService "degreeaudit/internal/audit/service"
	"degreeaudit/internal/platform/config"
	dErrors "degreeaudit/pkg/domain-errors"
	"degreeaudit/pkg/platform/sentinel"
)

type stubPrograms struct {
	programs map[string]ports.Program
	listErr  error
}

func (p stubPrograms) LoadRequirementTree(_ context.Context, id string) (ports.Program, error) {
	prog, ok := p.programs[id]
	if !ok {
		return ports.Program{}, sentinel.ErrNotFound
	}
	return prog, nil
}

func (p stubPrograms) ListCandidateIdentifiers(_ context.Context, kind ports.ProgramKind) ([]string, error) {
	if p.listErr != nil {
		return nil, p.listErr
	}
	var ids []string
	for id, prog := range p.programs {
		if prog.Kind == kind {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type stubCatalog map[string]ports.ItemDetails

func (c stubCatalog) LookupItem(_ context.Context, id string) (ports.ItemDetails, error) {
	d, ok := c[id]
	if !ok {
		return ports.ItemDetails{}, sentinel.ErrNotFound
	}
	return d, nil
}

type noEquivalents struct{}

func (noEquivalents) EquivalentsOf(context.Context, string) ([]string, error) { return nil, nil }

func fixed(id string) models.Node {
	return models.Node{Body: models.Fixed{Course: id}}
}

func and(children ...models.Node) models.Node {
	return models.Node{Body: models.And{Children: children}}
}

func testPrograms() map[string]ports.Program {
	return map[string]ports.Program{
		"cs_bs": {
			ID: "cs_bs", Kind: ports.ProgramKindMajor, CreditsRequired: 120,
			Requirements: and(fixed("CMPSC 131"), fixed("MATH 140"), fixed("STAT 414")),
		},
		"stats_minor": {
			ID: "stats_minor", Name: "Statistics", Kind: ports.ProgramKindMinor, CreditsRequired: 9,
			Requirements: and(fixed("STAT 414"), fixed("MATH 140"), fixed("STAT 415")),
		},
		"math_minor": {
			ID: "math_minor", Name: "Mathematics", Kind: ports.ProgramKindMinor, CreditsRequired: 12,
			Requirements: and(fixed("MATH 140"), fixed("MATH 141"), fixed("MATH 230"), fixed("MATH 220")),
		},
		"art_minor": {
			ID: "art_minor", Name: "Art", Kind: ports.ProgramKindMinor, CreditsRequired: 6,
			Requirements: and(fixed("ART 10"), fixed("ART 20")),
		},
	}
}

func testCatalog() stubCatalog {
	c := stubCatalog{}
	for _, id := range []string{"CMPSC 131", "STAT 414", "STAT 415", "MATH 141", "MATH 230", "MATH 220", "ART 10", "ART 20"} {
		c[id] = ports.ItemDetails{ID: id, Credits: 3}
	}
	c["MATH 140"] = ports.ItemDetails{ID: "MATH 140", Credits: 4}
	return c
}

type RankingSuite struct {
	suite.Suite
	service *Service
}

func TestRankingSuite(t *testing.T) {
	suite.Run(t, new(RankingSuite))
}

func newService(programs ports.ProgramPort, catalog ports.CatalogPort, cfg config.RankingConfig) *Service {
	audits := auditService.New(programs, catalog, noEquivalents{})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(audits, programs, catalog, cfg, WithLogger(logger))
}

func (s *RankingSuite) SetupTest() {
	s.service = newService(stubPrograms{programs: testPrograms()}, testCatalog(), config.DefaultRanking())
}

// =============================================================================
// Scoring
// =============================================================================

func (s *RankingSuite) TestScoreOrdersCloserCandidateFirst() {
	// 80% complete with a 4 credit gap against 50% complete with a 10 credit gap.
	first := Score(16, 20, 0.7, 0.3)
	second := Score(10, 20, 0.7, 0.3)
	s.Equal(80.0, first)
	s.Equal(50.0, second)
	s.Greater(first, second)
}

func (s *RankingSuite) TestScoreEdgeCases() {
	s.Equal(100.0, Score(0, 0, 0.7, 0.3), "zero target is complete")
	s.Equal(100.0, Score(30, 20, 0.7, 0.3), "over-completion caps at 100")
	s.Equal(0.0, Score(0, 20, 0.7, 0.3))
	s.Equal(33.3, Score(1, 3, 1, 0))
}

func (s *RankingSuite) TestSortRecommendationsBreaksTiesByID() {
	recs := []Recommendation{
		{ProgramID: "b", Score: 50},
		{ProgramID: "c", Score: 70},
		{ProgramID: "a", Score: 50},
	}
	SortRecommendations(recs)
	s.Equal([]string{"c", "a", "b"}, []string{recs[0].ProgramID, recs[1].ProgramID, recs[2].ProgramID})
}

// =============================================================================
// Rank
// =============================================================================

func (s *RankingSuite) TestRankWithPlannedCourses() {
	recs, err := s.service.Rank(context.Background(), Request{
		Items:          []models.CompletedItem{{ID: "CMPSC 131", Grade: "A", Credits: 3}},
		PrimaryProgram: "cs_bs",
		Kind:           ports.ProgramKindMinor,
	})
	s.Require().NoError(err)
	s.Require().Len(recs, 3)

	// stats: STAT 414 (3) + MATH 140 (4) planned, 7 of 9.
	stats := recs[0]
	s.Equal("stats_minor", stats.ProgramID)
	s.Equal(7.0, stats.CreditsEarned)
	s.Equal(2.0, stats.Gap)
	s.Equal(77.8, stats.Completion)
	s.Equal([]string{"MATH 140", "STAT 414"}, stats.Planned)
	s.Empty(stats.Applied)
	s.Equal([]string{"MATH 140", "STAT 414"}, stats.Overlap)
	s.Equal([]string{"STAT 415"}, stats.Needed)

	// math: MATH 140 planned, 4 of 12.
	s.Equal("math_minor", recs[1].ProgramID)
	s.Equal(4.0, recs[1].CreditsEarned)

	s.Equal("art_minor", recs[2].ProgramID)
	s.Equal(0.0, recs[2].Score)
}

func (s *RankingSuite) TestRankCountsRealItemsAsApplied() {
	recs, err := s.service.Rank(context.Background(), Request{
		Items: []models.CompletedItem{
			{ID: "ART 10", Grade: "A", Credits: 3},
			{ID: "ART 20", Grade: "B", Credits: 3},
		},
		Kind: ports.ProgramKindMinor,
	})
	s.Require().NoError(err)
	s.Require().NotEmpty(recs)
	s.Equal("art_minor", recs[0].ProgramID)
	s.Equal(100.0, recs[0].Score)
	s.Equal(models.StatusMet, recs[0].Status)
	s.Equal([]string{"ART 10", "ART 20"}, recs[0].Applied)
	s.Empty(recs[0].Planned)
	s.Empty(recs[0].Overlap)
}

func (s *RankingSuite) TestRankSectionsReflectRealRecordOnly() {
	programs := map[string]ports.Program{
		"stats_bs": {
			ID: "stats_bs", Kind: ports.ProgramKindMajor, CreditsRequired: 120,
			Requirements: and(fixed("STAT 414")),
		},
		"prob_minor": {
			ID: "prob_minor", Name: "Probability", Kind: ports.ProgramKindMinor, CreditsRequired: 9,
			Requirements: and(models.Node{
				Label:   "Probability Core",
				Credits: models.Credits(9),
				Body:    models.PickFromList{Pool: []string{"STAT 414", "STAT 415", "STAT 416"}},
			}),
		},
	}
	svc := newService(stubPrograms{programs: programs}, testCatalog(), config.DefaultRanking())

	recs, err := svc.Rank(context.Background(), Request{PrimaryProgram: "stats_bs", Kind: ports.ProgramKindMinor})
	s.Require().NoError(err)
	s.Require().Len(recs, 1)

	rec := recs[0]
	s.Equal(3.0, rec.CreditsEarned, "planned course still drives the score")
	s.Equal([]string{"STAT 414"}, rec.Planned)
	s.Require().Len(rec.Sections, 1)
	sec := rec.Sections[0]
	s.Equal([]string{"STAT 414"}, sec.Applied)
	s.Equal(0.0, sec.CreditsCompleted)
	s.Equal([]string{"STAT 414", "STAT 415", "STAT 416"}, sec.Needed)
	s.Equal([]string{"STAT 414", "STAT 415", "STAT 416"}, rec.Needed)
}

func (s *RankingSuite) TestRankFiltersBeforeTruncating() {
	minCompletion := 30.0
	recs, err := s.service.Rank(context.Background(), Request{
		PrimaryProgram: "cs_bs",
		Kind:           ports.ProgramKindMinor,
		TopN:           1,
		MinCompletion:  &minCompletion,
	})
	s.Require().NoError(err)
	s.Require().Len(recs, 1)
	s.Equal("stats_minor", recs[0].ProgramID)

	maxGap := 7.0
	recs, err = s.service.Rank(context.Background(), Request{
		PrimaryProgram: "cs_bs",
		Kind:           ports.ProgramKindMinor,
		MaxGap:         &maxGap,
	})
	s.Require().NoError(err)
	s.Require().Len(recs, 2)
	s.Equal("stats_minor", recs[0].ProgramID)
	s.Equal("art_minor", recs[1].ProgramID)
}

func (s *RankingSuite) TestRankUnknownPrimaryRanksWithoutPlan() {
	recs, err := s.service.Rank(context.Background(), Request{
		PrimaryProgram: "missing_bs",
		Kind:           ports.ProgramKindMinor,
	})
	s.Require().NoError(err)
	s.Require().Len(recs, 3)
	for _, r := range recs {
		s.Empty(r.Planned)
		s.Equal(0.0, r.CreditsEarned)
	}
	s.Equal([]string{"art_minor", "math_minor", "stats_minor"},
		[]string{recs[0].ProgramID, recs[1].ProgramID, recs[2].ProgramID}, "ties fall back to id order")
}

func (s *RankingSuite) TestRankDefaultTopN() {
	programs := testPrograms()
	for _, id := range []string{"m1", "m2", "m3", "m4", "m5", "m6", "m7"} {
		programs[id] = ports.Program{ID: id, Kind: ports.ProgramKindCertificate, CreditsRequired: 3,
			Requirements: and(fixed("ART 10"))}
	}
	svc := newService(stubPrograms{programs: programs}, testCatalog(), config.DefaultRanking())

	recs, err := svc.Rank(context.Background(), Request{Kind: ports.ProgramKindCertificate})
	s.Require().NoError(err)
	s.Len(recs, 6)
}

func (s *RankingSuite) TestRankPropagatesListFailure() {
	svc := newService(stubPrograms{programs: testPrograms(), listErr: errors.New("boom")}, testCatalog(), config.DefaultRanking())

	_, err := svc.Rank(context.Background(), Request{Kind: ports.ProgramKindMinor})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

type brokenCatalog struct{}

func (brokenCatalog) LookupItem(context.Context, string) (ports.ItemDetails, error) {
	return ports.ItemDetails{}, sentinel.ErrUnavailable
}

func (s *RankingSuite) TestRankPropagatesCatalogFailure() {
	svc := newService(stubPrograms{programs: testPrograms()}, brokenCatalog{}, config.DefaultRanking())

	_, err := svc.Rank(context.Background(), Request{PrimaryProgram: "cs_bs", Kind: ports.ProgramKindMinor})
	s.Require().Error(err)
	s.ErrorIs(err, sentinel.ErrUnavailable)
}

func TestRankFanOutLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	programs := testPrograms()
	for i := range 40 {
		id := "cert_" + string(rune('a'+i%26)) + string(rune('a'+i/26))
		programs[id] = ports.Program{ID: id, Kind: ports.ProgramKindCertificate, CreditsRequired: 6,
			Requirements: and(fixed("STAT 414"), fixed("ART 10"))}
	}
	cfg := config.DefaultRanking()
	cfg.Concurrency = 4
	svc := newService(stubPrograms{programs: programs}, testCatalog(), cfg)

	recs, err := svc.Rank(context.Background(), Request{PrimaryProgram: "cs_bs", Kind: ports.ProgramKindCertificate, TopN: 50})
	require.NoError(t, err)
	assert.Len(t, recs, 40)
	for _, r := range recs {
		assert.Equal(t, 50.0, r.Completion)
		assert.Equal(t, []string{"STAT 414"}, r.Planned)
	}
}

func TestRankIsDeterministicAcrossRuns(t *testing.T) {
	svc := newService(stubPrograms{programs: testPrograms()}, testCatalog(), config.DefaultRanking())
	req := Request{
		Items:          []models.CompletedItem{{ID: "MATH 141", Grade: "B", Credits: 4}},
		PrimaryProgram: "cs_bs",
		Kind:           ports.ProgramKindMinor,
	}

	first, err := svc.Rank(context.Background(), req)
	require.NoError(t, err)
	for range 5 {
		again, err := svc.Rank(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
