package gened

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"degreeaudit/internal/audit/models"
	"degreeaudit/internal/audit/ports"
	"degreeaudit/internal/audit/ports/mocks"
	catalogModels "degreeaudit/internal/catalog/models"
	"degreeaudit/internal/catalog/store"
	"degreeaudit/internal/platform/config"
	dErrors "degreeaudit/pkg/domain-errors"
	"degreeaudit/pkg/platform/sentinel"
)

type SuggestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	programs *mocks.MockProgramPort
	service  *Service
}

func TestSuggestSuite(t *testing.T) {
	suite.Run(t, new(SuggestSuite))
}

func (s *SuggestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.programs = mocks.NewMockProgramPort(s.ctrl)
	catalog := store.NewInMemoryStore(
		course("ART 10", 3, "GA"),
		course("ART 20", 3, "GA", "GH"),
		course("MUSIC 5", 0, "GA"),
		course("PHIL 10", 3, "GH", "GS", "GA"),
		course("STAT 200", 4, "GQ"),
		course("MATH 140", 4, "GQ"),
	)
	s.service = New(catalog, s.programs, config.DefaultRanking(),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func (s *SuggestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func course(id string, credits float64, attrs ...string) catalogModels.Course {
	return catalogModels.Course{ID: id, Name: id, CreditsMin: credits, CreditsMax: credits, GenEd: attrs}
}

func (s *SuggestSuite) primary() ports.Program {
	return ports.Program{
		ID:   "cs_bs",
		Kind: ports.ProgramKindMajor,
		Requirements: models.Node{Body: models.And{Children: []models.Node{
			{Body: models.Fixed{Course: "math 140"}},
			{Body: models.Or{Options: []string{"ART 10", "ART 30"}}},
		}}},
	}
}

func (s *SuggestSuite) TestScoresAndOrder() {
	s.programs.EXPECT().LoadRequirementTree(gomock.Any(), "cs_bs").Return(s.primary(), nil)

	got, err := s.service.Suggest(context.Background(), Request{
		PrimaryProgram:    "cs_bs",
		MissingAttributes: []string{"ga", "GQ"},
	})
	s.Require().NoError(err)
	s.Require().Len(got, 2)

	s.Equal("GA", got[0].Attribute)
	var ids []string
	var scores []int
	for _, sg := range got[0].Suggestions {
		ids = append(ids, sg.CourseID)
		scores = append(scores, sg.Score)
	}
	s.Equal([]string{"ART 10", "PHIL 10", "ART 20", "MUSIC 5"}, ids)
	s.Equal([]int{10, 4, 2, 0}, scores)
	s.True(got[0].Suggestions[0].ProgramMatch)
	s.Equal(3.0, got[0].Suggestions[3].Credits, "zero credit courses count as three")

	s.Equal("GQ", got[1].Attribute)
	s.Equal("MATH 140", got[1].Suggestions[0].CourseID)
	s.Equal(10, got[1].Suggestions[0].Score)
}

func (s *SuggestSuite) TestCompletedExcludedAndTopN() {
	got, err := s.service.Suggest(context.Background(), Request{
		MissingAttributes: []string{"GA"},
		Completed:         []string{"phil  10"},
		TopN:              2,
	})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Require().Len(got[0].Suggestions, 2)
	s.Equal("ART 20", got[0].Suggestions[0].CourseID)
	s.Equal("ART 10", got[0].Suggestions[1].CourseID)
}

func (s *SuggestSuite) TestUnknownAndDuplicateAttributesSkipped() {
	got, err := s.service.Suggest(context.Background(), Request{
		MissingAttributes: []string{"GX", "GQ", "gq"},
	})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("GQ", got[0].Attribute)
}

func (s *SuggestSuite) TestUnknownPrimaryProgram() {
	s.programs.EXPECT().LoadRequirementTree(gomock.Any(), "nope").
		Return(ports.Program{}, sentinel.ErrNotFound)

	got, err := s.service.Suggest(context.Background(), Request{
		PrimaryProgram:    "nope",
		MissingAttributes: []string{"GQ"},
	})
	s.Require().NoError(err)
	for _, sg := range got[0].Suggestions {
		s.False(sg.ProgramMatch)
	}
}

func (s *SuggestSuite) TestProgramStoreFailure() {
	s.programs.EXPECT().LoadRequirementTree(gomock.Any(), "cs_bs").
		Return(ports.Program{}, errors.New("disk gone"))

	_, err := s.service.Suggest(context.Background(), Request{PrimaryProgram: "cs_bs", MissingAttributes: []string{"GA"}})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

type failingFinder struct{}

func (failingFinder) FindByAttribute(context.Context, string) ([]catalogModels.Course, error) {
	return nil, errors.New("connection refused")
}

func TestSuggestCatalogFailure(t *testing.T) {
	svc := New(failingFinder{}, nil, config.DefaultRanking())
	_, err := svc.Suggest(context.Background(), Request{MissingAttributes: []string{"GA"}})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func TestScore(t *testing.T) {
	tests := []struct {
		name  string
		match bool
		attrs int
		want  int
	}{
		{"plain", false, 1, 0},
		{"no attributes", false, 0, 0},
		{"program match", true, 1, 10},
		{"three attributes", false, 3, 4},
		{"match and two attributes", true, 2, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.match, tt.attrs))
		})
	}
}

func TestCanonicalAttribute(t *testing.T) {
	got, ok := CanonicalAttribute(" INTERDOMAIN ")
	assert.True(t, ok)
	assert.Equal(t, "interdomain", got)

	_, ok = CanonicalAttribute("GX")
	assert.False(t, ok)
}
