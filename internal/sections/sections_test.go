package sections_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"degreeaudit/internal/audit"
	"degreeaudit/internal/audit/models"
	"degreeaudit/internal/audit/ports"
	"degreeaudit/internal/sections"
	"degreeaudit/pkg/platform/sentinel"
)

type stubCatalog map[string]ports.ItemDetails

func (c stubCatalog) LookupItem(_ context.Context, id string) (ports.ItemDetails, error) {
	d, ok := c[id]
	if !ok {
		return ports.ItemDetails{}, fmt.Errorf("course %s: %w", id, sentinel.ErrNotFound)
	}
	return d, nil
}

var catalog = stubCatalog{
	"CMPSC 131": {ID: "CMPSC 131", Department: "CMPSC", Level: 100, Credits: 3},
	"CMPSC 132": {ID: "CMPSC 132", Department: "CMPSC", Level: 100, Credits: 3},
	"CMPSC 221": {ID: "CMPSC 221", Department: "CMPSC", Level: 200, Credits: 3},
	"MATH 140":  {ID: "MATH 140", Department: "MATH", Level: 100, Credits: 4},
	"MATH 141":  {ID: "MATH 141", Department: "MATH", Level: 100, Credits: 4},
	"ENGL 15":   {ID: "ENGL 15", Department: "ENGL", Level: 100, Credits: 3},
	"ENGL 30":   {ID: "ENGL 30", Department: "ENGL", Level: 100, Credits: 3},
}

func run(t *testing.T, node models.Node, items []models.CompletedItem) models.Result {
	t.Helper()
	res, err := audit.NewAuditor(catalog, nil).Audit(context.Background(), node, items, nil)
	require.NoError(t, err)
	return res
}

func majorTree() models.Node {
	return models.Node{Label: "Computer Science BS", Body: models.And{Children: []models.Node{
		{Label: "Core", Body: models.FixedList{Courses: []string{"CMPSC 131", "CMPSC 132", "CMPSC 221"}}},
		{Body: models.Or{Children: []models.Node{
			{Body: models.FixedList{Courses: []string{"MATH 140", "MATH 141"}}},
			{Body: models.FixedList{Courses: []string{"MATH 110", "MATH 111"}}},
		}}},
		{Label: "Electives", Credits: models.Credits(6), Body: models.PickFromDept{
			Departments: []string{"CMPSC"},
			Levels:      models.LevelRange{Min: 400},
		}},
		{Label: "Writing", Credits: models.Credits(3), Body: models.PickFromList{Pool: []string{"ENGL 15", "ENGL 30"}}},
	}}}
}

func majorItems() []models.CompletedItem {
	return []models.CompletedItem{
		{ID: "CMPSC 131", Grade: "A", Credits: 3},
		{ID: "CMPSC 132", Grade: "B", Credits: 3},
		{ID: "MATH 140", Grade: "B", Credits: 4},
		{ID: "ENGL 30", Grade: "A", Credits: 3},
	}
}

func TestExtract(t *testing.T) {
	node, items := majorTree(), majorItems()
	got := sections.Extract(run(t, node, items), node, items)

	require.Len(t, got, 4)

	t.Run("partially completed list", func(t *testing.T) {
		assert.Equal(t, sections.Section{
			Name:             "Core",
			CreditsTarget:    9,
			CreditsCompleted: 6,
			Applied:          []string{"CMPSC 131", "CMPSC 132"},
			Needed:           []string{"CMPSC 221"},
		}, got[0])
	})

	t.Run("unlabelled or follows the pursued alternative", func(t *testing.T) {
		assert.Equal(t, "Section 2", got[1].Name)
		assert.Equal(t, []string{"MATH 140"}, got[1].Applied)
		assert.Equal(t, []string{"MATH 141"}, got[1].Needed)
		assert.Equal(t, 4.0, got[1].CreditsCompleted)
	})

	t.Run("department pick gets a placeholder", func(t *testing.T) {
		assert.Empty(t, got[2].Applied)
		assert.Equal(t, []string{"CMPSC 400-499 (choose from department)"}, got[2].Needed)
		assert.Equal(t, 6.0, got[2].CreditsTarget)
	})

	t.Run("satisfied section needs nothing", func(t *testing.T) {
		assert.Equal(t, []string{"ENGL 30"}, got[3].Applied)
		assert.Empty(t, got[3].Needed)
	})
}

func TestNeeded(t *testing.T) {
	node, items := majorTree(), majorItems()
	got := sections.Needed(run(t, node, items), node, items)

	assert.Equal(t, []string{"CMPSC 221", "MATH 141", "CMPSC 400-499 (choose from department)"}, got)
}

func TestExtractSkipsCoursesLostToSiblings(t *testing.T) {
	node := models.Node{Body: models.And{Children: []models.Node{
		{Label: "First", Body: models.Fixed{Course: "CMPSC 131"}},
		{Label: "Second", Body: models.FixedList{Courses: []string{"CMPSC 131", "CMPSC 132"}}},
	}}}
	items := []models.CompletedItem{{ID: "CMPSC 131", Grade: "A", Credits: 3}}

	got := sections.Extract(run(t, node, items), node, items)

	require.Len(t, got, 2)
	assert.Equal(t, []string{"CMPSC 131"}, got[0].Applied)
	assert.Empty(t, got[1].Applied)
	assert.Equal(t, []string{"CMPSC 132"}, got[1].Needed)
}

func TestExtractMetOrBelowTarget(t *testing.T) {
	// An OR reported MET but short of its target is still walked.
	node := models.Node{Body: models.And{Children: []models.Node{
		{Label: "Lab science", Body: models.Or{Children: []models.Node{
			{Body: models.FixedList{Courses: []string{"CHEM 110", "CHEM 111"}}},
			{Body: models.Fixed{Course: "PHYS 211"}},
		}}},
	}}}
	result := models.Result{Kind: models.KindAnd, Status: models.StatusMet, FulfilledBy: []string{"PHYS 211"},
		Children: []models.Result{{
			Kind: models.KindOr, Status: models.StatusMet, CreditsEarned: 3, CreditsRequired: 6,
			FulfilledBy: []string{"PHYS 211"},
			Children: []models.Result{
				{Kind: models.KindFixedList, Status: models.StatusPartial, CreditsEarned: 4, CreditsRequired: 8, FulfilledBy: []string{"CHEM 110"}},
				{Kind: models.KindFixed, Status: models.StatusMet, CreditsEarned: 3, CreditsRequired: 3, FulfilledBy: []string{"PHYS 211"}},
			},
		}},
	}
	items := []models.CompletedItem{{ID: "CHEM 110", Grade: "B", Credits: 4}, {ID: "PHYS 211", Grade: "B", Credits: 3}}

	got := sections.Extract(result, node, items)

	require.Len(t, got, 1)
	assert.Equal(t, []string{"CHEM 111"}, got[0].Needed)
	assert.Equal(t, []string{"PHYS 211"}, got[0].Applied, "probe claims are not applied")
}

func TestFullySatisfied(t *testing.T) {
	tests := []struct {
		name string
		res  models.Result
		want bool
	}{
		{name: "met leaf", res: models.Result{Kind: models.KindFixed, Status: models.StatusMet}, want: true},
		{name: "partial leaf", res: models.Result{Kind: models.KindFixed, Status: models.StatusPartial}, want: false},
		{name: "met or on target", res: models.Result{Kind: models.KindOr, Status: models.StatusMet, CreditsEarned: 3, CreditsRequired: 3}, want: true},
		{name: "met or short of target", res: models.Result{Kind: models.KindOr, Status: models.StatusMet, CreditsEarned: 3, CreditsRequired: 6}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sections.FullySatisfied(tt.res))
		})
	}
}

func TestPlaceholders(t *testing.T) {
	node := models.Node{Body: models.And{Children: []models.Node{
		{Label: "World language", Body: models.Proficiency{}},
		{Credits: models.Credits(6), Body: models.PickFromCategory{Category: "GN"}},
		{Credits: models.Credits(3), Body: models.AnyCourse{Levels: models.LevelRange{Min: 400}}},
		{Body: models.Or{Options: []string{"ENGL 15", "ENGL 30"}}},
	}}}

	got := sections.Needed(run(t, node, nil), node, nil)

	assert.Equal(t, []string{
		"World language (manual verification)",
		"6 credits with GN attribute",
		"3 credits of any course (level 400+)",
		"ENGL 15",
		"ENGL 30",
	}, got)
}

func TestExtractNonAndRoot(t *testing.T) {
	node := models.Node{Label: "Statistics", Body: models.Fixed{Course: "STAT 414"}}
	got := sections.Extract(run(t, node, nil), node, nil)

	require.Len(t, got, 1)
	assert.Equal(t, "Statistics", got[0].Name)
	assert.Equal(t, []string{"STAT 414"}, got[0].Needed)
	assert.Equal(t, 3.0, got[0].CreditsTarget)
}
