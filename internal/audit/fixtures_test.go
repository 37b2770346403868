package audit

import (
	"context"
	"fmt"

	"degreeaudit/internal/audit/models"
	"degreeaudit/internal/audit/ports"
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

type failingCatalog struct{ err error }

func (c failingCatalog) LookupItem(context.Context, string) (ports.ItemDetails, error) {
	return ports.ItemDetails{}, c.err
}

type stubEquivalents map[string][]string

func (e stubEquivalents) EquivalentsOf(_ context.Context, id string) ([]string, error) {
	return e[id], nil
}

func course(id, dept string, level int, credits float64, tags ...string) ports.ItemDetails {
	return ports.ItemDetails{ID: id, Department: dept, Level: level, Credits: credits, Tags: tags}
}

func testCatalog() stubCatalog {
	return stubCatalog{
		"CMPSC 131": course("CMPSC 131", "CMPSC", 100, 3),
		"CMPSC 132": course("CMPSC 132", "CMPSC", 100, 3),
		"CMPSC 221": course("CMPSC 221", "CMPSC", 200, 3),
		"CMPSC 311": course("CMPSC 311", "CMPSC", 300, 3),
		"CMPSC 465": course("CMPSC 465", "CMPSC", 400, 3),
		"MATH 140":  course("MATH 140", "MATH", 100, 4, "GQ"),
		"MATH 141":  course("MATH 141", "MATH", 100, 4, "GQ"),
		"MATH 230":  course("MATH 230", "MATH", 200, 4),
		"ENGL 15":   course("ENGL 15", "ENGL", 100, 3, "GWS"),
		"BIOL 110":  course("BIOL 110", "BIOL", 100, 4, "GN"),
		"GEOSC 10":  course("GEOSC 10", "GEOSC", 100, 3, "GN", "interdomain"),
		"STAT 414":  course("STAT 414", "STAT", 400, 3),
	}
}

func testEquivalents() stubEquivalents {
	return stubEquivalents{
		"CMPSC 121": {"CMPSC 131"},
		"CMPSC 131": {"CMPSC 121"},
		"CMPSC 122": {"CMPSC 132"},
		"CMPSC 132": {"CMPSC 122"},
		"STAT 318":  {"STAT 414"},
		"STAT 414":  {"STAT 318"},
	}
}

func item(id, grade string, credits float64) models.CompletedItem {
	return models.CompletedItem{ID: id, Grade: grade, Credits: credits}
}

func fixed(id string) models.Node {
	return models.Node{Body: models.Fixed{Course: id}}
}

func and(children ...models.Node) models.Node {
	return models.Node{Body: models.And{Children: children}}
}

func or(children ...models.Node) models.Node {
	return models.Node{Body: models.Or{Children: children}}
}

func pick(target float64, pool ...string) models.Node {
	return models.Node{Credits: models.Credits(target), Body: models.PickFromList{Pool: pool}}
}

func fixedList(ids ...string) models.Node {
	return models.Node{Body: models.FixedList{Courses: ids}}
}

// leafClaims collects FulfilledBy of every leaf on the committed path. For OR
// results only the winning alternative is followed; losing alternatives were
// audited against a discarded probe.
func leafClaims(r models.Result) [][]string {
	if len(r.Children) == 0 {
		return [][]string{r.FulfilledBy}
	}
	if r.Kind == models.KindOr {
		return leafClaims(r.Children[models.BestAlternative(r.Children)])
	}
	var out [][]string
	for _, c := range r.Children {
		out = append(out, leafClaims(c)...)
	}
	return out
}
