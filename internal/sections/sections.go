// Package sections turns an audit result into per-section progress for display.
//
// The extractor walks a requirement tree and the result it produced side by
// side. It is independent of the kind of program audited, so majors, minors,
// certificates and the general education framework share one code path.
package sections

import (
	"fmt"
	"strconv"
	"strings"

	"degreeaudit/internal/audit/models"
)

// Section summarises one top-level requirement group.
type Section struct {
	Name             string
	CreditsTarget    float64
	CreditsCompleted float64
	Applied          []string
	Needed           []string
}

// Extract builds one section per top-level child of a root AND node. A root
// of any other kind yields a single section for the whole tree. result must
// have been produced from node.
func Extract(result models.Result, node models.Node, items []models.CompletedItem) []Section {
	credits := creditsByID(items)
	applied := toSet(result.FulfilledBy)

	if node.Kind() != models.KindAnd {
		return []Section{buildSection(result, node, 0, credits, applied)}
	}

	children := node.Children()
	out := make([]Section, 0, len(children))
	for i, child := range children {
		if i >= len(result.Children) {
			break
		}
		out = append(out, buildSection(result.Children[i], child, i, credits, applied))
	}
	return out
}

// Needed lists every still-needed course or placeholder across the tree,
// de-duplicated in walk order.
func Needed(result models.Result, node models.Node, items []models.CompletedItem) []string {
	w := newWalker(creditsByID(items), toSet(result.FulfilledBy))
	w.walk(result, node)
	return w.needed
}

func buildSection(res models.Result, node models.Node, index int, credits map[string]float64, applied map[string]struct{}) Section {
	w := newWalker(credits, applied)
	w.walk(res, node)

	name := node.Label
	if name == "" {
		name = fmt.Sprintf("Section %d", index+1)
	}

	sec := Section{
		Name:          name,
		CreditsTarget: node.CreditsOr(res.CreditsRequired),
		Applied:       w.applied,
		Needed:        w.needed,
	}
	for _, id := range w.applied {
		sec.CreditsCompleted += credits[id]
	}
	return sec
}

type walker struct {
	completed map[string]float64
	committed map[string]struct{}

	applied     []string
	needed      []string
	seenApplied map[string]struct{}
	seenNeeded  map[string]struct{}
}

func newWalker(completed map[string]float64, committed map[string]struct{}) *walker {
	return &walker{
		completed:   completed,
		committed:   committed,
		seenApplied: make(map[string]struct{}),
		seenNeeded:  make(map[string]struct{}),
	}
}

func (w *walker) walk(res models.Result, node models.Node) {
	// Results from losing OR alternatives carry claims that were never
	// committed; only ids in the final claim set count as applied.
	for _, id := range res.FulfilledBy {
		if _, ok := w.committed[id]; ok {
			w.addApplied(id)
		}
	}

	satisfied := FullySatisfied(res)
	children := node.Children()

	if node.Kind() == models.KindOr && len(children) > 0 {
		if satisfied || len(res.Children) == 0 {
			return
		}
		best := models.MostEarned(res.Children)
		if best < len(children) {
			w.walk(res.Children[best], children[best])
		}
		return
	}

	if !satisfied {
		w.collectNeeded(node, res)
	}

	for i, child := range children {
		if i >= len(res.Children) {
			break
		}
		w.walk(res.Children[i], child)
	}
}

// FullySatisfied reports whether a branch needs nothing more. An OR also has
// to have earned its credit target, because its fallback can report MET for
// an alternative that only partly covers the target.
func FullySatisfied(res models.Result) bool {
	if !res.IsMet() {
		return false
	}
	if res.Kind == models.KindOr {
		return res.CreditsEarned >= res.CreditsRequired
	}
	return true
}

func (w *walker) collectNeeded(node models.Node, res models.Result) {
	switch b := node.Body.(type) {
	case models.Fixed:
		w.addNeededCourse(b.Course)
	case models.FixedList:
		for _, c := range b.Courses {
			w.addNeededCourse(c)
		}
	case models.PickFromList:
		excluded := toSet(b.Exclude)
		for _, c := range b.Pool {
			if _, skip := excluded[c]; !skip {
				w.addNeededCourse(c)
			}
		}
	case models.Or:
		for _, c := range b.Options {
			w.addNeededCourse(c)
		}
	case models.PickFromDept:
		w.addNeeded(deptPlaceholder(b))
	case models.PickFromCategory:
		w.addNeeded(fmt.Sprintf("%s credits with %s attribute", formatCredits(res.RemainingCredits()), b.Category))
	case models.AnyCourse:
		w.addNeeded(fmt.Sprintf("%s credits of any course%s", formatCredits(res.RemainingCredits()), levelSuffix(b.Levels)))
	case models.Proficiency:
		label := node.Label
		if label == "" {
			label = "Proficiency"
		}
		w.addNeeded(label + " (manual verification)")
	}
}

// addNeededCourse skips courses already on the record: a course lost to a
// sibling requirement is not something the person still has to take.
func (w *walker) addNeededCourse(id string) {
	if id == "" {
		return
	}
	if _, done := w.completed[id]; done {
		return
	}
	w.addNeeded(id)
}

func (w *walker) addNeeded(entry string) {
	if _, ok := w.seenNeeded[entry]; ok {
		return
	}
	w.seenNeeded[entry] = struct{}{}
	w.needed = append(w.needed, entry)
}

func (w *walker) addApplied(id string) {
	if _, ok := w.seenApplied[id]; ok {
		return
	}
	w.seenApplied[id] = struct{}{}
	w.applied = append(w.applied, id)
}

func deptPlaceholder(b models.PickFromDept) string {
	depts := strings.Join(b.Departments, "/")
	if b.Levels.Min == 0 {
		return depts + " (choose from department)"
	}
	hi := b.Levels.Max
	if hi == 0 {
		hi = b.Levels.Min + 99
	}
	return fmt.Sprintf("%s %d-%d (choose from department)", depts, b.Levels.Min, hi)
}

func levelSuffix(r models.LevelRange) string {
	switch {
	case r.IsZero():
		return ""
	case r.Max == 0:
		return fmt.Sprintf(" (level %d+)", r.Min)
	case r.Min == 0:
		return fmt.Sprintf(" (level %d or below)", r.Max)
	default:
		return fmt.Sprintf(" (levels %d-%d)", r.Min, r.Max)
	}
}

func formatCredits(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func creditsByID(items []models.CompletedItem) map[string]float64 {
	out := make(map[string]float64, len(items))
	for _, it := range items {
		if _, ok := out[it.ID]; !ok {
			out[it.ID] = it.Credits
		}
	}
	return out
}

func toSet(ids []string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
