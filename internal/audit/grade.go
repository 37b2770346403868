package audit

import "strings"

// DefaultMinGrade is the lowest passing grade and the requirement when a node
// does not name one.
const DefaultMinGrade = "D"

// GradeOutcome is the result of comparing an achieved grade to a minimum.
type GradeOutcome bool

const (
	GradePass GradeOutcome = true
	GradeFail GradeOutcome = false
)

// gradeScale orders letter grades from failing to the top grade.
var gradeScale = map[string]int{
	"F":  0,
	"D":  1,
	"D+": 2,
	"C-": 3,
	"C":  4,
	"C+": 5,
	"B-": 6,
	"B":  7,
	"B+": 8,
	"A-": 9,
	"A":  10,
	"A+": 11,
}

// passingGrades is consulted when either grade is off the scale. Transfer and
// pass/fail marks count as passing.
var passingGrades = map[string]struct{}{
	"D": {}, "D+": {}, "C-": {}, "C": {}, "C+": {}, "B-": {}, "B": {},
	"B+": {}, "A-": {}, "A": {}, "A+": {},
	"P": {}, "SA": {}, "CR": {}, "TR": {},
}

// CompareGrade reports whether achieved meets required. An empty required
// grade means DefaultMinGrade. When either grade is not on the letter scale
// the comparison falls back to whether achieved is a passing mark at all.
func CompareGrade(achieved, required string) GradeOutcome {
	achieved = normalizeGrade(achieved)
	required = normalizeGrade(required)
	if required == "" {
		required = DefaultMinGrade
	}

	a, okA := gradeScale[achieved]
	r, okR := gradeScale[required]
	if !okA || !okR {
		_, passing := passingGrades[achieved]
		return GradeOutcome(passing)
	}
	return GradeOutcome(a >= r)
}

// Passes is CompareGrade as a bool.
func Passes(achieved, required string) bool {
	return bool(CompareGrade(achieved, required))
}

func normalizeGrade(g string) string {
	return strings.ToUpper(strings.TrimSpace(g))
}
