package catalog

import (
	"encoding/json"
	"strings"

	"degreeaudit/internal/audit/models"
)

// rawNode is a requirement node as it appears in program files. Several
// fields have historical aliases; normalize folds them into models.Node.
type rawNode struct {
	Type     string    `json:"type"`
	Label    string    `json:"label"`
	Children []rawNode `json:"children"`
	Options  []string  `json:"options"`

	Course         string   `json:"course"`
	CourseID       string   `json:"course_id"`
	Courses        []string `json:"courses"`
	ValidCourses   []string `json:"valid_courses"`
	ExcludeCourses []string `json:"exclude_courses"`

	CreditsNeeded   *float64 `json:"credits_needed"`
	CreditsRequired *float64 `json:"credits_required"`
	TotalCredits    *float64 `json:"total_credits"`

	MinGrade          string                 `json:"min_grade"`
	MinGradeOverrides map[string]string      `json:"min_grade_overrides"`
	ValidDepartments  []string               `json:"valid_departments"`
	DepartmentRules   map[string]rawDeptRule `json:"department_rules"`
	LevelMin          int                    `json:"level_min"`
	LevelMax          int                    `json:"level_max"`
	LevelRules        []rawLevelRule         `json:"level_rules"`

	Category           string   `json:"category"`
	RequiredAttributes []string `json:"required_attributes"`
	ValidAttributes    []string `json:"valid_attributes"`
	ExcludeAttributes  []string `json:"exclude_attributes"`
	AllowInterDomain   *bool    `json:"allow_inter_domain"`
}

type rawDeptRule struct {
	MinGrade string `json:"min_grade"`
}

type rawLevelRule struct {
	MinLevel      int     `json:"min_level"`
	CreditsNeeded float64 `json:"credits_needed"`
}

// InterDomainTag marks courses that count toward two knowledge domains.
const InterDomainTag = "interdomain"

// ParseNode decodes one requirement node from JSON.
func ParseNode(data []byte) (models.Node, error) {
	var raw rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Node{}, err
	}
	return normalize(raw), nil
}

func normalize(raw rawNode) models.Node {
	node := models.Node{
		Label:    raw.Label,
		Credits:  firstSet(raw.CreditsNeeded, raw.CreditsRequired, raw.TotalCredits),
		MinGrade: strings.TrimSpace(raw.MinGrade),
	}

	switch kind := strings.ToUpper(strings.TrimSpace(raw.Type)); kind {
	case "":
		// Left without a body; the auditor reports it.
	case "AND":
		node.Body = models.And{Children: normalizeAll(raw.Children)}
	case "OR":
		node.Body = models.Or{Children: normalizeAll(raw.Children), Options: ids(raw.Options)}
	case "FIXED", "COURSE":
		node.Body = models.Fixed{Course: firstNonEmpty(raw.CourseID, raw.Course, first(raw.Courses))}
	case "FIXED_LIST":
		node.Body = models.FixedList{
			Courses:        ids(raw.Courses),
			GradeOverrides: raw.MinGradeOverrides,
		}
	case "PICK_FROM_LIST":
		pool := raw.ValidCourses
		if len(pool) == 0 {
			pool = raw.Courses
		}
		node.Body = models.PickFromList{
			Pool:           ids(pool),
			Exclude:        ids(raw.ExcludeCourses),
			GradeOverrides: raw.MinGradeOverrides,
			LevelRules:     levelRules(raw.LevelRules),
		}
	case "PICK_FROM_DEPT":
		node.Body = models.PickFromDept{
			Departments:      ids(raw.ValidDepartments),
			Levels:           models.LevelRange{Min: raw.LevelMin, Max: raw.LevelMax},
			DepartmentGrades: departmentGrades(raw.DepartmentRules),
		}
	case "PICK_FROM_CATEGORY", "PICK_BY_ATTRIBUTE":
		node.Body = models.PickFromCategory{
			Category:    firstNonEmpty(raw.Category, first(raw.RequiredAttributes), first(raw.ValidAttributes)),
			ExcludeTags: excludeTags(raw),
		}
	case "ANY_COURSE":
		node.Body = models.AnyCourse{Levels: models.LevelRange{Min: raw.LevelMin, Max: raw.LevelMax}}
	case "PROFICIENCY":
		node.Body = models.Proficiency{}
	default:
		node.Body = models.Unknown{Tag: kind}
	}
	return node
}

func normalizeAll(raw []rawNode) []models.Node {
	if len(raw) == 0 {
		return nil
	}
	out := make([]models.Node, 0, len(raw))
	for _, r := range raw {
		out = append(out, normalize(r))
	}
	return out
}

func excludeTags(raw rawNode) []string {
	tags := ids(raw.ExcludeAttributes)
	if raw.AllowInterDomain != nil && !*raw.AllowInterDomain {
		tags = append(tags, InterDomainTag)
	}
	return tags
}

func departmentGrades(rules map[string]rawDeptRule) map[string]string {
	if len(rules) == 0 {
		return nil
	}
	out := make(map[string]string, len(rules))
	for dept, rule := range rules {
		if rule.MinGrade != "" {
			out[strings.ToUpper(strings.TrimSpace(dept))] = rule.MinGrade
		}
	}
	return out
}

func levelRules(raw []rawLevelRule) []models.LevelRule {
	if len(raw) == 0 {
		return nil
	}
	out := make([]models.LevelRule, 0, len(raw))
	for _, r := range raw {
		out = append(out, models.LevelRule{MinLevel: r.MinLevel, Credits: r.CreditsNeeded})
	}
	return out
}

// ids trims entries and drops blanks.
func ids(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func firstSet(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
