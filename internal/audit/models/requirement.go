package models

// Kind is the tag of a requirement node.
type Kind string

const (
	KindAnd              Kind = "AND"
	KindOr               Kind = "OR"
	KindFixed            Kind = "FIXED"
	KindFixedList        Kind = "FIXED_LIST"
	KindPickFromList     Kind = "PICK_FROM_LIST"
	KindPickFromDept     Kind = "PICK_FROM_DEPT"
	KindPickFromCategory Kind = "PICK_FROM_CATEGORY"
	KindAnyCourse        Kind = "ANY_COURSE"
	KindProficiency      Kind = "PROFICIENCY"
)

// Node is one requirement in a program's tree. Exactly one payload is carried
// in Body; composite bodies (And, Or) hold the children.
type Node struct {
	Label string
	// Credits overrides the credit target derived from the body when set.
	Credits *float64
	// MinGrade applies to every item claimed under this node unless a
	// per-item or per-department override says otherwise. Empty means "D".
	MinGrade string
	Body     Body
}

// Kind returns the node's tag. A node without a body reports an empty kind.
func (n Node) Kind() Kind {
	if n.Body == nil {
		return ""
	}
	return n.Body.kind()
}

// CreditsOr returns the explicit credit target or def when none is set.
func (n Node) CreditsOr(def float64) float64 {
	if n.Credits != nil {
		return *n.Credits
	}
	return def
}

// Children returns the child nodes of composite bodies and nil otherwise.
func (n Node) Children() []Node {
	switch b := n.Body.(type) {
	case And:
		return b.Children
	case Or:
		return b.Children
	}
	return nil
}

// Body is the closed set of requirement payloads.
type Body interface {
	kind() Kind
}

// And is met when every child is met.
type And struct {
	Children []Node
}

// Or is met by one alternative. It carries either child nodes or a flat list
// of interchangeable course ids, never both.
type Or struct {
	Children []Node
	Options  []string
}

// Fixed requires one specific course.
type Fixed struct {
	Course string
}

// FixedList requires every listed course.
type FixedList struct {
	Courses        []string
	GradeOverrides map[string]string
}

// PickFromList requires a credit total drawn from a pool of courses.
type PickFromList struct {
	Pool           []string
	Exclude        []string
	GradeOverrides map[string]string
	LevelRules     []LevelRule
}

// PickFromDept requires a credit total from one or more departments.
type PickFromDept struct {
	Departments []string
	Levels      LevelRange
	// DepartmentGrades overrides the node minimum grade per department.
	DepartmentGrades map[string]string
}

// PickFromCategory requires a credit total from courses carrying a tag such
// as a general education attribute.
type PickFromCategory struct {
	Category    string
	ExcludeTags []string
}

// AnyCourse requires a credit total from any course within the level bounds.
type AnyCourse struct {
	Levels LevelRange
}

// Proficiency is never resolved automatically; it is reported for manual review.
type Proficiency struct{}

// Unknown preserves a tag the loader did not recognise so the audit can
// report it instead of failing.
type Unknown struct {
	Tag string
}

func (And) kind() Kind              { return KindAnd }
func (Or) kind() Kind               { return KindOr }
func (Fixed) kind() Kind            { return KindFixed }
func (FixedList) kind() Kind        { return KindFixedList }
func (PickFromList) kind() Kind     { return KindPickFromList }
func (PickFromDept) kind() Kind     { return KindPickFromDept }
func (PickFromCategory) kind() Kind { return KindPickFromCategory }
func (AnyCourse) kind() Kind        { return KindAnyCourse }
func (Proficiency) kind() Kind      { return KindProficiency }
func (u Unknown) kind() Kind        { return Kind(u.Tag) }

// LevelRange bounds a course level. Zero means unbounded on that side.
type LevelRange struct {
	Min int
	Max int
}

// Contains reports whether level falls inside the range.
func (r LevelRange) Contains(level int) bool {
	if r.Min > 0 && level < r.Min {
		return false
	}
	if r.Max > 0 && level > r.Max {
		return false
	}
	return true
}

// IsZero reports whether neither bound is set.
func (r LevelRange) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

// LevelRule requires at least Credits of the claimed courses to be at or
// above MinLevel.
type LevelRule struct {
	MinLevel int
	Credits  float64
}

// Credits is a helper for building nodes with an explicit credit target.
func Credits(v float64) *float64 {
	return &v
}
