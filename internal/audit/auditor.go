package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"degreeaudit/internal/audit/models"
	"degreeaudit/internal/audit/ports"
	"degreeaudit/pkg/platform/sentinel"
)

// defaultCourseCredits is assumed for courses the catalog does not know.
const defaultCourseCredits = 3

// Auditor evaluates requirement trees against a person's completed courses.
// Catalog and equivalency data come through ports; everything else is pure.
type Auditor struct {
	catalog     ports.CatalogPort
	equivalents ports.EquivalencyPort
}

// NewAuditor creates an auditor over the given data ports.
func NewAuditor(catalog ports.CatalogPort, equivalents ports.EquivalencyPort) *Auditor {
	return &Auditor{
		catalog:     catalog,
		equivalents: equivalents,
	}
}

// Audit evaluates node against items. Courses are claimed in ledger as they
// are applied so that no course satisfies two requirements; a nil ledger
// starts empty. Data problems (unknown courses, malformed nodes) degrade to
// MISSING results with a reason. Only port failures are returned as errors.
func (a *Auditor) Audit(ctx context.Context, node models.Node, items []models.CompletedItem, ledger *Ledger) (models.Result, error) {
	if ledger == nil {
		ledger = NewLedger()
	}
	r := &run{
		ctx:         ctx,
		auditor:     a,
		items:       items,
		details:     make(map[string]lookupEntry),
		equivalents: make(map[string][]string),
	}
	return r.audit(node, ledger)
}

// run holds the per-audit state: the inputs and memoised port lookups.
// The ledger is passed explicitly because OR probes swap it out.
type run struct {
	ctx         context.Context
	auditor     *Auditor
	items       []models.CompletedItem
	details     map[string]lookupEntry
	equivalents map[string][]string
}

type lookupEntry struct {
	details ports.ItemDetails
	found   bool
}

func (r *run) audit(node models.Node, ledger *Ledger) (models.Result, error) {
	switch body := node.Body.(type) {
	case models.And:
		return r.auditAnd(node, body, ledger)
	case models.Or:
		switch {
		case len(body.Children) > 0:
			return r.auditOrChildren(node, body, ledger)
		case len(body.Options) > 0:
			return r.auditOrOptions(node, body, ledger)
		default:
			return missing(node, node.CreditsOr(0), "No options available"), nil
		}
	case models.Fixed:
		return r.auditFixed(node, body, ledger)
	case models.FixedList:
		return r.auditFixedList(node, body, ledger)
	case models.PickFromList:
		return r.auditPickFromList(node, body, ledger)
	case models.PickFromDept:
		return r.auditPickFromDept(node, body, ledger)
	case models.PickFromCategory:
		return r.auditPickFromCategory(node, body, ledger)
	case models.AnyCourse:
		return r.auditAnyCourse(node, body, ledger)
	case models.Proficiency:
		// Language and placement proficiencies are verified by an advisor.
		return missing(node, node.CreditsOr(0), "Proficiency requirements need manual verification"), nil
	case models.Unknown:
		return missing(node, node.CreditsOr(0), fmt.Sprintf("Unknown requirement type: %s", body.Tag)), nil
	default:
		return missing(node, node.CreditsOr(0), "Requirement has no type"), nil
	}
}

func (r *run) auditAnd(node models.Node, body models.And, ledger *Ledger) (models.Result, error) {
	res := newResult(node)
	res.Children = make([]models.Result, 0, len(body.Children))

	met, progressed := 0, 0
	var required float64
	for _, child := range body.Children {
		cr, err := r.audit(child, ledger)
		if err != nil {
			return models.Result{}, err
		}
		res.Children = append(res.Children, cr)
		res.CreditsEarned += cr.CreditsEarned
		required += cr.CreditsRequired
		res.FulfilledBy = append(res.FulfilledBy, cr.FulfilledBy...)

		switch cr.Status {
		case models.StatusMet:
			met++
			progressed++
		case models.StatusPartial:
			progressed++
		}
	}
	res.CreditsRequired = node.CreditsOr(required)

	switch {
	case met == len(body.Children):
		res.Status = models.StatusMet
	case progressed > 0:
		res.Status = models.StatusPartial
	default:
		res.Status = models.StatusMissing
	}
	return res, nil
}

// auditOrChildren audits every alternative against its own copy of the
// ledger, picks one winner and commits only the winner's claims.
func (r *run) auditOrChildren(node models.Node, body models.Or, ledger *Ledger) (models.Result, error) {
	res := newResult(node)
	res.Children = make([]models.Result, 0, len(body.Children))
	probes := make([]*Ledger, 0, len(body.Children))

	for _, child := range body.Children {
		probe := ledger.Clone()
		cr, err := r.audit(child, probe)
		if err != nil {
			return models.Result{}, err
		}
		res.Children = append(res.Children, cr)
		probes = append(probes, probe)
	}

	best := models.BestAlternative(res.Children)
	winner := res.Children[best]
	ledger.Commit(probes[best])

	res.Status = winner.Status
	res.CreditsEarned = winner.CreditsEarned
	res.CreditsRequired = winner.CreditsRequired
	if res.CreditsRequired == 0 {
		res.CreditsRequired = node.CreditsOr(0)
	}
	res.FulfilledBy = winner.FulfilledBy
	if !winner.IsMet() {
		res.Reason = winner.Reason
	}
	return res, nil
}

// auditOrOptions takes the first listed option the person has completed.
// Unlike the children form this is first-match, not best-match.
func (r *run) auditOrOptions(node models.Node, body models.Or, ledger *Ledger) (models.Result, error) {
	minGrade := minGradeOf(node)
	for _, option := range body.Options {
		item, ok, err := r.findMatch(option, minGrade, ledger)
		if err != nil {
			return models.Result{}, err
		}
		if !ok {
			continue
		}
		ledger.Claim(item.ID)
		return matched(node, item), nil
	}

	return missing(node, node.CreditsOr(defaultCourseCredits),
		"Need one of: "+strings.Join(body.Options, ", ")), nil
}

func (r *run) auditFixed(node models.Node, body models.Fixed, ledger *Ledger) (models.Result, error) {
	if body.Course == "" {
		return missing(node, node.CreditsOr(0), "No course specified"), nil
	}

	minGrade := minGradeOf(node)
	item, ok, err := r.findMatch(body.Course, minGrade, ledger)
	if err != nil {
		return models.Result{}, err
	}
	if ok {
		ledger.Claim(item.ID)
		return matched(node, item), nil
	}

	credits, err := r.creditsOf(body.Course)
	if err != nil {
		return models.Result{}, err
	}
	return missing(node, node.CreditsOr(credits), needCourseReason(body.Course, minGrade)), nil
}

func (r *run) auditFixedList(node models.Node, body models.FixedList, ledger *Ledger) (models.Result, error) {
	res := newResult(node)
	minGrade := minGradeOf(node)

	satisfied := 0
	var required float64
	for _, course := range body.Courses {
		credits, err := r.creditsOf(course)
		if err != nil {
			return models.Result{}, err
		}
		required += credits

		item, ok, err := r.findMatch(course, gradeFor(body.GradeOverrides, minGrade, course), ledger)
		if err != nil {
			return models.Result{}, err
		}
		if !ok {
			continue
		}
		ledger.Claim(item.ID)
		res.CreditsEarned += item.Credits
		res.FulfilledBy = append(res.FulfilledBy, item.ID)
		satisfied++
	}
	res.CreditsRequired = node.CreditsOr(required)

	// Status counts courses, not credits.
	switch {
	case satisfied == len(body.Courses):
		res.Status = models.StatusMet
	case satisfied > 0:
		res.Status = models.StatusPartial
	default:
		res.Status = models.StatusMissing
	}
	if res.Status != models.StatusMet {
		res.Reason = fmt.Sprintf("Need %d more courses from list", len(body.Courses)-satisfied)
	}
	return res, nil
}

// findMatch returns the first unclaimed completed item, in record order,
// whose id is course or one of its equivalents and whose grade passes.
func (r *run) findMatch(course, minGrade string, ledger *Ledger) (models.CompletedItem, bool, error) {
	targets, err := r.targets(course)
	if err != nil {
		return models.CompletedItem{}, false, err
	}
	for _, item := range r.items {
		if _, ok := targets[item.ID]; !ok || ledger.Has(item.ID) {
			continue
		}
		if Passes(item.Grade, minGrade) {
			return item, true, nil
		}
	}
	return models.CompletedItem{}, false, nil
}

// targets returns course together with its equivalents.
func (r *run) targets(course string) (map[string]struct{}, error) {
	alts, err := r.equivalentsOf(course)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(alts)+1)
	set[course] = struct{}{}
	for _, alt := range alts {
		set[alt] = struct{}{}
	}
	return set, nil
}

func (r *run) equivalentsOf(course string) ([]string, error) {
	if alts, ok := r.equivalents[course]; ok {
		return alts, nil
	}
	if r.auditor.equivalents == nil {
		return nil, nil
	}
	alts, err := r.auditor.equivalents.EquivalentsOf(r.ctx, course)
	if err != nil {
		return nil, fmt.Errorf("resolve equivalents of %s: %w", course, err)
	}
	r.equivalents[course] = alts
	return alts, nil
}

// lookup returns catalog details for id. Unknown courses are reported with
// found=false; any other port failure is returned.
func (r *run) lookup(id string) (ports.ItemDetails, bool, error) {
	if e, ok := r.details[id]; ok {
		return e.details, e.found, nil
	}
	if r.auditor.catalog == nil {
		return ports.ItemDetails{}, false, nil
	}
	d, err := r.auditor.catalog.LookupItem(r.ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			r.details[id] = lookupEntry{}
			return ports.ItemDetails{}, false, nil
		}
		return ports.ItemDetails{}, false, fmt.Errorf("lookup course %s: %w", id, err)
	}
	r.details[id] = lookupEntry{details: d, found: true}
	return d, true, nil
}

// creditsOf returns the catalog credit value of a course, or the default
// for courses the catalog does not know.
func (r *run) creditsOf(id string) (float64, error) {
	d, found, err := r.lookup(id)
	if err != nil {
		return 0, err
	}
	if !found {
		return defaultCourseCredits, nil
	}
	return d.Credits, nil
}

func newResult(node models.Node) models.Result {
	return models.Result{
		Label: node.Label,
		Kind:  node.Kind(),
	}
}

// matched is the MET result of a single-course match. The course that
// satisfied the node sets its credits; an explicit target on the node only
// applies while the course is missing.
func matched(node models.Node, item models.CompletedItem) models.Result {
	res := newResult(node)
	res.Status = models.StatusMet
	res.CreditsEarned = item.Credits
	res.CreditsRequired = item.Credits
	res.FulfilledBy = []string{item.ID}
	return res
}

func missing(node models.Node, required float64, reason string) models.Result {
	res := newResult(node)
	res.Status = models.StatusMissing
	res.CreditsRequired = required
	res.Reason = reason
	return res
}

func minGradeOf(node models.Node) string {
	if node.MinGrade == "" {
		return DefaultMinGrade
	}
	return node.MinGrade
}

func gradeFor(overrides map[string]string, fallback, course string) string {
	if g, ok := overrides[course]; ok && g != "" {
		return g
	}
	return fallback
}

func needCourseReason(course, minGrade string) string {
	if normalizeGrade(minGrade) == DefaultMinGrade {
		return "Need " + course
	}
	return fmt.Sprintf("Need %s with grade %s or better", course, minGrade)
}
