package audit

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"degreeaudit/internal/audit/models"
)

// candidate is a completed item eligible for a credit-pool requirement.
type candidate struct {
	item     models.CompletedItem
	level    int
	minGrade string
}

// claimGreedy claims candidates in order until target credits are reached.
// Items failing their grade check or already claimed are skipped.
func claimGreedy(cands []candidate, target float64, ledger *Ledger) (float64, []string) {
	var earned float64
	var claimed []string
	for _, c := range cands {
		if earned >= target {
			break
		}
		if ledger.Has(c.item.ID) || !Passes(c.item.Grade, c.minGrade) {
			continue
		}
		ledger.Claim(c.item.ID)
		earned += c.item.Credits
		claimed = append(claimed, c.item.ID)
	}
	return earned, claimed
}

// byLevelDesc orders candidates so upper-division courses are applied first.
func byLevelDesc(cands []candidate) {
	slices.SortStableFunc(cands, func(a, b candidate) int {
		return b.level - a.level
	})
}

func (r *run) auditPickFromList(node models.Node, body models.PickFromList, ledger *Ledger) (models.Result, error) {
	minGrade := minGradeOf(node)
	target := node.CreditsOr(0)

	// Map every eligible id (pool members and their equivalents) back to the
	// pool member it stands for, so per-course grade overrides still apply.
	eligible := make(map[string]string, len(body.Pool))
	for _, course := range body.Pool {
		eligible[course] = course
		alts, err := r.equivalentsOf(course)
		if err != nil {
			return models.Result{}, err
		}
		for _, alt := range alts {
			if _, ok := eligible[alt]; !ok {
				eligible[alt] = course
			}
		}
	}
	excluded := make(map[string]struct{}, len(body.Exclude))
	for _, course := range body.Exclude {
		excluded[course] = struct{}{}
	}

	var cands []candidate
	for _, item := range r.items {
		poolID, ok := eligible[item.ID]
		if !ok || ledger.Has(item.ID) {
			continue
		}
		if _, skip := excluded[item.ID]; skip {
			continue
		}
		d, _, err := r.lookup(item.ID)
		if err != nil {
			return models.Result{}, err
		}
		grade := gradeFor(body.GradeOverrides, minGrade, poolID)
		grade = gradeFor(body.GradeOverrides, grade, item.ID)
		cands = append(cands, candidate{item: item, level: d.Level, minGrade: grade})
	}
	byLevelDesc(cands)

	res := newResult(node)
	res.CreditsEarned, res.FulfilledBy = claimGreedy(cands, target, ledger)
	res.CreditsRequired = target
	res.Status = models.StatusFor(res.CreditsEarned, target)

	if res.Status == models.StatusMet && len(body.LevelRules) > 0 {
		ok, err := r.levelRulesMet(body.LevelRules, res.FulfilledBy)
		if err != nil {
			return models.Result{}, err
		}
		if !ok {
			res.Status = models.StatusPartial
			res.Reason = "Level requirements not satisfied"
		}
	}
	if res.Status != models.StatusMet && res.Reason == "" {
		res.Reason = needCreditsReason(res.RemainingCredits())
	}
	return res, nil
}

// levelRulesMet checks that enough catalog credits among claimed sit at or
// above each rule's level.
func (r *run) levelRulesMet(rules []models.LevelRule, claimed []string) (bool, error) {
	for _, rule := range rules {
		var credits float64
		for _, id := range claimed {
			d, found, err := r.lookup(id)
			if err != nil {
				return false, err
			}
			if !found || d.Level < rule.MinLevel {
				continue
			}
			credits += d.Credits
		}
		if credits < rule.Credits {
			return false, nil
		}
	}
	return true, nil
}

func (r *run) auditPickFromDept(node models.Node, body models.PickFromDept, ledger *Ledger) (models.Result, error) {
	minGrade := minGradeOf(node)
	target := node.CreditsOr(0)

	depts := make(map[string]struct{}, len(body.Departments))
	for _, d := range body.Departments {
		depts[strings.ToUpper(d)] = struct{}{}
	}

	var cands []candidate
	for _, item := range r.items {
		if ledger.Has(item.ID) {
			continue
		}
		d, found, err := r.lookup(item.ID)
		if err != nil {
			return models.Result{}, err
		}
		if !found {
			continue
		}
		if _, ok := depts[strings.ToUpper(d.Department)]; !ok || !body.Levels.Contains(d.Level) {
			continue
		}
		cands = append(cands, candidate{
			item:     item,
			level:    d.Level,
			minGrade: gradeFor(body.DepartmentGrades, minGrade, strings.ToUpper(d.Department)),
		})
	}
	byLevelDesc(cands)

	return creditResult(node, target, cands, ledger), nil
}

func (r *run) auditPickFromCategory(node models.Node, body models.PickFromCategory, ledger *Ledger) (models.Result, error) {
	minGrade := minGradeOf(node)
	target := node.CreditsOr(0)

	var cands []candidate
	for _, item := range r.items {
		if ledger.Has(item.ID) {
			continue
		}
		d, found, err := r.lookup(item.ID)
		if err != nil {
			return models.Result{}, err
		}
		if !found {
			continue
		}
		if body.Category != "" && !d.HasTag(body.Category) {
			continue
		}
		if slices.ContainsFunc(body.ExcludeTags, d.HasTag) {
			continue
		}
		cands = append(cands, candidate{item: item, level: d.Level, minGrade: minGrade})
	}

	return creditResult(node, target, cands, ledger), nil
}

func (r *run) auditAnyCourse(node models.Node, body models.AnyCourse, ledger *Ledger) (models.Result, error) {
	minGrade := minGradeOf(node)
	target := node.CreditsOr(0)

	var cands []candidate
	for _, item := range r.items {
		if ledger.Has(item.ID) {
			continue
		}
		d, found, err := r.lookup(item.ID)
		if err != nil {
			return models.Result{}, err
		}
		// Courses missing from the catalog still count as electives.
		if found && !body.Levels.Contains(d.Level) {
			continue
		}
		cands = append(cands, candidate{item: item, level: d.Level, minGrade: minGrade})
	}

	return creditResult(node, target, cands, ledger), nil
}

func creditResult(node models.Node, target float64, cands []candidate, ledger *Ledger) models.Result {
	res := newResult(node)
	res.CreditsEarned, res.FulfilledBy = claimGreedy(cands, target, ledger)
	res.CreditsRequired = target
	res.Status = models.StatusFor(res.CreditsEarned, target)
	if res.Status != models.StatusMet {
		res.Reason = needCreditsReason(res.RemainingCredits())
	}
	return res
}

func needCreditsReason(remaining float64) string {
	return fmt.Sprintf("Need %s more credits", strconv.FormatFloat(remaining, 'f', -1, 64))
}
