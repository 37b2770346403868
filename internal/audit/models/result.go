package models

// CompletedItem is one course on a person's record.
type CompletedItem struct {
	ID      string
	Grade   string
	Credits float64
}

// Status is the outcome of auditing a node.
type Status string

const (
	StatusMet     Status = "MET"
	StatusPartial Status = "PARTIAL"
	StatusMissing Status = "MISSING"
)

// StatusFor applies the shared credit rule: met when earned reaches the
// target, partial when something was earned, missing otherwise. A zero
// target is met trivially.
func StatusFor(earned, required float64) Status {
	switch {
	case earned >= required:
		return StatusMet
	case earned > 0:
		return StatusPartial
	default:
		return StatusMissing
	}
}

// Result mirrors the node it was produced from. Children line up
// positionally with the node's children.
type Result struct {
	Label           string
	Kind            Kind
	Status          Status
	CreditsEarned   float64
	CreditsRequired float64
	FulfilledBy     []string
	Reason          string
	Children        []Result
}

// RemainingCredits is the shortfall against the target, floored at zero.
func (r Result) RemainingCredits() float64 {
	if rem := r.CreditsRequired - r.CreditsEarned; rem > 0 {
		return rem
	}
	return 0
}

// IsMet reports whether the result is MET.
func (r Result) IsMet() bool {
	return r.Status == StatusMet
}

// BestAlternative returns the index of the OR child that wins: the MET child
// with the most credits earned, the latest such child on ties. Without a MET
// child it falls back to MostEarned. results must not be empty.
func BestAlternative(results []Result) int {
	best := -1
	for i, cr := range results {
		if cr.IsMet() && (best < 0 || cr.CreditsEarned >= results[best].CreditsEarned) {
			best = i
		}
	}
	if best >= 0 {
		return best
	}
	return MostEarned(results)
}

// MostEarned returns the index of the result with the most credits earned,
// earliest first on ties. results must not be empty.
func MostEarned(results []Result) int {
	best := 0
	for i, cr := range results {
		if cr.CreditsEarned > results[best].CreditsEarned {
			best = i
		}
	}
	return best
}
