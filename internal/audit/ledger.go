package audit

import (
	"maps"
	"slices"
)

// Ledger records the course ids claimed during one audit. Ids are only ever
// added; a claimed id cannot satisfy a second requirement in the same audit.
type Ledger struct {
	used map[string]struct{}
}

// NewLedger returns a ledger seeded with ids.
func NewLedger(seed ...string) *Ledger {
	l := &Ledger{used: make(map[string]struct{}, len(seed))}
	for _, id := range seed {
		l.used[id] = struct{}{}
	}
	return l
}

// Has reports whether id has been claimed.
func (l *Ledger) Has(id string) bool {
	_, ok := l.used[id]
	return ok
}

// Claim marks id as used.
func (l *Ledger) Claim(id string) {
	if l.used == nil {
		l.used = make(map[string]struct{})
	}
	l.used[id] = struct{}{}
}

// Clone returns an independent copy for probing an alternative.
func (l *Ledger) Clone() *Ledger {
	used := maps.Clone(l.used)
	if used == nil {
		used = make(map[string]struct{})
	}
	return &Ledger{used: used}
}

// Commit copies every id claimed in probe since it was cloned from l.
func (l *Ledger) Commit(probe *Ledger) {
	for id := range probe.used {
		l.Claim(id)
	}
}

// Len returns the number of claimed ids.
func (l *Ledger) Len() int {
	return len(l.used)
}

// Items returns the claimed ids in sorted order.
func (l *Ledger) Items() []string {
	return slices.Sorted(maps.Keys(l.used))
}
