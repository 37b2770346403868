package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	pstrings "degreeaudit/pkg/platform/strings"
)

// EquivalencyTable maps a course id to the ids that satisfy the same
// requirement. The relation is symmetric: every member of a group is
// equivalent to every other member.
type EquivalencyTable struct {
	mu     sync.RWMutex
	groups map[string][]string
}

// equivalencyFile is the YAML layout:
//
//	groups:
//	  - [CMPSC 121, CMPSC 131]
//	  - [STAT 318, STAT 414]
type equivalencyFile struct {
	Groups [][]string `yaml:"groups"`
}

// DefaultEquivalencies holds the renumbered courses every deployment knows.
var DefaultEquivalencies = [][]string{
	{"CMPSC 121", "CMPSC 131"},
	{"CMPSC 122", "CMPSC 132"},
	{"STAT 318", "STAT 414"},
}

// NewEquivalencyTable builds a table from groups of interchangeable ids.
func NewEquivalencyTable(groups ...[]string) *EquivalencyTable {
	t := &EquivalencyTable{groups: make(map[string][]string)}
	for _, g := range groups {
		t.addGroup(g)
	}
	return t
}

// DefaultEquivalencyTable returns a table holding DefaultEquivalencies.
func DefaultEquivalencyTable() *EquivalencyTable {
	return NewEquivalencyTable(DefaultEquivalencies...)
}

// LoadEquivalencyTable reads groups from a YAML file. An empty path yields
// the default table.
func LoadEquivalencyTable(path string) (*EquivalencyTable, error) {
	if path == "" {
		return DefaultEquivalencyTable(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open equivalency file: %w", err)
	}
	defer f.Close()
	return DecodeEquivalencies(f)
}

// DecodeEquivalencies parses the YAML group list.
func DecodeEquivalencies(r io.Reader) (*EquivalencyTable, error) {
	var file equivalencyFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode equivalency file: %w", err)
	}
	return NewEquivalencyTable(file.Groups...), nil
}

func (t *EquivalencyTable) addGroup(group []string) {
	members := pstrings.DedupeIdentifiers(group)
	if len(members) < 2 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, m := range members {
		for _, other := range members {
			if other != m && !slices.Contains(t.groups[m], other) {
				t.groups[m] = append(t.groups[m], other)
			}
		}
	}
}

// EquivalentsOf returns the ids equivalent to id, excluding id itself, in
// the order they were declared.
func (t *EquivalencyTable) EquivalentsOf(id string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.groups[pstrings.NormalizeIdentifier(id)])
}

// Len reports how many ids have at least one equivalent.
func (t *EquivalencyTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.groups)
}
