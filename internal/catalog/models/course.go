package models

import "strings"

// Course is a catalog entry.
type Course struct {
	ID          string
	Name        string
	CreditsMin  float64
	CreditsMax  float64
	Department  string
	Level       int
	GenEd       []string
	Description string
}

// Credits is the credit value used for requirement targets. Variable-credit
// courses count at their minimum.
func (c Course) Credits() float64 {
	return c.CreditsMin
}

// HasAttribute reports whether the course carries a general education
// attribute (case-insensitive).
func (c Course) HasAttribute(attr string) bool {
	for _, a := range c.GenEd {
		if strings.EqualFold(a, attr) {
			return true
		}
	}
	return false
}
