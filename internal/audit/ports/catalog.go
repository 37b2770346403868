package ports

import (
	"context"
	"strings"
)

// CatalogPort defines the interface for course metadata lookups.
// This port lets the auditor read credits, levels and tags without
// depending on SQL, Redis or any specific catalog implementation.
//
//go:generate mockgen -source=catalog.go -destination=mocks/catalog_mock.go -package=mocks
type CatalogPort interface {
	// LookupItem returns catalog details for a course id.
	// Returns an error wrapping sentinel.ErrNotFound for unknown courses.
	LookupItem(ctx context.Context, id string) (ItemDetails, error)
}

// EquivalencyPort resolves interchangeable course ids.
type EquivalencyPort interface {
	// EquivalentsOf returns the alternates of id in configured order.
	// An id with no alternates yields an empty slice, not an error.
	EquivalentsOf(ctx context.Context, id string) ([]string, error)
}

// ItemDetails is the catalog view of a course (port model).
type ItemDetails struct {
	ID         string
	Name       string
	Credits    float64 // minimum when the course carries variable credit
	CreditsMax float64
	Department string
	Level      int
	Tags       []string
}

// HasTag reports whether the course carries tag (case-insensitive).
func (d ItemDetails) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
