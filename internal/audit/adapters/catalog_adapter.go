package adapters

import (
	"context"
	"errors"
	"fmt"

	"degreeaudit/internal/audit/ports"
	"degreeaudit/internal/catalog"
	catalogModels "degreeaudit/internal/catalog/models"
	"degreeaudit/internal/catalog/store"
	"degreeaudit/pkg/platform/sentinel"
)

// CatalogAdapter implements ports.CatalogPort over a catalog store.
// This keeps the auditor free of SQL and cache concerns while everything
// runs in a single process.
type CatalogAdapter struct {
	store store.Store
}

// NewCatalogAdapter creates a new catalog adapter.
func NewCatalogAdapter(s store.Store) ports.CatalogPort {
	return &CatalogAdapter{store: s}
}

// LookupItem returns the catalog view of a course.
func (a *CatalogAdapter) LookupItem(ctx context.Context, id string) (ports.ItemDetails, error) {
	course, err := a.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return ports.ItemDetails{}, err
		}
		return ports.ItemDetails{}, fmt.Errorf("catalog lookup: %w", err)
	}
	return toItemDetails(course), nil
}

func toItemDetails(c *catalogModels.Course) ports.ItemDetails {
	return ports.ItemDetails{
		ID:         c.ID,
		Name:       c.Name,
		Credits:    c.Credits(),
		CreditsMax: c.CreditsMax,
		Department: c.Department,
		Level:      c.Level,
		Tags:       c.GenEd,
	}
}

// EquivalencyAdapter implements ports.EquivalencyPort over the in-memory
// equivalency table.
type EquivalencyAdapter struct {
	table *catalog.EquivalencyTable
}

// NewEquivalencyAdapter creates a new equivalency adapter.
func NewEquivalencyAdapter(table *catalog.EquivalencyTable) ports.EquivalencyPort {
	return &EquivalencyAdapter{table: table}
}

func (a *EquivalencyAdapter) EquivalentsOf(_ context.Context, id string) ([]string, error) {
	return a.table.EquivalentsOf(id), nil
}
