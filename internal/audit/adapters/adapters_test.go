package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"degreeaudit/internal/audit/models"
	"degreeaudit/internal/audit/ports"
	"degreeaudit/internal/catalog"
	catalogModels "degreeaudit/internal/catalog/models"
	"degreeaudit/internal/catalog/store"
	"degreeaudit/pkg/platform/sentinel"
)

type unavailableStore struct {
	store.Store
}

func (unavailableStore) FindByID(context.Context, string) (*catalogModels.Course, error) {
	return nil, sentinel.ErrUnavailable
}

func TestCatalogAdapter(t *testing.T) {
	ctx := context.Background()
	s := store.NewInMemoryStore(catalogModels.Course{
		ID: "MATH 496", Name: "Independent Studies", CreditsMin: 1, CreditsMax: 18,
		Department: "MATH", Level: 496, GenEd: []string{"GQ"},
	})
	adapter := NewCatalogAdapter(s)

	got, err := adapter.LookupItem(ctx, "MATH 496")
	require.NoError(t, err)
	assert.Equal(t, ports.ItemDetails{
		ID: "MATH 496", Name: "Independent Studies", Credits: 1, CreditsMax: 18,
		Department: "MATH", Level: 496, Tags: []string{"GQ"},
	}, got)

	_, err = adapter.LookupItem(ctx, "NOPE 1")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	_, err = NewCatalogAdapter(unavailableStore{}).LookupItem(ctx, "MATH 496")
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	assert.NotErrorIs(t, err, sentinel.ErrNotFound)
}

func TestEquivalencyAdapter(t *testing.T) {
	adapter := NewEquivalencyAdapter(catalog.DefaultEquivalencyTable())
	got, err := adapter.EquivalentsOf(context.Background(), "STAT 318")
	require.NoError(t, err)
	assert.Equal(t, []string{"STAT 414"}, got)
}

func TestProgramAdapter(t *testing.T) {
	ctx := context.Background()
	reg := catalog.NewRegistry(
		catalog.Program{ID: "b_minor", Kind: catalog.KindMinor, Requirements: models.Node{Body: models.And{}}},
		catalog.Program{ID: "a_minor", Kind: catalog.KindMinor, CreditsRequired: 18},
		catalog.Program{ID: "cs_bs", Kind: catalog.KindMajor},
	)
	adapter := NewProgramAdapter(reg)

	p, err := adapter.LoadRequirementTree(ctx, "a_minor")
	require.NoError(t, err)
	assert.Equal(t, ports.ProgramKindMinor, p.Kind)
	assert.Equal(t, 18.0, p.CreditsRequired)

	_, err = adapter.LoadRequirementTree(ctx, "missing")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	ids, err := adapter.ListCandidateIdentifiers(ctx, ports.ProgramKindMinor)
	require.NoError(t, err)
	assert.Equal(t, []string{"a_minor", "b_minor"}, ids)
}
