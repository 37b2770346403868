package adapters

import (
	"context"

	"degreeaudit/internal/audit/ports"
	"degreeaudit/internal/catalog"
)

// ProgramAdapter implements ports.ProgramPort over the program registry.
type ProgramAdapter struct {
	registry *catalog.Registry
}

// NewProgramAdapter creates a new program adapter.
func NewProgramAdapter(registry *catalog.Registry) ports.ProgramPort {
	return &ProgramAdapter{registry: registry}
}

// LoadRequirementTree returns the program with id. Unknown ids wrap
// sentinel.ErrNotFound.
func (a *ProgramAdapter) LoadRequirementTree(_ context.Context, programID string) (ports.Program, error) {
	p, err := a.registry.Program(programID)
	if err != nil {
		return ports.Program{}, err
	}
	return ports.Program{
		ID:              p.ID,
		Name:            p.Name,
		Kind:            ports.ProgramKind(p.Kind),
		CreditsRequired: p.CreditsRequired,
		Requirements:    p.Requirements,
	}, nil
}

// ListCandidateIdentifiers lists program ids of kind in lexical order.
func (a *ProgramAdapter) ListCandidateIdentifiers(_ context.Context, kind ports.ProgramKind) ([]string, error) {
	return a.registry.IDs(string(kind)), nil
}
