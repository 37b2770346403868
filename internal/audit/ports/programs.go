package ports

import (
	"context"

	"degreeaudit/internal/audit/models"
)

// ProgramPort loads normalised requirement trees.
//
//go:generate mockgen -source=programs.go -destination=mocks/programs_mock.go -package=mocks
type ProgramPort interface {
	// LoadRequirementTree returns the program with its normalised tree.
	// Returns an error wrapping sentinel.ErrNotFound for unknown programs.
	LoadRequirementTree(ctx context.Context, programID string) (Program, error)

	// ListCandidateIdentifiers enumerates every program of kind in a stable order.
	ListCandidateIdentifiers(ctx context.Context, kind ProgramKind) ([]string, error)
}

// ProgramKind groups programs for ranking.
type ProgramKind string

const (
	ProgramKindMajor       ProgramKind = "major"
	ProgramKindMinor       ProgramKind = "minor"
	ProgramKindCertificate ProgramKind = "certificate"
	ProgramKindGenEd       ProgramKind = "gen_ed"
)

// ParseProgramKind validates a kind string.
func ParseProgramKind(s string) (ProgramKind, bool) {
	switch k := ProgramKind(s); k {
	case ProgramKindMajor, ProgramKindMinor, ProgramKindCertificate, ProgramKindGenEd:
		return k, true
	}
	return "", false
}

// Program is a credential with its requirement tree (port model).
type Program struct {
	ID              string
	Name            string
	Kind            ProgramKind
	CreditsRequired float64
	Requirements    models.Node
}
