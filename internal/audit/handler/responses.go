package handler

import (
	"degreeaudit/internal/audit/models"
	"degreeaudit/internal/audit/service"
	"degreeaudit/internal/sections"
)

// AuditResponse is the HTTP response for POST /v1/audits.
type AuditResponse struct {
	ProgramID        string            `json:"program_id"`
	ProgramName      string            `json:"program_name"`
	Status           string            `json:"status"`
	CreditsEarned    float64           `json:"credits_earned"`
	CreditsRequired  float64           `json:"credits_required"`
	RemainingCredits float64           `json:"remaining_credits"`
	Result           ResultResponse    `json:"result"`
	Sections         []SectionResponse `json:"sections"`
	Needed           []string          `json:"needed"`
}

// ResultResponse is one node of the audited tree.
type ResultResponse struct {
	Label            string           `json:"label,omitempty"`
	Kind             string           `json:"kind"`
	Status           string           `json:"status"`
	CreditsEarned    float64          `json:"credits_earned"`
	CreditsRequired  float64          `json:"credits_required"`
	RemainingCredits float64          `json:"remaining_credits"`
	FulfilledBy      []string         `json:"fulfilled_by"`
	Reason           string           `json:"reason,omitempty"`
	Children         []ResultResponse `json:"children,omitempty"`
}

// SectionResponse is one top-level requirement group.
type SectionResponse struct {
	Name             string   `json:"name"`
	CreditsTarget    float64  `json:"credits_target"`
	CreditsCompleted float64  `json:"credits_completed"`
	Applied          []string `json:"applied"`
	Needed           []string `json:"needed"`
}

// FromEvaluation converts a service evaluation to an HTTP response.
func FromEvaluation(e *service.Evaluation) *AuditResponse {
	return &AuditResponse{
		ProgramID:        e.Program.ID,
		ProgramName:      e.Program.Name,
		Status:           string(e.Result.Status),
		CreditsEarned:    e.Result.CreditsEarned,
		CreditsRequired:  e.Result.CreditsRequired,
		RemainingCredits: e.Result.RemainingCredits(),
		Result:           FromResult(e.Result),
		Sections:         FromSections(e.Sections),
		Needed:           nonNil(e.Needed),
	}
}

// FromResult converts an audit result tree.
func FromResult(r models.Result) ResultResponse {
	resp := ResultResponse{
		Label:            r.Label,
		Kind:             string(r.Kind),
		Status:           string(r.Status),
		CreditsEarned:    r.CreditsEarned,
		CreditsRequired:  r.CreditsRequired,
		RemainingCredits: r.RemainingCredits(),
		FulfilledBy:      nonNil(r.FulfilledBy),
		Reason:           r.Reason,
	}
	for _, c := range r.Children {
		resp.Children = append(resp.Children, FromResult(c))
	}
	return resp
}

// FromSections converts extracted sections.
func FromSections(in []sections.Section) []SectionResponse {
	out := make([]SectionResponse, 0, len(in))
	for _, s := range in {
		out = append(out, SectionResponse{
			Name:             s.Name,
			CreditsTarget:    s.CreditsTarget,
			CreditsCompleted: s.CreditsCompleted,
			Applied:          nonNil(s.Applied),
			Needed:           nonNil(s.Needed),
		})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
