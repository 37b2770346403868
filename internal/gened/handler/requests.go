package handler

import (
	"fmt"
	"strings"

	auditHandler "degreeaudit/internal/audit/handler"
	"degreeaudit/internal/gened"
	dErrors "degreeaudit/pkg/domain-errors"
)

const maxTopN = 50

// SuggestRequest is the HTTP request body for POST /v1/gened/suggestions.
type SuggestRequest struct {
	PrimaryProgramID  string                     `json:"primary_program_id"`
	MissingAttributes []string                   `json:"missing_attributes"`
	Items             []auditHandler.ItemRequest `json:"items"`
	TopN              int                        `json:"top_n"`

	// Parsed values (populated by Validate)
	completed []string
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *SuggestRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.PrimaryProgramID = strings.TrimSpace(r.PrimaryProgramID)
	if r.PrimaryProgramID != "" {
		if _, err := auditHandler.ValidateProgramID("primary_program_id", r.PrimaryProgramID); err != nil {
			return err
		}
	}
	if len(r.MissingAttributes) == 0 {
		return dErrors.New(dErrors.CodeValidation, "missing_attributes is required")
	}
	for _, a := range r.MissingAttributes {
		if _, ok := gened.CanonicalAttribute(a); !ok {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown gen-ed attribute %q", a))
		}
	}
	if r.TopN < 0 || r.TopN > maxTopN {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("top_n must be between 0 and %d", maxTopN))
	}

	items, err := auditHandler.ParseItems(r.Items)
	if err != nil {
		return err
	}
	r.completed = make([]string, 0, len(items))
	for _, it := range items {
		r.completed = append(r.completed, it.ID)
	}
	return nil
}

// CompletedIDs returns the validated ids of the record.
func (r *SuggestRequest) CompletedIDs() []string {
	return r.completed
}
