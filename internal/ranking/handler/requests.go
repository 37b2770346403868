package handler

import (
	"fmt"
	"strings"

	auditHandler "degreeaudit/internal/audit/handler"
	"degreeaudit/internal/audit/models"
	dErrors "degreeaudit/pkg/domain-errors"
)

const maxTopN = 50

// RankRequest is the HTTP request body for POST /v1/recommendations/{kind}.
type RankRequest struct {
	PrimaryProgramID string                     `json:"primary_program_id"`
	Items            []auditHandler.ItemRequest `json:"items"`
	TopN             int                        `json:"top_n"`
	MinCompletion    *float64                   `json:"min_completion,omitempty"`
	MaxGap           *float64                   `json:"max_gap,omitempty"`

	// Parsed values (populated by Validate)
	parsedItems []models.CompletedItem
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *RankRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.PrimaryProgramID = strings.TrimSpace(r.PrimaryProgramID)
	if r.PrimaryProgramID != "" {
		if _, err := auditHandler.ValidateProgramID("primary_program_id", r.PrimaryProgramID); err != nil {
			return err
		}
	}
	if r.TopN < 0 || r.TopN > maxTopN {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("top_n must be between 0 and %d", maxTopN))
	}
	if r.MinCompletion != nil && (*r.MinCompletion < 0 || *r.MinCompletion > 100) {
		return dErrors.New(dErrors.CodeValidation, "min_completion must be between 0 and 100")
	}
	if r.MaxGap != nil && *r.MaxGap < 0 {
		return dErrors.New(dErrors.CodeValidation, "max_gap must not be negative")
	}

	items, err := auditHandler.ParseItems(r.Items)
	if err != nil {
		return err
	}
	r.parsedItems = items
	return nil
}

// ParsedItems returns the validated record.
func (r *RankRequest) ParsedItems() []models.CompletedItem {
	return r.parsedItems
}
