package handler

import (
	"fmt"
	"strings"

	"degreeaudit/internal/audit/models"
	dErrors "degreeaudit/pkg/domain-errors"
	pstrings "degreeaudit/pkg/platform/strings"
)

const (
	maxItems         = 500
	maxItemCredits   = 30
	maxProgramIDSize = 128
)

// ItemRequest is one completed course in a request body. Shared by every
// endpoint that accepts a record.
type ItemRequest struct {
	ID      string  `json:"id"`
	Grade   string  `json:"grade"`
	Credits float64 `json:"credits"`
}

// ParseItems validates a submitted record and converts it to the audit model.
// Ids are canonicalised; record order is preserved.
func ParseItems(items []ItemRequest) ([]models.CompletedItem, error) {
	if len(items) > maxItems {
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("items must contain at most %d entries", maxItems))
	}
	out := make([]models.CompletedItem, 0, len(items))
	for i, it := range items {
		id := pstrings.NormalizeIdentifier(it.ID)
		if id == "" {
			return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("items[%d].id is required", i))
		}
		if it.Credits < 0 || it.Credits > maxItemCredits {
			return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("items[%d].credits must be between 0 and %d", i, maxItemCredits))
		}
		out = append(out, models.CompletedItem{
			ID:      id,
			Grade:   strings.ToUpper(strings.TrimSpace(it.Grade)),
			Credits: it.Credits,
		})
	}
	return out, nil
}

// ValidateProgramID trims and checks a program identifier.
func ValidateProgramID(field, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", dErrors.New(dErrors.CodeValidation, field+" is required")
	}
	if len(id) > maxProgramIDSize {
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must be at most %d characters", field, maxProgramIDSize))
	}
	return id, nil
}

// AuditRequest is the HTTP request body for POST /v1/audits.
type AuditRequest struct {
	ProgramID string        `json:"program_id"`
	Items     []ItemRequest `json:"items"`

	// Parsed values (populated by Validate)
	parsedItems []models.CompletedItem
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *AuditRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	id, err := ValidateProgramID("program_id", r.ProgramID)
	if err != nil {
		return err
	}
	r.ProgramID = id

	items, err := ParseItems(r.Items)
	if err != nil {
		return err
	}
	r.parsedItems = items
	return nil
}

// ParsedItems returns the validated record.
func (r *AuditRequest) ParsedItems() []models.CompletedItem {
	return r.parsedItems
}
