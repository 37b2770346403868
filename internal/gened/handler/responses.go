package handler

import "degreeaudit/internal/gened"

// SuggestResponse is the HTTP response for POST /v1/gened/suggestions.
type SuggestResponse struct {
	Attributes []AttributeResponse `json:"attributes"`
}

type AttributeResponse struct {
	Attribute   string               `json:"attribute"`
	Suggestions []SuggestionResponse `json:"suggestions"`
}

type SuggestionResponse struct {
	CourseID     string   `json:"course_id"`
	Name         string   `json:"name"`
	Credits      float64  `json:"credits"`
	Attributes   []string `json:"gen_ed_attributes"`
	ProgramMatch bool     `json:"counts_toward_primary"`
	Score        int      `json:"score"`
}

// FromSuggestions converts suggestions to an HTTP response.
func FromSuggestions(in []gened.AttributeSuggestions) *SuggestResponse {
	out := &SuggestResponse{Attributes: make([]AttributeResponse, 0, len(in))}
	for _, a := range in {
		resp := AttributeResponse{Attribute: a.Attribute, Suggestions: make([]SuggestionResponse, 0, len(a.Suggestions))}
		for _, s := range a.Suggestions {
			attrs := s.Attributes
			if attrs == nil {
				attrs = []string{}
			}
			resp.Suggestions = append(resp.Suggestions, SuggestionResponse{
				CourseID:     s.CourseID,
				Name:         s.Name,
				Credits:      s.Credits,
				Attributes:   attrs,
				ProgramMatch: s.ProgramMatch,
				Score:        s.Score,
			})
		}
		out.Attributes = append(out.Attributes, resp)
	}
	return out
}
