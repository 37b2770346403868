package handler

import (
	auditHandler "degreeaudit/internal/audit/handler"
	"degreeaudit/internal/ranking"
)

// RankResponse is the HTTP response for POST /v1/recommendations/{kind}.
type RankResponse struct {
	Kind            string                   `json:"kind"`
	Recommendations []RecommendationResponse `json:"recommendations"`
}

// RecommendationResponse is one ranked candidate.
type RecommendationResponse struct {
	ProgramID       string                         `json:"program_id"`
	Name            string                         `json:"name"`
	Score           float64                        `json:"score"`
	Completion      float64                        `json:"completion_percent"`
	Gap             float64                        `json:"gap_credits"`
	CreditsEarned   float64                        `json:"credits_earned"`
	CreditsRequired float64                        `json:"credits_required"`
	Status          string                         `json:"status"`
	Applied         []string                       `json:"applied"`
	Planned         []string                       `json:"planned"`
	Overlap         []string                       `json:"overlap"`
	Sections        []auditHandler.SectionResponse `json:"sections"`
	Needed          []string                       `json:"needed"`
}

// FromRecommendations converts ranked candidates to an HTTP response.
func FromRecommendations(kind string, recs []ranking.Recommendation) *RankResponse {
	out := &RankResponse{Kind: kind, Recommendations: make([]RecommendationResponse, 0, len(recs))}
	for _, r := range recs {
		out.Recommendations = append(out.Recommendations, RecommendationResponse{
			ProgramID:       r.ProgramID,
			Name:            r.Name,
			Score:           r.Score,
			Completion:      r.Completion,
			Gap:             r.Gap,
			CreditsEarned:   r.CreditsEarned,
			CreditsRequired: r.CreditsRequired,
			Status:          string(r.Status),
			Applied:         nonNil(r.Applied),
			Planned:         nonNil(r.Planned),
			Overlap:         nonNil(r.Overlap),
			Sections:        auditHandler.FromSections(r.Sections),
			Needed:          nonNil(r.Needed),
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
