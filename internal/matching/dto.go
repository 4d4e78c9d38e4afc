package matching

import "jobmatch-backend/internal/jobs"

// RecommendationResponse is the JSON shape of one recommendation.
type RecommendationResponse struct {
	Job        jobs.JobResponse `json:"job"`
	MatchScore int              `json:"matchScore"`
	Reason     string           `json:"reason"`
}

func toResponses(recs []Recommendation) []RecommendationResponse {
	out := make([]RecommendationResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, RecommendationResponse{
			Job:        jobs.ToResponse(r.Job),
			MatchScore: r.MatchScore,
			Reason:     r.Reason,
		})
	}
	return out
}
