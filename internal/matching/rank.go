package matching

import "sort"

// Rank orders recommendations by score, highest first. Equal scores keep
// their input order. The input slice is not modified.
func Rank(recs []Recommendation) []Recommendation {
	out := make([]Recommendation, len(recs))
	copy(out, recs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})
	return out
}
