package matching

import "jobmatch-backend/internal/jobs"

// Recommendation pairs a job from the active snapshot with the score and
// reason the matching service gave it.
type Recommendation struct {
	Job        jobs.JobSummary
	MatchScore int
	Reason     string
}
