package jobs

import (
	"context"
	"time"
)

// JobSummary is the matching-relevant projection of a job posting.
type JobSummary struct {
	ID          int64
	Title       string
	Description string
	Location    string
	CountryName string
	CityName    string
	CompanyName string
	Industry    string
	Remote      bool
	SalaryMin   *int
	SalaryMax   *int
	Skills      []string
	PostedAt    time.Time
	ExpiresAt   *time.Time
}

// ActiveAt reports whether the posting has no expiry or expires after now.
func (j JobSummary) ActiveAt(now time.Time) bool {
	return j.ExpiresAt == nil || j.ExpiresAt.After(now)
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (j JobSummary) Clone() JobSummary {
	out := j
	if j.Skills != nil {
		out.Skills = append([]string(nil), j.Skills...)
	}
	if j.SalaryMin != nil {
		v := *j.SalaryMin
		out.SalaryMin = &v
	}
	if j.SalaryMax != nil {
		v := *j.SalaryMax
		out.SalaryMax = &v
	}
	if j.ExpiresAt != nil {
		v := *j.ExpiresAt
		out.ExpiresAt = &v
	}
	return out
}

// Catalog supplies the snapshot of jobs eligible for matching.
type Catalog interface {
	ListActiveJobs(ctx context.Context) ([]JobSummary, error)
}
