package jobs

import (
	"context"
	"time"
)

// Repo defines persistence operations for job postings.
type Repo interface {
	Create(ctx context.Context, job JobSummary) (int64, error)
	GetByID(ctx context.Context, id int64) (JobSummary, error)
	// ListActive returns postings active at now, newest posting first.
	ListActive(ctx context.Context, now time.Time) ([]JobSummary, error)
}
