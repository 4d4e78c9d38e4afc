package applications

import (
	"errors"
	"time"
)

const StatusSubmitted = "submitted"

var (
	ErrNotFound       = errors.New("not found")
	ErrNoResume       = errors.New("upload a résumé before applying")
	ErrAlreadyApplied = errors.New("already applied to this job")
	ErrJobClosed      = errors.New("job is no longer accepting applications")
)

// Application is a candidate's submission to a job. ResumeID is empty once
// the résumé it was submitted with has been deleted.
type Application struct {
	ID          string
	JobID       int64
	CandidateID string
	ResumeID    string
	Status      string
	CreatedAt   time.Time
}
