package applications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"jobmatch-backend/internal/jobs"
	"jobmatch-backend/internal/resumes"
)

// CurrentResume returns a candidate's résumé.
type CurrentResume interface {
	Current(ctx context.Context, candidateID string) (resumes.Resume, error)
}

// JobLookup resolves a posting.
type JobLookup interface {
	Get(ctx context.Context, id int64) (jobs.JobSummary, error)
}

// Service submits applications with the candidate's current résumé.
type Service struct {
	Repo    Repo
	Resumes CurrentResume
	Jobs    JobLookup
	Now     func() time.Time
}

// Apply records an application to jobID.
func (s *Service) Apply(ctx context.Context, candidateID string, jobID int64) (Application, error) {
	job, err := s.Jobs.Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return Application{}, ErrNotFound
		}
		return Application{}, fmt.Errorf("load job: %w", err)
	}
	now := s.now()
	if !job.ActiveAt(now) {
		return Application{}, ErrJobClosed
	}

	res, err := s.Resumes.Current(ctx, candidateID)
	if err != nil {
		if errors.Is(err, resumes.ErrNotFound) {
			return Application{}, ErrNoResume
		}
		return Application{}, fmt.Errorf("load résumé: %w", err)
	}

	if _, err := s.Repo.FindByCandidateJob(ctx, candidateID, jobID); err == nil {
		return Application{}, ErrAlreadyApplied
	} else if !errors.Is(err, ErrNotFound) {
		return Application{}, err
	}

	app := Application{
		ID:          uuid.NewString(),
		JobID:       jobID,
		CandidateID: candidateID,
		ResumeID:    res.ID,
		Status:      StatusSubmitted,
		CreatedAt:   now.UTC(),
	}
	if err := s.Repo.Create(ctx, app); err != nil {
		return Application{}, fmt.Errorf("create application: %w", err)
	}
	return app, nil
}

// List returns the candidate's applications, newest first.
func (s *Service) List(ctx context.Context, candidateID string) ([]Application, error) {
	return s.Repo.ListByCandidate(ctx, candidateID)
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
