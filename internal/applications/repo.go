package applications

import "context"

// Repo persists applications.
type Repo interface {
	Create(ctx context.Context, a Application) error
	FindByCandidateJob(ctx context.Context, candidateID string, jobID int64) (Application, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]Application, error)
}
