package resumes

import "context"

// Repo defines persistence operations for résumés.
type Repo interface {
	// Create returns ErrAlreadyExists when the candidate already has a résumé.
	Create(ctx context.Context, r Resume) error
	// Replace overwrites the file fields of an existing record, keeping its ID.
	Replace(ctx context.Context, r Resume) error
	GetByCandidate(ctx context.Context, candidateID string) (Resume, error)
	GetByID(ctx context.Context, candidateID, id string) (Resume, error)
	// Delete removes the record and detaches applications that referenced it.
	Delete(ctx context.Context, candidateID, id string) (detached int, err error)
}
