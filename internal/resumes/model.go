package resumes

import (
	"time"

	"jobmatch-backend/internal/extract"
)

// Resume is a candidate's uploaded résumé. A candidate has at most one.
type Resume struct {
	ID          string
	CandidateID string
	FileName    string
	Format      extract.Format
	StorageKey  string
	SizeBytes   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Document returns the extractor's view of the stored file.
func (r Resume) Document() extract.Document {
	return extract.Document{
		ID:         r.ID,
		StorageKey: r.StorageKey,
		Format:     r.Format,
		FileName:   r.FileName,
	}
}
