package resumes

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu           sync.RWMutex
	byCandidate  map[string]Resume
	applications map[string]string // application ID -> résumé ID, "" when detached
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byCandidate:  make(map[string]Resume),
		applications: make(map[string]string),
	}
}

// Create stores a new résumé for a candidate.
func (m *MemoryRepo) Create(ctx context.Context, r Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byCandidate[r.CandidateID]; exists {
		return ErrAlreadyExists
	}
	m.byCandidate[r.CandidateID] = r
	return nil
}

// Replace updates the stored file fields of an existing résumé.
func (m *MemoryRepo) Replace(ctx context.Context, r Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byCandidate[r.CandidateID]
	if !ok || cur.ID != r.ID {
		return ErrNotFound
	}
	cur.FileName = r.FileName
	cur.Format = r.Format
	cur.StorageKey = r.StorageKey
	cur.SizeBytes = r.SizeBytes
	cur.UpdatedAt = r.UpdatedAt
	m.byCandidate[r.CandidateID] = cur
	return nil
}

// GetByCandidate returns the candidate's résumé.
func (m *MemoryRepo) GetByCandidate(ctx context.Context, candidateID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.byCandidate[candidateID]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return r, nil
}

// GetByID returns a résumé only when it belongs to candidateID.
func (m *MemoryRepo) GetByID(ctx context.Context, candidateID, id string) (Resume, error) {
	r, err := m.GetByCandidate(ctx, candidateID)
	if err != nil {
		return Resume{}, err
	}
	if r.ID != id {
		return Resume{}, ErrNotFound
	}
	return r, nil
}

// Delete removes the résumé and clears it from any linked application.
func (m *MemoryRepo) Delete(ctx context.Context, candidateID, id string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byCandidate[candidateID]
	if !ok || r.ID != id {
		return 0, ErrNotFound
	}
	detached := 0
	for appID, resumeID := range m.applications {
		if resumeID == id {
			m.applications[appID] = ""
			detached++
		}
	}
	delete(m.byCandidate, candidateID)
	return detached, nil
}

// LinkApplication records that an application was submitted with a résumé.
func (m *MemoryRepo) LinkApplication(applicationID, resumeID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applications[applicationID] = resumeID
}

// ApplicationResume returns the résumé linked to an application and whether the application exists.
func (m *MemoryRepo) ApplicationResume(applicationID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.applications[applicationID]
	return id, ok
}

var _ Repo = (*MemoryRepo)(nil)
