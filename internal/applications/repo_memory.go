package applications

import (
	"context"
	"sort"
	"sync"
)

// ResumeLinks tracks which résumé an application references. The résumé
// store owns the links so deleting a résumé can detach them.
type ResumeLinks interface {
	LinkApplication(applicationID, resumeID string)
	ApplicationResume(applicationID string) (string, bool)
}

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu    sync.RWMutex
	links ResumeLinks
	data  map[string]Application
}

// NewMemoryRepo constructs a MemoryRepo sharing résumé links with links.
func NewMemoryRepo(links ResumeLinks) *MemoryRepo {
	return &MemoryRepo{links: links, data: make(map[string]Application)}
}

func (m *MemoryRepo) Create(ctx context.Context, a Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[a.ID] = a
	m.links.LinkApplication(a.ID, a.ResumeID)
	return nil
}

func (m *MemoryRepo) FindByCandidateJob(ctx context.Context, candidateID string, jobID int64) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.data {
		if a.CandidateID == candidateID && a.JobID == jobID {
			return m.withResume(a), nil
		}
	}
	return Application{}, ErrNotFound
}

func (m *MemoryRepo) ListByCandidate(ctx context.Context, candidateID string) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Application, 0)
	for _, a := range m.data {
		if a.CandidateID == candidateID {
			out = append(out, m.withResume(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryRepo) withResume(a Application) Application {
	if id, ok := m.links.ApplicationResume(a.ID); ok {
		a.ResumeID = id
	}
	return a
}

var _ Repo = (*MemoryRepo)(nil)
