package jobs

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	data   map[int64]JobSummary
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[int64]JobSummary)}
}

// Create stores a posting, assigning an ID when none is set.
func (r *MemoryRepo) Create(ctx context.Context, job JobSummary) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.ID == 0 {
		r.nextID++
		job.ID = r.nextID
	} else if job.ID > r.nextID {
		r.nextID = job.ID
	}
	r.data[job.ID] = job.Clone()
	return job.ID, nil
}

// GetByID returns a posting by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (JobSummary, error) {
	if err := ctx.Err(); err != nil {
		return JobSummary{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.data[id]
	if !ok {
		return JobSummary{}, ErrNotFound
	}
	return job.Clone(), nil
}

// ListActive returns copies of postings active at now, newest first.
func (r *MemoryRepo) ListActive(ctx context.Context, now time.Time) ([]JobSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]JobSummary, 0, len(r.data))
	for _, job := range r.data {
		if job.ActiveAt(now) {
			out = append(out, job.Clone())
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PostedAt.Equal(out[j].PostedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].PostedAt.After(out[j].PostedAt)
	})
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
