package resumes

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"jobmatch-backend/internal/extract"
	"jobmatch-backend/internal/shared/storage/object"
	"jobmatch-backend/internal/shared/storage/object/local"
)

func newTestService(t *testing.T) (*Service, *MemoryRepo, *local.Store) {
	t.Helper()
	store := local.New(t.TempDir())
	repo := NewMemoryRepo()
	return &Service{Store: store, Repo: repo}, repo, store
}

func blobExists(t *testing.T, store *local.Store, key string) bool {
	t.Helper()
	rc, err := store.Open(context.Background(), key)
	if errors.Is(err, object.ErrNotFound) {
		return false
	}
	if err != nil {
		t.Fatalf("open %s: %v", key, err)
	}
	rc.Close()
	return true
}

func TestUploadRejectsUnsupportedFormat(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Upload(context.Background(), "cand-1", "cv.odt", strings.NewReader("x"))
	if !errors.Is(err, extract.ErrUnsupportedFormat) || !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestReuploadReplacesAndDeletesOldBlob(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()

	first, err := svc.Upload(ctx, "cand-1", "cv.txt", strings.NewReader("first version"))
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	second, err := svc.Upload(ctx, "cand-1", "cv.docx", strings.NewReader("second version"))
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("expected replacement to keep record id %s, got %s", first.ID, second.ID)
	}
	if second.Format != extract.FormatDOCX || second.FileName != "cv.docx" {
		t.Fatalf("expected replaced file fields, got %+v", second)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("expected created date to be preserved")
	}
	if blobExists(t, store, first.StorageKey) {
		t.Fatalf("expected old blob %s to be deleted", first.StorageKey)
	}
	if !blobExists(t, store, second.StorageKey) {
		t.Fatalf("expected new blob %s to exist", second.StorageKey)
	}

	current, err := svc.Current(ctx, "cand-1")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current.StorageKey != second.StorageKey {
		t.Fatalf("expected current to point at new blob")
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	res, err := svc.Upload(ctx, "cand-1", "cv.txt", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := svc.Get(ctx, "cand-2", res.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other candidate, got %v", err)
	}
	if _, err := svc.Get(ctx, "cand-1", res.ID); err != nil {
		t.Fatalf("expected owner to read résumé: %v", err)
	}
}

func TestDeleteDetachesApplications(t *testing.T) {
	svc, repo, store := newTestService(t)
	ctx := context.Background()
	res, err := svc.Upload(ctx, "cand-1", "cv.txt", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	repo.LinkApplication("app-1", res.ID)
	repo.LinkApplication("app-2", "other-resume")

	if err := svc.Delete(ctx, "cand-1", res.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if linked, ok := repo.ApplicationResume("app-1"); !ok || linked != "" {
		t.Fatalf("expected app-1 to survive detached, got %q (exists=%v)", linked, ok)
	}
	if linked, _ := repo.ApplicationResume("app-2"); linked != "other-resume" {
		t.Fatalf("expected unrelated application untouched, got %q", linked)
	}
	if blobExists(t, store, res.StorageKey) {
		t.Fatalf("expected blob to be deleted")
	}
	if _, err := svc.Current(ctx, "cand-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected résumé gone, got %v", err)
	}
}

func TestDeleteUnknownResume(t *testing.T) {
	svc, _, _ := newTestService(t)
	if err := svc.Delete(context.Background(), "cand-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// staleLookupRepo reports no résumé on its first lookup, as a request that read
// before a concurrent first upload committed would see.
type staleLookupRepo struct {
	*MemoryRepo
	mu      sync.Mutex
	lookups int
}

func (r *staleLookupRepo) GetByCandidate(ctx context.Context, candidateID string) (Resume, error) {
	r.mu.Lock()
	r.lookups++
	first := r.lookups == 1
	r.mu.Unlock()
	if first {
		return Resume{}, ErrNotFound
	}
	return r.MemoryRepo.GetByCandidate(ctx, candidateID)
}

func TestUploadReplacesWhenConcurrentFirstUploadWins(t *testing.T) {
	svc, repo, store := newTestService(t)
	ctx := context.Background()

	winner, err := svc.Upload(ctx, "cand-1", "cv.txt", strings.NewReader("winner"))
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}

	stale := &Service{Store: store, Repo: &staleLookupRepo{MemoryRepo: repo}}
	got, err := stale.Upload(ctx, "cand-1", "cv.docx", strings.NewReader("loser"))
	if err != nil {
		t.Fatalf("racing upload: %v", err)
	}
	if got.ID != winner.ID {
		t.Fatalf("expected racing upload to replace record %s, got %s", winner.ID, got.ID)
	}
	if got.FileName != "cv.docx" || got.Format != extract.FormatDOCX {
		t.Fatalf("expected replaced file fields, got %+v", got)
	}
	if blobExists(t, store, winner.StorageKey) {
		t.Fatalf("expected superseded blob %s to be deleted", winner.StorageKey)
	}
	if !blobExists(t, store, got.StorageKey) {
		t.Fatalf("expected new blob %s to exist", got.StorageKey)
	}
	current, err := repo.GetByCandidate(ctx, "cand-1")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current.StorageKey != got.StorageKey {
		t.Fatalf("expected record to point at %s, got %s", got.StorageKey, current.StorageKey)
	}
}

func TestConcurrentFirstUploadsShareOneRecord(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	const uploads = 8
	var wg sync.WaitGroup
	results := make([]Resume, uploads)
	errs := make([]error, uploads)
	for i := 0; i < uploads; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Upload(ctx, "cand-1", "cv.txt", strings.NewReader("same candidate"))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("upload %d: %v", i, err)
		}
		if results[i].ID != results[0].ID {
			t.Fatalf("expected one record, got ids %s and %s", results[0].ID, results[i].ID)
		}
	}
}

func TestMemoryRepoCreateRejectsSecondResume(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	if err := repo.Create(ctx, Resume{ID: "r1", CandidateID: "cand-1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, Resume{ID: "r2", CandidateID: "cand-1"}); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}
