package applications

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"jobmatch-backend/internal/jobs"
	"jobmatch-backend/internal/resumes"
	"jobmatch-backend/internal/shared/storage/object/local"
)

type fixture struct {
	svc      *Service
	resumes  *resumes.Service
	jobs     *jobs.Service
	openJob  int64
	closedID int64
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	resumeRepo := resumes.NewMemoryRepo()
	resumeSvc := &resumes.Service{Store: local.New(t.TempDir()), Repo: resumeRepo}
	jobSvc := jobs.NewService(jobs.NewMemoryRepo())
	jobSvc.Now = func() time.Time { return now.Add(-48 * time.Hour) }

	open, err := jobSvc.Create(context.Background(), jobs.CreateInput{Title: "Go Engineer", CompanyName: "Acme"})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	expires := now.Add(-time.Hour)
	closed, err := jobSvc.Create(context.Background(), jobs.CreateInput{Title: "Old Role", CompanyName: "Acme", ExpiresAt: &expires})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}

	svc := &Service{
		Repo:    NewMemoryRepo(resumeRepo),
		Resumes: resumeSvc,
		Jobs:    jobSvc,
		Now:     func() time.Time { return now },
	}
	return fixture{svc: svc, resumes: resumeSvc, jobs: jobSvc, openJob: open.ID, closedID: closed.ID}
}

func TestApplyRequiresResume(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Apply(context.Background(), "cand-1", f.openJob); !errors.Is(err, ErrNoResume) {
		t.Fatalf("expected ErrNoResume, got %v", err)
	}
}

func TestApplyRejectsUnknownAndClosedJobs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.resumes.Upload(ctx, "cand-1", "cv.txt", strings.NewReader("hello")); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := f.svc.Apply(ctx, "cand-1", 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.Apply(ctx, "cand-1", f.closedID); !errors.Is(err, ErrJobClosed) {
		t.Fatalf("expected ErrJobClosed, got %v", err)
	}
}

func TestApplyThenDeleteResumeDetaches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.resumes.Upload(ctx, "cand-1", "cv.txt", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	app, err := f.svc.Apply(ctx, "cand-1", f.openJob)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if app.ResumeID != res.ID || app.Status != StatusSubmitted {
		t.Fatalf("unexpected application %+v", app)
	}
	if _, err := f.svc.Apply(ctx, "cand-1", f.openJob); !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}

	if err := f.resumes.Delete(ctx, "cand-1", res.ID); err != nil {
		t.Fatalf("delete résumé: %v", err)
	}

	apps, err := f.svc.List(ctx, "cand-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("expected application to survive résumé deletion, got %d", len(apps))
	}
	if apps[0].ResumeID != "" {
		t.Fatalf("expected detached résumé, got %q", apps[0].ResumeID)
	}
}
