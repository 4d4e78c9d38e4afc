package matching

import (
	"context"
	"sync"
	"time"

	"jobmatch-backend/internal/extract"
	"jobmatch-backend/internal/jobs"
	"jobmatch-backend/internal/llm"
	"jobmatch-backend/internal/resumes"
)

type fakeResumes struct {
	byID map[string]resumes.Resume
}

func (f *fakeResumes) Get(ctx context.Context, candidateID, id string) (resumes.Resume, error) {
	r, ok := f.byID[id]
	if !ok || r.CandidateID != candidateID {
		return resumes.Resume{}, resumes.ErrNotFound
	}
	return r, nil
}

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(ctx context.Context, doc extract.Document) (extract.Text, error) {
	if f.err != nil {
		return extract.Text{}, f.err
	}
	return extract.Text{DocumentID: doc.ID, Format: doc.Format, Content: f.text}, nil
}

type fakeCatalog struct {
	jobs []jobs.JobSummary
	err  error
}

func (f *fakeCatalog) ListActiveJobs(ctx context.Context) ([]jobs.JobSummary, error) {
	return f.jobs, f.err
}

type fakeClient struct {
	mu       sync.Mutex
	calls    int
	requests []llm.Request
	reply    string
	err      error
	block    bool
}

func (f *fakeClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	f.calls++
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func sampleJobs() []jobs.JobSummary {
	posted := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return []jobs.JobSummary{
		{ID: 1, Title: "Backend Engineer", Description: "Go services", CompanyName: "Acme", Skills: []string{"go", "postgres"}, PostedAt: posted},
		{ID: 2, Title: "Data Analyst", Description: "SQL and dashboards", CompanyName: "Globex", Skills: []string{"sql"}, PostedAt: posted},
		{ID: 3, Title: "Frontend Engineer", Description: "React", CompanyName: "Initech", Remote: true, PostedAt: posted},
	}
}

func newPipeline(client llm.Client, catalog jobs.Catalog) *Service {
	return &Service{
		Resumes: &fakeResumes{byID: map[string]resumes.Resume{
			"r1": {ID: "r1", CandidateID: "u1", FileName: "cv.txt", Format: extract.FormatText, StorageKey: "k"},
		}},
		Extractor: &fakeExtractor{text: "Go developer with five years of backend experience"},
		Catalog:   catalog,
		Composer:  NewComposer(),
		Client:    client,
		Timeout:   time.Second,
	}
}
