package matching

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"jobmatch-backend/internal/extract"
	"jobmatch-backend/internal/llm"
	"jobmatch-backend/internal/resumes"
)

func TestGetRecommendationsRanksReconciledReply(t *testing.T) {
	client := &fakeClient{reply: "```json\n" + `[
		{"jobId":2,"matchScore":65,"reason":"some sql"},
		{"jobId":1,"matchScore":92,"reason":"go backend"},
		{"jobId":404,"matchScore":99,"reason":"invented"}
	]` + "\n```"}
	svc := newPipeline(client, &fakeCatalog{jobs: sampleJobs()})

	recs, err := svc.GetRecommendations(context.Background(), "r1", "u1")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, int64(1), recs[0].Job.ID)
	assert.Equal(t, 92, recs[0].MatchScore)
	assert.Equal(t, int64(2), recs[1].Job.ID)
	assert.Equal(t, 1, client.callCount())
	assert.Contains(t, client.requests[0].Prompt, "Go developer")
}

func TestGetRecommendationsEmptyCorpusSkipsClient(t *testing.T) {
	client := &fakeClient{reply: `[{"jobId":1,"matchScore":90}]`}
	svc := newPipeline(client, &fakeCatalog{})

	recs, err := svc.GetRecommendations(context.Background(), "r1", "u1")
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
	assert.Equal(t, 0, client.callCount())
}

func TestGetRecommendationsBlankResumeSkipsClient(t *testing.T) {
	client := &fakeClient{}
	svc := newPipeline(client, &fakeCatalog{jobs: sampleJobs()})
	svc.Extractor = &fakeExtractor{text: "   "}

	recs, err := svc.GetRecommendations(context.Background(), "r1", "u1")
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Equal(t, 0, client.callCount())
}

func TestGetRecommendationsTimeoutDegrades(t *testing.T) {
	client := &fakeClient{block: true}
	svc := newPipeline(client, &fakeCatalog{jobs: sampleJobs()})
	svc.Timeout = 20 * time.Millisecond
	core, logs := observer.New(zapcore.WarnLevel)
	svc.Logger = zap.New(core)

	recs, err := svc.GetRecommendations(context.Background(), "r1", "u1")
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
	assert.Equal(t, 1, client.callCount())

	entries := logs.FilterMessage("matching degraded to empty result").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "timeout", entries[0].ContextMap()["reason"])
}

func TestGetRecommendationsServiceFailuresDegrade(t *testing.T) {
	tests := []struct {
		name   string
		client llm.Client
	}{
		{name: "unavailable", client: &fakeClient{err: fmt.Errorf("%w: status 503", llm.ErrServiceUnavailable)}},
		{name: "malformed envelope", client: &fakeClient{err: fmt.Errorf("%w: no choices", llm.ErrMalformedReply)}},
		{name: "missing credential", client: llm.NotConfigured("missing api key")},
		{name: "non json reply", client: &fakeClient{reply: "Sorry, I cannot help with that."}},
		{name: "empty reply", client: &fakeClient{reply: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newPipeline(tt.client, &fakeCatalog{jobs: sampleJobs()})
			recs, err := svc.GetRecommendations(context.Background(), "r1", "u1")
			require.NoError(t, err)
			assert.NotNil(t, recs)
			assert.Empty(t, recs)
		})
	}
}

func TestGetRecommendationsCatalogFailureDegrades(t *testing.T) {
	client := &fakeClient{}
	svc := newPipeline(client, &fakeCatalog{err: errors.New("db down")})

	recs, err := svc.GetRecommendations(context.Background(), "r1", "u1")
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Equal(t, 0, client.callCount())
}

func TestGetRecommendationsPropagatesOwnershipAndExtraction(t *testing.T) {
	client := &fakeClient{}
	svc := newPipeline(client, &fakeCatalog{jobs: sampleJobs()})

	_, err := svc.GetRecommendations(context.Background(), "r1", "someone-else")
	assert.ErrorIs(t, err, resumes.ErrNotFound)

	_, err = svc.GetRecommendations(context.Background(), "missing", "u1")
	assert.ErrorIs(t, err, resumes.ErrNotFound)

	svc.Extractor = &fakeExtractor{err: fmt.Errorf("parse pdf: %w", extract.ErrCorruptDocument)}
	_, err = svc.GetRecommendations(context.Background(), "r1", "u1")
	assert.ErrorIs(t, err, extract.ErrCorruptDocument)
	assert.True(t, extract.IsExtractionError(err))
	assert.Equal(t, 0, client.callCount())
}

func TestGetRecommendationsReconcilesAgainstJobsSent(t *testing.T) {
	client := &fakeClient{reply: `[{"jobId":3,"matchScore":88,"reason":"beyond the cap"},{"jobId":1,"matchScore":70}]`}
	svc := newPipeline(client, &fakeCatalog{jobs: sampleJobs()})
	svc.Composer = &Composer{MaxJobs: 2}

	recs, err := svc.GetRecommendations(context.Background(), "r1", "u1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(1), recs[0].Job.ID)
}

func TestGetRecommendationsConcurrentCallsAreIndependent(t *testing.T) {
	client := &fakeClient{reply: `[{"jobId":1,"matchScore":80}]`}
	svc := newPipeline(client, &fakeCatalog{jobs: sampleJobs()})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			recs, err := svc.GetRecommendations(context.Background(), "r1", "u1")
			assert.NoError(t, err)
			assert.Len(t, recs, 1)
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, client.callCount())
}
