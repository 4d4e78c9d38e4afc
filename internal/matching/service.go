package matching

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"jobmatch-backend/internal/extract"
	"jobmatch-backend/internal/jobs"
	"jobmatch-backend/internal/llm"
	"jobmatch-backend/internal/resumes"
	"jobmatch-backend/internal/shared/metrics"
)

const defaultTimeout = 60 * time.Second

// ResumeSource resolves a résumé owned by a candidate.
type ResumeSource interface {
	Get(ctx context.Context, candidateID, id string) (resumes.Resume, error)
}

// TextExtractor turns a stored document into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, doc extract.Document) (extract.Text, error)
}

// Service runs the recommendation pipeline for one résumé per call. It holds
// no per-request state, so concurrent calls are independent.
type Service struct {
	Resumes   ResumeSource
	Extractor TextExtractor
	Catalog   jobs.Catalog
	Composer  *Composer
	Client    llm.Client
	Timeout   time.Duration
	Logger    *zap.Logger
}

// GetRecommendations returns ranked job recommendations for the résumé.
//
// Only two kinds of error reach the caller: resumes.ErrNotFound and
// extraction errors. Catalog and matching service failures yield an empty
// list.
func (s *Service) GetRecommendations(ctx context.Context, resumeID, userID string) ([]Recommendation, error) {
	log := s.logger().With(zap.String("resume_id", resumeID), zap.String("user_id", userID))
	metrics.IncMatchRequests()

	res, err := s.Resumes.Get(ctx, userID, resumeID)
	if err != nil {
		return nil, err
	}

	text, err := s.Extractor.Extract(ctx, res.Document())
	if err != nil {
		if extract.IsExtractionError(err) {
			metrics.IncExtractFailed()
			log.Info("resume extraction failed", zap.Error(err))
		}
		return nil, fmt.Errorf("extract resume: %w", err)
	}

	snapshot, err := s.Catalog.ListActiveJobs(ctx)
	if err != nil {
		return s.degrade(log, "catalog", err), nil
	}

	prompt, ok := s.composer().Compose(text.Content, snapshot)
	if !ok {
		metrics.IncMatchShortCircuit()
		log.Debug("matching short-circuited", zap.Int("jobs", len(snapshot)))
		return []Recommendation{}, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	started := time.Now()
	content, err := s.Client.Complete(callCtx, prompt.Request)
	metrics.ObserveLLMCall(time.Since(started))
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, llm.ErrServiceTimeout) {
			err = fmt.Errorf("%w: %v", llm.ErrServiceTimeout, err)
		}
		return s.degrade(log, llm.Reason(err), err), nil
	}

	recs := Rank(ParseWithLogger(content, prompt.Jobs, log))
	metrics.AddRecommendations(len(recs))
	log.Info("matching complete", zap.Int("jobs_sent", len(prompt.Jobs)), zap.Int("recommendations", len(recs)))
	return recs, nil
}

func (s *Service) degrade(log *zap.Logger, reason string, err error) []Recommendation {
	metrics.IncMatchDegraded(reason)
	log.Warn("matching degraded to empty result", zap.String("reason", reason), zap.Error(err))
	return []Recommendation{}
}

func (s *Service) composer() *Composer {
	if s.Composer == nil {
		return NewComposer()
	}
	return s.Composer
}

func (s *Service) timeout() time.Duration {
	if s.Timeout <= 0 {
		return defaultTimeout
	}
	return s.Timeout
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
