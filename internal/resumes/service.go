package resumes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"jobmatch-backend/internal/extract"
	"jobmatch-backend/internal/shared/storage/object"
	"jobmatch-backend/internal/shared/telemetry"
)

// Service manages the résumé lifecycle: upload, replacement and deletion.
type Service struct {
	Store  object.ObjectStore
	Repo   Repo
	Logger *zap.Logger
	Now    func() time.Time
}

// Upload stores a résumé file. The first upload creates the record; later uploads
// replace the stored file on the same record and remove the previous blob.
func (s *Service) Upload(ctx context.Context, candidateID, fileName string, r io.Reader) (Resume, error) {
	candidateID = strings.TrimSpace(candidateID)
	fileName = strings.TrimSpace(fileName)
	if candidateID == "" || fileName == "" {
		return Resume{}, ErrInvalidInput
	}
	format := extract.FormatFromFileName(fileName)
	if format == extract.FormatUnknown {
		return Resume{}, fmt.Errorf("%w: %w", ErrInvalidInput, extract.ErrUnsupportedFormat)
	}

	existing, err := s.Repo.GetByCandidate(ctx, candidateID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Resume{}, fmt.Errorf("lookup current resume: %w", err)
	}
	hasExisting := err == nil

	storageKey, size, _, err := s.Store.Save(ctx, candidateID, fileName, r)
	if err != nil {
		return Resume{}, fmt.Errorf("store resume: %w", err)
	}

	now := s.now()
	if !hasExisting {
		res := Resume{
			ID:          uuid.NewString(),
			CandidateID: candidateID,
			FileName:    fileName,
			Format:      format,
			StorageKey:  storageKey,
			SizeBytes:   size,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		err := s.Repo.Create(ctx, res)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, ErrAlreadyExists) {
			s.removeBlob(ctx, storageKey, "create_failed")
			return Resume{}, fmt.Errorf("create resume: %w", err)
		}
		// A concurrent first upload won the insert; replace its file instead.
		existing, err = s.Repo.GetByCandidate(ctx, candidateID)
		if err != nil {
			s.removeBlob(ctx, storageKey, "create_failed")
			return Resume{}, fmt.Errorf("lookup current resume: %w", err)
		}
	}

	replaced := existing
	replaced.FileName = fileName
	replaced.Format = format
	replaced.StorageKey = storageKey
	replaced.SizeBytes = size
	replaced.UpdatedAt = now
	if err := s.Repo.Replace(ctx, replaced); err != nil {
		s.removeBlob(ctx, storageKey, "replace_failed")
		return Resume{}, fmt.Errorf("replace resume: %w", err)
	}
	if existing.StorageKey != storageKey {
		s.removeBlob(ctx, existing.StorageKey, "superseded")
	}
	return replaced, nil
}

// Current returns the candidate's résumé.
func (s *Service) Current(ctx context.Context, candidateID string) (Resume, error) {
	if strings.TrimSpace(candidateID) == "" {
		return Resume{}, ErrInvalidInput
	}
	return s.Repo.GetByCandidate(ctx, candidateID)
}

// Get returns a résumé only when candidateID owns it.
func (s *Service) Get(ctx context.Context, candidateID, id string) (Resume, error) {
	if strings.TrimSpace(candidateID) == "" || strings.TrimSpace(id) == "" {
		return Resume{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, candidateID, id)
}

// Delete removes the résumé, detaching any applications that referenced it,
// then deletes the stored file.
func (s *Service) Delete(ctx context.Context, candidateID, id string) error {
	res, err := s.Get(ctx, candidateID, id)
	if err != nil {
		return err
	}
	detached, err := s.Repo.Delete(ctx, candidateID, id)
	if err != nil {
		return fmt.Errorf("delete resume: %w", err)
	}
	telemetry.OrNop(s.Logger).Info("resume.deleted",
		zap.String("resume_id", id),
		zap.Int("applications_detached", detached),
	)
	s.removeBlob(ctx, res.StorageKey, "deleted")
	return nil
}

func (s *Service) removeBlob(ctx context.Context, storageKey, reason string) {
	if storageKey == "" {
		return
	}
	if err := s.Store.Delete(ctx, storageKey); err != nil && !errors.Is(err, object.ErrNotFound) {
		telemetry.OrNop(s.Logger).Error("resume.blob_delete_failed",
			zap.String("storage_key", storageKey),
			zap.String("reason", reason),
			zap.Error(err),
		)
	}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
