package resumes

import (
	"context"
	"database/sql"
	"errors"

	"jobmatch-backend/internal/extract"
	"jobmatch-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, candidate_id, file_name, format, storage_key, size_bytes, created_at, updated_at`

// Create inserts a new résumé.
func (r *PGRepo) Create(ctx context.Context, res Resume) error {
	const query = `
INSERT INTO resumes (` + resumeColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		res.ID,
		res.CandidateID,
		res.FileName,
		res.Format.String(),
		res.StorageKey,
		res.SizeBytes,
		res.CreatedAt,
		res.UpdatedAt,
	)
	if db.IsUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return err
}

// Replace swaps the stored file of an existing résumé.
func (r *PGRepo) Replace(ctx context.Context, res Resume) error {
	const query = `
UPDATE resumes
SET file_name = $1, format = $2, storage_key = $3, size_bytes = $4, updated_at = $5
WHERE id = $6 AND candidate_id = $7`
	result, err := r.DB.ExecContext(ctx, query,
		res.FileName,
		res.Format.String(),
		res.StorageKey,
		res.SizeBytes,
		res.UpdatedAt,
		res.ID,
		res.CandidateID,
	)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByCandidate returns the candidate's résumé.
func (r *PGRepo) GetByCandidate(ctx context.Context, candidateID string) (Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE candidate_id = $1`
	return scanResume(r.DB.QueryRowContext(ctx, query, candidateID))
}

// GetByID fetches a résumé scoped to its owner.
func (r *PGRepo) GetByID(ctx context.Context, candidateID, id string) (Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1 AND candidate_id = $2`
	return scanResume(r.DB.QueryRowContext(ctx, query, id, candidateID))
}

// Delete detaches applications and removes the résumé in one transaction.
func (r *PGRepo) Delete(ctx context.Context, candidateID, id string) (int, error) {
	var detached int64
	err := db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE applications SET resume_id = NULL WHERE resume_id = $1`, id)
		if err != nil {
			return err
		}
		detached, _ = res.RowsAffected()

		res, err = tx.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1 AND candidate_id = $2`, id, candidateID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(detached), nil
}

func scanResume(row *sql.Row) (Resume, error) {
	var res Resume
	var format string
	err := row.Scan(
		&res.ID,
		&res.CandidateID,
		&res.FileName,
		&format,
		&res.StorageKey,
		&res.SizeBytes,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	res.Format = extract.ParseFormat(format)
	return res, nil
}

var _ Repo = (*PGRepo)(nil)
