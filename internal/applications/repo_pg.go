package applications

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const applicationColumns = `id, job_id, candidate_id, resume_id, status, created_at`

func (r *PGRepo) Create(ctx context.Context, a Application) error {
	const query = `
INSERT INTO applications (` + applicationColumns + `)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query, a.ID, a.JobID, a.CandidateID, nullString(a.ResumeID), a.Status, a.CreatedAt)
	return err
}

func (r *PGRepo) FindByCandidateJob(ctx context.Context, candidateID string, jobID int64) (Application, error) {
	const query = `
SELECT ` + applicationColumns + `
FROM applications
WHERE candidate_id = $1 AND job_id = $2
LIMIT 1`
	a, err := scanApplication(r.DB.QueryRowContext(ctx, query, candidateID, jobID))
	if errors.Is(err, sql.ErrNoRows) {
		return Application{}, ErrNotFound
	}
	return a, err
}

func (r *PGRepo) ListByCandidate(ctx context.Context, candidateID string) ([]Application, error) {
	const query = `
SELECT ` + applicationColumns + `
FROM applications
WHERE candidate_id = $1
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (Application, error) {
	var (
		a        Application
		resumeID sql.NullString
	)
	if err := row.Scan(&a.ID, &a.JobID, &a.CandidateID, &resumeID, &a.Status, &a.CreatedAt); err != nil {
		return Application{}, err
	}
	a.ResumeID = resumeID.String
	return a, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ Repo = (*PGRepo)(nil)
