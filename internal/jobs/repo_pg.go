package jobs

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"jobmatch-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const jobColumns = `id, title, description, location, country_name, city_name, company_name, industry, remote, salary_min, salary_max, posted_at, expires_at`

// Create inserts a posting and its skills in one transaction.
func (r *PGRepo) Create(ctx context.Context, job JobSummary) (int64, error) {
	const insertJob = `
INSERT INTO jobs (title, description, location, country_name, city_name, company_name, industry, remote, salary_min, salary_max, posted_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id`
	const insertSkill = `
INSERT INTO job_skills (job_id, skill) VALUES ($1, $2)
ON CONFLICT DO NOTHING`

	var id int64
	err := db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, insertJob,
			job.Title,
			job.Description,
			job.Location,
			job.CountryName,
			job.CityName,
			job.CompanyName,
			job.Industry,
			job.Remote,
			nullInt(job.SalaryMin),
			nullInt(job.SalaryMax),
			job.PostedAt,
			nullTime(job.ExpiresAt),
		).Scan(&id); err != nil {
			return err
		}
		for _, skill := range job.Skills {
			if _, err := tx.ExecContext(ctx, insertSkill, id, skill); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetByID fetches a posting with its skills.
func (r *PGRepo) GetByID(ctx context.Context, id int64) (JobSummary, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	job, err := scanJob(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return JobSummary{}, ErrNotFound
		}
		return JobSummary{}, err
	}
	skills, err := r.skillsFor(ctx, `SELECT job_id, skill FROM job_skills WHERE job_id = $1 ORDER BY skill`, id)
	if err != nil {
		return JobSummary{}, err
	}
	job.Skills = skills[id]
	return job, nil
}

// ListActive returns postings with no expiry or a future expiry, newest first.
// Skills are loaded by a second query over the same filter.
func (r *PGRepo) ListActive(ctx context.Context, now time.Time) ([]JobSummary, error) {
	query := `SELECT ` + jobColumns + `
FROM jobs
WHERE expires_at IS NULL OR expires_at > $1
ORDER BY posted_at DESC, id DESC`

	rows, err := r.DB.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []JobSummary{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	skills, err := r.skillsFor(ctx, `
SELECT s.job_id, s.skill
FROM job_skills s
JOIN jobs j ON j.id = s.job_id
WHERE j.expires_at IS NULL OR j.expires_at > $1
ORDER BY s.job_id, s.skill`, now)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Skills = skills[out[i].ID]
	}
	return out, nil
}

func (r *PGRepo) skillsFor(ctx context.Context, query string, arg any) (map[int64][]string, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]string)
	for rows.Next() {
		var jobID int64
		var skill string
		if err := rows.Scan(&jobID, &skill); err != nil {
			return nil, err
		}
		out[jobID] = append(out[jobID], skill)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (JobSummary, error) {
	var job JobSummary
	var salaryMin, salaryMax sql.NullInt64
	var expiresAt sql.NullTime
	if err := row.Scan(
		&job.ID,
		&job.Title,
		&job.Description,
		&job.Location,
		&job.CountryName,
		&job.CityName,
		&job.CompanyName,
		&job.Industry,
		&job.Remote,
		&salaryMin,
		&salaryMax,
		&job.PostedAt,
		&expiresAt,
	); err != nil {
		return JobSummary{}, err
	}
	if salaryMin.Valid {
		v := int(salaryMin.Int64)
		job.SalaryMin = &v
	}
	if salaryMax.Valid {
		v := int(salaryMax.Int64)
		job.SalaryMax = &v
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		job.ExpiresAt = &t
	}
	return job, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
