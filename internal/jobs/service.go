package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// CreateInput is a new job posting as submitted by a client.
type CreateInput struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=20000"`
	Location    string     `json:"location" validate:"max=200"`
	CountryName string     `json:"countryName" validate:"max=100"`
	CityName    string     `json:"cityName" validate:"max=100"`
	CompanyName string     `json:"companyName" validate:"required,max=200"`
	Industry    string     `json:"industry" validate:"max=100"`
	Remote      bool       `json:"remote"`
	SalaryMin   *int       `json:"salaryMin" validate:"omitempty,gte=0"`
	SalaryMax   *int       `json:"salaryMax" validate:"omitempty,gte=0"`
	Skills      []string   `json:"skills" validate:"max=50,dive,required,max=100"`
	PostedAt    *time.Time `json:"postedAt"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

// Service exposes the job catalog and implements Catalog.
type Service struct {
	Repo     Repo
	Now      func() time.Time
	validate *validator.Validate
}

// NewService constructs a Service backed by repo.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: time.Now, validate: validator.New(validator.WithRequiredStructEnabled())}
}

// ListActiveJobs returns the active snapshot, newest posting first.
func (s *Service) ListActiveJobs(ctx context.Context) ([]JobSummary, error) {
	jobs, err := s.Repo.ListActive(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("list active jobs: %w", err)
	}
	return jobs, nil
}

// Get returns a posting by ID.
func (s *Service) Get(ctx context.Context, id int64) (JobSummary, error) {
	if id <= 0 {
		return JobSummary{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// Create validates and stores a posting.
func (s *Service) Create(ctx context.Context, in CreateInput) (JobSummary, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.Skills = normalizeSkills(in.Skills)

	if err := s.validator().Struct(in); err != nil {
		return JobSummary{}, fmt.Errorf("%w: %s", ErrInvalidInput, describe(err))
	}
	if in.SalaryMin != nil && in.SalaryMax != nil && *in.SalaryMax < *in.SalaryMin {
		return JobSummary{}, fmt.Errorf("%w: salaryMax must be >= salaryMin", ErrInvalidInput)
	}

	posted := s.now().UTC()
	if in.PostedAt != nil {
		posted = in.PostedAt.UTC()
	}
	if in.ExpiresAt != nil && !in.ExpiresAt.After(posted) {
		return JobSummary{}, fmt.Errorf("%w: expiresAt must be after postedAt", ErrInvalidInput)
	}

	job := JobSummary{
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		CountryName: strings.TrimSpace(in.CountryName),
		CityName:    strings.TrimSpace(in.CityName),
		CompanyName: in.CompanyName,
		Industry:    strings.TrimSpace(in.Industry),
		Remote:      in.Remote,
		SalaryMin:   in.SalaryMin,
		SalaryMax:   in.SalaryMax,
		Skills:      in.Skills,
		PostedAt:    posted,
		ExpiresAt:   in.ExpiresAt,
	}
	id, err := s.Repo.Create(ctx, job)
	if err != nil {
		return JobSummary{}, fmt.Errorf("create job: %w", err)
	}
	job.ID = id
	return job, nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Service) validator() *validator.Validate {
	if s.validate == nil {
		s.validate = validator.New(validator.WithRequiredStructEnabled())
	}
	return s.validate
}

func normalizeSkills(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, skill := range in {
		skill = strings.TrimSpace(skill)
		key := strings.ToLower(skill)
		if skill == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, skill)
	}
	return out
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

var _ Catalog = (*Service)(nil)
