package jobs

import "time"

// JobResponse is the outward-facing representation of a posting.
type JobResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location,omitempty"`
	CountryName string     `json:"countryName,omitempty"`
	CityName    string     `json:"cityName,omitempty"`
	CompanyName string     `json:"companyName"`
	Industry    string     `json:"industry,omitempty"`
	Remote      bool       `json:"remote"`
	SalaryMin   *int       `json:"salaryMin,omitempty"`
	SalaryMax   *int       `json:"salaryMax,omitempty"`
	Skills      []string   `json:"skills"`
	PostedAt    time.Time  `json:"postedAt"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

// ToResponse maps a JobSummary to its JSON shape.
func ToResponse(j JobSummary) JobResponse {
	skills := j.Skills
	if skills == nil {
		skills = []string{}
	}
	return JobResponse{
		ID:          j.ID,
		Title:       j.Title,
		Description: j.Description,
		Location:    j.Location,
		CountryName: j.CountryName,
		CityName:    j.CityName,
		CompanyName: j.CompanyName,
		Industry:    j.Industry,
		Remote:      j.Remote,
		SalaryMin:   j.SalaryMin,
		SalaryMax:   j.SalaryMax,
		Skills:      skills,
		PostedAt:    j.PostedAt,
		ExpiresAt:   j.ExpiresAt,
	}
}

// FromResponse converts the JSON shape back into a JobSummary.
func FromResponse(r JobResponse) JobSummary {
	return JobSummary{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		CountryName: r.CountryName,
		CityName:    r.CityName,
		CompanyName: r.CompanyName,
		Industry:    r.Industry,
		Remote:      r.Remote,
		SalaryMin:   r.SalaryMin,
		SalaryMax:   r.SalaryMax,
		Skills:      r.Skills,
		PostedAt:    r.PostedAt,
		ExpiresAt:   r.ExpiresAt,
	}
}
