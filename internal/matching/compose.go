package matching

import (
	"encoding/json"
	"strings"
	"time"

	"jobmatch-backend/internal/jobs"
	"jobmatch-backend/internal/llm"
)

const (
	DefaultMaxResumeRunes      = 12000
	DefaultMaxDescriptionRunes = 1500
	DefaultMaxJobs             = 100
)

const systemInstruction = `You are a recruitment assistant that matches one candidate résumé against a list of open job postings.

Score every job from 0 to 100 using this rubric:
- 90-100: excellent match
- 75-89: very good match
- 60-74: good match
- below 60: not a match, do not return it

Weigh these factors for each job:
1. Overlap between the candidate's skills and the job's required skills
2. Fit between the candidate's experience level and the role's seniority
3. Fit of the candidate's education for the role
4. Industry and domain experience
5. Location compatibility, including whether the job is remote
6. Salary fit, when the résumé states expectations

Reply with ONLY a JSON array and nothing else. Each element must be an object:
{"jobId": <id from the job list>, "matchScore": <integer 0-100>, "reason": "<one or two sentences>"}
Only use jobId values that appear in the job list. If no job scores 60 or above, reply with [].
Write every reason in the same language as the résumé.`

// Prompt is a composed request plus the exact jobs it describes. Replies
// must be reconciled against Jobs, not the full catalog.
type Prompt struct {
	Request llm.Request
	Jobs    []jobs.JobSummary
}

// Composer turns résumé text and a job snapshot into a bounded request.
type Composer struct {
	MaxResumeRunes      int
	MaxDescriptionRunes int
	MaxJobs             int
	MaxOutputTokens     int
}

// NewComposer returns a Composer with default bounds.
func NewComposer() *Composer {
	return &Composer{
		MaxResumeRunes:      DefaultMaxResumeRunes,
		MaxDescriptionRunes: DefaultMaxDescriptionRunes,
		MaxJobs:             DefaultMaxJobs,
	}
}

type jobProjection struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	Company     string   `json:"company,omitempty"`
	Industry    string   `json:"industry,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	Remote      bool     `json:"remote"`
	SalaryMin   *int     `json:"salaryMin,omitempty"`
	SalaryMax   *int     `json:"salaryMax,omitempty"`
	PostedAt    string   `json:"postedAt,omitempty"`
	ExpiresAt   string   `json:"expiresAt,omitempty"`
}

// Compose builds the request. It reports false when there is nothing to
// match: blank résumé text or no jobs.
func (c *Composer) Compose(resumeText string, snapshot []jobs.JobSummary) (Prompt, bool) {
	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" || len(snapshot) == 0 {
		return Prompt{}, false
	}

	sent := snapshot
	if limit := c.maxJobs(); len(sent) > limit {
		sent = sent[:limit]
	}
	sent = cloneJobs(sent)

	projections := make([]jobProjection, 0, len(sent))
	for _, j := range sent {
		projections = append(projections, c.project(j))
	}
	// A slice of plain structs always marshals.
	payload, _ := json.Marshal(projections)

	var b strings.Builder
	b.WriteString("RÉSUMÉ:\n")
	b.WriteString(truncateRunes(resumeText, c.maxResumeRunes()))
	b.WriteString("\n\nJOBS (JSON):\n")
	b.Write(payload)
	b.WriteString("\n\nReturn the JSON array now.")

	return Prompt{
		Request: llm.Request{
			System:          systemInstruction,
			Prompt:          b.String(),
			MaxOutputTokens: c.MaxOutputTokens,
		},
		Jobs: sent,
	}, true
}

func (c *Composer) project(j jobs.JobSummary) jobProjection {
	p := jobProjection{
		ID:          j.ID,
		Title:       j.Title,
		Description: truncateRunes(strings.TrimSpace(j.Description), c.maxDescriptionRunes()),
		Location:    location(j),
		Company:     j.CompanyName,
		Industry:    j.Industry,
		Skills:      j.Skills,
		Remote:      j.Remote,
		SalaryMin:   j.SalaryMin,
		SalaryMax:   j.SalaryMax,
	}
	if !j.PostedAt.IsZero() {
		p.PostedAt = j.PostedAt.UTC().Format(time.DateOnly)
	}
	if j.ExpiresAt != nil {
		p.ExpiresAt = j.ExpiresAt.UTC().Format(time.DateOnly)
	}
	return p
}

func location(j jobs.JobSummary) string {
	if loc := strings.TrimSpace(j.Location); loc != "" {
		return loc
	}
	parts := make([]string, 0, 2)
	for _, s := range []string{j.CityName, j.CountryName} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func (c *Composer) maxJobs() int {
	if c.MaxJobs <= 0 {
		return DefaultMaxJobs
	}
	return c.MaxJobs
}

func (c *Composer) maxResumeRunes() int {
	if c.MaxResumeRunes <= 0 {
		return DefaultMaxResumeRunes
	}
	return c.MaxResumeRunes
}

func (c *Composer) maxDescriptionRunes() int {
	if c.MaxDescriptionRunes <= 0 {
		return DefaultMaxDescriptionRunes
	}
	return c.MaxDescriptionRunes
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func cloneJobs(in []jobs.JobSummary) []jobs.JobSummary {
	out := make([]jobs.JobSummary, len(in))
	for i, j := range in {
		out[i] = j.Clone()
	}
	return out
}
