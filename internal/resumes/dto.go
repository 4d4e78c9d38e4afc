package resumes

import "time"

// ResumeResponse is the outward-facing representation of a résumé.
type ResumeResponse struct {
	ResumeID   string    `json:"resumeId"`
	FileName   string    `json:"fileName"`
	Format     string    `json:"format"`
	SizeBytes  int64     `json:"sizeBytes"`
	UploadedAt time.Time `json:"uploadedAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toResponse(r Resume) ResumeResponse {
	return ResumeResponse{
		ResumeID:   r.ID,
		FileName:   r.FileName,
		Format:     r.Format.String(),
		SizeBytes:  r.SizeBytes,
		UploadedAt: r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
