package applications

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/shared/server/middleware"
	"jobmatch-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the applications service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches application routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs/:id/applications", h.apply)
	rg.GET("/applications", h.list)
}

type applicationResponse struct {
	ApplicationID string    `json:"applicationId"`
	JobID         int64     `json:"jobId"`
	ResumeID      *string   `json:"resumeId"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toResponse(a Application) applicationResponse {
	out := applicationResponse{
		ApplicationID: a.ID,
		JobID:         a.JobID,
		Status:        a.Status,
		CreatedAt:     a.CreatedAt,
	}
	if a.ResumeID != "" {
		id := a.ResumeID
		out.ResumeID = &id
	}
	return out
}

func (h *Handler) apply(c *gin.Context) {
	jobID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || jobID <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid job id", nil)
		return
	}

	app, err := h.Svc.Apply(c.Request.Context(), middleware.UserIDFromContext(c), jobID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
		case errors.Is(err, ErrNoResume):
			respond.Error(c, http.StatusConflict, "resume_required", err.Error(), nil)
		case errors.Is(err, ErrAlreadyApplied):
			respond.Error(c, http.StatusConflict, "already_applied", err.Error(), nil)
		case errors.Is(err, ErrJobClosed):
			respond.Error(c, http.StatusConflict, "job_closed", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to submit application", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(app))
}

func (h *Handler) list(c *gin.Context) {
	apps, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list applications", nil)
		return
	}
	out := make([]applicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, toResponse(a))
	}
	respond.OK(c, out)
}
