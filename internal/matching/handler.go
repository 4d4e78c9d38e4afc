package matching

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/extract"
	"jobmatch-backend/internal/resumes"
	"jobmatch-backend/internal/shared/server/middleware"
	"jobmatch-backend/internal/shared/server/respond"
)

// Handler exposes recommendations over HTTP.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the recommendations route.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resumes/:id/recommendations", h.recommendations)
}

func (h *Handler) recommendations(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ResumeIDKey, id)

	recs, err := h.Svc.GetRecommendations(c.Request.Context(), id, middleware.UserIDFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, resumes.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "résumé not found", nil)
		case extract.IsExtractionError(err):
			respond.Error(c, http.StatusUnprocessableEntity, "resume_unreadable", "could not read résumé", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compute recommendations", nil)
		}
		return
	}
	respond.OK(c, toResponses(recs))
}
