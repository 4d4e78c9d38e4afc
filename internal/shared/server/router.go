package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/shared/auth"
	"jobmatch-backend/internal/shared/metrics"
	"jobmatch-backend/internal/shared/server/middleware"
	"jobmatch-backend/internal/shared/server/respond"
)

// Routes is implemented by domain handlers that mount themselves on /api/v1.
type Routes interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Options configures the engine.
type Options struct {
	CORSAllowOrigins []string
	Tokens           *auth.Tokens
	AllowGuests      bool
	RateLimits       map[string]middleware.RateLimitRule
	Release          bool
}

const healthPath = "/api/v1/health"

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(opts Options, routes ...Routes) *gin.Engine {
	if opts.Release {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(opts.CORSAllowOrigins),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.Use(
		middleware.Auth(middleware.AuthConfig{
			Tokens:      opts.Tokens,
			AllowGuests: opts.AllowGuests,
			PublicPaths: []string{healthPath},
		}),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    opts.RateLimits,
			GroupFor: RateLimitGroup,
		}),
	)
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	registerMeRoutes(api)
	for _, rt := range routes {
		rt.RegisterRoutes(api)
	}

	return r
}

// RateLimitGroup puts recommendation requests in their own bucket since each one
// may cost a matching service call.
func RateLimitGroup(c *gin.Context) string {
	if c.FullPath() == "/api/v1/resumes/:id/recommendations" {
		return "MATCHING"
	}
	return "DEFAULT"
}

// DefaultRateLimits returns the rules used by the API binary.
func DefaultRateLimits() map[string]middleware.RateLimitRule {
	return map[string]middleware.RateLimitRule{
		"DEFAULT":  {Rate: 10, Burst: 30},
		"MATCHING": {Rate: 0.2, Burst: 3},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
