package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jobmatch-backend/internal/shared/telemetry"
)

// ResumeIDKey is set by handlers that act on a résumé so request logs can carry it.
const ResumeIDKey = "resumeId"

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := []zap.Field{
			zap.String("request_id", RequestIDFromContext(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Float64("duration_ms", float64(latency.Microseconds())/1000.0),
			zap.String("user_id", UserIDFromContext(c)),
			zap.Bool("is_guest", c.GetBool(isGuestKey)),
			zap.String("client_ip", c.ClientIP()),
		}
		if resumeID := c.GetString(ResumeIDKey); resumeID != "" {
			fields = append(fields, zap.String("resume_id", resumeID))
		}
		telemetry.Info("request.complete", fields...)
	}
}
