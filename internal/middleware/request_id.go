package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/habitkit/habit-tracker-api/internal/constants"
	"github.com/habitkit/habit-tracker-api/internal/logger"
)

// RequestLogger tags each request with an ID and writes one access log line.
// An incoming X-Request-ID is kept.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(constants.ContextKeyRequestID, requestID)
		c.Header(constants.HeaderRequestID, requestID)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		keyvals := []interface{}{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
		}
		switch {
		case status >= 500:
			logger.Error("Request failed", keyvals...)
		case status >= 400:
			logger.Warn("Request rejected", keyvals...)
		default:
			logger.Info("Request handled", keyvals...)
		}
	}
}
