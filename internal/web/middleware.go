package web

import (
	"net/http"
	"strconv"
	"time"

	apperrors "credit-risk-dashboard/internal/common/errors"
	"credit-risk-dashboard/internal/common/logger"
	"credit-risk-dashboard/internal/common/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestId"
)

// RequestID tags each request with the caller's X-Request-ID or a new UUID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// AccessLog writes one structured line per request.
func AccessLog(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"requestId": c.GetString(requestIDKey),
			"method":    c.Request.Method,
			"path":      c.FullPath(),
			"status":    c.Writer.Status(),
			"latencyMs": time.Since(start).Milliseconds(),
			"clientIp":  c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request completed", fields)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("request completed", fields)
		default:
			log.Info("request completed", fields)
		}
	}
}

// RateLimit rejects clients over their allowance with 429. Limiter errors
// are logged and the request is let through.
func RateLimit(limiter Limiter, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("rate limiter unavailable, allowing request", map[string]interface{}{
				"requestId": c.GetString(requestIDKey),
				"clientIp":  key,
				"error":     err,
			})
			c.Next()
			return
		}

		if !allowed {
			rlErr := apperrors.NewRateLimitedError(key)
			metrics.FormRequests.WithLabelValues(strconv.Itoa(http.StatusTooManyRequests)).Inc()
			c.Header("Retry-After", "60")
			c.String(http.StatusTooManyRequests, rlErr.Message)
			c.Abort()
			return
		}

		c.Next()
	}
}
