package middlewares

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/janhq/searxng-tools/internal/infrastructure/metrics"
	"github.com/janhq/searxng-tools/internal/interfaces/httpserver/responses"
	"github.com/janhq/searxng-tools/utils/platformerrors"
)

const RequestIDHeader = "X-Request-Id"

// RequestID propagates or assigns a request id and stores it in the request
// context for error reporting.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Request = c.Request.WithContext(platformerrors.WithRequestID(c.Request.Context(), requestID))
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}

// Recovery turns panics into a JSON 500.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().
			Interface("panic", recovered).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:     "internal server error",
			RequestID: platformerrors.RequestIDFromContext(c.Request.Context()),
		})
	})
}

// RequestLogger logs HTTP requests
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("client_ip", c.ClientIP()).
			Msg("incoming request")

		c.Next()

		requestID := platformerrors.RequestIDFromContext(c.Request.Context())
		for _, e := range c.Errors {
			var platformErr *platformerrors.PlatformError
			if errors.As(e.Err, &platformErr) {
				platformerrors.LogError(log.Logger, platformErr)
				continue
			}
			log.Error().
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Str("request_id", requestID).
				Int("status", c.Writer.Status()).
				Err(e.Err).
				Msg("request error")
		}

		logEvent := log.Info()
		if c.Writer.Status() >= 400 {
			logEvent = log.Warn()
		}
		logEvent.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("request_id", requestID).
			Int("status", c.Writer.Status()).
			Msg("request completed")
	}
}

// CORS adds CORS headers
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id, Mcp-Session-Id, mcp-protocol-version")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-Id")
		c.Writer.Header().Set("Access-Control-Max-Age", "3600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// MetricsRecorder records HTTP request metrics for Prometheus
func MetricsRecorder() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Skip metrics for health/readiness/metrics endpoints
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		if path == "/healthz" || path == "/readyz" || path == "/metrics" || path == "/health" {
			return
		}

		metrics.RecordRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()))
	}
}
