package server

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/devspell/cli/internal/output"
)

// Headers read or written by the API.
const (
	HeaderRequestID    = "X-Request-Id"
	HeaderUserID       = "X-User-ID"
	HeaderDiagnostics  = "X-Devspell-Diagnostics"
	HeaderPlaceholders = "X-Devspell-Placeholders"
)

type requestIDKey struct{}

// RequestIDMiddleware keeps the caller's X-Request-Id or assigns a new one,
// echoes it back and logs each request.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if rid == "" {
			rid = uuid.NewString()
		}

		c.Set("request_id", rid)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), requestIDKey{}, rid))
		c.Writer.Header().Set(HeaderRequestID, rid)

		start := time.Now()
		c.Next()

		output.Debug("request",
			"id", rid,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// GetRequestID extracts the request ID from a request context.
func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}
