package middleware

import (
	"time"

	"geolog/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	keyRequestID    = "request_id"
)

// RequestLogger assigns a request id, attaches a request-scoped logger to
// the request context and writes one access log line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(keyRequestID, id)
		c.Header(RequestIDHeader, id)

		l := logging.Logger().With().Str("request_id", id).Logger()
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), l))

		c.Next()

		status := c.Writer.Status()
		ev := l.Info()
		switch {
		case status >= 500:
			ev = l.Error()
		case status >= 400:
			ev = l.Warn()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Str("user", GetUserID(c)).
			Msg("request")
	}
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(keyRequestID)
}
