package middleware

import (
	"io"
	"net/http"
	"time"

	"go-rbac-api/common"
	"go-rbac-api/domain"
	"go-rbac-api/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// LoggingMiddleware writes one access log entry per request once the handler
// chain has finished. Bodies are never logged since they carry passwords and tokens.
func (m *middlewares) LoggingMiddleware(skipPaths ...string) gin.HandlerFunc {
	skip := lo.Keyify(skipPaths)
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			return
		}

		status := c.Writer.Status()
		fields := []log.Field{
			log.String("method", c.Request.Method),
			log.String("path", path),
			log.String("route", c.FullPath()),
			log.Int("status_code", status),
			log.Duration("latency", time.Since(start)),
			log.String("user_agent", c.Request.UserAgent()),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			fields = append(fields, log.String("error", errs.String()))
		}

		// request, user and client ids come from the request context
		ctx := c.Request.Context()
		switch {
		case status >= http.StatusInternalServerError:
			m.logger.ErrorContext(ctx, "HTTP request", fields...)
		case status >= http.StatusBadRequest:
			m.logger.WarnContext(ctx, "HTTP request", fields...)
		default:
			m.logger.InfoContext(ctx, "HTTP request", fields...)
		}
	}
}

// RequestIDMiddleware keeps the caller's X-Request-ID or generates one, and
// attaches it and the client address to context-aware log calls.
func (m *middlewares) RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(common.RequestIDHeader)
		if requestID == "" || len(requestID) > 128 {
			requestID = common.GenerateUUID()
		}

		c.Header(common.RequestIDHeader, requestID)
		c.Set(common.RequestIDContextKey, requestID)
		ctx := log.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(log.WithClientIP(ctx, common.GetClientIP(c)))
		c.Next()
	}
}

// Recovery turns panics into a 500 envelope.
func (m *middlewares) Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		m.logger.ErrorContext(c.Request.Context(), "Panic recovered",
			log.Any("panic", recovered),
			log.String("path", c.Request.URL.Path))
		common.ResponseError(c, domain.ErrInternalServerError)
	})
}
