package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-rbac-api/common"
	"go-rbac-api/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)
	mw := NewMiddlewares(Dependencies{Logger: log.FromZap(zap.New(core))})

	r := gin.New()
	r.Use(mw.RequestIDMiddleware(), mw.LoggingMiddleware("/health"))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/health", "/users/42"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set(common.RequestIDHeader, "req-7")
		req.Header.Set("X-Forwarded-For", "203.0.113.9")
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	require.Equal(t, 1, logs.Len(), "skipped paths are not logged")
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)

	fields := entry.ContextMap()
	assert.Equal(t, "/users/42", fields["path"])
	assert.Equal(t, "/users/:id", fields["route"])
	assert.EqualValues(t, http.StatusNotFound, fields["status_code"])
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Equal(t, "203.0.113.9", fields["client_ip"])
}
