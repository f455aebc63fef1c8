package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"go-rbac-api/common"
	"go-rbac-api/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type CORSConfig struct {
	AllowOrigins  []string
	AllowMethods  []string
	AllowHeaders  []string
	ExposeHeaders []string
	// AllowCredentials lets browsers send the refresh cookie cross-origin.
	AllowCredentials bool
	MaxAge           int
}

// NewCORSConfig allows the given origins to call the API. Credentials are
// only allowed for an explicit origin list, never with a wildcard.
func NewCORSConfig(origins []string) CORSConfig {
	origins = lo.Compact(origins)
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
			common.RequestIDHeader,
		},
		ExposeHeaders:    []string{common.RequestIDHeader},
		AllowCredentials: !lo.Contains(origins, "*"),
		MaxAge:           86400,
	}
}

func (c CORSConfig) allowedOrigin(origin string) (string, bool) {
	if lo.Contains(c.AllowOrigins, "*") {
		return "*", true
	}
	if origin != "" && lo.Contains(c.AllowOrigins, origin) {
		return origin, true
	}
	return "", false
}

// CORS answers preflight requests and decorates responses for allowed origins.
// Requests from other origins pass through without CORS headers, so browsers block them.
func (m *middlewares) CORS(config CORSConfig) gin.HandlerFunc {
	methods := strings.Join(config.AllowMethods, ", ")
	headers := strings.Join(config.AllowHeaders, ", ")
	expose := strings.Join(config.ExposeHeaders, ", ")
	maxAge := strconv.Itoa(config.MaxAge)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed, ok := config.allowedOrigin(origin)
		switch {
		case ok:
			c.Header("Access-Control-Allow-Origin", allowed)
			if allowed != "*" {
				c.Header("Vary", "Origin")
			}
			c.Header("Access-Control-Allow-Methods", methods)
			c.Header("Access-Control-Allow-Headers", headers)
			c.Header("Access-Control-Expose-Headers", expose)
			if config.AllowCredentials {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
			if config.MaxAge > 0 {
				c.Header("Access-Control-Max-Age", maxAge)
			}
		case origin != "":
			m.logger.DebugContext(c.Request.Context(), "CORS origin rejected",
				log.String("origin", origin),
				log.String("path", c.Request.URL.Path),
			)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
