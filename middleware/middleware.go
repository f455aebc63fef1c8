package middleware

import (
	"go-rbac-api/domain"
	"go-rbac-api/pkg/log"
	"go-rbac-api/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Middlewares defines all available middleware methods
type Middlewares interface {
	// Logging middlewares
	LoggingMiddleware(skipPaths ...string) gin.HandlerFunc
	RequestIDMiddleware() gin.HandlerFunc
	Recovery() gin.HandlerFunc

	// CORS and security headers
	CORS(config CORSConfig) gin.HandlerFunc
	SecureHeaders(config SecureConfig) gin.HandlerFunc

	// Metrics
	HTTPMetrics() gin.HandlerFunc

	// Guards, combined with Gate
	Authenticate() Guard
	RequirePermission(permission domain.PermissionName) Guard
	RequireAnyPermission(permissions ...domain.PermissionName) Guard
	RequireAllPermissions(permissions ...domain.PermissionName) Guard
	RequireRole(role domain.RoleName) Guard
	RequireAnyRole(roles ...domain.RoleName) Guard
	OwnershipOrAdmin(param string) Guard
	OwnershipOrPermission(param string, permission domain.PermissionName) Guard
	Gate(guards ...Guard) gin.HandlerFunc
}

// Dependencies holds all dependencies needed by middlewares
type Dependencies struct {
	Logger      log.Logger
	Metrics     *metrics.Metrics
	JwtProvider JwtProvider
	UserRepo    UserRepository
	Authorizer  domain.Authorizer
}

// NewMiddlewares creates a new instance of middlewares with dependencies
func NewMiddlewares(deps Dependencies) Middlewares {
	return &middlewares{
		logger:      deps.Logger,
		metrics:     deps.Metrics,
		jwtProvider: deps.JwtProvider,
		userRepo:    deps.UserRepo,
		authorizer:  deps.Authorizer,
	}
}

// middlewares is the concrete implementation of Middlewares interface
type middlewares struct {
	logger      log.Logger
	metrics     *metrics.Metrics
	jwtProvider JwtProvider
	userRepo    UserRepository
	authorizer  domain.Authorizer
}
