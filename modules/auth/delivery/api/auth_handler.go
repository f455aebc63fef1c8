package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"go-rbac-api/common"
	"go-rbac-api/domain"
	"go-rbac-api/middleware"
	"go-rbac-api/validator"

	"github.com/gin-gonic/gin"
)

// CookieConfig describes the httpOnly cookie carrying the refresh token.
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Path   string
	Secure bool
}

type AuthHandler struct {
	usecase     domain.AuthUsecase
	middlewares middleware.Middlewares
	cookie      CookieConfig
}

func NewAuthHandler(
	usecase domain.AuthUsecase,
	middlewares middleware.Middlewares,
	cookie CookieConfig,
) *AuthHandler {
	return &AuthHandler{
		usecase:     usecase,
		middlewares: middlewares,
		cookie:      cookie,
	}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")

	// Public routes
	auth.POST("/signup", h.SignUp)
	auth.POST("/signin", h.SignIn)
	auth.POST("/signout", h.SignOut)
	auth.POST("/refresh", h.Refresh)

	// Protected routes (authentication required)
	authenticated := h.middlewares.Gate(h.middlewares.Authenticate())
	auth.GET("/me", authenticated, h.Me)
	auth.GET("/me/permissions", authenticated, h.MyPermissions)
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, validator.DefaultValidator().Translate(err))
		return
	}

	user, err := h.usecase.Register(c.Request.Context(), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, user)
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, validator.DefaultValidator().Translate(err))
		return
	}

	resp, err := h.usecase.Authenticate(c.Request.Context(), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}

	h.setRefreshCookie(c, resp.RefreshToken, int(h.cookie.MaxAge.Seconds()))
	common.ResponseOK(c, resp)
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	token, ok := h.refreshTokenFromRequest(c)
	if !ok {
		return
	}

	if err := h.usecase.SignOut(c.Request.Context(), token); err != nil {
		common.ResponseError(c, err)
		return
	}

	h.setRefreshCookie(c, "", -1)
	common.ResponseOK(c, common.MessageResponse{Message: "Signed out successfully"})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	token, ok := h.refreshTokenFromRequest(c)
	if !ok {
		return
	}

	resp, err := h.usecase.RefreshToken(c.Request.Context(), token)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, resp)
}

func (h *AuthHandler) Me(c *gin.Context) {
	user := common.GetUserFromCtx(c)
	if user == nil {
		common.ResponseError(c, domain.ErrUnauthorized)
		return
	}
	common.ResponseOK(c, user)
}

func (h *AuthHandler) MyPermissions(c *gin.Context) {
	user := common.GetUserFromCtx(c)
	if user == nil {
		common.ResponseError(c, domain.ErrUnauthorized)
		return
	}

	perms, err := h.usecase.Permissions(c.Request.Context(), user)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, gin.H{"roles": user.Roles, "permissions": perms})
}

// refreshTokenFromRequest prefers the cookie and falls back to the JSON body.
// It writes the error response itself when the body cannot be decoded.
func (h *AuthHandler) refreshTokenFromRequest(c *gin.Context) (string, bool) {
	if token, err := c.Cookie(h.cookie.Name); err == nil && token != "" {
		return token, true
	}

	var req domain.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		common.ResponseBadRequest(c, validator.DefaultValidator().Translate(err))
		return "", false
	}
	return req.RefreshToken, true
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cookie.Name, value, maxAge, h.cookie.Path, "", h.cookie.Secure, true)
}
