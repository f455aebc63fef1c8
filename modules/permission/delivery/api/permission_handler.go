package api

import (
	"go-rbac-api/common"
	"go-rbac-api/domain"
	"go-rbac-api/middleware"
	"go-rbac-api/validator"

	"github.com/gin-gonic/gin"
)

type PermissionHandler struct {
	usecase     domain.PermissionUsecase
	middlewares middleware.Middlewares
}

func NewPermissionHandler(usecase domain.PermissionUsecase, middlewares middleware.Middlewares) *PermissionHandler {
	return &PermissionHandler{
		usecase:     usecase,
		middlewares: middlewares,
	}
}

func (h *PermissionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	mw := h.middlewares
	perms := rg.Group("/permissions")

	perms.GET("", mw.Gate(mw.Authenticate(), mw.RequirePermission(domain.PermPermissionList)), h.List)
	perms.GET("/:name", mw.Gate(mw.Authenticate(), mw.RequirePermission(domain.PermPermissionRead)), h.Get)
}

func (h *PermissionHandler) List(c *gin.Context) {
	var filter domain.PermissionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		common.ResponseBadRequest(c, validator.DefaultValidator().Translate(err))
		return
	}

	perms, err := h.usecase.FindAll(c.Request.Context(), &filter)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, perms)
}

func (h *PermissionHandler) Get(c *gin.Context) {
	perm, err := h.usecase.FindByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, perm)
}
