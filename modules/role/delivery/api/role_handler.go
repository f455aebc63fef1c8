package api

import (
	"context"

	"go-rbac-api/common"
	"go-rbac-api/domain"
	"go-rbac-api/middleware"
	"go-rbac-api/validator"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	usecase     domain.RoleUsecase
	middlewares middleware.Middlewares
}

func NewRoleHandler(usecase domain.RoleUsecase, middlewares middleware.Middlewares) *RoleHandler {
	return &RoleHandler{
		usecase:     usecase,
		middlewares: middlewares,
	}
}

func (h *RoleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	mw := h.middlewares
	roles := rg.Group("/roles")

	roles.GET("", mw.Gate(mw.Authenticate(), mw.RequirePermission(domain.PermRoleList)), h.List)
	roles.GET("/:name", mw.Gate(mw.Authenticate(), mw.RequirePermission(domain.PermRoleRead)), h.Get)

	// Mutations are reserved to super admins holding the matching permission
	superAdmin := func(permission domain.PermissionName) gin.HandlerFunc {
		return mw.Gate(
			mw.Authenticate(),
			mw.RequireRole(domain.RoleSuperAdmin),
			mw.RequirePermission(permission),
		)
	}
	roles.POST("", superAdmin(domain.PermRoleCreate), h.Create)
	roles.PUT("/:name/permissions", superAdmin(domain.PermPermissionAssign), h.ReplacePermissions)
	roles.POST("/:name/permissions/add", superAdmin(domain.PermPermissionAssign), h.AddPermissions)
	roles.POST("/:name/permissions/remove", superAdmin(domain.PermPermissionAssign), h.RemovePermissions)
	roles.DELETE("/:name", superAdmin(domain.PermRoleDelete), h.Delete)
}

func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.usecase.FindAll(c.Request.Context())
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, roles)
}

func (h *RoleHandler) Get(c *gin.Context) {
	role, err := h.usecase.FindByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, role)
}

func (h *RoleHandler) Create(c *gin.Context) {
	var req domain.RoleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, validator.DefaultValidator().Translate(err))
		return
	}

	role, err := h.usecase.Create(c.Request.Context(), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseCreated(c, role)
}

func (h *RoleHandler) ReplacePermissions(c *gin.Context) {
	h.editPermissions(c, h.usecase.ReplacePermissions)
}

func (h *RoleHandler) AddPermissions(c *gin.Context) {
	h.editPermissions(c, h.usecase.AddPermissions)
}

func (h *RoleHandler) RemovePermissions(c *gin.Context) {
	h.editPermissions(c, h.usecase.RemovePermissions)
}

func (h *RoleHandler) editPermissions(c *gin.Context, edit func(ctx context.Context, name string, req *domain.RolePermissionsRequest) (*domain.Role, error)) {
	var req domain.RolePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, validator.DefaultValidator().Translate(err))
		return
	}

	role, err := edit(c.Request.Context(), c.Param("name"), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, role)
}

func (h *RoleHandler) Delete(c *gin.Context) {
	name := c.Param("name")
	if err := h.usecase.Delete(c.Request.Context(), name); err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, common.MessageResponse{Message: "Role " + name + " deleted"})
}
