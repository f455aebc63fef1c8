package api

import (
	"go-rbac-api/common"
	"go-rbac-api/domain"
	"go-rbac-api/middleware"
	"go-rbac-api/validator"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	usecase     domain.UserUsecase
	middlewares middleware.Middlewares
}

func NewUserHandler(usecase domain.UserUsecase, middlewares middleware.Middlewares) *UserHandler {
	return &UserHandler{
		usecase:     usecase,
		middlewares: middlewares,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	mw := h.middlewares
	user := rg.Group("/users")

	user.GET("", mw.Gate(
		mw.Authenticate(),
		mw.RequirePermission(domain.PermUserList),
	), h.List)

	user.GET("/:id", mw.Gate(
		mw.Authenticate(),
		mw.OwnershipOrPermission("id", domain.PermUserRead),
	), h.GetByID)

	user.DELETE("/:id", mw.Gate(
		mw.Authenticate(),
		mw.RequireAnyRole(domain.RoleSuperAdmin, domain.RoleAdmin),
		mw.RequirePermission(domain.PermUserDelete),
	), h.Delete)
}

func (h *UserHandler) List(c *gin.Context) {
	var req domain.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		common.ResponseBadRequest(c, validator.DefaultValidator().Translate(err))
		return
	}

	resp, err := h.usecase.FindPage(c.Request.Context(), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, resp)
}

func (h *UserHandler) GetByID(c *gin.Context) {
	user, err := h.usecase.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	user, err := h.usecase.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, user)
}
