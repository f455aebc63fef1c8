package middleware

import (
	"context"
	"strings"

	"go-rbac-api/common"
	"go-rbac-api/domain"
	"go-rbac-api/pkg/log"

	"github.com/gin-gonic/gin"
)

// RequestContext is the part of a request a guard may look at.
// *gin.Context satisfies it.
type RequestContext interface {
	context.Context
	GetHeader(key string) string
	Param(key string) string
	Set(key string, value any)
	Get(key string) (any, bool)
}

var _ RequestContext = (*gin.Context)(nil)

// Decision is the outcome of a single guard. Err is set when Allowed is false.
type Decision struct {
	Allowed bool
	Err     *domain.DetailedError
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(err *domain.DetailedError) Decision {
	if err == nil {
		err = domain.ErrForbidden.WithReason("access denied")
	}
	return Decision{Err: err}
}

func fromResult(r domain.PermissionCheckResult) Decision {
	if r.Granted {
		return Allow()
	}
	return Deny(r.Err())
}

// Guard is one step of a protected route's access check.
type Guard interface {
	Name() string
	Check(ctx RequestContext) Decision
}

// Gate runs guards in order and stops at the first denial.
// Authenticate must come first since the others read the identity it attaches.
func (m *middlewares) Gate(guards ...Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, guard := range guards {
			decision := guard.Check(c)
			m.metrics.ObserveGuard(guard.Name(), decision.Allowed)
			if !decision.Allowed {
				if decision.Err == nil {
					decision = Deny(nil)
				}
				common.ResponseError(c, decision.Err)
				return
			}
		}

		if user := common.GetUserFromCtx(c); user != nil {
			c.Request = c.Request.WithContext(log.WithUserID(c.Request.Context(), user.ID))
		}
		c.Next()
	}
}

var errNoIdentity = domain.ErrUnauthorized.WithReason("no authenticated user on request")

/********************************
*         Authenticate          *
********************************/

// AuthenticateGuard resolves the bearer access token to a live user and attaches it.
type AuthenticateGuard struct {
	Tokens JwtProvider
	Users  UserRepository
}

func (m *middlewares) Authenticate() Guard {
	return &AuthenticateGuard{Tokens: m.jwtProvider, Users: m.userRepo}
}

func (g *AuthenticateGuard) Name() string { return "authenticate" }

func (g *AuthenticateGuard) Check(ctx RequestContext) Decision {
	token := common.BearerToken(ctx.GetHeader("Authorization"))
	if token == "" {
		return Deny(domain.ErrUnauthorized.WithReason("missing bearer token"))
	}

	claims, err := g.Tokens.Verify(domain.TokenTypeAccess, token)
	if err != nil {
		if de, ok := common.IsDetailError(err); ok && de.ID() == domain.ErrConfiguration.ID() {
			return Deny(de)
		}
		return Deny(domain.ErrUnauthorized.WithReason("invalid or expired token").WithWrap(err))
	}

	user, err := g.Users.FindByID(ctx, claims.Subject)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return Deny(domain.ErrUnauthorized.WithReason("user no longer exists"))
		}
		return Deny(domain.ErrInternalServerError.WithWrap(err))
	}

	ctx.Set(common.UserContextKey, user.Sanitize())
	return Allow()
}

/********************************
*      Permission guards        *
********************************/

type RequirePermissionGuard struct {
	Authorizer domain.Authorizer
	Permission domain.PermissionName
}

func (m *middlewares) RequirePermission(permission domain.PermissionName) Guard {
	return &RequirePermissionGuard{Authorizer: m.authorizer, Permission: permission}
}

func (g *RequirePermissionGuard) Name() string { return "permission:" + string(g.Permission) }

func (g *RequirePermissionGuard) Check(ctx RequestContext) Decision {
	user := common.GetUserFromCtx(ctx)
	if user == nil {
		return Deny(errNoIdentity)
	}
	return fromResult(g.Authorizer.HasPermission(ctx, user.Roles, g.Permission))
}

type RequireAnyPermissionGuard struct {
	Authorizer  domain.Authorizer
	Permissions []domain.PermissionName
}

func (m *middlewares) RequireAnyPermission(permissions ...domain.PermissionName) Guard {
	return &RequireAnyPermissionGuard{Authorizer: m.authorizer, Permissions: permissions}
}

func (g *RequireAnyPermissionGuard) Name() string {
	return "any_permission:" + strings.Join(domain.PermissionNamesToStrings(g.Permissions), ",")
}

func (g *RequireAnyPermissionGuard) Check(ctx RequestContext) Decision {
	user := common.GetUserFromCtx(ctx)
	if user == nil {
		return Deny(errNoIdentity)
	}
	return fromResult(g.Authorizer.HasAnyPermission(ctx, user.Roles, g.Permissions...))
}

type RequireAllPermissionsGuard struct {
	Authorizer  domain.Authorizer
	Permissions []domain.PermissionName
}

func (m *middlewares) RequireAllPermissions(permissions ...domain.PermissionName) Guard {
	return &RequireAllPermissionsGuard{Authorizer: m.authorizer, Permissions: permissions}
}

func (g *RequireAllPermissionsGuard) Name() string {
	return "all_permissions:" + strings.Join(domain.PermissionNamesToStrings(g.Permissions), ",")
}

func (g *RequireAllPermissionsGuard) Check(ctx RequestContext) Decision {
	user := common.GetUserFromCtx(ctx)
	if user == nil {
		return Deny(errNoIdentity)
	}
	return fromResult(g.Authorizer.HasAllPermissions(ctx, user.Roles, g.Permissions...))
}

/********************************
*          Role guards          *
********************************/

type RequireRoleGuard struct {
	Authorizer domain.Authorizer
	Role       domain.RoleName
}

func (m *middlewares) RequireRole(role domain.RoleName) Guard {
	return &RequireRoleGuard{Authorizer: m.authorizer, Role: role}
}

func (g *RequireRoleGuard) Name() string { return "role:" + string(g.Role) }

func (g *RequireRoleGuard) Check(ctx RequestContext) Decision {
	user := common.GetUserFromCtx(ctx)
	if user == nil {
		return Deny(errNoIdentity)
	}
	return fromResult(g.Authorizer.HasRole(user.Roles, g.Role))
}

type RequireAnyRoleGuard struct {
	Authorizer domain.Authorizer
	Roles      []domain.RoleName
}

func (m *middlewares) RequireAnyRole(roles ...domain.RoleName) Guard {
	return &RequireAnyRoleGuard{Authorizer: m.authorizer, Roles: roles}
}

func (g *RequireAnyRoleGuard) Name() string {
	return "any_role:" + strings.Join(domain.RoleNamesToStrings(g.Roles), ",")
}

func (g *RequireAnyRoleGuard) Check(ctx RequestContext) Decision {
	user := common.GetUserFromCtx(ctx)
	if user == nil {
		return Deny(errNoIdentity)
	}
	return fromResult(g.Authorizer.HasAnyRole(user.Roles, g.Roles...))
}

/********************************
*       Ownership guards        *
********************************/

// ElevatedRoles may act on resources owned by others.
var ElevatedRoles = []domain.RoleName{domain.RoleSuperAdmin, domain.RoleAdmin}

// OwnershipOrAdminGuard passes when the path parameter names the caller, or the caller is elevated.
type OwnershipOrAdminGuard struct {
	Authorizer domain.Authorizer
	Param      string
}

func (m *middlewares) OwnershipOrAdmin(param string) Guard {
	return &OwnershipOrAdminGuard{Authorizer: m.authorizer, Param: param}
}

func (g *OwnershipOrAdminGuard) Name() string { return "owner_or_admin:" + g.Param }

func (g *OwnershipOrAdminGuard) Check(ctx RequestContext) Decision {
	user := common.GetUserFromCtx(ctx)
	if user == nil {
		return Deny(errNoIdentity)
	}
	if g.Authorizer.IsOwner(user.ID, ctx.Param(g.Param)).Granted {
		return Allow()
	}
	return fromResult(g.Authorizer.HasAnyRole(user.Roles, ElevatedRoles...))
}

// OwnershipOrPermissionGuard passes when the path parameter names the caller, or the caller holds Permission.
type OwnershipOrPermissionGuard struct {
	Authorizer domain.Authorizer
	Param      string
	Permission domain.PermissionName
}

func (m *middlewares) OwnershipOrPermission(param string, permission domain.PermissionName) Guard {
	return &OwnershipOrPermissionGuard{Authorizer: m.authorizer, Param: param, Permission: permission}
}

func (g *OwnershipOrPermissionGuard) Name() string {
	return "owner_or_permission:" + g.Param + ":" + string(g.Permission)
}

func (g *OwnershipOrPermissionGuard) Check(ctx RequestContext) Decision {
	user := common.GetUserFromCtx(ctx)
	if user == nil {
		return Deny(errNoIdentity)
	}
	if g.Authorizer.IsOwner(user.ID, ctx.Param(g.Param)).Granted {
		return Allow()
	}
	return fromResult(g.Authorizer.HasPermission(ctx, user.Roles, g.Permission))
}
