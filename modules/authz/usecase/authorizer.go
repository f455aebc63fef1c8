package usecase

import (
	"context"

	"go-rbac-api/domain"
	"go-rbac-api/pkg/log"

	"github.com/samber/lo"
)

type RolePermissionStore interface {
	GetPermissionsForRoles(ctx context.Context, roleNames []string) ([]string, error)
}

type authorizer struct {
	store  RolePermissionStore
	logger log.Logger
}

// NewAuthorizer builds the decision engine. Every decision re-reads the store
// so a revoked permission applies to the very next request.
func NewAuthorizer(store RolePermissionStore, logger log.Logger) domain.Authorizer {
	return &authorizer{store: store, logger: logger}
}

// resolve returns the permission set of roles, or a denial when it cannot.
func (a *authorizer) resolve(ctx context.Context, roles []string, required []string) ([]string, *domain.PermissionCheckResult) {
	if len(roles) == 0 {
		denied := domain.Denied(domain.ReasonNoRolesAssigned, required...)
		return nil, &denied
	}
	perms, err := a.store.GetPermissionsForRoles(ctx, roles)
	if err != nil {
		a.logger.WarnContext(ctx, "Permission lookup failed, denying",
			log.Any("roles", roles),
			log.Error(err))
		denied := domain.Denied(domain.ReasonInsufficientPermissions, required...)
		return nil, &denied
	}
	return perms, nil
}

func (a *authorizer) HasPermission(ctx context.Context, roles []string, permission domain.PermissionName) domain.PermissionCheckResult {
	return a.HasAllPermissions(ctx, roles, permission)
}

func (a *authorizer) HasAnyPermission(ctx context.Context, roles []string, permissions ...domain.PermissionName) domain.PermissionCheckResult {
	required := domain.PermissionNamesToStrings(permissions)
	perms, denied := a.resolve(ctx, roles, required)
	if denied != nil {
		return *denied
	}
	if len(required) > 0 && lo.Some(perms, required) {
		return domain.Granted()
	}
	return domain.Denied(domain.ReasonInsufficientPermissions, required...)
}

func (a *authorizer) HasAllPermissions(ctx context.Context, roles []string, permissions ...domain.PermissionName) domain.PermissionCheckResult {
	required := domain.PermissionNamesToStrings(permissions)
	perms, denied := a.resolve(ctx, roles, required)
	if denied != nil {
		return *denied
	}
	// An empty requirement is a misconfigured guard, not a free pass.
	if len(required) > 0 && lo.Every(perms, required) {
		return domain.Granted()
	}
	return domain.Denied(domain.ReasonInsufficientPermissions, required...)
}

func (a *authorizer) HasRole(roles []string, role domain.RoleName) domain.PermissionCheckResult {
	return a.HasAnyRole(roles, role)
}

func (a *authorizer) HasAnyRole(roles []string, required ...domain.RoleName) domain.PermissionCheckResult {
	names := domain.RoleNamesToStrings(required)
	if len(roles) == 0 {
		return domain.Denied(domain.ReasonNoRolesAssigned, names...)
	}
	if len(names) > 0 && lo.Some(roles, names) {
		return domain.Granted()
	}
	return domain.Denied(domain.ReasonRoleNotFound, names...)
}

func (a *authorizer) IsOwner(callerID, resourceOwnerID string) domain.PermissionCheckResult {
	if callerID != "" && callerID == resourceOwnerID {
		return domain.Granted()
	}
	return domain.Denied(domain.ReasonInsufficientPermissions)
}

func (a *authorizer) GetUserPermissions(ctx context.Context, roles []string) ([]string, error) {
	if len(roles) == 0 {
		return []string{}, nil
	}
	perms, err := a.store.GetPermissionsForRoles(ctx, roles)
	if err != nil {
		return nil, err
	}
	if perms == nil {
		perms = []string{}
	}
	return perms, nil
}
