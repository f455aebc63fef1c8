package domain

import (
	"context"
	"net/http"
	"strings"
)

var ErrInsufficientPermissions = newError("INSUFFICIENT_PERMISSIONS", http.StatusForbidden, "Insufficient permissions")

// DenyReason is the fixed taxonomy of authorization denials.
type DenyReason string

const (
	ReasonNone                    DenyReason = ""
	ReasonNoRolesAssigned         DenyReason = "No roles assigned"
	ReasonRoleNotFound            DenyReason = "Role not found"
	ReasonInsufficientPermissions DenyReason = "Insufficient permissions"
)

// PermissionCheckResult is the outcome of every authorization decision.
type PermissionCheckResult struct {
	Granted  bool       `json:"granted"`
	Reason   DenyReason `json:"reason,omitempty"`
	Required []string   `json:"required,omitempty"`
}

func Granted() PermissionCheckResult {
	return PermissionCheckResult{Granted: true}
}

func Denied(reason DenyReason, required ...string) PermissionCheckResult {
	return PermissionCheckResult{Granted: false, Reason: reason, Required: required}
}

// Message renders the denial for the response envelope.
func (r PermissionCheckResult) Message() string {
	if r.Granted {
		return ""
	}
	if len(r.Required) == 0 {
		return string(r.Reason)
	}
	return string(r.Reason) + ": requires " + strings.Join(r.Required, ", ")
}

// Err converts a denial into a forbidden error carrying the reason.
func (r PermissionCheckResult) Err() *DetailedError {
	if r.Granted {
		return nil
	}
	return ErrInsufficientPermissions.WithError(r.Message()).WithReason(string(r.Reason))
}

// Authorizer decides whether a set of held role names satisfies a requirement.
// Implementations never return errors from decisions; store failures deny.
type Authorizer interface {
	HasPermission(ctx context.Context, roles []string, permission PermissionName) PermissionCheckResult
	HasAnyPermission(ctx context.Context, roles []string, permissions ...PermissionName) PermissionCheckResult
	HasAllPermissions(ctx context.Context, roles []string, permissions ...PermissionName) PermissionCheckResult
	HasRole(roles []string, role RoleName) PermissionCheckResult
	HasAnyRole(roles []string, required ...RoleName) PermissionCheckResult
	IsOwner(callerID, resourceOwnerID string) PermissionCheckResult
	GetUserPermissions(ctx context.Context, roles []string) ([]string, error)
}
