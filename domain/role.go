package domain

import (
	"context"
	"net/http"
	"strings"

	"github.com/samber/lo"
)

/****************************
*        Role errors        *
****************************/
var (
	ErrRoleNotFound      = newError("ROLE_NOT_FOUND", http.StatusNotFound, "Role not found")
	ErrRoleAlreadyExists = newError("ROLE_ALREADY_EXISTS", http.StatusBadRequest, "Role with this name already exists")
	ErrUnknownRole       = newError("UNKNOWN_ROLE", http.StatusBadRequest, "Unknown role name")
)

/***************************************
*       Role entities and types       *
***************************************/

// RoleName is the closed set of access tiers. Storage keeps plain strings,
// ParseRoleName is the only way back into the enum.
type RoleName string

const (
	RoleSuperAdmin RoleName = "super_admin"
	RoleAdmin      RoleName = "admin"
	RoleManager    RoleName = "manager"
	RoleUser       RoleName = "user"
	RoleGuest      RoleName = "guest"
)

// AllRoleNames lists the catalog in descending privilege order.
var AllRoleNames = []RoleName{
	RoleSuperAdmin,
	RoleAdmin,
	RoleManager,
	RoleUser,
	RoleGuest,
}

func (r RoleName) String() string {
	return string(r)
}

func (r RoleName) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleManager, RoleUser, RoleGuest:
		return true
	default:
		return false
	}
}

func ParseRoleName(s string) (RoleName, error) {
	r := RoleName(strings.TrimSpace(s))
	if !r.IsValid() {
		return "", ErrUnknownRole.WithReasonf("role %q is not defined", s)
	}
	return r, nil
}

// ParseRoleNames decodes every entry and fails on the first unknown one.
func ParseRoleNames(names []string) ([]RoleName, error) {
	out := make([]RoleName, 0, len(names))
	for _, n := range names {
		r, err := ParseRoleName(n)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func RoleNamesToStrings(roles []RoleName) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

// Role owns a set of permission names. Deleting a role only flips Active.
type Role struct {
	SQLModel    `bson:",inline"`
	Name        string      `json:"name" bson:"name" gorm:"type:varchar(50);not null;index:idx_roles_active_name,unique,where:active = true"`
	Description string      `json:"description" bson:"description" gorm:"type:varchar(255)"`
	Permissions StringSlice `json:"permissions" bson:"permissions" gorm:"type:jsonb;not null"`
	Active      bool        `json:"active" bson:"active" gorm:"not null;default:true"`
}

// ReplacedPermissions returns perms without duplicates, keeping first-seen order.
func ReplacedPermissions(perms []string) StringSlice {
	return StringSlice(lo.Uniq(perms))
}

// AddedPermissions is the set union of current and perms.
func AddedPermissions(current, perms []string) StringSlice {
	return StringSlice(lo.Union(current, perms))
}

// RemovedPermissions is current minus perms. Names not present are ignored.
func RemovedPermissions(current, perms []string) StringSlice {
	out := lo.Without(current, perms...)
	if out == nil {
		out = []string{}
	}
	return StringSlice(out)
}

type RoleFilter struct {
	Name   *string  `json:"name" form:"name"`
	NameIn []string `json:"name_in" form:"name_in"`
	Active *bool    `json:"active" form:"active"`
	// AnyState matches active and deactivated rows alike and overrides Active.
	AnyState bool `json:"-" form:"-"`
}

/**********************************************
*       Role usecase interfaces and types      *
**********************************************/
type RoleUsecase interface {
	FindAll(ctx context.Context) ([]*Role, error)
	FindByName(ctx context.Context, name string) (*Role, error)
	Create(ctx context.Context, req *RoleCreateRequest) (*Role, error)
	ReplacePermissions(ctx context.Context, name string, req *RolePermissionsRequest) (*Role, error)
	AddPermissions(ctx context.Context, name string, req *RolePermissionsRequest) (*Role, error)
	RemovePermissions(ctx context.Context, name string, req *RolePermissionsRequest) (*Role, error)
	Delete(ctx context.Context, name string) error
}

type RoleCreateRequest struct {
	Name        string   `json:"name" binding:"required,role_name"`
	Description string   `json:"description" binding:"max=255"`
	Permissions []string `json:"permissions" binding:"omitempty,dive,permission_name"`
}

type RolePermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required,dive,permission_name"`
}
