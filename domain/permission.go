package domain

import (
	"context"
	"net/http"
	"strings"
)

/**********************************
*        Permission errors        *
**********************************/
var (
	ErrPermissionNotFound = newError("PERMISSION_NOT_FOUND", http.StatusNotFound, "Permission not found")
	ErrUnknownPermission  = newError("UNKNOWN_PERMISSION", http.StatusBadRequest, "Unknown permission name")
)

/*********************************************
*       Permission entities and types       *
*********************************************/

// PermissionName follows the resource:action convention.
type PermissionName string

const (
	PermUserCreate PermissionName = "user:create"
	PermUserRead   PermissionName = "user:read"
	PermUserUpdate PermissionName = "user:update"
	PermUserDelete PermissionName = "user:delete"
	PermUserList   PermissionName = "user:list"

	PermRoleCreate PermissionName = "role:create"
	PermRoleRead   PermissionName = "role:read"
	PermRoleUpdate PermissionName = "role:update"
	PermRoleDelete PermissionName = "role:delete"
	PermRoleList   PermissionName = "role:list"
	PermRoleAssign PermissionName = "role:assign"

	PermPermissionCreate PermissionName = "permission:create"
	PermPermissionRead   PermissionName = "permission:read"
	PermPermissionUpdate PermissionName = "permission:update"
	PermPermissionDelete PermissionName = "permission:delete"
	PermPermissionList   PermissionName = "permission:list"
	PermPermissionAssign PermissionName = "permission:assign"

	PermSelfRead   PermissionName = "self:read"
	PermSelfUpdate PermissionName = "self:update"
	PermSelfDelete PermissionName = "self:delete"
)

// AllPermissions is the fixed catalog seeded at startup.
var AllPermissions = []PermissionName{
	PermUserCreate, PermUserRead, PermUserUpdate, PermUserDelete, PermUserList,
	PermRoleCreate, PermRoleRead, PermRoleUpdate, PermRoleDelete, PermRoleList, PermRoleAssign,
	PermPermissionCreate, PermPermissionRead, PermPermissionUpdate, PermPermissionDelete, PermPermissionList, PermPermissionAssign,
	PermSelfRead, PermSelfUpdate, PermSelfDelete,
}

var knownPermissions = func() map[PermissionName]struct{} {
	m := make(map[PermissionName]struct{}, len(AllPermissions))
	for _, p := range AllPermissions {
		m[p] = struct{}{}
	}
	return m
}()

func (p PermissionName) String() string {
	return string(p)
}

func (p PermissionName) IsValid() bool {
	_, ok := knownPermissions[p]
	return ok
}

func (p PermissionName) Resource() string {
	resource, _, _ := strings.Cut(string(p), ":")
	return resource
}

func (p PermissionName) Action() string {
	_, action, _ := strings.Cut(string(p), ":")
	return action
}

func ParsePermissionName(s string) (PermissionName, error) {
	p := PermissionName(strings.TrimSpace(s))
	if !p.IsValid() {
		return "", ErrUnknownPermission.WithReasonf("permission %q is not defined", s)
	}
	return p, nil
}

func ParsePermissionNames(names []string) ([]PermissionName, error) {
	out := make([]PermissionName, 0, len(names))
	for _, n := range names {
		p, err := ParsePermissionName(n)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func PermissionNamesToStrings(perms []PermissionName) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}

// DefaultRolePermissions is the seeded role to permission matrix.
var DefaultRolePermissions = map[RoleName][]PermissionName{
	RoleSuperAdmin: AllPermissions,
	RoleAdmin: {
		PermUserCreate, PermUserRead, PermUserUpdate, PermUserDelete, PermUserList,
		PermSelfRead, PermSelfUpdate,
	},
	RoleManager: {
		PermUserRead, PermUserUpdate, PermUserList,
		PermSelfRead, PermSelfUpdate,
	},
	RoleUser: {
		PermSelfRead, PermSelfUpdate,
	},
	RoleGuest: {
		PermSelfRead,
	},
}

var DefaultRoleDescriptions = map[RoleName]string{
	RoleSuperAdmin: "Full access to every resource, role and permission",
	RoleAdmin:      "Manages user accounts",
	RoleManager:    "Reads and updates user accounts",
	RoleUser:       "Manages own profile",
	RoleGuest:      "Reads own profile",
}

type Permission struct {
	SQLModel    `bson:",inline"`
	Name        string `json:"name" bson:"name" gorm:"type:varchar(64);not null;uniqueIndex"`
	Resource    string `json:"resource" bson:"resource" gorm:"type:varchar(32);not null"`
	Action      string `json:"action" bson:"action" gorm:"type:varchar(32);not null"`
	Description string `json:"description" bson:"description" gorm:"type:varchar(255)"`
	Active      bool   `json:"active" bson:"active" gorm:"not null;default:true"`
}

// NewPermission builds the catalog entry for a permission name.
func NewPermission(name PermissionName) *Permission {
	return &Permission{
		Name:        string(name),
		Resource:    name.Resource(),
		Action:      name.Action(),
		Description: describePermission(name),
		Active:      true,
	}
}

func describePermission(name PermissionName) string {
	resource := name.Resource()
	if resource == "self" {
		return strings.ToUpper(name.Action()[:1]) + name.Action()[1:] + " own profile"
	}
	return strings.ToUpper(name.Action()[:1]) + name.Action()[1:] + " " + resource + "s"
}

type PermissionFilter struct {
	Name     *string `json:"name" form:"name"`
	Resource *string `json:"resource" form:"resource"`
}

type PermissionUsecase interface {
	FindAll(ctx context.Context, filter *PermissionFilter) ([]*Permission, error)
	FindByName(ctx context.Context, name string) (*Permission, error)
}
