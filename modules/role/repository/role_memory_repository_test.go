package repository

import (
	"context"
	"testing"

	"go-rbac-api/common"
	"go-rbac-api/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRole(t *testing.T, repo *MemoryRoleRepository, name string, perms ...string) *domain.Role {
	t.Helper()
	role := &domain.Role{Name: name, Permissions: perms}
	require.NoError(t, repo.Create(context.Background(), role))
	return role
}

func TestMemoryRoleRepository_Create(t *testing.T) {
	repo := NewMemoryRoleRepository()
	ctx := context.Background()

	role := seedRole(t, repo, "manager")
	assert.NotEmpty(t, role.ID)
	assert.True(t, role.Active)
	assert.NotNil(t, role.Permissions)

	err := repo.Create(ctx, &domain.Role{Name: "manager"})
	assert.True(t, common.IsDuplicateKey(err))
}

func TestMemoryRoleRepository_FindReturnsCopies(t *testing.T) {
	repo := NewMemoryRoleRepository()
	ctx := context.Background()
	seedRole(t, repo, "user", "self:read")

	found, err := repo.FindByName(ctx, "user")
	require.NoError(t, err)
	found.Permissions[0] = "user:delete"

	again, err := repo.FindByName(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, domain.StringSlice{"self:read"}, again.Permissions)
}

func TestMemoryRoleRepository_PermissionEdits(t *testing.T) {
	repo := NewMemoryRoleRepository()
	ctx := context.Background()
	seedRole(t, repo, "manager", "self:read")

	role, err := repo.AddPermissions(ctx, "manager", []string{"user:list", "self:read"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"self:read", "user:list"}, role.Permissions)

	role, err = repo.AddPermissions(ctx, "manager", []string{"user:list", "self:read"})
	require.NoError(t, err)
	assert.Len(t, role.Permissions, 2)

	role, err = repo.RemovePermissions(ctx, "manager", []string{"user:list", "role:read"})
	require.NoError(t, err)
	assert.Equal(t, domain.StringSlice{"self:read"}, role.Permissions)

	role, err = repo.ReplacePermissions(ctx, "manager", []string{"user:read", "user:read", "user:update"})
	require.NoError(t, err)
	assert.Equal(t, domain.StringSlice{"user:read", "user:update"}, role.Permissions)

	_, err = repo.AddPermissions(ctx, "ghost", []string{"user:read"})
	assert.True(t, common.IsRecordNotFound(err))
}

func TestMemoryRoleRepository_GetPermissionsForRoles(t *testing.T) {
	repo := NewMemoryRoleRepository()
	ctx := context.Background()
	seedRole(t, repo, "manager", "user:read", "user:list", "self:read")
	seedRole(t, repo, "user", "self:read", "self:update")

	perms, err := repo.GetPermissionsForRoles(ctx, []string{"manager", "user", "user", "missing"})
	require.NoError(t, err)
	assert.Equal(t, []string{"self:read", "self:update", "user:list", "user:read"}, perms)

	perms, err = repo.GetPermissionsForRoles(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, perms)
	assert.Empty(t, perms)
}

func TestMemoryRoleRepository_SoftDelete(t *testing.T) {
	repo := NewMemoryRoleRepository()
	ctx := context.Background()
	seedRole(t, repo, "guest", "self:read")
	seedRole(t, repo, "user", "self:read", "self:update")

	require.NoError(t, repo.SoftDelete(ctx, "guest"))

	err := repo.SoftDelete(ctx, "guest")
	assert.True(t, common.IsRecordNotFound(err))

	_, err = repo.FindByName(ctx, "guest")
	assert.True(t, common.IsRecordNotFound(err))

	exists, err := repo.ExistsByName(ctx, "guest")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByName(ctx, "manager")
	require.NoError(t, err)
	assert.False(t, exists)

	perms, err := repo.GetPermissionsForRoles(ctx, []string{"guest"})
	require.NoError(t, err)
	assert.Empty(t, perms)

	roles, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "user", roles[0].Name)

	// The name is free again once the old role is inactive
	seedRole(t, repo, "guest")
}
