package repository

import (
	"context"
	"sort"
	"sync"

	"go-rbac-api/domain"
	"go-rbac-api/pkg/utils"

	"github.com/samber/lo"
)

// MemoryRoleRepository keeps roles in process. Used by the memory provider and tests.
type MemoryRoleRepository struct {
	mu    sync.RWMutex
	roles map[string]*domain.Role // by id, inactive roles included
}

func NewMemoryRoleRepository() *MemoryRoleRepository {
	return &MemoryRoleRepository{roles: map[string]*domain.Role{}}
}

func cloneRole(role *domain.Role) *domain.Role {
	out := *role
	out.Permissions = append(domain.StringSlice{}, role.Permissions...)
	return &out
}

// activeByName must be called with mu held.
func (m *MemoryRoleRepository) activeByName(name string) (*domain.Role, bool) {
	return lo.Find(lo.Values(m.roles), func(role *domain.Role) bool {
		return role.Active && role.Name == name
	})
}

func (m *MemoryRoleRepository) FindByName(_ context.Context, name string) (*domain.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	role, ok := m.activeByName(name)
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return cloneRole(role), nil
}

// ExistsByName reports whether any role, deactivated ones included, carries name.
func (m *MemoryRoleRepository) ExistsByName(_ context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return lo.SomeBy(lo.Values(m.roles), func(role *domain.Role) bool {
		return role.Name == name
	}), nil
}

func (m *MemoryRoleRepository) FindAll(_ context.Context) ([]*domain.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	roles := lo.FilterMap(lo.Values(m.roles), func(role *domain.Role, _ int) (*domain.Role, bool) {
		if !role.Active {
			return nil, false
		}
		return cloneRole(role), true
	})
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return roles, nil
}

func (m *MemoryRoleRepository) GetPermissionsForRoles(_ context.Context, names []string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var roles []*domain.Role
	for _, name := range lo.Uniq(names) {
		if role, ok := m.activeByName(name); ok {
			roles = append(roles, role)
		}
	}
	return unionPermissions(roles), nil
}

func (m *MemoryRoleRepository) Create(_ context.Context, role *domain.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.activeByName(role.Name); ok {
		return domain.ErrDuplicateKey
	}
	if role.Permissions == nil {
		role.Permissions = domain.StringSlice{}
	}
	role.Active = true
	role.Stamp(utils.NowUnixMillis())
	m.roles[role.ID] = cloneRole(role)
	return nil
}

func (m *MemoryRoleRepository) ReplacePermissions(_ context.Context, name string, perms []string) (*domain.Role, error) {
	return m.mutate(name, func(current []string) domain.StringSlice {
		return domain.ReplacedPermissions(perms)
	})
}

func (m *MemoryRoleRepository) AddPermissions(_ context.Context, name string, perms []string) (*domain.Role, error) {
	return m.mutate(name, func(current []string) domain.StringSlice {
		return domain.AddedPermissions(current, perms)
	})
}

func (m *MemoryRoleRepository) RemovePermissions(_ context.Context, name string, perms []string) (*domain.Role, error) {
	return m.mutate(name, func(current []string) domain.StringSlice {
		return domain.RemovedPermissions(current, perms)
	})
}

func (m *MemoryRoleRepository) mutate(name string, fn func([]string) domain.StringSlice) (*domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	role, ok := m.activeByName(name)
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	role.Permissions = fn(role.Permissions)
	role.UpdatedAt = utils.NowUnixMillis()
	return cloneRole(role), nil
}

func (m *MemoryRoleRepository) SoftDelete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	role, ok := m.activeByName(name)
	if !ok {
		return domain.ErrRecordNotFound
	}
	now := utils.NowUnixMillis()
	role.Active = false
	role.DeletedAt = now
	role.UpdatedAt = now
	return nil
}
