package repository

import (
	"context"
	"sort"
	"sync"

	"go-rbac-api/domain"
	"go-rbac-api/pkg/utils"
)

type MemoryPermissionRepository struct {
	mu          sync.RWMutex
	permissions map[string]domain.Permission // by name
}

func NewMemoryPermissionRepository() *MemoryPermissionRepository {
	return &MemoryPermissionRepository{permissions: map[string]domain.Permission{}}
}

func (m *MemoryPermissionRepository) FindAll(_ context.Context, filter *domain.PermissionFilter) ([]*domain.Permission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.Permission, 0, len(m.permissions))
	for _, p := range m.permissions {
		if !p.Active {
			continue
		}
		if filter != nil && filter.Name != nil && p.Name != *filter.Name {
			continue
		}
		if filter != nil && filter.Resource != nil && p.Resource != *filter.Resource {
			continue
		}
		perm := p
		out = append(out, &perm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryPermissionRepository) FindByName(_ context.Context, name string) (*domain.Permission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.permissions[name]
	if !ok || !p.Active {
		return nil, domain.ErrRecordNotFound
	}
	return &p, nil
}

func (m *MemoryPermissionRepository) Create(_ context.Context, permission *domain.Permission) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.permissions[permission.Name]; ok {
		return domain.ErrDuplicateKey
	}
	permission.Active = true
	permission.Stamp(utils.NowUnixMillis())
	m.permissions[permission.Name] = *permission
	return nil
}
