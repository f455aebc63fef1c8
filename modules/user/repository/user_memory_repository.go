package repository

import (
	"context"
	"sort"
	"sync"

	"go-rbac-api/domain"
	"go-rbac-api/pkg/utils"

	"github.com/samber/lo"
)

type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: map[string]*domain.User{}}
}

func cloneUser(user *domain.User) *domain.User {
	out := *user
	out.Roles = append(domain.StringSlice{}, user.Roles...)
	return &out
}

func (m *MemoryUserRepository) findLive(match func(*domain.User) bool) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := lo.Find(lo.Values(m.users), func(u *domain.User) bool {
		return !u.IsDeleted() && match(u)
	})
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return cloneUser(user), nil
}

func (m *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if lo.SomeBy(lo.Values(m.users), func(u *domain.User) bool { return u.Email == user.Email }) {
		return domain.ErrDuplicateKey
	}
	if user.Roles == nil {
		user.Roles = domain.StringSlice{}
	}
	user.Stamp(utils.NowUnixMillis())
	m.users[user.ID] = cloneUser(user)
	return nil
}

func (m *MemoryUserRepository) FindByID(_ context.Context, userID string) (*domain.User, error) {
	return m.findLive(func(u *domain.User) bool { return u.ID == userID })
}

func (m *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return m.findLive(func(u *domain.User) bool { return u.Email == email })
}

func (m *MemoryUserRepository) FindByRefreshToken(_ context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrRecordNotFound
	}
	return m.findLive(func(u *domain.User) bool { return u.RefreshToken == token })
}

func (m *MemoryUserRepository) FindPage(_ context.Context, filter *domain.UserFilter, option *domain.FindPageOption) ([]*domain.User, *domain.Pagination, error) {
	if option == nil {
		option = &domain.FindPageOption{}
	}
	option.Normalize()

	m.mu.RLock()
	defer m.mu.RUnlock()

	includeDeleted := filter != nil && filter.IncludeDeleted != nil && *filter.IncludeDeleted
	users := lo.Filter(lo.Values(m.users), func(u *domain.User, _ int) bool {
		if u.IsDeleted() && !includeDeleted {
			return false
		}
		if filter == nil {
			return true
		}
		if filter.ID != nil && u.ID != *filter.ID {
			return false
		}
		if len(filter.IDIn) > 0 && !lo.Contains(filter.IDIn, u.ID) {
			return false
		}
		if filter.Email != nil && u.Email != *filter.Email {
			return false
		}
		return true
	})
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt != users[j].CreatedAt {
			return users[i].CreatedAt < users[j].CreatedAt
		}
		return users[i].ID < users[j].ID
	})

	total := int64(len(users))
	start := min(option.Offset(), len(users))
	end := min(start+option.PerPage, len(users))
	page := lo.Map(users[start:end], func(u *domain.User, _ int) *domain.User { return cloneUser(u) })

	return page, domain.NewPagination(option.Page, option.PerPage, total), nil
}

func (m *MemoryUserRepository) SetRefreshToken(_ context.Context, userID string, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok || user.IsDeleted() {
		return domain.ErrRecordNotFound
	}
	user.RefreshToken = token
	user.UpdatedAt = utils.NowUnixMillis()
	return nil
}

func (m *MemoryUserRepository) SoftDelete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok || user.IsDeleted() {
		return domain.ErrRecordNotFound
	}
	now := utils.NowUnixMillis()
	user.DeletedAt = now
	user.UpdatedAt = now
	user.RefreshToken = ""
	return nil
}
