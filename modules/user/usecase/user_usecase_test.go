package usecase

import (
	"context"
	"fmt"
	"testing"

	"go-rbac-api/common"
	"go-rbac-api/domain"
	"go-rbac-api/modules/user/repository"
	"go-rbac-api/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUsers(t *testing.T, repo *repository.MemoryUserRepository, n int) []*domain.User {
	t.Helper()
	users := make([]*domain.User, 0, n)
	for i := 0; i < n; i++ {
		user := &domain.User{
			Email:        fmt.Sprintf("user%d@example.com", i),
			Username:     fmt.Sprintf("user%d", i),
			Password:     "hash",
			Salt:         "salt",
			RefreshToken: fmt.Sprintf("token-%d", i),
			Roles:        domain.StringSlice{"user"},
		}
		require.NoError(t, repo.Create(context.Background(), user))
		users = append(users, user)
	}
	return users
}

func TestUserUsecase_FindByID(t *testing.T) {
	repo := repository.NewMemoryUserRepository()
	users := seedUsers(t, repo, 1)
	uc := NewUserUsecase(repo, log.NewNopLogger())

	user, err := uc.FindByID(context.Background(), users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "user0@example.com", user.Email)
	assert.Empty(t, user.Password)
	assert.Empty(t, user.Salt)
	assert.Empty(t, user.RefreshToken)

	_, err = uc.FindByID(context.Background(), "missing")
	assert.True(t, common.HasErrorID(err, domain.ErrUserNotFound.ID()))
}

func TestUserUsecase_FindPage(t *testing.T) {
	repo := repository.NewMemoryUserRepository()
	seedUsers(t, repo, 7)
	uc := NewUserUsecase(repo, log.NewNopLogger())
	ctx := context.Background()

	resp, err := uc.FindPage(ctx, &domain.UserListRequest{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, resp.Users, 3)
	assert.Equal(t, &domain.Pagination{Page: 2, PerPage: 3, TotalPages: 3, TotalItems: 7}, resp.Pagination)
	for _, user := range resp.Users {
		assert.Empty(t, user.Password)
	}

	resp, err = uc.FindPage(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, resp.Users, 7)
	assert.Equal(t, 10, resp.Pagination.PerPage)

	resp, err = uc.FindPage(ctx, &domain.UserListRequest{Page: 5, Limit: 3})
	require.NoError(t, err)
	assert.Empty(t, resp.Users)
}

func TestUserUsecase_Delete(t *testing.T) {
	repo := repository.NewMemoryUserRepository()
	users := seedUsers(t, repo, 2)
	uc := NewUserUsecase(repo, log.NewNopLogger())
	ctx := context.Background()

	deleted, err := uc.Delete(ctx, users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, users[0].ID, deleted.ID)
	assert.Empty(t, deleted.Password)

	_, err = uc.FindByID(ctx, users[0].ID)
	assert.True(t, common.HasErrorID(err, domain.ErrUserNotFound.ID()))

	_, err = uc.Delete(ctx, users[0].ID)
	assert.True(t, common.HasErrorID(err, domain.ErrUserNotFound.ID()))

	resp, err := uc.FindPage(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, resp.Users, 1)
	assert.Equal(t, int64(1), resp.Pagination.TotalItems)
}
