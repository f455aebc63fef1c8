package repository

import (
	"context"
	"testing"

	"go-rbac-api/common"
	"go-rbac-api/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUserRepository_CreateAndFind(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user := &domain.User{Email: "a@example.com", Username: "a"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)
	assert.NotZero(t, user.CreatedAt)
	assert.NotNil(t, user.Roles)

	found, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	err = repo.Create(ctx, &domain.User{Email: "a@example.com"})
	assert.True(t, common.IsDuplicateKey(err))

	_, err = repo.FindByID(ctx, "missing")
	assert.True(t, common.IsRecordNotFound(err))
}

func TestMemoryUserRepository_RefreshToken(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user := &domain.User{Email: "a@example.com"}
	require.NoError(t, repo.Create(ctx, user))

	_, err := repo.FindByRefreshToken(ctx, "")
	assert.True(t, common.IsRecordNotFound(err))

	require.NoError(t, repo.SetRefreshToken(ctx, user.ID, "token-1"))
	found, err := repo.FindByRefreshToken(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	require.NoError(t, repo.SetRefreshToken(ctx, user.ID, "token-2"))
	_, err = repo.FindByRefreshToken(ctx, "token-1")
	assert.True(t, common.IsRecordNotFound(err))

	err = repo.SetRefreshToken(ctx, "missing", "token")
	assert.True(t, common.IsRecordNotFound(err))
}

func TestMemoryUserRepository_SoftDelete(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user := &domain.User{Email: "a@example.com"}
	require.NoError(t, repo.Create(ctx, user))
	require.NoError(t, repo.SetRefreshToken(ctx, user.ID, "token"))

	require.NoError(t, repo.SoftDelete(ctx, user.ID))
	assert.True(t, common.IsRecordNotFound(repo.SoftDelete(ctx, user.ID)))

	_, err := repo.FindByID(ctx, user.ID)
	assert.True(t, common.IsRecordNotFound(err))
	_, err = repo.FindByRefreshToken(ctx, "token")
	assert.True(t, common.IsRecordNotFound(err))

	// Deleted accounts keep their email reserved
	err = repo.Create(ctx, &domain.User{Email: "a@example.com"})
	assert.True(t, common.IsDuplicateKey(err))

	includeDeleted := true
	users, page, err := repo.FindPage(ctx, &domain.UserFilter{IncludeDeleted: &includeDeleted}, nil)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, int64(1), page.TotalItems)
}
