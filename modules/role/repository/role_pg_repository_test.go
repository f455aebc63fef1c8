package repository

import (
	"context"
	"regexp"
	"testing"

	"go-rbac-api/common"
	"go-rbac-api/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var roleColumns = []string{"id", "created_at", "updated_at", "deleted_at", "name", "description", "permissions", "active"}

func newMockRoleRepository(t *testing.T) (*PgRoleRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	return NewPgRoleRepository(gormDB), mock
}

func TestPgRoleRepository_FindByName(t *testing.T) {
	repo, mock := newMockRoleRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "roles" WHERE active = $1 AND name = $2`)).
		WillReturnRows(sqlmock.NewRows(roleColumns).
			AddRow("r1", 1, 1, 0, "manager", "Manager", `["user:read","self:read"]`, true))

	role, err := repo.FindByName(context.Background(), "manager")
	require.NoError(t, err)
	assert.Equal(t, "r1", role.ID)
	assert.Equal(t, domain.StringSlice{"user:read", "self:read"}, role.Permissions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgRoleRepository_FindByName_NotFound(t *testing.T) {
	repo, mock := newMockRoleRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "roles" WHERE active = $1 AND name = $2`)).
		WillReturnRows(sqlmock.NewRows(roleColumns))

	_, err := repo.FindByName(context.Background(), "ghost")
	assert.True(t, common.IsRecordNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgRoleRepository_GetPermissionsForRoles(t *testing.T) {
	repo, mock := newMockRoleRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "roles" WHERE active = $1 AND name IN ($2,$3)`)).
		WithArgs(true, "manager", "user").
		WillReturnRows(sqlmock.NewRows(roleColumns).
			AddRow("r1", 1, 1, 0, "manager", "", `["user:read","self:read"]`, true).
			AddRow("r2", 1, 1, 0, "user", "", `["self:read","self:update"]`, true))

	perms, err := repo.GetPermissionsForRoles(context.Background(), []string{"manager", "user", "manager"})
	require.NoError(t, err)
	assert.Equal(t, []string{"self:read", "self:update", "user:read"}, perms)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgRoleRepository_GetPermissionsForRoles_NoRoles(t *testing.T) {
	repo, mock := newMockRoleRepository(t)

	perms, err := repo.GetPermissionsForRoles(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{}, perms)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgRoleRepository_AddPermissions_LocksRow(t *testing.T) {
	repo, mock := newMockRoleRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "roles" WHERE active = \$1 AND name = \$2 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(roleColumns).
			AddRow("r1", 1, 1, 0, "manager", "", `["self:read"]`, true))
	mock.ExpectExec(`UPDATE "roles" SET .* WHERE id = \$\d+ AND deleted_at = 0`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	role, err := repo.AddPermissions(context.Background(), "manager", []string{"user:list", "self:read"})
	require.NoError(t, err)
	assert.Equal(t, domain.StringSlice{"self:read", "user:list"}, role.Permissions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgRoleRepository_RemovePermissions_NotFoundRollsBack(t *testing.T) {
	repo, mock := newMockRoleRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "roles" WHERE active = \$1 AND name = \$2 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(roleColumns))
	mock.ExpectRollback()

	_, err := repo.RemovePermissions(context.Background(), "ghost", []string{"self:read"})
	assert.True(t, common.IsRecordNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgRoleRepository_SoftDelete(t *testing.T) {
	repo, mock := newMockRoleRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "roles" WHERE active = $1 AND name = $2`)).
		WillReturnRows(sqlmock.NewRows(roleColumns).
			AddRow("r1", 1, 1, 0, "guest", "", `["self:read"]`, true))
	mock.ExpectExec(`UPDATE "roles" SET .*"active"=\$\d+.* WHERE id = \$\d+ AND deleted_at = 0`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SoftDelete(context.Background(), "guest"))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "roles" WHERE active = $1 AND name = $2`)).
		WillReturnRows(sqlmock.NewRows(roleColumns))

	err := repo.SoftDelete(context.Background(), "guest")
	assert.True(t, common.IsRecordNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgRoleRepository_ExistsByName(t *testing.T) {
	repo, mock := newMockRoleRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "roles" WHERE name = $1`)).
		WithArgs("manager").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsByName(context.Background(), "manager")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
