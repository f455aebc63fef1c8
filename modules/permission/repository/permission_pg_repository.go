package repository

import (
	"context"

	"go-rbac-api/database"
	"go-rbac-api/domain"
	"go-rbac-api/pkg/utils"

	"gorm.io/gorm"
)

type PgPermissionRepository struct {
	sqlHandler *database.SQLHandler[domain.Permission, domain.PermissionFilter]
}

func NewPgPermissionRepository(db *gorm.DB) *PgPermissionRepository {
	return &PgPermissionRepository{
		sqlHandler: database.NewSQLHandler[domain.Permission](db, applyFilter),
	}
}

func applyFilter(qb *gorm.DB, filter *domain.PermissionFilter) *gorm.DB {
	qb = qb.Where("active = ? AND deleted_at = 0", true)
	if filter == nil {
		return qb
	}
	if filter.Name != nil {
		qb = qb.Where("name = ?", *filter.Name)
	}
	if filter.Resource != nil {
		qb = qb.Where("resource = ?", *filter.Resource)
	}
	return qb
}

func (r *PgPermissionRepository) FindAll(ctx context.Context, filter *domain.PermissionFilter) ([]*domain.Permission, error) {
	return r.sqlHandler.FindMany(ctx, filter, []string{"name ASC"})
}

func (r *PgPermissionRepository) FindByName(ctx context.Context, name string) (*domain.Permission, error) {
	return r.sqlHandler.FindOne(ctx, &domain.PermissionFilter{Name: &name})
}

func (r *PgPermissionRepository) Create(ctx context.Context, permission *domain.Permission) error {
	permission.Active = true
	permission.Stamp(utils.NowUnixMillis())
	return r.sqlHandler.Create(ctx, permission)
}
