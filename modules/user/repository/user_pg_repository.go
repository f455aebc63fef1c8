package repository

import (
	"context"

	"go-rbac-api/database"
	"go-rbac-api/domain"
	"go-rbac-api/pkg/utils"

	"gorm.io/gorm"
)

type PgUserRepository struct {
	sqlHandler *database.SQLHandler[domain.User, domain.UserFilter]
}

func NewPgUserRepository(db *gorm.DB) *PgUserRepository {
	sqlHandler := database.NewSQLHandler[domain.User](db, applyFilter)
	return &PgUserRepository{
		sqlHandler: sqlHandler,
	}
}

func applyFilter(qb *gorm.DB, filter *domain.UserFilter) *gorm.DB {
	if filter == nil {
		return qb.Where("deleted_at = 0")
	}

	if filter.ID != nil {
		qb = qb.Where("id = ?", *filter.ID)
	}
	if len(filter.IDIn) > 0 {
		qb = qb.Where("id IN (?)", filter.IDIn)
	}
	if filter.Email != nil {
		qb = qb.Where("email = ?", *filter.Email)
	}
	if filter.RefreshToken != nil {
		qb = qb.Where("refresh_token = ?", *filter.RefreshToken)
	}
	if filter.IncludeDeleted == nil || !*filter.IncludeDeleted {
		qb = qb.Where("deleted_at = 0")
	}

	return qb
}

func (r *PgUserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.Roles == nil {
		user.Roles = domain.StringSlice{}
	}
	user.Stamp(utils.NowUnixMillis())
	return r.sqlHandler.Create(ctx, user)
}

func (r *PgUserRepository) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.sqlHandler.FindOne(ctx, &domain.UserFilter{ID: &userID})
}

func (r *PgUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.sqlHandler.FindOne(ctx, &domain.UserFilter{Email: &email})
}

func (r *PgUserRepository) FindByRefreshToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrRecordNotFound
	}
	return r.sqlHandler.FindOne(ctx, &domain.UserFilter{RefreshToken: &token})
}

func (r *PgUserRepository) FindPage(ctx context.Context, filter *domain.UserFilter, option *domain.FindPageOption) ([]*domain.User, *domain.Pagination, error) {
	if option != nil && len(option.Sort) == 0 {
		option.Sort = []string{"created_at ASC"}
	}
	return r.sqlHandler.FindPage(ctx, filter, option)
}

// SetRefreshToken stores the single live refresh token; an empty token clears it.
func (r *PgUserRepository) SetRefreshToken(ctx context.Context, userID string, token string) error {
	return r.sqlHandler.UpdateFields(ctx, userID, map[string]any{
		"refresh_token": token,
	})
}

func (r *PgUserRepository) SoftDelete(ctx context.Context, userID string) error {
	return r.sqlHandler.DeleteByID(ctx, userID, map[string]any{"refresh_token": ""})
}
