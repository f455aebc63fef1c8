package repository

import (
	"context"
	"sort"

	"go-rbac-api/database"
	"go-rbac-api/domain"
	"go-rbac-api/pkg/utils"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PgRoleRepository struct {
	sqlHandler *database.SQLHandler[domain.Role, domain.RoleFilter]
}

func NewPgRoleRepository(db *gorm.DB) *PgRoleRepository {
	return &PgRoleRepository{
		sqlHandler: database.NewSQLHandler[domain.Role](db, applyFilter),
	}
}

// applyFilter only matches active roles unless Active or AnyState say otherwise.
func applyFilter(qb *gorm.DB, filter *domain.RoleFilter) *gorm.DB {
	if filter == nil {
		return qb.Where("active = ?", true)
	}

	if !filter.AnyState {
		active := true
		if filter.Active != nil {
			active = *filter.Active
		}
		qb = qb.Where("active = ?", active)
	}
	if filter.Name != nil {
		qb = qb.Where("name = ?", *filter.Name)
	}
	if len(filter.NameIn) > 0 {
		qb = qb.Where("name IN (?)", filter.NameIn)
	}
	return qb
}

func (r *PgRoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.sqlHandler.FindOne(ctx, &domain.RoleFilter{Name: &name})
}

// ExistsByName reports whether any row, deactivated ones included, carries name.
func (r *PgRoleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	count, err := r.sqlHandler.Count(ctx, &domain.RoleFilter{Name: &name, AnyState: true})
	return count > 0, err
}

func (r *PgRoleRepository) FindAll(ctx context.Context) ([]*domain.Role, error) {
	return r.sqlHandler.FindMany(ctx, nil, []string{"name ASC"})
}

func (r *PgRoleRepository) GetPermissionsForRoles(ctx context.Context, names []string) ([]string, error) {
	names = lo.Uniq(names)
	if len(names) == 0 {
		return []string{}, nil
	}
	roles, err := r.sqlHandler.FindMany(ctx, &domain.RoleFilter{NameIn: names}, nil)
	if err != nil {
		return nil, err
	}
	return unionPermissions(roles), nil
}

func (r *PgRoleRepository) Create(ctx context.Context, role *domain.Role) error {
	if role.Permissions == nil {
		role.Permissions = domain.StringSlice{}
	}
	role.Active = true
	role.Stamp(utils.NowUnixMillis())
	return r.sqlHandler.Create(ctx, role)
}

func (r *PgRoleRepository) ReplacePermissions(ctx context.Context, name string, perms []string) (*domain.Role, error) {
	return r.mutatePermissions(ctx, name, func(current []string) domain.StringSlice {
		return domain.ReplacedPermissions(perms)
	})
}

func (r *PgRoleRepository) AddPermissions(ctx context.Context, name string, perms []string) (*domain.Role, error) {
	return r.mutatePermissions(ctx, name, func(current []string) domain.StringSlice {
		return domain.AddedPermissions(current, perms)
	})
}

func (r *PgRoleRepository) RemovePermissions(ctx context.Context, name string, perms []string) (*domain.Role, error) {
	return r.mutatePermissions(ctx, name, func(current []string) domain.StringSlice {
		return domain.RemovedPermissions(current, perms)
	})
}

// mutatePermissions locks the active role row so concurrent edits serialize.
func (r *PgRoleRepository) mutatePermissions(ctx context.Context, name string, mutate func([]string) domain.StringSlice) (*domain.Role, error) {
	var updated *domain.Role
	err := r.sqlHandler.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role, err := r.sqlHandler.FindOne(ctx, &domain.RoleFilter{Name: &name},
			database.WithTx(tx.Clauses(clause.Locking{Strength: "UPDATE"})))
		if err != nil {
			return err
		}

		role.Permissions = mutate(role.Permissions)
		role.UpdatedAt = utils.NowUnixMillis()
		err = r.sqlHandler.UpdateFields(ctx, role.ID, map[string]any{
			"permissions": role.Permissions,
			"updated_at":  role.UpdatedAt,
		}, database.WithTx(tx))
		if err != nil {
			return err
		}
		updated = role
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SoftDelete deactivates the active role called name. A second call finds nothing.
func (r *PgRoleRepository) SoftDelete(ctx context.Context, name string) error {
	role, err := r.FindByName(ctx, name)
	if err != nil {
		return err
	}
	return r.sqlHandler.DeleteByID(ctx, role.ID, map[string]any{"active": false})
}

func unionPermissions(roles []*domain.Role) []string {
	perms := lo.Uniq(lo.FlatMap(roles, func(role *domain.Role, _ int) []string {
		return role.Permissions
	}))
	sort.Strings(perms)
	return perms
}
