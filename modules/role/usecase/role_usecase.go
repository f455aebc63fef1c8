package usecase

import (
	"context"
	"errors"

	"go-rbac-api/domain"
	"go-rbac-api/pkg/log"
)

type RoleRepository interface {
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	FindAll(ctx context.Context) ([]*domain.Role, error)
	Create(ctx context.Context, role *domain.Role) error
	ReplacePermissions(ctx context.Context, name string, perms []string) (*domain.Role, error)
	AddPermissions(ctx context.Context, name string, perms []string) (*domain.Role, error)
	RemovePermissions(ctx context.Context, name string, perms []string) (*domain.Role, error)
	SoftDelete(ctx context.Context, name string) error
}

type roleUsecase struct {
	repo   RoleRepository
	logger log.Logger
}

func NewRoleUsecase(repo RoleRepository, logger log.Logger) domain.RoleUsecase {
	return &roleUsecase{repo: repo, logger: logger}
}

func (u *roleUsecase) FindAll(ctx context.Context) ([]*domain.Role, error) {
	roles, err := u.repo.FindAll(ctx)
	if err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	return roles, nil
}

func (u *roleUsecase) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	role, err := u.repo.FindByName(ctx, name)
	if err != nil {
		return nil, notFoundOr(err, name)
	}
	return role, nil
}

func (u *roleUsecase) Create(ctx context.Context, req *domain.RoleCreateRequest) (*domain.Role, error) {
	if req == nil {
		return nil, domain.ErrInvalidInput.WithReason("request body is required")
	}
	name, err := domain.ParseRoleName(req.Name)
	if err != nil {
		return nil, err
	}
	perms, err := domain.ParsePermissionNames(req.Permissions)
	if err != nil {
		return nil, err
	}

	role := &domain.Role{
		Name:        string(name),
		Description: req.Description,
		Permissions: domain.ReplacedPermissions(domain.PermissionNamesToStrings(perms)),
		Active:      true,
	}
	if err := u.repo.Create(ctx, role); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, domain.ErrRoleAlreadyExists.WithReasonf("role %q already exists", name)
		}
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}

	u.logger.InfoContext(ctx, "Role created", log.String("role", role.Name), log.Any("permissions", role.Permissions))
	return role, nil
}

func (u *roleUsecase) ReplacePermissions(ctx context.Context, name string, req *domain.RolePermissionsRequest) (*domain.Role, error) {
	return u.editPermissions(ctx, "replace", name, req, u.repo.ReplacePermissions)
}

func (u *roleUsecase) AddPermissions(ctx context.Context, name string, req *domain.RolePermissionsRequest) (*domain.Role, error) {
	return u.editPermissions(ctx, "add", name, req, u.repo.AddPermissions)
}

func (u *roleUsecase) RemovePermissions(ctx context.Context, name string, req *domain.RolePermissionsRequest) (*domain.Role, error) {
	return u.editPermissions(ctx, "remove", name, req, u.repo.RemovePermissions)
}

type permissionEdit func(ctx context.Context, name string, perms []string) (*domain.Role, error)

func (u *roleUsecase) editPermissions(ctx context.Context, op string, name string, req *domain.RolePermissionsRequest, edit permissionEdit) (*domain.Role, error) {
	if req == nil {
		return nil, domain.ErrInvalidInput.WithReason("permissions are required")
	}
	perms, err := domain.ParsePermissionNames(req.Permissions)
	if err != nil {
		return nil, err
	}

	role, err := edit(ctx, name, domain.PermissionNamesToStrings(perms))
	if err != nil {
		return nil, notFoundOr(err, name)
	}

	u.logger.InfoContext(ctx, "Role permissions updated",
		log.String("role", name),
		log.String("op", op),
		log.Any("permissions", role.Permissions))
	return role, nil
}

func (u *roleUsecase) Delete(ctx context.Context, name string) error {
	if err := u.repo.SoftDelete(ctx, name); err != nil {
		return notFoundOr(err, name)
	}
	u.logger.InfoContext(ctx, "Role deactivated", log.String("role", name))
	return nil
}

func notFoundOr(err error, name string) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.ErrRoleNotFound.WithReasonf("role %q not found", name)
	}
	return domain.ErrInternalServerError.WithWrap(err)
}
