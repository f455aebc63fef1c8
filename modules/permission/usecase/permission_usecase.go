package usecase

import (
	"context"
	"errors"

	"go-rbac-api/domain"
)

type PermissionRepository interface {
	FindAll(ctx context.Context, filter *domain.PermissionFilter) ([]*domain.Permission, error)
	FindByName(ctx context.Context, name string) (*domain.Permission, error)
}

type permissionUsecase struct {
	repo PermissionRepository
}

func NewPermissionUsecase(repo PermissionRepository) domain.PermissionUsecase {
	return &permissionUsecase{repo: repo}
}

func (u *permissionUsecase) FindAll(ctx context.Context, filter *domain.PermissionFilter) ([]*domain.Permission, error) {
	perms, err := u.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	return perms, nil
}

func (u *permissionUsecase) FindByName(ctx context.Context, name string) (*domain.Permission, error) {
	if _, err := domain.ParsePermissionName(name); err != nil {
		return nil, domain.ErrPermissionNotFound.WithReasonf("permission %q not found", name)
	}
	perm, err := u.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrPermissionNotFound.WithReasonf("permission %q not found", name)
		}
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	return perm, nil
}
