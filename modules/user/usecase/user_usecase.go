package usecase

import (
	"context"
	"errors"

	"go-rbac-api/domain"
	"go-rbac-api/pkg/log"
)

type UserRepository interface {
	FindByID(ctx context.Context, userID string) (*domain.User, error)
	FindPage(ctx context.Context, filter *domain.UserFilter, option *domain.FindPageOption) ([]*domain.User, *domain.Pagination, error)
	SoftDelete(ctx context.Context, userID string) error
}

type userUsecase struct {
	repo   UserRepository
	logger log.Logger
}

func NewUserUsecase(repo UserRepository, logger log.Logger) domain.UserUsecase {
	return &userUsecase{repo: repo, logger: logger}
}

func (u *userUsecase) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := u.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, userNotFoundOr(err)
	}
	return user.Sanitize(), nil
}

func (u *userUsecase) FindPage(ctx context.Context, req *domain.UserListRequest) (*domain.UserListResponse, error) {
	option := &domain.FindPageOption{}
	if req != nil {
		option.Page = req.Page
		option.PerPage = req.Limit
	}

	users, pagination, err := u.repo.FindPage(ctx, nil, option)
	if err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}

	out := make([]*domain.User, len(users))
	for i, user := range users {
		out[i] = user.Sanitize()
	}
	return &domain.UserListResponse{Users: out, Pagination: pagination}, nil
}

func (u *userUsecase) Delete(ctx context.Context, userID string) (*domain.User, error) {
	user, err := u.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, userNotFoundOr(err)
	}

	if err := u.repo.SoftDelete(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.ErrUserDeletionFailed.WithWrap(err)
	}

	u.logger.InfoContext(ctx, "User deleted", log.String("deleted_user_id", userID))
	return user.Sanitize(), nil
}

func userNotFoundOr(err error) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.ErrUserNotFound
	}
	return domain.ErrInternalServerError.WithWrap(err)
}
