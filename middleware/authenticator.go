package middleware

import (
	"context"

	"go-rbac-api/domain"
)

type JwtProvider interface {
	Verify(tokenType domain.TokenType, tokenStr string) (*domain.JwtClaims, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, userID string) (*domain.User, error)
}
