package domain

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

/****************************
*        Auth errors        *
****************************/
var (
	ErrInvalidCredentials   = newError("INVALID_CREDENTIALS", http.StatusUnauthorized, "Invalid email or password")
	ErrInvalidToken         = newError("INVALID_OR_EXPIRED_TOKEN", http.StatusUnauthorized, "Invalid or expired token")
	ErrRefreshTokenNotFound = newError("REFRESH_TOKEN_NOT_FOUND", http.StatusNotFound, "No active session holds this refresh token")
	ErrTokenSubjectMismatch = newError("TOKEN_SUBJECT_MISMATCH", http.StatusForbidden, "Refresh token does not belong to this user")
	ErrSignupRolesDisabled  = newError("SIGNUP_ROLES_DISABLED", http.StatusForbidden, "Roles cannot be chosen at sign up")
)

/***************************************
*       Auth entities and types       *
***************************************/

type TokenType int

const (
	TokenTypeAccess TokenType = iota
	TokenTypeRefresh
)

func (t TokenType) String() string {
	switch t {
	case TokenTypeAccess:
		return "access"
	case TokenTypeRefresh:
		return "refresh"
	default:
		return "unknown"
	}
}

type JwtClaims struct {
	Typ string `json:"typ"`
	jwt.RegisteredClaims
}

/*************************************
*  Auth usecase interfaces and types *
**************************************/
type AuthUsecase interface {
	Register(ctx context.Context, req *RegisterRequest) (*User, error)
	Authenticate(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	SignOut(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, refreshToken string) (*RefreshResponse, error)
	Permissions(ctx context.Context, user *User) ([]string, error)
}

type RegisterRequest struct {
	Email     string   `json:"email" binding:"required,email"`
	Password  string   `json:"password" binding:"required,min=8,max=128"`
	Username  string   `json:"username" binding:"required,min=3,max=50"`
	FirstName string   `json:"firstname" binding:"omitempty,max=50"`
	LastName  string   `json:"lastname" binding:"omitempty,max=50"`
	Image     string   `json:"image" binding:"omitempty,url,max=512"`
	Roles     []string `json:"roles" binding:"omitempty,dive,role_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}
