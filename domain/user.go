package domain

import (
	"context"
	"net/http"
	"strings"

	"github.com/samber/lo"
)

/****************************
*        User errors        *
****************************/
var (
	ErrUserNotFound       = newError("USER_NOT_FOUND", http.StatusNotFound, "User not found")
	ErrEmailAlreadyExists = newError("EMAIL_ALREADY_EXISTS", http.StatusBadRequest, "User with this email already exists")
	ErrUserCreationFailed = newError("USER_CREATION_FAILED", http.StatusInternalServerError, "Failed to create user")
	ErrUserDeletionFailed = newError("USER_DELETION_FAILED", http.StatusInternalServerError, "Failed to delete user")
	ErrPasswordHashFailed = newError("PASSWORD_HASH_FAILED", http.StatusInternalServerError, "Failed to hash password")
)

/***************************************
*       User entities and types       *
***************************************/

// User holds credentials and role names. Credential fields never serialize.
type User struct {
	SQLModel     `bson:",inline"`
	Email        string      `json:"email" bson:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Username     string      `json:"username" bson:"username" gorm:"type:varchar(50);not null"`
	FirstName    string      `json:"firstname" bson:"first_name" gorm:"type:varchar(50)"`
	LastName     string      `json:"lastname" bson:"last_name" gorm:"type:varchar(50)"`
	Image        string      `json:"image,omitempty" bson:"image,omitempty" gorm:"type:varchar(512)"`
	Roles        StringSlice `json:"roles" bson:"roles" gorm:"type:jsonb;not null"`
	Password     string      `json:"-" bson:"password" gorm:"type:varchar(128);not null"`
	Salt         string      `json:"-" bson:"salt" gorm:"type:varchar(64)"`
	RefreshToken string      `json:"-" bson:"refresh_token,omitempty" gorm:"type:text;index"`
}

// Sanitize returns a copy without credential material.
func (u *User) Sanitize() *User {
	if u == nil {
		return nil
	}
	out := *u
	out.Password = ""
	out.Salt = ""
	out.RefreshToken = ""
	out.Roles = append(StringSlice{}, u.Roles...)
	return &out
}

func (u *User) HasAnyRole(roles ...RoleName) bool {
	if u == nil || len(u.Roles) == 0 || len(roles) == 0 {
		return false
	}
	return lo.SomeBy(roles, func(r RoleName) bool {
		return lo.Contains(u.Roles, string(r))
	})
}

// NormalizeEmail lowercases and trims so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type UserFilter struct {
	ID             *string  `json:"id" form:"id"`
	IDIn           []string `json:"id_in" form:"id_in"`
	Email          *string  `json:"email" form:"email"`
	RefreshToken   *string  `json:"-" form:"-"`
	IncludeDeleted *bool    `json:"include_deleted" form:"include_deleted"`
}

/**********************************************
*       User usecase interfaces and types      *
**********************************************/
type UserUsecase interface {
	FindByID(ctx context.Context, userID string) (*User, error)
	FindPage(ctx context.Context, req *UserListRequest) (*UserListResponse, error)
	Delete(ctx context.Context, userID string) (*User, error)
}

type UserListRequest struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

type UserListResponse struct {
	Users      []*User     `json:"users"`
	Pagination *Pagination `json:"pagination"`
}
