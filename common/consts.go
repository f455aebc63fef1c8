package common

import "github.com/google/uuid"

const (
	UserContextKey      = "auth_user"
	RequestIDContextKey = "request_id"
	RequestIDHeader     = "X-Request-ID"
)

func GenerateUUID() string {
	return uuid.NewString()
}
