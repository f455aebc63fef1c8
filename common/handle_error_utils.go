package common

import (
	"errors"

	"go-rbac-api/domain"
)

func IsRecordNotFound(err error) bool {
	return errors.Is(err, domain.ErrRecordNotFound)
}

func IsDuplicateKey(err error) bool {
	return errors.Is(err, domain.ErrDuplicateKey)
}

// IsDetailError finds a DetailedError anywhere in the chain, by pointer or by value.
func IsDetailError(err error) (*domain.DetailedError, bool) {
	if err == nil {
		return nil, false
	}
	var pErr *domain.DetailedError
	if errors.As(err, &pErr) && pErr != nil {
		return pErr, true
	}
	var vErr domain.DetailedError
	if errors.As(err, &vErr) {
		return &vErr, true
	}
	return nil, false
}

// HasErrorID reports whether err is a DetailedError of the given kind,
// regardless of the message it was decorated with.
func HasErrorID(err error, id string) bool {
	de, ok := IsDetailError(err)
	return ok && de.ID() == id
}
