package domain

import "errors"

var (
	ErrNotAuthenticated      = errors.New("not authenticated")
	ErrNotFound              = errors.New("not found")
	ErrDuplicateRelationship = errors.New("relationship already exists")
	ErrBackendUnavailable    = errors.New("backend unavailable")
	ErrPartialWrite          = errors.New("partial write")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrForbidden             = errors.New("forbidden")
)
