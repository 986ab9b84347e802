package errors

import "errors"

var (
	ErrNotFound = errors.New("rating not found")

	ErrInvalidID = errors.New("invalid rating ID format")

	ErrDuplicate = errors.New("rating already exists for this booking")
)
