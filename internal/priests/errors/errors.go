package errors

import "errors"

var (
	ErrNotFound = errors.New("priest profile not found")

	ErrInvalidID = errors.New("invalid priest ID format")

	ErrDuplicateProfile = errors.New("priest profile already exists for this user")
)
